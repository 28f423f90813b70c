package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.TimetableFilter) ([]models.TimetableDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.TimetableDetail, error)
	Create(ctx context.Context, slot *models.Timetable) error
	Update(ctx context.Context, slot *models.Timetable) error
	Delete(ctx context.Context, id string) error
}

// TimetableService manages weekly class slots.
type TimetableService struct {
	repo      timetableRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs the service.
func NewTimetableService(repo timetableRepository, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns slots visible to the caller.
func (s *TimetableService) List(ctx context.Context, p *models.Principal, filter models.TimetableFilter) ([]models.TimetableDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "timetable", "list timetables")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a slot visible to the caller.
func (s *TimetableService) Get(ctx context.Context, p *models.Principal, id string) (*models.TimetableDetail, error) {
	slot, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "timetable", "load timetable")
	}
	return slot, nil
}

// Create adds a slot.
func (s *TimetableService) Create(ctx context.Context, p *models.Principal, req dto.TimetableRequest) (*models.TimetableDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	slot := &models.Timetable{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		CreatedBy: p.UserID,
	}
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, storeError(err, "timetable", "create timetable")
	}
	return s.Get(ctx, p, slot.ID)
}

// Update modifies a slot.
func (s *TimetableService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateTimetableRequest) (*models.TimetableDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "timetable", "load timetable")
	}
	slot := current.Timetable
	setString(&slot.ClassID, req.ClassID)
	setString(&slot.SubjectID, req.SubjectID)
	setString(&slot.Day, req.Day)
	setString(&slot.StartTime, req.StartTime)
	setString(&slot.EndTime, req.EndTime)
	setString(&slot.Room, req.Room)
	if err := checkSlot(&slot); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &slot); err != nil {
		return nil, storeError(err, "timetable", "update timetable")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a slot.
func (s *TimetableService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "timetable", "load timetable")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "timetable", "delete timetable")
	}
	return nil
}

// checkSlot compares zero-padded HH:MM values lexically.
func checkSlot(slot *models.Timetable) error {
	if slot.StartTime >= slot.EndTime {
		return appErrors.Field("end_time", "must be after start_time")
	}
	return nil
}
