package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
)

type attendanceRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.AttendanceDetail, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	Delete(ctx context.Context, id string) error
}

// AttendanceService records daily presence.
type AttendanceService struct {
	repo      attendanceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns attendance visible to the caller.
func (s *AttendanceService) List(ctx context.Context, p *models.Principal, filter models.AttendanceFilter) ([]models.AttendanceDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "attendance", "list attendance")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an attendance record visible to the caller.
func (s *AttendanceService) Get(ctx context.Context, p *models.Principal, id string) (*models.AttendanceDetail, error) {
	record, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "attendance", "load attendance")
	}
	return record, nil
}

// Create records attendance authored by the caller.
func (s *AttendanceService) Create(ctx context.Context, p *models.Principal, req dto.AttendanceRequest) (*models.AttendanceDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	record := &models.Attendance{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      date,
		Present:   *req.Present,
		Remarks:   req.Remarks,
		CreatedBy: p.UserID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, storeError(err, "attendance", "create attendance")
	}
	return s.Get(ctx, p, record.ID)
}

// Update modifies a visible attendance record.
func (s *AttendanceService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateAttendanceRequest) (*models.AttendanceDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "attendance", "load attendance")
	}
	record := current.Attendance
	setString(&record.StudentID, req.StudentID)
	setString(&record.ClassID, req.ClassID)
	setString(&record.Remarks, req.Remarks)
	if req.Date != nil {
		if record.Date, err = parseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if req.Present != nil {
		record.Present = *req.Present
	}
	if err := s.repo.Update(ctx, &record); err != nil {
		return nil, storeError(err, "attendance", "update attendance")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a visible attendance record.
func (s *AttendanceService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "attendance", "load attendance")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "attendance", "delete attendance")
	}
	return nil
}
