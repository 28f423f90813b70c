package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
)

type homeworkRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.HomeworkFilter) ([]models.HomeworkDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.HomeworkDetail, error)
	Create(ctx context.Context, hw *models.Homework) error
	Update(ctx context.Context, hw *models.Homework) error
	Delete(ctx context.Context, id string) error
}

// HomeworkService manages homework set by teachers.
type HomeworkService struct {
	repo      homeworkRepository
	validator *validator.Validate
	logger    *zap.Logger
	text      textSanitizer
}

// NewHomeworkService constructs the service.
func NewHomeworkService(repo homeworkRepository, validate *validator.Validate, logger *zap.Logger) *HomeworkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeworkService{repo: repo, validator: defaultValidator(validate), logger: logger, text: newTextSanitizer()}
}

// List returns homework visible to the caller.
func (s *HomeworkService) List(ctx context.Context, p *models.Principal, filter models.HomeworkFilter) ([]models.HomeworkDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "homework", "list homework")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns homework visible to the caller.
func (s *HomeworkService) Get(ctx context.Context, p *models.Principal, id string) (*models.HomeworkDetail, error) {
	hw, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "homework", "load homework")
	}
	return hw, nil
}

// Create sets homework authored by the caller.
func (s *HomeworkService) Create(ctx context.Context, p *models.Principal, req dto.HomeworkRequest) (*models.HomeworkDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	description, err := s.text.clean("description", req.Description)
	if err != nil {
		return nil, err
	}
	hw := &models.Homework{
		ClassID:     req.ClassID,
		SubjectID:   req.SubjectID,
		Description: description,
		DueDate:     due,
		Completed:   req.Completed,
		CreatedBy:   p.UserID,
	}
	if err := s.repo.Create(ctx, hw); err != nil {
		return nil, storeError(err, "homework", "create homework")
	}
	return s.Get(ctx, p, hw.ID)
}

// Update modifies visible homework.
func (s *HomeworkService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateHomeworkRequest) (*models.HomeworkDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "homework", "load homework")
	}
	hw := current.Homework
	setString(&hw.ClassID, req.ClassID)
	setString(&hw.SubjectID, req.SubjectID)
	if req.Description != nil {
		if hw.Description, err = s.text.clean("description", *req.Description); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if hw.DueDate, err = parseDate("due_date", *req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Completed != nil {
		hw.Completed = *req.Completed
	}
	if err := s.repo.Update(ctx, &hw); err != nil {
		return nil, storeError(err, "homework", "update homework")
	}
	return s.Get(ctx, p, id)
}

// Delete removes visible homework.
func (s *HomeworkService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "homework", "load homework")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "homework", "delete homework")
	}
	return nil
}
