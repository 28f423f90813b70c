package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
)

type classRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.ClassFilter) ([]models.ClassDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.ClassDetail, error)
	Create(ctx context.Context, class *models.Class, subjectIDs, teacherIDs []string) error
	Update(ctx context.Context, class *models.Class, subjectIDs, teacherIDs []string) error
	Delete(ctx context.Context, id string) error
}

// ClassService manages classes and their subject and teacher links.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the service.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns classes visible to the caller.
func (s *ClassService) List(ctx context.Context, p *models.Principal, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "class", "list classes")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a class visible to the caller.
func (s *ClassService) Get(ctx context.Context, p *models.Principal, id string) (*models.ClassDetail, error) {
	class, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "class", "load class")
	}
	return class, nil
}

// Create adds a class with its links.
func (s *ClassService) Create(ctx context.Context, p *models.Principal, req dto.ClassRequest) (*models.ClassDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	class := &models.Class{Name: strings.TrimSpace(req.Name), CreatedBy: p.UserID}
	if err := s.repo.Create(ctx, class, nonNil(req.SubjectIDs), nonNil(req.TeacherIDs)); err != nil {
		return nil, storeError(err, "class", "create class")
	}
	return s.Get(ctx, p, class.ID)
}

// Update modifies a class. Omitted link lists stay as they are.
func (s *ClassService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateClassRequest) (*models.ClassDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "class", "load class")
	}
	class := current.Class
	if req.Name != nil {
		class.Name = strings.TrimSpace(*req.Name)
	}
	if err := s.repo.Update(ctx, &class, req.SubjectIDs, req.TeacherIDs); err != nil {
		return nil, storeError(err, "class", "update class")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "class", "load class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "class", "delete class")
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
