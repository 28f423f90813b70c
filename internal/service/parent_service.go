package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
)

type parentRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.ParentFilter) ([]models.ParentDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.ParentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.Parent, error)
	Create(ctx context.Context, parent *models.Parent) error
	Update(ctx context.Context, parent *models.Parent) error
	Delete(ctx context.Context, id string) error
}

// ParentService manages parent profiles.
type ParentService struct {
	repo      parentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewParentService constructs the service.
func NewParentService(repo parentRepository, validate *validator.Validate, logger *zap.Logger) *ParentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns parents visible to the caller.
func (s *ParentService) List(ctx context.Context, p *models.Principal, filter models.ParentFilter) ([]models.ParentDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "parent", "list parents")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a parent visible to the caller.
func (s *ParentService) Get(ctx context.Context, p *models.Principal, id string) (*models.ParentDetail, error) {
	parent, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "parent", "load parent")
	}
	return parent, nil
}

// Create adds a parent profile for a user with the parent role.
func (s *ParentService) Create(ctx context.Context, p *models.Principal, req dto.ParentRequest) (*models.ParentDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	parent := &models.Parent{UserID: req.UserID}
	if err := s.repo.Create(ctx, parent); err != nil {
		return nil, storeError(err, "parent", "create parent")
	}
	return s.Get(ctx, p, parent.ID)
}

// Update reassigns a parent profile to another parent user.
func (s *ParentService) Update(ctx context.Context, p *models.Principal, id string, req dto.ParentRequest) (*models.ParentDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "parent", "load parent")
	}
	parent := current.Parent
	parent.UserID = req.UserID
	if err := s.repo.Update(ctx, &parent); err != nil {
		return nil, storeError(err, "parent", "update parent")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a parent profile.
func (s *ParentService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "parent", "load parent")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "parent", "delete parent")
	}
	return nil
}
