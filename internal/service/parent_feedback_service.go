package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type parentFeedbackRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.ParentFeedbackFilter) ([]models.ParentFeedbackDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.ParentFeedbackDetail, error)
	Create(ctx context.Context, fb *models.ParentFeedback) error
	Update(ctx context.Context, fb *models.ParentFeedback) error
	Delete(ctx context.Context, id string) error
}

type parentLookup interface {
	FindByUserID(ctx context.Context, userID string) (*models.Parent, error)
}

// ParentFeedbackService collects feedback from parents.
type ParentFeedbackService struct {
	repo      parentFeedbackRepository
	parents   parentLookup
	validator *validator.Validate
	logger    *zap.Logger
	text      textSanitizer
}

// NewParentFeedbackService constructs the service.
func NewParentFeedbackService(repo parentFeedbackRepository, parents parentLookup, validate *validator.Validate, logger *zap.Logger) *ParentFeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentFeedbackService{
		repo:      repo,
		parents:   parents,
		validator: defaultValidator(validate),
		logger:    logger,
		text:      newTextSanitizer(),
	}
}

// List returns feedback visible to the caller.
func (s *ParentFeedbackService) List(ctx context.Context, p *models.Principal, filter models.ParentFeedbackFilter) ([]models.ParentFeedbackDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "feedback", "list feedback")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns feedback visible to the caller.
func (s *ParentFeedbackService) Get(ctx context.Context, p *models.Principal, id string) (*models.ParentFeedbackDetail, error) {
	fb, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "feedback", "load feedback")
	}
	return fb, nil
}

// Create records feedback. Parents always submit as their own profile;
// admins must name the parent.
func (s *ParentFeedbackService) Create(ctx context.Context, p *models.Principal, req dto.ParentFeedbackRequest) (*models.ParentFeedbackDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	parentID, err := s.resolveParent(ctx, p, req.ParentID)
	if err != nil {
		return nil, err
	}
	content, err := s.text.clean("content", req.Content)
	if err != nil {
		return nil, err
	}
	fb := &models.ParentFeedback{
		ParentID: parentID,
		Content:  content,
	}
	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, storeError(err, "feedback", "create feedback")
	}
	return s.Get(ctx, p, fb.ID)
}

// Update edits feedback content.
func (s *ParentFeedbackService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateParentFeedbackRequest) (*models.ParentFeedbackDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "feedback", "load feedback")
	}
	fb := current.ParentFeedback
	if req.Content != nil {
		if fb.Content, err = s.text.clean("content", *req.Content); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, &fb); err != nil {
		return nil, storeError(err, "feedback", "update feedback")
	}
	return s.Get(ctx, p, id)
}

// Delete removes feedback.
func (s *ParentFeedbackService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "feedback", "load feedback")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "feedback", "delete feedback")
	}
	return nil
}

func (s *ParentFeedbackService) resolveParent(ctx context.Context, p *models.Principal, requested string) (string, error) {
	if p.Role == models.RoleParent && !p.Superuser {
		parent, err := s.parents.FindByUserID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", forbidden("no parent profile is linked to this account")
			}
			return "", storeError(err, "parent", "load parent profile")
		}
		if requested != "" && requested != parent.ID {
			return "", forbidden("parents may only submit feedback as themselves")
		}
		return parent.ID, nil
	}
	if requested == "" {
		return "", appErrors.Field("parent", "is required")
	}
	return requested, nil
}
