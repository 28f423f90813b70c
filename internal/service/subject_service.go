package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/pkg/cache"
)

type subjectRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.SubjectFilter) ([]models.Subject, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// SubjectService manages the subject catalogue. Single subjects are cached
// since every role may read them.
type SubjectService struct {
	repo      subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the service.
func NewSubjectService(repo subjectRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cacheSvc, validator: defaultValidator(validate), logger: logger}
}

func subjectKey(id string) string { return cache.Key("subjects", id) }

// List returns subjects.
func (s *SubjectService) List(ctx context.Context, p *models.Principal, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "subject", "list subjects")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a subject.
func (s *SubjectService) Get(ctx context.Context, p *models.Principal, id string) (*models.Subject, error) {
	var cached models.Subject
	if s.cache.Get(ctx, subjectKey(id), &cached) {
		return &cached, nil
	}
	subject, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "subject", "load subject")
	}
	s.cache.Set(ctx, subjectKey(id), subject, 0)
	return subject, nil
}

// Create adds a subject.
func (s *SubjectService) Create(ctx context.Context, p *models.Principal, req dto.SubjectRequest) (*models.Subject, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	subject := &models.Subject{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		CreatedBy:   p.UserID,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, storeError(err, "subject", "create subject")
	}
	return subject, nil
}

// Update modifies a subject.
func (s *SubjectService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	subject, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "subject", "load subject")
	}
	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		subject.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	setString(&subject.Description, req.Description)
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, storeError(err, "subject", "update subject")
	}
	s.cache.Invalidate(ctx, subjectKey(id))
	return subject, nil
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "subject", "load subject")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "subject", "delete subject")
	}
	s.cache.Invalidate(ctx, subjectKey(id))
	return nil
}
