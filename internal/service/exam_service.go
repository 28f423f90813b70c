package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
)

type examRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.ExamFilter) ([]models.Exam, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id string) error
}

// ExamService manages exams.
type ExamService struct {
	repo      examRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs the service.
func NewExamService(repo examRepository, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns exams.
func (s *ExamService) List(ctx context.Context, p *models.Principal, filter models.ExamFilter) ([]models.Exam, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "exam", "list exams")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an exam.
func (s *ExamService) Get(ctx context.Context, p *models.Principal, id string) (*models.Exam, error) {
	exam, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "exam", "load exam")
	}
	return exam, nil
}

// Create adds an exam. Max marks default to 100.
func (s *ExamService) Create(ctx context.Context, p *models.Principal, req dto.ExamRequest) (*models.Exam, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	exam := &models.Exam{
		Name:      strings.TrimSpace(req.Name),
		Term:      strings.TrimSpace(req.Term),
		Year:      req.Year,
		MaxMarks:  models.DefaultMaxMarks,
		CreatedBy: p.UserID,
	}
	if req.MaxMarks != nil {
		exam.MaxMarks = *req.MaxMarks
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, storeError(err, "exam", "create exam")
	}
	return exam, nil
}

// Update modifies an exam.
func (s *ExamService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateExamRequest) (*models.Exam, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	exam, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "exam", "load exam")
	}
	setString(&exam.Name, req.Name)
	setString(&exam.Term, req.Term)
	if req.Year != nil {
		exam.Year = *req.Year
	}
	if req.MaxMarks != nil {
		exam.MaxMarks = *req.MaxMarks
	}
	if err := s.repo.Update(ctx, exam); err != nil {
		return nil, storeError(err, "exam", "update exam")
	}
	return exam, nil
}

// Delete removes an exam.
func (s *ExamService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "exam", "load exam")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "exam", "delete exam")
	}
	return nil
}
