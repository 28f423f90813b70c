package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
)

type gradeRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.GradeFilter) ([]models.GradeDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.GradeDetail, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
}

// GradeService records exam marks.
type GradeService struct {
	repo      gradeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the service.
func NewGradeService(repo gradeRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns grades visible to the caller.
func (s *GradeService) List(ctx context.Context, p *models.Principal, filter models.GradeFilter) ([]models.GradeDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "grade", "list grades")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a grade visible to the caller.
func (s *GradeService) Get(ctx context.Context, p *models.Principal, id string) (*models.GradeDetail, error) {
	grade, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "grade", "load grade")
	}
	return grade, nil
}

// Create records a grade authored by the caller.
func (s *GradeService) Create(ctx context.Context, p *models.Principal, req dto.GradeRequest) (*models.GradeDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	grade := &models.Grade{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		ExamID:    req.ExamID,
		Marks:     *req.Marks,
		Remarks:   req.Remarks,
		CreatedBy: p.UserID,
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, storeError(err, "grade", "create grade")
	}
	return s.Get(ctx, p, grade.ID)
}

// Update modifies a visible grade.
func (s *GradeService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateGradeRequest) (*models.GradeDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "grade", "load grade")
	}
	grade := current.Grade
	setString(&grade.StudentID, req.StudentID)
	setString(&grade.SubjectID, req.SubjectID)
	setString(&grade.ExamID, req.ExamID)
	setString(&grade.Remarks, req.Remarks)
	if req.Marks != nil {
		grade.Marks = *req.Marks
	}
	if err := s.repo.Update(ctx, &grade); err != nil {
		return nil, storeError(err, "grade", "update grade")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a visible grade.
func (s *GradeService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "grade", "load grade")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "grade", "delete grade")
	}
	return nil
}
