package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.StudentDetail, error)
	Create(ctx context.Context, student *models.Student, parentIDs []string) error
	Update(ctx context.Context, student *models.Student, parentIDs []string) error
	Delete(ctx context.Context, id string) error
}

// StudentService manages student profiles.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns students visible to the caller.
func (s *StudentService) List(ctx context.Context, p *models.Principal, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "student", "list students")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a student visible to the caller.
func (s *StudentService) Get(ctx context.Context, p *models.Principal, id string) (*models.StudentDetail, error) {
	student, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "student", "load student")
	}
	return student, nil
}

// Create adds a student profile for a user with the student role.
func (s *StudentService) Create(ctx context.Context, p *models.Principal, req dto.StudentRequest) (*models.StudentDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	student := &models.Student{
		UserID:          req.UserID,
		AdmissionNumber: strings.TrimSpace(req.AdmissionNumber),
		ClassID:         req.ClassID,
	}
	if err := s.repo.Create(ctx, student, nonNil(req.ParentIDs)); err != nil {
		return nil, storeError(err, "student", "create student")
	}
	return s.Get(ctx, p, student.ID)
}

// Update modifies a student profile. The linked user cannot change.
func (s *StudentService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "student", "load student")
	}
	student := current.Student
	if req.UserID != nil && *req.UserID != student.UserID {
		return nil, appErrors.Field("user", "cannot be changed")
	}
	if req.AdmissionNumber != nil {
		student.AdmissionNumber = strings.TrimSpace(*req.AdmissionNumber)
	}
	setString(&student.ClassID, req.ClassID)
	if err := s.repo.Update(ctx, &student, req.ParentIDs); err != nil {
		return nil, storeError(err, "student", "update student")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a student profile.
func (s *StudentService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "student", "load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "student", "delete student")
	}
	return nil
}
