package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
	"github.com/noah-isme/elite-academy-api/pkg/export"
)

type reportCardRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.ReportCardFilter) ([]models.ReportCardDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.ReportCardDetail, error)
	Create(ctx context.Context, card *models.ReportCard, gradeIDs []string) error
	Update(ctx context.Context, card *models.ReportCard, gradeIDs []string) error
	Delete(ctx context.Context, id string) error
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type schoolSettingsSource interface {
	GetOrCreateDefault(ctx context.Context) (*models.SchoolSettings, error)
}

// ReportCardService manages term report cards.
type ReportCardService struct {
	repo      reportCardRepository
	settings  schoolSettingsSource
	renderer  pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportCardService constructs the service. settings may be nil, in which
// case printed cards carry no school heading.
func NewReportCardService(repo reportCardRepository, settings schoolSettingsSource, renderer pdfRenderer, validate *validator.Validate, logger *zap.Logger) *ReportCardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewPDFExporter()
	}
	return &ReportCardService{repo: repo, settings: settings, renderer: renderer, validator: defaultValidator(validate), logger: logger}
}

// List returns report cards visible to the caller.
func (s *ReportCardService) List(ctx context.Context, p *models.Principal, filter models.ReportCardFilter) ([]models.ReportCardDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "report card", "list report cards")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a report card visible to the caller.
func (s *ReportCardService) Get(ctx context.Context, p *models.Principal, id string) (*models.ReportCardDetail, error) {
	card, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "report card", "load report card")
	}
	return card, nil
}

// Create issues a report card linking grades of the same student.
func (s *ReportCardService) Create(ctx context.Context, p *models.Principal, req dto.ReportCardRequest) (*models.ReportCardDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	card := &models.ReportCard{
		StudentID:    req.StudentID,
		Term:         req.Term,
		Year:         req.Year,
		OverallGrade: req.OverallGrade,
		Remarks:      req.Remarks,
		CreatedBy:    p.UserID,
	}
	if err := s.repo.Create(ctx, card, nonNil(req.GradeIDs)); err != nil {
		return nil, storeError(err, "report card", "create report card")
	}
	return s.Get(ctx, p, card.ID)
}

// Update modifies a report card. A nil grade list keeps the current links;
// changing the student requires grades to be restated.
func (s *ReportCardService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateReportCardRequest) (*models.ReportCardDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "report card", "load report card")
	}
	card := current.ReportCard
	setString(&card.StudentID, req.StudentID)
	setString(&card.Term, req.Term)
	setString(&card.OverallGrade, req.OverallGrade)
	setString(&card.Remarks, req.Remarks)
	if req.Year != nil {
		card.Year = *req.Year
	}
	if card.StudentID != current.StudentID && req.GradeIDs == nil && len(current.Grades) > 0 {
		return nil, appErrors.Field("grades", "must be restated when the student changes")
	}
	if err := s.repo.Update(ctx, &card, req.GradeIDs); err != nil {
		return nil, storeError(err, "report card", "update report card")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a report card.
func (s *ReportCardService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "report card", "load report card")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "report card", "delete report card")
	}
	return nil
}

// PDF renders a printable report card visible to the caller.
func (s *ReportCardService) PDF(ctx context.Context, p *models.Principal, id string) ([]byte, error) {
	card, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	doc := export.Document{
		Title:    "Report card",
		Subtitle: fmt.Sprintf("%s %d", card.Term, card.Year),
		Fields: []export.Field{
			{Label: "Student", Value: card.Student.FullName},
			{Label: "Admission number", Value: card.Student.AdmissionNumber},
			{Label: "Overall grade", Value: card.OverallGrade},
		},
		Table: export.Dataset{
			Headers: []string{"Subject", "Exam", "Marks", "Remarks"},
			Rows:    make([]map[string]string, 0, len(card.Grades)),
		},
		Footer: card.Remarks,
	}
	if s.settings != nil {
		if school, err := s.settings.GetOrCreateDefault(ctx); err == nil {
			doc.Title = school.SchoolName + " report card"
		} else {
			s.logger.Warn("school settings unavailable for report card", zap.Error(err))
		}
	}
	for _, g := range card.Grades {
		doc.Table.Rows = append(doc.Table.Rows, map[string]string{
			"Subject": g.Subject.Name,
			"Exam":    g.Exam.Name,
			"Marks":   strconv.FormatFloat(g.Marks, 'f', -1, 64),
			"Remarks": g.Remarks,
		})
	}

	out, err := s.renderer.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report card")
	}
	return out, nil
}
