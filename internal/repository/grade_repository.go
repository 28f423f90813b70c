package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

const gradeFrom = ` FROM grades g
JOIN students s ON s.id = g.student_id
JOIN users su ON su.id = s.user_id
JOIN subjects sub ON sub.id = g.subject_id
JOIN exams e ON e.id = g.exam_id`

const gradeSelect = `SELECT g.id, g.student_id, g.subject_id, g.exam_id, g.marks, g.remarks, g.created_by, g.created_at, g.updated_at,
s.id AS "student.id", s.admission_number AS "student.admission_number", su.full_name AS "student.full_name",
sub.id AS "subject.id", sub.name AS "subject.name", sub.code AS "subject.code",
e.id AS "exam.id", e.name AS "exam.name", e.term AS "exam.term", e.year AS "exam.year"` + gradeFrom

// GradeRepository persists grades.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grades visible to the caller.
func (r *GradeRepository) List(ctx context.Context, p *models.Principal, filter models.GradeFilter) ([]models.GradeDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceGrades, p, "g")
	if filter.StudentID != "" {
		f.add("g.student_id = $%d", filter.StudentID)
	}
	if filter.SubjectID != "" {
		f.add("g.subject_id = $%d", filter.SubjectID)
	}
	if filter.ExamID != "" {
		f.add("g.exam_id = $%d", filter.ExamID)
	}
	f.search(filter.Search, "su.full_name", "s.admission_number", "sub.name")

	order := orderBy(filter.ListQuery, map[string]string{
		"marks":      "g.marks",
		"created_at": "g.created_at",
	}, "g.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var grades []models.GradeDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", gradeSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &grades, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list grades: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+gradeFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count grades: %w", err)
	}
	return grades, total, nil
}

// Get returns a grade visible to the caller.
func (r *GradeRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.GradeDetail, error) {
	var f filterSet
	f.add("g.id = $%d", id)
	f.visible(models.ResourceGrades, p, "g")

	var grade models.GradeDetail
	if err := r.db.GetContext(ctx, &grade, gradeSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get grade: %w", err)
	}
	return &grade, nil
}

// ListForReportCards returns the grades linked to each report card.
func (r *GradeRepository) ListForReportCards(ctx context.Context, reportCardIDs []string) (map[string][]models.GradeDetail, error) {
	out := make(map[string][]models.GradeDetail, len(reportCardIDs))
	if len(reportCardIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ReportCardID string `db:"report_card_id"`
		models.GradeDetail
	}
	query := `SELECT rcg.report_card_id, ` + gradeSelect[len("SELECT "):] + `
JOIN report_card_grades rcg ON rcg.grade_id = g.id
WHERE rcg.report_card_id = ANY($1::uuid[]) ORDER BY sub.name`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(reportCardIDs)); err != nil {
		return nil, fmt.Errorf("load report card grades: %w", err)
	}
	for _, row := range rows {
		out[row.ReportCardID] = append(out[row.ReportCardID], row.GradeDetail)
	}
	return out, nil
}

// Create inserts a grade.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	grade.CreatedAt = now
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, subject_id, exam_id, marks, remarks, created_by, created_at, updated_at) VALUES (:id, :student_id, :subject_id, :exam_id, :marks, :remarks, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Update modifies a grade.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grades SET student_id = :student_id, subject_id = :subject_id, exam_id = :exam_id, marks = :marks, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}
