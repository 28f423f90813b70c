package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

const examColumns = `e.id, e.name, e.term, e.year, e.max_marks, e.created_by, e.created_at, e.updated_at`

// ExamRepository handles persistence for exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository instantiates the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// List returns exams matching the filter.
func (r *ExamRepository) List(ctx context.Context, p *models.Principal, filter models.ExamFilter) ([]models.Exam, int, error) {
	var f filterSet
	f.visible(models.ResourceExams, p, "e")
	if filter.Term != "" {
		f.add("e.term = $%d", filter.Term)
	}
	if filter.Year > 0 {
		f.add("e.year = $%d", filter.Year)
	}
	f.search(filter.Search, "e.name")

	order := orderBy(filter.ListQuery, map[string]string{
		"name":       "e.name",
		"year":       "e.year",
		"created_at": "e.created_at",
	}, "e.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM exams e%s %s LIMIT %d OFFSET %d", examColumns, f.where(), order, limit, offset)
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM exams e"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count exams: %w", err)
	}
	return exams, total, nil
}

// Get returns an exam by id.
func (r *ExamRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.Exam, error) {
	var f filterSet
	f.add("e.id = $%d", id)
	f.visible(models.ResourceExams, p, "e")

	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, fmt.Sprintf("SELECT %s FROM exams e%s", examColumns, f.where()), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return &exam, nil
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	exam.CreatedAt = now
	exam.UpdatedAt = now
	const query = `INSERT INTO exams (id, name, term, year, max_marks, created_by, created_at, updated_at) VALUES (:id, :name, :term, :year, :max_marks, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// Update modifies an exam.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	exam.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exams SET name = :name, term = :term, year = :year, max_marks = :max_marks, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return nil
}

// Delete removes an exam.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}
