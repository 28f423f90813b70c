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

const homeworkFrom = ` FROM homework hw
JOIN classes c ON c.id = hw.class_id
JOIN subjects sub ON sub.id = hw.subject_id`

const homeworkSelect = `SELECT hw.id, hw.class_id, hw.subject_id, hw.description, hw.due_date, hw.completed, hw.created_by, hw.created_at, hw.updated_at,
c.id AS "class.id", c.name AS "class.name",
sub.id AS "subject.id", sub.name AS "subject.name", sub.code AS "subject.code"` + homeworkFrom

// HomeworkRepository persists homework assignments.
type HomeworkRepository struct {
	db *sqlx.DB
}

// NewHomeworkRepository instantiates the repository.
func NewHomeworkRepository(db *sqlx.DB) *HomeworkRepository {
	return &HomeworkRepository{db: db}
}

// List returns homework visible to the caller.
func (r *HomeworkRepository) List(ctx context.Context, p *models.Principal, filter models.HomeworkFilter) ([]models.HomeworkDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceHomework, p, "hw")
	if filter.ClassID != "" {
		f.add("hw.class_id = $%d", filter.ClassID)
	}
	if filter.SubjectID != "" {
		f.add("hw.subject_id = $%d", filter.SubjectID)
	}
	if filter.Completed != nil {
		f.add("hw.completed = $%d", *filter.Completed)
	}
	f.search(filter.Search, "hw.description", "sub.name")

	order := orderBy(filter.ListQuery, map[string]string{
		"due_date":   "hw.due_date",
		"created_at": "hw.created_at",
	}, "hw.due_date")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var items []models.HomeworkDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", homeworkSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list homework: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+homeworkFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count homework: %w", err)
	}
	return items, total, nil
}

// Get returns a homework assignment visible to the caller.
func (r *HomeworkRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.HomeworkDetail, error) {
	var f filterSet
	f.add("hw.id = $%d", id)
	f.visible(models.ResourceHomework, p, "hw")

	var item models.HomeworkDetail
	if err := r.db.GetContext(ctx, &item, homeworkSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get homework: %w", err)
	}
	return &item, nil
}

// Create inserts a homework assignment.
func (r *HomeworkRepository) Create(ctx context.Context, hw *models.Homework) error {
	if hw.ID == "" {
		hw.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	hw.CreatedAt = now
	hw.UpdatedAt = now
	const query = `INSERT INTO homework (id, class_id, subject_id, description, due_date, completed, created_by, created_at, updated_at) VALUES (:id, :class_id, :subject_id, :description, :due_date, :completed, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, hw); err != nil {
		return fmt.Errorf("create homework: %w", err)
	}
	return nil
}

// Update modifies a homework assignment.
func (r *HomeworkRepository) Update(ctx context.Context, hw *models.Homework) error {
	hw.UpdatedAt = time.Now().UTC()
	const query = `UPDATE homework SET class_id = :class_id, subject_id = :subject_id, description = :description, due_date = :due_date, completed = :completed, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, hw); err != nil {
		return fmt.Errorf("update homework: %w", err)
	}
	return nil
}

// Delete removes a homework assignment.
func (r *HomeworkRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM homework WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}
	return nil
}
