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

const feedbackFrom = ` FROM parent_feedback pf
JOIN parents pp ON pp.id = pf.parent_id
JOIN users pu ON pu.id = pp.user_id`

const feedbackSelect = `SELECT pf.id, pf.parent_id, pf.content, pf.created_at, pf.updated_at,
pu.id AS "parent.id", pu.username AS "parent.username", pu.full_name AS "parent.full_name", pu.role AS "parent.role"` + feedbackFrom

// ParentFeedbackRepository persists feedback submitted by parents.
type ParentFeedbackRepository struct {
	db *sqlx.DB
}

// NewParentFeedbackRepository instantiates the repository.
func NewParentFeedbackRepository(db *sqlx.DB) *ParentFeedbackRepository {
	return &ParentFeedbackRepository{db: db}
}

// List returns feedback visible to the caller.
func (r *ParentFeedbackRepository) List(ctx context.Context, p *models.Principal, filter models.ParentFeedbackFilter) ([]models.ParentFeedbackDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceParentFeedback, p, "pf")
	if filter.ParentID != "" {
		f.add("pf.parent_id = $%d", filter.ParentID)
	}
	f.search(filter.Search, "pf.content", "pu.full_name")

	order := orderBy(filter.ListQuery, map[string]string{"created_at": "pf.created_at"}, "pf.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var items []models.ParentFeedbackDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", feedbackSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list parent feedback: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+feedbackFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count parent feedback: %w", err)
	}
	return items, total, nil
}

// Get returns feedback visible to the caller.
func (r *ParentFeedbackRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.ParentFeedbackDetail, error) {
	var f filterSet
	f.add("pf.id = $%d", id)
	f.visible(models.ResourceParentFeedback, p, "pf")

	var item models.ParentFeedbackDetail
	if err := r.db.GetContext(ctx, &item, feedbackSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get parent feedback: %w", err)
	}
	return &item, nil
}

// Create inserts feedback.
func (r *ParentFeedbackRepository) Create(ctx context.Context, fb *models.ParentFeedback) error {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	fb.CreatedAt = now
	fb.UpdatedAt = now
	const query = `INSERT INTO parent_feedback (id, parent_id, content, created_at, updated_at) VALUES (:id, :parent_id, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fb); err != nil {
		return fmt.Errorf("create parent feedback: %w", err)
	}
	return nil
}

// Update modifies feedback.
func (r *ParentFeedbackRepository) Update(ctx context.Context, fb *models.ParentFeedback) error {
	fb.UpdatedAt = time.Now().UTC()
	const query = `UPDATE parent_feedback SET parent_id = :parent_id, content = :content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, fb); err != nil {
		return fmt.Errorf("update parent feedback: %w", err)
	}
	return nil
}

// Delete removes feedback.
func (r *ParentFeedbackRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM parent_feedback WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete parent feedback: %w", err)
	}
	return nil
}
