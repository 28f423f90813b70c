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

const parentSelect = `SELECT p.id, p.user_id, p.created_at, p.updated_at,
u.id AS "user.id", u.username AS "user.username", u.full_name AS "user.full_name", u.role AS "user.role"
FROM parents p
JOIN users u ON u.id = p.user_id`

// ParentRepository persists parent profiles.
type ParentRepository struct {
	db *sqlx.DB
}

// NewParentRepository instantiates the repository.
func NewParentRepository(db *sqlx.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// List returns parents visible to the caller.
func (r *ParentRepository) List(ctx context.Context, p *models.Principal, filter models.ParentFilter) ([]models.ParentDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceParents, p, "p")
	f.search(filter.Search, "u.full_name", "u.username", "u.email")

	order := orderBy(filter.ListQuery, map[string]string{
		"full_name":  "u.full_name",
		"created_at": "p.created_at",
	}, "p.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var parents []models.ParentDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", parentSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &parents, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list parents: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM parents p JOIN users u ON u.id = p.user_id"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count parents: %w", err)
	}

	if err := r.attachChildren(ctx, parents); err != nil {
		return nil, 0, err
	}
	return parents, total, nil
}

// Get returns a parent visible to the caller.
func (r *ParentRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.ParentDetail, error) {
	var f filterSet
	f.add("p.id = $%d", id)
	f.visible(models.ResourceParents, p, "p")

	var parent models.ParentDetail
	if err := r.db.GetContext(ctx, &parent, parentSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get parent: %w", err)
	}

	list := []models.ParentDetail{parent}
	if err := r.attachChildren(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// FindByUserID returns the parent profile of a parent account.
func (r *ParentRepository) FindByUserID(ctx context.Context, userID string) (*models.Parent, error) {
	const query = `SELECT id, user_id, created_at, updated_at FROM parents WHERE user_id = $1`
	var parent models.Parent
	if err := r.db.GetContext(ctx, &parent, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find parent by user: %w", err)
	}
	return &parent, nil
}

func (r *ParentRepository) attachChildren(ctx context.Context, parents []models.ParentDetail) error {
	if len(parents) == 0 {
		return nil
	}
	index := make(map[string][]int, len(parents))
	for i := range parents {
		index[parents[i].UserID] = append(index[parents[i].UserID], i)
		parents[i].Children = []models.StudentSummary{}
	}

	var rows []struct {
		ParentID string `db:"parent_id"`
		models.StudentSummary
	}
	const query = `SELECT lp.parent_id, s.id, s.admission_number, u.full_name FROM student_parents lp JOIN students s ON s.id = lp.student_id JOIN users u ON u.id = s.user_id WHERE lp.parent_id = ANY($1::uuid[]) ORDER BY s.admission_number`
	userIDs := collectIDs(parents, func(p models.ParentDetail) string { return p.UserID })
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return fmt.Errorf("load parent children: %w", err)
	}
	for _, row := range rows {
		for _, i := range index[row.ParentID] {
			parents[i].Children = append(parents[i].Children, row.StudentSummary)
		}
	}
	return nil
}

// Create inserts a parent profile for a parent account.
func (r *ParentRepository) Create(ctx context.Context, parent *models.Parent) error {
	if parent.ID == "" {
		parent.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	parent.CreatedAt = now
	parent.UpdatedAt = now

	const query = `INSERT INTO parents (id, user_id, created_at, updated_at)
SELECT $1::uuid, $2::uuid, $3::timestamptz, $4::timestamptz WHERE EXISTS (SELECT 1 FROM users WHERE id = $2::uuid AND role = 'parent')`
	res, err := r.db.ExecContext(ctx, query, parent.ID, parent.UserID, parent.CreatedAt, parent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create parent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create parent: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user_id: %w", ErrInvalidReference)
	}
	return nil
}

// Update reassigns a parent profile to another parent account.
func (r *ParentRepository) Update(ctx context.Context, parent *models.Parent) error {
	parent.UpdatedAt = time.Now().UTC()
	const query = `UPDATE parents SET user_id = $2, updated_at = $3 WHERE id = $1 AND EXISTS (SELECT 1 FROM users WHERE id = $2 AND role = 'parent')`
	res, err := r.db.ExecContext(ctx, query, parent.ID, parent.UserID, parent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update parent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update parent: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user_id: %w", ErrInvalidReference)
	}
	return nil
}

// Delete removes a parent profile.
func (r *ParentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM parents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete parent: %w", err)
	}
	return nil
}
