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

const leaveFrom = ` FROM leave_applications la
JOIN users u ON u.id = la.user_id`

const leaveSelect = `SELECT la.id, la.user_id, la.start_date, la.end_date, la.reason, la.status, la.approved_by, la.created_at, la.updated_at,
u.id AS "user.id", u.username AS "user.username", u.full_name AS "user.full_name", u.role AS "user.role"` + leaveFrom

// LeaveApplicationRepository persists leave applications.
type LeaveApplicationRepository struct {
	db *sqlx.DB
}

// NewLeaveApplicationRepository instantiates the repository.
func NewLeaveApplicationRepository(db *sqlx.DB) *LeaveApplicationRepository {
	return &LeaveApplicationRepository{db: db}
}

// List returns leave applications visible to the caller.
func (r *LeaveApplicationRepository) List(ctx context.Context, p *models.Principal, filter models.LeaveApplicationFilter) ([]models.LeaveApplicationDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceLeaveApplications, p, "la")
	if filter.UserID != "" {
		f.add("la.user_id = $%d", filter.UserID)
	}
	if filter.Status != nil {
		f.add("la.status = $%d", *filter.Status)
	}
	f.search(filter.Search, "la.reason", "u.full_name")

	order := orderBy(filter.ListQuery, map[string]string{
		"start_date": "la.start_date",
		"status":     "la.status",
		"created_at": "la.created_at",
	}, "la.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var items []models.LeaveApplicationDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", leaveSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list leave applications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+leaveFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count leave applications: %w", err)
	}
	return items, total, nil
}

// Get returns a leave application visible to the caller.
func (r *LeaveApplicationRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.LeaveApplicationDetail, error) {
	var f filterSet
	f.add("la.id = $%d", id)
	f.visible(models.ResourceLeaveApplications, p, "la")

	var item models.LeaveApplicationDetail
	if err := r.db.GetContext(ctx, &item, leaveSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get leave application: %w", err)
	}
	return &item, nil
}

// Create inserts a leave application.
func (r *LeaveApplicationRepository) Create(ctx context.Context, leave *models.LeaveApplication) error {
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	if leave.Status == "" {
		leave.Status = models.LeavePending
	}
	now := time.Now().UTC()
	leave.CreatedAt = now
	leave.UpdatedAt = now
	const query = `INSERT INTO leave_applications (id, user_id, start_date, end_date, reason, status, approved_by, created_at, updated_at) VALUES (:id, :user_id, :start_date, :end_date, :reason, :status, :approved_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave application: %w", err)
	}
	return nil
}

// Update modifies a leave application, including its approval state.
func (r *LeaveApplicationRepository) Update(ctx context.Context, leave *models.LeaveApplication) error {
	leave.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leave_applications SET user_id = :user_id, start_date = :start_date, end_date = :end_date, reason = :reason, status = :status, approved_by = :approved_by, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("update leave application: %w", err)
	}
	return nil
}

// Delete removes a leave application.
func (r *LeaveApplicationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM leave_applications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete leave application: %w", err)
	}
	return nil
}
