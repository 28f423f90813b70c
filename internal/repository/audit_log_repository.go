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

const auditFrom = ` FROM audit_logs al
JOIN users u ON u.id = al.user_id`

const auditSelect = `SELECT al.id, al.user_id, al.action, al.model_name, al.object_id, al.details, al.created_at,
u.id AS "user.id", u.username AS "user.username", u.full_name AS "user.full_name", u.role AS "user.role"` + auditFrom

// AuditLogRepository appends and reads audit entries. It exposes no update or delete.
type AuditLogRepository struct {
	db *sqlx.DB
}

// NewAuditLogRepository instantiates the repository.
func NewAuditLogRepository(db *sqlx.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// CreateTx appends an entry inside the caller's transaction.
func (r *AuditLogRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, model_name, object_id, details, created_at) VALUES (:id, :user_id, :action, :model_name, :object_id, :details, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns audit entries visible to the caller.
func (r *AuditLogRepository) List(ctx context.Context, p *models.Principal, filter models.AuditLogFilter) ([]models.AuditLogDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceAuditLogs, p, "al")
	if filter.UserID != "" {
		f.add("al.user_id = $%d", filter.UserID)
	}
	if filter.Action != "" {
		f.add("al.action = $%d", filter.Action)
	}
	if filter.ModelName != "" {
		f.add("al.model_name = $%d", filter.ModelName)
	}
	if filter.ObjectID != "" {
		f.add("al.object_id = $%d", filter.ObjectID)
	}
	f.search(filter.Search, "al.details", "u.username")

	order := orderBy(filter.ListQuery, map[string]string{"created_at": "al.created_at"}, "al.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var entries []models.AuditLogDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", auditSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &entries, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+auditFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	return entries, total, nil
}

// Get returns an audit entry visible to the caller.
func (r *AuditLogRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.AuditLogDetail, error) {
	var f filterSet
	f.add("al.id = $%d", id)
	f.visible(models.ResourceAuditLogs, p, "al")

	var entry models.AuditLogDetail
	if err := r.db.GetContext(ctx, &entry, auditSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get audit log: %w", err)
	}
	return &entry, nil
}
