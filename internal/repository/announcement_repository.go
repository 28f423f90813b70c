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

const announcementFrom = ` FROM announcements an
JOIN users u ON u.id = an.created_by`

const announcementSelect = `SELECT an.id, an.title, an.content, an.target_roles, an.created_by, an.created_at, an.updated_at,
u.id AS "author.id", u.username AS "author.username", u.full_name AS "author.full_name", u.role AS "author.role"` + announcementFrom

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements addressed to the caller.
func (r *AnnouncementRepository) List(ctx context.Context, p *models.Principal, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceAnnouncements, p, "an")
	if filter.TargetRole != nil {
		f.add("(',' || replace(an.target_roles, ' ', '') || ',') LIKE $%d", "%,"+string(*filter.TargetRole)+",%")
	}
	f.search(filter.Search, "an.title", "an.content")

	order := orderBy(filter.ListQuery, map[string]string{
		"title":      "an.title",
		"created_at": "an.created_at",
	}, "an.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var items []models.AnnouncementDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", announcementSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+announcementFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return items, total, nil
}

// Get returns an announcement visible to the caller.
func (r *AnnouncementRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.AnnouncementDetail, error) {
	var f filterSet
	f.add("an.id = $%d", id)
	f.visible(models.ResourceAnnouncements, p, "an")

	var item models.AnnouncementDetail
	if err := r.db.GetContext(ctx, &item, announcementSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return &item, nil
}

// Create inserts an announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	announcement.CreatedAt = now
	announcement.UpdatedAt = now
	const query = `INSERT INTO announcements (id, title, content, target_roles, created_by, created_at, updated_at) VALUES (:id, :title, :content, :target_roles, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, content = :content, target_roles = :target_roles, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
