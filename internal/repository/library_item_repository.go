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

const libraryItemColumns = `li.id, li.title, li.item_type, li.isbn, li.status, li.created_by, li.created_at, li.updated_at`

// LibraryItemRepository handles persistence for library items.
type LibraryItemRepository struct {
	db *sqlx.DB
}

// NewLibraryItemRepository instantiates the repository.
func NewLibraryItemRepository(db *sqlx.DB) *LibraryItemRepository {
	return &LibraryItemRepository{db: db}
}

// List returns library items matching the filter.
func (r *LibraryItemRepository) List(ctx context.Context, p *models.Principal, filter models.LibraryItemFilter) ([]models.LibraryItem, int, error) {
	var f filterSet
	f.visible(models.ResourceLibraryItems, p, "li")
	if filter.Status != nil {
		f.add("li.status = $%d", *filter.Status)
	}
	if filter.ItemType != "" {
		f.add("LOWER(li.item_type) = LOWER($%d)", filter.ItemType)
	}
	f.search(filter.Search, "li.title", "li.isbn")

	order := orderBy(filter.ListQuery, map[string]string{
		"title":      "li.title",
		"created_at": "li.created_at",
	}, "li.title")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM library_items li%s %s LIMIT %d OFFSET %d", libraryItemColumns, f.where(), order, limit, offset)
	var items []models.LibraryItem
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list library items: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM library_items li"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count library items: %w", err)
	}
	return items, total, nil
}

// Get returns a library item by id.
func (r *LibraryItemRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.LibraryItem, error) {
	var f filterSet
	f.add("li.id = $%d", id)
	f.visible(models.ResourceLibraryItems, p, "li")

	var item models.LibraryItem
	if err := r.db.GetContext(ctx, &item, fmt.Sprintf("SELECT %s FROM library_items li%s", libraryItemColumns, f.where()), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get library item: %w", err)
	}
	return &item, nil
}

// Create inserts a library item.
func (r *LibraryItemRepository) Create(ctx context.Context, item *models.LibraryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.LibraryItemAvailable
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO library_items (id, title, item_type, isbn, status, created_by, created_at, updated_at) VALUES (:id, :title, :item_type, :isbn, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create library item: %w", err)
	}
	return nil
}

// Update modifies a library item.
func (r *LibraryItemRepository) Update(ctx context.Context, item *models.LibraryItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE library_items SET title = :title, item_type = :item_type, isbn = :isbn, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update library item: %w", err)
	}
	return nil
}

// Delete removes a library item.
func (r *LibraryItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM library_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete library item: %w", err)
	}
	return nil
}
