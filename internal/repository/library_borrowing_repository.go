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
	"github.com/noah-isme/elite-academy-api/pkg/database"
)

// ErrItemUnavailable is returned when borrowing an item that is already out.
var ErrItemUnavailable = errors.New("library item is not available")

const borrowingFrom = ` FROM library_borrowings lb
JOIN library_items li ON li.id = lb.library_item_id
JOIN students s ON s.id = lb.student_id
JOIN users su ON su.id = s.user_id`

const borrowingSelect = `SELECT lb.id, lb.library_item_id, lb.student_id, lb.borrow_date, lb.return_date, lb.returned, lb.created_by, lb.created_at, lb.updated_at,
li.id AS "item.id", li.title AS "item.title", li.item_type AS "item.item_type",
s.id AS "student.id", s.admission_number AS "student.admission_number", su.full_name AS "student.full_name"` + borrowingFrom

// LibraryBorrowingRepository persists loans and keeps item status in step with them.
type LibraryBorrowingRepository struct {
	db *sqlx.DB
}

// NewLibraryBorrowingRepository instantiates the repository.
func NewLibraryBorrowingRepository(db *sqlx.DB) *LibraryBorrowingRepository {
	return &LibraryBorrowingRepository{db: db}
}

// List returns borrowings visible to the caller.
func (r *LibraryBorrowingRepository) List(ctx context.Context, p *models.Principal, filter models.LibraryBorrowingFilter) ([]models.LibraryBorrowingDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceLibraryBorrowings, p, "lb")
	if filter.StudentID != "" {
		f.add("lb.student_id = $%d", filter.StudentID)
	}
	if filter.LibraryItemID != "" {
		f.add("lb.library_item_id = $%d", filter.LibraryItemID)
	}
	if filter.Returned != nil {
		f.add("lb.returned = $%d", *filter.Returned)
	}
	f.search(filter.Search, "li.title", "su.full_name", "s.admission_number")

	order := orderBy(filter.ListQuery, map[string]string{
		"borrow_date": "lb.borrow_date",
		"return_date": "lb.return_date",
		"created_at":  "lb.created_at",
	}, "lb.borrow_date")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var items []models.LibraryBorrowingDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", borrowingSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list library borrowings: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+borrowingFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count library borrowings: %w", err)
	}
	return items, total, nil
}

// Get returns a borrowing visible to the caller.
func (r *LibraryBorrowingRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.LibraryBorrowingDetail, error) {
	var f filterSet
	f.add("lb.id = $%d", id)
	f.visible(models.ResourceLibraryBorrowings, p, "lb")

	var item models.LibraryBorrowingDetail
	if err := r.db.GetContext(ctx, &item, borrowingSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get library borrowing: %w", err)
	}
	return &item, nil
}

// Create records a loan and marks the item borrowed in the same transaction.
// A loan that is already returned leaves the item untouched.
func (r *LibraryBorrowingRepository) Create(ctx context.Context, b *models.LibraryBorrowing) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if !b.Returned {
			if err := claimItem(ctx, tx, b.LibraryItemID); err != nil {
				return err
			}
		}
		const query = `INSERT INTO library_borrowings (id, library_item_id, student_id, borrow_date, return_date, returned, created_by, created_at, updated_at) VALUES (:id, :library_item_id, :student_id, :borrow_date, :return_date, :returned, :created_by, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, b); err != nil {
			return fmt.Errorf("create library borrowing: %w", err)
		}
		return nil
	})
}

// Update modifies a loan. Returning it frees the item, reopening it claims
// the item again, and moving it to another item swaps the claims.
func (r *LibraryBorrowingRepository) Update(ctx context.Context, prev, next *models.LibraryBorrowing) error {
	next.UpdatedAt = time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if !prev.Returned {
			if err := releaseItem(ctx, tx, prev.LibraryItemID); err != nil {
				return err
			}
		}
		if !next.Returned {
			if err := claimItem(ctx, tx, next.LibraryItemID); err != nil {
				return err
			}
		}
		const query = `UPDATE library_borrowings SET library_item_id = :library_item_id, student_id = :student_id, borrow_date = :borrow_date, return_date = :return_date, returned = :returned, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, next); err != nil {
			return fmt.Errorf("update library borrowing: %w", err)
		}
		return nil
	})
}

// Delete removes a loan, freeing the item when it was still out.
func (r *LibraryBorrowingRepository) Delete(ctx context.Context, b *models.LibraryBorrowing) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if !b.Returned {
			if err := releaseItem(ctx, tx, b.LibraryItemID); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM library_borrowings WHERE id = $1`, b.ID); err != nil {
			return fmt.Errorf("delete library borrowing: %w", err)
		}
		return nil
	})
}

func claimItem(ctx context.Context, tx *sqlx.Tx, itemID string) error {
	var status models.LibraryItemStatus
	if err := tx.GetContext(ctx, &status, `SELECT status FROM library_items WHERE id = $1 FOR UPDATE`, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("library_item_id: %w", ErrInvalidReference)
		}
		return fmt.Errorf("lock library item: %w", err)
	}
	if status != models.LibraryItemAvailable {
		return ErrItemUnavailable
	}
	return setItemStatus(ctx, tx, itemID, models.LibraryItemBorrowed)
}

func releaseItem(ctx context.Context, tx *sqlx.Tx, itemID string) error {
	return setItemStatus(ctx, tx, itemID, models.LibraryItemAvailable)
}

func setItemStatus(ctx context.Context, tx *sqlx.Tx, itemID string, status models.LibraryItemStatus) error {
	if _, err := tx.ExecContext(ctx, `UPDATE library_items SET status = $2, updated_at = NOW() WHERE id = $1`, itemID, status); err != nil {
		return fmt.Errorf("set library item status: %w", err)
	}
	return nil
}
