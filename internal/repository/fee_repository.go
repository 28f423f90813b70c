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

// ErrFeeAlreadyPaid is returned by Pay when the balance is already settled.
var ErrFeeAlreadyPaid = errors.New("fee already paid")

const feeColumns = `f.id, f.student_id, f.amount, f.balance, f.date, f.payment_method, f.created_by, f.created_at, f.updated_at`

const feeFrom = ` FROM fees f
JOIN students s ON s.id = f.student_id
JOIN users su ON su.id = s.user_id`

const feeSelect = `SELECT ` + feeColumns + `,
s.id AS "student.id", s.admission_number AS "student.admission_number", su.full_name AS "student.full_name"` + feeFrom

// FeeRepository persists fees and settles payments.
type FeeRepository struct {
	db    *sqlx.DB
	audit *AuditLogRepository
}

// NewFeeRepository instantiates the repository.
func NewFeeRepository(db *sqlx.DB, audit *AuditLogRepository) *FeeRepository {
	if audit == nil {
		audit = NewAuditLogRepository(db)
	}
	return &FeeRepository{db: db, audit: audit}
}

// List returns fees visible to the caller.
func (r *FeeRepository) List(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, int, error) {
	f := r.filters(p, filter)

	order := orderBy(filter.ListQuery, map[string]string{
		"date":       "f.date",
		"amount":     "f.amount",
		"balance":    "f.balance",
		"created_at": "f.created_at",
	}, "f.date")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var fees []models.FeeDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", feeSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &fees, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list fees: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+feeFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count fees: %w", err)
	}
	return fees, total, nil
}

// ListAll returns every fee visible to the caller matching the filter, for export.
func (r *FeeRepository) ListAll(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, error) {
	f := r.filters(p, filter)
	var fees []models.FeeDetail
	if err := r.db.SelectContext(ctx, &fees, feeSelect+f.where()+" ORDER BY f.date, s.admission_number", f.args...); err != nil {
		return nil, fmt.Errorf("export fees: %w", err)
	}
	return fees, nil
}

func (r *FeeRepository) filters(p *models.Principal, filter models.FeeFilter) *filterSet {
	f := &filterSet{}
	f.visible(models.ResourceFees, p, "f")
	if filter.StudentID != "" {
		f.add("f.student_id = $%d", filter.StudentID)
	}
	if filter.Outstanding != nil {
		if *filter.Outstanding {
			f.raw("f.balance > 0")
		} else {
			f.raw("f.balance <= 0")
		}
	}
	f.search(filter.Search, "su.full_name", "s.admission_number", "f.payment_method")
	return f
}

// Get returns a fee visible to the caller.
func (r *FeeRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.FeeDetail, error) {
	var f filterSet
	f.add("f.id = $%d", id)
	f.visible(models.ResourceFees, p, "f")

	var fee models.FeeDetail
	if err := r.db.GetContext(ctx, &fee, feeSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get fee: %w", err)
	}
	return &fee, nil
}

// Create inserts a fee.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	fee.CreatedAt = now
	fee.UpdatedAt = now
	const query = `INSERT INTO fees (id, student_id, amount, balance, date, payment_method, created_by, created_at, updated_at) VALUES (:id, :student_id, :amount, :balance, :date, :payment_method, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

// Update modifies a fee.
func (r *FeeRepository) Update(ctx context.Context, fee *models.Fee) error {
	fee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE fees SET student_id = :student_id, amount = :amount, balance = :balance, date = :date, payment_method = :payment_method, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("update fee: %w", err)
	}
	return nil
}

// Delete removes a fee.
func (r *FeeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fees WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete fee: %w", err)
	}
	return nil
}

// Pay settles the outstanding balance of a fee visible to the caller and
// records a PAY_FEE audit entry. Both writes commit together or not at all.
func (r *FeeRepository) Pay(ctx context.Context, p *models.Principal, id, method string) (*models.FeePayment, error) {
	var payment models.FeePayment
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var f filterSet
		f.add("f.id = $%d", id)
		f.visible(models.ResourceFees, p, "f")

		lockQuery := fmt.Sprintf("SELECT %s FROM fees f%s FOR UPDATE", feeColumns, f.where())
		var fee models.Fee
		if err := tx.GetContext(ctx, &fee, lockQuery, f.args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return err
			}
			return fmt.Errorf("lock fee: %w", err)
		}
		if fee.Paid() {
			return ErrFeeAlreadyPaid
		}

		paid := fee.Balance
		fee.Balance = 0
		fee.PaymentMethod = method
		fee.UpdatedAt = time.Now().UTC()
		const update = `UPDATE fees SET balance = 0, payment_method = $2, updated_at = $3 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, update, fee.ID, fee.PaymentMethod, fee.UpdatedAt); err != nil {
			return fmt.Errorf("settle fee: %w", err)
		}

		entry := models.AuditLog{
			UserID:    p.UserID,
			Action:    models.AuditActionPayFee,
			ModelName: "Fee",
			ObjectID:  fee.ID,
			Details:   fmt.Sprintf("Paid %.2f via %s", paid, method),
		}
		if err := r.audit.CreateTx(ctx, tx, &entry); err != nil {
			return err
		}

		payment = models.FeePayment{Fee: fee, AmountPaid: paid, AuditLog: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
