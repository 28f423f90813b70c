package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

var feeRowColumns = []string{"id", "student_id", "amount", "balance", "date", "payment_method", "created_by", "created_at", "updated_at"}

func feeRow(balance float64) *sqlmock.Rows {
	now := time.Now()
	due := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(feeRowColumns).AddRow("fee-1", "stu-1", 150.0, balance, due, "", "staff-1", now, now)
}

func TestPayFeeSettlesBalanceAndAudits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db, nil)
	admin := &models.Principal{UserID: "admin-1", Role: models.RoleAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM fees f WHERE f.id = $1 FOR UPDATE")).
		WithArgs("fee-1").
		WillReturnRows(feeRow(150))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE fees SET balance = 0, payment_method = $2")).
		WithArgs("fee-1", "Card", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "admin-1", models.AuditActionPayFee, "Fee", "fee-1", "Paid 150.00 via Card", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := repo.Pay(context.Background(), admin, "fee-1", "Card")
	require.NoError(t, err)
	assert.Equal(t, 150.0, payment.AmountPaid)
	assert.Zero(t, payment.Fee.Balance)
	assert.True(t, payment.Fee.Paid())
	assert.Equal(t, "Card", payment.Fee.PaymentMethod)
	assert.Equal(t, models.AuditActionPayFee, payment.AuditLog.Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayFeeAlreadyPaid(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db, nil)
	admin := &models.Principal{UserID: "admin-1", Role: models.RoleAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM fees f WHERE f.id = $1 FOR UPDATE")).
		WithArgs("fee-1").
		WillReturnRows(feeRow(0))
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), admin, "fee-1", "Cash")
	assert.ErrorIs(t, err, ErrFeeAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayFeeRollsBackWhenAuditFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db, nil)
	admin := &models.Principal{UserID: "admin-1", Role: models.RoleAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM fees f WHERE f.id = $1 FOR UPDATE")).
		WithArgs("fee-1").
		WillReturnRows(feeRow(80))
	mock.ExpectExec("UPDATE fees SET balance = 0").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), admin, "fee-1", "Cash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create audit log")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayFeeInvisibleToOtherStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db, nil)
	student := &models.Principal{UserID: "user-9", Role: models.RoleStudent}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM fees f WHERE f.id = $1 AND f.student_id IN (SELECT vs.id FROM students vs WHERE vs.user_id = $2) FOR UPDATE")).
		WithArgs("fee-1", "user-9").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), student, "fee-1", "Cash")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFeesForStaffScopesToCreator(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db, nil)
	staff := &models.Principal{UserID: "staff-1", Role: models.RoleStaff}
	outstanding := true

	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.created_by = $1 AND f.balance > 0 ORDER BY f.date DESC LIMIT 20 OFFSET 0")).
		WithArgs("staff-1").
		WillReturnRows(sqlmock.NewRows(append(feeRowColumns, "student.id", "student.admission_number", "student.full_name")))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("staff-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	fees, total, err := repo.List(context.Background(), staff, models.FeeFilter{Outstanding: &outstanding})
	require.NoError(t, err)
	assert.Empty(t, fees)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
