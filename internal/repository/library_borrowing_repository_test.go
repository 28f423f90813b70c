package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

func TestCreateBorrowingClaimsItem(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLibraryBorrowingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM library_items WHERE id = $1 FOR UPDATE")).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("available"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE library_items SET status = $2")).
		WithArgs("item-1", models.LibraryItemBorrowed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO library_borrowings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b := &models.LibraryBorrowing{LibraryItemID: "item-1", StudentID: "stu-1", BorrowDate: models.NewDate(time.Now()), CreatedBy: "staff-1"}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.NotEmpty(t, b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBorrowingRejectsBorrowedItem(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLibraryBorrowingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM library_items")).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("borrowed"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.LibraryBorrowing{LibraryItemID: "item-1", StudentID: "stu-1"})
	assert.ErrorIs(t, err, ErrItemUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnBorrowingReleasesItem(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLibraryBorrowingRepository(db)

	prev := &models.LibraryBorrowing{ID: "b-1", LibraryItemID: "item-1", StudentID: "stu-1"}
	next := *prev
	next.Returned = true

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE library_items SET status = $2")).
		WithArgs("item-1", models.LibraryItemAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE library_borrowings SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), prev, &next))
	assert.NoError(t, mock.ExpectationsWereMet())
}
