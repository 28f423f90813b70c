package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

func TestCreateReportCardLinksStudentGrades(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportCardRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO report_cards").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM report_card_grades WHERE report_card_id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("FROM (SELECT id FROM grades WHERE student_id = $3::uuid) src")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	card := &models.ReportCard{StudentID: "stu-1", Term: "Term 1", Year: 2024, CreatedBy: "admin-1"}
	require.NoError(t, repo.Create(context.Background(), card, []string{"g-1", "g-2", "g-1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReportCardRejectsForeignGrade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportCardRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO report_cards").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM report_card_grades").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO report_card_grades").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	card := &models.ReportCard{StudentID: "stu-1", Term: "Term 1", Year: 2024, CreatedBy: "admin-1"}
	err := repo.Create(context.Background(), card, []string{"g-1", "g-other"})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportCardsForParent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportCardRepository(db, nil)
	parent := &models.Principal{UserID: "p-1", Role: models.RoleParent}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE rc.student_id IN (SELECT sp.student_id FROM student_parents sp WHERE sp.parent_id = $1)")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	cards, total, err := repo.List(context.Background(), parent, models.ReportCardFilter{})
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
