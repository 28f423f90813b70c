package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

func TestSettingsRepositoryInsertDefaultIgnoresConflict(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (singleton) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	year := 2024
	err := repo.InsertDefault(context.Background(), &models.SchoolSettings{SchoolName: "Elite Academy", AcademicYear: &year, CurrentTerm: "Term 1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryFirstOrdersByCreation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "school_name", "motto", "logo", "academic_year", "current_term", "created_by", "created_at", "updated_at"}).
		AddRow("s1", "Elite Academy", "", "", 2024, "Term 1", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM school_settings ORDER BY created_at, id LIMIT 1")).WillReturnRows(rows)

	settings, err := repo.First(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s1", settings.ID)
	require.NotNil(t, settings.AcademicYear)
	assert.Equal(t, 2024, *settings.AcademicYear)
	assert.Nil(t, settings.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
