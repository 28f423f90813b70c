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

const settingsColumns = `id, school_name, motto, logo, academic_year, current_term, created_by, created_at, updated_at`

// SettingsRepository persists the school settings singleton.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// InsertDefault creates the singleton row unless one already exists. The
// unique singleton column makes concurrent inserts from separate processes
// collapse into one row.
func (r *SettingsRepository) InsertDefault(ctx context.Context, defaults *models.SchoolSettings) error {
	if defaults.ID == "" {
		defaults.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now

	const query = `INSERT INTO school_settings (id, singleton, school_name, motto, logo, academic_year, current_term, created_by, created_at, updated_at)
VALUES (:id, TRUE, :school_name, :motto, :logo, :academic_year, :current_term, :created_by, :created_at, :updated_at)
ON CONFLICT (singleton) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, defaults); err != nil {
		return fmt.Errorf("insert default settings: %w", err)
	}
	return nil
}

// First returns the oldest settings row.
func (r *SettingsRepository) First(ctx context.Context) (*models.SchoolSettings, error) {
	query := fmt.Sprintf("SELECT %s FROM school_settings ORDER BY created_at, id LIMIT 1", settingsColumns)
	var settings models.SchoolSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &settings, nil
}

// Update persists the editable settings fields.
func (r *SettingsRepository) Update(ctx context.Context, settings *models.SchoolSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	const query = `UPDATE school_settings SET school_name = :school_name, motto = :motto, logo = :logo, academic_year = :academic_year, current_term = :current_term, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
