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

const timetableColumns = `tt.id, tt.class_id, tt.subject_id, tt.day, to_char(tt.start_time, 'HH24:MI') AS start_time, to_char(tt.end_time, 'HH24:MI') AS end_time, tt.room, tt.created_by, tt.created_at, tt.updated_at`

const timetableFrom = ` FROM timetables tt
JOIN classes c ON c.id = tt.class_id
JOIN subjects sub ON sub.id = tt.subject_id`

const timetableSelect = `SELECT ` + timetableColumns + `,
c.id AS "class.id", c.name AS "class.name",
sub.id AS "subject.id", sub.name AS "subject.name", sub.code AS "subject.code"` + timetableFrom

// TimetableRepository persists weekly timetable slots.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository instantiates the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns timetable slots visible to the caller, ordered by weekday then start.
func (r *TimetableRepository) List(ctx context.Context, p *models.Principal, filter models.TimetableFilter) ([]models.TimetableDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceTimetables, p, "tt")
	if filter.ClassID != "" {
		f.add("tt.class_id = $%d", filter.ClassID)
	}
	if filter.SubjectID != "" {
		f.add("tt.subject_id = $%d", filter.SubjectID)
	}
	if filter.Day != "" {
		f.add("tt.day = $%d", filter.Day)
	}
	f.search(filter.Search, "c.name", "sub.name", "tt.room")

	limit, offset := pageWindow(filter.Page, filter.PageSize)
	order := `ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday']::text[], tt.day::text), tt.start_time`
	if filter.SortBy != "" {
		order = orderBy(filter.ListQuery, map[string]string{
			"day":        "tt.day",
			"start_time": "tt.start_time",
			"created_at": "tt.created_at",
		}, "tt.start_time")
	}

	var items []models.TimetableDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", timetableSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+timetableFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}
	return items, total, nil
}

// Get returns a timetable slot visible to the caller.
func (r *TimetableRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.TimetableDetail, error) {
	var f filterSet
	f.add("tt.id = $%d", id)
	f.visible(models.ResourceTimetables, p, "tt")

	var item models.TimetableDetail
	if err := r.db.GetContext(ctx, &item, timetableSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get timetable: %w", err)
	}
	return &item, nil
}

// Create inserts a timetable slot.
func (r *TimetableRepository) Create(ctx context.Context, slot *models.Timetable) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	const query = `INSERT INTO timetables (id, class_id, subject_id, day, start_time, end_time, room, created_by, created_at, updated_at) VALUES (:id, :class_id, :subject_id, :day, :start_time, :end_time, :room, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// Update modifies a timetable slot.
func (r *TimetableRepository) Update(ctx context.Context, slot *models.Timetable) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetables SET class_id = :class_id, subject_id = :subject_id, day = :day, start_time = :start_time, end_time = :end_time, room = :room, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update timetable: %w", err)
	}
	return nil
}

// Delete removes a timetable slot.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	return nil
}
