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

const attendanceFrom = ` FROM attendance a
JOIN students s ON s.id = a.student_id
JOIN users su ON su.id = s.user_id
JOIN classes c ON c.id = a.class_id`

const attendanceSelect = `SELECT a.id, a.student_id, a.class_id, a.date, a.present, a.remarks, a.created_by, a.created_at, a.updated_at,
s.id AS "student.id", s.admission_number AS "student.admission_number", su.full_name AS "student.full_name",
c.id AS "class.id", c.name AS "class.name"` + attendanceFrom

// AttendanceRepository persists attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance rows visible to the caller.
func (r *AttendanceRepository) List(ctx context.Context, p *models.Principal, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceAttendance, p, "a")
	if filter.StudentID != "" {
		f.add("a.student_id = $%d", filter.StudentID)
	}
	if filter.ClassID != "" {
		f.add("a.class_id = $%d", filter.ClassID)
	}
	if filter.Present != nil {
		f.add("a.present = $%d", *filter.Present)
	}
	if filter.DateFrom != nil {
		f.add("a.date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		f.add("a.date <= $%d", *filter.DateTo)
	}
	f.search(filter.Search, "su.full_name", "s.admission_number")

	order := orderBy(filter.ListQuery, map[string]string{
		"date":       "a.date",
		"created_at": "a.created_at",
	}, "a.date")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var rows []models.AttendanceDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", attendanceSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &rows, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+attendanceFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// Get returns an attendance row visible to the caller.
func (r *AttendanceRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.AttendanceDetail, error) {
	var f filterSet
	f.add("a.id = $%d", id)
	f.visible(models.ResourceAttendance, p, "a")

	var row models.AttendanceDetail
	if err := r.db.GetContext(ctx, &row, attendanceSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return &row, nil
}

// Create inserts an attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO attendance (id, student_id, class_id, date, present, remarks, created_by, created_at, updated_at) VALUES (:id, :student_id, :class_id, :date, :present, :remarks, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update modifies an attendance record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance SET student_id = :student_id, class_id = :class_id, date = :date, present = :present, remarks = :remarks, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}
