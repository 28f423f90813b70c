package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/pkg/database"
)

const studentSelect = `SELECT s.id, s.user_id, s.admission_number, s.class_id, s.created_at, s.updated_at,
u.id AS "user.id", u.username AS "user.username", u.full_name AS "user.full_name", u.role AS "user.role",
c.id AS "class.id", c.name AS "class.name"
FROM students s
JOIN users u ON u.id = s.user_id
JOIN classes c ON c.id = s.class_id`

// StudentRepository persists student profiles and their parent links.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students visible to the caller.
func (r *StudentRepository) List(ctx context.Context, p *models.Principal, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceStudents, p, "s")
	if filter.ClassID != "" {
		f.add("s.class_id = $%d", filter.ClassID)
	}
	f.search(filter.Search, "s.admission_number", "u.full_name", "u.username")

	order := orderBy(filter.ListQuery, map[string]string{
		"admission_number": "s.admission_number",
		"full_name":        "u.full_name",
		"created_at":       "s.created_at",
	}, "s.admission_number")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", studentSelect, f.where(), order, limit, offset)
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM students s JOIN users u ON u.id = s.user_id" + f.where()
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, f.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	if err := r.attachParents(ctx, students); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Get returns a student visible to the caller.
func (r *StudentRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.StudentDetail, error) {
	var f filterSet
	f.add("s.id = $%d", id)
	f.visible(models.ResourceStudents, p, "s")

	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, studentSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get student: %w", err)
	}

	list := []models.StudentDetail{student}
	if err := r.attachParents(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *StudentRepository) attachParents(ctx context.Context, students []models.StudentDetail) error {
	if len(students) == 0 {
		return nil
	}
	index := make(map[string]int, len(students))
	for i := range students {
		index[students[i].ID] = i
		students[i].Parents = []models.UserSummary{}
	}

	var rows []struct {
		StudentID string `db:"student_id"`
		models.UserSummary
	}
	const query = `SELECT lp.student_id, u.id, u.username, u.full_name, u.role FROM student_parents lp JOIN users u ON u.id = lp.parent_id WHERE lp.student_id = ANY($1::uuid[]) ORDER BY u.full_name`
	studentIDs := collectIDs(students, func(s models.StudentDetail) string { return s.ID })
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(studentIDs)); err != nil {
		return fmt.Errorf("load student parents: %w", err)
	}
	for _, row := range rows {
		i := index[row.StudentID]
		students[i].Parents = append(students[i].Parents, row.UserSummary)
	}
	return nil
}

// Create inserts a student profile for a student account together with its parent links.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, parentIDs []string) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO students (id, user_id, admission_number, class_id, created_at, updated_at)
SELECT $1::uuid, $2::uuid, $3, $4::uuid, $5::timestamptz, $6::timestamptz WHERE EXISTS (SELECT 1 FROM users WHERE id = $2::uuid AND role = 'student')`
		res, err := tx.ExecContext(ctx, query, student.ID, student.UserID, student.AdmissionNumber, student.ClassID, student.CreatedAt, student.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create student: %w", err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("create student: %w", err)
		} else if affected == 0 {
			return fmt.Errorf("user_id: %w", ErrInvalidReference)
		}
		return replaceLinks(ctx, tx, "student_parents", "student_id", "parent_id", student.ID, parentIDs, parentSource)
	})
}

// Update modifies a student. A nil parentIDs slice keeps the current parent links.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, parentIDs []string) error {
	student.UpdatedAt = time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `UPDATE students SET admission_number = :admission_number, class_id = :class_id, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, student); err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		if parentIDs == nil {
			return nil
		}
		return replaceLinks(ctx, tx, "student_parents", "student_id", "parent_id", student.ID, parentIDs, parentSource)
	})
}

// Delete removes a student profile.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
