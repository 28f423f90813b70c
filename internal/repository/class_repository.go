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

const classColumns = `c.id, c.name, c.created_by, c.created_at, c.updated_at`

// ClassRepository persists classes and their subject and teacher links.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository instantiates the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes visible to the caller.
func (r *ClassRepository) List(ctx context.Context, p *models.Principal, filter models.ClassFilter) ([]models.ClassDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceClasses, p, "c")
	if filter.TeacherID != "" {
		f.add("EXISTS (SELECT 1 FROM class_teachers ft WHERE ft.class_id = c.id AND ft.teacher_id = $%d)", filter.TeacherID)
	}
	if filter.SubjectID != "" {
		f.add("EXISTS (SELECT 1 FROM class_subjects fs WHERE fs.class_id = c.id AND fs.subject_id = $%d)", filter.SubjectID)
	}
	f.search(filter.Search, "c.name")

	order := orderBy(filter.ListQuery, map[string]string{
		"name":       "c.name",
		"created_at": "c.created_at",
	}, "c.name")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM classes c%s %s LIMIT %d OFFSET %d", classColumns, f.where(), order, limit, offset)
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM classes c"+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	if err := r.attach(ctx, classes); err != nil {
		return nil, 0, err
	}
	return classes, total, nil
}

// Get returns a class visible to the caller with its links.
func (r *ClassRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.ClassDetail, error) {
	var f filterSet
	f.add("c.id = $%d", id)
	f.visible(models.ResourceClasses, p, "c")

	var class models.ClassDetail
	if err := r.db.GetContext(ctx, &class, fmt.Sprintf("SELECT %s FROM classes c%s", classColumns, f.where()), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get class: %w", err)
	}

	list := []models.ClassDetail{class}
	if err := r.attach(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// attach loads subjects, teachers and students for the given classes.
func (r *ClassRepository) attach(ctx context.Context, classes []models.ClassDetail) error {
	if len(classes) == 0 {
		return nil
	}
	index := make(map[string]int, len(classes))
	for i := range classes {
		index[classes[i].ID] = i
		classes[i].Subjects = []models.SubjectSummary{}
		classes[i].Teachers = []models.UserSummary{}
		classes[i].Students = []models.StudentSummary{}
	}
	classIDs := pq.Array(collectIDs(classes, func(c models.ClassDetail) string { return c.ID }))

	var subjects []struct {
		ClassID string `db:"class_id"`
		models.SubjectSummary
	}
	const subjectQuery = `SELECT cs.class_id, sub.id, sub.name, sub.code FROM class_subjects cs JOIN subjects sub ON sub.id = cs.subject_id WHERE cs.class_id = ANY($1::uuid[]) ORDER BY sub.name`
	if err := r.db.SelectContext(ctx, &subjects, subjectQuery, classIDs); err != nil {
		return fmt.Errorf("load class subjects: %w", err)
	}
	for _, row := range subjects {
		i := index[row.ClassID]
		classes[i].Subjects = append(classes[i].Subjects, row.SubjectSummary)
	}

	var teachers []struct {
		ClassID string `db:"class_id"`
		models.UserSummary
	}
	const teacherQuery = `SELECT lt.class_id, u.id, u.username, u.full_name, u.role FROM class_teachers lt JOIN users u ON u.id = lt.teacher_id WHERE lt.class_id = ANY($1::uuid[]) ORDER BY u.full_name`
	if err := r.db.SelectContext(ctx, &teachers, teacherQuery, classIDs); err != nil {
		return fmt.Errorf("load class teachers: %w", err)
	}
	for _, row := range teachers {
		i := index[row.ClassID]
		classes[i].Teachers = append(classes[i].Teachers, row.UserSummary)
	}

	var students []struct {
		ClassID string `db:"class_id"`
		models.StudentSummary
	}
	const studentQuery = `SELECT s.class_id, s.id, s.admission_number, u.full_name FROM students s JOIN users u ON u.id = s.user_id WHERE s.class_id = ANY($1::uuid[]) ORDER BY s.admission_number`
	if err := r.db.SelectContext(ctx, &students, studentQuery, classIDs); err != nil {
		return fmt.Errorf("load class students: %w", err)
	}
	for _, row := range students {
		i := index[row.ClassID]
		classes[i].Students = append(classes[i].Students, row.StudentSummary)
	}
	return nil
}

// Create inserts a class and its links in one transaction.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class, subjectIDs, teacherIDs []string) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO classes (id, name, created_by, created_at, updated_at) VALUES (:id, :name, :created_by, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, class); err != nil {
			return fmt.Errorf("create class: %w", err)
		}
		if err := replaceLinks(ctx, tx, "class_subjects", "class_id", "subject_id", class.ID, subjectIDs, subjectSource); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, "class_teachers", "class_id", "teacher_id", class.ID, teacherIDs, teacherSource)
	})
}

// Update modifies a class. Nil link slices leave the existing links untouched.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class, subjectIDs, teacherIDs []string) error {
	class.UpdatedAt = time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `UPDATE classes SET name = :name, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, query, class); err != nil {
			return fmt.Errorf("update class: %w", err)
		}
		if subjectIDs != nil {
			if err := replaceLinks(ctx, tx, "class_subjects", "class_id", "subject_id", class.ID, subjectIDs, subjectSource); err != nil {
				return err
			}
		}
		if teacherIDs != nil {
			if err := replaceLinks(ctx, tx, "class_teachers", "class_id", "teacher_id", class.ID, teacherIDs, teacherSource); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
