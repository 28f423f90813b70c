package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

var studentRowColumns = []string{
	"id", "user_id", "admission_number", "class_id", "created_at", "updated_at",
	"user.id", "user.username", "user.full_name", "user.role",
	"class.id", "class.name",
}

func TestStudentRepositoryListForTeacher(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)
	teacher := &models.Principal{UserID: "teacher-1", Role: models.RoleTeacher}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN classes c ON c.id = s.class_id WHERE s.id IN (SELECT vs.id FROM students vs JOIN class_teachers ct ON ct.class_id = vs.class_id WHERE ct.teacher_id = $1) AND s.class_id = $2 ORDER BY s.admission_number DESC LIMIT 20 OFFSET 0")).
		WithArgs("teacher-1", "class-1").
		WillReturnRows(sqlmock.NewRows(studentRowColumns).
			AddRow("stu-1", "user-1", "ADM-001", "class-1", now, now, "user-1", "ada", "Ada Lovelace", "student", "class-1", "Grade 10A"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s JOIN users u ON u.id = s.user_id WHERE s.id IN")).
		WithArgs("teacher-1", "class-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_parents lp JOIN users u ON u.id = lp.parent_id WHERE lp.student_id = ANY($1::uuid[])")).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "id", "username", "full_name", "role"}).
			AddRow("stu-1", "parent-1", "pat", "Pat Lovelace", "parent"))

	students, total, err := repo.List(context.Background(), teacher, models.StudentFilter{ClassID: "class-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, students, 1)
	assert.Equal(t, "Grade 10A", students[0].Class.Name)
	assert.Equal(t, "Ada Lovelace", students[0].User.FullName)
	require.Len(t, students[0].Parents, 1)
	assert.Equal(t, models.RoleParent, students[0].Parents[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateRequiresStudentUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Student{UserID: "teacher-1", AdmissionNumber: "ADM-009", ClassID: "class-1"}, []string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidReference))
	assert.Contains(t, err.Error(), "user_id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateLinksParents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_parents WHERE student_id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_parents (student_id, parent_id) SELECT $1::uuid, src.id FROM (SELECT id FROM users WHERE role = 'parent') src")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	student := &models.Student{UserID: "user-1", AdmissionNumber: "ADM-010", ClassID: "class-1"}
	err := repo.Create(context.Background(), student, []string{"parent-1", "parent-2", "parent-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateKeepsParentsWhenNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET admission_number =")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Student{ID: "stu-1", AdmissionNumber: "ADM-011", ClassID: "class-2"}, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
