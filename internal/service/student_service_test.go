package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type mockStudentRepo struct {
	students    map[string]models.Student
	parentLinks map[string][]string
	linkErr     error
}

func (m *mockStudentRepo) List(ctx context.Context, p *models.Principal, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	details := make([]models.StudentDetail, 0, len(m.students))
	for _, s := range m.students {
		details = append(details, models.StudentDetail{Student: s})
	}
	return details, len(details), nil
}

func (m *mockStudentRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.StudentDetail, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	detail := models.StudentDetail{Student: s}
	for _, parentID := range m.parentLinks[id] {
		detail.Parents = append(detail.Parents, models.UserSummary{ID: parentID})
	}
	return &detail, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student, parentIDs []string) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	student.ID = fmt.Sprintf("student-%d", len(m.students)+1)
	m.students[student.ID] = *student
	m.parentLinks[student.ID] = parentIDs
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student, parentIDs []string) error {
	m.students[student.ID] = *student
	if parentIDs != nil {
		m.parentLinks[student.ID] = parentIDs
	}
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

const (
	studentUserID = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	classID       = "5d4c3b2a-1f0e-4d9c-8b7a-6f5e4d3c2b1a"
	parentUserID  = "9f8e7d6c-5b4a-4f3e-9d2c-1b0a9f8e7d6c"
)

func newStudentFixture() (*StudentService, *mockStudentRepo) {
	repo := &mockStudentRepo{students: map[string]models.Student{}, parentLinks: map[string][]string{}}
	return NewStudentService(repo, nil, zap.NewNop()), repo
}

func TestStudentServiceCreate(t *testing.T) {
	svc, repo := newStudentFixture()

	student, err := svc.Create(context.Background(), adminPrincipal, dto.StudentRequest{
		UserID:          studentUserID,
		AdmissionNumber: " ADM-001 ",
		ClassID:         classID,
		ParentIDs:       []string{parentUserID},
	})
	require.NoError(t, err)
	assert.Equal(t, "ADM-001", student.AdmissionNumber)
	assert.Equal(t, []string{parentUserID}, repo.parentLinks[student.ID])
	require.Len(t, student.Parents, 1)
}

func TestStudentServiceCreateWithoutParentsClearsLinks(t *testing.T) {
	svc, repo := newStudentFixture()

	student, err := svc.Create(context.Background(), adminPrincipal, dto.StudentRequest{
		UserID: studentUserID, AdmissionNumber: "ADM-002", ClassID: classID,
	})
	require.NoError(t, err)
	assert.NotNil(t, repo.parentLinks[student.ID])
	assert.Empty(t, repo.parentLinks[student.ID])
}

func TestStudentServiceCreateIneligibleParent(t *testing.T) {
	svc, repo := newStudentFixture()
	repo.linkErr = fmt.Errorf("parent_id: %w", repository.ErrInvalidReference)

	_, err := svc.Create(context.Background(), adminPrincipal, dto.StudentRequest{
		UserID: studentUserID, AdmissionNumber: "ADM-003", ClassID: classID, ParentIDs: []string{studentUserID},
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "parent")
}

func TestStudentServiceUpdateKeepsLinksWhenOmitted(t *testing.T) {
	svc, repo := newStudentFixture()
	student, err := svc.Create(context.Background(), adminPrincipal, dto.StudentRequest{
		UserID: studentUserID, AdmissionNumber: "ADM-004", ClassID: classID, ParentIDs: []string{parentUserID},
	})
	require.NoError(t, err)

	admission := "ADM-004B"
	updated, err := svc.Update(context.Background(), adminPrincipal, student.ID, dto.UpdateStudentRequest{AdmissionNumber: &admission})
	require.NoError(t, err)
	assert.Equal(t, "ADM-004B", updated.AdmissionNumber)
	assert.Equal(t, []string{parentUserID}, repo.parentLinks[student.ID])
}

func TestStudentServiceUpdateRejectsUserChange(t *testing.T) {
	svc, _ := newStudentFixture()
	student, err := svc.Create(context.Background(), adminPrincipal, dto.StudentRequest{
		UserID: studentUserID, AdmissionNumber: "ADM-005", ClassID: classID,
	})
	require.NoError(t, err)

	other := parentUserID
	_, err = svc.Update(context.Background(), adminPrincipal, student.ID, dto.UpdateStudentRequest{UserID: &other})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "user")
}

func TestStudentServiceDeleteMissing(t *testing.T) {
	svc, _ := newStudentFixture()

	assert.ErrorIs(t, svc.Delete(context.Background(), adminPrincipal, "nope"), appErrors.ErrNotFound)
}
