package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type mockLeaveRepo struct {
	leaves  map[string]*models.LeaveApplication
	updates int
}

func (m *mockLeaveRepo) List(ctx context.Context, p *models.Principal, filter models.LeaveApplicationFilter) ([]models.LeaveApplicationDetail, int, error) {
	var out []models.LeaveApplicationDetail
	for _, l := range m.leaves {
		if p.Unrestricted() || l.UserID == p.UserID {
			out = append(out, models.LeaveApplicationDetail{LeaveApplication: *l})
		}
	}
	return out, len(out), nil
}

func (m *mockLeaveRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.LeaveApplicationDetail, error) {
	l, ok := m.leaves[id]
	if !ok || !(p.Unrestricted() || l.UserID == p.UserID) {
		return nil, sql.ErrNoRows
	}
	return &models.LeaveApplicationDetail{LeaveApplication: *l}, nil
}

func (m *mockLeaveRepo) Create(ctx context.Context, leave *models.LeaveApplication) error {
	leave.ID = "leave-new"
	copy := *leave
	m.leaves[leave.ID] = &copy
	return nil
}

func (m *mockLeaveRepo) Update(ctx context.Context, leave *models.LeaveApplication) error {
	m.updates++
	copy := *leave
	m.leaves[leave.ID] = &copy
	return nil
}

func (m *mockLeaveRepo) Delete(ctx context.Context, id string) error {
	delete(m.leaves, id)
	return nil
}

func newLeaveFixture(status models.LeaveStatus) (*LeaveService, *mockLeaveRepo) {
	start, _ := models.ParseDate("2024-05-01")
	end, _ := models.ParseDate("2024-05-03")
	repo := &mockLeaveRepo{leaves: map[string]*models.LeaveApplication{
		"leave-1": {ID: "leave-1", UserID: "student-1", StartDate: start, EndDate: end, Reason: "Family", Status: status},
	}}
	return NewLeaveService(repo, nil, zap.NewNop()), repo
}

var studentPrincipal = &models.Principal{UserID: "student-1", Role: models.RoleStudent}

func strPtr(s string) *string { return &s }

func TestLeaveServiceCreateIsPendingForCaller(t *testing.T) {
	svc, repo := newLeaveFixture(models.LeavePending)

	leave, err := svc.Create(context.Background(), studentPrincipal, dto.LeaveApplicationRequest{
		StartDate: "2024-06-10", EndDate: "2024-06-12", Reason: "Trip",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeavePending, leave.Status)
	assert.Equal(t, "student-1", repo.leaves["leave-new"].UserID)
	assert.Nil(t, leave.ApprovedBy)
}

func TestLeaveServiceCreateRejectsReversedDates(t *testing.T) {
	svc, _ := newLeaveFixture(models.LeavePending)

	_, err := svc.Create(context.Background(), studentPrincipal, dto.LeaveApplicationRequest{
		StartDate: "2024-06-12", EndDate: "2024-06-10", Reason: "Trip",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "end_date")
}

func TestLeaveServiceStudentCannotApprove(t *testing.T) {
	svc, repo := newLeaveFixture(models.LeavePending)

	_, err := svc.Update(context.Background(), studentPrincipal, "leave-1", dto.UpdateLeaveApplicationRequest{Status: strPtr("approved")})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Equal(t, models.LeavePending, repo.leaves["leave-1"].Status)
	assert.Zero(t, repo.updates)
}

func TestLeaveServiceAdminApprovalRecordsApprover(t *testing.T) {
	svc, repo := newLeaveFixture(models.LeavePending)

	leave, err := svc.Update(context.Background(), adminPrincipal, "leave-1", dto.UpdateLeaveApplicationRequest{Status: strPtr("approved")})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, leave.Status)
	require.NotNil(t, repo.leaves["leave-1"].ApprovedBy)
	assert.Equal(t, "admin", *repo.leaves["leave-1"].ApprovedBy)
}

func TestLeaveServiceRevertToPendingClearsApprover(t *testing.T) {
	svc, repo := newLeaveFixture(models.LeaveApproved)
	approver := "admin-0"
	repo.leaves["leave-1"].ApprovedBy = &approver

	leave, err := svc.Update(context.Background(), adminPrincipal, "leave-1", dto.UpdateLeaveApplicationRequest{Status: strPtr("pending")})
	require.NoError(t, err)
	assert.Equal(t, models.LeavePending, leave.Status)
	assert.Nil(t, repo.leaves["leave-1"].ApprovedBy)

	_, err = svc.Update(context.Background(), adminPrincipal, "leave-1", dto.UpdateLeaveApplicationRequest{Status: strPtr("rejected")})
	require.NoError(t, err)
	require.NotNil(t, repo.leaves["leave-1"].ApprovedBy)
	assert.Equal(t, "admin", *repo.leaves["leave-1"].ApprovedBy)
}

func TestLeaveServiceOwnerEditsPendingOnly(t *testing.T) {
	svc, _ := newLeaveFixture(models.LeavePending)
	leave, err := svc.Update(context.Background(), studentPrincipal, "leave-1", dto.UpdateLeaveApplicationRequest{Reason: strPtr("Medical")})
	require.NoError(t, err)
	assert.Equal(t, "Medical", leave.Reason)

	svc, _ = newLeaveFixture(models.LeaveApproved)
	_, err = svc.Update(context.Background(), studentPrincipal, "leave-1", dto.UpdateLeaveApplicationRequest{Reason: strPtr("Medical")})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestLeaveServiceUnchangedStatusIsNotApproval(t *testing.T) {
	svc, repo := newLeaveFixture(models.LeavePending)

	_, err := svc.Update(context.Background(), studentPrincipal, "leave-1", dto.UpdateLeaveApplicationRequest{Status: strPtr("pending"), Reason: strPtr("Updated")})
	require.NoError(t, err)
	assert.Nil(t, repo.leaves["leave-1"].ApprovedBy)
}

func TestLeaveServiceOtherUsersSeeNotFound(t *testing.T) {
	svc, _ := newLeaveFixture(models.LeavePending)
	other := &models.Principal{UserID: "staff-9", Role: models.RoleStaff}

	_, err := svc.Get(context.Background(), other, "leave-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), other, "leave-1"), appErrors.ErrNotFound)
}
