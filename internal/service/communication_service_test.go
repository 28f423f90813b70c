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

type mockAnnouncementRepo struct {
	items   map[string]*models.Announcement
	deleted []string
}

func (m *mockAnnouncementRepo) List(ctx context.Context, p *models.Principal, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, int, error) {
	var out []models.AnnouncementDetail
	for _, a := range m.items {
		if p.Unrestricted() || a.TargetsRole(p.Role) || a.CreatedBy == p.UserID {
			out = append(out, models.AnnouncementDetail{Announcement: *a})
		}
	}
	return out, len(out), nil
}

func (m *mockAnnouncementRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.AnnouncementDetail, error) {
	a, ok := m.items[id]
	if !ok || !(p.Unrestricted() || a.TargetsRole(p.Role) || a.CreatedBy == p.UserID) {
		return nil, sql.ErrNoRows
	}
	return &models.AnnouncementDetail{Announcement: *a}, nil
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	a.ID = "ann-new"
	copy := *a
	m.items[a.ID] = &copy
	return nil
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, a *models.Announcement) error {
	copy := *a
	m.items[a.ID] = &copy
	return nil
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func newAnnouncementFixture() (*AnnouncementService, *mockAnnouncementRepo) {
	repo := &mockAnnouncementRepo{items: map[string]*models.Announcement{
		"ann-1": {ID: "ann-1", Title: "Sports day", Content: "Friday", TargetRoles: "teacher,student", CreatedBy: "teacher-1"},
	}}
	return NewAnnouncementService(repo, nil, zap.NewNop()), repo
}

func TestAnnouncementServiceCreateSanitises(t *testing.T) {
	svc, repo := newAnnouncementFixture()
	teacher := &models.Principal{UserID: "teacher-2", Role: models.RoleTeacher}

	_, err := svc.Create(context.Background(), teacher, dto.AnnouncementRequest{
		Title:       "<b>Exams</b>",
		Content:     `<p>Bring pens</p><script>alert(1)</script>`,
		TargetRoles: []string{"student", "parent", "student"},
	})
	require.NoError(t, err)
	stored := repo.items["ann-new"]
	assert.Equal(t, "Exams", stored.Title)
	assert.Equal(t, "Bring pens", stored.Content)
	assert.Equal(t, "student,parent", stored.TargetRoles)
	assert.Equal(t, "teacher-2", stored.CreatedBy)
}

func TestAnnouncementServiceKeepsPlainTextVerbatim(t *testing.T) {
	svc, repo := newAnnouncementFixture()

	created, err := svc.Create(context.Background(), adminPrincipal, dto.AnnouncementRequest{
		Title:       "Parents & Teachers: 5 < 6",
		Content:     "Q&A at 5pm, bring \"forms\"",
		TargetRoles: []string{"parent"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Parents & Teachers: 5 < 6", created.Title)
	assert.Equal(t, "Q&A at 5pm, bring \"forms\"", repo.items["ann-new"].Content)
}

func TestAnnouncementServiceRejectsMarkupOnlyContent(t *testing.T) {
	svc, repo := newAnnouncementFixture()
	teacher := &models.Principal{UserID: "teacher-1", Role: models.RoleTeacher}

	_, err := svc.Create(context.Background(), teacher, dto.AnnouncementRequest{
		Title:       "Parents & Teachers",
		Content:     "<script>alert(1)</script>",
		TargetRoles: []string{"parent"},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "must not be empty", appErr.Details["content"])
	assert.NotContains(t, repo.items, "ann-new")

	blank := "<b> </b>"
	_, err = svc.Update(context.Background(), teacher, "ann-1", dto.UpdateAnnouncementRequest{Title: &blank})
	require.Error(t, err)
	assert.Equal(t, "must not be empty", appErrors.FromError(err).Details["title"])
	assert.Equal(t, "Sports day", repo.items["ann-1"].Title)
}

func TestAnnouncementServiceRejectsUnknownRole(t *testing.T) {
	svc, _ := newAnnouncementFixture()

	_, err := svc.Create(context.Background(), adminPrincipal, dto.AnnouncementRequest{
		Title: "x", Content: "y", TargetRoles: []string{"alumni"},
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestAnnouncementServiceOnlyAuthorOrAdminMutates(t *testing.T) {
	svc, repo := newAnnouncementFixture()
	other := &models.Principal{UserID: "teacher-2", Role: models.RoleTeacher}
	title := "Changed"

	_, err := svc.Update(context.Background(), other, "ann-1", dto.UpdateAnnouncementRequest{Title: &title})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), other, "ann-1"), appErrors.ErrForbidden)

	author := &models.Principal{UserID: "teacher-1", Role: models.RoleTeacher}
	updated, err := svc.Update(context.Background(), author, "ann-1", dto.UpdateAnnouncementRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Title)

	require.NoError(t, svc.Delete(context.Background(), adminPrincipal, "ann-1"))
	assert.Equal(t, []string{"ann-1"}, repo.deleted)
}

func TestAnnouncementServiceHiddenFromUntargetedRole(t *testing.T) {
	svc, _ := newAnnouncementFixture()
	parent := &models.Principal{UserID: "parent-1", Role: models.RoleParent}

	_, err := svc.Get(context.Background(), parent, "ann-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

type mockMessageRepo struct {
	messages map[string]*models.Message
}

func (m *mockMessageRepo) visible(p *models.Principal, msg *models.Message) bool {
	return p.Unrestricted() || msg.SenderID == p.UserID || msg.ReceiverID == p.UserID
}

func (m *mockMessageRepo) List(ctx context.Context, p *models.Principal, filter models.MessageFilter) ([]models.MessageDetail, int, error) {
	var out []models.MessageDetail
	for _, msg := range m.messages {
		if m.visible(p, msg) {
			out = append(out, models.MessageDetail{Message: *msg})
		}
	}
	return out, len(out), nil
}

func (m *mockMessageRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.MessageDetail, error) {
	msg, ok := m.messages[id]
	if !ok || !m.visible(p, msg) {
		return nil, sql.ErrNoRows
	}
	return &models.MessageDetail{Message: *msg}, nil
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	msg.ID = "msg-new"
	copy := *msg
	m.messages[msg.ID] = &copy
	return nil
}

func (m *mockMessageRepo) Update(ctx context.Context, msg *models.Message) error {
	copy := *msg
	m.messages[msg.ID] = &copy
	return nil
}

func (m *mockMessageRepo) Delete(ctx context.Context, id string) error {
	delete(m.messages, id)
	return nil
}

func TestMessageServiceReadFlagBelongsToReceiver(t *testing.T) {
	repo := &mockMessageRepo{messages: map[string]*models.Message{
		"msg-1": {ID: "msg-1", SenderID: "teacher-1", ReceiverID: "parent-1", Content: "Hello"},
	}}
	svc := NewMessageService(repo, nil, zap.NewNop())
	read := true
	sender := &models.Principal{UserID: "teacher-1", Role: models.RoleTeacher}
	receiver := &models.Principal{UserID: "parent-1", Role: models.RoleParent}

	_, err := svc.Update(context.Background(), sender, "msg-1", dto.UpdateMessageRequest{Read: &read})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	msg, err := svc.Update(context.Background(), receiver, "msg-1", dto.UpdateMessageRequest{Read: &read})
	require.NoError(t, err)
	assert.True(t, msg.Read)

	content := "Edited"
	_, err = svc.Update(context.Background(), receiver, "msg-1", dto.UpdateMessageRequest{Content: &content})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(context.Background(), receiver, "msg-1"), appErrors.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), sender, "msg-1"))
}

func TestMessageServiceSendSetsSender(t *testing.T) {
	repo := &mockMessageRepo{messages: map[string]*models.Message{}}
	svc := NewMessageService(repo, nil, zap.NewNop())
	sender := &models.Principal{UserID: "7a4d1c3e-0f9b-4b7e-8c2d-1e3f5a7b9c0d", Role: models.RoleParent}

	_, err := svc.Create(context.Background(), sender, dto.MessageRequest{
		ReceiverID: "2f6e8a0c-4b1d-4e3f-9a5b-7c9d1e3f5a7b",
		Content:    `<a href="javascript:alert(1)">hi</a>`,
	})
	require.NoError(t, err)
	stored := repo.messages["msg-new"]
	assert.Equal(t, sender.UserID, stored.SenderID)
	assert.NotContains(t, stored.Content, "javascript")

	_, err = svc.Create(context.Background(), sender, dto.MessageRequest{ReceiverID: sender.UserID, Content: "me"})
	require.Error(t, err)
}

func TestMessageServiceRejectsMarkupOnlyContent(t *testing.T) {
	repo := &mockMessageRepo{messages: map[string]*models.Message{
		"msg-1": {ID: "msg-1", SenderID: "teacher-1", ReceiverID: "parent-1", Content: "Hello"},
	}}
	svc := NewMessageService(repo, nil, zap.NewNop())
	sender := &models.Principal{UserID: "teacher-1", Role: models.RoleTeacher}

	_, err := svc.Create(context.Background(), sender, dto.MessageRequest{
		ReceiverID: "2f6e8a0c-4b1d-4e3f-9a5b-7c9d1e3f5a7b",
		Content:    "<style>p{}</style>",
	})
	require.Error(t, err)
	assert.Equal(t, "must not be empty", appErrors.FromError(err).Details["content"])
	assert.NotContains(t, repo.messages, "msg-new")

	content := "Fish & chips"
	msg, err := svc.Update(context.Background(), sender, "msg-1", dto.UpdateMessageRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Fish & chips", msg.Content)
}
