package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]*models.User
	revoked []string
}

func (m *mockUserRepo) visible(p *models.Principal, u *models.User) bool {
	return p.Superuser || !u.IsSuperuser
}

func (m *mockUserRepo) List(ctx context.Context, p *models.Principal, filter models.UserFilter) ([]models.User, int, error) {
	var users []models.User
	for _, u := range m.users {
		if m.visible(p, u) {
			users = append(users, *u)
		}
	}
	return users, len(users), nil
}

func (m *mockUserRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok || !m.visible(p, u) {
		return nil, sql.ErrNoRows
	}
	copy := *u
	return &copy, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *u
	return &copy, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id string) error {
	m.users[id].IsActive = false
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revoked = append(m.revoked, userID)
	return nil
}

func newUserFixture() (*UserService, *mockUserRepo) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"admin": {ID: "admin", Username: "admin", Role: models.RoleAdmin, IsActive: true},
		"root":  {ID: "root", Username: "root", Role: models.RoleAdmin, IsActive: true, IsSuperuser: true},
		"t1":    {ID: "t1", Username: "teacher1", Role: models.RoleTeacher, IsActive: true},
	}}
	svc := NewUserService(repo, nil, zap.NewNop())
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo
}

var adminPrincipal = &models.Principal{UserID: "admin", Role: models.RoleAdmin}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.Create(context.Background(), adminPrincipal, dto.CreateUserRequest{
		Username: "parent1",
		Email:    "Parent1@Example.com",
		FullName: "Parent One",
		Role:     "parent",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "parent1@example.com", user.Email)
	assert.Equal(t, models.RoleParent, user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestUserServiceCreateRejectsUnknownRole(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Create(context.Background(), adminPrincipal, dto.CreateUserRequest{
		Username: "x", Email: "x@example.com", Role: "janitor", Password: "secret123",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "role")
}

func TestUserServiceHidesSuperusersFromAdmins(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	users, pagination, err := svc.List(ctx, adminPrincipal, models.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, pagination.TotalCount)

	_, err = svc.Get(ctx, adminPrincipal, "root")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	root := &models.Principal{UserID: "root", Role: models.RoleAdmin, Superuser: true}
	users, _, err = svc.List(ctx, root, models.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserServiceCannotDeactivateSelf(t *testing.T) {
	svc, repo := newUserFixture()

	err := svc.Deactivate(context.Background(), adminPrincipal, "admin")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.True(t, repo.users["admin"].IsActive)

	inactive := false
	_, err = svc.Update(context.Background(), adminPrincipal, "admin", dto.UpdateUserRequest{IsActive: &inactive})
	require.Error(t, err)
}

func TestUserServiceDeactivateRevokesTokens(t *testing.T) {
	svc, repo := newUserFixture()

	require.NoError(t, svc.Deactivate(context.Background(), adminPrincipal, "t1"))
	assert.False(t, repo.users["t1"].IsActive)
	assert.Equal(t, []string{"t1"}, repo.revoked)
}

func TestUserServicePasswordChangeRevokesTokens(t *testing.T) {
	svc, repo := newUserFixture()
	password := "another-secret"

	user, err := svc.Update(context.Background(), adminPrincipal, "t1", dto.UpdateUserRequest{Password: &password})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
	assert.Equal(t, []string{"t1"}, repo.revoked)
}

func TestUserServiceMe(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.Me(context.Background(), &models.Principal{UserID: "t1", Role: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, "teacher1", user.Username)

	_, err = svc.Me(context.Background(), nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
