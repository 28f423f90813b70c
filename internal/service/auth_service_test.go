package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type mockAuthRepo struct {
	user             *models.User
	refreshTokens    map[string]*models.RefreshToken
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.user == nil || m.user.Username != username {
		return nil, sql.ErrNoRows
	}
	copy := *m.user
	return &copy, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *m.user
	return &copy, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	copy := *token
	m.refreshTokens[token.Token] = &copy
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *rt
	return &copy, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) (bool, error) {
	for _, token := range m.refreshTokens {
		if token.ID == id && !token.Revoked {
			token.Revoked = true
			token.RevokedAt = &revokedAt
			return true, nil
		}
	}
	return false, nil
}

func newAuthFixture(t *testing.T, active bool) (*AuthService, *mockAuthRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{user: &models.User{
		ID:           "u-1",
		Username:     "teacher1",
		Email:        "teacher1@example.com",
		FullName:     "Teacher One",
		Role:         models.RoleTeacher,
		IsActive:     active,
		PasswordHash: string(hash),
	}}
	svc := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "elite-academy-api",
	})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t, true)

	pair, err := svc.Login(context.Background(), models.LoginRequest{Username: "teacher1", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	require.NotNil(t, pair.User)
	assert.Equal(t, models.RoleTeacher, pair.User.Role)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, &models.Principal{UserID: "u-1", Role: models.RoleTeacher}, claims.Principal())
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "teacher1", Password: "nope"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginInactive(t *testing.T) {
	svc, _ := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "teacher1", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	ctx := context.Background()

	pair, err := svc.Login(ctx, models.LoginRequest{Username: "teacher1", Password: "password123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, models.RefreshTokenRequest{Refresh: pair.Refresh})
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, rotated.Refresh)

	_, err = svc.Refresh(ctx, models.RefreshTokenRequest{Refresh: pair.Refresh})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)

	_, err = svc.Refresh(ctx, models.RefreshTokenRequest{Refresh: rotated.Refresh})
	require.NoError(t, err)
}

func TestAuthServiceRefreshExpired(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	ctx := context.Background()

	pair, err := svc.Login(ctx, models.LoginRequest{Username: "teacher1", Password: "password123"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(48 * time.Hour) }
	_, err = svc.Refresh(ctx, models.RefreshTokenRequest{Refresh: pair.Refresh})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceRevoke(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	ctx := context.Background()

	pair, err := svc.Login(ctx, models.LoginRequest{Username: "teacher1", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.Refresh))
	_, err = svc.Refresh(ctx, models.RefreshTokenRequest{Refresh: pair.Refresh})
	assert.Error(t, err)
	assert.Error(t, svc.Revoke(ctx, "unknown"))
}

func TestAuthServiceValidateTokenRejectsForeignIssuer(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	other := NewAuthService(&mockAuthRepo{}, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "someone-else"})

	token, err := other.generateAccessToken(&models.User{ID: "u-1", Role: models.RoleAdmin}, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
