package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.UserFilter) ([]models.User, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id string) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}

// UserService handles account management.
type UserService struct {
	repo       userRepository
	validator  *validator.Validate
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: defaultValidator(validate), logger: logger, bcryptCost: bcrypt.DefaultCost}
}

// List returns users visible to the caller.
func (s *UserService) List(ctx context.Context, p *models.Principal, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "user", "list users")
	}
	return users, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a user visible to the caller.
func (s *UserService) Get(ctx context.Context, p *models.Principal, id string) (*models.User, error) {
	user, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "user", "load user")
	}
	return user, nil
}

// Me returns the caller's own account.
func (s *UserService) Me(ctx context.Context, p *models.Principal) (*models.User, error) {
	if p == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, storeError(err, "user", "load user")
	}
	return user, nil
}

// Create registers a new account.
func (s *UserService) Create(ctx context.Context, p *models.Principal, req dto.CreateUserRequest) (*models.User, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	role, _ := models.ParseRole(req.Role)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storeError(err, "user", "create user")
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.String("actor", p.UserID))
	return user, nil
}

// Update applies the supplied fields to a visible account.
func (s *UserService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateUserRequest) (*models.User, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	user, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "user", "load user")
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	setString(&user.FullName, req.FullName)
	setString(&user.Phone, req.Phone)
	if req.Role != nil {
		user.Role, _ = models.ParseRole(*req.Role)
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.ID == p.UserID {
			return nil, appErrors.Field("is_active", "cannot deactivate your own account")
		}
		user.IsActive = *req.IsActive
	}
	passwordChanged := false
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		user.PasswordHash = string(hash)
		passwordChanged = true
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeError(err, "user", "update user")
	}
	if passwordChanged || !user.IsActive {
		if err := s.repo.RevokeUserRefreshTokens(ctx, user.ID); err != nil {
			s.logger.Warn("failed to revoke refresh tokens", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return user, nil
}

// Deactivate disables a visible account. Accounts are never hard-deleted.
func (s *UserService) Deactivate(ctx context.Context, p *models.Principal, id string) error {
	user, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return storeError(err, "user", "load user")
	}
	if user.ID == p.UserID {
		return appErrors.Field("id", "cannot deactivate your own account")
	}
	if err := s.repo.Deactivate(ctx, user.ID); err != nil {
		return storeError(err, "user", "deactivate user")
	}
	if err := s.repo.RevokeUserRefreshTokens(ctx, user.ID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}
