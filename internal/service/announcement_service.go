package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
)

type announcementRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.AnnouncementDetail, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService publishes notices to roles.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
	text      textSanitizer
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		repo:      repo,
		validator: defaultValidator(validate),
		logger:    logger,
		text:      newTextSanitizer(),
	}
}

// List returns announcements addressed to the caller.
func (s *AnnouncementService) List(ctx context.Context, p *models.Principal, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "announcement", "list announcements")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an announcement addressed to the caller.
func (s *AnnouncementService) Get(ctx context.Context, p *models.Principal, id string) (*models.AnnouncementDetail, error) {
	item, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "announcement", "load announcement")
	}
	return item, nil
}

// Create publishes an announcement authored by the caller.
func (s *AnnouncementService) Create(ctx context.Context, p *models.Principal, req dto.AnnouncementRequest) (*models.AnnouncementDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	title, err := s.text.clean("title", req.Title)
	if err != nil {
		return nil, err
	}
	content, err := s.text.clean("content", req.Content)
	if err != nil {
		return nil, err
	}
	item := &models.Announcement{
		Title:       title,
		Content:     content,
		TargetRoles: joinTargetRoles(req.TargetRoles),
		CreatedBy:   p.UserID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, storeError(err, "announcement", "create announcement")
	}
	s.logger.Info("announcement published",
		zap.String("announcement_id", item.ID),
		zap.String("target_roles", item.TargetRoles),
	)
	return s.Get(ctx, p, item.ID)
}

// Update modifies an announcement. Only its author or an admin may edit it.
func (s *AnnouncementService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateAnnouncementRequest) (*models.AnnouncementDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.authored(ctx, p, id)
	if err != nil {
		return nil, err
	}
	item := current.Announcement
	if req.Title != nil {
		if item.Title, err = s.text.clean("title", *req.Title); err != nil {
			return nil, err
		}
	}
	if req.Content != nil {
		if item.Content, err = s.text.clean("content", *req.Content); err != nil {
			return nil, err
		}
	}
	if req.TargetRoles != nil {
		item.TargetRoles = joinTargetRoles(req.TargetRoles)
	}
	if err := s.repo.Update(ctx, &item); err != nil {
		return nil, storeError(err, "announcement", "update announcement")
	}
	return s.Get(ctx, p, id)
}

// Delete removes an announcement. Only its author or an admin may delete it.
func (s *AnnouncementService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.authored(ctx, p, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "announcement", "delete announcement")
	}
	return nil
}

func (s *AnnouncementService) authored(ctx context.Context, p *models.Principal, id string) (*models.AnnouncementDetail, error) {
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "announcement", "load announcement")
	}
	if !p.Unrestricted() && current.CreatedBy != p.UserID {
		return nil, forbidden("only the author may modify this announcement")
	}
	return current, nil
}

func joinTargetRoles(raw []string) string {
	roles := make([]models.Role, 0, len(raw))
	for _, r := range raw {
		if role, err := models.ParseRole(r); err == nil {
			roles = append(roles, role)
		}
	}
	return models.JoinRoles(roles)
}
