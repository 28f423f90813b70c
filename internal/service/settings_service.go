package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/pkg/cache"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type settingsRepository interface {
	InsertDefault(ctx context.Context, defaults *models.SchoolSettings) error
	First(ctx context.Context) (*models.SchoolSettings, error)
	Update(ctx context.Context, settings *models.SchoolSettings) error
}

// SettingsDefaults seeds the settings row on first access.
type SettingsDefaults struct {
	SchoolName  string
	CurrentTerm string
}

var settingsCacheKey = cache.Key("settings")

// settingsLoadTimeout bounds the shared load, which outlives any single caller.
const settingsLoadTimeout = 5 * time.Second

// SettingsService serves the school settings singleton.
type SettingsService struct {
	repo      settingsRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	defaults  SettingsDefaults
	group     singleflight.Group
	now       func() time.Time
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingsRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger, defaults SettingsDefaults) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.SchoolName == "" {
		defaults.SchoolName = "Elite Academy"
	}
	if defaults.CurrentTerm == "" {
		defaults.CurrentTerm = "Term 1"
	}
	return &SettingsService{
		repo:      repo,
		cache:     cacheSvc,
		validator: defaultValidator(validate),
		logger:    logger,
		defaults:  defaults,
		now:       time.Now,
	}
}

// GetOrCreateDefault returns the settings row, creating it with defaults when
// none exists. Concurrent callers share one load.
func (s *SettingsService) GetOrCreateDefault(ctx context.Context) (*models.SchoolSettings, error) {
	var cached models.SchoolSettings
	if s.cache.Get(ctx, settingsCacheKey, &cached) {
		return &cached, nil
	}

	ch := s.group.DoChan("settings", func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settingsLoadTimeout)
		defer cancel()
		settings, err := s.repo.First(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			year := s.now().Year()
			seed := &models.SchoolSettings{
				SchoolName:   s.defaults.SchoolName,
				AcademicYear: &year,
				CurrentTerm:  s.defaults.CurrentTerm,
			}
			if err := s.repo.InsertDefault(ctx, seed); err != nil {
				return nil, err
			}
			s.logger.Info("school settings initialised with defaults")
			settings, err = s.repo.First(ctx)
		}
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, settingsCacheKey, settings, 0)
		return settings, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, storeError(res.Err, "settings", "load settings")
	}
	settings := *res.Val.(*models.SchoolSettings)
	return &settings, nil
}

// List returns the singleton as a one-element collection.
func (s *SettingsService) List(ctx context.Context) ([]models.SchoolSettings, *models.Pagination, error) {
	settings, err := s.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, nil, err
	}
	return []models.SchoolSettings{*settings}, models.NewPagination(1, models.DefaultPageSize, 1), nil
}

// Get returns the singleton when id names it.
func (s *SettingsService) Get(ctx context.Context, id string) (*models.SchoolSettings, error) {
	settings, err := s.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}
	if settings.ID != id {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "settings not found")
	}
	return settings, nil
}

// Create never adds a second row; it applies the payload to the singleton.
func (s *SettingsService) Create(ctx context.Context, req dto.SchoolSettingsRequest) (*models.SchoolSettings, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	settings, err := s.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, settings, req)
}

// Update applies the supplied fields to the singleton.
func (s *SettingsService) Update(ctx context.Context, id string, req dto.SchoolSettingsRequest) (*models.SchoolSettings, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	settings, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, settings, req)
}

func (s *SettingsService) apply(ctx context.Context, settings *models.SchoolSettings, req dto.SchoolSettingsRequest) (*models.SchoolSettings, error) {
	setString(&settings.SchoolName, req.SchoolName)
	setString(&settings.Motto, req.Motto)
	setString(&settings.Logo, req.Logo)
	setString(&settings.CurrentTerm, req.CurrentTerm)
	if req.AcademicYear != nil {
		year := *req.AcademicYear
		settings.AcademicYear = &year
	}
	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, storeError(err, "settings", "update settings")
	}
	s.cache.Invalidate(ctx, settingsCacheKey)
	return settings, nil
}
