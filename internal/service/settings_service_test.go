package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type mockSettingsRepo struct {
	mu      sync.Mutex
	rows    []models.SchoolSettings
	inserts int
	firsts  int
}

func (m *mockSettingsRepo) InsertDefault(ctx context.Context, defaults *models.SchoolSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if len(m.rows) > 0 {
		return nil
	}
	row := *defaults
	row.ID = "settings-1"
	row.CreatedAt = time.Now()
	m.rows = append(m.rows, row)
	return nil
}

func (m *mockSettingsRepo) First(ctx context.Context) (*models.SchoolSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.firsts++
	if len(m.rows) == 0 {
		return nil, sql.ErrNoRows
	}
	row := m.rows[0]
	return &row, nil
}

func (m *mockSettingsRepo) Update(ctx context.Context, settings *models.SchoolSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[0] = *settings
	return nil
}

func TestSettingsServiceCreatesDefaultsOnce(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := NewSettingsService(repo, nil, nil, zap.NewNop(), SettingsDefaults{})
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	var wg sync.WaitGroup
	results := make([]*models.SchoolSettings, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			settings, err := svc.GetOrCreateDefault(context.Background())
			assert.NoError(t, err)
			results[i] = settings
		}(i)
	}
	wg.Wait()

	require.Len(t, repo.rows, 1)
	for _, settings := range results {
		require.NotNil(t, settings)
		assert.Equal(t, "settings-1", settings.ID)
		assert.Equal(t, "Elite Academy", settings.SchoolName)
		assert.Equal(t, "Term 1", settings.CurrentTerm)
		require.NotNil(t, settings.AcademicYear)
		assert.Equal(t, 2024, *settings.AcademicYear)
	}
}

func TestSettingsServiceCreateAppliesToSingleton(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := NewSettingsService(repo, nil, nil, zap.NewNop(), SettingsDefaults{SchoolName: "North High"})
	name := "South High"

	settings, err := svc.Create(context.Background(), dto.SchoolSettingsRequest{SchoolName: &name})
	require.NoError(t, err)
	assert.Equal(t, "South High", settings.SchoolName)

	list, pagination, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, "South High", list[0].SchoolName)
	assert.Len(t, repo.rows, 1)
}

func TestSettingsServiceGetUnknownID(t *testing.T) {
	svc := NewSettingsService(&mockSettingsRepo{}, nil, nil, zap.NewNop(), SettingsDefaults{})

	_, err := svc.Get(context.Background(), "other")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSettingsServiceCachesAndInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cacheSvc := NewCacheService(repository.NewCacheRepository(client), nil, time.Minute, zap.NewNop())
	repo := &mockSettingsRepo{}
	svc := NewSettingsService(repo, cacheSvc, nil, zap.NewNop(), SettingsDefaults{})
	ctx := context.Background()

	_, err := svc.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	_, err = svc.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.firsts, "second read should be served from cache")

	motto := "Learn"
	_, err = svc.Update(ctx, "settings-1", dto.SchoolSettingsRequest{Motto: &motto})
	require.NoError(t, err)

	settings, err := svc.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Learn", settings.Motto)
}

type gatedSettingsRepo struct {
	*mockSettingsRepo
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedSettingsRepo) First(ctx context.Context) (*models.SchoolSettings, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.mockSettingsRepo.First(ctx)
}

func TestSettingsServiceSharedLoadSurvivesCancelledCaller(t *testing.T) {
	repo := &gatedSettingsRepo{
		mockSettingsRepo: &mockSettingsRepo{},
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	svc := NewSettingsService(repo, nil, nil, zap.NewNop(), SettingsDefaults{})

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GetOrCreateDefault(firstCtx)
		firstErr <- err
	}()
	<-repo.entered

	type outcome struct {
		settings *models.SchoolSettings
		err      error
	}
	second := make(chan outcome, 1)
	go func() {
		settings, err := svc.GetOrCreateDefault(context.Background())
		second <- outcome{settings, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(repo.release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "settings-1", got.settings.ID)
	assert.Len(t, repo.rows, 1)
}
