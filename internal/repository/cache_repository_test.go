package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client), server
}

func TestCacheRepositorySetGet(t *testing.T) {
	repo, server := newCacheRepo(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, repo.Set(ctx, "elite-academy:settings", payload{Name: "Elite"}, time.Minute))

	var got payload
	require.NoError(t, repo.Get(ctx, "elite-academy:settings", &got))
	assert.Equal(t, "Elite", got.Name)

	server.FastForward(2 * time.Minute)
	err := repo.Get(ctx, "elite-academy:settings", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, server := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "elite-academy:subjects:1", 1, 0))
	require.NoError(t, repo.Set(ctx, "elite-academy:subjects:2", 2, 0))
	require.NoError(t, repo.Set(ctx, "elite-academy:settings", 3, 0))

	require.NoError(t, repo.DeleteByPattern(ctx, "elite-academy:subjects:*"))
	assert.False(t, server.Exists("elite-academy:subjects:1"))
	assert.False(t, server.Exists("elite-academy:subjects:2"))
	assert.True(t, server.Exists("elite-academy:settings"))
}

func TestCacheRepositoryDisabled(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	assert.False(t, repo.Enabled())
	assert.NoError(t, repo.Set(ctx, "k", 1, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "*"))
	var v int
	assert.ErrorIs(t, repo.Get(ctx, "k", &v), appErrors.ErrCacheMiss)
}
