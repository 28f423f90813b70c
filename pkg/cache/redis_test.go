package cache

import (
	"context"
	"strconv"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elite-academy-api/pkg/config"
)

func TestNewRedisDisabled(t *testing.T) {
	client, err := NewRedis(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisConnects(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewRedis(context.Background(), config.RedisConfig{Enabled: true, Host: server.Host(), Port: mustPort(t, server)})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "elite-academy:settings", Key("settings"))
	assert.Equal(t, "elite-academy:subjects:list", Key("subjects", "list"))
}

func mustPort(t *testing.T, s *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)
	return port
}
