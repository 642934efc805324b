//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"stellariq/internal/platform/config"
	"stellariq/internal/platform/redis"
)

// Redis is a throwaway Redis server plus a client built the way main builds one.
type Redis struct {
	URL    string
	Client *redis.Client
}

// NewRedis starts redis:7-alpine. Everything is released on test cleanup.
func NewRedis(t *testing.T) *Redis {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err, "redis connection string")

	client, err := redis.New(ctx, config.RedisConfig{
		URL:          url,
		PoolSize:     4,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	require.NoError(t, err, "connect to redis")
	t.Cleanup(func() { _ = client.Close() })

	return &Redis{URL: url, Client: client}
}

// Reset drops every key so subtests start clean.
func (r *Redis) Reset(t *testing.T) {
	t.Helper()
	require.NoError(t, r.Client.FlushAll(context.Background()).Err())
}
