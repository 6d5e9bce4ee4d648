package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/levelshop/backend/internal/infrastructure/auth"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func failingConnect(context.Context, config.RedisConfig) (*redis.Client, error) {
	return nil, errors.New("connection refused")
}

func TestNewRevocationStore(t *testing.T) {
	ctx := context.Background()

	t.Run("uses memory when Redis is disabled", func(t *testing.T) {
		store, err := NewRevocationStore(ctx, config.RedisConfig{Enabled: false},
			withConnect(func(context.Context, config.RedisConfig) (*redis.Client, error) {
				t.Fatal("should not connect")
				return nil, nil
			}),
		)
		require.NoError(t, err)
		assert.IsType(t, &auth.MemoryRevocationStore{}, store)
	})

	t.Run("uses Redis when reachable", func(t *testing.T) {
		store, err := NewRevocationStore(ctx, config.RedisConfig{Enabled: true, Host: "cache", Port: 6379},
			withConnect(func(_ context.Context, cfg config.RedisConfig) (*redis.Client, error) {
				return redis.NewClient(&redis.Options{Addr: cfg.Addr()}), nil
			}),
		)
		require.NoError(t, err)
		rs, ok := store.(*auth.RedisRevocationStore)
		require.True(t, ok)
		_ = rs.Close()
	})

	t.Run("falls back to memory with a warning", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		store, err := NewRevocationStore(ctx, config.RedisConfig{Enabled: true},
			WithLogger(zap.New(core)), withConnect(failingConnect))
		require.NoError(t, err)
		assert.IsType(t, &auth.MemoryRevocationStore{}, store)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("fails when Redis is required", func(t *testing.T) {
		_, err := NewRevocationStore(ctx, config.RedisConfig{Enabled: true},
			WithRequiredRedis(true), withConnect(failingConnect))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis is required")
	})
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisClient(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
