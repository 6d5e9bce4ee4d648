// Package cache connects the optional Redis instance and chooses where
// admin sign-outs are remembered.
package cache

import (
	"context"
	"fmt"

	"github.com/levelshop/backend/internal/infrastructure/auth"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type connectFunc func(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error)

// RevocationOption configures NewRevocationStore
type RevocationOption func(*revocationOptions)

type revocationOptions struct {
	logger       *zap.Logger
	requireRedis bool
	connect      connectFunc
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) RevocationOption {
	return func(o *revocationOptions) {
		o.logger = logger
	}
}

// WithRequiredRedis makes an enabled but unreachable Redis an error instead
// of falling back to memory
func WithRequiredRedis(required bool) RevocationOption {
	return func(o *revocationOptions) {
		o.requireRedis = required
	}
}

func withConnect(fn connectFunc) RevocationOption {
	return func(o *revocationOptions) {
		o.connect = fn
	}
}

// NewRevocationStore returns a Redis-backed store when Redis is enabled and
// reachable, and an in-memory store otherwise
func NewRevocationStore(ctx context.Context, cfg config.RedisConfig, opts ...RevocationOption) (auth.RevocationStore, error) {
	o := revocationOptions{logger: zap.NewNop(), connect: NewRedisClient}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("Redis disabled, admin sign-outs are kept in memory")
		return auth.NewMemoryRevocationStore(), nil
	}

	client, err := o.connect(ctx, cfg)
	if err != nil {
		if o.requireRedis {
			return nil, fmt.Errorf("redis is required for admin sign-outs: %w", err)
		}
		o.logger.Warn("Redis unreachable, admin sign-outs are kept in memory and not shared between instances",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return auth.NewMemoryRevocationStore(), nil
	}

	o.logger.Info("Admin sign-outs are kept in Redis", zap.String("addr", cfg.Addr()))
	return auth.NewRedisRevocationStore(client), nil
}
