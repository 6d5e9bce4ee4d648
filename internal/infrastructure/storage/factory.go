package storage

import (
	"context"
	"fmt"

	storefrontapp "github.com/levelshop/backend/internal/application/storefront"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the image storage selected by cfg.Type. For s3 the bucket is
// created when missing; a failure there is logged and the storage is still
// returned.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storefrontapp.ImageStorage, error) {
	switch cfg.Type {
	case "", "stub":
		logger.Info("Using stub image storage")
		return NewStubImageStorage(cfg.PublicBaseURL), nil
	case "s3":
		s, err := NewS3ImageStorage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			logger.Warn("Image bucket check failed", zap.String("bucket", s.Bucket()), zap.Error(err))
		}
		logger.Info("Using S3 image storage", zap.String("bucket", s.Bucket()))
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
