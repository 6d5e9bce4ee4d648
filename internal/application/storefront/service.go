// Package storefront holds the collection services that sit between the
// HTTP surface and the store. Reads degrade to static fallback data when
// the store fails; writes return the store's error to the caller.
package storefront

import (
	"context"
	"time"

	"github.com/levelshop/backend/internal/infrastructure/logger"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Collection names used in logs, spans and metrics
const (
	CollectionAccounts = "accounts"
	CollectionBanners  = "banners"
	CollectionNews     = "news"
	CollectionSettings = "settings"
	CollectionMedia    = "media"
)

// Option configures a collection service
type Option func(*serviceDeps)

type serviceDeps struct {
	logger  *zap.Logger
	metrics *telemetry.StoreMetrics
}

// WithLogger sets the logger used for degraded reads
func WithLogger(l *zap.Logger) Option {
	return func(d *serviceDeps) {
		d.logger = l
	}
}

// WithMetrics records store outcomes on m
func WithMetrics(m *telemetry.StoreMetrics) Option {
	return func(d *serviceDeps) {
		d.metrics = m
	}
}

func newServiceDeps(opts []Option) serviceDeps {
	d := serviceDeps{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// degrade records a failed read that is being answered from fallback data
func (d serviceDeps) degrade(ctx context.Context, span trace.Span, collection, operation string, err error) {
	logger.For(ctx, d.logger).Warn("Store read failed, serving fallback data",
		zap.String("collection", collection),
		zap.String("operation", operation),
		zap.Error(err),
	)
	telemetry.RecordError(span, err)
	telemetry.SetAttributes(span, telemetry.SpanAttrFallback, true)
	d.metrics.DegradedRead(ctx, collection)
}

// failed records a write error that is returned to the caller
func (d serviceDeps) failed(ctx context.Context, span trace.Span, collection, operation string, err error) {
	logger.For(ctx, d.logger).Error("Store write failed",
		zap.String("collection", collection),
		zap.String("operation", operation),
		zap.Error(err),
	)
	telemetry.RecordError(span, err)
	d.metrics.FailedWrite(ctx, collection, operation)
}

func (d serviceDeps) observe(ctx context.Context, collection, operation string, start time.Time) {
	d.metrics.ObserveDuration(ctx, collection, operation, time.Since(start))
}
