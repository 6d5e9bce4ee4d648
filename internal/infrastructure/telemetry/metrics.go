package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StoreMetrics counts how collection services meet the remote store.
// A nil *StoreMetrics records nothing.
type StoreMetrics struct {
	degradedReads metric.Int64Counter
	failedWrites  metric.Int64Counter
	duration      metric.Float64Histogram
}

var (
	attrCollection = attribute.Key("collection")
	attrOperation  = attribute.Key("operation")
)

// NewStoreMetrics registers the store instruments on meter
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	degraded, err := meter.Int64Counter("levelshop.store.degraded_reads",
		metric.WithDescription("Reads answered from the static fallback dataset"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create degraded reads counter: %w", err)
	}
	failed, err := meter.Int64Counter("levelshop.store.failed_writes",
		metric.WithDescription("Writes rejected by the remote store"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failed writes counter: %w", err)
	}
	duration, err := meter.Float64Histogram("levelshop.store.operation.duration",
		metric.WithDescription("Duration of collection service operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation duration histogram: %w", err)
	}
	return &StoreMetrics{degradedReads: degraded, failedWrites: failed, duration: duration}, nil
}

// DegradedRead counts a read served from fallback data
func (m *StoreMetrics) DegradedRead(ctx context.Context, collection string) {
	if m == nil {
		return
	}
	m.degradedReads.Add(ctx, 1, metric.WithAttributes(attrCollection.String(collection)))
}

// FailedWrite counts a write whose error was returned to the caller
func (m *StoreMetrics) FailedWrite(ctx context.Context, collection, operation string) {
	if m == nil {
		return
	}
	m.failedWrites.Add(ctx, 1, metric.WithAttributes(
		attrCollection.String(collection),
		attrOperation.String(operation),
	))
}

// ObserveDuration records how long an operation took
func (m *StoreMetrics) ObserveDuration(ctx context.Context, collection, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attrCollection.String(collection),
		attrOperation.String(operation),
	))
}
