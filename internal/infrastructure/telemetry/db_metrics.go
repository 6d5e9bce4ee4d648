package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQuery = 200 * time.Millisecond
	queryStartKey    = "levelshop:query_start"
)

var (
	attrDBOperation = attribute.Key("db.operation")
	attrDBTable     = attribute.Key("db.table")
	attrPoolState   = attribute.Key("state")
)

// DBMetricsConfig holds store metrics settings
type DBMetricsConfig struct {
	Enabled bool
	// SlowQuery is the duration above which a statement counts as slow
	SlowQuery time.Duration
}

// DBMetrics records store round-trips and connection pool usage. Query
// instruments are fed by GORM callbacks; pool gauges are read from
// sql.DB stats at collection time.
type DBMetrics struct {
	queries      metric.Int64Counter
	slowQueries  metric.Int64Counter
	duration     metric.Float64Histogram
	registration metric.Registration
	slowQuery    time.Duration
	logger       *zap.Logger
	stopOnce     sync.Once
}

// RegisterDBMetrics installs query callbacks on db and pool gauges on
// meter. It returns nil when metrics are disabled.
func RegisterDBMetrics(db *gorm.DB, meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.SlowQuery <= 0 {
		cfg.SlowQuery = defaultSlowQuery
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	m := &DBMetrics{slowQuery: cfg.SlowQuery, logger: logger}
	if m.queries, err = meter.Int64Counter("levelshop.db.queries",
		metric.WithDescription("Statements sent to the store by operation"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create query counter: %w", err)
	}
	if m.slowQueries, err = meter.Int64Counter("levelshop.db.slow_queries",
		metric.WithDescription("Statements slower than the slow query threshold"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create slow query counter: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("levelshop.db.query.duration",
		metric.WithDescription("Store statement latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	); err != nil {
		return nil, fmt.Errorf("failed to create query duration histogram: %w", err)
	}
	if err := m.observePool(meter, sqlDB); err != nil {
		return nil, err
	}
	if err := db.Use(dbMetricsPlugin{m}); err != nil {
		_ = m.registration.Unregister()
		return nil, err
	}

	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", cfg.SlowQuery))
	return m, nil
}

func (m *DBMetrics) observePool(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("levelshop.db.pool.connections",
		metric.WithDescription("Pool connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool connections gauge: %w", err)
	}
	maxConns, err := meter.Int64ObservableGauge("levelshop.db.pool.connections.max",
		metric.WithDescription("Maximum open connections allowed"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool max gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("levelshop.db.pool.waits",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool waits counter: %w", err)
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(attrPoolState.String("idle")))
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(attrPoolState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(attrPoolState.String("open")))
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, maxConns, waits)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}
	return nil
}

// RecordQuery counts one statement and flags it when it ran slow
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, d time.Duration) {
	if m == nil {
		return
	}
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "OTHER"
	}
	op := metric.WithAttributes(attrDBOperation.String(operation))
	m.queries.Add(ctx, 1, op)
	m.duration.Record(ctx, d.Seconds(), op)

	if d > m.slowQuery {
		if table == "" {
			table = "unknown"
		}
		m.slowQueries.Add(ctx, 1, metric.WithAttributes(
			attrDBOperation.String(operation),
			attrDBTable.String(table),
		))
	}
}

// Stop detaches the pool gauges. Safe on nil and on repeat calls.
func (m *DBMetrics) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() {
		if err := m.registration.Unregister(); err != nil {
			m.logger.Warn("Failed to unregister pool metrics", zap.Error(err))
		}
	})
}

type dbMetricsPlugin struct {
	m *DBMetrics
}

func (dbMetricsPlugin) Name() string { return "levelshop:db_metrics" }

func (p dbMetricsPlugin) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			op := operation
			if op == "" {
				op = operationOf(tx.Statement.SQL.String())
			}
			var d time.Duration
			if v, ok := tx.InstanceGet(queryStartKey); ok {
				if start, ok := v.(time.Time); ok {
					d = time.Since(start)
				}
			}
			p.m.RecordQuery(tx.Statement.Context, op, tx.Statement.Table, d)
		}
	}

	cb := db.Callback()
	register := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("levelshop:before_create", before) },
		func() error { return cb.Create().After("gorm:create").Register("levelshop:after_create", after("INSERT")) },
		func() error { return cb.Query().Before("gorm:query").Register("levelshop:before_query", before) },
		func() error { return cb.Query().After("gorm:query").Register("levelshop:after_query", after("SELECT")) },
		func() error { return cb.Update().Before("gorm:update").Register("levelshop:before_update", before) },
		func() error { return cb.Update().After("gorm:update").Register("levelshop:after_update", after("UPDATE")) },
		func() error { return cb.Delete().Before("gorm:delete").Register("levelshop:before_delete", before) },
		func() error { return cb.Delete().After("gorm:delete").Register("levelshop:after_delete", after("DELETE")) },
		func() error { return cb.Row().Before("gorm:row").Register("levelshop:before_row", before) },
		func() error { return cb.Row().After("gorm:row").Register("levelshop:after_row", after("")) },
		func() error { return cb.Raw().Before("gorm:raw").Register("levelshop:before_raw", before) },
		func() error { return cb.Raw().After("gorm:raw").Register("levelshop:after_raw", after("")) },
	}
	for _, r := range register {
		if err := r(); err != nil {
			return err
		}
	}
	return nil
}

func operationOf(stmt string) string {
	stmt = strings.ToUpper(strings.TrimSpace(stmt))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(stmt, op) {
			return op
		}
	}
	return "OTHER"
}
