package persistence

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/levelshop/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PlaceholderURL is dialed when the store is not configured. The host never
// resolves, so every call fails and callers take their fallback paths.
const PlaceholderURL = "postgres://anon@placeholder.invalid:5432/placeholder"

// Driver names reported by Database.Driver
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Database holds the store connection shared by every repository
type Database struct {
	DB          *gorm.DB
	Driver      string
	Placeholder bool
}

// Option customizes NewDatabase
type Option func(*gorm.Config)

// WithGormLogger routes GORM's query log through l
func WithGormLogger(l gormlogger.Interface) Option {
	return func(c *gorm.Config) {
		c.Logger = l
	}
}

// NewDatabase opens the store described by cfg. A missing URL or key is not
// an error: a warning is logged and a placeholder client is returned.
func NewDatabase(cfg config.StoreConfig, log *zap.Logger, opts ...Option) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		// reachability is checked below and only warned about
		DisableAutomaticPing: true,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	if !cfg.Configured() {
		log.Warn("Store URL or key missing, using placeholder client; reads will use fallback data",
			zap.Bool("url_set", cfg.URL != ""),
			zap.Bool("key_set", cfg.Key != ""),
		)
		return newPlaceholder(gormCfg)
	}

	dialector, driver, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if driver == DriverSQLite && inMemory(cfg.URL) {
		// each connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	d := &Database{DB: db, Driver: driver}

	if driver == DriverSQLite || cfg.AutoMigrate {
		if err := d.AutoMigrate(); err != nil {
			return nil, err
		}
	}

	if err := sqlDB.Ping(); err != nil {
		log.Warn("Store not reachable at startup; reads will use fallback data until it recovers",
			zap.String("driver", driver),
			zap.Error(err),
		)
	}

	return d, nil
}

func newPlaceholder(gormCfg *gorm.Config) (*Database, error) {
	db, err := gorm.Open(postgres.Open(PlaceholderURL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build placeholder store client: %w", err)
	}
	return &Database{DB: db, Driver: DriverPostgres, Placeholder: true}, nil
}

func dialectorFor(cfg config.StoreConfig) (gorm.Dialector, string, error) {
	switch {
	case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
		dsn, err := PostgresDSN(cfg.URL, cfg.Key)
		if err != nil {
			return nil, "", err
		}
		return postgres.Open(dsn), DriverPostgres, nil
	case strings.HasPrefix(cfg.URL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(cfg.URL, "sqlite://")), DriverSQLite, nil
	case strings.HasPrefix(cfg.URL, "file:"):
		return sqlite.Open(cfg.URL), DriverSQLite, nil
	default:
		return nil, "", fmt.Errorf("unsupported store URL scheme in %q", redact(cfg.URL))
	}
}

// PostgresDSN uses key as the password when rawURL carries none
func PostgresDSN(rawURL, key string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid store URL: %w", err)
	}
	switch {
	case u.User == nil:
		u.User = url.UserPassword("postgres", key)
	default:
		if _, ok := u.User.Password(); !ok {
			u.User = url.UserPassword(u.User.Username(), key)
		}
	}
	return u.String(), nil
}

func inMemory(rawURL string) bool {
	return strings.Contains(rawURL, ":memory:") || strings.Contains(rawURL, "mode=memory")
}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}

// AutoMigrate creates or updates the store tables from the GORM models
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate store schema: %w", err)
	}
	return nil
}

// Configured reports whether the store was set up with a URL and key.
// A placeholder store fails every call.
func (d *Database) Configured() bool {
	return !d.Placeholder
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
}
