package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func runTrace(l *GormLogger, ctx context.Context, begin time.Time, err error) {
	l.Trace(ctx, begin, func() (string, int64) { return "SELECT 1", 1 }, err)
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("logs errors with request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)
		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")

		runTrace(l, ctx, time.Now(), errors.New("boom"))

		entries := recorded.FilterMessage("Store statement failed").All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	})

	t.Run("skips record not found by default", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		runTrace(l, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)

		assert.Zero(t, recorded.Len())
	})

	t.Run("logs record not found when asked", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, WithIgnoreRecordNotFoundError(false))

		runTrace(l, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("warns about slow queries", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		runTrace(l, context.Background(), time.Now().Add(-time.Second), nil)

		slow := recorded.FilterMessage("Slow store statement").All()
		assert.Len(t, slow, 1)
		assert.Equal(t, zapcore.WarnLevel, slow[0].Level)
		assert.Equal(t, "store", slow[0].LoggerName)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info).LogMode(gormlogger.Silent).(*GormLogger)

		runTrace(l, context.Background(), time.Now(), errors.New("boom"))

		assert.Zero(t, recorded.Len())
	})

	t.Run("info level logs queries at debug", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info)

		runTrace(l, context.Background(), time.Now(), nil)

		assert.Equal(t, 1, recorded.FilterMessage("Store statement").Len())
	})
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	l := NewGormLogger(zap.NewNop(), gormlogger.Info)
	sql, params := l.ParamsFilter(context.Background(), "SELECT * FROM accounts WHERE id = ?", "acc-1")
	assert.Equal(t, "SELECT * FROM accounts WHERE id = ?", sql)
	assert.Equal(t, []any{"acc-1"}, params)

	hidden := NewGormLogger(zap.NewNop(), gormlogger.Info, WithParameterizedQueries(true))
	_, params = hidden.ParamsFilter(context.Background(), "SELECT 1", "secret")
	assert.Nil(t, params)
}

func TestGormLogger_PrintfCarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")

	l.Warn(ctx, "pool %s", "exhausted")
	l.Info(ctx, "ignored at warn level")

	entries := recorded.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "pool exhausted", entries[0].Message)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
