package logger

import (
	"cmp"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ForEnvironment fills unset fields with the defaults used for env.
// Production logs JSON; everything else logs colored console lines.
func ForEnvironment(env string, cfg Config) Config {
	if cfg.Format == "" {
		cfg.Format = "console"
		if env == "production" {
			cfg.Format = "json"
		}
	}
	cfg.Level = cmp.Or(cfg.Level, "info")
	cfg.Output = cmp.Or(cfg.Output, "stdout")
	cfg.TimeFormat = cmp.Or(cfg.TimeFormat, defaultTimeFormat)
	return cfg
}

// New builds a zap logger writing to cfg.Output. Errors log their stack.
func New(cfg Config) (*zap.Logger, error) {
	sink, _, err := zap.Open(outputPath(cfg.Output))
	if err != nil {
		return nil, fmt.Errorf("open log output %q: %w", cfg.Output, err)
	}
	core := zapcore.NewCore(newEncoder(cfg), sink, parseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// outputPath maps the stdout and stderr names onto zap's sink paths;
// anything else is a file path
func outputPath(output string) string {
	switch o := strings.ToLower(output); o {
	case "stdout", "stderr":
		return o
	case "":
		return "stdout"
	}
	return output
}

// parseLevel accepts zap level names plus "warning"; unknown levels are info
func parseLevel(level string) zapcore.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func newEncoder(cfg Config) zapcore.Encoder {
	layout := cmp.Or(cfg.TimeFormat, defaultTimeFormat)
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(layout)
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if cfg.Format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

// Sync flushes any buffered log entries
func Sync(logger *zap.Logger) error {
	return logger.Sync()
}
