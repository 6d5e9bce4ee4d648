package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	adminKey
)

// WithContext stores l in ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores requestID in ctx along with a child of l that
// carries it as a field
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	child := l.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, child), child
}

// WithAdmin stores the signed-in admin's username in ctx
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey, username)
}

// RequestID returns the request ID stored in ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Admin returns the admin username stored in ctx
func Admin(ctx context.Context) string {
	name, _ := ctx.Value(adminKey).(string)
	return name
}

// TraceID returns the trace ID of the span active in ctx
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// For returns base annotated with the trace, request and admin found in
// ctx. A nil base means the logger stored in ctx, which already carries
// request_id.
//
//	logger.For(ctx, s.logger).Warn("Store read failed", zap.Error(err))
func For(ctx context.Context, base *zap.Logger) *zap.Logger {
	var fields []zap.Field
	if base == nil {
		base = FromContext(ctx)
	} else if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if name := Admin(ctx); name != "" {
		fields = append(fields, zap.String("admin", name))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
