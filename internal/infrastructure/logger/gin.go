package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDGinKey = "request_id"
	loggerGinKey    = "logger"
	accessLogMsg    = "HTTP request"
)

type accessLog struct {
	quiet map[string]bool
}

// AccessLogOption configures AccessLog
type AccessLogOption func(*accessLog)

// WithQuietPaths logs successful requests to the given routes at debug
// level, e.g. health checks
func WithQuietPaths(routes ...string) AccessLogOption {
	return func(a *accessLog) {
		for _, r := range routes {
			a.quiet[r] = true
		}
	}
}

// AccessLog binds a request logger carrying request_id, method and route
// to the request context, then writes one line per request. The level
// follows the status: 5xx error, 4xx warn, otherwise info.
func AccessLog(base *zap.Logger, opts ...AccessLogOption) gin.HandlerFunc {
	a := &accessLog{quiet: map[string]bool{}}
	for _, opt := range opts {
		opt(a)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx, l := WithRequestID(c.Request.Context(), base, c.GetString(requestIDGinKey))
		l = l.With(zap.String("method", c.Request.Method), zap.String("path", c.Request.URL.Path))
		c.Request = c.Request.WithContext(WithContext(ctx, l))
		c.Set(loggerGinKey, l)

		c.Next()

		status := c.Writer.Status()
		if ce := l.Check(a.levelFor(c.FullPath(), status), accessLogMsg); ce != nil {
			ce.Write(requestFields(c, status, time.Since(start))...)
		}
	}
}

func (a *accessLog) levelFor(route string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case a.quiet[route]:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func requestFields(c *gin.Context, status int, latency time.Duration) []zap.Field {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.Int("body_size", c.Writer.Size()),
	}
	if q := c.Request.URL.RawQuery; q != "" {
		fields = append(fields, zap.String("query", q))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
	}
	return fields
}

// Recover turns a panic in a later handler into an error log and calls
// respond, which must write the response. A nil respond aborts with a bare
// 500.
func Recover(base *zap.Logger, respond gin.HandlerFunc) gin.HandlerFunc {
	if respond == nil {
		respond = func(c *gin.Context) { c.AbortWithStatus(http.StatusInternalServerError) }
	}
	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			For(c.Request.Context(), base).Error("Panic recovered",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", v),
				zap.Stack("stacktrace"),
			)
			respond(c)
			c.Abort()
		}()
		c.Next()
	}
}

// Request returns the logger AccessLog bound to c, falling back to the
// logger of the request context
func Request(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerGinKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	if c.Request == nil {
		return zap.NewNop()
	}
	return FromContext(c.Request.Context())
}
