package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/levelshop/backend/internal/infrastructure/logger"
	"github.com/levelshop/backend/internal/interfaces/http/dto"
	"github.com/levelshop/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig configures the gin engine and its global middleware
type EngineConfig struct {
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	Logger  *zap.Logger
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
}

// NewEngine builds a gin engine with the global middleware chain:
//
//  1. RequestID - generate or propagate the request ID
//  2. Tracing - otelgin server span
//  3. SpanAttributes - request ID, admin and error status on the span
//  4. AccessLog - request log line and request-scoped logger
//  5. Recover - turn panics into ERR_INTERNAL 500s
//  6. Secure - security headers
//  7. CORS
//  8. BodyLimit
//  9. HTTPMetrics
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.AccessLog(log, logger.WithQuietPaths(HealthPath)))
	engine.Use(logger.Recover(log, func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInternal, "Internal server error", middleware.GetRequestID(c)))
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(cfg.Meter, log))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeMethodNotAllowed, "Method not allowed", middleware.GetRequestID(c)))
	})

	return engine
}

// corsConfig overlays the configured origins, methods and headers on the
// middleware defaults
func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		c.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		c.AllowHeaders = h.CORSAllowHeaders
	}
	c.ExposeHeaders = append(c.ExposeHeaders, "X-RateLimit-Limit", "X-RateLimit-Remaining")
	return c
}
