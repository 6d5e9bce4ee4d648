package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/levelshop/backend/internal/infrastructure/logger"
	"github.com/levelshop/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// StorePinger reports store reachability and pool usage
type StorePinger interface {
	Configured() bool
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler reports process and store health
type HealthHandler struct {
	store     StorePinger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store StorePinger, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status    string                       `json:"status"`
	Store     string                       `json:"store"`
	Version   string                       `json:"version"`
	GoVersion string                       `json:"go_version"`
	Uptime    string                       `json:"uptime"`
	Time      string                       `json:"time"`
	Pool      *persistence.ConnectionStats `json:"pool,omitempty"`
}

// Check handles GET /health. An unconfigured or unreachable store reports
// "degraded" with 200: the storefront keeps serving fallback data.
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Store:     "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Time:      time.Now().UTC().Format(time.RFC3339),
	}

	if !h.store.Configured() {
		resp.Status = "degraded"
		resp.Store = "unconfigured"
	} else if err := h.store.Ping(c.Request.Context()); err != nil {
		logger.Request(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Store = "unreachable"
	} else if stats, err := h.store.Stats(); err == nil {
		resp.Pool = &stats
	}

	c.JSON(http.StatusOK, resp)
}
