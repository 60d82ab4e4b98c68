package handler

import (
	"context"
	"net/http"

	coreport "github.com/amirhossein-jamali/class-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/class-booking/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// Pinger checks a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// poolReporter is implemented by database managers that sample their connection pool
type poolReporter interface {
	PoolMetrics() database.ConnectionPoolMetrics
}

// HealthHandler serves the welcome and health endpoints
type HealthHandler struct {
	db     Pinger
	logger coreport.Logger
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(db Pinger, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Welcome handles the GET / endpoint
func (h *HealthHandler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the class booking API")
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	body := gin.H{"status": "ok"}
	if reporter, ok := h.db.(poolReporter); ok {
		body["pool"] = reporter.PoolMetrics()
	}
	c.JSON(http.StatusOK, body)
}
