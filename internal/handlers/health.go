package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avergnaud/patrimonia/api/internal/database"
	"github.com/avergnaud/patrimonia/api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// APIVersion is reported by the info endpoint.
const APIVersion = "0.1.0"

// HealthCheckTimeout bounds the database ping in the readiness probe.
const HealthCheckTimeout = 2 * time.Second

// HealthHandler serves the liveness, readiness and info endpoints.
type HealthHandler struct {
	db        *database.Database
	startTime time.Time
	env       string
}

// NewHealthHandler builds a HealthHandler; uptime counts from this call.
func NewHealthHandler(db *database.Database, env string) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now(), env: env}
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness probe body.
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// InfoResponse is the info endpoint body.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health serves GET /health. Pure liveness: no dependencies are touched, a
// running process always answers 200.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

// Ready serves GET /health/ready. The service is ready only when the
// database answers a ping within HealthCheckTimeout; otherwise 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Database health check failed", err, map[string]interface{}{
				"timeout": HealthCheckTimeout.String(),
			})
		}
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:   "not_ready",
			Database: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:   "ready",
		Database: "connected",
	})
}

// Info serves GET /api/v1/info with version, environment and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
	})
}

// formatUptime renders a duration as "3d 5h 30m 15s", dropping the day part
// below 24h.
func formatUptime(d time.Duration) string {
	total := int(d.Seconds())
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
