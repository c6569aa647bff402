package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/feed-service/internal/database"
)

// HealthResponse reports service liveness and catalog database state
type HealthResponse struct {
	Status   string              `json:"status"`
	Database string              `json:"database"`
	Pool     *database.PoolStats `json:"pool,omitempty"`
}

// HealthCheck answers 503 only when a configured database stops responding
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	stats := database.Stats()
	if stats == nil {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "not configured"})
		return
	}

	if err := database.Status(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "disconnected", Pool: stats})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "connected", Pool: stats})
}
