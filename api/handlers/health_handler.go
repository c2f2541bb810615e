package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/sysmod-go/internal/app"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	svc *app.SubjectService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(svc *app.SubjectService) *HealthHandler {
	return &HealthHandler{
		svc: svc,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	// Readiness means the handoff queue store answers queries
	if _, err := h.svc.Stats(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
