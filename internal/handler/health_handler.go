package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ppoeval/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	source        port.ReferenceSource
	hasCredential bool
}

// NewHealthHandler creates a new HealthHandler. hasCredential reports whether
// the evaluator was configured with an API key.
func NewHealthHandler(source port.ReferenceSource, hasCredential bool) *HealthHandler {
	return &HealthHandler{source: source, hasCredential: hasCredential}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.hasCredential {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "evaluator API key not configured"})
		return
	}
	if err := h.source.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "reference documents not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
