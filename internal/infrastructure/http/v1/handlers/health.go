package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	version string
	ready   func(c *gin.Context) error
}

// NewHealthHandler creates the health handler. ready may be nil when
// there is no external dependency to probe.
func NewHealthHandler(version string, ready func(c *gin.Context) error) *HealthHandler {
	return &HealthHandler{version: version, ready: ready}
}

// Live always reports ok while the process is up.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

// Ready reports ok when the backing store is reachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
