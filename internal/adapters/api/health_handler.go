package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherlog.app/internal/ports"
)

// getHealth handles GET /api/health. Degraded components still answer 200.
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	results := s.healthChecker.CheckAll(c.Request.Context())
	status := ports.OverallStatus(results)

	code := http.StatusOK
	if status == ports.HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{Status: status, Components: results})
}
