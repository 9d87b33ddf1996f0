package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HealthRepository reports storage reachability for the health endpoint.
type HealthRepository interface {
	Count(ctx context.Context) (int64, error)
}

// HealthHandler reports service and database health.
type HealthHandler struct {
	repo HealthRepository
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo HealthRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Health handles GET /health requests. A degraded database still answers
// with 200 so monitors can distinguish "engine up, storage down" from a
// dead process.
//
//	@Summary	Service health and database status
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		log.Warn().Err(err).Msg("health check: database unreachable")
		c.JSON(http.StatusOK, gin.H{
			"status": "degraded",
			"database": gin.H{
				"connected": false,
				"error":     err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"database": gin.H{
			"connected":    true,
			"record_count": count,
		},
	})
}
