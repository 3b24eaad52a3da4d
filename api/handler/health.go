package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipy/cache"
	"github.com/use-agent/recipy/models"
	"github.com/use-agent/recipy/pipeline"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
func Health(p *pipeline.Pipeline, cc *cache.Cache, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		cached := 0
		if cc != nil {
			cached = cc.Len()
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:      "healthy",
			Uptime:      time.Since(startTime).Round(time.Second).String(),
			FetchMode:   p.EngineName(),
			CachedItems: cached,
			Version:     Version,
		})
	}
}
