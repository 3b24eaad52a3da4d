package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipy/api/handler"
	"github.com/use-agent/recipy/api/middleware"
	"github.com/use-agent/recipy/cache"
	"github.com/use-agent/recipy/config"
	"github.com/use-agent/recipy/pipeline"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work. cc may be nil
// to disable caching. Background middleware work stops when ctx is done.
func NewRouter(ctx context.Context, p *pipeline.Pipeline, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(p, cc, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	protected.GET("/recipe", handler.Recipe(p, cc, cfg.Cache.DefaultMaxAge))
	protected.POST("/extract", handler.Extract(p, cc, cfg.Cache.DefaultMaxAge))

	return r
}
