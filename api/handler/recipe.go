package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipy/cache"
	"github.com/use-agent/recipy/models"
	"github.com/use-agent/recipy/pipeline"
	"github.com/use-agent/recipy/render"
)

// outcome is one recipe lookup, served from cache or freshly extracted.
type outcome struct {
	recipe      *models.Recipe
	cacheStatus string
	engineUsed  string
	timing      models.TimingInfo
}

// lookup serves url from cc when a fresh enough entry exists, otherwise runs
// the pipeline and stores the result.
//
// maxAgeMs > 0 is the cache age limit, 0 selects defaultMaxAge and a
// negative value bypasses the cache.
func lookup(ctx context.Context, p *pipeline.Pipeline, cc *cache.Cache, defaultMaxAge time.Duration, url string, maxAgeMs int) (*outcome, error) {
	totalStart := time.Now()

	maxAge := defaultMaxAge
	switch {
	case maxAgeMs > 0:
		maxAge = time.Duration(maxAgeMs) * time.Millisecond
	case maxAgeMs < 0:
		maxAge = 0
	}
	useCache := cc != nil && maxAge > 0
	key := cache.Key(url, p.EngineName())

	// ── Cache lookup ────────────────────────────────────────────
	if useCache {
		if rec, hit := cc.Get(key, maxAge); hit {
			return &outcome{
				recipe:      rec,
				cacheStatus: "hit",
				timing:      models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()},
			}, nil
		}
	}

	// ── Extract ─────────────────────────────────────────────────
	res, err := p.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	out := &outcome{
		recipe:     res.Recipe,
		engineUsed: res.EngineUsed,
		timing:     res.Timing,
	}

	// ── Cache store ─────────────────────────────────────────────
	if useCache {
		cc.Set(key, res.Recipe)
		out.cacheStatus = "miss"
	}
	return out, nil
}

// Extract returns a handler for POST /api/v1/extract.
func Extract(p *pipeline.Pipeline, cc *cache.Cache, defaultMaxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ExtractResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		out, err := lookup(c.Request.Context(), p, cc, defaultMaxAge, req.URL, req.MaxAge)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ExtractResponse{
			Success:     true,
			Recipe:      out.recipe,
			CacheStatus: out.cacheStatus,
			EngineUsed:  out.engineUsed,
			Timing:      out.timing,
		})
	}
}

// Recipe returns a handler for GET /api/v1/recipe, which answers with the
// rendered document itself rather than a JSON envelope.
func Recipe(p *pipeline.Pipeline, cc *cache.Cache, defaultMaxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.RecipeQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, models.ExtractResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		q.Defaults()

		out, err := lookup(c.Request.Context(), p, cc, defaultMaxAge, q.URL, q.MaxAge)
		if err != nil {
			respondError(c, err)
			return
		}

		body, err := render.Render(out.recipe, q.Format)
		if err != nil {
			respondError(c, err)
			return
		}

		if out.cacheStatus != "" {
			c.Header("X-Cache", out.cacheStatus)
		}
		c.Data(http.StatusOK, render.ContentType(q.Format), []byte(body))
	}
}

// respondError maps a RecipeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	recipeErr := models.AsRecipeError(err)

	c.JSON(mapErrorToStatus(recipeErr), models.ExtractResponse{
		Success: false,
		Error:   recipeErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.RecipeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeForbidden, models.ErrCodeHTTPStatus, models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeRecipeNotFound, models.ErrCodeNoRecipeObject,
		models.ErrCodeAmbiguousArticle, models.ErrCodeStructureMismatch,
		models.ErrCodeInvalidJSONLD:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
