package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipy/cache"
	"github.com/use-agent/recipy/engine"
	"github.com/use-agent/recipy/models"
	"github.com/use-agent/recipy/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const recipePage = `<html><head><script type="application/ld+json">
{"@type":"Recipe","name":"Pancakes","recipeIngredient":["1 egg"],"recipeInstructions":[{"text":"Fry."}]}
</script></head><body></body></html>`

type stubEngine struct {
	html  string
	err   error
	calls int
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &engine.FetchResult{HTML: s.html, StatusCode: 200, FinalURL: req.URL}, nil
}

func newRouter(eng engine.Engine, cc *cache.Cache) *gin.Engine {
	p := pipeline.New(eng, nil)
	r := gin.New()
	r.GET("/health", Health(p, cc, time.Now()))
	r.GET("/recipe", Recipe(p, cc, time.Minute))
	r.POST("/extract", Extract(p, cc, time.Minute))
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.ExtractResponse {
	t.Helper()
	var resp models.ExtractResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestExtract_CachesSecondCall(t *testing.T) {
	eng := &stubEngine{html: recipePage}
	cc := cache.New(10, 0)
	defer cc.Close()
	r := newRouter(eng, cc)

	first := decode(t, post(r, `{"url":"https://e.com/pancakes"}`))
	if !first.Success || first.Recipe == nil || first.Recipe.Title != "Pancakes" {
		t.Fatalf("first response = %+v", first)
	}
	if first.CacheStatus != "miss" || first.EngineUsed != "stub" {
		t.Errorf("cache_status = %q, engine_used = %q", first.CacheStatus, first.EngineUsed)
	}

	second := decode(t, post(r, `{"url":"https://e.com/pancakes"}`))
	if second.CacheStatus != "hit" {
		t.Errorf("second cache_status = %q, want hit", second.CacheStatus)
	}
	if eng.calls != 1 {
		t.Errorf("engine calls = %d, want 1", eng.calls)
	}

	third := decode(t, post(r, `{"url":"https://e.com/pancakes","max_age":-1}`))
	if third.CacheStatus != "" || eng.calls != 2 {
		t.Errorf("max_age -1 should bypass the cache: status %q, calls %d", third.CacheStatus, eng.calls)
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name   string
		eng    *stubEngine
		body   string
		status int
		code   string
	}{
		{"bad json", &stubEngine{}, `{`, http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"missing url", &stubEngine{}, `{}`, http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"forbidden", &stubEngine{err: models.NewStatusError(403, "u")}, `{"url":"https://e.com/x"}`, http.StatusBadGateway, models.ErrCodeForbidden},
		{"http error", &stubEngine{err: models.NewStatusError(500, "u")}, `{"url":"https://e.com/x"}`, http.StatusBadGateway, models.ErrCodeHTTPStatus},
		{"timeout", &stubEngine{err: models.NewRecipeError(models.ErrCodeTimeout, "slow", nil)}, `{"url":"https://e.com/x"}`, http.StatusGatewayTimeout, models.ErrCodeTimeout},
		{"not found", &stubEngine{html: "<html><body></body></html>"}, `{"url":"https://e.com/x"}`, http.StatusUnprocessableEntity, models.ErrCodeRecipeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(newRouter(tt.eng, nil), tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			resp := decode(t, w)
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("response = %s", w.Body.String())
			}
		})
	}
}

func TestRecipe_Formats(t *testing.T) {
	r := newRouter(&stubEngine{html: recipePage}, nil)

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"", "text/html", "<h1>Pancakes</h1>"},
		{"html", "text/html", "<h4>1</h4>"},
		{"markdown", "text/markdown", "# Pancakes"},
		{"json", "application/json", `"title": "Pancakes"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			q := url.Values{"url": {"https://e.com/pancakes"}}
			if tt.format != "" {
				q.Set("format", tt.format)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipe?"+q.Encode(), nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %s", ct, tt.contentType)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body lacks %q:\n%s", tt.contains, w.Body.String())
			}
		})
	}
}

func TestRecipe_BadQuery(t *testing.T) {
	r := newRouter(&stubEngine{html: recipePage}, nil)

	for _, target := range []string{"/recipe", "/recipe?url=https://e.com/x&format=pdf", "/recipe?url=not-a-url"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	cc := cache.New(10, 0)
	defer cc.Close()
	cc.Set("k", &models.Recipe{})

	w := httptest.NewRecorder()
	newRouter(&stubEngine{}, cc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" || resp.FetchMode != "stub" || resp.CachedItems != 1 || resp.Version != Version {
		t.Errorf("health = %+v", resp)
	}
}

func TestMapErrorToStatus(t *testing.T) {
	tests := map[string]int{
		models.ErrCodeForbidden:         http.StatusBadGateway,
		models.ErrCodeNavigation:        http.StatusBadGateway,
		models.ErrCodeNoRecipeObject:    http.StatusUnprocessableEntity,
		models.ErrCodeStructureMismatch: http.StatusUnprocessableEntity,
		models.ErrCodeInvalidJSONLD:     http.StatusUnprocessableEntity,
		models.ErrCodeRateLimited:       http.StatusTooManyRequests,
		models.ErrCodeUnauthorized:      http.StatusUnauthorized,
		models.ErrCodeBrowserCrash:      http.StatusInternalServerError,
		models.ErrCodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := mapErrorToStatus(&models.RecipeError{Code: code}); got != want {
			t.Errorf("%s -> %d, want %d", code, got, want)
		}
	}
}
