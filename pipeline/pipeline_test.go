package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/use-agent/recipy/engine"
	"github.com/use-agent/recipy/models"
)

const recipePage = `<html><head>
<title>Pancakes | Test Kitchen</title>
<meta property="og:site_name" content="Test Kitchen">
<script type="application/ld+json">{
	"@context": "https://schema.org",
	"@type": "Recipe",
	"name": "Pancakes",
	"image": "/img/pancakes.jpg",
	"recipeIngredient": ["1 egg", "1 cup flour"],
	"recipeInstructions": [{"@type": "HowToStep", "text": "Mix."}, {"@type": "HowToStep", "text": "Fry."}]
}</script>
</head><body><p>Story.</p></body></html>`

type stubEngine struct {
	result *engine.FetchResult
	err    error
	req    *engine.FetchRequest
	calls  int
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	s.calls++
	s.req = req
	return s.result, s.err
}

func TestRun_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(recipePage))
	}))
	defer srv.Close()

	p := New(engine.NewHTTPEngine(engine.HTTPOptions{Timeout: 5 * time.Second}), nil)
	res, err := p.Extract(context.Background(), srv.URL+"/pancakes")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	rec := res.Recipe
	if rec.Title != "Pancakes" {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.Ingredients) != 2 || len(rec.Instructions) != 2 {
		t.Errorf("Ingredients = %v, Instructions = %v", rec.Ingredients, rec.Instructions)
	}
	if want := srv.URL + "/img/pancakes.jpg"; rec.Image.URL() != want {
		t.Errorf("Image = %q, want %q", rec.Image.URL(), want)
	}
	if rec.Source.URL != srv.URL+"/pancakes" {
		t.Errorf("Source.URL = %q", rec.Source.URL)
	}
	if rec.Source.SiteName == "" {
		t.Error("expected a site name")
	}
	if res.EngineUsed != "http" {
		t.Errorf("EngineUsed = %q, want http", res.EngineUsed)
	}
}

func TestRun_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "go away", http.StatusForbidden)
	}))
	defer srv.Close()

	rec, err := New(engine.NewHTTPEngine(engine.HTTPOptions{}), nil).Run(context.Background(), srv.URL)
	if rec != nil {
		t.Errorf("expected no recipe, got %+v", rec)
	}
	if !models.HasCode(err, models.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestRun_NotFoundOnPlainPage(t *testing.T) {
	eng := &stubEngine{result: &engine.FetchResult{HTML: "<html><body><p>no recipe</p></body></html>"}}

	_, err := New(eng, nil).Run(context.Background(), "https://e.com/blog")
	if !models.HasCode(err, models.ErrCodeRecipeNotFound) {
		t.Fatalf("expected RECIPE_NOT_FOUND, got %v", err)
	}
	if !models.HasCode(err, models.ErrCodeAmbiguousArticle) {
		t.Errorf("expected AMBIGUOUS_ARTICLE cause, got %v", err)
	}
}

func TestRun_InvalidURL(t *testing.T) {
	tests := []string{"", "ftp://e.com/x", "e.com/recipe", "https://", "://bad"}

	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			eng := &stubEngine{}
			_, err := New(eng, nil).Run(context.Background(), u)
			if !models.HasCode(err, models.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if eng.calls != 0 {
				t.Error("engine called for an invalid URL")
			}
		})
	}
}

func TestRun_PassesHeadersAndTimeout(t *testing.T) {
	eng := &stubEngine{result: &engine.FetchResult{HTML: recipePage}}
	p := New(eng, nil,
		WithTimeout(3*time.Second),
		WithHeaders(func(u string) map[string]string { return map[string]string{"Referer": "ref:" + u} }),
	)

	if _, err := p.Run(context.Background(), "https://e.com/pancakes"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if eng.req.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", eng.req.Timeout)
	}
	if got := eng.req.Headers["Referer"]; got != "ref:https://e.com/pancakes" {
		t.Errorf("Referer = %q", got)
	}
}

func TestRun_FetchErrorIsWrapped(t *testing.T) {
	cause := models.NewRecipeError(models.ErrCodeTimeout, "too slow", context.DeadlineExceeded)
	eng := &stubEngine{err: cause}

	_, err := New(eng, nil).Run(context.Background(), "https://e.com/x")
	if !errors.Is(err, cause) {
		t.Fatalf("expected the engine error in the chain, got %v", err)
	}
	if models.AsRecipeError(err).Code != models.ErrCodeTimeout {
		t.Errorf("code = %s", models.AsRecipeError(err).Code)
	}
}

func TestExtract_UsesFinalURL(t *testing.T) {
	eng := &stubEngine{result: &engine.FetchResult{HTML: recipePage, FinalURL: "https://www.cdn.example.org/p"}}

	res, err := New(eng, nil).Extract(context.Background(), "https://e.com/short")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := res.Recipe.Image.URL(); got != "https://www.cdn.example.org/img/pancakes.jpg" {
		t.Errorf("Image = %q", got)
	}
	if res.EngineUsed != "stub" {
		t.Errorf("EngineUsed = %q, want stub", res.EngineUsed)
	}
}

const untitledPage = `<html><head><title>Sunday Roast | Test Kitchen</title>
<script type="application/ld+json">{"@type": "Recipe", "recipeIngredient": ["1 chicken"]}</script>
</head><body><p>Story.</p></body></html>`

func TestExtract_EmptyTitleFallsBackToPageTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(untitledPage))
	}))
	defer srv.Close()

	p := New(engine.NewHTTPEngine(engine.HTTPOptions{Timeout: 5 * time.Second}), nil)
	rec, err := p.Run(context.Background(), srv.URL+"/roast")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Title != "Sunday Roast | Test Kitchen" {
		t.Errorf("Title = %q, want the page <title>", rec.Title)
	}
}

func TestExtract_KeepsRecipeNameOverPageTitle(t *testing.T) {
	eng := &stubEngine{result: &engine.FetchResult{HTML: recipePage, Title: "Something Else"}}

	rec, err := New(eng, nil).Run(context.Background(), "https://e.com/pancakes")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Title != "Pancakes" {
		t.Errorf("Title = %q, want %q", rec.Title, "Pancakes")
	}
}

func TestExtract_TrimsEngineTitle(t *testing.T) {
	eng := &stubEngine{result: &engine.FetchResult{
		HTML:  `<script type="application/ld+json">{"@type": "Recipe"}</script>`,
		Title: "  Roast  ",
	}}

	rec, err := New(eng, nil).Run(context.Background(), "https://e.com/r")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Title != "Roast" {
		t.Errorf("Title = %q, want %q", rec.Title, "Roast")
	}
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"Page", "Readable"}, "Page"},
		{[]string{"", " Readable "}, "Readable"},
		{[]string{" ", ""}, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := fallbackTitle(tt.in...); got != tt.want {
			t.Errorf("fallbackTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
