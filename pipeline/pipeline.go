// Package pipeline runs one recipe extraction: fetch, parse, extract and
// attach source metadata.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/recipy/engine"
	"github.com/use-agent/recipy/extractor"
	"github.com/use-agent/recipy/models"
)

// HeaderFunc returns extra request headers for a page URL.
type HeaderFunc func(pageURL string) map[string]string

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHeaders adds per-request headers to every fetch.
func WithHeaders(fn HeaderFunc) Option {
	return func(p *Pipeline) { p.headers = fn }
}

// WithTimeout bounds each fetch. Zero leaves the engine default.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// Pipeline holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	engine    engine.Engine
	extractor *extractor.Extractor
	headers   HeaderFunc
	timeout   time.Duration
}

// Result is a recipe plus how it was obtained.
type Result struct {
	Recipe     *models.Recipe
	EngineUsed string
	Timing     models.TimingInfo
}

// New creates a Pipeline. A nil extractor uses the default strategy chain.
func New(eng engine.Engine, ex *extractor.Extractor, opts ...Option) *Pipeline {
	if ex == nil {
		ex = extractor.New()
	}
	p := &Pipeline{engine: eng, extractor: ex}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EngineName reports which engine fetches pages.
func (p *Pipeline) EngineName() string { return p.engine.Name() }

// Run extracts the recipe at rawURL.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (*models.Recipe, error) {
	res, err := p.Extract(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return res.Recipe, nil
}

// Extract is Run with timings and the engine name.
//
//  1. Validate the URL (absolute http/https)
//  2. Fetch with a single request       (records fetch_ms)
//  3. Parse, extract, read page metadata (records extract_ms); an empty
//     recipe title falls back to the page title
func (p *Pipeline) Extract(ctx context.Context, rawURL string) (*Result, error) {
	totalStart := time.Now()

	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	// ── Fetch ───────────────────────────────────────────────────
	req := &engine.FetchRequest{URL: rawURL, Timeout: p.timeout}
	if p.headers != nil {
		req.Headers = p.headers(rawURL)
	}

	fetchStart := time.Now()
	page, err := p.engine.Fetch(ctx, req)
	fetchMs := time.Since(fetchStart).Milliseconds()
	if err != nil {
		slog.Debug("fetch failed", "url", rawURL, "engine", p.engine.Name(), "error", err)
		return nil, fmt.Errorf("pipeline: fetch %s: %w", rawURL, err)
	}
	slog.Debug("page fetched",
		"url", rawURL,
		"final_url", page.FinalURL,
		"status", page.StatusCode,
		"bytes", len(page.HTML),
		"ms", fetchMs,
	)

	// ── Extract ─────────────────────────────────────────────────
	extractStart := time.Now()
	pageURL := page.FinalURL
	if pageURL == "" {
		pageURL = rawURL
	}
	body := []byte(page.HTML)

	doc, err := extractor.Parse(body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	rec, err := p.extractor.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("pipeline: extract %s: %w", rawURL, err)
	}

	info := extractor.PageMetadata(body, pageURL)
	if rec.Title == "" {
		rec.Title = fallbackTitle(page.Title, info.Title)
		slog.Info("recipe has no title, using page title", "url", rawURL, "title", rec.Title)
	}
	out := rec.WithSource(models.Source{URL: pageURL, SiteName: info.SiteName})
	extractMs := time.Since(extractStart).Milliseconds()

	slog.Info("recipe extracted",
		"url", rawURL,
		"title", out.Title,
		"ingredients", len(out.Ingredients),
		"instructions", len(out.Instructions),
	)

	engineUsed := page.EngineName
	if engineUsed == "" {
		engineUsed = p.engine.Name()
	}
	return &Result{
		Recipe:     &out,
		EngineUsed: engineUsed,
		Timing: models.TimingInfo{
			TotalMs:   time.Since(totalStart).Milliseconds(),
			FetchMs:   fetchMs,
			ExtractMs: extractMs,
		},
	}, nil
}

// fallbackTitle returns the first non-blank candidate.
func fallbackTitle(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.NewRecipeError(models.ErrCodeInvalidInput, fmt.Sprintf("invalid URL %q", rawURL), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.NewRecipeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported URL %q: scheme must be http or https", rawURL), nil)
	}
	if u.Host == "" {
		return models.NewRecipeError(models.ErrCodeInvalidInput, fmt.Sprintf("URL %q has no host", rawURL), nil)
	}
	return nil
}
