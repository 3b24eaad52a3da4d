package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Fetch     FetchConfig
	Browser   BrowserConfig
	Output    OutputConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// FetchConfig controls how recipe pages are fetched.
type FetchConfig struct {
	// Mode selects the fetch engine: "http" (default) or "browser".
	Mode string

	// Timeout bounds a single fetch, including reading the body.
	Timeout time.Duration // default: 30s

	// UserAgent overrides the browser-like default User-Agent.
	UserAgent string
}

// BrowserConfig controls the Rod browser used by the "browser" fetch mode.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth injects the go-rod/stealth evasions before navigation.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// OutputConfig controls where and how the rendered recipe is written.
type OutputConfig struct {
	// Dir is the output folder. Empty means the platform temp directory.
	Dir string

	// Format is "html" (default), "markdown" or "json".
	Format string

	// OpenBrowser opens written HTML files in the default browser.
	OpenBrowser bool // default: true
}

// CacheConfig controls the recipe cache of the HTTP API.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached recipes.
	MaxEntries int // default: 1000

	// DefaultMaxAge applies when a request does not set max_age.
	DefaultMaxAge time.Duration // default: 10m
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "127.0.0.1"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Fetch: FetchConfig{
			Mode:      envOr("RECIPY_FETCH_MODE", "http"),
			Timeout:   envDurationOr("RECIPY_FETCH_TIMEOUT", 30*time.Second),
			UserAgent: os.Getenv("RECIPY_USER_AGENT"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("RECIPY_HEADLESS", true),
			NoSandbox:  envBoolOr("RECIPY_NO_SANDBOX", false),
			BrowserBin: os.Getenv("RECIPY_BROWSER_BIN"),
			Stealth:    envBoolOr("RECIPY_STEALTH", false),
			BlockedResourceTypes: envSliceOr("RECIPY_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Output: OutputConfig{
			Dir:         os.Getenv("RECIPY_OUTPUT_DIR"),
			Format:      envOr("RECIPY_OUTPUT_FORMAT", "html"),
			OpenBrowser: envBoolOr("RECIPY_OPEN_BROWSER", true),
		},
		Server: ServerConfig{
			Host: envOr("RECIPY_HOST", "127.0.0.1"),
			Port: envIntOr("RECIPY_PORT", 8080),
			Mode: envOr("RECIPY_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("RECIPY_AUTH_ENABLED", false),
			APIKeys: envSliceOr("RECIPY_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RECIPY_RATE_RPS", 2.0),
			Burst:             envIntOr("RECIPY_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries:    envIntOr("RECIPY_CACHE_MAX_ENTRIES", 1000),
			DefaultMaxAge: envDurationOr("RECIPY_CACHE_MAX_AGE", 10*time.Minute),
		},
		Log: LogConfig{
			Level:  envOr("RECIPY_LOG_LEVEL", "info"),
			Format: envOr("RECIPY_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
