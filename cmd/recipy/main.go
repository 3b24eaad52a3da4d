// Command recipy fetches a recipe page, extracts the recipe and writes it as
// a minimal HTML page (or Markdown/JSON on stdout).
//
//	recipy [flags] URL [FILENAME]
//	recipy serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/use-agent/recipy/config"
	"github.com/use-agent/recipy/engine"
	"github.com/use-agent/recipy/models"
	"github.com/use-agent/recipy/pipeline"
	"github.com/use-agent/recipy/present"
	"github.com/use-agent/recipy/render"
	"github.com/use-agent/recipy/scraper"
)

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr, open: present.OpenInBrowser}
	os.Exit(a.run(context.Background(), os.Args[1:]))
}

// app carries the process streams so tests can capture them.
type app struct {
	stdout io.Writer
	stderr io.Writer
	open   func(path string)
}

// run returns the process exit code: 0 on success, 1 on a failed run and
// 2 on bad usage.
func (a *app) run(ctx context.Context, args []string) int {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	if len(args) > 0 && args[0] == "serve" {
		initLogger(cfg.Log, a.stderr)
		if err := serve(cfg); err != nil {
			fmt.Fprintf(a.stderr, "recipy: %v\n", err)
			return 1
		}
		return 0
	}

	// ── 2. Flags override the environment ───────────────────────────
	fs := flag.NewFlagSet("recipy", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: recipy [flags] URL [FILENAME] [flags]\n       recipy serve")
		fs.PrintDefaults()
	}
	name := fs.String("o", "", "output file name (.html is appended when missing)")
	fs.StringVar(&cfg.Output.Dir, "dir", cfg.Output.Dir, "output folder")
	fs.StringVar(&cfg.Output.Format, "format", cfg.Output.Format, "output format: html, markdown or json")
	fs.StringVar(&cfg.Fetch.Mode, "fetch", cfg.Fetch.Mode, "fetch mode: http or browser")
	fs.DurationVar(&cfg.Fetch.Timeout, "timeout", cfg.Fetch.Timeout, "fetch timeout")
	noOpen := fs.Bool("no-open", !cfg.Output.OpenBrowser, "do not open the written file in the browser")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn or error")

	// flag stops at the first positional argument; resume after each one so
	// flags may follow the URL.
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			return 2
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) < 1 || len(positional) > 2 {
		fs.Usage()
		return 2
	}
	pageURL := positional[0]
	if len(positional) == 2 && *name == "" {
		*name = positional[1]
	}

	initLogger(cfg.Log, a.stderr)

	// ── 3. Build the pipeline ───────────────────────────────────────
	p, cleanup, err := newPipeline(cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "recipy: %v\n", err)
		return 2
	}
	defer cleanup()

	// ── 4. Fetch, extract, render ───────────────────────────────────
	rec, err := p.Run(ctx, pageURL)
	if err != nil {
		return a.fail(err)
	}
	out, err := render.Render(rec, cfg.Output.Format)
	if err != nil {
		return a.fail(err)
	}

	// ── 5. Present ──────────────────────────────────────────────────
	if cfg.Output.Format != models.FormatHTML && cfg.Output.Format != "" {
		fmt.Fprint(a.stdout, out)
		return 0
	}

	pr := present.New(false)
	if !*noOpen {
		pr.Open = a.open
	}
	path, err := pr.Present(out, present.Destination{Dir: cfg.Output.Dir, Name: *name})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.stdout, path)
	return 0
}

// fail prints a single error line and returns the failure exit code.
func (a *app) fail(err error) int {
	slog.Debug("run failed", "error", err)
	re := models.AsRecipeError(err)
	fmt.Fprintf(a.stderr, "recipy: %s: %s\n", re.Code, re.Message)
	return 1
}

// newPipeline wires the configured fetch engine into a pipeline. The
// returned cleanup releases the browser, if one was created.
func newPipeline(cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	opts := []pipeline.Option{pipeline.WithTimeout(cfg.Fetch.Timeout)}

	switch strings.ToLower(cfg.Fetch.Mode) {
	case "", "http":
		eng := engine.NewHTTPEngine(engine.HTTPOptions{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.Fetch.Timeout,
		})
		return pipeline.New(eng, nil, opts...), func() {}, nil

	case "browser", "rod":
		// The render callback keeps engine/ free of scraper/ imports.
		browser := scraper.NewBrowser(cfg.Browser)
		eng := engine.NewRodEngine(browser.Render)
		opts = append(opts, pipeline.WithHeaders(func(pageURL string) map[string]string {
			if ref := scraper.RefererFor(pageURL); ref != "" {
				return map[string]string{"Referer": ref}
			}
			return nil
		}))
		return pipeline.New(eng, nil, opts...), browser.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown fetch mode %q, want http or browser", cfg.Fetch.Mode)
	}
}

// initLogger configures slog based on the LogConfig. Logs go to w so that
// stdout stays clean for rendered output.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
