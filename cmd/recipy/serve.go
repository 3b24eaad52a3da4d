package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/recipy/api"
	"github.com/use-agent/recipy/cache"
	"github.com/use-agent/recipy/config"
)

// shutdownGrace is how long in-flight API requests get on shutdown.
const shutdownGrace = 5 * time.Second

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(cfg *config.Config) error {
	slog.Info("recipy starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"fetch", cfg.Fetch.Mode,
	)

	p, cleanup, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.DefaultMaxAge)
	defer cc.Close()

	bg, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	router := api.NewRouter(bg, p, cfg, cc, time.Now())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("recipy stopped")
	return nil
}
