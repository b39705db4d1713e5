// Command westbound runs the AI Oregon Trail game server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/averill/westbound/internal/api"
	"github.com/averill/westbound/internal/config"
	"github.com/averill/westbound/internal/engine"
	"github.com/averill/westbound/internal/llm"
	"github.com/averill/westbound/internal/store"
	"github.com/averill/westbound/internal/trail"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Session store ────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Narrative generator ──────────────────────────────────────────
	gen := llm.NewClient(cfg.CFAccountID, cfg.CFAPIToken, cfg.Model)
	if !gen.Enabled() {
		slog.Warn("Workers AI credentials not set; turns will fail until CF_ACCOUNT_ID and CF_API_TOKEN are configured")
	}

	// ── Engine + HTTP ────────────────────────────────────────────────
	eng := engine.New(db, gen, trail.New(cfg.TrailSeed), cfg.GenTimeout)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: (&api.Server{
			Engine:      eng,
			TurnsPerMin: cfg.TurnsPerMin,
		}).Handler(),
	}

	go func() {
		slog.Info("HTTP server starting", "addr", cfg.Addr, "model_configured", gen.Enabled())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
