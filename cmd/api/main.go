// Command api serves the documents written by the ingest jobs to the
// dashboard.
//
// Usage:
//
//	hockey-api
//	API_PORT=8080 STORE_BACKEND=sqlite hockey-api

// @title Hockey Tracker API
// @version 1.0.0
// @description Read-only access to the clubs, teams, games and summaries written by the ingest jobs.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Mentone Hockey Club
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bourbon-beast/hockey-tracker-vite/internal/api"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/cache"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/config"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/store"
	"github.com/bourbon-beast/hockey-tracker-vite/internal/telemetry"

	_ "github.com/bourbon-beast/hockey-tracker-vite/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	logger := telemetry.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tel, err := telemetry.Setup(ctx, "hockey-api", cfg.OTLPEndpoint, logger)
	if err != nil {
		logger.Error("Failed to set up telemetry", "error", err)
		os.Exit(1)
	}

	logger.Info("Opening document store...", "backend", cfg.StoreBackend)
	s, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open document store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer s.Close()

	appCache := cache.New(ctx, cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	router := api.NewRouter(s, appCache, cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Hockey Tracker API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Telemetry shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
