package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/keydrift/internal/config"
	"github.com/JonMunkholm/keydrift/internal/core"
	"github.com/JonMunkholm/keydrift/internal/logging"
	"github.com/JonMunkholm/keydrift/internal/prefs"
	"github.com/JonMunkholm/keydrift/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded", "config", cfg.String())

	// Open the preference store
	ctx := context.Background()
	store, err := prefs.Open(ctx, cfg.PrefsOptions())
	if err != nil {
		slog.Error("failed to open preference store", "backend", cfg.Prefs.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("preference store ready", "backend", cfg.Prefs.Backend)

	service := core.NewService(prefs.NewRepository(store), core.Options{
		KeyColumn:            cfg.Table.KeyColumn,
		Structural:           cfg.Table.Structural(),
		MaxFileSize:          cfg.Upload.MaxFileSize,
		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		MaxUploadWait:        cfg.Upload.MaxWaitTime,
		IdleTimeout:          cfg.Session.IdleTimeout,
		MaxSessions:          cfg.Session.MaxSessions,
	})

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	go service.StartSessionSweeper(jobCtx, cfg.Session.SweepInterval)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight parses finish before closing connections
		if status := service.Limiter().Status(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.Limiter().WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		store.Close()
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
