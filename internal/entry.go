// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/A11myt/obsidian-task-heatmap/internal/aggregate"
	"github.com/A11myt/obsidian-task-heatmap/internal/api"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmapservice"
	"github.com/A11myt/obsidian-task-heatmap/internal/history"
	"github.com/A11myt/obsidian-task-heatmap/internal/mcpserver"
	"github.com/A11myt/obsidian-task-heatmap/internal/sse"
	"github.com/A11myt/obsidian-task-heatmap/internal/storage"
)

// serviceSettings maps the heatmap config section onto service settings.
func serviceSettings(cfg *HeatmapConfig) heatmapservice.Settings {
	return heatmapservice.Settings{
		NotesFolder:     cfg.NotesFolder,
		ColorScheme:     cfg.ColorScheme,
		CustomColors:    cfg.CustomColors,
		EmptyColor:      cfg.EmptyColor,
		CellSize:        cfg.CellSize,
		DateLocale:      cfg.DateLocale,
		YearMode:        heatmap.Mode(cfg.YearMode),
		Year:            cfg.Year,
		DailyNoteFormat: cfg.DailyNoteFormat,
		SpecialTags:     cfg.SpecialTags,
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("notes_folder", cfg.Heatmap.NotesFolder),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize scan history.
	db, err := history.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	svc := heatmapservice.New(store, aggregate.NewTimedCache(aggregate.DefaultCacheTTL),
		db, logger, serviceSettings(&cfg.Heatmap))

	// MCP mode serves tools over stdio and never opens an HTTP port.
	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc, store).ServeStdio()
	}

	// SSE broker; rescans are throttled so refresh bursts collapse.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	svc.OnScan(func(ev heatmapservice.ScanEvent) {
		broker.PublishScan(ev)
	})

	// Run initial scan.
	if _, err := svc.Refresh(ctx, true); err != nil {
		logger.Warn("initial scan failed", slog.String("error", err.Error()))
	}

	// Periodic background rescans.
	var scheduler *cron.Cron
	if cfg.Heatmap.Refresh.Enabled {
		scheduler = cron.New()
		spec := fmt.Sprintf("@every %ds", cfg.Heatmap.Refresh.IntervalSeconds)
		if _, err := scheduler.AddFunc(spec, func() {
			if _, err := svc.Refresh(context.Background(), true); err != nil {
				logger.Warn("scheduled scan failed", slog.String("error", err.Error()))
			}
		}); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Auto-refresh enabled", slog.String("schedule", spec))
	}

	// Build API router.
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
