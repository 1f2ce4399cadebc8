package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"retailcli/internal/config"
	"retailcli/internal/errors"
	"retailcli/internal/infrastructure"
	"retailcli/internal/services"
	handlers "retailcli/internal/transport/http"
	"retailcli/pkg/contracts"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Version = contracts.Version
	AppName = "Retail Pulse - Transaction Analytics"
)

// Application represents the main application container
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Router    *chi.Mux
	Server    *http.Server
	Analytics *services.AnalyticsService
	Registry  *prometheus.Registry
	Logger    *slog.Logger
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	// The log file lives in the resolved logs directory regardless of the
	// configured relative path.
	cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("build", contracts.GetFullVersionString()))
	paths.LogPathResolution()

	registry := prometheus.NewRegistry()
	analytics := services.NewAnalyticsService(logger, cfg.Pipeline, paths, registry)

	app := &Application{
		Config:    cfg,
		Paths:     paths,
		Analytics: analytics,
		Registry:  registry,
		Logger:    logger,
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP routes and middleware chain
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := errors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(errors.RecoveryMiddleware(errorHandler))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	reportHandler := handlers.NewReportHandler(a.Analytics, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler()

	r.Route("/api", func(r chi.Router) {
		r.Mount("/report", reportHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
	})

	// Prometheus scrape endpoint, outside the API group
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server and performs the initial dataset load
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Warm the report cache; a missing or malformed dataset is not fatal
	// here because /api/report/refresh can retry once the file is fixed.
	go func() {
		if _, err := a.Analytics.Refresh(ctx); err != nil {
			a.Logger.WarnContext(ctx, "Initial dataset load failed",
				slog.String("error", err.Error()),
				slog.String("action", "POST /api/report/refresh to retry"))
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
