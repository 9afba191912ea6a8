package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/gwilson152/TradePulse-new/internal/config"
	"github.com/gwilson152/TradePulse-new/internal/dataprocessing"
	apierrors "github.com/gwilson152/TradePulse-new/internal/errors"
	"github.com/gwilson152/TradePulse-new/internal/infrastructure"
	customMiddleware "github.com/gwilson152/TradePulse-new/internal/middleware"
	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/services"
	handlers "github.com/gwilson152/TradePulse-new/internal/transport/http"
	"github.com/gwilson152/TradePulse-new/pkg/contracts"
)

const (
	VERSION = "v" + contracts.Version
	AppName = "TradePulse Import API"
)

var (
	// BuildTime comes from contracts.BuildTime when set through ldflags
	BuildTime = buildTime()
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func buildTime() string {
	if contracts.BuildTime != "unknown" {
		return contracts.BuildTime
	}
	return time.Now().Format(time.RFC3339)
}

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(VERSION))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Registry      *platforms.Registry
	ImportService *services.ImportService
	HealthService *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
}

// NewApplication loads configuration and builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewApplicationWithConfig(cfg, logger)
}

// NewApplicationWithConfig wires every component from an already loaded configuration
func NewApplicationWithConfig(cfg *config.Config, logger *slog.Logger, opts ...infrastructure.OTelOption) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("build_id", BuildID))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, VERSION, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	registry := platforms.NewDefaultRegistry()
	if path := a.Config.Import.SchemaFile; path != "" {
		n, err := registry.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load platform schemas: %w", err)
		}
		a.Logger.Info("Platform schemas loaded",
			slog.String("path", path),
			slog.Int("count", n))
	}
	a.Registry = registry

	importMetrics, err := infrastructure.NewImportMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create import metrics: %w", err)
	}

	importer := dataprocessing.NewImporter(registry, nil, a.Logger)
	importService, err := services.NewImportService(importer, registry, a.Config.Import, importMetrics, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize import service: %w", err)
	}
	a.ImportService = importService

	a.HealthService = services.NewHealthService(VERSION, BuildTime, registry, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	// Ordering: RequestID → RealIP → OTel → Logger → Recoverer
	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.ErrorHandler,
			).Handler)
		}

		if a.Config.Import.MaxUploadBytes > 0 {
			r.Use(customMiddleware.MaxBodySize(a.Config.Import.MaxUploadBytes))
		}

		a.setupAPIRoutes(r)
	})

	// Scrapes stay outside the traced group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)
	importHandler := handlers.NewImportHandler(a.ImportService, a.Logger, a.ErrorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/", importHandler.Routes(validator))
	})

	r.Mount("/health", healthHandler.Routes())
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			handlers.FingerprintHeader,
			handlers.CacheHeader,
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the application
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.Int("platforms", len(a.Registry.List())))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			// Signal shutdown through context instead of os.Exit
			cancel()
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

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
