package app

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
	"github.com/go-chi/render"

	"sheetcheck/internal/config"
	apperrors "sheetcheck/internal/errors"
	"sheetcheck/internal/infrastructure"
	customMiddleware "sheetcheck/internal/middleware"
	"sheetcheck/internal/services"
	handlers "sheetcheck/internal/transport/http"
	ws "sheetcheck/internal/websocket"
	"sheetcheck/internal/workbook"
	"sheetcheck/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
	WebSocketHub   *ws.Hub
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
	ErrorHandler   *apperrors.ErrorHandler

	startTime time.Time
}

// NewApplication loads configuration and logging from the environment and
// builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component from cfg. The returned application is not yet listening.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("duration_mode", cfg.Ingest.DurationMode))

	otelProviders, err := infrastructure.InitializeOTel(
		infrastructure.OTelConfigFromTelemetry(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apperrors.NewErrorHandler(logger, cfg.Logging.Development),
		startTime:     time.Now(),
	}

	if err := app.initializeServices(); err != nil {
		// Nothing is listening yet; release what was started.
		app.shutdownServices(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	if err := infrastructure.RegisterRuntimeMetrics(a.OTelProviders.Meter, a.startTime); err != nil {
		return fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	hub := ws.NewHub(a.Logger, metrics)
	hub.Start()
	a.WebSocketHub = hub

	ingestor := services.NewIngestor(a.Config.Ingest, a.OTelProviders.Tracer, metrics, a.Logger)
	a.DatasetService = services.NewDatasetService(
		services.NewDatasetStore(a.Config.Ingest.MaxDatasets),
		ingestor,
		a.Config.Ingest.MaxUploadBytes,
		hub,
		metrics,
		a.Logger,
	)

	if a.Config.Google.Enabled {
		svc, err := workbook.NewSheetsService(context.Background(), a.Config.Google.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to initialize google sheets: %w", err)
		}
		a.DatasetService.SetGoogleService(svc)
		a.Logger.Info("Google Sheets loading enabled")
	}

	a.HealthService = services.NewHealthService(
		contracts.Version,
		a.DatasetService,
		hub,
		a.DatasetService.GoogleEnabled(),
		a.Logger,
	)

	return nil
}

// setupRouter configures the HTTP router with all routes.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → SecureHeaders → CORS → RateLimiter → Timeout.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// The upgrade hijacks the connection, so the response-wrapping middleware stays off /ws.
	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.Security.AllowedOrigins, a.Logger).
		WithConfig(a.Config.WebSocket)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.OTelProviders.Tracer, a.Logger)).
		Handle("/ws", wsHandler)

	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.HealthService, a.WebSocketHub)
	r.Get("/metrics", metricsHandler.Prometheus)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))

		a.setupAPIRoutes(r, metricsHandler)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, metricsHandler *handlers.MetricsHandler) {
	validator := customMiddleware.NewValidator()

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		r.Mount("/stats", metricsHandler.Routes())

		datasetHandler := handlers.NewDatasetHandler(
			a.DatasetService,
			validator,
			a.ErrorHandler,
			a.Config.Ingest.MaxUploadBytes,
			a.Logger,
		)
		r.Mount("/datasets", datasetHandler.Routes())

		clientLogHandler := handlers.NewClientLogHandler(validator, a.ErrorHandler, a.Logger)
		r.With(
			customMiddleware.ContentTypeValidator(a.ErrorHandler, "application/json"),
			customMiddleware.MaxBodySize(64<<10),
		).Post("/logs", clientLogHandler.Handle)
	})
}

// getCORSConfig builds the CORS settings from the security section
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "If-None-Match", customMiddleware.RequestIDHeader},
		ExposedHeaders:   []string{customMiddleware.RequestIDHeader, "ETag", "Content-Disposition", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
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

// Start starts the HTTP server in the background. A listen failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var serverErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			serverErr = fmt.Errorf("server shutdown error: %w", err)
		}
	}

	a.shutdownServices(shutdownCtx)

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	if err := infrastructure.CloseLogFile(); err != nil && serverErr == nil {
		serverErr = fmt.Errorf("log file close error: %w", err)
	}
	return serverErr
}

// shutdownServices releases background resources in reverse start order.
func (a *Application) shutdownServices(ctx context.Context) {
	if a.DatasetService != nil {
		a.DatasetService.Close(ctx)
	}
	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
