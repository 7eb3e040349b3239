package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"orders-dashboard/internal/config"
	"orders-dashboard/internal/handlers"
	"orders-dashboard/internal/middleware"
	"orders-dashboard/internal/observability"
	"orders-dashboard/internal/server"
	"orders-dashboard/internal/services"
	"orders-dashboard/internal/ui/templates"
)

const (
	version       = "1.0.0"
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "private, max-age=60"
)

// dashboardHandler renders the page shell with the date picker bounded by the
// loaded dataset.
func dashboardHandler(analytics *services.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		first, last, ok := analytics.Bounds()
		view := templates.DashboardView{
			Title:   "Orders Dashboard",
			MinDate: first,
			MaxDate: last,
			HasData: ok,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(view).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"config", cfg,
	)

	shutdownTracing, err := observability.InitTracing(cfg.Tracing, version, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	analytics := services.NewAnalytics(
		services.WithLogger(logger),
		services.WithMetrics(metrics),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	if err := analytics.LoadFromCSV(ctx, cfg.Dataset.CSVFile); err != nil {
		logger.Error("failed to load CSV data", "error", err, "filename", cfg.Dataset.CSVFile)
		os.Exit(1)
	}

	presenter, err := handlers.NewPresenter(analytics, cfg.Display, metrics, logger)
	if err != nil {
		logger.Error("invalid display configuration", "error", err)
		os.Exit(1)
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics),
	}

	srv := server.NewServer(presenter, metrics, logger, version, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		middleware.Metrics(metrics),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("flushing traces")
		return shutdownTracing(ctx)
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
