package server

import (
	"log/slog"
	"net/http"

	"orders-dashboard/internal/handlers"
	"orders-dashboard/internal/observability"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
	metrics     *observability.Metrics
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(presenter *handlers.Presenter, metrics *observability.Metrics, logger *slog.Logger, version string, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(presenter, logger, version),
		sseHandlers: handlers.NewSSEHandlers(presenter, logger),
		metrics:     metrics,
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	// REST API endpoints, all accepting ?start=YYYY-MM-DD&end=YYYY-MM-DD
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/daily-orders", s.apiHandlers.HandleDailyOrders)
	s.mux.HandleFunc("GET /api/categories", s.apiHandlers.HandleCategories)
	s.mux.HandleFunc("GET /api/cities", s.apiHandlers.HandleCities)
	s.mux.HandleFunc("GET /api/payment-methods", s.apiHandlers.HandlePaymentMethods)
	s.mux.HandleFunc("GET /api/range", s.apiHandlers.HandleRange)
	s.mux.HandleFunc("GET /api/export.xlsx", s.apiHandlers.HandleExportXLSX)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/daily-orders", s.sseHandlers.HandleDailyOrders)
	s.mux.HandleFunc("GET /sse/categories", s.sseHandlers.HandleCategories)
	s.mux.HandleFunc("GET /sse/cities", s.sseHandlers.HandleCities)
	s.mux.HandleFunc("GET /sse/payment-methods", s.sseHandlers.HandlePaymentMethods)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
