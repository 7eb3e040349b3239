package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/export"
	"orders-dashboard/internal/models"
	"orders-dashboard/internal/observability"
	"orders-dashboard/internal/services"
	"orders-dashboard/internal/ui/format"
)

const cacheControl = "private, max-age=60"

type APIHandlers struct {
	presenter *Presenter
	analytics *services.Analytics
	logger    *slog.Logger
	version   string
}

func NewAPIHandlers(presenter *Presenter, logger *slog.Logger, version string) *APIHandlers {
	return &APIHandlers{
		presenter: presenter,
		analytics: presenter.Analytics(),
		logger:    logger,
		version:   version,
	}
}

// summary resolves the request range. It writes the error response itself and
// reports false when the handler should stop.
func (h *APIHandlers) summary(w http.ResponseWriter, r *http.Request) (models.SummaryBundle, string, bool) {
	start, end := requestRange(r)
	bundle, notice, err := h.presenter.Summary(r.Context(), start, end)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return models.SummaryBundle{}, "", false
	}
	return bundle, notice, true
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	bundle, notice, ok := h.summary(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithNotice(w, bundle, notice, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleDailyOrders(w http.ResponseWriter, r *http.Request) {
	bundle, notice, ok := h.summary(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithNotice(w, bundle.DailyOrders, notice, map[string]string{"Cache-Control": cacheControl})
}

// HandleCategories serves the best (default) or worst categories. limit defaults to
// the configured top-N; 0 returns the whole table.
func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	order := r.URL.Query().Get("order")
	if order != "" && order != "best" && order != "worst" {
		errors.WriteError(w, h.logger, errors.BadRequest("order must be best or worst"), observability.GetRequestID(r.Context()))
		return
	}

	bundle, notice, ok := h.summary(w, r)
	if !ok {
		return
	}

	rows := services.BestCategories(bundle.Categories, limit)
	if order == "worst" {
		rows = services.WorstCategories(bundle.Categories, limit)
	}
	errors.WriteSuccessWithNotice(w, rows, notice, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleCities(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	bundle, notice, ok := h.summary(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithNotice(w, services.TopCities(bundle.Cities, limit), notice, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	bundle, notice, ok := h.summary(w, r)
	if !ok {
		return
	}

	data := map[string]any{
		"methods":  bundle.PaymentMethods,
		"overview": bundle.PaymentOverview,
	}
	errors.WriteSuccessWithNotice(w, data, notice, map[string]string{"Cache-Control": cacheControl})
}

// HandleRange reports the selectable day range of the loaded dataset.
func (h *APIHandlers) HandleRange(w http.ResponseWriter, r *http.Request) {
	first, last, ok := h.analytics.Bounds()
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("no orders loaded"), observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccess(w, map[string]string{
		"min": format.DateLabel(first),
		"max": format.DateLabel(last),
	})
}

func (h *APIHandlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	bundle, _, ok := h.summary(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, bundle); err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to build workbook"), observability.GetRequestID(r.Context()))
		return
	}

	filename := "orders_" + format.DateLabel(bundle.Range.Start) + "_" + format.DateLabel(bundle.Range.End) + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write workbook", "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   h.version,
		"records":   h.analytics.Dataset().Len(),
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}

func (h *APIHandlers) limit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.presenter.TopN(), true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		errors.WriteError(w, h.logger, errors.BadRequest("limit must be a non-negative integer"), observability.GetRequestID(r.Context()))
		return 0, false
	}
	return n, true
}
