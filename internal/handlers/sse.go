package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"orders-dashboard/internal/models"
	"orders-dashboard/internal/ui/format"
	"orders-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	presenter *Presenter
	logger    *slog.Logger
}

func NewSSEHandlers(presenter *Presenter, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		presenter: presenter,
		logger:    logger,
	}
}

type section func(templates.SummaryView) templ.Component

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, templates.Metrics, templates.DailyChart, templates.Categories, templates.Cities, templates.Payments)
}

func (h *SSEHandlers) HandleDailyOrders(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, templates.Metrics, templates.DailyChart)
}

func (h *SSEHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, templates.Categories)
}

func (h *SSEHandlers) HandleCities(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, templates.Cities)
}

func (h *SSEHandlers) HandlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, templates.Payments)
}

// serve recomputes the summary for the request range and patches the notice banner,
// the requested sections, and the range/total signals.
func (h *SSEHandlers) serve(w http.ResponseWriter, r *http.Request, sections ...section) {
	start, end := requestRange(r)
	bundle, notice, err := h.presenter.Summary(r.Context(), start, end)

	sse := datastar.NewSSE(w, r)

	if err != nil {
		h.logger.Error("recompute summary", "error", err)
		h.patch(r.Context(), sse, templates.Notice("The summary could not be computed."))
		return
	}

	view := h.presenter.View(bundle, notice)
	h.patch(r.Context(), sse, templates.Notice(notice))
	for _, s := range sections {
		if !h.patch(r.Context(), sse, s(view)) {
			return
		}
	}

	signals, err := json.Marshal(rangeSignalsFor(bundle))
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		h.logger.Warn("patch signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, c templ.Component) bool {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		h.logger.Error("render fragment", "error", err)
		return false
	}
	if err := sse.PatchElements(buf.String()); err != nil {
		h.logger.Warn("patch elements", "error", err)
		return false
	}
	return true
}

// rangeSignalsFor echoes the applied range so the date inputs show what was actually
// computed, plus raw totals for client-side use.
func rangeSignalsFor(bundle models.SummaryBundle) map[string]any {
	return map[string]any{
		"start":        format.DateLabel(bundle.Range.Start),
		"end":          format.DateLabel(bundle.Range.End),
		"totalOrders":  bundle.TotalOrders,
		"totalRevenue": bundle.TotalRevenue,
	}
}
