package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"orders-dashboard/internal/config"
	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/models"
	"orders-dashboard/internal/observability"
	"orders-dashboard/internal/services"
	"orders-dashboard/internal/ui/format"
	"orders-dashboard/internal/ui/templates"
)

// rangeSignals mirrors the datastar signals declared by the dashboard page.
type rangeSignals struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Presenter resolves request ranges into summary views. It is shared by the JSON and
// SSE handlers.
type Presenter struct {
	analytics *services.Analytics
	format    *format.Formatter
	topN      int
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewPresenter(analytics *services.Analytics, display config.DisplayConfig, metrics *observability.Metrics, logger *slog.Logger) (*Presenter, error) {
	f, err := format.NewFormatter(display.Currency, display.Locale)
	if err != nil {
		return nil, fmt.Errorf("display settings: %w", err)
	}
	topN := display.TopN
	if topN <= 0 {
		topN = 5
	}
	return &Presenter{
		analytics: analytics,
		format:    f,
		topN:      topN,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

func (p *Presenter) Analytics() *services.Analytics { return p.analytics }

func (p *Presenter) TopN() int { return p.topN }

// Summary recomputes the bundle for raw start/end strings. An invalid range is
// replaced by the full dataset range and the reason is returned as a notice.
func (p *Presenter) Summary(ctx context.Context, start, end string) (models.SummaryBundle, string, error) {
	requested, err := services.ParseRange(start, end)
	if err == nil {
		var bundle models.SummaryBundle
		bundle, err = p.analytics.Recompute(ctx, requested)
		if err == nil {
			return bundle, "", nil
		}
	}
	if !errors.HasCode(err, errors.CodeValidation) {
		return models.SummaryBundle{}, "", err
	}

	notice := noticeFor(err)
	p.metrics.RangeRejected()
	p.logger.Warn("date range rejected, using full range",
		"start", start,
		"end", end,
		"reason", notice,
		"request_id", observability.GetRequestID(ctx),
	)

	bundle, err := p.analytics.Recompute(ctx, models.DateRange{})
	return bundle, notice, err
}

func noticeFor(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message + "; showing the full date range"
	}
	return "invalid date range; showing the full date range"
}

// View derives the display selections from a bundle.
func (p *Presenter) View(bundle models.SummaryBundle, notice string) templates.SummaryView {
	return templates.SummaryView{
		Bundle: bundle,
		Best:   services.BestCategories(bundle.Categories, p.topN),
		Worst:  services.WorstCategories(bundle.Categories, p.topN),
		Cities: services.TopCities(bundle.Cities, p.topN),
		Notice: notice,
		Format: p.format,
	}
}

// requestRange reads start/end from plain query parameters, falling back to the
// datastar signals carried by SSE requests.
func requestRange(r *http.Request) (string, string) {
	q := r.URL.Query()
	if q.Has("start") || q.Has("end") {
		return q.Get("start"), q.Get("end")
	}

	var signals rangeSignals
	if q.Has("datastar") || r.Header.Get("Datastar-Request") != "" {
		if err := datastar.ReadSignals(r, &signals); err != nil {
			return "", ""
		}
	}
	return signals.Start, signals.End
}
