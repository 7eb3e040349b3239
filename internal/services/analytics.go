package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orders-dashboard/internal/dataset"
	"orders-dashboard/internal/models"
	"orders-dashboard/internal/observability"
)

// Analytics owns the raw dataset for the lifetime of the process and derives a
// SummaryBundle for any date range on demand. Nothing derived is retained.
type Analytics struct {
	mu       sync.RWMutex
	raw      *dataset.Dataset
	csvPath  string
	loadedAt time.Time
	logger   *slog.Logger
	metrics  *observability.Metrics
}

type Option func(*Analytics)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) { a.logger = logger }
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(a *Analytics) { a.metrics = metrics }
}

func NewAnalytics(opts ...Option) *Analytics {
	a := &Analytics{
		raw:    dataset.New(nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetData installs records as the raw dataset.
func (a *Analytics) SetData(records []models.OrderRecord) {
	a.install(dataset.New(records), "")
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	start := time.Now()
	a.logger.Info("loading dataset", "filename", filename)

	ds, err := dataset.LoadCSV(ctx, filename)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	a.install(ds, filename)

	duration := time.Since(start)
	first, last, _ := ds.Bounds()
	a.logger.Info("dataset loaded",
		"records", ds.Len(),
		"first_day", first.Format(time.DateOnly),
		"last_day", last.Format(time.DateOnly),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(ds.Len())/duration.Seconds()))

	return nil
}

func (a *Analytics) install(ds *dataset.Dataset, path string) {
	a.mu.Lock()
	a.raw = ds
	a.csvPath = path
	a.loadedAt = time.Now()
	a.mu.Unlock()

	a.metrics.SetDatasetRecords(ds.Len())
}

// Dataset returns the raw dataset.
func (a *Analytics) Dataset() *dataset.Dataset {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.raw
}

// Bounds returns the first and last purchase day of the raw dataset.
func (a *Analytics) Bounds() (first, last time.Time, ok bool) {
	return a.Dataset().Bounds()
}

// Recompute filters the raw dataset to r and aggregates the result. A zero r selects
// the whole dataset. Missing bounds are reported as validation errors.
func (a *Analytics) Recompute(ctx context.Context, r models.DateRange) (models.SummaryBundle, error) {
	_, span := observability.Tracer().Start(ctx, "analytics.Recompute")
	defer span.End()

	start := time.Now()
	raw := a.Dataset()

	if r.IsZero() {
		r = raw.FullRange()
	}
	if !r.IsZero() {
		if err := dataset.CheckBounds(r); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid date range")
			return models.SummaryBundle{}, err
		}
	}
	if raw.Len() == 0 {
		return Summarize(nil, r), nil
	}

	filtered, err := raw.Filter(r)
	if err != nil {
		return models.SummaryBundle{}, err
	}

	applied := models.DateRange{Start: dataset.Day(r.Start), End: dataset.Day(r.End)}
	bundle := Summarize(filtered.Records(), applied)

	duration := time.Since(start)
	a.metrics.ObserveRecompute(duration, filtered.Len())
	span.SetAttributes(
		attribute.String("range.start", applied.Start.Format(time.DateOnly)),
		attribute.String("range.end", applied.End.Format(time.DateOnly)),
		attribute.Int("records.filtered", filtered.Len()),
	)
	a.logger.Debug("summary recomputed",
		"start", applied.Start.Format(time.DateOnly),
		"end", applied.End.Format(time.DateOnly),
		"records", filtered.Len(),
		"duration", duration,
	)

	return bundle, nil
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	first, last, _ := a.raw.Bounds()
	return map[string]any{
		"record_count": a.raw.Len(),
		"csv_path":     a.csvPath,
		"loaded_at":    a.loadedAt,
		"first_day":    first.Format(time.DateOnly),
		"last_day":     last.Format(time.DateOnly),
	}
}
