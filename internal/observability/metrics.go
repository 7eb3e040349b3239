package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "orders_dashboard"

// Metrics owns a private registry so that several instances (tests, CLIs) never
// collide on the default one. All methods are safe on a nil receiver.
type Metrics struct {
	registry          *prometheus.Registry
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	recomputeDuration prometheus.Histogram
	filteredRecords   prometheus.Gauge
	datasetRecords    prometheus.Gauge
	rangeRejections   prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		recomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "recompute_duration_seconds",
			Help:      "Time spent filtering and aggregating one date range.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		filteredRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "filtered_records",
			Help:      "Rows selected by the most recent date range.",
		}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "dataset_records",
			Help:      "Rows in the loaded dataset.",
		}),
		rangeRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "range_rejections_total",
			Help:      "Date ranges rejected and replaced by the full range.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.recomputeDuration,
		m.filteredRecords,
		m.datasetRecords,
		m.rangeRejections,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveRecompute(duration time.Duration, filtered int) {
	if m == nil {
		return
	}
	m.recomputeDuration.Observe(duration.Seconds())
	m.filteredRecords.Set(float64(filtered))
}

func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil {
		return
	}
	m.datasetRecords.Set(float64(n))
}

func (m *Metrics) RangeRejected() {
	if m == nil {
		return
	}
	m.rangeRejections.Inc()
}
