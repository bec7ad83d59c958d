package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	importRows      *prometheus.CounterVec
	importErrors    *prometheus.CounterVec
}

// New creates a registry with process, Go runtime and application
// collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendorcatalog_http_requests_total",
			Help: "HTTP requests processed, by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vendorcatalog_http_request_duration_seconds",
			Help:    "HTTP request latency, by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendorcatalog_import_rows_total",
			Help: "Catalog rows persisted by import jobs, by source.",
		}, []string{"source"}),
		importErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendorcatalog_import_row_errors_total",
			Help: "Catalog rows skipped by import jobs, by source.",
		}, []string{"source"}),
	}
	registry.MustRegister(m.requestsTotal, m.requestDuration, m.importRows, m.importErrors)
	return m
}

// RegisterImportSubscribers exposes the live import subscription count as a
// gauge, read on every scrape.
func (m *Metrics) RegisterImportSubscribers(count func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vendorcatalog_import_subscribers",
		Help: "Active import event subscriptions.",
	}, count))
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveImport records the outcome of an import job.
func (m *Metrics) ObserveImport(source string, imported, errors int) {
	m.importRows.WithLabelValues(source).Add(float64(imported))
	m.importErrors.WithLabelValues(source).Add(float64(errors))
}
