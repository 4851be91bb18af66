package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed on /metrics. Each Server
// owns its registry so that several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	analysisDuration  prometheus.Histogram
	lastHealthScore   *prometheus.GaugeVec
	reportsSaved      prometheus.Counter
}

// NewMetrics creates and registers the server's collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_analysis_duration_seconds",
			Help:    "Time spent building one report",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.lastHealthScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pulse_last_health_score",
			Help: "Health score of the most recent report per platform",
		},
		[]string{"platform"},
	)

	m.reportsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_reports_saved_total",
			Help: "Reports persisted through the HTTP API",
		},
	)

	m.registry.MustRegister(m.httpRequestsTotal, m.analysisDuration, m.lastHealthScore, m.reportsSaved)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(platform string, score int, elapsed time.Duration) {
	m.analysisDuration.Observe(elapsed.Seconds())
	m.lastHealthScore.WithLabelValues(platform).Set(float64(score))
}

// Middleware counts requests by route pattern and status code. The route
// pattern is read after routing so that /reports/{id} stays one series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
