package metrics

import (
	"net/http"
	"strconv"
	"time"

	"humanaid/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	searchTiers *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		// Total HTTP requests partitioned by method, route, and status code
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),

		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_inflight_requests",
				Help: "Number of HTTP requests currently being served",
			},
		),

		searchTiers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "humanaid_search_tier_total",
				Help: "Search tiers executed, by mode",
			},
			[]string{"mode"},
		),

		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "humanaid_moderation_transitions_total",
				Help: "Successful submission reviews, by action",
			},
			[]string{"action"},
		),
	}
}

func (m *Metrics) ObserveSearchTier(mode types.SearchMode) {
	m.searchTiers.WithLabelValues(string(mode)).Inc()
}

func (m *Metrics) ObserveTransition(action types.ReviewAction) {
	m.transitions.WithLabelValues(string(action)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument records request metrics for h. route should be the registered
// pattern, not the request path, to keep label cardinality low.
func (m *Metrics) Instrument(route string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}
		m.httpRequestsTotal.With(labels).Inc()
		m.httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
