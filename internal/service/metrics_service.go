package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "bailakids"

// MetricsService owns the Prometheus registry for the registration API. Every
// method is safe on a nil receiver so callers built without metrics skip recording.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpLatency   *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	cacheLatency  *prometheus.HistogramVec
	registrations *prometheus.CounterVec
	seats         *prometheus.CounterVec
	emails        *prometheus.CounterVec
	events        *prometheus.CounterVec
}

// NewMetricsService registers the API collectors on a private registry.
func NewMetricsService() *MetricsService {
	m := &MetricsService{
		registry: prometheus.NewRegistry(),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route and status",
		}, []string{"method", "route", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by namespace and result",
		}, []string{"cache", "result"}),
		cacheLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operation_seconds",
			Help:      "Redis round trip by namespace and operation",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"cache", "op"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations_total",
			Help:      "Stored registrations by selection model and location",
		}, []string{"model", "location"}),
		seats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "enrollment_decisions_total",
			Help:      "Seat decisions by resulting enrollment status",
		}, []string{"status"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "confirmation_emails_total",
			Help:      "Confirmation email sends by outcome",
		}, []string{"outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_published_total",
			Help:      "Registration events by publish outcome",
		}, []string{"outcome"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Goroutines currently running",
	}, func() float64 { return float64(runtime.NumGoroutine()) })

	m.registry.MustRegister(m.httpLatency, m.httpRequests, m.cacheLookups, m.cacheLatency,
		m.registrations, m.seats, m.emails, m.events, goroutines)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records one finished request. route is the gin route template.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpLatency.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, code).Inc()
}

// RecordCacheLookup records a read from the named cache.
func (m *MetricsService) RecordCacheLookup(cache string, hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
	m.cacheLatency.WithLabelValues(cache, "get").Observe(duration.Seconds())
}

// ObserveCacheWrite records a write to the named cache.
func (m *MetricsService) ObserveCacheWrite(cache string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.WithLabelValues(cache, "set").Observe(duration.Seconds())
}

// RecordRegistration counts a stored registration. model is "section" or "legacy".
func (m *MetricsService) RecordRegistration(model, location string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(model, location).Inc()
}

// RecordEnrollment counts one seat decision.
func (m *MetricsService) RecordEnrollment(status string) {
	if m == nil {
		return
	}
	m.seats.WithLabelValues(status).Inc()
}

// RecordEmail counts a confirmation send: "sent", "skipped" or "failed".
func (m *MetricsService) RecordEmail(outcome string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(outcome).Inc()
}

// RecordEvent counts a publish attempt: "published" or "failed".
func (m *MetricsService) RecordEvent(outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome).Inc()
}
