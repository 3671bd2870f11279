// Package metrics exposes Prometheus collectors for the HTTP layer and the
// generation, retrieval and delivery pipelines.
//
// Collectors live on a private registry owned by a Metrics value, so tests and
// multiple servers in one process never collide. All methods are safe on a nil
// *Metrics, which lets components treat instrumentation as optional.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mailcraft"

// Retrieval modes recorded by ObserveRetrieval.
const (
	RetrievalHybrid           = "hybrid"
	RetrievalSemantic         = "semantic"
	RetrievalSemanticFallback = "semantic_fallback"
	RetrievalUnavailable      = "unavailable"
	RetrievalError            = "error"
)

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	retrievals         *prometheus.CounterVec
	emailsSent         *prometheus.CounterVec
	autoSaves          *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "generations_total",
			Help:      "Template generations by mode and outcome",
		}, []string{"mode", "status"}),
		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "generation_duration_seconds",
			Help:      "Template generation duration in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"mode"}),
		retrievals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rag",
			Name:      "retrievals_total",
			Help:      "Reference template retrievals by search mode",
		}, []string{"mode"}),
		emailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mailer",
			Name:      "emails_sent_total",
			Help:      "Emails handed to Gmail by outcome",
		}, []string{"status"}),
		autoSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "templates",
			Name:      "auto_saves_total",
			Help:      "Background template saves after sending by outcome",
		}, []string{"status"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency labelled with the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
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

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveGeneration records one generation call.
func (m *Metrics) ObserveGeneration(mode string, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(mode, outcome(err)).Inc()
	m.generationDuration.WithLabelValues(mode).Observe(took.Seconds())
}

// ObserveRetrieval records which search path produced reference context.
func (m *Metrics) ObserveRetrieval(mode string) {
	if m == nil {
		return
	}
	m.retrievals.WithLabelValues(mode).Inc()
}

// ObserveEmailSent records one Gmail send attempt.
func (m *Metrics) ObserveEmailSent(err error) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(outcome(err)).Inc()
}

// ObserveAutoSave records one background template save.
func (m *Metrics) ObserveAutoSave(err error) {
	if m == nil {
		return
	}
	m.autoSaves.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
