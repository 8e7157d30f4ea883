package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the portal collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	analysesTotal       *prometheus.CounterVec
	uploadRejections    *prometheus.CounterVec
	queriesSubmitted    prometheus.Counter
	willsGenerated      *prometheus.CounterVec
	extractionDuration  *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves from gatherer
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: gatherer,

		analysesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "legalportal",
				Name:      "analyses_total",
				Help:      "Completed document analyses by analyzer and risk level",
			},
			[]string{"analyzer", "level"},
		),

		uploadRejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "legalportal",
				Name:      "upload_rejections_total",
				Help:      "Uploads rejected before or during text extraction",
			},
			[]string{"reason"},
		),

		queriesSubmitted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "legalportal",
				Name:      "queries_submitted_total",
				Help:      "Property queries saved",
			},
		),

		willsGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "legalportal",
				Name:      "wills_generated_total",
				Help:      "Wills rendered by output format",
			},
			[]string{"format"},
		),

		extractionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "legalportal",
				Name:      "extraction_duration_seconds",
				Help:      "Text extraction latency by file kind",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"kind"},
		),

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "legalportal",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "legalportal",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAnalysis counts one analysis result
func (m *Metrics) RecordAnalysis(analyzer, level string) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(analyzer, level).Inc()
}

// RecordUploadRejection counts a rejected upload by error kind
func (m *Metrics) RecordUploadRejection(reason string) {
	if m == nil {
		return
	}
	m.uploadRejections.WithLabelValues(reason).Inc()
}

// RecordQuerySubmitted counts a saved property query
func (m *Metrics) RecordQuerySubmitted() {
	if m == nil {
		return
	}
	m.queriesSubmitted.Inc()
}

// RecordWillGenerated counts a rendered will
func (m *Metrics) RecordWillGenerated(format string) {
	if m == nil {
		return
	}
	m.willsGenerated.WithLabelValues(format).Inc()
}

// ObserveExtraction records how long an extraction took
func (m *Metrics) ObserveExtraction(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.extractionDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
