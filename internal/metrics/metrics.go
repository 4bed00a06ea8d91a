// Package metrics provides Prometheus instrumentation for transformations
// and model listings.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets covers LLM call latencies from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Metrics holds the collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	listings *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpn_transform_requests_total",
				Help: "Transformations by provider, model and outcome",
			},
			[]string{"provider", "model", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hpn_transform_request_duration_seconds",
				Help:    "Backend call duration",
				Buckets: LLMBuckets,
			},
			[]string{"provider", "model"},
		),
		listings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpn_transform_model_listings_total",
				Help: "Model listing calls by provider and result",
			},
			[]string{"provider", "status"},
		),
	}

	m.Registry.MustRegister(m.requests, m.duration, m.listings)
	return m
}

// ObserveTransform records one finished transformation.
func (m *Metrics) ObserveTransform(provider, model, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, model, status).Inc()
	m.duration.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}

// ObserveListing records one model listing; empty listings count as "empty".
func (m *Metrics) ObserveListing(provider string, count int) {
	if m == nil {
		return
	}
	status := "ok"
	if count == 0 {
		status = "empty"
	}
	m.listings.WithLabelValues(provider, status).Inc()
}
