package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the service's Prometheus collectors, bound to one registry.
type Metrics struct {
	registry *prometheus.Registry

	extractions *prometheus.CounterVec
	documents   *prometheus.CounterVec
	signatures  *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "offer_extractions_total",
			Help: "Candidate text extractions by outcome.",
		}, []string{"outcome"}),
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "offer_documents_total",
			Help: "Offer letters rendered by template and outcome.",
		}, []string{"template", "outcome"}),
		signatures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "offer_signatures_total",
			Help: "Signature submissions by outcome.",
		}, []string{"outcome"}),
		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "offer_llm_request_duration_seconds",
			Help:    "Latency of extraction model calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"model", "outcome"}),
	}
}

// Registry is the registry served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveLLM records one model call. It matches llm.Observer.
func (m *Metrics) ObserveLLM(model string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.llmLatency.WithLabelValues(model, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) extraction(outcome string) {
	m.extractions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) document(template, outcome string) {
	m.documents.WithLabelValues(template, outcome).Inc()
}

func (m *Metrics) signature(outcome string) {
	m.signatures.WithLabelValues(outcome).Inc()
}
