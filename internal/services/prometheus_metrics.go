package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type PrometheusMetrics struct {
	backendCallsTotal   *prometheus.CounterVec
	backendCallDuration *prometheus.HistogramVec
	submissionsTotal    *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		backendCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_backend_calls_total",
				Help: "Total number of outbound backend calls",
			},
			[]string{"call", "outcome"},
		),
		backendCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_backend_call_duration_milliseconds",
				Help:    "Outbound backend call duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"call"},
		),
		submissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_transaction_submissions_total",
				Help: "Total number of transaction submissions to the ledger",
			},
			[]string{"operation", "outcome"},
		),
	}
}

func (m *PrometheusMetrics) RecordBackendCall(kind CallKind, outcome string, duration time.Duration) {
	m.backendCallsTotal.WithLabelValues(string(kind), outcome).Inc()
	m.backendCallDuration.WithLabelValues(string(kind)).Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusMetrics) RecordSubmission(operation, outcome string) {
	m.submissionsTotal.WithLabelValues(operation, outcome).Inc()
}

// NoopMetrics discards every signal; used by tests
type NoopMetrics struct{}

func (NoopMetrics) RecordBackendCall(CallKind, string, time.Duration) {}
func (NoopMetrics) RecordSubmission(string, string)                  {}
