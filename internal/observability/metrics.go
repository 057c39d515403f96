package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for RecordResult
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Metrics collects completion client metrics.
type Metrics interface {
	RecordAttempt(provider string, statusCode int)
	RecordRetry(provider string)
	RecordResult(provider, outcome string)
	ObserveDuration(provider string, d time.Duration)
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) RecordAttempt(string, int)             {}
func (NopMetrics) RecordRetry(string)                    {}
func (NopMetrics) RecordResult(string, string)           {}
func (NopMetrics) ObserveDuration(string, time.Duration) {}

// PrometheusMetrics implements Metrics with Prometheus collectors
type PrometheusMetrics struct {
	Attempts *prometheus.CounterVec
	Retries  *prometheus.CounterVec
	Results  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "completion_attempts_total",
				Help: "HTTP attempts made against completion providers",
			},
			[]string{"provider", "status"},
		),
		Retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "completion_retries_total",
				Help: "Retries scheduled after a transient provider failure",
			},
			[]string{"provider"},
		),
		Results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "completion_results_total",
				Help: "Completion calls by final outcome",
			},
			[]string{"provider", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "completion_duration_seconds",
				Help:    "Wall time of a completion call including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}

	for _, c := range []prometheus.Collector{m.Attempts, m.Retries, m.Results, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordAttempt counts one answered HTTP attempt labeled by its status code
func (m *PrometheusMetrics) RecordAttempt(provider string, statusCode int) {
	m.Attempts.WithLabelValues(provider, strconv.Itoa(statusCode)).Inc()
}

// RecordRetry counts a retry scheduled after a transient status
func (m *PrometheusMetrics) RecordRetry(provider string) {
	m.Retries.WithLabelValues(provider).Inc()
}

// RecordResult counts a finished call by outcome
func (m *PrometheusMetrics) RecordResult(provider, outcome string) {
	m.Results.WithLabelValues(provider, outcome).Inc()
}

// ObserveDuration records the wall time of a call in seconds
func (m *PrometheusMetrics) ObserveDuration(provider string, d time.Duration) {
	m.Duration.WithLabelValues(provider).Observe(d.Seconds())
}
