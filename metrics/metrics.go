// Package metrics exposes Prometheus instrumentation for conversion batches.
//
// Metrics live in a private registry so several schedulers (and tests) can
// coexist in one process. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"telconv/models"
)

// Batch outcomes used as the "outcome" label of telconv_batches_total.
const (
	OutcomeSuccess     = "success"
	OutcomePartial     = "partial"
	OutcomeFailed      = "failed"
	OutcomeCancelled   = "cancelled"
	OutcomeArchiveFail = "archive_failed"
)

// Metrics contains all Prometheus metrics for the converter
type Metrics struct {
	registry *prometheus.Registry

	// Job metrics
	JobsTotal    *prometheus.CounterVec
	JobDuration  prometheus.Histogram
	InputBytes   prometheus.Counter
	OutputBytes  prometheus.Counter
	JobsInFlight prometheus.Gauge

	// Batch metrics
	BatchesTotal  *prometheus.CounterVec
	BatchDuration prometheus.Histogram
}

// New creates and registers all metrics in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		JobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "telconv_jobs_total",
			Help: "Total number of conversion jobs by final status",
		}, []string{"status"}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "telconv_job_duration_seconds",
			Help:    "Time spent converting a single file",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		}),
		InputBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "telconv_input_bytes_total",
			Help: "Total size of successfully converted inputs",
		}),
		OutputBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "telconv_output_bytes_total",
			Help: "Total size of produced outputs",
		}),
		JobsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "telconv_jobs_in_flight",
			Help: "Number of ffmpeg processes currently running",
		}),

		BatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "telconv_batches_total",
			Help: "Total number of batches by outcome",
		}, []string{"outcome"}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "telconv_batch_duration_seconds",
			Help:    "Wall-clock time from batch start until every job completed",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17 minutes
		}),
	}
}

// Registry returns the registry holding every metric.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// JobStarted marks a conversion as running.
func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.JobsInFlight.Inc()
}

// JobFinished marks a running conversion as done.
func (m *Metrics) JobFinished() {
	if m == nil {
		return
	}
	m.JobsInFlight.Dec()
}

// ObserveJob records one job's final result.
func (m *Metrics) ObserveJob(r models.JobResult) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(string(r.Status)).Inc()
	if r.Duration > 0 {
		m.JobDuration.Observe(r.Duration.Seconds())
	}
	if r.Succeeded() {
		m.InputBytes.Add(float64(r.SizeBefore))
		m.OutputBytes.Add(float64(r.SizeAfter))
	}
}

// ObserveBatch records a finished batch.
func (m *Metrics) ObserveBatch(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BatchesTotal.WithLabelValues(outcome).Inc()
	m.BatchDuration.Observe(elapsed.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Handler serves the registry for Prometheus scrapes.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome classifies a finished batch summary.
func Outcome(s *models.BatchSummary) string {
	switch {
	case s == nil || s.Total == 0:
		return OutcomeFailed
	case s.Failed == 0:
		return OutcomeSuccess
	case s.Converted == 0:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}
