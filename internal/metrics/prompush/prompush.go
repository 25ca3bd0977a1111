// Package prompush pushes salesclean metrics to a Prometheus Pushgateway.
//
// A run is a short-lived batch job, so nothing is scraped: collectors live in
// a private registry and Flush pushes the whole registry under the job name.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"salesclean/internal/metrics"
)

// DefaultJob is the Pushgateway job used when none is given.
const DefaultJob = "salesclean"

// Backend is a metrics.Backend backed by a Prometheus registry.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	rows         *prometheus.CounterVec
	batches      prometheus.Counter
}

// NewBackend builds a backend that pushes to gatewayURL under jobName.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = DefaultJob
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Cleaning step executions by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metrics.StepDurationSeconds,
			Help:    "Cleaning step duration in seconds by step and status.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"step", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows by kind (read, cleaned, rejected, loaded).",
		}, []string{"kind"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Database batches written.",
		}),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":   b.steps,
		"step histogram": b.stepDuration,
		"row counter":    b.rows,
		"batch counter":  b.batches,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.steps.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rows.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batches.Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush replaces the job's metric group on the Pushgateway.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
