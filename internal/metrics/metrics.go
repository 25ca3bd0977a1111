// Package metrics records run and stage metrics for salesclean.
//
// Callers use the package-level helpers (RecordStep, RecordRow, RecordBatches).
// They write to a global Backend that discards everything until SetBackend
// installs a real one, so instrumented code never needs a nil check. Concrete
// backends live in subpackages (prompush, datadog).
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by every backend.
const (
	StepTotal           = "salesclean_step_total"
	StepDurationSeconds = "salesclean_step_duration_seconds"
	RowsTotal           = "salesclean_rows_total"
	BatchesTotal        = "salesclean_batches_total"
)

// Row kinds passed to RecordRow.
const (
	RowsRead     = "read"
	RowsCleaned  = "cleaned"
	RowsRejected = "rejected"
	RowsLoaded   = "loaded"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is implemented by metric sinks.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records one duration-style observation.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend buffers.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b as the global backend. Passing nil keeps the current
// one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Reset restores the no-op backend.
func Reset() {
	mu.Lock()
	backend = nopBackend{}
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a pipeline step and observes its
// duration, labelled by outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow adds delta rows of the given kind (RowsRead, RowsCleaned...).
// Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches adds delta database batches written for job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
