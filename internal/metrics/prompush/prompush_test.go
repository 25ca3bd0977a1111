package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"salesclean/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, v *prometheus.HistogramVec, labels ...string) (uint64, float64) {
	t.Helper()
	m := &dto.Metric{}
	if err := v.WithLabelValues(labels...).(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("Histogram.Write: %v", err)
	}
	h := m.GetHistogram()
	return h.GetSampleCount(), h.GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		job     string
		url     string
		wantErr bool
		wantJob string
	}{
		{name: "missing url", job: "x", wantErr: true},
		{name: "default job", url: "http://pushgateway:9091", wantJob: DefaultJob},
		{name: "explicit job", job: "nightly", url: "http://pushgateway:9091", wantJob: "nightly"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b, err := NewBackend(tc.job, tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend: %v", err)
			}
			if b.jobName != tc.wantJob {
				t.Fatalf("jobName = %q, want %q", b.jobName, tc.wantJob)
			}
		})
	}
}

func TestBackend_RecordsThroughMetricsHelpers(t *testing.T) {
	b, err := NewBackend("sales", "http://unused")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	metrics.SetBackend(b)
	t.Cleanup(metrics.Reset)

	metrics.RecordStep("sales", "coerce_numeric", nil, 0)
	metrics.RecordStep("sales", "coerce_numeric", nil, 0)
	metrics.RecordRow("sales", metrics.RowsRejected, 4)
	metrics.RecordBatches("sales", 3)
	b.IncCounter("unknown_metric", 1, nil)

	if got := counterValue(t, b.steps.WithLabelValues("coerce_numeric", "success")); got != 2 {
		t.Fatalf("step counter = %v, want 2", got)
	}
	if n, _ := histogramCount(t, b.stepDuration, "coerce_numeric", "success"); n != 2 {
		t.Fatalf("histogram samples = %d, want 2", n)
	}
	if got := counterValue(t, b.rows.WithLabelValues(metrics.RowsRejected)); got != 4 {
		t.Fatalf("rows counter = %v, want 4", got)
	}
	if got := counterValue(t, b.batches); got != 3 {
		t.Fatalf("batch counter = %v, want 3", got)
	}
}

func TestBackend_FlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("sales", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 7, metrics.Labels{"kind": metrics.RowsCleaned})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Fatalf("method = %s, want PUT", method)
	}
	if path != "/metrics/job/sales" {
		t.Fatalf("path = %s, want /metrics/job/sales", path)
	}
	if !strings.Contains(body, metrics.RowsTotal) {
		t.Fatalf("pushed body does not mention %s", metrics.RowsTotal)
	}
}

func TestBackend_FlushReportsGatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend("sales", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if err := b.Flush(); err == nil {
		t.Fatal("expected error from failing gateway")
	}
}
