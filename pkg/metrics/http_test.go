package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("get metric: %v", err)
	}
	if err := counter.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveCountsRequests(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("POST", "/api/v1/cart/{productID}", 200, 30*time.Millisecond)
	m.Observe("POST", "/api/v1/cart/{productID}", 200, 10*time.Millisecond)
	m.Observe("POST", "/api/v1/cart/{productID}", 502, time.Millisecond)

	if got := counterValue(t, m.requests, "POST", "/api/v1/cart/{productID}", "2xx"); got != 2 {
		t.Fatalf("expected 2 successful requests, got %v", got)
	}
	if got := counterValue(t, m.errors, "POST", "/api/v1/cart/{productID}"); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
}

func TestObserveOnNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe("GET", "/", 200, time.Millisecond)
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	cases := map[int]string{200: "2xx", 301: "3xx", 404: "4xx", 500: "5xx"}
	for status, want := range cases {
		if got := statusLabel(status); got != want {
			t.Fatalf("status %d: expected %s, got %s", status, want, got)
		}
	}
}
