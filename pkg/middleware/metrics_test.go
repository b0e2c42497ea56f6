package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/prometheus/client_golang/prometheus"
)

func counterTotal(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for k, v := range labels {
				found := false
				for _, l := range m.GetLabel() {
					if l.GetName() == k && l.GetValue() == v {
						found = true
						break
					}
				}
				if !found {
					continue metric
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

// TestMetricsCountsRequests tests that the counter and histogram record
// handled requests with the right labels
func TestMetricsCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := Metrics(reg, "slim")(okTerminal("ok"))

	for i := 0; i < 3; i++ {
		if _, err := h.Handle(httptest.NewRequest("GET", "/x", nil)); err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
	}

	got := counterTotal(t, reg, "slim_http_requests_total", map[string]string{"method": "GET", "status": "200"})
	if got != 3 {
		t.Errorf("Expected 3 counted requests, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	sawHistogram := false
	for _, mf := range families {
		if mf.GetName() == "slim_http_request_duration_seconds" {
			sawHistogram = true
		}
	}
	if !sawHistogram {
		t.Error("Expected the latency histogram to be registered")
	}
}

// TestMetricsCountsErrorsAs500 tests that failed requests count with status
// label 500
func TestMetricsCountsErrorsAs500(t *testing.T) {
	reg := prometheus.NewRegistry()
	failing := common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
		return nil, errors.New("boom")
	})
	h := Metrics(reg, "slim")(failing)

	if _, err := h.Handle(httptest.NewRequest("GET", "/x", nil)); err == nil {
		t.Fatal("Expected the error to propagate")
	}

	got := counterTotal(t, reg, "slim_http_requests_total", map[string]string{"status": "500"})
	if got != 1 {
		t.Errorf("Expected 1 request counted as 500, got %v", got)
	}
}
