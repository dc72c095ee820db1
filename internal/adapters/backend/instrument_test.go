package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"timetable/internal/adapters/http/perf"
)

// TestTimedTransport_Records verifies calls land in the collector and in Prometheus.
func TestTimedTransport_Records(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/college/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	collector := perf.NewCollector(10)
	reg := prometheus.NewRegistry()
	c := New(srv.URL, 0, NewTimedTransport(nil, collector, NewMetrics(reg), 0))

	c.Call(context.Background(), http.MethodGet, "/college/", "tok", nil)
	c.Call(context.Background(), http.MethodDelete, "/college/9", "tok", nil)

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.TotalUpstream != 2 {
		t.Errorf("TotalUpstream = %d, want 2", snap.TotalUpstream)
	}
	if snap.UpstreamFailures != 1 {
		t.Errorf("UpstreamFailures = %d, want 1", snap.UpstreamFailures)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "timetable_backend_calls_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			var method, status string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "method":
					method = l.GetValue()
				case "status":
					status = l.GetValue()
				}
			}
			counts[method+" "+status] = m.GetCounter().GetValue()
		}
	}
	if counts["GET 2xx"] != 1 || counts["DELETE 5xx"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

// TestStatusClass verifies status bucketing.
func TestStatusClass(t *testing.T) {
	for status, want := range map[int]string{0: "error", 200: "2xx", 401: "4xx", 503: "5xx"} {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}
