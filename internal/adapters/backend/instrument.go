package backend

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"timetable/internal/adapters/http/perf"
)

// DefaultSlowCallMs is the default threshold for slow backend call warnings.
const DefaultSlowCallMs = 250

// Metrics holds the Prometheus collectors for backend calls.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the backend collectors and registers them with reg.
// PRE: reg is non-nil and has no backend collectors yet
// POST: Returns metrics ready for use by TimedTransport
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "Backend calls by method and status class.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "timetable",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Backend call latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

// TimedTransport wraps an http.RoundTripper to log slow backend calls,
// record them in the perf collector and update Prometheus metrics.
type TimedTransport struct {
	next      http.RoundTripper
	collector *perf.Collector
	metrics   *Metrics
	threshold float64
}

// Compile-time check that *TimedTransport satisfies http.RoundTripper.
var _ http.RoundTripper = (*TimedTransport)(nil)

// NewTimedTransport wraps next with timing instrumentation.
// collector and metrics may be nil. A non-positive slowMs uses DefaultSlowCallMs.
// PRE: none
// POST: Returns a transport that records every round trip
func NewTimedTransport(next http.RoundTripper, collector *perf.Collector, metrics *Metrics, slowMs int) *TimedTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if slowMs <= 0 {
		slowMs = DefaultSlowCallMs
	}
	return &TimedTransport{
		next:      next,
		collector: collector,
		metrics:   metrics,
		threshold: float64(slowMs),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *TimedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	t.record(req.Method, req.URL.Path, status, start, elapsed)
	return resp, err
}

func (t *TimedTransport) record(method, path string, status int, start time.Time, elapsed time.Duration) {
	durationMs := float64(elapsed.Microseconds()) / 1000.0
	op := method + " " + path

	if durationMs >= t.threshold {
		slog.Warn("slow_backend_call",
			"op", op,
			"status", status,
			"duration_ms", durationMs,
		)
	} else {
		slog.Debug("backend_call",
			"op", op,
			"status", status,
			"duration_ms", durationMs,
		)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindUpstream,
			Path:       op,
			StatusCode: status,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
	if t.metrics != nil {
		t.metrics.calls.WithLabelValues(method, statusClass(status)).Inc()
		t.metrics.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

// statusClass buckets a status code as "2xx".."5xx", or "error" when no response arrived.
func statusClass(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
