package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics holds the Prometheus collectors for inbound requests.
type RequestMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRequestMetrics creates the request collectors and registers them with reg.
// PRE: reg is non-nil
// POST: Returns metrics ready to pass to Timing
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	m := &RequestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Inbound requests by method and status class.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "timetable",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Inbound request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *RequestMetrics) observe(method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, strconv.Itoa(status/100)+"xx").Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
