package gateway

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gateway's collectors on a private registry, so several
// gateway instances (tests included) never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strand",
			Subsystem: "gateway",
			Name:      "chat_requests_total",
			Help:      "Chat requests handled, by response status.",
		}, []string{"status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "strand",
			Subsystem: "gateway",
			Name:      "chat_request_duration_seconds",
			Help:      "End-to-end chat request latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	m.registry.MustRegister(m.requests, m.latency)
	return m
}

// observe records one finished chat request.
func (m *Metrics) observe(status int, d time.Duration) {
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	m.latency.Observe(d.Seconds())
}
