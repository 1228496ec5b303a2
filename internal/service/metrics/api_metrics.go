package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// APIMetrics tracks the monitor endpoints.
type APIMetrics struct {
	Latency     *prometheus.HistogramVec
	Errors      *prometheus.CounterVec
	RateLimited *prometheus.CounterVec
	StreamConns prometheus.Gauge
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	f := promauto.With(reg)
	return &APIMetrics{
		Latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fundmonitor",
				Subsystem: "api",
				Name:      "latency_seconds",
				Help:      "Latency of monitor endpoints",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		Errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fundmonitor",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Errors by monitor endpoint",
			},
			[]string{"endpoint"},
		),
		RateLimited: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fundmonitor",
				Subsystem: "api",
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the per-client limiter",
			},
			[]string{"endpoint"},
		),
		StreamConns: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "fundmonitor",
				Subsystem: "stream",
				Name:      "connections",
				Help:      "Open dashboard websocket connections",
			},
		),
	}
}

// Observe records one call to endpoint.
func (m *APIMetrics) Observe(endpoint string, start time.Time, err error) {
	m.Latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		m.Errors.WithLabelValues(endpoint).Inc()
	}
}
