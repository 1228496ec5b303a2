package metrics

import (
	"FundMonitor/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetches     *prometheus.CounterVec
	cacheLookup *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastChange  *prometheus.GaugeVec
	cycles      *prometheus.HistogramVec
}

// New registers the recorder's collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmonitor_fetches_total",
				Help: "Upstream fetches by instrument kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		cacheLookup: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmonitor_cache_lookups_total",
				Help: "Snapshot cache lookups by kind and result",
			},
			[]string{"kind", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundmonitor_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastChange: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundmonitor_last_change_percent",
				Help: "Last change percent per instrument",
			},
			[]string{"kind", "identity"},
		),
		cycles: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundmonitor_refresh_cycle_seconds",
				Help:    "Duration of refresh cycles in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"mode"},
		),
	}
}

// RecordFetch counts one upstream fetch.
func (r *Recorder) RecordFetch(kind models.AssetKind, outcome string) {
	r.fetches.WithLabelValues(string(kind), outcome).Inc()
}

// RecordCache counts a cache hit or miss.
func (r *Recorder) RecordCache(kind models.AssetKind, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookup.WithLabelValues(string(kind), result).Inc()
}

// RecordChange records the last change for an instrument.
func (r *Recorder) RecordChange(kind models.AssetKind, identity string, pct float64) {
	r.lastChange.WithLabelValues(string(kind), identity).Set(pct)
}

// RecordCycle records a refresh cycle's duration in seconds.
func (r *Recorder) RecordCycle(mode string, seconds float64) {
	r.cycles.WithLabelValues(mode).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
