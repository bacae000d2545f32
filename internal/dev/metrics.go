package dev

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNamespace prefixes every routegen metric.
const MetricsNamespace = "routegen"

// Metrics holds the coordinator's Prometheus collectors.
//
// Metrics collected:
//   - routegen_rebuilds_total: Counter of rebuilds by status (success, error)
//   - routegen_rebuild_duration_seconds: Histogram of rebuild duration
//   - routegen_routes: Gauge of route nodes in the last successful rebuild
//   - routegen_fs_events_total: Counter of watch events by op
//   - routegen_watch_errors_total: Counter of watcher errors
type Metrics struct {
	rebuilds        *prometheus.CounterVec
	rebuildDuration prometheus.Histogram
	routes          prometheus.Gauge
	fsEvents        *prometheus.CounterVec
	watchErrors     prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		rebuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "rebuilds_total",
			Help:      "Total number of route module rebuilds",
		}, []string{"status"}),

		rebuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Route module rebuild duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "routes",
			Help:      "Number of route nodes in the last generated module",
		}),

		fsEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "fs_events_total",
			Help:      "Total number of file system events under the route root",
		}, []string{"op"}),

		watchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "watch_errors_total",
			Help:      "Total number of file watcher errors",
		}),
	}
}

func (m *Metrics) recordRebuild(status string, seconds float64) {
	m.rebuilds.WithLabelValues(status).Inc()
	m.rebuildDuration.Observe(seconds)
}
