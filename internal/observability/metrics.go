package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// table build.
type Metrics struct {
	ZonesResolved    prometheus.Counter
	ResolveFallbacks prometheus.Counter
	BucketsCreated   prometheus.Gauge
	CodesAllocated   prometheus.Gauge
	GroupsBackfilled prometheus.Counter
	EmptyGroups      prometheus.Counter
	SnapshotsBuilt   prometheus.Counter
	BuildDuration    prometheus.Histogram

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all build metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ZonesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzgen",
			Name:      "zones_resolved_total",
			Help:      "Distinct (zone, year) profiles resolved this run.",
		}),
		ResolveFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzgen",
			Name:      "resolve_fallbacks_total",
			Help:      "Zone resolutions that degraded to the zero profile.",
		}),
		BucketsCreated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tzgen",
			Name:      "buckets_created",
			Help:      "Distinct offset/DST buckets in the built table.",
		}),
		CodesAllocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tzgen",
			Name:      "codes_allocated",
			Help:      "Location codes placed across all buckets.",
		}),
		GroupsBackfilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzgen",
			Name:      "groups_backfilled_total",
			Help:      "Standard-offset groups covered by the fallback hierarchy.",
		}),
		EmptyGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzgen",
			Name:      "groups_empty_total",
			Help:      "Standard-offset groups with no eligible locations at all.",
		}),
		SnapshotsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzgen",
			Name:      "snapshots_built_total",
			Help:      "Completed snapshot builds.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tzgen",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete resolve-bucket-allocate run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzgen",
			Name:      "snapshots_published_total",
			Help:      "Snapshots published to the distribution topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzgen",
			Name:      "publish_errors_total",
			Help:      "Failed snapshot publish attempts.",
		}),
	}

	prometheus.MustRegister(
		m.ZonesResolved,
		m.ResolveFallbacks,
		m.BucketsCreated,
		m.CodesAllocated,
		m.GroupsBackfilled,
		m.EmptyGroups,
		m.SnapshotsBuilt,
		m.BuildDuration,
		m.SnapshotsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ZonesResolved:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tzgen", Name: "zones_resolved_total"}),
		ResolveFallbacks:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tzgen", Name: "resolve_fallbacks_total"}),
		BucketsCreated:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tzgen", Name: "buckets_created"}),
		CodesAllocated:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tzgen", Name: "codes_allocated"}),
		GroupsBackfilled:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tzgen", Name: "groups_backfilled_total"}),
		EmptyGroups:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tzgen", Name: "groups_empty_total"}),
		SnapshotsBuilt:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tzgen", Name: "snapshots_built_total"}),
		BuildDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tzgen", Name: "build_duration_seconds"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tzgen", Name: "snapshots_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tzgen", Name: "publish_errors_total"}),
	}
}
