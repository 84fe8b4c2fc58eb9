package router

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains Prometheus metrics for route resolution and table builds.
type Metrics struct {
	resolveTotal         *prometheus.CounterVec
	reverseTotal         *prometheus.CounterVec
	tableVariants        prometheus.Gauge
	tableBuildsTotal     *prometheus.CounterVec
	tableBuildDuration   prometheus.Histogram
	regexpCacheHits      prometheus.Counter
	regexpCacheMisses    prometheus.Counter
	regexpCacheEvictions prometheus.Counter
	regexpCacheSize      prometheus.Gauge
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the singleton router metrics instance.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = newMetrics()
	})
	return metricsInstance
}

// Collectors returns the router collectors for registration with the
// service registry.
func Collectors() []prometheus.Collector {
	m := GetMetrics()
	return []prometheus.Collector{
		m.resolveTotal,
		m.reverseTotal,
		m.tableVariants,
		m.tableBuildsTotal,
		m.tableBuildDuration,
		m.regexpCacheHits,
		m.regexpCacheMisses,
		m.regexpCacheEvictions,
		m.regexpCacheSize,
	}
}

func newMetrics() *Metrics {
	const (
		namespace = "routing"
		subsystem = "router"
	)

	return &Metrics{
		resolveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolve_total",
				Help:      "Total number of path resolutions by result",
			},
			[]string{"result"},
		),
		reverseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reverse_total",
				Help:      "Total number of URL generations by result",
			},
			[]string{"result"},
		),
		tableVariants: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "table_variants",
				Help:      "Number of pattern variants in the last built route table",
			},
		),
		tableBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "table_builds_total",
				Help:      "Total number of route tables built, by source",
			},
			[]string{"source"},
		),
		tableBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "table_build_duration_seconds",
				Help:      "Time spent building or restoring a route table",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		regexpCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "regexp_cache_hits_total",
				Help:      "Total number of compiled pattern cache hits",
			},
		),
		regexpCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "regexp_cache_misses_total",
				Help:      "Total number of compiled pattern cache misses",
			},
		),
		regexpCacheEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "regexp_cache_evictions_total",
				Help:      "Total number of compiled pattern cache evictions",
			},
		),
		regexpCacheSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "regexp_cache_size",
				Help:      "Current number of entries in the compiled pattern cache",
			},
		),
	}
}
