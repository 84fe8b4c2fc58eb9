package routing

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Table cache lookup results.
const (
	lookupHit     = "hit"
	lookupMiss    = "miss"
	lookupStale   = "stale"
	lookupCorrupt = "corrupt"
	lookupError   = "error"
)

// Table load sources.
const (
	loadFromCache = "cache"
	loadFromBuild = "build"
)

// Metrics holds Prometheus metrics for table loading.
type Metrics struct {
	loadsTotal      *prometheus.CounterVec
	loadErrorsTotal prometheus.Counter
	cacheLookups    *prometheus.CounterVec
	reloadsTotal    *prometheus.CounterVec
	definitions     prometheus.Gauge
	lastLoad        prometheus.Gauge
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the singleton routing metrics.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = newMetrics()
	})
	return metricsInstance
}

// Collectors returns the routing collectors for registration.
func Collectors() []prometheus.Collector {
	m := GetMetrics()
	return []prometheus.Collector{
		m.loadsTotal,
		m.loadErrorsTotal,
		m.cacheLookups,
		m.reloadsTotal,
		m.definitions,
		m.lastLoad,
	}
}

func newMetrics() *Metrics {
	return &Metrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "table",
				Name:      "loads_total",
				Help:      "Total number of route tables published, by source",
			},
			[]string{"source"},
		),
		loadErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "table",
				Name:      "load_errors_total",
				Help:      "Total number of failed route table loads",
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "table",
				Name:      "cache_lookups_total",
				Help:      "Total number of table cache lookups, by result",
			},
			[]string{"result"},
		),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "table",
				Name:      "reloads_total",
				Help:      "Total number of reload attempts, by result",
			},
			[]string{"result"},
		),
		definitions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "table",
				Name:      "definitions",
				Help:      "Number of route definitions in the published table",
			},
		),
		lastLoad: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "table",
				Name:      "last_load_timestamp_seconds",
				Help:      "Unix time of the last published route table",
			},
		),
	}
}
