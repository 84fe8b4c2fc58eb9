package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for cache operations.
type Metrics struct {
	hitsTotal         *prometheus.CounterVec
	missesTotal       *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	sizeGauge         *prometheus.GaugeVec
	operationDuration *prometheus.HistogramVec
	breakerState      *prometheus.GaugeVec
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the process-wide cache metrics.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = newMetrics()
	})
	return metricsInstance
}

// Collectors returns every cache collector for registration with the
// service registry.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.hitsTotal,
		m.missesTotal,
		m.errorsTotal,
		m.sizeGauge,
		m.operationDuration,
		m.breakerState,
	}
}

func (m *Metrics) observe(backend, op string, start time.Time) {
	m.operationDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

func newMetrics() *Metrics {
	return &Metrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of table cache hits",
			},
			[]string{"backend"},
		),
		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of table cache misses",
			},
			[]string{"backend"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "errors_total",
				Help:      "Total number of table cache errors",
			},
			[]string{"backend", "operation"},
		),
		sizeGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "size",
				Help:      "Current number of items in the table cache",
			},
			[]string{"backend"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "operation_duration_seconds",
				Help:      "Duration of table cache operations",
				Buckets: []float64{
					.0001, .0005, .001, .005,
					.01, .025, .05, .1,
				},
			},
			[]string{"backend", "operation"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "routing",
				Subsystem: "cache",
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
}
