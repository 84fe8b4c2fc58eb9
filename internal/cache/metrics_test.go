package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMetrics_Singleton(t *testing.T) {
	t.Parallel()

	assert.Same(t, GetMetrics(), GetMetrics())
}

func TestMetrics_Collectors(t *testing.T) {
	t.Parallel()

	collectors := GetMetrics().Collectors()
	assert.Len(t, collectors, 6)

	reg := prometheus.NewRegistry()
	for _, c := range collectors {
		require.NoError(t, reg.Register(c))
	}
}

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := GetMetrics()
	hits := m.hitsTotal.WithLabelValues("metrics-test")

	before := testutil.ToFloat64(hits)
	hits.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(hits))

	m.observe("metrics-test", "get", time.Now())
	assert.Positive(t, testutil.CollectAndCount(m.operationDuration))
}
