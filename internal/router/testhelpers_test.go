package router

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/observability"
)

// newTestTable builds a table straight from definitions.
func newTestTable(t *testing.T, defs ...Definition) *Table {
	t.Helper()

	reg, err := NewRegistry(defs)
	require.NoError(t, err)
	table, err := NewTable(reg)
	require.NoError(t, err)
	return table
}

// newYAMLTable builds a table from a routes document.
func newYAMLTable(t *testing.T, doc string) *Table {
	t.Helper()

	set, err := config.ParseRoutes([]byte(doc))
	require.NoError(t, err)
	reg, err := Flatten(set)
	require.NoError(t, err)
	table, err := NewTable(reg)
	require.NoError(t, err)
	return table
}

func newObservedLogger() (observability.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return observability.NewLoggerFromZap(zap.New(core)), logs
}

func static(kv ...string) Params {
	params := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params = append(params, Param{Key: kv[i], Value: kv[i+1]})
	}
	return params
}
