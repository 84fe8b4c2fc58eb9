package router

import (
	"regexp"
	"strings"

	"github.com/fem/sPof-sub000/internal/observability"
	"github.com/fem/sPof-sub000/internal/util"
)

// Resolve results used as metric labels.
const (
	resultMatched  = "matched"
	resultNotFound = "not_found"
)

var (
	// shorthandPattern finds inline name:value tokens anywhere in a path.
	shorthandPattern = regexp.MustCompile(`[A-Za-z]+:[A-Za-z0-9]+`)
	queryPairPattern = regexp.MustCompile(`([A-Za-z0-9_-]+)=([A-Za-z0-9]*)`)
)

// MatchResult is the binding produced by a successful resolve.
type MatchResult struct {
	Route   string            `json:"route"`
	Pattern string            `json:"pattern"`
	Params  map[string]string `json:"params"`
}

// Matcher resolves request paths against a Table.
type Matcher struct {
	table  *Table
	logger observability.Logger
}

// NewMatcher creates a matcher over table.
func NewMatcher(table *Table, logger observability.Logger) *Matcher {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Matcher{table: table, logger: logger}
}

// Resolve binds path to the first variant that matches it.
//
// Inline name:value tokens and the query string are removed from the
// path before matching and added to the result. Static parameters are
// overridden by captures, and both by the auxiliary parameters.
func (m *Matcher) Resolve(path string) (*MatchResult, error) {
	original := path
	aux := make(map[string]string)

	path = extractShorthand(path, aux)
	path = extractQuery(path, aux)
	path = strings.Trim(path, "/")

	for i := range m.table.variants {
		v := &m.table.variants[i]
		captures := v.re.FindStringSubmatch(path)
		if captures == nil {
			continue
		}

		params := make(map[string]string, len(v.Static)+len(v.names)+len(aux))
		for _, p := range v.Static {
			params[p.Key] = p.Value
		}
		for j, name := range v.names {
			params[name] = captures[j+1]
		}
		for k, val := range aux {
			params[k] = val
		}

		GetMetrics().resolveTotal.WithLabelValues(resultMatched).Inc()
		m.logger.Debug("path resolved",
			observability.String("path", original),
			observability.String("route", v.Route),
			observability.String("pattern", v.Pattern))

		return &MatchResult{Route: v.Route, Pattern: v.Pattern, Params: params}, nil
	}

	GetMetrics().resolveTotal.WithLabelValues(resultNotFound).Inc()
	m.logger.Error("no route matches path", observability.String("path", original))
	return nil, util.NewRouteNotFoundError(original)
}

func extractShorthand(path string, aux map[string]string) string {
	for _, token := range shorthandPattern.FindAllString(path, -1) {
		name, value, _ := strings.Cut(token, ":")
		aux[name] = value
	}
	return shorthandPattern.ReplaceAllLiteralString(path, "")
}

func extractQuery(path string, aux map[string]string) string {
	path, query, found := strings.Cut(path, "?")
	if !found {
		return path
	}
	for _, pair := range queryPairPattern.FindAllStringSubmatch(query, -1) {
		aux[pair[1]] = pair[2]
	}
	return path
}
