package router

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// SnapshotVersion is bumped whenever the Snapshot layout changes so that
// tables cached by an older build are rebuilt.
const SnapshotVersion = 1

// Table build sources used as metric labels.
const (
	sourceBuild   = "build"
	sourceRestore = "restore"
)

// ErrInvalidSnapshot is returned by RestoreTable for unusable snapshots.
var ErrInvalidSnapshot = errors.New("invalid table snapshot")

// Table is the specificity-ordered set of variants of every route.
// A Table is immutable and safe for concurrent use.
type Table struct {
	defs     []Definition
	index    map[string]int
	variants []compiledVariant
}

type compiledVariant struct {
	Variant
	re    *regexp.Regexp
	names []string
}

// Snapshot is the serializable form of a Table.
type Snapshot struct {
	Version     int          `json:"version"`
	Definitions []Definition `json:"definitions"`
	Variants    []Variant    `json:"variants"`
}

// NewTable expands every definition of reg and orders the variants by
// specificity, highest first. Equal specificity keeps file order.
func NewTable(reg *Registry) (*Table, error) {
	if reg == nil {
		return nil, errors.New("registry is nil")
	}
	start := time.Now()

	defs := reg.Definitions()
	variants := make([]Variant, 0, len(defs))
	for i := range defs {
		variants = append(variants, Expand(defs[i])...)
	}
	sortVariants(variants)

	t, err := newTable(defs, reg.index, variants)
	if err != nil {
		return nil, err
	}
	t.record(sourceBuild, start)
	return t, nil
}

// RestoreTable rebuilds a Table from a snapshot without flattening or
// expanding again. Only the matchers are recompiled.
func RestoreTable(s *Snapshot) (*Table, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrInvalidSnapshot, s.Version, SnapshotVersion)
	}
	start := time.Now()

	reg, err := NewRegistry(s.Definitions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	variants := make([]Variant, len(s.Variants))
	for i, v := range s.Variants {
		def, ok := reg.Lookup(v.Route)
		if !ok {
			return nil, fmt.Errorf("%w: variant %q references unknown route %q", ErrInvalidSnapshot, v.Pattern, v.Route)
		}
		v.Static = v.Static.clone()
		v.Order = def.Order
		v.Specificity = Specificity(v.Pattern)
		variants[i] = v
	}
	sortVariants(variants)

	t, err := newTable(reg.Definitions(), reg.index, variants)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	t.record(sourceRestore, start)
	return t, nil
}

func newTable(defs []Definition, index map[string]int, variants []Variant) (*Table, error) {
	t := &Table{
		defs:     defs,
		index:    make(map[string]int, len(index)),
		variants: make([]compiledVariant, 0, len(variants)),
	}
	for name, i := range index {
		t.index[name] = i
	}

	for _, v := range variants {
		expr, names := patternExpr(v.Pattern)
		re, err := compileCached(expr)
		if err != nil {
			return nil, fmt.Errorf("route %s: compile %q: %w", v.Route, v.Pattern, err)
		}
		t.variants = append(t.variants, compiledVariant{Variant: v, re: re, names: names})
	}
	return t, nil
}

func sortVariants(variants []Variant) {
	sort.SliceStable(variants, func(i, j int) bool {
		return variants[i].Specificity > variants[j].Specificity
	})
}

func (t *Table) record(source string, start time.Time) {
	m := GetMetrics()
	m.tableBuildsTotal.WithLabelValues(source).Inc()
	m.tableBuildDuration.Observe(time.Since(start).Seconds())
	m.tableVariants.Set(float64(len(t.variants)))
}

// patternExpr turns a variant pattern into an anchored expression over
// the slash-trimmed path. A placeholder captures up to the next literal
// character, lazily when another placeholder follows directly, and the
// rest of the input when it ends the pattern.
func patternExpr(pattern string) (expr string, names []string) {
	trimmed := strings.Trim(pattern, "/")
	locs := placeholderPattern.FindAllStringSubmatchIndex(trimmed, -1)

	var b strings.Builder
	b.WriteString("^")
	names = make([]string, 0, len(locs))

	pos := 0
	for i, loc := range locs {
		b.WriteString(regexp.QuoteMeta(trimmed[pos:loc[0]]))
		names = append(names, trimmed[loc[2]:loc[3]])

		end := loc[1]
		switch {
		case end == len(trimmed):
			b.WriteString("(.+)")
		case i+1 < len(locs) && locs[i+1][0] == end:
			b.WriteString("(.+?)")
		default:
			next, _ := utf8.DecodeRuneInString(trimmed[end:])
			b.WriteString("([^")
			b.WriteString(classLiteral(next))
			b.WriteString("]+)")
		}
		pos = end
	}
	b.WriteString(regexp.QuoteMeta(trimmed[pos:]))
	b.WriteString("$")

	return b.String(), names
}

// classLiteral escapes r for use inside a character class.
func classLiteral(r rune) string {
	if strings.ContainsRune(`\-]^[`, r) {
		return `\` + string(r)
	}
	return string(r)
}

// Len returns the number of variants.
func (t *Table) Len() int {
	return len(t.variants)
}

// Variants returns the variants in match order.
func (t *Table) Variants() []Variant {
	out := make([]Variant, len(t.variants))
	for i := range t.variants {
		out[i] = t.variants[i].Variant
		out[i].Static = t.variants[i].Static.clone()
	}
	return out
}

// Definitions returns the route definitions in file order.
func (t *Table) Definitions() []Definition {
	return cloneDefinitions(t.defs)
}

// Lookup returns the definition named name.
func (t *Table) Lookup(name string) (Definition, bool) {
	i, ok := t.index[name]
	if !ok {
		return Definition{}, false
	}
	def := t.defs[i]
	def.Static = def.Static.clone()
	return def, true
}

// Testable returns the definitions not marked skiptest, in file order.
func (t *Table) Testable() []Definition {
	out := make([]Definition, 0, len(t.defs))
	for i := range t.defs {
		if !t.defs[i].SkipTest {
			def := t.defs[i]
			def.Static = def.Static.clone()
			out = append(out, def)
		}
	}
	return out
}

// Snapshot returns the serializable form of the table.
func (t *Table) Snapshot() *Snapshot {
	return &Snapshot{
		Version:     SnapshotVersion,
		Definitions: t.Definitions(),
		Variants:    t.Variants(),
	}
}
