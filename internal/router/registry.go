package router

import (
	"fmt"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/util"
)

// Registry is the flat, ordered collection of route definitions.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// Flatten turns a decoded routes file into definitions.
//
// A group carrying show or action becomes a route named after the
// group. Every subroute becomes "<group>_<sub>" with the group pattern
// prepended and the group module injected; show and action fall back to
// the group values. Affixes, static params and skiptest are never
// inherited from the group.
func Flatten(set *config.RouteSet) (*Registry, error) {
	if set == nil {
		return nil, util.NewConfigError("routes", "route set is nil")
	}

	defs := make([]Definition, 0, set.Len())
	for i := range set.Groups {
		g := &set.Groups[i]
		if g.IsRoute() {
			defs = append(defs, Definition{
				Name:           g.Name,
				Pattern:        g.Pattern,
				Static:         staticParams(g.Module, g.Show, g.Action, g.Static),
				OptionalPrefix: g.OptionalPrefix,
				OptionalSuffix: g.OptionalSuffix,
				SkipTest:       g.SkipTest,
			})
		}

		for j := range g.Subroutes {
			sub := &g.Subroutes[j]
			show, action := sub.Show, sub.Action
			if show == "" {
				show = g.Show
			}
			if action == "" {
				action = g.Action
			}
			defs = append(defs, Definition{
				Name:           g.Name + "_" + sub.Name,
				Pattern:        g.Pattern + sub.Pattern,
				Static:         staticParams(g.Module, show, action, sub.Static),
				OptionalPrefix: sub.OptionalPrefix,
				OptionalSuffix: sub.OptionalSuffix,
				SkipTest:       sub.SkipTest,
			})
		}
	}

	return NewRegistry(defs)
}

// NewRegistry validates defs and indexes them by name. Order is
// reassigned from the slice position.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}

	for i := range defs {
		def := defs[i]
		def.Order = i
		def.Static = def.Static.clone()

		if def.Name == "" {
			return nil, util.NewConfigError(fmt.Sprintf("routes[%d]", i), "route name is required")
		}
		if _, dup := r.index[def.Name]; dup {
			return nil, util.NewConfigError(def.Name, "duplicate route name")
		}
		if err := validateDefinition(&def); err != nil {
			return nil, util.NewConfigErrorWithCause(def.Name, "invalid pattern", err)
		}

		r.index[def.Name] = len(r.defs)
		r.defs = append(r.defs, def)
	}

	return r, nil
}

func validateDefinition(def *Definition) error {
	for _, part := range []string{def.OptionalPrefix, def.Pattern, def.OptionalSuffix} {
		if err := checkWellFormed(part); err != nil {
			return err
		}
	}
	return checkUnique(def.OptionalPrefix + def.Pattern + def.OptionalSuffix)
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Definitions returns a copy of the definitions in file order.
func (r *Registry) Definitions() []Definition {
	return cloneDefinitions(r.defs)
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

func cloneDefinitions(defs []Definition) []Definition {
	out := make([]Definition, len(defs))
	for i := range defs {
		out[i] = defs[i]
		out[i].Static = defs[i].Static.clone()
	}
	return out
}
