package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fem/sPof-sub000/internal/util"
)

// RouteSet is the decoded routes file: named groups in document order.
type RouteSet struct {
	Groups []RouteGroup
}

// RouteGroup is a top-level entry of the routes file. A group with
// Show or Action set is itself a route; its Subroutes always are.
type RouteGroup struct {
	Name           string       `yaml:"-"`
	Pattern        string       `yaml:"pattern"`
	Module         string       `yaml:"module"`
	Show           string       `yaml:"show,omitempty"`
	Action         string       `yaml:"action,omitempty"`
	OptionalPrefix string       `yaml:"optional_prefix,omitempty"`
	OptionalSuffix string       `yaml:"optional_suffix,omitempty"`
	SkipTest       bool         `yaml:"skiptest,omitempty"`
	Static         StaticParams `yaml:"static,omitempty"`
	Subroutes      SubRoutes    `yaml:"subroutes,omitempty"`
}

// SubRoute is a route nested under a group. Its pattern is appended to
// the group pattern; affixes, static params and skiptest belong to the
// subroute alone.
type SubRoute struct {
	Name           string       `yaml:"-"`
	Pattern        string       `yaml:"pattern"`
	Show           string       `yaml:"show,omitempty"`
	Action         string       `yaml:"action,omitempty"`
	OptionalPrefix string       `yaml:"optional_prefix,omitempty"`
	OptionalSuffix string       `yaml:"optional_suffix,omitempty"`
	SkipTest       bool         `yaml:"skiptest,omitempty"`
	Static         StaticParams `yaml:"static,omitempty"`
}

// StaticParam is one key/value pair injected into every match.
type StaticParam struct {
	Key   string
	Value string
}

// StaticParams keeps static parameters in file order.
type StaticParams []StaticParam

// SubRoutes keeps subroutes in file order.
type SubRoutes []SubRoute

// UnmarshalYAML decodes the top-level mapping preserving group order.
func (s *RouteSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: routes must be a mapping of group names", node.Line)
	}

	groups := make([]RouteGroup, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: group %q must be a mapping", value.Line, key.Value)
		}

		var group RouteGroup
		if err := value.Decode(&group); err != nil {
			return fmt.Errorf("group %q: %w", key.Value, err)
		}
		group.Name = key.Value
		groups = append(groups, group)
	}

	s.Groups = groups
	return nil
}

// UnmarshalYAML decodes a mapping of subroute names preserving order.
func (s *SubRoutes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: subroutes must be a mapping", node.Line)
	}

	subs := make(SubRoutes, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: subroute %q must be a mapping", value.Line, key.Value)
		}

		var sub SubRoute
		if err := value.Decode(&sub); err != nil {
			return fmt.Errorf("subroute %q: %w", key.Value, err)
		}
		sub.Name = key.Value
		subs = append(subs, sub)
	}

	*s = subs
	return nil
}

// UnmarshalYAML decodes a mapping of scalar values preserving order.
func (p *StaticParams) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: static must be a mapping", node.Line)
	}

	params := make(StaticParams, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: static %q must be a scalar", value.Line, key.Value)
		}
		params = append(params, StaticParam{Key: key.Value, Value: value.Value})
	}

	*p = params
	return nil
}

// MarshalYAML encodes the static params back into an ordered mapping.
func (p StaticParams) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, sp := range p {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sp.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sp.Value},
		)
	}
	return node, nil
}

// Len returns the number of routes the set will flatten into.
func (s *RouteSet) Len() int {
	n := 0
	for i := range s.Groups {
		if s.Groups[i].IsRoute() {
			n++
		}
		n += len(s.Groups[i].Subroutes)
	}
	return n
}

// IsRoute reports whether the group is a route of its own.
func (g *RouteGroup) IsRoute() bool {
	return g.Show != "" || g.Action != ""
}

// ValidateRoutes checks the structural requirements of a route set.
// Placeholder syntax is checked by the router when flattening.
func ValidateRoutes(set *RouteSet) error {
	if set == nil || len(set.Groups) == 0 {
		return util.NewConfigError("routes", "no route groups defined")
	}

	verr := util.NewValidationError("invalid routes")
	for i := range set.Groups {
		g := &set.Groups[i]
		if g.Name == "" {
			verr.AddField(fmt.Sprintf("groups[%d]", i), "group name is required")
		}
		if g.Pattern == "" {
			verr.AddField(g.Name+".pattern", "pattern is required")
		}
		if g.Module == "" {
			verr.AddField(g.Name+".module", "module is required")
		}
		if !g.IsRoute() && len(g.Subroutes) == 0 {
			verr.AddField(g.Name, "group defines neither show/action nor subroutes")
		}
		for j := range g.Subroutes {
			sub := &g.Subroutes[j]
			if sub.Pattern == "" {
				verr.AddField(g.Name+".subroutes."+sub.Name+".pattern", "pattern is required")
			}
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
