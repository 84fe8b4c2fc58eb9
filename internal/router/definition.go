package router

import "github.com/fem/sPof-sub000/internal/config"

// Param is one static parameter of a route.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Params is an ordered list of static parameters.
type Params []Param

// Get returns the value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// set replaces the value of key in place or appends it.
func (p Params) set(key, value string) Params {
	for i := range p {
		if p[i].Key == key {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Key: key, Value: value})
}

func (p Params) clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// Definition is one flattened route.
type Definition struct {
	Name           string `json:"name"`
	Pattern        string `json:"pattern"`
	Static         Params `json:"static,omitempty"`
	OptionalPrefix string `json:"optionalPrefix,omitempty"`
	OptionalSuffix string `json:"optionalSuffix,omitempty"`
	SkipTest       bool   `json:"skipTest,omitempty"`
	// Order is the position of the definition in the routes file.
	Order int `json:"order"`
}

// staticParams builds module, show, action and the extra static
// parameters in that order. Extras that reuse a key overwrite it.
func staticParams(module, show, action string, extra config.StaticParams) Params {
	params := make(Params, 0, 3+len(extra))
	params = params.set("module", module)
	if show != "" {
		params = params.set("show", show)
	}
	if action != "" {
		params = params.set("action", action)
	}
	for _, sp := range extra {
		params = params.set(sp.Key, sp.Value)
	}
	return params
}
