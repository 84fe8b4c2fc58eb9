package router

import "strings"

// Variant is one concrete pattern of a route: the base pattern with a
// combination of its optional prefix and suffix.
type Variant struct {
	Pattern     string `json:"pattern"`
	Route       string `json:"route"`
	Static      Params `json:"static,omitempty"`
	Specificity int    `json:"specificity"`
	// Order is the owning definition's Order, used to break ties.
	Order int `json:"order"`
}

// Expand returns the variants of def. With both affixes there are four
// (prefix+pattern+suffix, pattern+suffix, prefix+pattern, pattern), with
// one affix two, otherwise one. Variants that are identical after the
// trailing slash is trimmed are emitted once.
func Expand(def Definition) []Variant {
	var forms []string
	prefix, suffix := def.OptionalPrefix, def.OptionalSuffix

	switch {
	case prefix != "" && suffix != "":
		forms = []string{
			prefix + def.Pattern + suffix,
			def.Pattern + suffix,
			prefix + def.Pattern,
			def.Pattern,
		}
	case prefix != "":
		forms = []string{prefix + def.Pattern, def.Pattern}
	case suffix != "":
		forms = []string{def.Pattern + suffix, def.Pattern}
	default:
		forms = []string{def.Pattern}
	}

	variants := make([]Variant, 0, len(forms))
	seen := make(map[string]struct{}, len(forms))
	for _, form := range forms {
		pattern := trimTrailingSlash(form)
		if _, dup := seen[pattern]; dup {
			continue
		}
		seen[pattern] = struct{}{}

		variants = append(variants, Variant{
			Pattern:     pattern,
			Route:       def.Name,
			Static:      def.Static.clone(),
			Specificity: Specificity(pattern),
			Order:       def.Order,
		})
	}
	return variants
}

func trimTrailingSlash(s string) string {
	return strings.TrimRight(s, "/")
}
