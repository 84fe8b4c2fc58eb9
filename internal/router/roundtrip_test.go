package router

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// A route without optional affixes resolves its own reversed URL back to
// its static parameters plus the arguments.
func TestReverseResolveRoundTrip(t *testing.T) {
	t.Parallel()

	segment := rapid.StringMatching(`[a-z]{1,8}`)
	value := rapid.StringMatching(`[A-Za-z0-9._~-]{1,12}`)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 4).Draw(t, "placeholders")

		var b strings.Builder
		args := make(Args, 0, n)
		want := map[string]string{"module": "Prop", "action": "show"}

		b.WriteString("/" + segment.Draw(t, "head"))
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("p%d", i)
			b.WriteString("/<" + name + ">")
			if rapid.Bool().Draw(t, fmt.Sprintf("literal%d", i)) {
				b.WriteString("/" + segment.Draw(t, fmt.Sprintf("segment%d", i)))
			}

			v := value.Draw(t, name)
			args = append(args, Value(name, v))
			want[name] = v
		}

		reg, err := NewRegistry([]Definition{{
			Name:    "prop",
			Pattern: b.String(),
			Static:  static("module", "Prop", "action", "show"),
		}})
		if err != nil {
			t.Fatalf("registry: %v", err)
		}
		table, err := NewTable(reg)
		if err != nil {
			t.Fatalf("table: %v", err)
		}

		url := NewReverser(table, nil).Reverse("prop", args)
		res, err := NewMatcher(table, nil).Resolve(url)
		if err != nil {
			t.Fatalf("resolve(%q) for pattern %q: %v", url, b.String(), err)
		}

		if len(res.Params) != len(want) {
			t.Fatalf("resolve(%q) = %v, want %v", url, res.Params, want)
		}
		for k, v := range want {
			if res.Params[k] != v {
				t.Fatalf("resolve(%q)[%q] = %q, want %q", url, k, res.Params[k], v)
			}
		}
	})
}
