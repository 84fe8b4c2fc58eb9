package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func variantPatterns(vs []Variant) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Pattern)
	}
	return out
}

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  Definition
		want []string
	}{
		{
			name: "no affixes",
			def:  Definition{Name: "r", Pattern: "/event/<id>"},
			want: []string{"/event/<id>"},
		},
		{
			name: "suffix only",
			def:  Definition{Name: "r", Pattern: "/items", OptionalSuffix: "/page/<page>"},
			want: []string{"/items/page/<page>", "/items"},
		},
		{
			name: "prefix only",
			def:  Definition{Name: "r", Pattern: "/items", OptionalPrefix: "/<lang>"},
			want: []string{"/<lang>/items", "/items"},
		},
		{
			name: "both affixes",
			def:  Definition{Name: "r", Pattern: "/items", OptionalPrefix: "/<lang>", OptionalSuffix: "/page/<page>"},
			want: []string{"/<lang>/items/page/<page>", "/items/page/<page>", "/<lang>/items", "/items"},
		},
		{
			name: "trailing slash trimmed",
			def:  Definition{Name: "r", Pattern: "/items/"},
			want: []string{"/items"},
		},
		{
			name: "collapsed by trimming",
			def:  Definition{Name: "r", Pattern: "/items", OptionalSuffix: "/"},
			want: []string{"/items"},
		},
		{
			name: "both affixes partly collapsed",
			def:  Definition{Name: "r", Pattern: "/items", OptionalPrefix: "/<lang>", OptionalSuffix: "/"},
			want: []string{"/<lang>/items", "/items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, variantPatterns(Expand(tt.def)))
		})
	}
}

func TestExpand_CopiesDefinitionData(t *testing.T) {
	t.Parallel()

	def := Definition{
		Name:           "list",
		Pattern:        "/items",
		OptionalSuffix: "/page/<page>",
		Static:         static("module", "Items"),
		Order:          3,
	}

	variants := Expand(def)
	for _, v := range variants {
		assert.Equal(t, "list", v.Route)
		assert.Equal(t, 3, v.Order)
		assert.Equal(t, def.Static, v.Static)
		assert.Equal(t, Specificity(v.Pattern), v.Specificity)
	}

	variants[0].Static[0].Value = "changed"
	assert.Equal(t, "Items", def.Static[0].Value)
	assert.Equal(t, "Items", variants[1].Static[0].Value)
}
