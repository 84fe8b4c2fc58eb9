package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fem/sPof-sub000/internal/config"
	"github.com/fem/sPof-sub000/internal/util"
)

const eventRoutes = `
event:
  pattern: /event
  module: Event
  show: list
  optional_suffix: /page/<page>
  subroutes:
    show:
      pattern: /<id>
      action: show
    edit:
      pattern: /<id>/edit
      action: edit
      optional_prefix: /admin
      skiptest: true
      static:
        tab: details
user:
  pattern: /user
  module: User
  subroutes:
    settings:
      pattern: /settings
      show: settings
`

func TestFlatten(t *testing.T) {
	t.Parallel()

	set, err := config.ParseRoutes([]byte(eventRoutes))
	require.NoError(t, err)

	reg, err := Flatten(set)
	require.NoError(t, err)

	defs := reg.Definitions()
	require.Len(t, defs, 4)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"event", "event_show", "event_edit", "user_settings"}, names)

	t.Run("group route", func(t *testing.T) {
		def, ok := reg.Lookup("event")
		require.True(t, ok)
		assert.Equal(t, "/event", def.Pattern)
		assert.Equal(t, "/page/<page>", def.OptionalSuffix)
		assert.Equal(t, static("module", "Event", "show", "list"), def.Static)
		assert.Equal(t, 0, def.Order)
	})

	t.Run("subroute concatenates and inherits show", func(t *testing.T) {
		def, ok := reg.Lookup("event_show")
		require.True(t, ok)
		assert.Equal(t, "/event/<id>", def.Pattern)
		assert.Equal(t, static("module", "Event", "show", "list", "action", "show"), def.Static)
		assert.Empty(t, def.OptionalSuffix, "affixes are not inherited")
		assert.False(t, def.SkipTest)
	})

	t.Run("subroute owns its affixes and static", func(t *testing.T) {
		def, ok := reg.Lookup("event_edit")
		require.True(t, ok)
		assert.Equal(t, "/event/<id>/edit", def.Pattern)
		assert.Equal(t, "/admin", def.OptionalPrefix)
		assert.Empty(t, def.OptionalSuffix)
		assert.True(t, def.SkipTest)
		assert.Equal(t, static("module", "Event", "show", "list", "action", "edit", "tab", "details"), def.Static)
	})

	t.Run("group without show or action only contributes subroutes", func(t *testing.T) {
		_, ok := reg.Lookup("user")
		assert.False(t, ok)

		def, ok := reg.Lookup("user_settings")
		require.True(t, ok)
		assert.Equal(t, "/user/settings", def.Pattern)
		assert.Equal(t, static("module", "User", "show", "settings"), def.Static)
		assert.Equal(t, 3, def.Order)
	})
}

func TestFlatten_StaticOverridesKeepPosition(t *testing.T) {
	t.Parallel()

	set := &config.RouteSet{Groups: []config.RouteGroup{{
		Name:    "home",
		Pattern: "/",
		Module:  "Home",
		Action:  "index",
		Static:  config.StaticParams{{Key: "module", Value: "Start"}, {Key: "lang", Value: "de"}},
	}}}

	reg, err := Flatten(set)
	require.NoError(t, err)

	def, ok := reg.Lookup("home")
	require.True(t, ok)
	assert.Equal(t, static("module", "Start", "action", "index", "lang", "de"), def.Static)
}

func TestFlatten_DuplicateName(t *testing.T) {
	t.Parallel()

	set := &config.RouteSet{Groups: []config.RouteGroup{
		{
			Name: "a", Pattern: "/a", Module: "A",
			Subroutes: config.SubRoutes{{Name: "b_c", Pattern: "/bc"}},
		},
		{
			Name: "a_b", Pattern: "/ab", Module: "AB",
			Subroutes: config.SubRoutes{{Name: "c", Pattern: "/c"}},
		},
	}}

	_, err := Flatten(set)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrConfigInvalid)
	assert.Contains(t, err.Error(), "a_b_c")
	assert.Contains(t, err.Error(), "duplicate")
}

func TestFlatten_InvalidPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		group config.RouteGroup
	}{
		{
			name:  "unclosed placeholder",
			group: config.RouteGroup{Name: "g", Pattern: "/g/<id", Module: "G", Show: "x"},
		},
		{
			name:  "repeated placeholder across affix",
			group: config.RouteGroup{Name: "g", Pattern: "/g/<id>", Module: "G", Show: "x", OptionalSuffix: "/<id>"},
		},
		{
			name: "malformed subroute suffix",
			group: config.RouteGroup{
				Name: "g", Pattern: "/g", Module: "G",
				Subroutes: config.SubRoutes{{Name: "s", Pattern: "/s", OptionalSuffix: "/p>"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Flatten(&config.RouteSet{Groups: []config.RouteGroup{tt.group}})
			require.Error(t, err)
			assert.ErrorIs(t, err, util.ErrConfigInvalid)
		})
	}
}

func TestFlatten_Nil(t *testing.T) {
	t.Parallel()

	_, err := Flatten(nil)
	assert.ErrorIs(t, err, util.ErrConfigInvalid)
}

func TestNewRegistry_ReassignsOrderAndCopies(t *testing.T) {
	t.Parallel()

	params := static("module", "M")
	reg, err := NewRegistry([]Definition{
		{Name: "x", Pattern: "/x", Static: params, Order: 7},
		{Name: "y", Pattern: "/y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	params[0].Value = "changed"
	def, ok := reg.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 0, def.Order)
	assert.Equal(t, "M", def.Static[0].Value)

	defs := reg.Definitions()
	defs[0].Static[0].Value = "mutated"
	def, _ = reg.Lookup("x")
	assert.Equal(t, "M", def.Static[0].Value)
}

func TestNewRegistry_EmptyName(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry([]Definition{{Pattern: "/x"}})
	assert.ErrorIs(t, err, util.ErrConfigInvalid)
}

func TestParams_Get(t *testing.T) {
	t.Parallel()

	p := static("module", "Event", "action", "show")
	v, ok := p.Get("action")
	assert.True(t, ok)
	assert.Equal(t, "show", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}
