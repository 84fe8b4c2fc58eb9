package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fem/sPof-sub000/internal/util"
)

func TestReverser_Reverse_EventShow(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, Definition{
		Name:    "event_show",
		Pattern: "/event/<id>",
		Static:  static("module", "Event", "action", "show"),
	})

	assert.Equal(t, "/event/42", NewReverser(table, nil).Reverse("event_show", Pairs("id", "42")))
}

func TestReverser_Reverse_OptionalSuffix(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger()
	table := newTestTable(t, Definition{Name: "list", Pattern: "/items", OptionalSuffix: "/page/<page>"})
	r := NewReverser(table, logger)

	assert.Equal(t, "/items", r.Reverse("list", nil))
	assert.Equal(t, "/items/page/2", r.Reverse("list", Pairs("page", "2")))
	assert.Empty(t, logs.FilterLevelExact(zapcore.ErrorLevel).All(), "dropping an optional suffix is not an error")
}

func TestReverser_Reverse_UnknownRoute(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger()
	table := newTestTable(t, Definition{Name: "list", Pattern: "/items"})
	r := NewReverser(table, logger)

	assert.Equal(t, "", r.Reverse("nonexistent_route", nil))
	assert.Equal(t, "", r.Reverse("", Pairs("id", "1")))

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 2)
	assert.Equal(t, "nonexistent_route", errs[0].ContextMap()["route"])
}

func TestReverser_Reverse_FallbackOrder(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, Definition{
		Name:           "archive",
		Pattern:        "/archive/<year>",
		OptionalPrefix: "/<lang>",
		OptionalSuffix: "/page/<page>",
	})
	r := NewReverser(table, nil)

	tests := []struct {
		name string
		args Args
		want string
	}{
		{
			name: "A: all placeholders",
			args: Pairs("lang", "de", "year", "2024", "page", "3"),
			want: "/de/archive/2024/page/3",
		},
		{
			name: "B: prefix only",
			args: Pairs("lang", "de", "year", "2024"),
			want: "/de/archive/2024",
		},
		{
			name: "C: suffix only",
			args: Pairs("year", "2024", "page", "3"),
			want: "/archive/2024/page/3",
		},
		{
			name: "D: bare",
			args: Pairs("year", "2024"),
			want: "/archive/2024",
		},
		{
			name: "absent prefix value",
			args: Args{Absent("lang"), Value("year", "2024"), Value("page", "3")},
			want: "/archive/2024/page/3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.Reverse("archive", tt.args))
		})
	}
}

func TestReverser_Reverse_Unresolved(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger()
	table := newTestTable(t, Definition{Name: "event_show", Pattern: "/event/<id>"})

	got := NewReverser(table, logger).Reverse("event_show", Pairs("other", "x"))
	assert.Equal(t, "/event/<id>?other=x", got)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	ctx := errs[0].ContextMap()
	assert.Equal(t, "event_show", ctx["route"])
	assert.Equal(t, "/event/<id>", ctx["pattern"])
}

func TestReverser_Reverse_QueryAndAnchor(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, Definition{Name: "routeA", Pattern: "/a/<placeholderX>"})
	r := NewReverser(table, nil)

	tests := []struct {
		name string
		args Args
		want string
	}{
		{
			name: "unconsumed arg",
			args: Pairs("placeholderX", "v1", "extra", "v2"),
			want: "/a/v1?extra=v2",
		},
		{
			name: "anchor after query",
			args: Pairs("_anchor", "top", "placeholderX", "v1", "extra", "v2"),
			want: "/a/v1?extra=v2#top",
		},
		{
			name: "anchor without query",
			args: Pairs("placeholderX", "v1", "_anchor", "top"),
			want: "/a/v1#top",
		},
		{
			name: "query keeps argument order",
			args: Pairs("z", "1", "placeholderX", "v1", "a", "2"),
			want: "/a/v1?z=1&a=2",
		},
		{
			name: "query values are escaped",
			args: Pairs("placeholderX", "v1", "q", "a b&c"),
			want: "/a/v1?q=a+b%26c",
		},
		{
			name: "absent args are skipped",
			args: Args{Value("placeholderX", "v1"), Absent("extra"), Absent(AnchorArg)},
			want: "/a/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.Reverse("routeA", tt.args))
		})
	}
}

func TestReverser_Reverse_SanitizesValues(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, Definition{Name: "event_show", Pattern: "/event/<slug>"})

	assert.Equal(t, "/event/Gruene-Woche-Muenchen",
		NewReverser(table, nil).Reverse("event_show", Pairs("slug", "Grüne Woche / München")))
}

func TestReverser_Reverse_Root(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, Definition{Name: "home", Pattern: "/"})

	assert.Equal(t, "/", NewReverser(table, nil).Reverse("home", nil))
	assert.Equal(t, "/?lang=de", NewReverser(table, nil).Reverse("home", Pairs("lang", "de")))
}

func TestReverser_Redirect(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, Definition{Name: "event_show", Pattern: "/event/<id>"})
	r := NewReverser(table, nil)

	location, err := r.Redirect("event_show", Pairs("id", "9"))
	require.NoError(t, err)
	assert.Equal(t, "/event/9", location)

	location, err = r.Redirect("missing", nil)
	assert.Empty(t, location)
	assert.ErrorIs(t, err, util.ErrUnknownRoute)
}

func TestPairs_DropsDanglingName(t *testing.T) {
	t.Parallel()

	args := Pairs("a", "1", "b")
	require.Len(t, args, 1)
	assert.Equal(t, "a", args[0].Name)
	assert.Equal(t, "1", *args[0].Value)
}
