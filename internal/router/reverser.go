package router

import (
	"net/url"
	"strings"

	"github.com/fem/sPof-sub000/internal/observability"
	"github.com/fem/sPof-sub000/internal/util"
)

// AnchorArg is the reserved argument rendered as the URL fragment.
const AnchorArg = "_anchor"

// Reverse results used as metric labels.
const (
	resultComplete   = "complete"
	resultUnresolved = "unresolved"
	resultUnknown    = "unknown"
)

// Arg is one reverse argument. A nil Value means the argument is absent.
type Arg struct {
	Name  string
	Value *string
}

// Args keeps reverse arguments in caller order, which is also the order
// of the generated query string.
type Args []Arg

// Value returns a present argument.
func Value(name, value string) Arg {
	return Arg{Name: name, Value: &value}
}

// Absent returns an argument without a value.
func Absent(name string) Arg {
	return Arg{Name: name}
}

// Pairs builds Args from alternating names and values. A trailing name
// without a value is dropped.
func Pairs(kv ...string) Args {
	args := make(Args, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		args = append(args, Value(kv[i], kv[i+1]))
	}
	return args
}

// lookup returns the first present value of name.
func (a Args) lookup(name string) (string, bool) {
	for _, arg := range a {
		if arg.Name == name && arg.Value != nil {
			return *arg.Value, true
		}
	}
	return "", false
}

func (a Args) logField() observability.Field {
	pairs := make([]string, 0, len(a))
	for _, arg := range a {
		if arg.Value == nil {
			pairs = append(pairs, arg.Name)
			continue
		}
		pairs = append(pairs, arg.Name+"="+*arg.Value)
	}
	return observability.Strings("args", pairs)
}

// Reverser generates URLs from route names.
type Reverser struct {
	table  *Table
	logger observability.Logger
}

// NewReverser creates a reverser over table.
func NewReverser(table *Table, logger observability.Logger) *Reverser {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Reverser{table: table, logger: logger}
}

// Reverse returns the URL of route name for args. It never fails: an
// empty or unknown name yields "", and a route whose placeholders cannot
// all be filled yields its bare pattern with the leftovers in place.
//
// The fully decorated form is preferred, then prefix+pattern, then
// pattern+suffix, then the bare pattern. Arguments that fill no
// placeholder are appended as a query string, and the _anchor argument
// as the fragment.
func (r *Reverser) Reverse(name string, args Args) string {
	if name == "" {
		GetMetrics().reverseTotal.WithLabelValues(resultUnknown).Inc()
		r.logger.Error("cannot reverse route without a name", args.logField())
		return ""
	}

	def, ok := r.table.Lookup(name)
	if !ok {
		GetMetrics().reverseTotal.WithLabelValues(resultUnknown).Inc()
		r.logger.Error("unknown route", observability.String("route", name), args.logField())
		return ""
	}

	prefix, suffix := def.OptionalPrefix, def.OptionalSuffix
	full := trimTemplate(prefix + def.Pattern + suffix)
	withPrefix := trimTemplate(prefix + def.Pattern)
	withSuffix := trimTemplate(def.Pattern + suffix)
	bare := trimTemplate(def.Pattern)

	consumed := make(map[string]struct{})
	for _, placeholder := range Placeholders(full) {
		value, ok := args.lookup(placeholder)
		if !ok {
			continue
		}
		token := "<" + placeholder + ">"
		value = Sanitize(value)
		full = strings.ReplaceAll(full, token, value)
		withPrefix = strings.ReplaceAll(withPrefix, token, value)
		withSuffix = strings.ReplaceAll(withSuffix, token, value)
		bare = strings.ReplaceAll(bare, token, value)
		consumed[placeholder] = struct{}{}
	}

	var selected string
	switch {
	case !hasPlaceholder(full):
		selected = full
	case prefix != "" && !hasPlaceholder(withPrefix):
		selected = withPrefix
	case suffix != "" && !hasPlaceholder(withSuffix):
		selected = withSuffix
	default:
		selected = bare
	}

	if hasPlaceholder(selected) {
		GetMetrics().reverseTotal.WithLabelValues(resultUnresolved).Inc()
		r.logger.Error("unresolved placeholders in route",
			observability.String("route", name),
			observability.String("pattern", selected),
			args.logField())
	} else {
		GetMetrics().reverseTotal.WithLabelValues(resultComplete).Inc()
	}

	return selected + queryString(args, consumed) + anchor(args)
}

// Redirect returns the Location value for route name. Unlike Reverse
// it reports an unknown route as util.ErrUnknownRoute.
func (r *Reverser) Redirect(name string, args Args) (string, error) {
	location := r.Reverse(name, args)
	if location == "" {
		return "", util.NewUnknownRouteError(name)
	}
	return location, nil
}

func queryString(args Args, consumed map[string]struct{}) string {
	pairs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg.Value == nil || arg.Name == AnchorArg {
			continue
		}
		if _, used := consumed[arg.Name]; used {
			continue
		}
		pairs = append(pairs, url.QueryEscape(arg.Name)+"="+url.QueryEscape(*arg.Value))
	}
	if len(pairs) == 0 {
		return ""
	}
	return "?" + strings.Join(pairs, "&")
}

func anchor(args Args) string {
	value, ok := args.lookup(AnchorArg)
	if !ok {
		return ""
	}
	return "#" + (&url.URL{Fragment: value}).EscapedFragment()
}

// trimTemplate trims the trailing slash but keeps the root path.
func trimTemplate(s string) string {
	trimmed := trimTrailingSlash(s)
	if trimmed == "" && strings.HasPrefix(s, "/") {
		return "/"
	}
	return trimmed
}
