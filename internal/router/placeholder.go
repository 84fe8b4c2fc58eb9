package router

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// placeholderMarker replaces every placeholder when computing specificity.
const placeholderMarker = "<*>"

var placeholderPattern = regexp.MustCompile(`<([A-Za-z0-9_]+)>`)

// Placeholders returns the placeholder names of pattern in left-to-right
// order, including repeats.
func Placeholders(pattern string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(pattern, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// hasPlaceholder reports whether s still contains an unresolved placeholder.
func hasPlaceholder(s string) bool {
	return placeholderPattern.MatchString(s)
}

// Specificity is the rune length of pattern with every placeholder
// collapsed to a three character marker. Higher values are tried first.
func Specificity(pattern string) int {
	return utf8.RuneCountInString(placeholderPattern.ReplaceAllLiteralString(pattern, placeholderMarker))
}

// checkWellFormed rejects stray '<' or '>' characters that are not part
// of a placeholder token.
func checkWellFormed(pattern string) error {
	rest := placeholderPattern.ReplaceAllLiteralString(pattern, "")
	if strings.ContainsAny(rest, "<>") {
		return fmt.Errorf("malformed placeholder in %q", pattern)
	}
	return nil
}

// checkUnique rejects a pattern that names the same placeholder twice.
func checkUnique(pattern string) error {
	seen := make(map[string]struct{})
	for _, name := range Placeholders(pattern) {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("placeholder <%s> appears more than once in %q", name, pattern)
		}
		seen[name] = struct{}{}
	}
	return nil
}
