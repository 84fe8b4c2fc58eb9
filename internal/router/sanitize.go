package router

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	germanReplacer = strings.NewReplacer(
		"ä", "ae", "ö", "oe", "ü", "ue",
		"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
		"ß", "ss",
	)
	unsafeRun = regexp.MustCompile(`[^A-Za-z0-9._~-]+`)
)

// Sanitize makes value safe to embed in a path segment. German umlauts
// are transliterated, other accents are stripped, and every run of
// remaining characters outside [A-Za-z0-9._~-] becomes a single '-'.
func Sanitize(value string) string {
	value = germanReplacer.Replace(value)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, value); err == nil {
		value = stripped
	}

	return unsafeRun.ReplaceAllLiteralString(value, "-")
}
