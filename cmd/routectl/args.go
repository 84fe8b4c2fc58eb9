package main

import (
	"fmt"
	"strings"

	"github.com/fem/sPof-sub000/internal/router"
)

// parseKeyValues turns command line key=value words into reverse
// arguments, keeping their order. A bare key is an absent argument.
func parseKeyValues(words []string) (router.Args, error) {
	args := make(router.Args, 0, len(words))
	for _, word := range words {
		key, value, hasValue := strings.Cut(word, "=")
		if key == "" {
			return nil, fmt.Errorf("invalid argument %q: empty name", word)
		}
		if hasValue {
			args = append(args, router.Value(key, value))
		} else {
			args = append(args, router.Absent(key))
		}
	}
	return args, nil
}
