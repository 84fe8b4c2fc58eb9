package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fem/sPof-sub000/internal/server"
)

// Output formats of the listing commands.
const (
	formatText = "text"
	formatJSON = "json"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRoutes prints the listing in the requested format.
func writeRoutes(w io.Writer, entries []server.RouteEntry, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, entries)
	case formatText, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SPECIFICITY\tROUTE\tPATTERN")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Specificity, e.Route, e.Pattern)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
