package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fem/sPof-sub000/internal/router"
)

func newReverseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <name> [key=value ...]",
		Short: "Generate the URL of a named route",
		Long: `Reverse fills the route's placeholders from the arguments. Arguments no
placeholder consumes are appended as a query string in the given order;
_anchor=<fragment> becomes the URL fragment. A bare key marks an
argument as absent.`,
		Example: `  routectl reverse event_show id=42
  routectl reverse event page=2 sort=date _anchor=top`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rargs, err := parseKeyValues(args[1:])
			if err != nil {
				return err
			}

			s, err := opts.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			url, err := router.NewReverser(s.table, s.logger).Redirect(args[0], rargs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
			return err
		},
	}
}
