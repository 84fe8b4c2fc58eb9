package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fem/sPof-sub000/internal/observability"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and the routes file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			s.logger.Debug("routes file compiled", observability.String("path", s.cfg.Routes))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "routes file: %s\n", s.cfg.Routes)
			fmt.Fprintf(out, "routes:      %d (%d testable)\n",
				len(s.table.Definitions()), len(s.table.Testable()))
			_, err = fmt.Fprintf(out, "variants:    %d\n", s.table.Len())
			return err
		},
	}
}
