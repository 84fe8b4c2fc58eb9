package main

import (
	"github.com/spf13/cobra"

	"github.com/fem/sPof-sub000/internal/router"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a path to its route and parameters",
		Long:  `Resolve prints the matched route, pattern and parameters as JSON. It exits with status 1 when no route matches.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			result, err := router.NewMatcher(s.table, s.logger).Resolve(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}
