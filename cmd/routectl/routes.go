package main

import (
	"github.com/spf13/cobra"

	"github.com/fem/sPof-sub000/internal/server"
)

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	var (
		testable bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the compiled table in matching order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			return writeRoutes(cmd.OutOrStdout(), server.ListRoutes(s.table, testable), format)
		},
	}

	cmd.Flags().BoolVar(&testable, "testable", false, "hide routes marked skiptest")
	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format (text, json)")
	return cmd
}
