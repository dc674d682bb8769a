package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGridCmd(a *app) *cobra.Command {
	var flags ruleFlags

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the Sunday-first week grid of a window with occurrence days marked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.expand(cmd, &flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printerFor(out).Grid(res.Window, res.Occurrences); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%d occurrence(s), * marks an occurrence day\n", len(res.Occurrences))
			return err
		},
	}

	flags.register(cmd)

	return cmd
}
