package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPathCmd creates the path command.
func NewPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path of the SQLite database",
		Long: `Path prints where db.sqlite lives for the current configuration, so other
tools can open it:

  sqlite3 "$(cratesdump path)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, _, err := newLoader(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.SQLitePath())
			return nil
		},
	}
}
