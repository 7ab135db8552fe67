package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the schema command.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the SQL that loads the requested tables",
		Long: `Schema prints the statements load runs against db.sqlite, without touching
the network or the filesystem. The output can be fed to any SQLite shell
that has the csv extension loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, _, err := newLoader(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.Schema())
			return nil
		},
	}
}
