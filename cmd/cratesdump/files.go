package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/cratesdump/internal/archive"
)

// NewFilesCmd creates the files command.
func NewFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the entries of the dump archive",
		Long: `Files resolves the dump archive through the cache and lists its entries.
Use it to find the table names a dump provides.`,
		Args: cobra.NoArgs,
		RunE: runFilesCmd,
	}

	cmd.Flags().Bool("csv", false, "List only the CSV data files")

	return cmd
}

// runFilesCmd executes the files command.
func runFilesCmd(cmd *cobra.Command, _ []string) error {
	csvOnly, err := cmd.Flags().GetBool("csv")
	if err != nil {
		return err
	}

	loader, _, err := newLoader(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	entry, err := loader.Archive(ctx)
	if err != nil {
		return err
	}

	names, err := archive.List(entry.Path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		if csvOnly && !strings.HasSuffix(name, ".csv") {
			continue
		}
		fmt.Fprintln(out, name)
	}
	return nil
}
