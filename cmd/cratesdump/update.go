package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Download the dump and extract the requested tables",
		Long: `Update makes sure the extracted CSV files match the current crates.io dump.

The archive is downloaded only when the cached copy is missing or the server
reports a newer one. Files are extracted again when one of them is missing
or older than the archive.

Examples:
  # Extract every table into ./data
  cratesdump update

  # Extract the three core tables into /tmp/crates
  cratesdump update --minimal -d /tmp/crates`,
		Args: cobra.NoArgs,
		RunE: runUpdateCmd,
	}
}

// runUpdateCmd executes the update command.
func runUpdateCmd(cmd *cobra.Command, _ []string) error {
	loader, _, err := newLoader(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	if _, err := loader.Update(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, loader.Destination())
	for _, f := range loader.Files() {
		info, err := os.Stat(loader.TablePath(f))
		if err != nil {
			fmt.Fprintf(out, "  %-32s missing\n", f)
			continue
		}
		fmt.Fprintf(out, "  %-32s %s\n", f, humanize.Bytes(uint64(info.Size()))) //nolint:gosec // file sizes are never negative
	}
	return nil
}
