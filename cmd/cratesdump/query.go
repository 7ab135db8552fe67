package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/cratesdump/internal/database"
	"github.com/nao1215/cratesdump/internal/report"
)

// NewQueryCmd creates the query command.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL query against the dump",
		Long: `Query updates the dump, opens the database and prints the result of a
single SQL statement.

The arguments are joined with spaces, so the statement does not need to be
quoted as a whole unless the shell would interpret it.

Examples:
  # The ten most downloaded crates
  cratesdump query --minimal "SELECT name, downloads FROM crates ORDER BY CAST(downloads AS INTEGER) DESC LIMIT 10"

  # Same as JSON records written to a file
  cratesdump query --minimal --json -o top.json "SELECT name, downloads FROM crates LIMIT 10"

  # Markdown for an issue comment
  cratesdump query --markdown "SELECT COUNT(*) AS crates FROM crates"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQueryCmd,
	}

	cmd.Flags().Bool("json", false, "Output the result as JSON records")
	cmd.Flags().Bool("markdown", false, "Output the result as a Markdown table")
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().Int("max-width", 0, "Truncate text cells wider than this (0 means no limit)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runQueryCmd executes the query command.
func runQueryCmd(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("empty query")
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	loader, logger, err := newLoader(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	if _, err := loader.Update(ctx); err != nil {
		return err
	}

	db, err := loader.OpenDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Debug("running query", "query", query)
	result, err := database.Query(ctx, db, query)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(outputPath) //nolint:gosec // output path is provided by the user
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer, err := newResultWriter(cmd, out)
	if err != nil {
		return err
	}
	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if outputPath != "" {
		logger.Info("result saved", "path", outputPath, "rows", result.Len())
	}
	return nil
}

// newResultWriter selects the writer for the output format flags.
func newResultWriter(cmd *cobra.Command, out io.Writer) (report.Writer, error) {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	maxWidth, err := cmd.Flags().GetInt("max-width")
	if err != nil {
		return nil, err
	}

	switch {
	case asJSON:
		return report.NewJSONWriter(out, report.WithRecords()), nil
	case asMarkdown:
		return report.NewMarkdownWriter(out), nil
	default:
		return report.NewSimpleWriter(out, report.WithMaxWidth(maxWidth)), nil
	}
}
