package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/cratesdump/internal/database"
	"github.com/nao1215/cratesdump/internal/dump"
)

// NewLoadCmd creates the load command.
func NewLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Build the SQLite database from the extracted tables",
		Long: `Load updates the extracted files and builds db.sqlite from them.

An existing database is kept when it is newer than every extracted file.
Use --force to rebuild it anyway, for example after changing --preload or
an explicit schema.

Examples:
  # Build a database with native tables
  cratesdump load --preload

  # Rebuild the database from scratch
  cratesdump load --force`,
		Args: cobra.NoArgs,
		RunE: runLoadCmd,
	}

	cmd.Flags().Bool("force", false, "Rebuild the database even when it is up to date")

	return cmd
}

// runLoadCmd executes the load command.
func runLoadCmd(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool("force")
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

	state, err := loader.DBState(ctx)
	if err != nil {
		return err
	}

	var db *sql.DB
	if force {
		db, err = loader.RebuildDB(ctx)
	} else {
		db, err = loader.OpenDB(ctx)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	if !force && state == dump.DBFresh {
		logger.Info("database is up to date", "path", loader.SQLitePath())
	}

	tables, err := database.Tables(ctx, db)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, loader.SQLitePath())
	for _, t := range tables {
		fmt.Fprintf(out, "  %s\n", t)
	}
	return nil
}
