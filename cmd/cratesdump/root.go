package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/cratesdump/internal/config"
)

// NewRootCmd creates the root command for cratesdump.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cratesdump",
		Short: "Query the crates.io database dump with SQL",
		Long: `cratesdump downloads the crates.io database dump, extracts the tables you
ask for and loads them into a local SQLite database.

The archive is cached and only downloaded again when crates.io publishes a
new dump. Extracted files and the database are rebuilt only when they are
older than the archive.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("log-format", "text", "Log format on stderr (text or json)")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .cratesdump in current or home directory)")
	flags.StringP("dest", "d", config.DefaultDestination,
		"Directory for the extracted files and db.sqlite")
	flags.StringP("resource", "r", config.DefaultResource,
		"URL or local path of the dump archive")
	flags.StringSliceP("tables", "t", nil,
		"Tables to load, comma separated (default: every table)")
	flags.Bool("minimal", false,
		"Load only crates, dependencies and versions")
	flags.Bool("preload", false,
		"Copy the tables into native SQLite tables")
	flags.StringArray("schema", nil,
		"Explicit schema as table=CREATE TABLE statement (repeatable)")
	flags.String("cache-dir", "",
		"Directory for the downloaded archive (default: XDG cache directory)")
	flags.Bool("offline", false,
		"Use the cached archive only, never the network")
	flags.Duration("freshness", config.DefaultFreshnessLifetime,
		"Trust a cached archive this long without revalidating it")
	flags.String("proxy", "",
		"http, https or socks5 proxy URL for downloads")

	// Add subcommands
	cmd.AddCommand(NewUpdateCmd())
	cmd.AddCommand(NewLoadCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewPathCmd())
	cmd.AddCommand(NewFilesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
