package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/cratesdump/internal/config"
	"github.com/nao1215/cratesdump/internal/dump"
	"github.com/nao1215/cratesdump/internal/log"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// the command line flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently use the defaults if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", configPath, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if flags.Changed("resource") {
		if cfg.Resource, err = flags.GetString("resource"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("dest") {
		if cfg.Destination, err = flags.GetString("dest"); err != nil {
			return nil, err
		}
	}

	minimal, err := flags.GetBool("minimal")
	if err != nil {
		return nil, err
	}
	if minimal {
		cfg.Tables = config.MinimalTables()
	}
	if flags.Changed("tables") {
		if cfg.Tables, err = flags.GetStringSlice("tables"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("preload") {
		if cfg.Preload, err = flags.GetBool("preload"); err != nil {
			return nil, err
		}
	}

	schemas, err := flags.GetStringArray("schema")
	if err != nil {
		return nil, err
	}
	for _, s := range schemas {
		table, schema, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(table) == "" {
			return nil, fmt.Errorf("invalid --schema %q (expected table=CREATE TABLE ...)", s)
		}
		cfg.Schemas[strings.TrimSpace(table)] = schema
	}

	if flags.Changed("cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("offline") {
		if cfg.Offline, err = flags.GetBool("offline"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("freshness") {
		if cfg.FreshnessLifetime, err = flags.GetDuration("freshness"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newLoader builds the configuration and a loader from the command flags.
// The logger writes to the command's error stream and becomes the default.
func newLoader(cmd *cobra.Command) (*dump.Loader, *slog.Logger, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, nil, err
	}
	var logger *slog.Logger
	switch format {
	case "text":
		logger = log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	case "json":
		logger = log.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	default:
		return nil, nil, fmt.Errorf("invalid --log-format %q (expected text or json)", format)
	}
	slog.SetDefault(logger)

	loader, err := dump.FromConfig(cfg).Logger(logger).Build()
	if err != nil {
		return nil, nil, err
	}
	return loader, logger, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
