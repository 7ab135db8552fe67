package config

import (
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultResource is the location of the crates.io database dump.
	// The dump is regenerated once a day by the crates.io team.
	DefaultResource = "https://static.crates.io/db-dump.tar.gz"

	// DefaultDestination is the directory the requested CSV files are
	// extracted into, relative to the working directory.
	DefaultDestination = "data"

	// DefaultFreshnessLifetime of zero means every resolution of a remote
	// resource revalidates the cached copy with a HEAD request.
	DefaultFreshnessLifetime = time.Duration(0)

	// TableFileExtension is appended to a table name to get the file name
	// of its data inside the dump.
	TableFileExtension = ".csv"

	// DatabaseFileName is the name of the SQLite database file created in
	// the destination directory.
	DatabaseFileName = "db.sqlite"

	// AppName is the application name used for XDG directory paths.
	AppName = "cratesdump"
)

// DefaultTables returns the tables loaded when none are requested explicitly.
// A fresh slice is returned on every call so callers may modify it.
func DefaultTables() []string {
	return []string{
		"badges",
		"categories",
		"crate_owners",
		"crates",
		"crates_categories",
		"crates_keywords",
		"dependencies",
		"keywords",
		"metadata",
		"reserved_crate_names",
		"teams",
		"users",
		"version_authors",
		"version_downloads",
		"versions",
	}
}

// MinimalTables returns the smallest useful set of tables: crates, their
// versions and the dependency edges between them.
func MinimalTables() []string {
	return []string{"crates", "dependencies", "versions"}
}

// tableNamePattern matches names that can be inlined into SQL unquoted.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all configuration options for cratesdump.
// It is populated from defaults, an optional config file and CLI flags, in
// that order, and is then handed to the dump loader builder.
type Config struct {
	// Resource is the URL or local path of the dump archive.
	Resource string

	// Tables lists the requested tables in order. Each table maps to the
	// file "<table>.csv" inside the archive.
	Tables []string

	// Destination is the directory that receives the extracted files and
	// the SQLite database.
	Destination string

	// Schemas maps a table name to an explicit CREATE TABLE statement used
	// instead of inferring the columns from the CSV header row.
	Schemas map[string]string

	// Preload materializes every virtual table into a native table.
	Preload bool

	// CacheDir is where downloaded archives are kept.
	// Defaults to the XDG cache directory (~/.cache/cratesdump on Linux).
	CacheDir string

	// Offline forbids network access; only cached copies are used.
	Offline bool

	// FreshnessLifetime is how long a downloaded archive is trusted without
	// revalidating it against the server.
	FreshnessLifetime time.Duration

	// Proxy is an optional http, https or socks5 proxy URL for downloads.
	Proxy string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Resource:          DefaultResource,
		Tables:            DefaultTables(),
		Destination:       DefaultDestination,
		Schemas:           make(map[string]string),
		CacheDir:          XDGCacheDir(),
		FreshnessLifetime: DefaultFreshnessLifetime,
	}
}

// XDGCacheDir returns the XDG cache directory for cratesdump.
// On Linux: ~/.cache/cratesdump
// On macOS: ~/Library/Caches/cratesdump
// On Windows: %LOCALAPPDATA%\cratesdump\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns the XDG config directory for cratesdump.
// On Linux: ~/.config/cratesdump
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ValidTableName reports whether name can be used as a table name.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors in
// errors.go.
func (c *Config) Validate() error {
	if c.Resource == "" {
		return ErrEmptyResource
	}
	if c.Destination == "" {
		return ErrEmptyDestination
	}
	if len(c.Tables) == 0 {
		return ErrNoTables
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, table := range c.Tables {
		if !ValidTableName(table) {
			return ErrInvalidTableName
		}
		if seen[table] {
			return ErrDuplicateTable
		}
		seen[table] = true
	}

	for table := range c.Schemas {
		if !slices.Contains(c.Tables, table) {
			return ErrUnknownSchemaTable
		}
	}

	if c.FreshnessLifetime < 0 {
		return ErrInvalidFreshness
	}
	return nil
}
