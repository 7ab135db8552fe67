package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrEmptyResource is returned when no dump location is configured.
	ErrEmptyResource = errors.New("no resource specified: provide a dump URL or path")

	// ErrEmptyDestination is returned when the extraction directory is empty.
	ErrEmptyDestination = errors.New("no destination directory specified")

	// ErrNoTables is returned when the requested table list is empty.
	// At least one table is needed to have anything to load.
	ErrNoTables = errors.New("no tables requested: at least one table is required")

	// ErrInvalidTableName is returned when a table name is not a plain SQL
	// identifier. Table names are inlined into the generated SQL.
	ErrInvalidTableName = errors.New("invalid table name: must match [A-Za-z_][A-Za-z0-9_]*")

	// ErrDuplicateTable is returned when the same table is requested twice.
	ErrDuplicateTable = errors.New("duplicate table in table list")

	// ErrUnknownSchemaTable is returned when a schema override names a table
	// that is not in the requested list.
	ErrUnknownSchemaTable = errors.New("schema override for a table that is not requested")

	// ErrInvalidFreshness is returned when the cache freshness lifetime is negative.
	ErrInvalidFreshness = errors.New("invalid freshness lifetime: must be non-negative")
)
