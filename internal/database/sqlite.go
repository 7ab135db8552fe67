package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/cratesdump/internal/csvtab"
	"github.com/nao1215/cratesdump/internal/model"
)

// sidecarSuffixes are the files SQLite keeps next to a database file.
var sidecarSuffixes = []string{"-wal", "-shm", "-journal"}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the parent directory and the database file
	// when they do not exist. Otherwise a missing file is an error.
	CreateIfNotExists bool

	// EnableWAL switches the journal to Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the options used for the dump database: create on
// demand, rollback journal.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         false,
	}
}

// Open opens the SQLite database at path with the csv module registered.
//
// The handle is limited to one connection: SQLite allows one writer, and
// connection-scoped state such as TEMP tables must be seen by every call.
func Open(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := csvtab.Register(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to register csv module: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	return db, nil
}

// Remove deletes the database file at path together with its journal
// files. Files that do not exist are ignored.
func Remove(path string) error {
	var errs []error
	for _, p := range append([]string{path}, sidecarPaths(path)...) {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sidecarPaths(path string) []string {
	paths := make([]string, len(sidecarSuffixes))
	for i, suffix := range sidecarSuffixes {
		paths[i] = path + suffix
	}
	return paths
}

// ExecBatch runs a multi-statement SQL batch inside one transaction. When a
// statement fails the transaction is rolled back and no statement of the
// batch takes effect.
func ExecBatch(ctx context.Context, db *sql.DB, batch string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, batch); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Query runs query and collects every row into a ResultSet.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (*model.ResultSet, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := model.NewResultSet(columns)
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result.Append(values)
	}
	return result, rows.Err()
}

// UserVersion returns the user_version number stored in the database header.
func UserVersion(ctx context.Context, db *sql.DB) (int32, error) {
	var v int32
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read user_version: %w", err)
	}
	return v, nil
}

// SetUserVersion stores v as the user_version number of the database.
func SetUserVersion(ctx context.Context, db *sql.DB, v int32) error {
	// PRAGMA statements do not accept bound parameters.
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// Tables returns the names of the tables in the main schema, virtual tables
// included, sorted by name.
func Tables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_schema WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
