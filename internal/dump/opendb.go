package dump

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/nao1215/cratesdump/internal/database"
)

// DBState describes the database file relative to the extracted data.
type DBState int

const (
	// DBMissing means there is no database file yet.
	DBMissing DBState = iota

	// DBStale means at least one extracted file is newer than the database,
	// or the database was loaded with other tables, schemas or preload
	// setting than the loader's.
	DBStale

	// DBFresh means the database is at least as new as every extracted file.
	// Extracted files that do not exist are not taken into account.
	DBFresh
)

// String returns a human-readable name of the state.
func (s DBState) String() string {
	switch s {
	case DBMissing:
		return "missing"
	case DBStale:
		return "stale"
	case DBFresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// DBState inspects the database file, the extracted files and the layout
// fingerprint stored in the database.
func (l *Loader) DBState(ctx context.Context) (DBState, error) {
	dbInfo, err := os.Stat(l.SQLitePath())
	if os.IsNotExist(err) {
		return DBMissing, nil
	}
	if err != nil {
		return DBMissing, fmt.Errorf("%w: %w", ErrIO, err)
	}
	built := toSecond(dbInfo.ModTime())

	for _, f := range l.Files() {
		info, err := os.Stat(l.TablePath(f))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return DBMissing, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if toSecond(info.ModTime()).After(built) {
			return DBStale, nil
		}
	}

	stored, err := l.storedLayout(ctx)
	if err != nil {
		l.logger.Warn("cannot read database layout, rebuilding", "path", l.SQLitePath(), "error", err)
		return DBStale, nil
	}
	if stored != l.layout() {
		l.logger.Debug("database was loaded with a different layout", "path", l.SQLitePath())
		return DBStale, nil
	}
	return DBFresh, nil
}

// layout fingerprints the load batch. It is stored as the user_version of a
// database built by OpenDB or RebuildDB and is never zero, which is the
// user_version of a database nothing was loaded into.
func (l *Loader) layout() int32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(l.Schema()))
	return int32(h.Sum32()>>1) | 1 //nolint:gosec // the shift keeps the value in range
}

// storedLayout reads the fingerprint of an existing database.
func (l *Loader) storedLayout(ctx context.Context) (int32, error) {
	db, err := database.Open(ctx, l.SQLitePath(), database.Options{})
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return database.UserVersion(ctx, db)
}

// OpenDB returns a handle on the database with every requested table loaded.
//
// A missing database is created and loaded. A database older than one of
// the extracted files, or loaded with other tables, schemas or preload
// setting, is deleted, created again and loaded. Otherwise the existing
// database is opened as it is.
//
// The caller must close the returned handle.
func (l *Loader) OpenDB(ctx context.Context) (*sql.DB, error) {
	state, err := l.DBState(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("database state", "path", l.SQLitePath(), "state", state)

	if state == DBStale {
		if err := database.Remove(l.SQLitePath()); err != nil {
			return nil, fmt.Errorf("%w: failed to remove stale database: %w", ErrIO, err)
		}
	}
	return l.open(ctx, state != DBFresh)
}

// RebuildDB deletes the database, creates it again and loads every
// requested table, whatever the state of the existing file.
func (l *Loader) RebuildDB(ctx context.Context) (*sql.DB, error) {
	if err := database.Remove(l.SQLitePath()); err != nil {
		return nil, fmt.Errorf("%w: failed to remove database: %w", ErrIO, err)
	}
	return l.open(ctx, true)
}

// open opens the database and, when load is set, loads the tables into it.
// A database created here that fails to load is removed again, so the next
// call does not take an empty file for a fresh one.
func (l *Loader) open(ctx context.Context, load bool) (*sql.DB, error) {
	db, err := database.Open(ctx, l.SQLitePath(), database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSQL, err)
	}
	if !load {
		return db, nil
	}

	if err := l.LoadDumpInto(ctx, db); err != nil {
		_ = db.Close()
		_ = database.Remove(l.SQLitePath())
		return nil, err
	}
	if err := database.SetUserVersion(ctx, db, l.layout()); err != nil {
		_ = db.Close()
		_ = database.Remove(l.SQLitePath())
		return nil, fmt.Errorf("%w: %w", ErrSQL, err)
	}
	return db, nil
}
