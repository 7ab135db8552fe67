package dump

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/nao1215/cratesdump/internal/archive"
	"github.com/nao1215/cratesdump/internal/config"
	"github.com/nao1215/cratesdump/internal/csvtab"
	"github.com/nao1215/cratesdump/internal/database"
	"github.com/nao1215/cratesdump/internal/fetch"
)

// Loader extracts the requested tables of the crates.io dump and loads them
// into SQLite. Create one with a Builder.
//
// A Loader is not safe for concurrent use, and two loaders must not share a
// destination directory at the same time.
type Loader struct {
	resource    string
	tables      []string
	destination string
	schemas     map[string]string
	preload     bool
	cache       *fetch.Cache
	logger      *slog.Logger
}

// Resource returns the URL or local path of the dump archive.
func (l *Loader) Resource() string { return l.resource }

// Destination returns the absolute extraction directory.
func (l *Loader) Destination() string { return l.destination }

// Preloaded reports whether tables are materialized on load.
func (l *Loader) Preloaded() bool { return l.preload }

// Tables returns the requested table names in order.
func (l *Loader) Tables() []string {
	return slices.Clone(l.tables)
}

// Files returns the data file names of the requested tables in order.
func (l *Loader) Files() []string {
	files := make([]string, len(l.tables))
	for i, t := range l.tables {
		files[i] = fileName(t)
	}
	return files
}

// SQLitePath returns the path of the database file.
func (l *Loader) SQLitePath() string {
	return filepath.Join(l.destination, config.DatabaseFileName)
}

// TablePath returns the path of an extracted file.
func (l *Loader) TablePath(file string) string {
	return filepath.Join(l.destination, file)
}

// Update makes sure every requested file is extracted from the current
// version of the dump.
//
// The archive is resolved through the cache. When every requested file
// already exists and none is older than the archive, nothing is extracted.
// Otherwise the requested files are unpacked from the archive, replacing
// the existing ones.
func (l *Loader) Update(ctx context.Context) (*Loader, error) {
	entry, err := l.Archive(ctx)
	if err != nil {
		return nil, err
	}

	fresh, err := l.isFresh(entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	if fresh {
		l.logger.Debug("extracted files are up to date",
			"destination", l.destination,
			"archive_time", entry.CreatedAt,
		)
		return l, nil
	}

	if err := os.MkdirAll(l.destination, 0o750); err != nil {
		return nil, fmt.Errorf("%w: failed to create destination: %w", ErrIO, err)
	}

	files := l.Files()
	wanted := make(map[string]bool, len(files))
	for _, f := range files {
		wanted[f] = true
	}

	l.logger.Info("extracting dump", "archive", entry.Path, "destination", l.destination, "files", len(files))
	started := time.Now()

	extracted, err := archive.Extract(entry.Path, l.destination, wanted)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	var absent []string
	for _, f := range files {
		if !slices.Contains(extracted, f) {
			l.logger.Warn("requested file not found in archive", "file", f, "archive", entry.Path)
			absent = append(absent, f)
		}
	}
	if err := l.writeStamp(extractStamp{ArchiveTime: toSecond(entry.CreatedAt), Absent: absent}); err != nil {
		return nil, err
	}
	l.logger.Info("extraction complete",
		"extracted", len(extracted),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return l, nil
}

// Archive resolves the dump archive through the cache, downloading it when
// the cached copy is missing or outdated.
func (l *Loader) Archive(ctx context.Context) (*fetch.Entry, error) {
	entry, err := l.cache.CachedPath(ctx, l.resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, l.resource, err)
	}
	return entry, nil
}

// isFresh reports whether every requested file was extracted no earlier than
// fetchedAt. A file that is not on disk counts as extracted only when the
// last extraction from the same archive found it missing.
func (l *Loader) isFresh(fetchedAt time.Time) (bool, error) {
	stamp := l.readStamp()
	for _, f := range l.Files() {
		info, err := os.Stat(l.TablePath(f))
		if os.IsNotExist(err) {
			if stamp.absentFrom(f, fetchedAt) {
				continue
			}
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if toSecond(info.ModTime()).Before(toSecond(fetchedAt)) {
			l.logger.Debug("extracted file is older than the archive", "file", f)
			return false, nil
		}
	}
	return true, nil
}

// toSecond drops sub-second precision, which some filesystems do not keep
// for modification times.
func toSecond(t time.Time) time.Time {
	return t.Truncate(time.Second)
}

// LoadDumpInto creates the tables of every requested file in db.
//
// The statements returned by Schema run in one transaction. If one of them
// fails the transaction is rolled back and db is left as it was.
func (l *Loader) LoadDumpInto(ctx context.Context, db *sql.DB) error {
	if err := csvtab.Register(db); err != nil {
		return fmt.Errorf("%w: %w", ErrSQL, err)
	}

	started := time.Now()
	if err := database.ExecBatch(ctx, db, l.Schema()); err != nil {
		return fmt.Errorf("%w: failed to load tables: %w", ErrSQL, err)
	}
	l.logger.Info("tables loaded",
		"tables", len(l.tables),
		"preload", l.preload,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return nil
}
