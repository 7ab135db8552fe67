package dump

import "errors"

// Error kinds returned by the loader. Every error wraps one of these and
// the underlying cause, so errors.Is matches both.
var (
	// ErrNotFound is returned when the dump archive cannot be resolved: the
	// resource does not exist, the download failed, or the cache could not
	// be set up.
	ErrNotFound = errors.New("dump not found")

	// ErrSQL is returned when SQLite rejects a statement or the database
	// cannot be opened.
	ErrSQL = errors.New("sqlite error")

	// ErrIO is returned for filesystem failures: creating directories,
	// reading the archive, unpacking entries, reading file metadata or
	// deleting a stale database.
	ErrIO = errors.New("i/o error")

	// ErrUnsupportedFile is returned by Build when a requested file is not
	// a .csv file.
	ErrUnsupportedFile = errors.New("unsupported data file")
)
