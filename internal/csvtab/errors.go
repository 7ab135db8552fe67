package csvtab

import "errors"

var (
	// ErrMissingFilename is returned when CREATE VIRTUAL TABLE omits filename=.
	ErrMissingFilename = errors.New("csv: filename parameter is required")

	// ErrUnknownParameter is returned for a key=value argument the module does not know.
	ErrUnknownParameter = errors.New("csv: unknown parameter")

	// ErrInvalidHeader is returned when header= is not a boolean.
	ErrInvalidHeader = errors.New("csv: header must be yes or no")

	// ErrEmptyFile is returned when the columns must be inferred from a file
	// that has no rows.
	ErrEmptyFile = errors.New("csv: cannot infer columns from an empty file")
)
