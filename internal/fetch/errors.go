package fetch

import "errors"

// Resolution errors.
var (
	// ErrNotFound is returned when a local resource does not exist or the
	// server answers 404 / 410.
	ErrNotFound = errors.New("resource not found")

	// ErrOffline is returned when a remote resource is requested in offline
	// mode and no cached copy exists.
	ErrOffline = errors.New("offline and no cached copy available")

	// ErrUnexpectedStatus is returned for any other non-2xx HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrUnsupportedScheme is returned for locators that are neither local
	// paths nor file, http or https URLs.
	ErrUnsupportedScheme = errors.New("unsupported resource scheme")

	// ErrNoCacheDir is returned by New when no cache directory is configured.
	ErrNoCacheDir = errors.New("no cache directory configured")

	// ErrInvalidProxy is returned by New for a malformed or unsupported proxy URL.
	ErrInvalidProxy = errors.New("invalid proxy URL")
)
