// Package fetch resolves a resource locator to a local file.
//
// The crates.io dump is a single large archive that is regenerated daily.
// Cache keeps the last downloaded copy and only downloads again when the
// server reports a different ETag (or Last-Modified date). The Entry it
// returns carries the time the copy was fetched, which the dump loader
// compares against its extracted files to decide whether to extract again.
//
// Local paths and file:// URLs bypass the cache entirely, which is what tests
// and mirrors on a shared filesystem use.
//
// There is no retry policy: a failed request is returned to the caller.
package fetch
