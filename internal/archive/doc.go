// Package archive reads the gzip-compressed tar archives the crates.io dump
// is published as, and selectively unpacks entries by base file name.
//
// Extracted files are written fresh (never with the archive's timestamps),
// so their modification time records when the extraction happened.
package archive
