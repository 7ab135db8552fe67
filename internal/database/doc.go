// Package database opens the SQLite database the dump is loaded into.
//
// It uses modernc.org/sqlite, a CGO-free SQLite, and registers the csv
// virtual table module from internal/csvtab on every handle it opens.
// Besides Open it provides the few helpers the loader and the CLI share:
// running a schema batch in a transaction, removing a database together
// with its journal files, and collecting query results.
package database
