// Package csvtab implements the csv virtual table module for the pure Go
// SQLite driver (modernc.org/sqlite), which does not ship the C csv extension.
//
//	CREATE VIRTUAL TABLE crates USING csv(
//		filename='/data/crates.csv',
//		header=yes,
//		schema='CREATE TABLE x(id INTEGER, name TEXT)'
//	);
//
// Without schema= every column is declared TEXT and named after the header
// row (or c0, c1, ... without a header). Rows are read from disk on every
// scan; use CREATE TABLE ... AS SELECT to copy them into a native table.
package csvtab
