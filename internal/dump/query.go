package dump

import (
	"strings"
)

// stagingPrefix names the virtual table when it is materialized into a
// native table of the plain name.
const stagingPrefix = "temp_"

// TableQuery returns the SQL that exposes one extracted file as a table.
//
// Without preload the file becomes a csv virtual table named after the
// file. With preload the virtual table is named temp_<table> and its rows
// are copied into a native table <table>.
func (l *Loader) TableQuery(file string) string {
	table := tableName(file)
	virtual := table
	if l.preload {
		virtual = stagingPrefix + table
	}

	args := []string{
		"filename=" + quoteLiteral(l.TablePath(file)),
		"header=yes",
	}
	if schema, ok := l.schemas[table]; ok {
		args = append(args, "schema="+quoteLiteral(schema))
	}

	stmts := []string{
		"DROP TABLE IF EXISTS " + virtual + ";",
		"CREATE VIRTUAL TABLE " + virtual + " USING csv(" + strings.Join(args, ", ") + ");",
	}
	if l.preload {
		stmts = append(stmts,
			"DROP TABLE IF EXISTS "+table+";",
			"CREATE TABLE "+table+" AS SELECT * FROM "+virtual+";",
		)
	}
	return strings.Join(stmts, "\n")
}

// Schema returns the statements for every requested file as one batch, in
// request order.
func (l *Loader) Schema() string {
	files := l.Files()
	blocks := make([]string, len(files))
	for i, f := range files {
		blocks[i] = l.TableQuery(f)
	}
	return strings.Join(blocks, "\n")
}

// quoteLiteral returns s as an SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
