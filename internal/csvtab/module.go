package csvtab

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"modernc.org/sqlite/vtab"
)

// ModuleName is the name used in CREATE VIRTUAL TABLE ... USING csv(...).
const ModuleName = "csv"

var (
	registerOnce sync.Once
	registerErr  error
)

// Register makes the csv module available to connections of db.
//
// modernc.org/sqlite keeps virtual table modules in a process-wide registry
// that is applied when a connection is opened, so the module is registered
// once and later calls return the first result. Call Register before the
// handle opens its first connection.
func Register(db *sql.DB) error {
	registerOnce.Do(func() {
		registerErr = vtab.RegisterModule(db, ModuleName, &Module{})
	})
	return registerErr
}

// Module implements vtab.Module for CSV files.
type Module struct{}

// Create is called for CREATE VIRTUAL TABLE.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.Connect(ctx, args)
}

// Connect is called when an existing virtual table is opened again.
// CSV tables keep no state of their own, so it is the same as Create.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	p, err := parseArgs(args)
	if err != nil {
		return nil, err
	}

	schema := p.schema
	if schema == "" {
		schema, err = inferSchema(p.filename, p.header)
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Declare(schema); err != nil {
		return nil, fmt.Errorf("csv: invalid schema %q: %w", schema, err)
	}
	return &table{filename: p.filename, header: p.header}, nil
}

// inferSchema builds a CREATE TABLE statement with one TEXT column per field
// of the first row. The names come from the header row, or are c0..cN-1.
func inferSchema(filename string, header bool) (string, error) {
	f, r, err := openCSV(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	first, err := r.Read()
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %s", ErrEmptyFile, filename)
	}
	if err != nil {
		return "", fmt.Errorf("csv: %s: %w", filename, err)
	}

	cols := make([]string, len(first))
	for i, name := range first {
		if !header || name == "" {
			name = "c" + strconv.Itoa(i)
		}
		cols[i] = quoteIdent(name) + " TEXT"
	}
	return "CREATE TABLE x(" + strings.Join(cols, ", ") + ")", nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// openCSV opens filename with a leading UTF-8 byte order mark removed.
// Quotes are parsed leniently: a stray quote inside an unquoted field is
// kept as part of the field.
func openCSV(filename string) (*os.File, *csv.Reader, error) {
	f, err := os.Open(filename) //nolint:gosec // path is given by the table definition
	if err != nil {
		return nil, nil, fmt.Errorf("csv: %w", err)
	}
	bom := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	r := csv.NewReader(transform.NewReader(f, bom))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return f, r, nil
}

// table is one CSV-backed virtual table.
type table struct {
	filename string
	header   bool
}

// BestIndex accepts the default plan: a full scan with every constraint
// evaluated by SQLite.
func (t *table) BestIndex(_ *vtab.IndexInfo) error {
	return nil
}

func (t *table) Open() (vtab.Cursor, error) {
	return &cursor{table: t}, nil
}

func (t *table) Disconnect() error { return nil }

func (t *table) Destroy() error { return nil }

// cursor scans the file from the top on every Filter.
type cursor struct {
	table *table
	file  *os.File
	r     *csv.Reader
	row   []string
	rowid int64
	eof   bool
}

func (c *cursor) Filter(_ int, _ string, _ []vtab.Value) error {
	if err := c.closeFile(); err != nil {
		return err
	}
	f, r, err := openCSV(c.table.filename)
	if err != nil {
		return err
	}
	c.file, c.r = f, r
	c.rowid = 0
	c.eof = false

	if c.table.header {
		if _, err := c.r.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				c.eof = true
				return nil
			}
			return fmt.Errorf("csv: %s: %w", c.table.filename, err)
		}
	}
	return c.Next()
}

func (c *cursor) Next() error {
	row, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		c.eof = true
		c.row = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("csv: %s: %w", c.table.filename, err)
	}
	c.row = row
	c.rowid++
	return nil
}

func (c *cursor) Eof() bool {
	return c.eof
}

// Column returns the field as TEXT, or NULL when the row is shorter than
// the declared columns.
func (c *cursor) Column(col int) (vtab.Value, error) {
	if col < 0 || col >= len(c.row) {
		return nil, nil
	}
	return c.row[col], nil
}

func (c *cursor) Rowid() (int64, error) {
	return c.rowid, nil
}

func (c *cursor) Close() error {
	return c.closeFile()
}

func (c *cursor) closeFile() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file, c.r, c.row = nil, nil, nil
	return err
}
