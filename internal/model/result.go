package model

import (
	"fmt"
	"strconv"
	"time"
)

// NullText is how a SQL NULL is rendered in text output.
const NullText = "NULL"

// ResultSet holds the rows returned by a query, in query order.
//
// Values keep the Go type the driver returned them as (int64, float64,
// string, time.Time or nil); []byte values are converted to string when
// the row is appended.
type ResultSet struct {
	// Columns are the result column names.
	Columns []string `json:"columns"`

	// Rows are the result rows. Every row has len(Columns) values.
	Rows [][]any `json:"rows"`
}

// NewResultSet creates an empty ResultSet with the given columns.
func NewResultSet(columns []string) *ResultSet {
	return &ResultSet{
		Columns: columns,
		Rows:    make([][]any, 0),
	}
}

// Append adds a row. Byte slices are copied into strings, since drivers may
// reuse the buffers between rows.
func (r *ResultSet) Append(row []any) {
	values := make([]any, len(row))
	for i, v := range row {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		values[i] = v
	}
	r.Rows = append(r.Rows, values)
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	return len(r.Rows)
}

// IsEmpty reports whether the result has no rows.
func (r *ResultSet) IsEmpty() bool {
	return len(r.Rows) == 0
}

// StringRows returns every row rendered with FormatValue.
func (r *ResultSet) StringRows() [][]string {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = FormatValue(v)
		}
	}
	return rows
}

// Records returns every row as a column name to value map.
// Duplicate column names keep the last value.
func (r *ResultSet) Records() []map[string]any {
	records := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		rec := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			if j < len(row) {
				rec[col] = row[j]
			}
		}
		records[i] = rec
	}
	return records
}

// FormatValue renders a single value for text output.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return NullText
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
