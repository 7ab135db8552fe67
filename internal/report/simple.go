package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/nao1215/cratesdump/internal/model"
)

// SimpleWriter outputs results as an aligned text table:
//
//	id | name
//	---+------
//	3  | awooo
//	(1 row)
//
// Column widths are measured in terminal cells, so wide characters in
// crate descriptions stay aligned.
type SimpleWriter struct {
	baseWriter

	// showCount appends the "(N rows)" footer.
	showCount bool

	// maxWidth truncates cells wider than this many cells. Zero disables it.
	maxWidth int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithRowCount controls the "(N rows)" footer.
func WithRowCount(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showCount = show
	}
}

// WithMaxWidth truncates cells wider than width terminal cells.
func WithMaxWidth(width int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxWidth = width
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showCount:  true,
		maxWidth:   0,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result as a text table.
func (w *SimpleWriter) Write(result *model.ResultSet) (int, error) {
	rows := result.StringRows()
	for _, row := range rows {
		for i, cell := range row {
			row[i] = w.cell(cell)
		}
	}

	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	var sb strings.Builder
	w.writeRow(&sb, result.Columns, widths)
	w.writeSeparator(&sb, widths)
	for _, row := range rows {
		w.writeRow(&sb, row, widths)
	}
	if w.showCount {
		sb.WriteString("(" + rowCount(len(rows)) + ")\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// cell flattens line breaks and applies the width limit.
func (w *SimpleWriter) cell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if w.maxWidth > 0 && runewidth.StringWidth(s) > w.maxWidth {
		s = runewidth.Truncate(s, w.maxWidth, "...")
	}
	return s
}

func (w *SimpleWriter) writeRow(sb *strings.Builder, cells []string, widths []int) {
	for i, width := range widths {
		if i > 0 {
			sb.WriteString(" | ")
		}
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			// No trailing padding on the last column.
			sb.WriteString(cell)
			continue
		}
		sb.WriteString(runewidth.FillRight(cell, width))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSeparator(sb *strings.Builder, widths []int) {
	for i, width := range widths {
		if i > 0 {
			sb.WriteString("-+-")
		}
		sb.WriteString(strings.Repeat("-", width))
	}
	sb.WriteString("\n")
}
