package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/cratesdump/internal/model"
)

// MarkdownWriter outputs results as a GitHub-flavored Markdown table,
// ready to paste into an issue or a README.
type MarkdownWriter struct {
	baseWriter

	// title is written as a level 1 heading when not empty.
	title string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithTitle adds a heading above the table.
func WithTitle(title string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.title = title
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.ResultSet) (int, error) {
	md := markdown.NewMarkdown(w.output)

	if w.title != "" {
		md.H1(w.title)
		md.PlainText("")
	}

	header := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = escapeCell(col)
	}
	rows := result.StringRows()
	for _, row := range rows {
		for i, cell := range row {
			row[i] = escapeCell(cell)
		}
	}

	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("*%s*", rowCount(len(rows)))

	return len(md.String()), md.Build()
}

// escapeCell keeps a value inside its table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	return strings.ReplaceAll(s, "\n", "<br>")
}
