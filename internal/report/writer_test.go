package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/cratesdump/internal/model"
)

// createTestResult creates a result with sample data for testing.
func createTestResult() *model.ResultSet {
	result := model.NewResultSet([]string{"id", "name", "description"})
	result.Append([]any{int64(3), "awooo", nil})
	result.Append([]any{int64(42), "serde", "A generic serialization framework"})
	return result
}

// TestSimpleWriter tests the text table writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("aligns columns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		result := model.NewResultSet([]string{"id", "name"})
		result.Append([]any{int64(3), "awooo"})

		if _, err := NewSimpleWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "id | name\n" +
			"---+------\n" +
			"3  | awooo\n" +
			"(1 row)\n"
		if buf.String() != want {
			t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
		}
	})

	t.Run("renders NULL and counts rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "NULL") {
			t.Error("expected NULL in output")
		}
		if !strings.HasSuffix(output, "(2 rows)\n") {
			t.Errorf("expected row count footer, got %q", output)
		}
	})

	t.Run("row count can be hidden", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithRowCount(false)).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "rows)") {
			t.Error("row count must not be written")
		}
	})

	t.Run("wide characters keep alignment", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		result := model.NewResultSet([]string{"name", "id"})
		result.Append([]any{"日本", int64(1)})
		result.Append([]any{"ab", int64(2)})

		if _, err := NewSimpleWriter(&buf, WithRowCount(false)).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		want := []string{
			"name | id",
			"-----+---",
			"日本 | 1",
			"ab   | 2",
		}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %q", len(want), lines)
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
			}
		}
	})

	t.Run("long cells are truncated", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithMaxWidth(10)).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "serialization") {
			t.Error("expected long cell to be truncated")
		}
		if !strings.Contains(buf.String(), "...") {
			t.Error("expected truncation marker")
		}
	})

	t.Run("line breaks are flattened", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		result := model.NewResultSet([]string{"text"})
		result.Append([]any{"a\nb"})

		if _, err := NewSimpleWriter(&buf, WithRowCount(false)).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "a b") {
			t.Errorf("expected flattened cell, got %q", buf.String())
		}
	})

	t.Run("empty result writes header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(model.NewResultSet([]string{"id"})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "id\n--\n(0 rows)\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes columns and rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Columns []string `json:"columns"`
			Rows    [][]any  `json:"rows"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Columns) != 3 || decoded.Columns[1] != "name" {
			t.Errorf("unexpected columns %v", decoded.Columns)
		}
		if len(decoded.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(decoded.Rows))
		}
		if decoded.Rows[0][0] != float64(3) || decoded.Rows[0][2] != nil {
			t.Errorf("unexpected first row %v", decoded.Rows[0])
		}
	})

	t.Run("compact output is one line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected a single line, got %q", buf.String())
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"columns\"") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
	})

	t.Run("records are keyed by column", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithRecords()).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[1]["name"] != "serde" {
			t.Errorf("unexpected records %v", decoded)
		}
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(model.NewResultSet([]string{"id"})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"rows":[]`) {
			t.Errorf("expected empty rows array, got %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewMarkdownWriter(&buf).Write(createTestResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected bytes written")
		}

		output := buf.String()
		for _, want := range []string{"awooo", "serde", "NULL", "*2 rows*", "|"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("title becomes a heading", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, WithTitle("Top crates")).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "# Top crates") {
			t.Errorf("expected heading, got %q", buf.String())
		}
	})
}

func TestEscapeCell(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"plain":  "plain",
		"a|b":    `a\|b`,
		"a\nb":   "a<br>b",
		"a\r\nb": "a<br>b",
	}
	for in, want := range tests {
		if got := escapeCell(in); got != want {
			t.Errorf("escapeCell(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRowCount(t *testing.T) {
	t.Parallel()

	if got := rowCount(1); got != "1 row" {
		t.Errorf("unexpected %q", got)
	}
	if got := rowCount(0); got != "0 rows" {
		t.Errorf("unexpected %q", got)
	}
}
