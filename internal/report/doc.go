// Package report writes query results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: aligned text table for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown table
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably by the query command.
package report
