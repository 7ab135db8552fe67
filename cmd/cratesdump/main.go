// Package main provides the entry point for the cratesdump CLI.
//
// cratesdump downloads the crates.io database dump, extracts the requested
// CSV files and loads them into a local SQLite database.
//
// Usage:
//
//	cratesdump update --minimal
//	cratesdump query "SELECT name FROM crates ORDER BY downloads DESC LIMIT 10"
//
// See --help for all available options.
package main

// main is the entry point for cratesdump.
func main() {
	Execute()
}
