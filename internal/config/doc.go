// Package config provides configuration structures and utilities for cratesdump.
// It defines the dump location, the requested tables, the extraction directory
// and the download cache settings, along with their defaults and the
// YAML/TOML configuration file format.
package config
