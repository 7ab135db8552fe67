package config

import (
	"fmt"
	"time"
)

// CacheFile holds the download cache section of the configuration file.
type CacheFile struct {
	// Dir overrides the cache directory.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`

	// Offline forbids network access when true.
	Offline bool `yaml:"offline,omitempty" toml:"offline,omitempty"`

	// Freshness is a Go duration string such as "24h".
	Freshness string `yaml:"freshness,omitempty" toml:"freshness,omitempty"`

	// Proxy is an http, https or socks5 proxy URL.
	Proxy string `yaml:"proxy,omitempty" toml:"proxy,omitempty"`
}

// File represents the structure of the .cratesdump configuration file.
// Zero values mean "keep the current setting".
type File struct {
	// Resource is the dump URL or local archive path.
	Resource string `yaml:"resource,omitempty" toml:"resource,omitempty"`

	// Destination is the extraction directory.
	Destination string `yaml:"destination,omitempty" toml:"destination,omitempty"`

	// Tables replaces the requested table list.
	Tables []string `yaml:"tables,omitempty" toml:"tables,omitempty"`

	// Minimal selects MinimalTables(). Ignored when Tables is set.
	Minimal bool `yaml:"minimal,omitempty" toml:"minimal,omitempty"`

	// Preload is a pointer so that an explicit false can be told apart from
	// an absent key.
	Preload *bool `yaml:"preload,omitempty" toml:"preload,omitempty"`

	// Schemas maps table names to explicit CREATE TABLE statements.
	Schemas map[string]string `yaml:"schemas,omitempty" toml:"schemas,omitempty"`

	// Cache configures the download cache.
	Cache CacheFile `yaml:"cache,omitempty" toml:"cache,omitempty"`
}

// Apply copies every value set in the file onto cfg.
// Schemas are merged; a file entry replaces an existing entry for the same table.
func (f *File) Apply(cfg *Config) error {
	if f.Resource != "" {
		cfg.Resource = f.Resource
	}
	if f.Destination != "" {
		cfg.Destination = f.Destination
	}
	switch {
	case len(f.Tables) > 0:
		cfg.Tables = append([]string(nil), f.Tables...)
	case f.Minimal:
		cfg.Tables = MinimalTables()
	}
	if f.Preload != nil {
		cfg.Preload = *f.Preload
	}
	if len(f.Schemas) > 0 {
		if cfg.Schemas == nil {
			cfg.Schemas = make(map[string]string, len(f.Schemas))
		}
		for table, schema := range f.Schemas {
			cfg.Schemas[table] = schema
		}
	}

	if f.Cache.Dir != "" {
		cfg.CacheDir = f.Cache.Dir
	}
	if f.Cache.Offline {
		cfg.Offline = true
	}
	if f.Cache.Freshness != "" {
		d, err := time.ParseDuration(f.Cache.Freshness)
		if err != nil {
			return fmt.Errorf("invalid cache.freshness %q: %w", f.Cache.Freshness, err)
		}
		cfg.FreshnessLifetime = d
	}
	if f.Cache.Proxy != "" {
		cfg.Proxy = f.Cache.Proxy
	}
	return nil
}
