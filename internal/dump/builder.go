package dump

import (
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"

	"github.com/nao1215/cratesdump/internal/config"
	"github.com/nao1215/cratesdump/internal/fetch"
)

// Builder collects the loader settings. Setters return the builder so
// calls can be chained; nothing is checked until Build.
//
//	loader, err := dump.NewBuilder().
//		Minimal().
//		Destination("data").
//		Preload(true).
//		Build()
type Builder struct {
	cfg    *config.Config
	cache  *fetch.Cache
	logger *slog.Logger
	err    error
}

// NewBuilder returns a builder holding the default configuration.
func NewBuilder() *Builder {
	return FromConfig(config.NewConfig())
}

// FromConfig returns a builder initialized from cfg. cfg is copied, so
// later changes to it do not affect the builder.
func FromConfig(cfg *config.Config) *Builder {
	c := *cfg
	c.Tables = append([]string(nil), cfg.Tables...)
	c.Schemas = maps.Clone(cfg.Schemas)
	if c.Schemas == nil {
		c.Schemas = make(map[string]string)
	}
	return &Builder{cfg: &c}
}

// Resource sets the URL or local path of the dump archive.
func (b *Builder) Resource(resource string) *Builder {
	b.cfg.Resource = resource
	return b
}

// Files sets the requested files by file name, such as "crates.csv".
// The table name is the file name without its extension. Every table is
// read from a .csv file, so Build rejects any other extension.
func (b *Builder) Files(files ...string) *Builder {
	tables := make([]string, len(files))
	b.err = nil
	for i, f := range files {
		if ext := filepath.Ext(f); ext != "" && ext != config.TableFileExtension {
			b.err = fmt.Errorf("%w: %s", ErrUnsupportedFile, f)
		}
		tables[i] = tableName(f)
	}
	b.cfg.Tables = tables
	return b
}

// Tables sets the requested tables by table name.
func (b *Builder) Tables(tables ...string) *Builder {
	b.err = nil
	b.cfg.Tables = append([]string(nil), tables...)
	return b
}

// Minimal requests only crates, dependencies and versions.
func (b *Builder) Minimal() *Builder {
	b.err = nil
	b.cfg.Tables = config.MinimalTables()
	return b
}

// TableSchema declares the columns of table with an explicit CREATE TABLE
// statement instead of inferring them from the CSV header row.
func (b *Builder) TableSchema(table, schema string) *Builder {
	b.cfg.Schemas[table] = schema
	return b
}

// Destination sets the directory the files are extracted into.
func (b *Builder) Destination(dir string) *Builder {
	b.cfg.Destination = dir
	return b
}

// Cache sets the cache used to resolve the resource. Without it Build
// creates one from the cache settings of the configuration.
func (b *Builder) Cache(cache *fetch.Cache) *Builder {
	b.cache = cache
	return b
}

// Preload materializes every virtual table into a native table on load.
func (b *Builder) Preload(preload bool) *Builder {
	b.cfg.Preload = preload
	return b
}

// Logger sets the logger. The default is slog.Default().
func (b *Builder) Logger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the settings and returns a Loader.
func (b *Builder) Build() (*Loader, error) {
	if b.err != nil {
		return nil, fmt.Errorf("invalid loader configuration: %w", b.err)
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid loader configuration: %w", err)
	}

	dest, err := filepath.Abs(b.cfg.Destination)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve destination: %w", ErrIO, err)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	cache := b.cache
	if cache == nil {
		cache, err = fetch.New(
			fetch.WithDir(b.cfg.CacheDir),
			fetch.WithOffline(b.cfg.Offline),
			fetch.WithFreshnessLifetime(b.cfg.FreshnessLifetime),
			fetch.WithProxy(b.cfg.Proxy),
			fetch.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to set up cache: %w", ErrNotFound, err)
		}
	}

	return &Loader{
		resource:    b.cfg.Resource,
		tables:      append([]string(nil), b.cfg.Tables...),
		destination: dest,
		schemas:     maps.Clone(b.cfg.Schemas),
		preload:     b.cfg.Preload,
		cache:       cache,
		logger:      logger,
	}, nil
}

// tableName strips the extension from a file name.
func tableName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// fileName returns the data file name of a table.
func fileName(table string) string {
	return table + config.TableFileExtension
}
