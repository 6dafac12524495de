// Package config loads the core's external configuration (spec §6):
// dialect selection, catalog connection, schema visibility, and
// per-request timeouts. Configuration loading itself is an "external
// collaborator" per spec.md's Non-goals list, but the typed struct it
// loads into is part of the core's public surface the facade consumes.
package config

import (
	"fmt"

	"gopkg.in/yaml.v2"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// ErrInvalidDialect is returned by Load/Validate when the configured
// dialect name is not one of the closed dialect tags.
var ErrInvalidDialect = errors.NewKind("invalid dialect: %q")

// DefaultQueryTimeoutSeconds is used when catalog.query_timeout_seconds
// is zero or absent, mirroring the teacher's zero-value-means-default
// convention for Config fields.
const DefaultQueryTimeoutSeconds = 30

// SchemaFilter restricts which catalog schemas are visible to
// completion (spec §6 "schema_filter.allowed_schemas").
type SchemaFilter struct {
	AllowedSchemas []string `yaml:"allowed_schemas"`
}

// Allows reports whether schema should be visible to completion. An
// empty AllowedSchemas list means no filtering: every schema is
// visible, matching the "unlisted schemas hidden" wording's implicit
// converse (a filter that lists nothing hides nothing).
func (f SchemaFilter) Allows(schema string) bool {
	if len(f.AllowedSchemas) == 0 {
		return true
	}
	for _, s := range f.AllowedSchemas {
		if s == schema {
			return true
		}
	}
	return false
}

// CatalogConfig holds the per-request catalog timeout (spec §6
// "catalog.query_timeout_seconds").
type CatalogConfig struct {
	QueryTimeoutSeconds int `yaml:"query_timeout_seconds"`
}

// Config is the typed form of spec §6's configuration options, the
// shape a client-sent settings blob or a YAML/JSON file on disk both
// decode into. Field naming mirrors the teacher's own Config struct in
// engine.go (VersionPostfix, IsReadOnly): plain exported fields with a
// one-line doc comment each, no builder pattern.
type Config struct {
	// Dialect is one of {mysql, postgresql, tidb, mariadb, cockroachdb},
	// case-insensitive on input.
	Dialect string `yaml:"dialect"`
	// Version is the dialect version string; optional. It is loaded
	// with the rest of the config, but nothing in the core reads it.
	Version string `yaml:"version"`
	// ConnectionString is a driver-specific URI. Empty selects the
	// static/mock catalog instead of a live connection.
	ConnectionString string `yaml:"connection_string"`
	// SchemaFilter restricts visible schemas.
	SchemaFilter SchemaFilter `yaml:"schema_filter"`
	// Catalog holds catalog-adapter tunables.
	Catalog CatalogConfig `yaml:"catalog"`
}

// ResolvedDialect parses Dialect into the closed dialect.Dialect tag.
func (c Config) ResolvedDialect() dialect.Dialect {
	return dialect.Parse(c.Dialect)
}

// QueryTimeoutSeconds returns the configured catalog timeout, or
// DefaultQueryTimeoutSeconds if unset.
func (c Config) QueryTimeoutSeconds() int {
	if c.Catalog.QueryTimeoutSeconds <= 0 {
		return DefaultQueryTimeoutSeconds
	}
	return c.Catalog.QueryTimeoutSeconds
}

// UsesLiveCatalog reports whether c names a live connection string
// rather than falling back to the static/mock catalog.
func (c Config) UsesLiveCatalog() bool {
	return c.ConnectionString != ""
}

// Load decodes a YAML (or YAML-compatible JSON) configuration document
// and validates it. An unrecognized dialect is an unrecoverable startup
// error per spec §6 "Exit codes (CLI server)".
func Load(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether cfg's dialect is one of the closed tags.
// Dialect is required: there is no reasonable default grammar to fall
// back to.
func Validate(cfg Config) error {
	if cfg.ResolvedDialect() == dialect.Unknown {
		return ErrInvalidDialect.New(cfg.Dialect)
	}
	return nil
}
