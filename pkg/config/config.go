package config

import (
	"context"
	"regexp"

	"github.com/faultline/faultline/pkg/codec"
	"github.com/faultline/faultline/pkg/config/definition"
)

// Options is the raw option map supplied by the caller. Keys unknown to the
// option table cause validation to fail, all reported together.
type Options map[string]any

// AcceptAllEnvironments is the type of the accept-all sentinel, re-exported
// so callers never need to import the definition package.
type AcceptAllEnvironments = definition.AcceptAllEnvironments

// AllEnvironments is the sentinel for included_environments meaning events
// are reported regardless of the running environment.
var AllEnvironments = definition.AllEnvironments

// Config is the typed view of a validated configuration record.
type Config struct {
	DSN                   string  `koanf:"dsn"`
	Release               string  `koanf:"release"`
	Environment           string  `koanf:"environment"`
	ServerName            string  `koanf:"server_name"`
	SampleRate            float64 `koanf:"sample_rate"              validate:"min=0,max=1"`
	LogLevel              string  `koanf:"log_level"                validate:"oneof=debug info warn error"`
	MaxBreadcrumbs        int     `koanf:"max_breadcrumbs"          validate:"min=0"`
	ReportDeps            bool    `koanf:"report_deps"`
	SourceCodePathPattern string  `koanf:"source_code_path_pattern" validate:"glob"`
	ContextLines          int     `koanf:"context_lines"            validate:"min=0"`

	// Non-scalar options are attached outside the koanf unmarshal pass.
	IncludedEnvironments      []string          `koanf:"-"`
	AllEnvironmentsIncluded   bool              `koanf:"-"`
	SourceCodeExcludePatterns []*regexp.Regexp  `koanf:"-"`
	JSONCodec                 codec.Codec       `koanf:"-"`
	BeforeSend                Hook              `koanf:"-"`
	Extra                     any               `koanf:"-"`
}

// AcceptsEnvironment reports whether the legacy environment allow-list
// permits reporting from the named environment.
func (c *Config) AcceptsEnvironment(name string) bool {
	if c.AllEnvironmentsIncluded {
		return true
	}
	for _, env := range c.IncludedEnvironments {
		if env == name {
			return true
		}
	}
	return false
}

// SourceType identifies where a configuration value came from.
type SourceType string

const (
	SourceOverride SourceType = "override"
	SourceEnv      SourceType = "env"
	SourceDefault  SourceType = "default"
)

// Service defines the configuration validation service interface.
type Service interface {
	// Load validates the supplied options merged with environment values
	// and defaults, producing an immutable record.
	Load(ctx context.Context, opts Options) (*Record, error)
	// Validate checks a typed configuration against the struct-level rules.
	Validate(cfg *Config) error
	// CheckOption validates a single value against its option's shape and
	// returns the normalized value.
	CheckOption(name string, value any) (any, error)
	// Realize rebuilds the typed view for an already-checked value map.
	Realize(values map[string]any) (*Config, error)
}

// Record is the immutable result of one validation pass: every recognized
// option mapped to its validated (or defaulted) value, the typed view, the
// per-option value source, and any advisory diagnostics.
type Record struct {
	typed   *Config
	values  map[string]any
	order   []string
	sources map[string]SourceType
	diags   []Diagnostic
}

// Config returns the typed view of the record.
func (r *Record) Config() *Config {
	return r.typed
}

// Get returns the validated value for an option name, or nil when the name
// is not part of the record.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// Lookup returns the validated value and whether the option is part of the
// record.
func (r *Record) Lookup(name string) (any, bool) {
	value, ok := r.values[name]
	return value, ok
}

// Keys returns the record's option names in table declaration order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Source returns which source supplied an option's value.
func (r *Record) Source(name string) SourceType {
	if source, ok := r.sources[name]; ok {
		return source
	}
	return SourceDefault
}

// Diagnostics returns the advisory notices produced while validating.
func (r *Record) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// Load validates options using a fresh default service.
// This is a convenience function for simple one-shot validation.
func Load(ctx context.Context, opts Options) (*Record, error) {
	return NewService().Load(ctx, opts)
}

// Default returns a Config carrying every option's default value. No
// environment variables are consulted.
func Default() *Config {
	registry := definition.CreateRegistry()
	cfg := &Config{
		DSN:                   getString(registry, "dsn"),
		Release:               getString(registry, "release"),
		Environment:           getString(registry, "environment"),
		ServerName:            getString(registry, "server_name"),
		SampleRate:            getFloat(registry, "sample_rate"),
		LogLevel:              getString(registry, "log_level"),
		MaxBreadcrumbs:        getInt(registry, "max_breadcrumbs"),
		ReportDeps:            getBool(registry, "report_deps"),
		SourceCodePathPattern: getString(registry, "source_code_path_pattern"),
		ContextLines:          getInt(registry, "context_lines"),
	}
	cfg.SourceCodeExcludePatterns = getPatterns(registry, "source_code_exclude_patterns")
	if c, ok := registry.GetDefault("json_codec").(codec.Codec); ok {
		cfg.JSONCodec = c
	}
	if _, ok := registry.GetDefault("included_environments").(definition.AcceptAllEnvironments); ok {
		cfg.AllEnvironmentsIncluded = true
	}
	return cfg
}

// Helper functions for type-safe registry access
func getString(registry *definition.Registry, name string) string {
	if s, ok := registry.GetDefault(name).(string); ok {
		return s
	}
	return ""
}

func getFloat(registry *definition.Registry, name string) float64 {
	if f, ok := registry.GetDefault(name).(float64); ok {
		return f
	}
	return 0
}

func getInt(registry *definition.Registry, name string) int {
	if i, ok := registry.GetDefault(name).(int); ok {
		return i
	}
	return 0
}

func getBool(registry *definition.Registry, name string) bool {
	if b, ok := registry.GetDefault(name).(bool); ok {
		return b
	}
	return false
}

func getPatterns(registry *definition.Registry, name string) []*regexp.Regexp {
	if patterns, ok := registry.GetDefault(name).([]*regexp.Regexp); ok {
		out := make([]*regexp.Regexp, len(patterns))
		copy(out, patterns)
		return out
	}
	return nil
}
