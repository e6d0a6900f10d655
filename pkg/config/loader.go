package config

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"

	"github.com/faultline/faultline/pkg/codec"
	"github.com/faultline/faultline/pkg/config/definition"
)

// loader implements the Service interface for configuration validation.
type loader struct {
	registry  *definition.Registry
	validator *validator.Validate
}

// NewService creates a new configuration service backed by the option table.
func NewService() Service {
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		// Registration only fails on programmer error (empty tag name).
		panic(fmt.Sprintf("config: registering custom validators: %v", err))
	}
	return &loader{
		registry:  definition.CreateRegistry(),
		validator: v,
	}
}

// Load validates the supplied options merged with environment values and
// defaults.
//
// Unknown option names are all reported together before anything else runs.
// After deprecation rewriting, each option is resolved and shape-checked in
// table declaration order; the first shape violation aborts the pass.
func (l *loader) Load(_ context.Context, opts Options) (*Record, error) {
	var unknown []string
	for key := range opts {
		if _, ok := l.registry.GetOption(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if err := unknownOptionsError(unknown); err != nil {
		return nil, err
	}

	resolved, diags, err := resolveDeprecations(l.registry, opts)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any)
	sources := make(map[string]SourceType)
	order := make([]string, 0, len(l.registry.Names()))
	for _, name := range l.registry.Names() {
		def, _ := l.registry.GetOption(name)
		if def.Deprecated() && def.Kind != definition.KindEnvList {
			// Alias slots were folded into their replacement above.
			continue
		}
		raw, source := resolveValue(&def, resolved)
		checked, err := checkOption(&def, raw)
		if err != nil {
			return nil, err
		}
		values[name] = checked
		sources[name] = source
		order = append(order, name)
	}

	cfg, err := l.Realize(values)
	if err != nil {
		return nil, err
	}

	return &Record{
		typed:   cfg,
		values:  values,
		order:   order,
		sources: sources,
		diags:   diags,
	}, nil
}

// resolveValue picks the raw value for one option: explicit override first,
// then the declared environment variable, then the default.
func resolveValue(def *definition.OptionDef, resolved Options) (any, SourceType) {
	if value, ok := resolved[def.Name]; ok {
		return value, SourceOverride
	}
	if def.EnvVar != "" {
		if value, ok := os.LookupEnv(def.EnvVar); ok {
			return value, SourceEnv
		}
	}
	return def.ResolveDefault(), SourceDefault
}

// CheckOption validates a single value against its option's declared shape
// and returns the normalized value.
func (l *loader) CheckOption(name string, value any) (any, error) {
	def, ok := l.registry.GetOption(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOption, name)
	}
	return checkOption(&def, value)
}

// Realize builds and validates the typed view for an already-checked flat
// value map. Scalar options unmarshal through koanf; non-scalar values
// attach directly.
func (l *loader) Realize(values map[string]any) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawMap(values), nil); err != nil {
		return nil, fmt.Errorf("failed to load values: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	attachNonScalars(&cfg, values)

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// attachNonScalars carries hook, codec, pattern, and allow-list values into
// the typed view. These never pass through the unmarshal step.
func attachNonScalars(cfg *Config, values map[string]any) {
	if patterns, ok := values["source_code_exclude_patterns"].([]*regexp.Regexp); ok {
		cfg.SourceCodeExcludePatterns = patterns
	}
	switch v := values["included_environments"].(type) {
	case definition.AcceptAllEnvironments:
		cfg.AllEnvironmentsIncluded = true
	case []string:
		cfg.IncludedEnvironments = v
	}
	if c, ok := values["json_codec"].(codec.Codec); ok {
		cfg.JSONCodec = c
	}
	if hook, ok := values["before_send"].(Hook); ok {
		cfg.BeforeSend = hook
	}
	if extra, ok := values["extra"]; ok {
		cfg.Extra = extra
	}
}

// Validate checks if the configuration meets all struct-level requirements.
func (l *loader) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := l.validator.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := validateCustom(cfg); err != nil {
		return fmt.Errorf("custom validation failed: %w", err)
	}
	return nil
}

// validateCustom performs validation beyond struct tags.
func validateCustom(cfg *Config) error {
	if cfg.DSN != "" {
		if _, err := ParseDSN(cfg.DSN); err != nil {
			return err
		}
	}
	if cfg.JSONCodec == nil {
		return fmt.Errorf("json_codec cannot be nil")
	}
	return nil
}

// ensure the default codec type keeps satisfying the capability
var _ codec.Codec = codec.JSON{}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not implemented")
}
