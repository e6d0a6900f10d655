package definition

import (
	"os"
	"regexp"
	"runtime/debug"

	"github.com/faultline/faultline/pkg/codec"
)

// AcceptAllEnvironments is the sentinel value for included_environments
// meaning events are reported regardless of the running environment.
type AcceptAllEnvironments struct{}

// AllEnvironments is the default for the deprecated included_environments
// option.
var AllEnvironments = AcceptAllEnvironments{}

// DefaultExcludePatterns are the source paths never used for source-code
// context: build output, vendored dependencies, fixtures, and tests.
var DefaultExcludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/_build/`),
	regexp.MustCompile(`/vendor/`),
	regexp.MustCompile(`/testdata/`),
	regexp.MustCompile(`_test\.go$`),
}

// CreateRegistry creates and populates the option registry.
// This is the single source of truth for all option shapes and defaults.
func CreateRegistry() *Registry {
	registry := NewRegistry()
	registerReportingOptions(registry)
	registerSamplingOptions(registry)
	registerSourceContextOptions(registry)
	registerHookOptions(registry)
	return registry
}

func registerReportingOptions(registry *Registry) {
	registry.Register(&OptionDef{
		Name:    "dsn",
		Kind:    KindDSN,
		Default: "",
		EnvVar:  "FAULTLINE_DSN",
		Help:    "Connection string for the collector; empty disables reporting",
	})
	registry.Register(&OptionDef{
		Name:        "release",
		Kind:        KindString,
		DefaultFunc: defaultRelease,
		EnvVar:      "FAULTLINE_RELEASE",
		Help:        "Release identifier attached to events; derived from build info when unset",
	})
	registry.Register(&OptionDef{
		Name:    "environment",
		Kind:    KindString,
		Default: "production",
		EnvVar:  "FAULTLINE_ENVIRONMENT",
		Help:    "Environment name attached to events",
	})
	registry.Register(&OptionDef{
		Name:        "server_name",
		Kind:        KindString,
		DefaultFunc: defaultServerName,
		EnvVar:      "FAULTLINE_SERVER_NAME",
		Help:        "Server name attached to events; defaults to the hostname",
	})
	registry.Register(&OptionDef{
		Name:       "included_environments",
		Kind:       KindEnvList,
		Default:    AllEnvironments,
		ReplacedBy: "environment",
		Help:       "Deprecated allow-list of reporting environments",
	})
}

func registerSamplingOptions(registry *Registry) {
	registry.Register(&OptionDef{
		Name:    "sample_rate",
		Kind:    KindFloatRange,
		Default: 1.0,
		Min:     0.0,
		Max:     1.0,
		Help:    "Fraction of events to report, between 0.0 and 1.0 inclusive",
	})
	registry.Register(&OptionDef{
		Name:    "log_level",
		Kind:    KindEnum,
		Default: "warn",
		Enum:    []string{"debug", "info", "warn", "error"},
		Help:    "Level used when the client logs its own diagnostics",
	})
	registry.Register(&OptionDef{
		Name:    "max_breadcrumbs",
		Kind:    KindInt,
		Default: 100,
		Min:     0,
		Help:    "Maximum breadcrumbs retained per event",
	})
	registry.Register(&OptionDef{
		Name:    "report_deps",
		Kind:    KindBool,
		Default: true,
		Help:    "Attach the module dependency list to events",
	})
}

func registerSourceContextOptions(registry *Registry) {
	registry.Register(&OptionDef{
		Name:    "source_code_path_pattern",
		Kind:    KindGlob,
		Default: "**/*.go",
		Help:    "Glob selecting source files eligible for context extraction",
	})
	registry.Register(&OptionDef{
		Name:    "source_code_exclude_patterns",
		Kind:    KindPatternList,
		Default: DefaultExcludePatterns,
		Help:    "Compiled patterns excluding paths from context extraction",
	})
	registry.Register(&OptionDef{
		Name:    "context_lines",
		Kind:    KindInt,
		Default: 3,
		Min:     0,
		Help:    "Lines of source context captured around a frame",
	})
}

func registerHookOptions(registry *Registry) {
	registry.Register(&OptionDef{
		Name:    "json_codec",
		Kind:    KindCodec,
		Default: codec.JSON{},
		Help:    "Value exposing the encode/decode capability used for event payloads",
	})
	registry.Register(&OptionDef{
		Name: "before_send",
		Kind: KindHook,
		Help: "Hook invoked with each event before it is handed to the transport",
	})
	registry.Register(&OptionDef{
		Name:       "before_send_event",
		Kind:       KindHook,
		ReplacedBy: "before_send",
		Help:       "Deprecated alias for before_send",
	})
	registry.Register(&OptionDef{
		Name: "extra",
		Kind: KindAny,
		Help: "Free-form value attached to every event; no shape check",
	})
}

// defaultRelease derives a release identifier from the binary's build
// information, preferring the VCS revision over the module version.
func defaultRelease() any {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			return setting.Value
		}
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return ""
}

func defaultServerName() any {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}
