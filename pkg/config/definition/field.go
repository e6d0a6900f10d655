package definition

// Kind identifies the shape an option value must satisfy.
type Kind int

const (
	// KindString accepts any string.
	KindString Kind = iota
	// KindDSN accepts a DSN string (URL without query parameters).
	KindDSN
	// KindEnum accepts one of a fixed set of strings.
	KindEnum
	// KindGlob accepts a doublestar glob pattern string.
	KindGlob
	// KindPatternList accepts a list of compiled regular expressions.
	KindPatternList
	// KindEnvList accepts a list of environment names or the accept-all sentinel.
	KindEnvList
	// KindFloatRange accepts a float within an inclusive [Min, Max] range.
	KindFloatRange
	// KindInt accepts an integer greater than or equal to Min.
	KindInt
	// KindBool accepts a boolean.
	KindBool
	// KindCodec accepts a value exposing the encode/decode capability.
	KindCodec
	// KindHook accepts a before-send hook reference.
	KindHook
	// KindAny accepts any value without a shape check.
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDSN:
		return "dsn"
	case KindEnum:
		return "enum"
	case KindGlob:
		return "glob pattern"
	case KindPatternList:
		return "list of compiled patterns"
	case KindEnvList:
		return "list of environment names"
	case KindFloatRange:
		return "float in range"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindCodec:
		return "codec"
	case KindHook:
		return "before-send hook"
	default:
		return "any"
	}
}

// OptionDef defines a configuration option with its metadata.
// The table built from these definitions is the single source of truth
// for option names, shapes, defaults, and environment sourcing.
type OptionDef struct {
	Name        string     // Option name like "sample_rate"
	Kind        Kind       // Expected value shape
	Default     any        // Literal default value
	DefaultFunc func() any // Computed default; takes precedence over Default when set
	EnvVar      string     // Environment variable consulted when the option is absent
	Enum        []string   // Allowed values for KindEnum
	Min         float64    // Lower bound for KindFloatRange and KindInt
	Max         float64    // Upper bound for KindFloatRange
	ReplacedBy  string     // Current option name when this one is a deprecated alias
	Help        string     // Help text for CLI output
}

// Deprecated reports whether the option is a deprecated alias for another.
func (d *OptionDef) Deprecated() bool {
	return d.ReplacedBy != ""
}

// ResolveDefault returns the option's default value, computing it when needed.
func (d *OptionDef) ResolveDefault() any {
	if d.DefaultFunc != nil {
		return d.DefaultFunc()
	}
	return d.Default
}

// Registry holds all option definitions in declaration order.
// Declaration order is also validation order.
type Registry struct {
	order  []string
	fields map[string]OptionDef
}

// NewRegistry creates an empty option registry.
func NewRegistry() *Registry {
	return &Registry{
		fields: make(map[string]OptionDef),
	}
}

// Register adds an option definition to the registry.
func (r *Registry) Register(field *OptionDef) {
	if _, exists := r.fields[field.Name]; !exists {
		r.order = append(r.order, field.Name)
	}
	r.fields[field.Name] = *field
}

// GetOption returns an option definition by name.
func (r *Registry) GetOption(name string) (OptionDef, bool) {
	field, exists := r.fields[name]
	return field, exists
}

// Names returns all option names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// GetDefault returns the resolved default value for an option name.
func (r *Registry) GetDefault(name string) any {
	if field, exists := r.fields[name]; exists {
		return field.ResolveDefault()
	}
	return nil
}

// EnvMapping returns a map of environment variable names to option names
// for every option that declares an environment source.
func (r *Registry) EnvMapping() map[string]string {
	mapping := make(map[string]string)
	for _, name := range r.order {
		if field := r.fields[name]; field.EnvVar != "" {
			mapping[field.EnvVar] = name
		}
	}
	return mapping
}
