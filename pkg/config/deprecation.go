package config

import (
	"fmt"

	"github.com/faultline/faultline/pkg/config/definition"
)

// Diagnostic is an advisory notice produced during validation. Diagnostics
// never cause validation to fail; the caller decides how to surface them.
type Diagnostic struct {
	Option      string
	Replacement string
	Message     string
}

// resolveDeprecations rewrites deprecated aliases in the supplied options
// and collects one diagnostic per deprecated option used.
//
// Two behaviors exist:
//   - alias options (before_send_event) are moved onto their replacement;
//     supplying both the alias and the replacement is a hard error
//   - the legacy environment allow-list (included_environments) stays under
//     its own key but always warns when present, even with an empty list
func resolveDeprecations(
	registry *definition.Registry,
	opts Options,
) (Options, []Diagnostic, error) {
	resolved := make(Options, len(opts))
	for key, value := range opts {
		resolved[key] = value
	}
	var diags []Diagnostic
	for _, name := range registry.Names() {
		def, _ := registry.GetOption(name)
		if !def.Deprecated() {
			continue
		}
		value, present := resolved[name]
		if !present {
			continue
		}
		if def.Kind == definition.KindEnvList {
			// Warn-only deprecation: the legacy allow-list remains a live
			// record key alongside its single-environment successor.
			diags = append(diags, Diagnostic{
				Option:      name,
				Replacement: def.ReplacedBy,
				Message: fmt.Sprintf(
					"option %q is deprecated: set %q instead", name, def.ReplacedBy,
				),
			})
			continue
		}
		if _, both := resolved[def.ReplacedBy]; both {
			return nil, nil, &ConflictError{Option: def.ReplacedBy, Alias: name}
		}
		resolved[def.ReplacedBy] = value
		delete(resolved, name)
		diags = append(diags, Diagnostic{
			Option:      name,
			Replacement: def.ReplacedBy,
			Message: fmt.Sprintf(
				"option %q is deprecated: use %q instead", name, def.ReplacedBy,
			),
		})
	}
	return resolved, diags, nil
}
