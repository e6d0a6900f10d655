package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// ErrUnknownOption marks lookups and updates for option names missing from
// the option table.
var ErrUnknownOption = errors.New("unknown option")

// ShapeError reports a single option whose value failed its declared shape.
// Validation halts at the first shape violation.
type ShapeError struct {
	Option string
	Value  any
	Want   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid value %#v for option %q: expected %s", e.Value, e.Option, e.Want)
}

// ConflictError reports a deprecated alias supplied together with its
// replacement.
type ConflictError struct {
	Option string
	Alias  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"option %q and its deprecated alias %q are both set: set only %q",
		e.Option, e.Alias, e.Option,
	)
}

// unknownOptionsError accumulates every unrecognized option name into a
// single error, sorted for deterministic output.
func unknownOptionsError(names []string) error {
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	var merr *multierror.Error
	for _, name := range names {
		merr = multierror.Append(merr, fmt.Errorf("%w %q", ErrUnknownOption, name))
	}
	return fmt.Errorf("invalid options: %w", merr)
}
