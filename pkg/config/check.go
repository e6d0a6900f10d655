package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/faultline/faultline/pkg/codec"
	"github.com/faultline/faultline/pkg/config/definition"
)

// checkOption coerces and validates a raw value against its option's
// declared shape, returning the normalized value. Environment-sourced
// values arrive as strings and are coerced to their target kinds here.
func checkOption(def *definition.OptionDef, value any) (any, error) {
	switch def.Kind {
	case definition.KindString:
		return checkString(def, value)
	case definition.KindDSN:
		return checkDSN(def, value)
	case definition.KindEnum:
		return checkEnum(def, value)
	case definition.KindGlob:
		return checkGlob(def, value)
	case definition.KindPatternList:
		return checkPatternList(def, value)
	case definition.KindEnvList:
		return checkEnvList(def, value)
	case definition.KindFloatRange:
		return checkFloatRange(def, value)
	case definition.KindInt:
		return checkInt(def, value)
	case definition.KindBool:
		return checkBool(def, value)
	case definition.KindCodec:
		return checkCodec(def, value)
	case definition.KindHook:
		return checkHook(def, value)
	default:
		return value, nil
	}
}

func checkString(def *definition.OptionDef, value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, &ShapeError{Option: def.Name, Value: value, Want: "a string"}
}

func checkDSN(def *definition.OptionDef, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, &ShapeError{Option: def.Name, Value: value, Want: "a DSN string"}
	}
	if s == "" {
		// Empty DSN disables reporting and is always valid.
		return s, nil
	}
	if _, err := ParseDSN(s); err != nil {
		return nil, fmt.Errorf("option %q: %w", def.Name, err)
	}
	return s, nil
}

func checkEnum(def *definition.OptionDef, value any) (any, error) {
	want := fmt.Sprintf("one of %s", strings.Join(def.Enum, ", "))
	s, ok := value.(string)
	if !ok {
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
	for _, allowed := range def.Enum {
		if s == allowed {
			return s, nil
		}
	}
	return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
}

func checkGlob(def *definition.OptionDef, value any) (any, error) {
	s, ok := value.(string)
	if !ok || !doublestar.ValidatePattern(s) {
		return nil, &ShapeError{Option: def.Name, Value: value, Want: "a valid glob pattern"}
	}
	return s, nil
}

func checkPatternList(def *definition.OptionDef, value any) (any, error) {
	want := "a list of compiled patterns"
	switch v := value.(type) {
	case []*regexp.Regexp:
		out := make([]*regexp.Regexp, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]*regexp.Regexp, 0, len(v))
		for _, element := range v {
			re, ok := element.(*regexp.Regexp)
			if !ok {
				return nil, &ShapeError{Option: def.Name, Value: element, Want: want}
			}
			out = append(out, re)
		}
		return out, nil
	default:
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
}

func checkEnvList(def *definition.OptionDef, value any) (any, error) {
	want := "a list of environment names or the accept-all sentinel"
	switch v := value.(type) {
	case definition.AcceptAllEnvironments:
		return v, nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, element := range v {
			switch e := element.(type) {
			case string:
				out = append(out, e)
			case fmt.Stringer:
				out = append(out, e.String())
			default:
				return nil, &ShapeError{Option: def.Name, Value: element, Want: want}
			}
		}
		return out, nil
	default:
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
}

func checkFloatRange(def *definition.OptionDef, value any) (any, error) {
	want := fmt.Sprintf("a float between %v and %v inclusive", def.Min, def.Max)
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
		}
		f = parsed
	default:
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
	if f < def.Min || f > def.Max {
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
	return f, nil
}

func checkInt(def *definition.OptionDef, value any) (any, error) {
	want := fmt.Sprintf("an integer greater than or equal to %d", int(def.Min))
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != float64(int(v)) {
			return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
		}
		n = parsed
	default:
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
	if n < int(def.Min) {
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
	return n, nil
}

func checkBool(def *definition.OptionDef, value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &ShapeError{Option: def.Name, Value: value, Want: "a boolean"}
		}
		return parsed, nil
	default:
		return nil, &ShapeError{Option: def.Name, Value: value, Want: "a boolean"}
	}
}

func checkCodec(def *definition.OptionDef, value any) (any, error) {
	if c, ok := value.(codec.Codec); ok {
		return c, nil
	}
	return nil, &ShapeError{
		Option: def.Name,
		Value:  value,
		Want:   "a value exposing the Encode/Decode capability",
	}
}

func checkHook(def *definition.OptionDef, value any) (any, error) {
	want := "a hook function or a {package, function} pair"
	switch v := value.(type) {
	case nil:
		return nil, nil
	case func(Event) Event:
		return HookFunc(v), nil
	case HookFunc:
		return v, nil
	case NamedHook:
		if v.Package == "" || v.Function == "" {
			return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
		}
		return v, nil
	default:
		return nil, &ShapeError{Option: def.Name, Value: value, Want: want}
	}
}
