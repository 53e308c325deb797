// Package render substitutes {name} placeholders in the string leaves of
// request data using the run's variable context.
package render

import (
	"fmt"
	"regexp"
)

// placeholder matches {name} where name is a context variable identifier.
var placeholder = regexp.MustCompile(`\{([a-z_][a-z0-9_]*)\}`)

// UndefinedVariableError reports a placeholder referencing a name absent
// from the context.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable {%s}", e.Name)
}

// Value recursively renders mappings, sequences, and string scalars.
// Non-string scalars pass through untouched, as do strings without
// placeholders, so rendering is idempotent on placeholder-free input.
func Value(v any, scope map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		return renderString(t, scope)

	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			r, err := Value(val, scope)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil

	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			r, err := Value(val, scope)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil

	default:
		return v, nil
	}
}

// String renders a single string scalar.
func String(s string, scope map[string]any) (string, error) {
	return renderString(s, scope)
}

func renderString(s string, scope map[string]any) (string, error) {
	var missing *UndefinedVariableError
	out := placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := scope[name]
		if !ok {
			if missing == nil {
				missing = &UndefinedVariableError{Name: name}
			}
			return m
		}
		return fmt.Sprintf("%v", v)
	})
	if missing != nil {
		return "", missing
	}
	return out, nil
}
