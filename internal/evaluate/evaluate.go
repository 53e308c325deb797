// Package evaluate runs assert and register expressions against an
// evaluation scope. The expression language is expr-lang/expr: sandboxed,
// no side effects, with map member access for the response scope.
package evaluate

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluationError reports an expression that failed to evaluate, carrying
// the literal expression text for the report.
type EvaluationError struct {
	Expr string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// Eval evaluates a register expression and returns its value.
func Eval(code string, scope map[string]any) (any, error) {
	out, err := expr.Eval(code, scope)
	if err != nil {
		return nil, &EvaluationError{Expr: code, Err: err}
	}
	return out, nil
}

// Assert evaluates an assertion expression, which must yield a boolean.
func Assert(code string, scope map[string]any) (bool, error) {
	out, err := Eval(code, scope)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{Expr: code, Err: fmt.Errorf("expression yields %T, want bool", out)}
	}
	return b, nil
}
