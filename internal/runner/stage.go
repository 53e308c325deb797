package runner

import (
	"context"

	"github.com/restage/restage/internal/document"
	"github.com/restage/restage/internal/evaluate"
	"github.com/restage/restage/internal/render"
	"github.com/restage/restage/internal/vars"
)

// executeStage renders the request through the current context snapshot,
// performs the exchange, evaluates every assertion, and commits
// registrations all-or-nothing.
func executeStage(ctx context.Context, stage document.Stage, vctx *vars.Context, t Transport) StageResult {
	sr := StageResult{Name: stage.Name, Status: StatusPassed}
	scope := vctx.Snapshot()

	spec, err := renderSpec(stage.Request, scope)
	if err != nil {
		sr.Status = StatusErrored
		sr.Error = err.Error()
		return sr
	}

	resp, err := t.Do(ctx, spec)
	if err != nil {
		sr.Status = StatusErrored
		sr.Error = err.Error()
		return sr
	}

	scope["response"] = resp.Scope()

	// Every assertion is evaluated and recorded; a false result or an
	// evaluation error fails the stage but never aborts remaining checks.
	for _, code := range stage.Asserts {
		ar := AssertionResult{Expr: code}
		ok, err := evaluate.Assert(code, scope)
		switch {
		case err != nil:
			ar.Error = err.Error()
			sr.Status = StatusFailed
		case !ok:
			sr.Status = StatusFailed
		default:
			ar.Passed = true
		}
		sr.Assertions = append(sr.Assertions, ar)
	}
	if sr.Status != StatusPassed {
		return sr
	}

	// Registrations commit all-or-nothing: every value is buffered before
	// any write, so a late failure cannot leave the context partially
	// populated for later stages. Registers evaluate against the pre-stage
	// scope; a register does not see a sibling from the same stage.
	buffered := make([]any, 0, len(stage.Registers))
	for _, reg := range stage.Registers {
		v, err := evaluate.Eval(reg.Expr, scope)
		if err != nil {
			sr.Status = StatusErrored
			sr.Error = err.Error()
			return sr
		}
		buffered = append(buffered, v)
	}
	for i, reg := range stage.Registers {
		vctx.Register(reg.Name, buffered[i])
		sr.Registered = append(sr.Registered, reg.Name)
	}

	return sr
}

// renderSpec substitutes placeholders in the url and in the string leaves
// of the transport options. Method never carries placeholders.
func renderSpec(spec document.RequestSpec, scope map[string]any) (document.RequestSpec, error) {
	url, err := render.String(spec.URL, scope)
	if err != nil {
		return document.RequestSpec{}, err
	}

	out := document.RequestSpec{URL: url, Method: spec.Method, Options: map[string]any{}}
	if len(spec.Options) > 0 {
		rendered, err := render.Value(spec.Options, scope)
		if err != nil {
			return document.RequestSpec{}, err
		}
		out.Options = rendered.(map[string]any)
	}
	return out, nil
}
