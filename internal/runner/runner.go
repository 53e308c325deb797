// Package runner executes normalized test cases: stages run sequentially,
// assertions are evaluated against the response scope, and registered
// values thread the variable context across stages.
package runner

import (
	"context"
	"time"

	"github.com/restage/restage/internal/document"
	"github.com/restage/restage/internal/transport"
	"github.com/restage/restage/internal/vars"
)

// Transport executes one rendered request spec. Satisfied by
// *transport.Client; tests inject fakes.
type Transport interface {
	Do(ctx context.Context, spec document.RequestSpec) (*transport.Response, error)
}

// Runner executes test cases sequentially. Each case gets an isolated
// variable context and a fresh transport, so concurrent runs of different
// cases would share no mutable state.
type Runner struct {
	extra        map[string]any
	newTransport func() Transport
}

// New builds a Runner. extra holds CLI-supplied variables; newTransport is
// called once per test case so cookies never leak between cases.
func New(extra map[string]any, newTransport func() Transport) *Runner {
	if extra == nil {
		extra = map[string]any{}
	}
	return &Runner{extra: extra, newTransport: newTransport}
}

// Run executes every case in order and aggregates the outcome counts.
func (r *Runner) Run(ctx context.Context, cases []document.TestCase) *RunResult {
	start := time.Now()
	res := &RunResult{}
	for _, tc := range cases {
		cr := r.RunCase(ctx, tc)
		res.Cases = append(res.Cases, cr)
		res.Total++
		switch cr.Outcome {
		case StatusPassed:
			res.Passed++
		case StatusErrored:
			res.Errored++
		default:
			res.Failed++
		}
	}
	res.Duration = time.Since(start)
	return res
}

// RunCase runs a case's stages in document order. The first errored stage
// skips the remainder, since later stages likely depend on context it was
// meant to populate. Failed assertions do not halt later stages; they may
// still be independently informative.
func (r *Runner) RunCase(ctx context.Context, tc document.TestCase) CaseResult {
	vctx := vars.NewContext(tc.Variables, r.extra)
	t := r.newTransport()

	cr := CaseResult{Name: tc.Name, File: tc.File, Outcome: StatusPassed}
	start := time.Now()

	halted := false
	for _, stage := range tc.Stages {
		if halted || ctx.Err() != nil {
			cr.Stages = append(cr.Stages, StageResult{Name: stage.Name, Status: StatusSkipped})
			continue
		}

		sr := executeStage(ctx, stage, vctx, t)
		cr.Stages = append(cr.Stages, sr)

		switch sr.Status {
		case StatusErrored:
			halted = true
			cr.Outcome = StatusErrored
		case StatusFailed:
			if cr.Outcome != StatusErrored {
				cr.Outcome = StatusFailed
			}
		}
	}

	cr.Duration = time.Since(start)
	return cr
}
