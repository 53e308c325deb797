package runner

import "time"

// Status is the terminal state of a stage or test case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored"
	StatusSkipped Status = "skipped"
)

// AssertionResult records one assertion's literal text and outcome.
type AssertionResult struct {
	Expr   string `json:"expr"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

// StageResult is the outcome of one stage.
type StageResult struct {
	Name       string            `json:"name"`
	Status     Status            `json:"status"`
	Assertions []AssertionResult `json:"assertions,omitempty"`
	Registered []string          `json:"registered,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// CaseResult aggregates the stage results of one test case. Outcome is
// passed only when every stage passed; errored dominates failed.
type CaseResult struct {
	Name     string        `json:"name"`
	File     string        `json:"file"`
	Outcome  Status        `json:"outcome"`
	Stages   []StageResult `json:"stages"`
	Duration time.Duration `json:"duration"`
}

// StageCounts returns totals of passed and not-passed stages.
func (c *CaseResult) StageCounts() (passed, failed int) {
	for _, s := range c.Stages {
		if s.Status == StatusPassed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// RunResult is the outcome of running a batch of test cases.
type RunResult struct {
	Cases    []CaseResult  `json:"cases"`
	Total    int           `json:"total"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Errored  int           `json:"errored"`
	Duration time.Duration `json:"duration"`
}

// AllPassed reports whether every test case passed.
func (r *RunResult) AllPassed() bool {
	return r.Total == r.Passed
}
