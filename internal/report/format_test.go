package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/restage/restage/internal/runner"
)

func sampleResult() *runner.RunResult {
	return &runner.RunResult{
		Total:    3,
		Passed:   1,
		Failed:   1,
		Errored:  1,
		Duration: 1500 * time.Millisecond,
		Cases: []runner.CaseResult{
			{
				Name: "login works", File: "test_login.yml", Outcome: runner.StatusPassed,
				Stages: []runner.StageResult{{Name: "login", Status: runner.StatusPassed}},
			},
			{
				Name: "profile check", File: "test_profile.yml", Outcome: runner.StatusFailed,
				Stages: []runner.StageResult{{
					Name:   "fetch profile",
					Status: runner.StatusFailed,
					Assertions: []runner.AssertionResult{
						{Expr: "response.status == 200", Passed: true},
						{Expr: `response.body.role == "admin"`, Passed: false},
					},
				}},
			},
			{
				Name: "flaky backend", File: "test_flaky.yml", Outcome: runner.StatusErrored,
				Stages: []runner.StageResult{
					{Name: "ping", Status: runner.StatusErrored, Error: "connection refused"},
					{Name: "follow-up", Status: runner.StatusSkipped},
				},
			},
		},
	}
}

func TestFormatTextSummaryLine(t *testing.T) {
	out := FormatText(sampleResult())

	if !strings.Contains(out, "3 cases — 1 passed, 1 failed, 1 errored") {
		t.Errorf("missing summary header:\n%s", out)
	}
	if !strings.Contains(out, "Result: FAIL (1/3)") {
		t.Errorf("missing final verdict:\n%s", out)
	}
}

func TestFormatTextPerCaseLines(t *testing.T) {
	out := FormatText(sampleResult())

	if !strings.Contains(out, "PASS") || !strings.Contains(out, "login works") {
		t.Errorf("passing case not listed:\n%s", out)
	}
	if !strings.Contains(out, "FAIL  fetch profile: assert `response.body.role == \"admin\"` — false") {
		t.Errorf("failed assertion detail missing:\n%s", out)
	}
	if !strings.Contains(out, "ERROR ping: connection refused") {
		t.Errorf("errored stage detail missing:\n%s", out)
	}
	if !strings.Contains(out, "SKIP  follow-up") {
		t.Errorf("skipped stage not listed:\n%s", out)
	}
}

func TestFormatTextPassingAssertionsStaySilent(t *testing.T) {
	out := FormatText(sampleResult())
	if strings.Contains(out, "response.status == 200") {
		t.Errorf("passing assertion leaked into failure detail:\n%s", out)
	}
}

func TestFormatTextAllPassed(t *testing.T) {
	res := &runner.RunResult{
		Total: 1, Passed: 1,
		Cases: []runner.CaseResult{{
			Name: "ok", File: "test_ok.yml", Outcome: runner.StatusPassed,
			Stages: []runner.StageResult{{Name: "s", Status: runner.StatusPassed}},
		}},
	}

	out := FormatText(res)
	if !strings.Contains(out, "Result: PASS (1/1)") {
		t.Errorf("expected PASS verdict:\n%s", out)
	}
}

func TestFormatJSONRoundTrips(t *testing.T) {
	out, err := FormatJSON(sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	var decoded runner.RunResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Total != 3 || decoded.Passed != 1 {
		t.Errorf("counts lost: %+v", decoded)
	}
	if len(decoded.Cases) != 3 {
		t.Fatalf("cases = %d", len(decoded.Cases))
	}
	if decoded.Cases[2].Stages[0].Error != "connection refused" {
		t.Errorf("stage error lost: %+v", decoded.Cases[2])
	}
}
