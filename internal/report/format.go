// Package report renders run results for humans, CI, and spreadsheets.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/restage/restage/internal/runner"
)

// FormatText renders a run result as human-readable text.
func FormatText(r *runner.RunResult) string {
	var b strings.Builder

	header := fmt.Sprintf("Run: %d cases — %d passed, %d failed, %d errored (%s)",
		r.Total, r.Passed, r.Failed, r.Errored, r.Duration.Round(time.Millisecond))
	fmt.Fprintln(&b, header)
	fmt.Fprintln(&b, strings.Repeat("═", len(header)))

	for _, c := range r.Cases {
		passed, _ := c.StageCounts()
		fmt.Fprintf(&b, "  %-5s %s (%s)  %d/%d stages\n",
			statusLabel(c.Outcome), c.Name, c.File, passed, len(c.Stages))

		if c.Outcome == runner.StatusPassed {
			continue
		}
		for _, s := range c.Stages {
			switch s.Status {
			case runner.StatusFailed:
				for _, a := range s.Assertions {
					if a.Passed {
						continue
					}
					if a.Error != "" {
						fmt.Fprintf(&b, "    FAIL  %s: assert `%s` — %s\n", s.Name, a.Expr, a.Error)
					} else {
						fmt.Fprintf(&b, "    FAIL  %s: assert `%s` — false\n", s.Name, a.Expr)
					}
				}
			case runner.StatusErrored:
				fmt.Fprintf(&b, "    ERROR %s: %s\n", s.Name, s.Error)
			case runner.StatusSkipped:
				fmt.Fprintf(&b, "    SKIP  %s\n", s.Name)
			}
		}
	}

	fmt.Fprintln(&b, strings.Repeat("─", len(header)))
	status := "PASS"
	if !r.AllPassed() {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "Result: %s (%d/%d)\n", status, r.Passed, r.Total)

	return b.String()
}

// FormatJSON renders a run result as JSON.
func FormatJSON(r *runner.RunResult) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run result: %w", err)
	}
	return string(data), nil
}

func statusLabel(s runner.Status) string {
	switch s {
	case runner.StatusPassed:
		return "PASS"
	case runner.StatusErrored:
		return "ERROR"
	default:
		return "FAIL"
	}
}
