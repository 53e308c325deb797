package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/restage/restage/internal/document"
	"github.com/restage/restage/internal/history"
	"github.com/restage/restage/internal/report"
	"github.com/restage/restage/internal/runner"
	"github.com/restage/restage/internal/transport"
	"github.com/restage/restage/internal/vars"
)

var (
	runVarFlags  []string
	runBaseURL   string
	runTimeout   time.Duration
	runFormat    string
	runXLSX      string
	runHistoryDB string
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringArrayVar(&runVarFlags, "var", nil, "Extra variable as key=value or @path/to/vars.yml (repeatable)")
	runCmd.Flags().StringVar(&runBaseURL, "baseurl", "", "Base URL prefix for non-absolute request urls")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", transport.DefaultTimeout, "Default request timeout")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "Output format (text|json)")
	runCmd.Flags().StringVar(&runXLSX, "report-xlsx", "", "Also write an XLSX report to this path")
	runCmd.Flags().StringVar(&runHistoryDB, "history", "", "Record outcomes in this sqlite database")
}

var runCmd = &cobra.Command{
	Use:   "run [path...]",
	Short: "Execute test documents and report per-stage outcomes",
	Long: "Discovers test documents (test*.yml, test*.yaml) under the given paths,\n" +
		"executes every test case against its endpoints, and reports pass/fail\n" +
		"per stage. Exit code 0 if every case passes, 1 otherwise.",
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	started := time.Now()
	result, loadFailed, err := runBatch(cmd.Context(), paths)
	if err != nil {
		return err
	}

	switch runFormat {
	case "json":
		out, err := report.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(report.FormatText(result))
	}

	if runXLSX != "" {
		if err := report.WriteXLSX(result, runXLSX); err != nil {
			return err
		}
	}
	if runHistoryDB != "" {
		if err := recordHistory(runHistoryDB, started, result); err != nil {
			return err
		}
	}

	if loadFailed || !result.AllPassed() {
		os.Exit(1)
	}
	return nil
}

// runBatch discovers, loads, and executes every test case under paths.
// A document that fails to load is reported and skipped; the remaining
// files still run.
func runBatch(ctx context.Context, paths []string) (*runner.RunResult, bool, error) {
	extra, err := vars.ParseExtra(runVarFlags)
	if err != nil {
		return nil, false, err
	}

	files, err := document.Discover(paths)
	if err != nil {
		return nil, false, err
	}
	if len(files) == 0 {
		return nil, false, fmt.Errorf("no test documents found under %v", paths)
	}

	var cases []document.TestCase
	loadFailed := false
	for _, f := range files {
		cs, err := document.LoadFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "SKIP  %s: %v\n", f, err)
			loadFailed = true
			continue
		}
		cases = append(cases, cs...)
	}

	baseURL := resolveBaseURL(runBaseURL, extra)
	extra["baseurl"] = baseURL

	r := runner.New(extra, func() runner.Transport {
		return transport.NewClient(baseURL, runTimeout)
	})
	return r.Run(ctx, cases), loadFailed, nil
}

// resolveBaseURL prefers the flag, then a baseurl extra-var, then the
// default.
func resolveBaseURL(flag string, extra map[string]any) string {
	if flag != "" {
		return flag
	}
	if v, ok := extra["baseurl"]; ok {
		return fmt.Sprintf("%v", v)
	}
	return transport.DefaultBaseURL
}

func recordHistory(path string, started time.Time, res *runner.RunResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(uuid.NewString(), started, res)
}
