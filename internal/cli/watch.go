package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/restage/restage/internal/report"
	"github.com/restage/restage/internal/transport"
	"github.com/restage/restage/internal/watch"
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringArrayVar(&runVarFlags, "var", nil, "Extra variable as key=value or @path/to/vars.yml (repeatable)")
	watchCmd.Flags().StringVar(&runBaseURL, "baseurl", "", "Base URL prefix for non-absolute request urls")
	watchCmd.Flags().DurationVar(&runTimeout, "timeout", transport.DefaultTimeout, "Default request timeout")
}

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Re-run test documents whenever they change",
	Long: "Runs the discovered test documents once, then watches their\n" +
		"directories and re-runs after each change. Ctrl-C to stop.",
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	rerun := func() {
		result, _, err := runBatch(context.Background(), paths)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Print(report.FormatText(result))
	}

	rerun()
	fmt.Println("watching for changes — Ctrl-C to stop")

	w, err := watch.New(paths, rerun)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
