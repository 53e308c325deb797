package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/restage/restage/internal/history"
)

var (
	historyDB    string
	historyLimit int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyDB, "db", "", "Path to the history database (required)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries to show")
	historyCmd.MarkFlagRequired("db")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded test-case outcomes, newest first",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyDB)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-8s  %-8s  %s (%s)  %d/%d stages\n",
			e.StartedAt.Local().Format(time.DateTime), shortID(e.RunID), e.Outcome,
			e.CaseName, e.File, e.StagesPassed, e.Stages)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
