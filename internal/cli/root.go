// Package cli wires the restage commands: run, validate, watch, history,
// and version.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "restage",
	Short: "Declarative HTTP integration-test executor",
	Long: "Runs YAML-described test cases: ordered stages of HTTP requests,\n" +
		"boolean assertions, and response-value registration shared across stages.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
