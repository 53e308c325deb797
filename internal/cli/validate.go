package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/restage/restage/internal/document"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Check test documents against the schema without executing them",
	Long: "Validates every discovered test document against the embedded JSON\n" +
		"schema. Exit code 0 if all documents are well-formed, 1 otherwise.",
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := document.Discover(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no test documents found under %v", paths)
	}

	failed := false
	for _, f := range files {
		if err := document.ValidateFile(f); err != nil {
			fmt.Printf("FAIL  %s: %v\n", f, err)
			failed = true
			continue
		}
		fmt.Printf("OK    %s\n", f)
	}

	if failed {
		os.Exit(1)
	}
	return nil
}
