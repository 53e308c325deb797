package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/restage/restage/internal/runner"
)

var xlsxHeaders = []string{
	"Case", "File", "Stage", "Status", "Assertions", "Registered", "Error",
}

// WriteXLSX writes one row per stage plus a summary row, for teams that
// archive regression runs in spreadsheets.
func WriteXLSX(r *runner.RunResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("create report sheet: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, c := range r.Cases {
		for _, s := range c.Stages {
			passed := 0
			for _, a := range s.Assertions {
				if a.Passed {
					passed++
				}
			}
			values := []any{
				c.Name,
				c.File,
				s.Name,
				string(s.Status),
				fmt.Sprintf("%d/%d passed", passed, len(s.Assertions)),
				strings.Join(s.Registered, ", "),
				s.Error,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	summary := fmt.Sprintf("%d cases: %d passed, %d failed, %d errored",
		r.Total, r.Passed, r.Failed, r.Errored)
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
