// Package export renders stats views as downloadable workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/godilite/survey-stats/internal/service"
	"github.com/xuri/excelize/v2"
)

const RespondentSheet = "Respondents"

var respondentHeader = []any{"Respondent", "Average rating", "Timestamp"}

// WriteRespondentTable writes rows as a single-sheet xlsx workbook.
func WriteRespondentTable(w io.Writer, rows []service.RespondentRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RespondentSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(RespondentSheet, "A1", &respondentHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(RespondentSheet, "A1", "C1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Respondent, r.AverageRating, r.Timestamp}
		if err := f.SetSheetRow(RespondentSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(RespondentSheet, "A", "C", 22); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
