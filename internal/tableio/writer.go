// =============================================================================
// Invoice to Debit Note Converter - Table Writers
// =============================================================================
//
// This module writes tables and verification reports back out as workbooks,
// the format the finance team downloads and re-uploads. Column order follows
// the table's declared columns; cell values are written as strings exactly as
// the pipeline produced them so no spreadsheet reformatting creeps in.
//
// =============================================================================

package tableio

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/verify"
)

// WriteXLSX writes a table to a single-sheet workbook at path.
func WriteXLSX(t *table.Table, path, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, row := range t.Rows {
		for col, name := range t.Columns {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, row[name]); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIdx+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Mismatch report column order.
var reportColumns = []string{"Key", "Mismatch Type", "Column", "Expected Value", "Actual Value", "Table"}

// WriteReportXLSX exports a verification report as a workbook, one mismatch
// per row, in the report's deterministic order.
func WriteReportXLSX(rep *verify.Report, path string) error {
	t := table.New(reportColumns...)
	for _, m := range rep.Mismatches {
		t.Append(table.Row{
			"Key":            m.Key,
			"Mismatch Type":  string(m.Type),
			"Column":         m.Column,
			"Expected Value": m.Expected,
			"Actual Value":   m.Actual,
			"Table":          m.Table,
		})
	}
	return WriteXLSX(t, path, "Mismatches")
}
