// =============================================================================
// Invoice to Debit Note Converter - Table Readers
// =============================================================================
//
// This module reads spreadsheet exports into the in-memory table model. The
// first non-empty row of the sheet is taken as the header row; every row
// after it becomes a data row keyed by header. Fully empty rows are skipped.
//
// Supported formats: .xlsx (excelize) and .csv.
//
// =============================================================================

package tableio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
)

// Read loads a tabular file into a table, dispatching on the file extension.
func Read(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// =============================================================================
// XLSX READER
// =============================================================================

// ReadXLSX reads the first sheet of a workbook into a table.
func ReadXLSX(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return fromRawRows(rows)
}

// =============================================================================
// CSV READER
// =============================================================================

// ReadCSV reads a comma-separated file into a table. A leading UTF-8 BOM on
// the first header cell is stripped.
func ReadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return fromRawRows(rows)
}

// =============================================================================
// SHARED ROW ASSEMBLY
// =============================================================================

// fromRawRows assembles a table from raw string rows: the first non-empty row
// is the header, the rest are data. Rows shorter than the header are padded
// with empty cells; fully empty rows are skipped.
func fromRawRows(rows [][]string) (*table.Table, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, fmt.Errorf("file contains no header row")
	}

	headers := cleanHeaders(rows[headerIdx])
	t := table.New(headers...)

	for _, raw := range rows[headerIdx+1:] {
		if isRowEmpty(raw) {
			continue
		}
		row := make(table.Row, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = strings.TrimSpace(raw[i])
			} else {
				row[h] = ""
			}
		}
		t.Append(row)
	}

	return t, nil
}

// cleanHeaders trims header cells and strips a UTF-8 BOM from the first one.
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		headers[i] = h
	}
	return headers
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
