// =============================================================================
// Invoice to Debit Note Converter - Shared Table Types
// =============================================================================
//
// This package contains the in-memory tabular model shared across modules to
// avoid import cycles. Types defined here are used by:
//   - schema
//   - debitnote
//   - verify
//   - tableio
//
// =============================================================================

package table

import (
	"sort"
	"strings"
)

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Input column names as they appear in the raw spreadsheet export.
const (
	ColRegion         = "Region"
	ColAreaName       = "Area Name"
	ColMarket         = "Market"
	ColCustomerName   = "Customer Name"
	ColCustomerNumber = "Customer Number"
	ColDate           = "DATE"
	ColTransaction    = "Transaction#"
	ColType           = "Type"
	ColStatus         = "Status"
	ColDueDate        = "Due Date"
	ColAmount         = "Amount"
	ColBalanceDue     = "Balance Due"
	ColAge            = "Age"
)

// Computed column names appended by the debit-note builder.
const (
	ColDueDays              = "Due Days"
	ColPreviousInterestDays = "Previous Interest Days"
	ColInterestWorkingDays  = "Interest Working Days"
	ColPerDayInterestRate   = "Per Day Interest %"
	ColWorkingInterestPct   = "Working Interest %"
	ColInterestAmount       = "Interest Amount"
)

// =============================================================================
// TABLE TYPES
// =============================================================================

// Row is a single record, a mapping from column name to raw cell value.
// Cell values are kept as strings exactly as parsed; numeric interpretation
// happens in the packages that need it.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows together with the column order.
// The column order is preserved from the source file so exports remain
// faithful to the input layout.
type Table struct {
	// Columns is the ordered list of column names.
	Columns []string

	// Rows contains the data rows in source order.
	Rows []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Cell returns the value of the named column in the given row,
// or the empty string if the row does not carry it.
func (t *Table) Cell(rowIndex int, column string) string {
	if rowIndex < 0 || rowIndex >= len(t.Rows) {
		return ""
	}
	return t.Rows[rowIndex][column]
}

// Clone returns a deep copy of the table. The pipeline stages never mutate
// their input; each stage works on its own copy.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// =============================================================================
// TABLE OPERATIONS
// =============================================================================

// Filter returns a new table containing only the rows for which keep returns
// true. Column order is unchanged.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Columns...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Append(r.Clone())
		}
	}
	return out
}

// DropColumns returns a new table without the named columns. Columns that are
// not present are ignored.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	out := &Table{}
	for _, c := range t.Columns {
		if !drop[c] {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			if !drop[k] {
				nr[k] = v
			}
		}
		out.Append(nr)
	}
	return out
}

// SortBy returns a new table with rows ordered by the given column,
// ascending, using a case-insensitive string comparison. The sort is stable
// so rows with equal keys keep their relative input order.
func (t *Table) SortBy(column string) *Table {
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		a := strings.ToLower(out.Rows[i][column])
		b := strings.ToLower(out.Rows[j][column])
		return a < b
	})
	return out
}

// RequiredColumns is the set of input columns the pipeline needs before any
// computation proceeds. The schema validator checks a table against this list.
func RequiredColumns() []string {
	return []string{
		ColRegion,
		ColAreaName,
		ColMarket,
		ColCustomerName,
		ColCustomerNumber,
		ColDate,
		ColTransaction,
		ColType,
		ColStatus,
		ColDueDate,
		ColAmount,
		ColBalanceDue,
		ColAge,
	}
}

// ComputedColumns is the ordered list of columns the debit-note builder
// appends to the input columns.
func ComputedColumns() []string {
	return []string{
		ColDueDays,
		ColPreviousInterestDays,
		ColInterestWorkingDays,
		ColPerDayInterestRate,
		ColWorkingInterestPct,
		ColInterestAmount,
	}
}
