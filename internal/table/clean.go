// =============================================================================
// Invoice to Debit Note Converter - Cell Cleaning
// =============================================================================
//
// Raw spreadsheet exports carry display formatting in numeric cells: currency
// symbols, thousands separators, and an " Days" suffix on the age column.
// The cleaners here strip that formatting so the calculator can parse the
// values as numbers. Cleaning never fails; an unparseable value is left for
// the calculator to report against the row that carries it.
//
// =============================================================================

package table

import "strings"

// The legacy export writes the rupee sign in front of amounts. Files that
// went through a Windows-1252 round trip carry the mojibake form instead.
var currencyMarkers = []string{"₹", "â‚¹", ","}

// CleanCurrency strips currency symbols and thousands separators from an
// amount cell, returning a plain numeric string.
func CleanCurrency(value string) string {
	for _, m := range currencyMarkers {
		value = strings.ReplaceAll(value, m, "")
	}
	return strings.TrimSpace(value)
}

// CleanAge strips the " Days" display suffix from an age cell.
func CleanAge(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, " Days")
	value = strings.TrimSuffix(value, " days")
	return strings.TrimSpace(value)
}

// CleanNumericCells returns a new table with the currency columns and the age
// column cleaned in every row. Columns that are absent are skipped.
func (t *Table) CleanNumericCells() *Table {
	out := t.Clone()
	for _, r := range out.Rows {
		if v, ok := r[ColAmount]; ok {
			r[ColAmount] = CleanCurrency(v)
		}
		if v, ok := r[ColBalanceDue]; ok {
			r[ColBalanceDue] = CleanCurrency(v)
		}
		if v, ok := r[ColAge]; ok {
			r[ColAge] = CleanAge(v)
		}
	}
	return out
}
