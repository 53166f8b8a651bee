// =============================================================================
// Invoice to Debit Note Converter - Run Summaries
// =============================================================================
//
// This module produces the figures and text the commands print after a run:
// summary statistics over a numeric column and human-readable summaries of
// build and verification results.
//
// =============================================================================

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/debitnote"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/verify"
)

// =============================================================================
// COLUMN STATISTICS
// =============================================================================

// ColumnStats holds summary statistics over one numeric column.
type ColumnStats struct {
	Count int
	Sum   decimal.Decimal
	Mean  decimal.Decimal
	Max   decimal.Decimal
	Min   decimal.Decimal
}

// Stats computes sum, mean, max and min over a numeric column. Cells that do
// not parse as numbers are skipped. The second return value is false when the
// column is absent or carries no numeric cells.
func Stats(t *table.Table, column string) (ColumnStats, bool) {
	if !t.HasColumn(column) {
		return ColumnStats{}, false
	}

	stats := ColumnStats{Sum: decimal.Zero}
	for _, row := range t.Rows {
		v, err := decimal.NewFromString(strings.TrimSpace(row[column]))
		if err != nil {
			continue
		}
		if stats.Count == 0 {
			stats.Max, stats.Min = v, v
		} else {
			if v.GreaterThan(stats.Max) {
				stats.Max = v
			}
			if v.LessThan(stats.Min) {
				stats.Min = v
			}
		}
		stats.Sum = stats.Sum.Add(v)
		stats.Count++
	}

	if stats.Count == 0 {
		return ColumnStats{}, false
	}
	stats.Mean = stats.Sum.Div(decimal.NewFromInt(int64(stats.Count))).Round(2)
	return stats, true
}

// =============================================================================
// HUMAN SUMMARIES
// =============================================================================

// BuildSummary renders the figures of a build run for the terminal.
func BuildSummary(res *debitnote.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rows in:         %d\n", res.Stats.RowsIn)
	fmt.Fprintf(&b, "Rows out:        %d\n", res.Stats.RowsOut)
	fmt.Fprintf(&b, "Rows charged:    %d\n", res.Stats.RowsCharged)
	fmt.Fprintf(&b, "Rows failed:     %d\n", res.Stats.RowsFailed)
	fmt.Fprintf(&b, "Total interest:  %s\n", res.Stats.TotalInterest.StringFixed(2))

	if stats, ok := Stats(res.Output, table.ColInterestAmount); ok {
		fmt.Fprintf(&b, "Interest mean/max/min: %s / %s / %s\n",
			stats.Mean.StringFixed(2), stats.Max.StringFixed(2), stats.Min.StringFixed(2))
	}

	if len(res.RowErrors) > 0 {
		fmt.Fprintf(&b, "\nRows that could not be computed:\n")
		for _, e := range res.RowErrors {
			fmt.Fprintf(&b, "  - %s\n", e.Error())
		}
	}
	return b.String()
}

// VerifySummary renders a verification report for the terminal.
func VerifySummary(rep *verify.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Actual rows:     %d\n", rep.RowsActual)
	fmt.Fprintf(&b, "Expected rows:   %d\n", rep.RowsExpected)
	fmt.Fprintf(&b, "Row difference:  %+d\n", rep.RowsActual-rep.RowsExpected)
	fmt.Fprintf(&b, "Total interest:  actual=%s expected=%s\n",
		rep.TotalInterestActual.StringFixed(2), rep.TotalInterestExpected.StringFixed(2))

	if len(rep.ColumnsOnlyInActual) > 0 {
		fmt.Fprintf(&b, "Columns only in actual:   %s\n", strings.Join(rep.ColumnsOnlyInActual, ", "))
	}
	if len(rep.ColumnsOnlyInExpected) > 0 {
		fmt.Fprintf(&b, "Columns only in expected: %s\n", strings.Join(rep.ColumnsOnlyInExpected, ", "))
	}

	if rep.Clean() {
		fmt.Fprintf(&b, "\nNo mismatches found. Data matches.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\n%d mismatch(es):\n", len(rep.Mismatches))
	for _, t := range mismatchTypes(rep) {
		fmt.Fprintf(&b, "  %-20s %d\n", string(t)+":", rep.CountByType(t))
	}
	for _, m := range rep.Mismatches {
		switch m.Type {
		case verify.ValueMismatch:
			fmt.Fprintf(&b, "  - %s [%s] %s: expected=%q actual=%q\n", m.Key, m.Type, m.Column, m.Expected, m.Actual)
		case verify.DuplicateKey:
			fmt.Fprintf(&b, "  - %s [%s] in %s table\n", m.Key, m.Type, m.Table)
		default:
			fmt.Fprintf(&b, "  - %s [%s]\n", m.Key, m.Type)
		}
	}
	return b.String()
}

// mismatchTypes returns the classifications present in the report, sorted.
func mismatchTypes(rep *verify.Report) []verify.MismatchType {
	seen := map[verify.MismatchType]bool{}
	var types []verify.MismatchType
	for _, m := range rep.Mismatches {
		if !seen[m.Type] {
			seen[m.Type] = true
			types = append(types, m.Type)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
