// =============================================================================
// Invoice to Debit Note Converter - Output Verifier
// =============================================================================
//
// This module diffs a processed table against an expected table. Rows are
// aligned by a composite key built from configurable key columns; aligned rows
// are then compared column by column. The verifier always runs to completion
// and reports every discrepancy it finds rather than stopping at the first.
//
// COMPARISON SEMANTICS:
//   - a key only in the expected table   -> missing-in-actual
//   - a key only in the actual table     -> missing-in-expected (extra row)
//   - a key duplicated within one table  -> duplicate-key (first occurrence
//     is used for comparison, never silently overwritten)
//   - cells that both parse as numbers are compared within an absolute
//     tolerance; all other cells are compared as trimmed strings
//
// Mismatches are ordered by key, then column, so two runs over the same
// inputs produce byte-identical reports.
//
// =============================================================================

package verify

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/config"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
)

// keySeparator joins the key-column values into one composite key.
const keySeparator = "||"

// =============================================================================
// MISMATCH TYPES
// =============================================================================

// MismatchType classifies a discrepancy.
type MismatchType string

const (
	// MissingInActual marks a key present in expected but absent in actual.
	MissingInActual MismatchType = "missing-in-actual"

	// MissingInExpected marks a key present in actual but absent in expected.
	MissingInExpected MismatchType = "missing-in-expected"

	// ValueMismatch marks a cell differing beyond tolerance for a key
	// present in both tables.
	ValueMismatch MismatchType = "value-mismatch"

	// DuplicateKey marks a key occurring more than once within one table.
	DuplicateKey MismatchType = "duplicate-key"
)

// Mismatch is a single discrepancy record.
type Mismatch struct {
	// Key is the composite row key.
	Key string

	// Type classifies the discrepancy.
	Type MismatchType

	// Column is the differing column for value mismatches, empty otherwise.
	Column string

	// Expected and Actual are the differing cell values for value
	// mismatches, empty otherwise.
	Expected string
	Actual   string

	// Table names the side ("actual" or "expected") that carries a
	// duplicate key, empty for other types.
	Table string
}

// Report is the verifier's terminal output.
type Report struct {
	// Mismatches holds every discrepancy, ordered by key then column.
	Mismatches []Mismatch

	// RowsActual and RowsExpected are the input row counts.
	RowsActual   int
	RowsExpected int

	// ColumnsOnlyInActual and ColumnsOnlyInExpected list columns declared by
	// one table but not the other.
	ColumnsOnlyInActual   []string
	ColumnsOnlyInExpected []string

	// TotalInterestActual and TotalInterestExpected sum the interest amount
	// column on each side, when present.
	TotalInterestActual   decimal.Decimal
	TotalInterestExpected decimal.Decimal
}

// Clean reports whether the two tables fully matched.
func (r *Report) Clean() bool {
	return len(r.Mismatches) == 0
}

// CountByType returns the number of mismatches with the given classification.
func (r *Report) CountByType(t MismatchType) int {
	n := 0
	for _, m := range r.Mismatches {
		if m.Type == t {
			n++
		}
	}
	return n
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a verification run.
type Options struct {
	// KeyColumns form the composite row key.
	KeyColumns []string

	// CompareColumns are compared cell-by-cell for keys in both tables.
	CompareColumns []string

	// NumericTolerance is the absolute tolerance for numeric cells.
	NumericTolerance decimal.Decimal
}

// OptionsFromConfig builds verifier options from the run configuration.
func OptionsFromConfig(cfg config.VerificationConfig) Options {
	return Options{
		KeyColumns:       cfg.KeyColumns,
		CompareColumns:   cfg.CompareColumns,
		NumericTolerance: decimal.NewFromFloat(cfg.NumericTolerance),
	}
}

// =============================================================================
// VERIFICATION
// =============================================================================

// index is a key -> row lookup for one table, with duplicate bookkeeping.
// The first occurrence of a key wins; later occurrences are recorded.
type index struct {
	rows       map[string]table.Row
	keys       []string
	duplicates []string
}

// Verify diffs actual against expected and returns the full mismatch report.
// Neither input table is mutated. The two key lookups are built concurrently;
// the comparison pass itself is a single deterministic sweep over the sorted
// key union.
func Verify(ctx context.Context, actual, expected *table.Table, opts Options) *Report {
	report := &Report{
		RowsActual:            actual.Len(),
		RowsExpected:          expected.Len(),
		TotalInterestActual:   sumColumn(actual, table.ColInterestAmount),
		TotalInterestExpected: sumColumn(expected, table.ColInterestAmount),
	}
	report.ColumnsOnlyInActual = columnsOnlyIn(actual, expected)
	report.ColumnsOnlyInExpected = columnsOnlyIn(expected, actual)

	var actIdx, expIdx *index
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		actIdx = buildIndex(actual, opts.KeyColumns)
		return nil
	})
	g.Go(func() error {
		expIdx = buildIndex(expected, opts.KeyColumns)
		return nil
	})
	_ = g.Wait() // the index builders never fail

	for _, key := range actIdx.duplicates {
		report.Mismatches = append(report.Mismatches, Mismatch{Key: key, Type: DuplicateKey, Table: "actual"})
	}
	for _, key := range expIdx.duplicates {
		report.Mismatches = append(report.Mismatches, Mismatch{Key: key, Type: DuplicateKey, Table: "expected"})
	}

	compareCols := presentInBoth(opts.CompareColumns, actual, expected)

	for _, key := range unionKeys(actIdx, expIdx) {
		actRow, inActual := actIdx.rows[key]
		expRow, inExpected := expIdx.rows[key]

		switch {
		case !inActual:
			report.Mismatches = append(report.Mismatches, Mismatch{Key: key, Type: MissingInActual})
		case !inExpected:
			report.Mismatches = append(report.Mismatches, Mismatch{Key: key, Type: MissingInExpected})
		default:
			for _, col := range compareCols {
				av := strings.TrimSpace(actRow[col])
				ev := strings.TrimSpace(expRow[col])
				if !cellsEqual(av, ev, opts.NumericTolerance) {
					report.Mismatches = append(report.Mismatches, Mismatch{
						Key:      key,
						Type:     ValueMismatch,
						Column:   col,
						Expected: ev,
						Actual:   av,
					})
				}
			}
		}
	}

	sort.Slice(report.Mismatches, func(i, j int) bool {
		a, b := report.Mismatches[i], report.Mismatches[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Type < b.Type
	})

	return report
}

// buildIndex builds the key lookup for one table. Later rows with an already
// seen key are not indexed; their key is recorded as a duplicate instead.
func buildIndex(t *table.Table, keyColumns []string) *index {
	idx := &index{rows: make(map[string]table.Row, t.Len())}
	seenDup := make(map[string]bool)

	for _, row := range t.Rows {
		key := rowKey(row, keyColumns)
		if _, exists := idx.rows[key]; exists {
			if !seenDup[key] {
				idx.duplicates = append(idx.duplicates, key)
				seenDup[key] = true
			}
			continue
		}
		idx.rows[key] = row
		idx.keys = append(idx.keys, key)
	}

	sort.Strings(idx.duplicates)
	return idx
}

// rowKey joins the trimmed key-column values into the composite key.
func rowKey(row table.Row, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		parts[i] = strings.TrimSpace(row[col])
	}
	return strings.Join(parts, keySeparator)
}

// unionKeys returns the sorted union of both index key sets.
func unionKeys(a, b *index) []string {
	seen := make(map[string]bool, len(a.keys)+len(b.keys))
	var union []string
	for _, k := range a.keys {
		if !seen[k] {
			seen[k] = true
			union = append(union, k)
		}
	}
	for _, k := range b.keys {
		if !seen[k] {
			seen[k] = true
			union = append(union, k)
		}
	}
	sort.Strings(union)
	return union
}

// cellsEqual compares two cells. When both parse as numbers the comparison is
// numeric within the tolerance; otherwise it is exact string equality (the
// values are already trimmed).
func cellsEqual(actual, expected string, tolerance decimal.Decimal) bool {
	av, aerr := decimal.NewFromString(actual)
	ev, eerr := decimal.NewFromString(expected)
	if aerr == nil && eerr == nil {
		return av.Sub(ev).Abs().LessThanOrEqual(tolerance)
	}
	return actual == expected
}

// presentInBoth filters the compare columns down to those declared by both
// tables. Columns declared by only one side are already reported through the
// column comparison.
func presentInBoth(columns []string, a, b *table.Table) []string {
	var out []string
	for _, c := range columns {
		if a.HasColumn(c) && b.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// columnsOnlyIn returns the columns t declares that other does not.
func columnsOnlyIn(t, other *table.Table) []string {
	var out []string
	for _, c := range t.Columns {
		if !other.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// sumColumn totals a numeric column, skipping cells that do not parse.
func sumColumn(t *table.Table, column string) decimal.Decimal {
	total := decimal.Zero
	if !t.HasColumn(column) {
		return total
	}
	for _, row := range t.Rows {
		v, err := decimal.NewFromString(strings.TrimSpace(row[column]))
		if err != nil {
			continue
		}
		total = total.Add(v)
	}
	return total
}
