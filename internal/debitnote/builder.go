// =============================================================================
// Invoice to Debit Note Converter - Debit Note Builder
// =============================================================================
//
// This module applies the interest calculator across a whole table, producing
// one debit-note row per input row with the computed columns appended.
//
// CONCURRENCY:
//   Row computations are independent and side-effect free, so they run on a
//   bounded worker pool. Each worker writes its result into a slot indexed by
//   the input position, which restores input order regardless of scheduling.
//
// FAILURE ISOLATION:
//   A row whose values cannot be computed never aborts the batch. Its error is
//   collected into the result, and the row is either passed through with its
//   computed columns set to the "N/A" sentinel (keep policy, the default) or
//   excluded from the output (drop policy).
//
// =============================================================================

package debitnote

import (
	"context"
	"errors"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/config"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/interest"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of building debit notes for one table.
type Result struct {
	// Output contains the debit-note rows, in input order, with the computed
	// columns appended to the input columns.
	Output *table.Table

	// RowErrors lists the rows that could not be computed, in input order.
	// Under the keep policy these rows are still present in Output with
	// sentinel computed values; under the drop policy they are not.
	RowErrors []*interest.CalculationError

	// Stats summarizes the run.
	Stats BuildStats
}

// BuildStats carries the figures the process command reports.
type BuildStats struct {
	// RowsIn is the number of input rows.
	RowsIn int

	// RowsOut is the number of output rows.
	RowsOut int

	// RowsCharged is the number of rows with a non-zero charging window.
	RowsCharged int

	// RowsFailed is the number of rows whose computation failed.
	RowsFailed int

	// TotalInterest is the sum of all computed interest amounts.
	TotalInterest decimal.Decimal
}

// Err returns all row errors aggregated, or nil when every row computed.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, e := range r.RowErrors {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder turns transaction tables into debit-note tables.
type Builder struct {
	cfg config.Config
}

// New creates a Builder for the given run configuration.
func New(cfg config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// rowResult is the per-slot outcome of the parallel pass.
type rowResult struct {
	row  table.Row
	comp interest.Computation
	err  *interest.CalculationError
}

// Build computes debit notes for every row of the input table. The input is
// never mutated; every output row is a fresh value. Build only returns an
// error when the context is cancelled mid-run; row-level failures are
// reported through the Result.
func (b *Builder) Build(ctx context.Context, in *table.Table) (*Result, error) {
	calcCfg := b.cfg.Calculation
	slots := make([]rowResult, in.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Processing.MaxConcurrency)

	for i, row := range in.Rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			comp, err := interest.Compute(row, calcCfg)
			if err != nil {
				var calcErr *interest.CalculationError
				if !errors.As(err, &calcErr) {
					return err
				}
				slots[i] = rowResult{row: row, err: calcErr}
				return nil
			}

			slots[i] = rowResult{row: row, comp: comp}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return b.collect(in, slots), nil
}

// collect merges the per-row slots, still in input order, into the result
// table according to the failed-row policy.
func (b *Builder) collect(in *table.Table, slots []rowResult) *Result {
	res := &Result{
		Output: table.New(append(append([]string{}, in.Columns...), table.ComputedColumns()...)...),
		Stats: BuildStats{
			RowsIn:        in.Len(),
			TotalInterest: decimal.Zero,
		},
	}

	drop := b.cfg.Calculation.FailedRowPolicy == config.PolicyDrop

	for _, slot := range slots {
		if slot.err != nil {
			res.RowErrors = append(res.RowErrors, slot.err)
			res.Stats.RowsFailed++
			if drop {
				continue
			}
			res.Output.Append(b.sentinelRow(slot.row))
			continue
		}

		res.Output.Append(b.computedRow(slot.row, slot.comp))
		if slot.comp.Chargeable() {
			res.Stats.RowsCharged++
		}
		res.Stats.TotalInterest = res.Stats.TotalInterest.Add(slot.comp.InterestAmount)
	}

	res.Stats.RowsOut = res.Output.Len()
	return res
}

// computedRow returns a copy of the input row with the computed columns set.
func (b *Builder) computedRow(row table.Row, comp interest.Computation) table.Row {
	calc := b.cfg.Calculation

	out := row.Clone()
	out[table.ColDueDays] = strconv.Itoa(calc.DueDaysThreshold)
	out[table.ColPreviousInterestDays] = strconv.Itoa(comp.PreviousInterestDays)
	out[table.ColInterestWorkingDays] = strconv.Itoa(calc.InterestWorkingDays)
	out[table.ColPerDayInterestRate] = strconv.FormatFloat(calc.PerDayInterestRate, 'f', -1, 64)
	out[table.ColWorkingInterestPct] = comp.WorkingInterestPercent.String()
	out[table.ColInterestAmount] = comp.InterestAmount.StringFixed(2)
	return out
}

// sentinelRow returns a copy of the input row with every computed column set
// to the unavailable marker. Used for kept failed rows.
func (b *Builder) sentinelRow(row table.Row) table.Row {
	out := row.Clone()
	for _, c := range table.ComputedColumns() {
		out[c] = config.UnavailableMarker
	}
	return out
}
