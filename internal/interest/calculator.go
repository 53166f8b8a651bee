// =============================================================================
// Invoice to Debit Note Converter - Aging & Interest Calculator
// =============================================================================
//
// This module derives the overdue-interest figures for a single transaction
// row. Compute is a pure function of (row, configuration): it reads the row,
// never mutates it, and holds no state, so rows can be evaluated in any order
// and concurrently.
//
// FORMULAS:
//   working interest %     = interest_working_days x per_day_interest_rate
//   previous interest days = age baseline - due_days_threshold - interest_working_days
//   interest amount        = balance due x working interest % / 100
//
// The age baseline is the row's own Age, except for "Customer Opening Balance"
// rows which carry no due date and use the configured opening-balance age
// instead. Previous interest days is kept signed: a negative value means the
// row has not yet crossed into the charging window and its interest amount is
// zero, not an error.
//
// NUMERIC SEMANTICS:
//   All currency arithmetic uses shopspring/decimal. Rounding to two decimal
//   places happens once, at the final interest amount; intermediate
//   percentages are kept exact.
//
// =============================================================================

package interest

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/config"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
)

// TypeOpeningBalance is the transaction type whose age baseline comes from
// configuration rather than from the row.
const TypeOpeningBalance = "Customer Opening Balance"

// =============================================================================
// RESULT AND ERROR TYPES
// =============================================================================

// Computation holds the derived figures for one row.
type Computation struct {
	// WorkingInterestPercent is the rate applied for the charging window.
	// It depends only on configuration, not on the row.
	WorkingInterestPercent decimal.Decimal

	// PreviousInterestDays is the signed distance past the charging window.
	// Negative means the row is not yet chargeable.
	PreviousInterestDays int

	// InterestAmount is the charge for this row, rounded to two decimal
	// places, or zero when the row is not chargeable.
	InterestAmount decimal.Decimal
}

// Chargeable reports whether the row had crossed into the charging window.
func (c Computation) Chargeable() bool {
	return c.PreviousInterestDays >= 0
}

// CalculationError reports a row whose values could not be computed.
// It identifies the row by its customer and transaction numbers and names the
// offending field. A calculation error never aborts a batch; the builder
// collects it and continues.
type CalculationError struct {
	CustomerNumber    string
	TransactionNumber string
	Field             string
	Value             string
}

// Error implements the error interface.
func (e *CalculationError) Error() string {
	return fmt.Sprintf("row %s/%s: field %q has non-numeric value %q",
		e.CustomerNumber, e.TransactionNumber, e.Field, e.Value)
}

// =============================================================================
// CALCULATION
// =============================================================================

// WorkingInterestPercent returns interest_working_days x per_day_interest_rate.
// The value is the same for every row of a run.
func WorkingInterestPercent(cfg config.CalculationConfig) decimal.Decimal {
	days := decimal.NewFromInt(int64(cfg.InterestWorkingDays))
	rate := decimal.NewFromFloat(cfg.PerDayInterestRate)
	return days.Mul(rate)
}

// Compute derives the interest figures for one row. The row's Balance Due and
// Age cells may still carry display formatting; they are cleaned before
// parsing. On a non-numeric value it returns a *CalculationError naming the
// row and field.
func Compute(row table.Row, cfg config.CalculationConfig) (Computation, error) {
	out := Computation{
		WorkingInterestPercent: WorkingInterestPercent(cfg),
	}

	baseline, err := ageBaseline(row, cfg)
	if err != nil {
		return Computation{}, err
	}

	out.PreviousInterestDays = baseline - cfg.DueDaysThreshold - cfg.InterestWorkingDays

	// The balance is parsed even for rows that are not chargeable, so a
	// malformed cell is reported no matter where the row sits in the window.
	balance, err := parseBalanceDue(row)
	if err != nil {
		return Computation{}, err
	}

	if !out.Chargeable() {
		out.InterestAmount = decimal.Zero
		return out, nil
	}

	out.InterestAmount = balance.
		Mul(out.WorkingInterestPercent).
		Div(decimal.NewFromInt(100)).
		Round(2)
	return out, nil
}

// ageBaseline returns the age the interest window is measured against:
// the configured opening-balance age for opening-balance rows, the row's own
// cleaned Age otherwise.
func ageBaseline(row table.Row, cfg config.CalculationConfig) (int, error) {
	if row[table.ColType] == TypeOpeningBalance {
		return cfg.OpeningBalanceAge, nil
	}

	raw := table.CleanAge(row[table.ColAge])
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, calcError(row, table.ColAge)
	}
	return age, nil
}

// parseBalanceDue parses the row's Balance Due cell. An empty cell counts as
// zero, matching rows the export writes with a blank balance.
func parseBalanceDue(row table.Row) (decimal.Decimal, error) {
	raw := table.CleanCurrency(row[table.ColBalanceDue])
	if raw == "" {
		return decimal.Zero, nil
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, calcError(row, table.ColBalanceDue)
	}
	return balance, nil
}

func calcError(row table.Row, field string) *CalculationError {
	return &CalculationError{
		CustomerNumber:    row[table.ColCustomerNumber],
		TransactionNumber: row[table.ColTransaction],
		Field:             field,
		Value:             row[field],
	}
}
