package interest

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/config"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
)

func defaultCalc() config.CalculationConfig {
	return config.Default().Calculation
}

func TestWorkingInterestPercent(t *testing.T) {
	// 31 working days x 0.06 per day = 1.86, independent of any row.
	got := WorkingInterestPercent(defaultCalc())
	assert.True(t, got.Equal(decimal.RequireFromString("1.86")), "got %s", got)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		row          table.Row
		wantPrevDays int
		wantInterest string
		wantErrField string
	}{
		{
			name: "chargeable row past the window",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "500",
				table.ColBalanceDue: "10000",
			},
			wantPrevDays: 319, // 500 - 150 - 31
			wantInterest: "186.00",
		},
		{
			name: "row before the window is not chargeable",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "100",
				table.ColBalanceDue: "10000",
			},
			wantPrevDays: -81, // 100 - 150 - 31, kept signed
			wantInterest: "0",
		},
		{
			name: "age exactly at the window boundary is chargeable",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "181",
				table.ColBalanceDue: "1000",
			},
			wantPrevDays: 0,
			wantInterest: "18.60",
		},
		{
			name: "opening balance uses the configured age baseline",
			row: table.Row{
				table.ColType:       TypeOpeningBalance,
				table.ColAge:        "not even numeric",
				table.ColBalanceDue: "2500",
			},
			wantPrevDays: 119, // 300 - 150 - 31
			wantInterest: "46.50",
		},
		{
			name: "formatted currency and age cells are cleaned before parsing",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "500 Days",
				table.ColBalanceDue: "₹10,000",
			},
			wantPrevDays: 319,
			wantInterest: "186.00",
		},
		{
			name: "empty balance due counts as zero",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "400",
				table.ColBalanceDue: "",
			},
			wantPrevDays: 219,
			wantInterest: "0.00",
		},
		{
			name: "negative balance yields a negative charge",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "500",
				table.ColBalanceDue: "-100",
			},
			wantPrevDays: 319,
			wantInterest: "-1.86",
		},
		{
			name: "interest is rounded once at the final amount",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "500",
				table.ColBalanceDue: "1234.56",
			},
			wantPrevDays: 319,
			wantInterest: "22.96", // 1234.56 * 1.86 / 100 = 22.962816
		},
		{
			name: "non-numeric age fails naming the field",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "unknown",
				table.ColBalanceDue: "100",
			},
			wantErrField: table.ColAge,
		},
		{
			name: "non-numeric balance fails naming the field",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "500",
				table.ColBalanceDue: "12x.4",
			},
			wantErrField: table.ColBalanceDue,
		},
		{
			name: "non-numeric balance fails even when not chargeable",
			row: table.Row{
				table.ColType:       "Invoice",
				table.ColAge:        "100",
				table.ColBalanceDue: "12x.4",
			},
			wantErrField: table.ColBalanceDue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.row[table.ColCustomerNumber] = "C-001"
			tt.row[table.ColTransaction] = "T-001"

			got, err := Compute(tt.row, defaultCalc())

			if tt.wantErrField != "" {
				require.Error(t, err)
				var calcErr *CalculationError
				require.True(t, errors.As(err, &calcErr))
				assert.Equal(t, tt.wantErrField, calcErr.Field)
				assert.Equal(t, "C-001", calcErr.CustomerNumber)
				assert.Equal(t, "T-001", calcErr.TransactionNumber)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPrevDays, got.PreviousInterestDays)
			assert.True(t, got.InterestAmount.Equal(decimal.RequireFromString(tt.wantInterest)),
				"interest: got %s want %s", got.InterestAmount, tt.wantInterest)
		})
	}
}

func TestComputeDoesNotMutateRow(t *testing.T) {
	row := table.Row{
		table.ColType:       "Invoice",
		table.ColAge:        "500 Days",
		table.ColBalanceDue: "₹10,000",
	}

	_, err := Compute(row, defaultCalc())
	require.NoError(t, err)

	assert.Equal(t, "500 Days", row[table.ColAge])
	assert.Equal(t, "₹10,000", row[table.ColBalanceDue])
}

func TestComputePercentIndependentOfRow(t *testing.T) {
	rows := []table.Row{
		{table.ColType: "Invoice", table.ColAge: "200", table.ColBalanceDue: "1"},
		{table.ColType: "Invoice", table.ColAge: "9000", table.ColBalanceDue: "123456.78"},
		{table.ColType: TypeOpeningBalance, table.ColBalanceDue: "0"},
	}

	for _, row := range rows {
		got, err := Compute(row, defaultCalc())
		require.NoError(t, err)
		assert.True(t, got.WorkingInterestPercent.Equal(decimal.RequireFromString("1.86")))
	}
}
