package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/config"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/debitnote"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/verify"
)

func statsTable(values ...string) *table.Table {
	t := table.New(table.ColInterestAmount)
	for _, v := range values {
		t.Append(table.Row{table.ColInterestAmount: v})
	}
	return t
}

func TestStats(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		wantOK    bool
		wantCount int
		wantSum   string
		wantMean  string
		wantMax   string
		wantMin   string
	}{
		{
			name:      "plain values",
			values:    []string{"10.00", "20.00", "30.00"},
			wantOK:    true,
			wantCount: 3,
			wantSum:   "60.00",
			wantMean:  "20.00",
			wantMax:   "30.00",
			wantMin:   "10.00",
		},
		{
			name:      "non-numeric cells are skipped",
			values:    []string{"10.00", config.UnavailableMarker, "30.00"},
			wantOK:    true,
			wantCount: 2,
			wantSum:   "40.00",
			wantMean:  "20.00",
			wantMax:   "30.00",
			wantMin:   "10.00",
		},
		{
			name:      "mean is rounded to two places",
			values:    []string{"1", "1", "0"},
			wantOK:    true,
			wantCount: 3,
			wantSum:   "2.00",
			wantMean:  "0.67",
			wantMax:   "1.00",
			wantMin:   "0.00",
		},
		{
			name:      "single negative value",
			values:    []string{"-5.50"},
			wantOK:    true,
			wantCount: 1,
			wantSum:   "-5.50",
			wantMean:  "-5.50",
			wantMax:   "-5.50",
			wantMin:   "-5.50",
		},
		{
			name:   "only non-numeric cells",
			values: []string{config.UnavailableMarker, ""},
			wantOK: false,
		},
		{
			name:   "no rows",
			values: nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Stats(statsTable(tt.values...), table.ColInterestAmount)

			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantCount, got.Count)
			assert.Equal(t, tt.wantSum, got.Sum.StringFixed(2))
			assert.Equal(t, tt.wantMean, got.Mean.StringFixed(2))
			assert.Equal(t, tt.wantMax, got.Max.StringFixed(2))
			assert.Equal(t, tt.wantMin, got.Min.StringFixed(2))
		})
	}
}

func TestStatsMissingColumn(t *testing.T) {
	_, ok := Stats(table.New("Other"), table.ColInterestAmount)
	assert.False(t, ok)
}

func TestBuildSummary(t *testing.T) {
	in := table.New(table.RequiredColumns()...)
	in.Append(table.Row{
		table.ColCustomerNumber: "C-1",
		table.ColTransaction:    "T-1",
		table.ColType:           "Invoice",
		table.ColAge:            "500",
		table.ColBalanceDue:     "10000",
	})
	in.Append(table.Row{
		table.ColCustomerNumber: "C-2",
		table.ColTransaction:    "T-2",
		table.ColType:           "Invoice",
		table.ColAge:            "bad",
		table.ColBalanceDue:     "100",
	})

	res, err := debitnote.New(config.Default()).Build(context.Background(), in)
	require.NoError(t, err)

	out := BuildSummary(res)

	assert.Contains(t, out, "Rows in:         2")
	assert.Contains(t, out, "Rows out:        2")
	assert.Contains(t, out, "Rows failed:     1")
	assert.Contains(t, out, "Total interest:  186.00")
	assert.Contains(t, out, "Rows that could not be computed:")
	assert.Contains(t, out, "C-2/T-2")
}

func TestVerifySummary(t *testing.T) {
	clean := table.New(table.ColCustomerName, table.ColTransaction, table.ColInterestAmount)
	clean.Append(table.Row{
		table.ColCustomerName:   "Acme",
		table.ColTransaction:    "T-1",
		table.ColInterestAmount: "186.00",
	})

	opts := verify.OptionsFromConfig(config.Default().Verification)

	rep := verify.Verify(context.Background(), clean, clean.Clone(), opts)
	out := VerifySummary(rep)
	assert.Contains(t, out, "No mismatches found")
	assert.Contains(t, out, "actual=186.00 expected=186.00")

	dirty := clean.Clone()
	dirty.Rows[0][table.ColInterestAmount] = "99.00"

	rep = verify.Verify(context.Background(), clean, dirty, opts)
	out = VerifySummary(rep)
	assert.Contains(t, out, "1 mismatch(es):")
	assert.Contains(t, out, string(verify.ValueMismatch))
	assert.Contains(t, out, "Acme||T-1")
	assert.Contains(t, out, `expected="99.00"`)
	assert.Contains(t, out, `actual="186.00"`)
}
