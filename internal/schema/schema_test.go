package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		columns     []string
		wantMissing []string
	}{
		{
			name:    "complete schema",
			columns: table.RequiredColumns(),
		},
		{
			name:    "extra columns are fine",
			columns: append(table.RequiredColumns(), "Remarks", "Sales person"),
		},
		{
			name:        "one missing column",
			columns:     dropColumns(table.RequiredColumns(), table.ColAge),
			wantMissing: []string{table.ColAge},
		},
		{
			name: "all missing columns are named in required order",
			columns: dropColumns(table.RequiredColumns(),
				table.ColBalanceDue, table.ColType, table.ColAge),
			wantMissing: []string{table.ColType, table.ColBalanceDue, table.ColAge},
		},
		{
			name:        "empty table is missing everything",
			columns:     nil,
			wantMissing: table.RequiredColumns(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(table.New(tt.columns...))

			if len(tt.wantMissing) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.wantMissing, schemaErr.MissingColumns)
		})
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{MissingColumns: []string{table.ColAge, table.ColBalanceDue}}
	msg := err.Error()

	assert.Contains(t, msg, "2 required column(s)")
	assert.Contains(t, msg, table.ColAge)
	assert.Contains(t, msg, table.ColBalanceDue)
}

func TestValidateColumnsCustomList(t *testing.T) {
	tbl := table.New("A", "B")

	assert.NoError(t, ValidateColumns(tbl, []string{"A"}))

	err := ValidateColumns(tbl, []string{"A", "C"})
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"C"}, schemaErr.MissingColumns)
}

func dropColumns(columns []string, remove ...string) []string {
	drop := make(map[string]bool, len(remove))
	for _, c := range remove {
		drop[c] = true
	}
	var out []string
	for _, c := range columns {
		if !drop[c] {
			out = append(out, c)
		}
	}
	return out
}
