package tableio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/verify"
)

func TestWriteReadXLSXRoundTrip(t *testing.T) {
	src := table.New(table.ColCustomerName, table.ColTransaction, table.ColBalanceDue)
	src.Append(table.Row{
		table.ColCustomerName: "Acme",
		table.ColTransaction:  "T-1",
		table.ColBalanceDue:   "10000",
	})
	src.Append(table.Row{
		table.ColCustomerName: "Brick & Co",
		table.ColTransaction:  "T-2",
		table.ColBalanceDue:   "2500.50",
	})

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(src, path, "Debit Notes"))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, src.Columns, got.Columns)
	require.Equal(t, src.Len(), got.Len())
	for i, want := range src.Rows {
		for _, col := range src.Columns {
			assert.Equal(t, want[col], got.Rows[i][col], "row %d column %s", i, col)
		}
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCols []string
		wantRows int
		wantErr  bool
		check    func(*testing.T, *table.Table)
	}{
		{
			name:     "plain file",
			content:  "A,B\n1,2\n3,4\n",
			wantCols: []string{"A", "B"},
			wantRows: 2,
		},
		{
			name:     "bom on first header is stripped",
			content:  "\uFEFFA,B\n1,2\n",
			wantCols: []string{"A", "B"},
			wantRows: 1,
		},
		{
			name:     "short rows are padded",
			content:  "A,B,C\n1,2\n",
			wantCols: []string{"A", "B", "C"},
			wantRows: 1,
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, "", tbl.Rows[0]["C"])
			},
		},
		{
			name:     "empty rows and leading blank lines are skipped",
			content:  ",,\nA,B,C\n1,2,3\n,,\n4,5,6\n",
			wantCols: []string{"A", "B", "C"},
			wantRows: 2,
		},
		{
			name:     "cells are trimmed",
			content:  " A , B \n 1 , 2 \n",
			wantCols: []string{"A", "B"},
			wantRows: 1,
			check: func(t *testing.T, tbl *table.Table) {
				assert.Equal(t, "1", tbl.Rows[0]["A"])
			},
		},
		{
			name:    "file with only empty rows has no header",
			content: ",,\n,,\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "in.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := Read(path)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, got.Columns)
			assert.Equal(t, tt.wantRows, got.Len())
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := Read("input.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)

	_, err = Read(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestWriteReportXLSX(t *testing.T) {
	rep := &verify.Report{
		Mismatches: []verify.Mismatch{
			{Key: "Acme||T-1", Type: verify.ValueMismatch, Column: "Interest Amount", Expected: "186.00", Actual: "99.00"},
			{Key: "Zeta||T-9", Type: verify.MissingInActual},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteReportXLSX(rep, path))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Key", "Mismatch Type", "Column", "Expected Value", "Actual Value", "Table"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Acme||T-1", got.Rows[0]["Key"])
	assert.Equal(t, string(verify.ValueMismatch), got.Rows[0]["Mismatch Type"])
	assert.Equal(t, "186.00", got.Rows[0]["Expected Value"])
	assert.Equal(t, string(verify.MissingInActual), got.Rows[1]["Mismatch Type"])
}
