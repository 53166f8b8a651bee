// =============================================================================
// Invoice to Debit Note Converter - Schema Validation
// =============================================================================
//
// This module confirms that an input table carries every column the pipeline
// needs before any computation proceeds. A table with a partial schema is
// rejected wholesale: the error names every missing column, not just the
// first, so one upload round-trip is enough to fix the file.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// SchemaError reports the required columns absent from an input table.
// It is fatal for the run; nothing is processed when it is returned.
type SchemaError struct {
	// MissingColumns lists every required column the table lacks,
	// in required-column order.
	MissingColumns []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing %d required column(s): %s",
		len(e.MissingColumns), strings.Join(e.MissingColumns, ", "))
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks a table against the default required-column list.
func Validate(t *table.Table) error {
	return ValidateColumns(t, table.RequiredColumns())
}

// ValidateColumns checks that a table declares every column in required.
// It returns nil on success or a *SchemaError naming all missing columns.
// The table is not read beyond its column list and is never mutated.
func ValidateColumns(t *table.Table, required []string) error {
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{MissingColumns: missing}
	}
	return nil
}
