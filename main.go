// =============================================================================
// Invoice to Debit Note Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Invoice to Debit Note Converter CLI.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   debitnote process   - Convert a raw invoice export into debit notes
//   debitnote verify    - Diff a processed output against an expected output
//   debitnote version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : Core business logic (not for external import)
//   - pkg/        : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/invoice-to-debitnote/cmd"
)

func main() {
	cmd.Execute()
}
