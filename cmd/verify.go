// =============================================================================
// Invoice to Debit Note Converter - Verify Command
// =============================================================================
//
// This file defines the 'verify' command, which diffs a processed output
// against an expected output and reports every discrepancy: missing rows,
// extra rows, duplicate keys, and cell values differing beyond tolerance.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/report"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/tableio"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/verify"
)

// actualPath and expectedPath are the two tables to diff.
var actualPath string
var expectedPath string

// reportPath optionally exports the mismatch report as a workbook.
var reportPath string

// failOnMismatch makes the command exit non-zero when mismatches are found.
var failOnMismatch bool

// verifyCmd represents the 'verify' command.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Diff a processed output against an expected output",
	Long: `The verify command aligns two workbooks by a composite row key and compares
them cell by cell. It always runs to completion and reports the full list of
discrepancies rather than stopping at the first one.

Numeric cells are compared within a configurable absolute tolerance so
harmless rounding drift between runs does not show up as a mismatch. The
report is deterministically ordered, so two runs over the same files can be
diffed directly.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(
		&actualPath,
		"actual",
		"",
		"Path to the processed output (.xlsx or .csv)",
	)
	verifyCmd.MarkFlagRequired("actual")

	verifyCmd.Flags().StringVar(
		&expectedPath,
		"expected",
		"",
		"Path to the expected output (.xlsx or .csv)",
	)
	verifyCmd.MarkFlagRequired("expected")

	verifyCmd.Flags().StringVar(
		&reportPath,
		"report",
		"",
		"Path to export the mismatch report as a workbook",
	)

	verifyCmd.Flags().BoolVar(
		&failOnMismatch,
		"fail-on-mismatch",
		false,
		"Exit with a non-zero status when mismatches are found",
	)
}

// runVerify orchestrates the verification run.
func runVerify(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("=== Output Verification ===")
	fmt.Printf("Comparing %s against %s\n\n", filepath.Base(actualPath), filepath.Base(expectedPath))

	actual, err := tableio.Read(actualPath)
	if err != nil {
		return fmt.Errorf("failed to read actual: %w", err)
	}
	expected, err := tableio.Read(expectedPath)
	if err != nil {
		return fmt.Errorf("failed to read expected: %w", err)
	}

	rep := verify.Verify(ctx, actual, expected, verify.OptionsFromConfig(cfg.Verification))
	fmt.Print(report.VerifySummary(rep))

	if reportPath != "" && !rep.Clean() {
		if err := tableio.WriteReportXLSX(rep, reportPath); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("\nMismatch report written to %s\n", reportPath)
	}

	if failOnMismatch && !rep.Clean() {
		return fmt.Errorf("%d mismatch(es) found", len(rep.Mismatches))
	}
	return nil
}
