// =============================================================================
// Invoice to Debit Note Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command for converting a
// raw invoice export into debit-note rows.
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Read the input spreadsheet into a table
//   3. Validate the schema (all required columns present)
//   4. Clean numeric cells and apply the pre-processing filters
//   5. Build debit notes (interest computed per row, concurrently)
//   6. Write the output workbook
//   7. Print the run summary and log any row errors
//   8. Archive the input file if an archive directory is configured
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/config"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/debitnote"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/interest"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/report"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/schema"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/table"
	"github.com/ginjaninja78/invoice-to-debitnote/internal/tableio"
	"github.com/ginjaninja78/invoice-to-debitnote/pkg/utils"
)

// inputPath is the raw invoice export to process.
var inputPath string

// outputPath overrides the generated output location.
var outputPath string

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert a raw invoice export into debit notes with computed interest",
	Long: `The process command reads a raw invoice/transaction export, validates that
it carries every required column, computes the overdue-interest figures for
each row, and writes the debit-note workbook.

A missing column fails the run before any row is processed, with every missing
column named. A single row whose values cannot be computed never aborts the
batch: the row's error is reported at the end and the run completes with
everything that could be computed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&inputPath,
		"input",
		"",
		"Path to the raw invoice export (.xlsx or .csv)",
	)
	processCmd.MarkFlagRequired("input")

	processCmd.Flags().StringVar(
		&outputPath,
		"output",
		"",
		"Path for the generated workbook (default: generated name in the output directory)",
	)
}

// runProcess orchestrates the conversion pipeline.
func runProcess(ctx context.Context) error {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("=== Invoice to Debit Note Converter ===")
	fmt.Printf("Processing %s\n", filepath.Base(inputPath))

	in, err := tableio.Read(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	logVerbose("Read %d row(s), %d column(s)", in.Len(), len(in.Columns))

	// Schema problems are fatal and reported before any row is processed.
	if err := schema.Validate(in); err != nil {
		return err
	}

	prepared := preprocess(in, cfg)
	logVerbose("%d row(s) after pre-processing", prepared.Len())

	builder := debitnote.New(cfg)
	res, err := builder.Build(ctx, prepared)
	if err != nil {
		return err
	}

	outFile := outputPath
	if outFile == "" {
		fm := utils.NewFileManager(cfg.Output.OutputDir, cfg.Output.InputArchiveDir)
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		name := utils.GenerateOutputFileName(cfg.Output.FilenameFormat, inputPath)
		outFile = filepath.Join(cfg.Output.OutputDir, name)
	}

	if err := tableio.WriteXLSX(res.Output, outFile, cfg.Output.SheetName); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Println("\n=== Processing Complete ===")
	fmt.Print(report.BuildSummary(res))
	fmt.Printf("Output:          %s\n", outFile)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))

	if len(res.RowErrors) > 0 {
		entries := make([]utils.ErrorLogEntry, 0, len(res.RowErrors))
		for _, e := range res.RowErrors {
			entries = append(entries, utils.ErrorLogEntry{
				Source:  filepath.Base(inputPath),
				Message: e.Error(),
			})
		}
		if logPath, err := utils.WriteErrorLog(entries, filepath.Dir(outFile)); err == nil && logPath != "" {
			fmt.Printf("Row errors logged to %s\n", logPath)
		}
	}

	if cfg.Output.InputArchiveDir != "" {
		fm := utils.NewFileManager(cfg.Output.OutputDir, cfg.Output.InputArchiveDir)
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		archived, err := fm.ArchiveInputFile(inputPath)
		if err != nil {
			return err
		}
		logVerbose("Archived input to %s", archived)
	}

	return nil
}

// preprocess applies the configured filters the raw export needs before
// building: numeric-cell cleaning, legacy-column removal, the overdue and
// age filters, and the output sort.
func preprocess(in *table.Table, cfg config.Config) *table.Table {
	t := in.CleanNumericCells()

	if len(cfg.Processing.DropColumns) > 0 {
		t = t.DropColumns(cfg.Processing.DropColumns...)
	}

	if !cfg.Processing.IncludeAllStatuses {
		t = t.Filter(func(r table.Row) bool {
			return r[table.ColStatus] == "Overdue"
		})
	}

	if !cfg.Processing.SkipAgeFilter {
		threshold := cfg.Calculation.DueDaysThreshold
		t = t.Filter(func(r table.Row) bool {
			age, ok := effectiveAge(r, cfg.Calculation)
			// Rows with an unparseable age stay in so the builder can
			// report them against their row key.
			return !ok || age > threshold
		})
	}

	if cfg.Processing.SortBy != "" {
		t = t.SortBy(cfg.Processing.SortBy)
	}

	return t
}

// effectiveAge returns the age the filter measures against: the configured
// opening-balance age for opening-balance rows, the row's own Age otherwise.
func effectiveAge(r table.Row, calc config.CalculationConfig) (int, bool) {
	if r[table.ColType] == interest.TypeOpeningBalance {
		return calc.OpeningBalanceAge, true
	}
	age, err := strconv.Atoi(table.CleanAge(r[table.ColAge]))
	if err != nil {
		return 0, false
	}
	return age, true
}
