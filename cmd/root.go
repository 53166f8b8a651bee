// =============================================================================
// Invoice to Debit Note Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command the subcommands are attached to:
//
//   debitnote
//   ├── process   (convert a raw invoice export into debit notes)
//   ├── verify    (diff a processed output against an expected output)
//   └── version
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-to-debitnote/internal/config"
	"github.com/ginjaninja78/invoice-to-debitnote/pkg/utils"
)

// cfgFile holds the path to the configuration file, overridable via --config.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "debitnote",
	Short: "Invoice to Debit Note Converter - compute overdue interest and verify outputs",
	Long: `Invoice to Debit Note Converter turns a raw invoice/transaction export into
debit-note rows with computed overdue-interest charges, and verifies a
processed output against an expected output to surface discrepancies.

Key Features:
  - Configurable aging thresholds and interest rates
  - Per-row failure isolation: one bad row never aborts a batch
  - Deterministic row-by-row, cell-by-cell verification reports
  - Reads and writes the finance team's spreadsheet formats

Example Usage:
  debitnote process --input raw_invoices.xlsx
  debitnote verify --actual out.xlsx --expected expected_output.xlsx`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig returns the run configuration: the file named by --config when it
// exists, the built-in defaults otherwise.
func loadConfig() (config.Config, error) {
	if utils.FileExists(cfgFile) {
		return config.Load(cfgFile)
	}
	return config.Default(), nil
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
