// =============================================================================
// Invoice to Debit Note Converter - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. A run uses a
// single immutable Config record: it is loaded and validated once at startup
// and then passed by value into the pipeline, never re-validated per row.
//
// CONFIGURATION SOURCES:
//   1. Built-in defaults (the values the finance team runs with)
//   2. An optional YAML file overriding them (--config flag)
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Failed-row policies for the debit-note builder. Under PolicyKeep a row whose
// computation fails passes through with computed columns set to the sentinel
// value; under PolicyDrop it is excluded from the output. Either way the error
// is reported and the batch completes.
const (
	PolicyKeep = "keep"
	PolicyDrop = "drop"
)

// UnavailableMarker is written into the computed columns of a kept failed row.
const UnavailableMarker = "N/A"

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	Calculation  CalculationConfig  `yaml:"calculation"`
	Processing   ProcessingConfig   `yaml:"processing"`
	Verification VerificationConfig `yaml:"verification"`
	Output       OutputConfig       `yaml:"output"`
}

// CalculationConfig holds the interest-calculation thresholds. All four values
// must be non-negative; the working-interest percentage derived from them
// (interest_working_days x per_day_interest_rate) is then non-negative too.
type CalculationConfig struct {
	// DueDaysThreshold is the age, in days, after which a balance starts
	// accruing interest. Default: 150.
	DueDaysThreshold int `yaml:"due_days_threshold" validate:"gte=0"`

	// PerDayInterestRate is the daily interest rate in percent. Default: 0.06.
	PerDayInterestRate float64 `yaml:"per_day_interest_rate" validate:"gte=0"`

	// InterestWorkingDays is the length of the charging window in days.
	// Default: 31.
	InterestWorkingDays int `yaml:"interest_working_days" validate:"gte=0"`

	// OpeningBalanceAge is the age assigned to "Customer Opening Balance"
	// rows, which carry no due date of their own. Default: 300.
	OpeningBalanceAge int `yaml:"opening_balance_age" validate:"gte=0"`

	// FailedRowPolicy selects what happens to a row whose computation fails:
	// "keep" (pass through with computed columns set to N/A) or "drop".
	// Default: "keep".
	FailedRowPolicy string `yaml:"failed_row_policy" validate:"oneof=keep drop"`
}

// ProcessingConfig holds the pre-processing options applied before the
// debit-note builder runs.
type ProcessingConfig struct {
	// IncludeAllStatuses disables the Status == "Overdue" pre-filter.
	IncludeAllStatuses bool `yaml:"include_all_statuses"`

	// SkipAgeFilter disables the Age > due_days_threshold pre-filter.
	SkipAgeFilter bool `yaml:"skip_age_filter"`

	// DropColumns are legacy columns removed from the input before
	// processing. Default: the "Sales person" spelling variants.
	DropColumns []string `yaml:"drop_columns"`

	// SortBy is the column the output is sorted by. Empty disables sorting.
	// Default: "Customer Name".
	SortBy string `yaml:"sort_by"`

	// MaxConcurrency bounds the worker pool used for per-row computation.
	// Default: 4.
	MaxConcurrency int `yaml:"max_concurrency" validate:"gte=1"`
}

// VerificationConfig holds the verifier's comparison options.
type VerificationConfig struct {
	// KeyColumns form the composite row key. Default: Customer Name and
	// Transaction#.
	KeyColumns []string `yaml:"key_columns" validate:"min=1"`

	// CompareColumns are the columns compared cell-by-cell for keys present
	// in both tables. Default: Interest Amount, Balance Due, Age.
	CompareColumns []string `yaml:"compare_columns" validate:"min=1"`

	// NumericTolerance is the absolute tolerance for numeric comparisons,
	// absorbing rounding drift between runs. Default: 0.01.
	NumericTolerance float64 `yaml:"numeric_tolerance" validate:"gte=0"`
}

// OutputConfig holds output and archival settings.
type OutputConfig struct {
	// OutputDir is where generated workbooks are written. Default: "./output".
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where processed input files are moved after a
	// successful run. Empty disables archival. Default: "".
	InputArchiveDir string `yaml:"input_archive_dir"`

	// SheetName is the worksheet name in generated workbooks.
	// Default: "Debit Notes".
	SheetName string `yaml:"sheet_name"`

	// FilenameFormat names generated files. Placeholders:
	//   {timestamp} - run timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	//   {name}      - base name of the input file
	// Default: "{name}_debitnote_{timestamp}.xlsx".
	FilenameFormat string `yaml:"filename_format"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration the tool runs with when no file is given.
func Default() Config {
	return Config{
		Calculation: CalculationConfig{
			DueDaysThreshold:    150,
			PerDayInterestRate:  0.06,
			InterestWorkingDays: 31,
			OpeningBalanceAge:   300,
			FailedRowPolicy:     PolicyKeep,
		},
		Processing: ProcessingConfig{
			DropColumns:    []string{"Sales person", "Sale Person"},
			SortBy:         "Customer Name",
			MaxConcurrency: 4,
		},
		Verification: VerificationConfig{
			KeyColumns:       []string{"Customer Name", "Transaction#"},
			CompareColumns:   []string{"Interest Amount", "Balance Due", "Age"},
			NumericTolerance: 0.01,
		},
		Output: OutputConfig{
			OutputDir:      "./output",
			SheetName:      "Debit Notes",
			FilenameFormat: "{name}_debitnote_{timestamp}.xlsx",
		},
	}
}

// fileConfig mirrors Config with optional fields so an explicit value in the
// file is distinguishable from an absent key. Zero is a legal value for every
// numeric option (a zero tolerance means exact comparison, a zero threshold
// charges from day one), so only absence selects a default.
type fileConfig struct {
	Calculation struct {
		DueDaysThreshold    *int     `yaml:"due_days_threshold"`
		PerDayInterestRate  *float64 `yaml:"per_day_interest_rate"`
		InterestWorkingDays *int     `yaml:"interest_working_days"`
		OpeningBalanceAge   *int     `yaml:"opening_balance_age"`
		FailedRowPolicy     *string  `yaml:"failed_row_policy"`
	} `yaml:"calculation"`
	Processing struct {
		IncludeAllStatuses *bool    `yaml:"include_all_statuses"`
		SkipAgeFilter      *bool    `yaml:"skip_age_filter"`
		DropColumns        []string `yaml:"drop_columns"`
		SortBy             *string  `yaml:"sort_by"`
		MaxConcurrency     *int     `yaml:"max_concurrency"`
	} `yaml:"processing"`
	Verification struct {
		KeyColumns       []string `yaml:"key_columns"`
		CompareColumns   []string `yaml:"compare_columns"`
		NumericTolerance *float64 `yaml:"numeric_tolerance"`
	} `yaml:"verification"`
	Output struct {
		OutputDir       *string `yaml:"output_dir"`
		InputArchiveDir *string `yaml:"input_archive_dir"`
		SheetName       *string `yaml:"sheet_name"`
		FilenameFormat  *string `yaml:"filename_format"`
	} `yaml:"output"`
}

// Load reads a YAML configuration file, overlays it onto the defaults, and
// validates the result. Options absent from the file keep their defaults;
// options present in the file win even when set to zero or empty.
func Load(configPath string) (Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	file.apply(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// apply overlays the options present in the file onto cfg.
func (f fileConfig) apply(cfg *Config) {
	if f.Calculation.DueDaysThreshold != nil {
		cfg.Calculation.DueDaysThreshold = *f.Calculation.DueDaysThreshold
	}
	if f.Calculation.PerDayInterestRate != nil {
		cfg.Calculation.PerDayInterestRate = *f.Calculation.PerDayInterestRate
	}
	if f.Calculation.InterestWorkingDays != nil {
		cfg.Calculation.InterestWorkingDays = *f.Calculation.InterestWorkingDays
	}
	if f.Calculation.OpeningBalanceAge != nil {
		cfg.Calculation.OpeningBalanceAge = *f.Calculation.OpeningBalanceAge
	}
	if f.Calculation.FailedRowPolicy != nil {
		cfg.Calculation.FailedRowPolicy = *f.Calculation.FailedRowPolicy
	}

	if f.Processing.IncludeAllStatuses != nil {
		cfg.Processing.IncludeAllStatuses = *f.Processing.IncludeAllStatuses
	}
	if f.Processing.SkipAgeFilter != nil {
		cfg.Processing.SkipAgeFilter = *f.Processing.SkipAgeFilter
	}
	if f.Processing.DropColumns != nil {
		cfg.Processing.DropColumns = f.Processing.DropColumns
	}
	if f.Processing.SortBy != nil {
		cfg.Processing.SortBy = *f.Processing.SortBy
	}
	if f.Processing.MaxConcurrency != nil {
		cfg.Processing.MaxConcurrency = *f.Processing.MaxConcurrency
	}

	if f.Verification.KeyColumns != nil {
		cfg.Verification.KeyColumns = f.Verification.KeyColumns
	}
	if f.Verification.CompareColumns != nil {
		cfg.Verification.CompareColumns = f.Verification.CompareColumns
	}
	if f.Verification.NumericTolerance != nil {
		cfg.Verification.NumericTolerance = *f.Verification.NumericTolerance
	}

	if f.Output.OutputDir != nil {
		cfg.Output.OutputDir = *f.Output.OutputDir
	}
	if f.Output.InputArchiveDir != nil {
		cfg.Output.InputArchiveDir = *f.Output.InputArchiveDir
	}
	if f.Output.SheetName != nil {
		cfg.Output.SheetName = *f.Output.SheetName
	}
	if f.Output.FilenameFormat != nil {
		cfg.Output.FilenameFormat = *f.Output.FilenameFormat
	}
}

// Validate checks the configuration invariants once, at run start.
func Validate(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid configuration: field %s fails rule %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid configuration: %w", err)
}
