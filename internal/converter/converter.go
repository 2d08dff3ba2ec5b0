// =============================================================================
// Order Report - Converter Module
// =============================================================================
//
// This module runs the whole report pipeline for one input file. It is what
// the process command calls.
//
// CONVERSION PIPELINE:
//   1. Parse the input text
//   2. Load and validate the override file (optional)
//   3. Reconcile orders with overrides and defaults
//   4. Render the text report
//   5. Write the report file (skipped on dry run)
//   6. Write the review workbook (optional)
//   7. Write an error log for rejected override entries
//
// =============================================================================

package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/order-report/internal/config"
	"github.com/ginjaninja78/order-report/internal/overrides"
	"github.com/ginjaninja78/order-report/internal/parser"
	"github.com/ginjaninja78/order-report/internal/reconciler"
	"github.com/ginjaninja78/order-report/internal/report"
	"github.com/ginjaninja78/order-report/internal/review"
	"github.com/ginjaninja78/order-report/internal/sheet"
	"github.com/ginjaninja78/order-report/internal/types"
	"github.com/ginjaninja78/order-report/internal/validation"
	"github.com/ginjaninja78/order-report/pkg/utils"
)


// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options selects the inputs and outputs of a run.
type Options struct {
	// InputPath is the input text file; "-" reads Stdin.
	InputPath string

	// Stdin is read when InputPath is "-".
	Stdin io.Reader

	// OverridesPath is an optional YAML or XLSX override file.
	OverridesPath string

	// Mode and Query filter the review workbook. The text report always
	// lists every result.
	Mode  review.Mode
	Query string

	// ReviewPath, when set, receives the review workbook.
	ReviewPath string

	// DryRun skips every file write.
	DryRun bool
}

// Result represents the outcome of a run.
type Result struct {
	// Report is the rendered text report.
	Report string

	// OutputFile is the written report path; empty on dry run.
	OutputFile string

	// ReviewFile is the written review workbook path, if any.
	ReviewFile string

	// ErrorLogFile is the written error log path, if any.
	ErrorLogFile string

	Metadata types.Metadata
	Results  []types.Result
	Stats    ProcessingStats

	// ValidationErrors lists rejected or ignored override entries.
	ValidationErrors []*validation.ValidationError
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	reconciler.Stats

	// LinesDiscarded counts input lines that were neither metadata nor orders.
	LinesDiscarded int

	// ReviewRows is the number of rows in the review workbook.
	ReviewRows int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER
// =============================================================================

// Converter runs the pipeline with a fixed configuration.
type Converter struct {
	mainConfig *config.MainConfig
	files      *utils.FileManager
	logger     *zap.Logger
}

// New creates a Converter.
func New(mainConfig *config.MainConfig, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		mainConfig: mainConfig,
		files:      utils.NewFileManager(mainConfig.OutputDir),
		logger:     logger,
	}
}

// SetClock replaces the time source used for file names.
func (c *Converter) SetClock(now func() time.Time) {
	c.files.Now = now
}

// Run executes the pipeline.
//
// RETURNS:
//   - The run result.
//   - parser.ErrNoOrders for an input without orders, or an I/O error.
func (c *Converter) Run(opts Options) (*Result, error) {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: PARSE INPUT
	// =========================================================================

	text, err := c.readInput(opts)
	if err != nil {
		return nil, err
	}

	parsed := parser.Parse(text)
	c.logger.Debug("parsed input",
		zap.String("input", opts.InputPath),
		zap.Int("orders", len(parsed.Orders)),
		zap.Int("discarded", parsed.Discarded),
		zap.String("region", parsed.Metadata.Region))

	if len(parsed.Orders) == 0 {
		return nil, parser.ErrNoOrders
	}

	result := &Result{Metadata: parsed.Metadata}
	result.Stats.LinesDiscarded = parsed.Discarded

	// =========================================================================
	// STEP 2: LOAD OVERRIDES
	// =========================================================================

	entered := map[int]types.OverrideFields{}
	if opts.OverridesPath != "" {
		entries, err := overrides.LoadFile(opts.OverridesPath)
		if err != nil {
			return nil, err
		}

		resolved := validation.Resolve(entries, parsed.Orders)
		entered = resolved.Overrides
		result.ValidationErrors = resolved.Errors

		for _, ve := range resolved.Errors {
			c.logger.Warn("override entry problem", zap.String("file", opts.OverridesPath), zap.Error(ve))
		}
		if !resolved.IsValid() {
			c.logger.Warn("some override entries were skipped",
				zap.Int("errors", resolved.ErrorCount),
				zap.Int("warnings", resolved.WarningCount))
		}
		c.logger.Debug("loaded overrides", zap.Int("entries", len(entries)), zap.Int("applied", len(entered)))
	}

	// =========================================================================
	// STEP 3: RECONCILE
	// =========================================================================

	result.Results = reconciler.Reconcile(parsed.Orders, entered, c.mainConfig.Defaults)
	result.Stats.Stats = reconciler.Summarize(result.Results)

	// =========================================================================
	// STEP 4: RENDER REPORT
	// =========================================================================

	result.Report = report.FormatReport(parsed.Metadata, result.Results)

	if opts.DryRun {
		result.Stats.ProcessingTime = time.Since(startTime)
		return result, nil
	}

	// =========================================================================
	// STEP 5: WRITE REPORT
	// =========================================================================

	name := c.files.GenerateOutputFileName(c.mainConfig.OutputNameFormat, map[string]string{
		"region": report.RegionCode(text),
	})
	result.OutputFile, err = c.files.WriteFile(name, []byte(result.Report))
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	c.logger.Info("wrote report", zap.String("path", result.OutputFile))

	// =========================================================================
	// STEP 6: WRITE REVIEW WORKBOOK
	// =========================================================================

	if opts.ReviewPath != "" {
		rows := review.FilterResults(result.Results, opts.Mode, opts.Query)
		if err := writeReview(opts.ReviewPath, parsed.Metadata, rows); err != nil {
			return nil, err
		}
		result.ReviewFile = opts.ReviewPath
		result.Stats.ReviewRows = len(rows)
		c.logger.Info("wrote review workbook", zap.String("path", opts.ReviewPath), zap.Int("rows", len(rows)))
	}

	// =========================================================================
	// STEP 7: ERROR LOG
	// =========================================================================

	if len(result.ValidationErrors) > 0 {
		logEntries := make([]utils.ErrorLogEntry, len(result.ValidationErrors))
		for i, ve := range result.ValidationErrors {
			logEntries[i] = utils.ErrorLogEntry{
				Severity:     ve.Severity,
				Source:       opts.OverridesPath,
				Line:         ve.Line,
				Field:        ve.Field,
				Value:        ve.Value,
				ErrorMessage: ve.Message,
			}
		}
		if result.ErrorLogFile, err = c.files.WriteErrorLog(logEntries); err != nil {
			// The report is already written; a missing log is not fatal.
			c.logger.Warn("failed to write error log", zap.Error(err))
		}
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result, nil
}

// readInput loads the input text from a file or stdin.
func (c *Converter) readInput(opts Options) (string, error) {
	if opts.InputPath == "-" {
		if opts.Stdin == nil {
			return "", errors.New("no stdin available")
		}
		data, err := io.ReadAll(opts.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// writeReview saves the review workbook for rows at path.
func writeReview(path string, meta types.Metadata, rows []types.Result) error {
	f, err := sheet.WriteReview(meta, rows)
	if err != nil {
		return fmt.Errorf("failed to build review workbook: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render review workbook: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write review workbook: %w", err)
	}
	return nil
}
