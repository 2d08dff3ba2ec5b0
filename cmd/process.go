// =============================================================================
// Order Report - Process Command
// =============================================================================
//
// This file defines the 'process' command. It turns one order listing into
// a report file.
//
// COMMAND USAGE:
//   order-report process --input <file|-> [flags]
//
// FLAGS:
//   --input      : Order listing to read; "-" reads stdin
//   --overrides  : YAML or XLSX file with per-order follow-up values
//   --mode       : Review filter: all, custom or default
//   --search     : Review search text
//   --xlsx       : Write the filtered review table to this workbook
//   --dry-run    : Print the report instead of writing it
//   --copy       : Put the report on the system clipboard
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-report/internal/converter"
	"github.com/ginjaninja78/order-report/internal/review"
	"github.com/ginjaninja78/order-report/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputPath     string
	overridesPath string
	reviewMode    string
	searchQuery   string
	reviewPath    string
	dryRun        bool
	copyReport    bool
)

// clipboardWriteAll is replaced in tests.
var clipboardWriteAll = clipboard.WriteAll

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build the report for an order listing",
	Long: `The process command reads a pasted order listing, applies the follow-up
values from an optional override file, fills every blank value with the
configured default and writes the fixed-width report to the output directory.

Override files list entries by row index or order ID:

  overrides:
    - order_id: "1001"
      status: CLOSED
      summary: cable replaced
    - index: 3
      assignment: TEAM-B

An annotation workbook from 'order-report template' works as well.

Entries that point at no order are skipped and written to an error log in
the output directory. The report itself is still produced.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Order listing to read (\"-\" for stdin)")
	processCmd.Flags().StringVar(&overridesPath, "overrides", "", "YAML or XLSX override file")
	processCmd.Flags().StringVar(&reviewMode, "mode", "all", "Review filter: all, custom or default")
	processCmd.Flags().StringVar(&searchQuery, "search", "", "Review search text")
	processCmd.Flags().StringVar(&reviewPath, "xlsx", "", "Write the review table to this XLSX file")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the report instead of writing it")
	processCmd.Flags().BoolVar(&copyReport, "copy", false, "Copy the report to the system clipboard")

	_ = processCmd.MarkFlagRequired("input")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(stdin io.Reader, out io.Writer) error {
	mode, err := review.ParseMode(reviewMode)
	if err != nil {
		return err
	}

	conv := converter.New(mainConfig, logger)
	result, err := conv.Run(converter.Options{
		InputPath:     inputPath,
		Stdin:         stdin,
		OverridesPath: overridesPath,
		Mode:          mode,
		Query:         searchQuery,
		ReviewPath:    reviewPath,
		DryRun:        dryRun,
	})
	if err != nil {
		return err
	}

	if copyReport {
		if err := clipboardWriteAll(result.Report); err != nil {
			// Headless machines have no clipboard; the report is still usable.
			logger.Warn("failed to copy report to clipboard", zap.Error(err))
		} else {
			logger.Info("report copied to clipboard")
		}
	}

	if dryRun {
		fmt.Fprint(out, result.Report)
		return nil
	}

	stats := result.Stats
	fmt.Fprintln(out, "=== Processing Complete ===")
	fmt.Fprintf(out, "Region:          %s\n", result.Metadata.Region)
	fmt.Fprintf(out, "Total orders:    %d\n", stats.Total)
	fmt.Fprintf(out, "Custom:          %d\n", stats.Custom)
	fmt.Fprintf(out, "Default:         %d\n", stats.Default)
	fmt.Fprintf(out, "Lines skipped:   %d\n", stats.LinesDiscarded)
	fmt.Fprintf(out, "Report:          %s\n", result.OutputFile)
	if result.ReviewFile != "" {
		fmt.Fprintf(out, "Review:          %s (%d rows)\n", result.ReviewFile, stats.ReviewRows)
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", stats.ProcessingTime)

	if len(result.ValidationErrors) > 0 {
		fmt.Fprintf(out, "\n%s", validation.FormatErrors(result.ValidationErrors))
		if result.ErrorLogFile != "" {
			fmt.Fprintf(out, "Errors have been logged to %s\n", result.ErrorLogFile)
		}
	}

	logger.Info("processing complete",
		zap.String("report", result.OutputFile),
		zap.Int("orders", stats.Total),
		zap.Int("custom", stats.Custom),
		zap.Duration("elapsed", stats.ProcessingTime))
	return nil
}
