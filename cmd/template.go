// =============================================================================
// Order Report - Template Command
// =============================================================================
//
// This file defines the 'template' command. It writes an annotation file
// listing every order of an input, pre-filled with the configured defaults.
// Operators edit it offline and pass it back with
// 'order-report process --overrides'.
//
// COMMAND USAGE:
//   order-report template --input <file|-> [--out annotations.xlsx|notes.yaml] [--force]
//
// The output format follows the extension of --out.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-report/internal/overrides"
	"github.com/ginjaninja78/order-report/internal/parser"
	"github.com/ginjaninja78/order-report/internal/reconciler"
	"github.com/ginjaninja78/order-report/internal/sheet"
	"github.com/ginjaninja78/order-report/internal/types"
	"github.com/ginjaninja78/order-report/pkg/utils"
)

var (
	templateInput string
	templateOut   string
	templateForce bool
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an annotation file for an order listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemplate(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateInput, "input", "i", "", "Order listing to read (\"-\" for stdin)")
	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "annotations.xlsx", "File to write (.xlsx, .yaml or .yml)")
	templateCmd.Flags().BoolVar(&templateForce, "force", false, "Overwrite an existing file")

	_ = templateCmd.MarkFlagRequired("input")
}

func runTemplate(stdin io.Reader, out io.Writer) error {
	if !templateForce && utils.FileExists(templateOut) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", templateOut)
	}

	var (
		parsed parser.ParseResult
		err    error
	)
	if templateInput == "-" {
		parsed, err = parser.ParseReader(stdin)
	} else {
		parsed, err = parser.ParseFile(templateInput)
	}
	if err != nil {
		return err
	}
	if len(parsed.Orders) == 0 {
		return fmt.Errorf("no orders found in %s", templateInput)
	}

	rows := make([]sheet.Row, len(parsed.Orders))
	for i, order := range parsed.Orders {
		rows[i] = sheet.Row{
			Order:  order,
			Fields: reconciler.ResolveDefaults(order, mainConfig.Defaults),
		}
	}

	switch ext := strings.ToLower(filepath.Ext(templateOut)); ext {
	case ".xlsx":
		err = writeAnnotationWorkbook(rows)
	case ".yaml", ".yml":
		err = writeAnnotationYAML(rows)
	default:
		err = fmt.Errorf("unsupported template format %q (want .xlsx, .yaml or .yml)", ext)
	}
	if err != nil {
		return err
	}

	logger.Info("wrote annotation template", zap.String("path", templateOut), zap.Int("orders", len(rows)))
	fmt.Fprintf(out, "Wrote %d order(s) to %s\n", len(rows), templateOut)
	return nil
}

func writeAnnotationWorkbook(rows []sheet.Row) error {
	f, err := sheet.WriteAnnotations(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(templateOut); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeAnnotationYAML writes one entry per order, keyed by index and order
// ID. If the input is reordered later, process reports a mismatch instead of
// applying values to the wrong order.
func writeAnnotationYAML(rows []sheet.Row) error {
	entries := make([]types.OverrideEntry, len(rows))
	for i, row := range rows {
		index := i
		entries[i] = types.OverrideEntry{
			Index:          &index,
			OrderID:        row.Order.OrderID,
			OverrideFields: row.Fields,
		}
	}

	data, err := overrides.Encode(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(templateOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", templateOut, err)
	}
	return nil
}
