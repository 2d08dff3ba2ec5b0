// =============================================================================
// Order Report - Spreadsheet Export and Import
// =============================================================================
//
// This module moves the order table in and out of XLSX workbooks:
//
//   WriteReview      : the review table (badge + all result columns)
//   WriteAnnotations : an editable table pre-filled with the row values,
//                      for users who prefer to annotate in a spreadsheet
//   ReadAnnotations  : reads an edited annotation workbook back as
//                      OverrideEntry values
//
// ANNOTATION SHEET LAYOUT (sheet "Annotations", header on row 1):
//
//   | A   | B        | C    | D        | E    | F   | G      | H    | I          | J       | K   |
//   |-----|----------|------|----------|------|-----|--------|------|------------|---------|-----|
//   | No  | Order ID | STO  | Customer | Type | Age | Status | Unit | Assignment | Summary | Log |
//
// Columns C-F are informational. No, Order ID and G-K are read back.
//
// =============================================================================

package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-report/internal/review"
	"github.com/ginjaninja78/order-report/internal/types"
)

const (
	// ReviewSheet is the sheet name of the review workbook.
	ReviewSheet = "Review"

	// AnnotationSheet is the sheet name of the annotation workbook.
	AnnotationSheet = "Annotations"

	// SummarySheet holds the metadata and counts in the review workbook.
	SummarySheet = "Summary"
)

var (
	reviewHeaders = []string{
		"No", "Badge", "Order ID", "STO", "Customer", "Provisioning Status", "Type", "Age (days)",
		"Status", "Unit", "Assignment", "Summary", "Log",
	}

	annotationHeaders = []string{
		"No", "Order ID", "STO", "Customer", "Type", "Age (days)",
		"Status", "Unit", "Assignment", "Summary", "Log",
	}
)

// AnnotationColumns defines which columns of the annotation sheet are read.
// Indices are 0-based (A=0, B=1, ...).
type AnnotationColumns struct {
	// NumberColumn holds the 1-based row number written on export. It
	// addresses the row when it parses as a positive integer.
	NumberColumn int

	OrderIDColumn    int
	StatusColumn     int
	UnitColumn       int
	AssignmentColumn int
	SummaryColumn    int
	LogColumn        int

	// HeaderRow is the 0-based row holding the headers.
	HeaderRow int
}

// DefaultAnnotationColumns matches the layout written by WriteAnnotations.
func DefaultAnnotationColumns() AnnotationColumns {
	return AnnotationColumns{
		NumberColumn:     0,
		OrderIDColumn:    1,
		StatusColumn:     6,
		UnitColumn:       7,
		AssignmentColumn: 8,
		SummaryColumn:    9,
		LogColumn:        10,
		HeaderRow:        0,
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// Row is the information the annotation sheet needs per order.
type Row struct {
	Order  types.Order
	Fields types.OverrideFields
}

// WriteReview builds the review workbook.
//
// PARAMETERS:
//   - meta: Metadata shown on the summary sheet.
//   - results: The results to list, in display order.
//
// RETURNS:
//   - The workbook. The caller writes it with Write or WriteTo and closes it.
func WriteReview(meta types.Metadata, results []types.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ReviewSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeHeader(f, ReviewSheet, reviewHeaders); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range results {
		values := []interface{}{
			i + 1, review.Label(r), r.OrderID, r.SiteCode, r.CustomerName, r.ProvisioningStatus, r.Type, r.AgeDays,
			r.Status, r.Unit, r.Assignment, r.Summary, r.Log,
		}
		if err := writeRow(f, ReviewSheet, i+2, values); err != nil {
			f.Close()
			return nil, err
		}
	}

	if len(results) == 0 {
		// The review table shows an explicit placeholder instead of nothing.
		if err := f.SetCellValue(ReviewSheet, "A2", "No matching data"); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write placeholder: %w", err)
		}
	}

	custom := 0
	for _, r := range results {
		if r.IsCustom {
			custom++
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"WITEL", meta.Region},
		{"Total INDIBIZ", meta.TotalA},
		{"Total WMS", meta.TotalB},
		{"Total Order", len(results)},
		{"Custom", custom},
		{"Default", len(results) - custom},
	}
	for i, row := range summary {
		if err := writeRow(f, SummarySheet, i+1, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetColWidth(ReviewSheet, "C", "E", 18)
	f.SetColWidth(ReviewSheet, "I", "M", 20)

	return f, nil
}

// WriteAnnotations builds an editable annotation workbook.
func WriteAnnotations(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", AnnotationSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeHeader(f, AnnotationSheet, annotationHeaders); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range rows {
		o, v := row.Order, row.Fields
		values := []interface{}{
			i + 1, o.OrderID, o.SiteCode, o.CustomerName, o.Type, o.AgeDays,
			v.Status, v.Unit, v.Assignment, v.Summary, v.Log,
		}
		if err := writeRow(f, AnnotationSheet, i+2, values); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetColWidth(AnnotationSheet, "B", "D", 18)
	f.SetColWidth(AnnotationSheet, "G", "K", 22)

	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %q: %w", h, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

// =============================================================================
// IMPORT
// =============================================================================

// ReadAnnotations reads an annotation workbook.
//
// PARAMETERS:
//   - r: The XLSX content.
//
// RETURNS:
//   - One entry per non-empty data row, addressed by order id and, when the
//     No column holds a positive number, by index No-1 as well.
//   - An error if the workbook or the annotation sheet cannot be read.
func ReadAnnotations(r io.Reader) ([]types.OverrideEntry, error) {
	return ReadAnnotationsWithConfig(r, DefaultAnnotationColumns())
}

// ReadAnnotationsWithConfig is ReadAnnotations with a custom column layout.
func ReadAnnotationsWithConfig(r io.Reader, columns AnnotationColumns) ([]types.OverrideEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := AnnotationSheet
	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		// Fall back to the first sheet for hand-made workbooks.
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	var entries []types.OverrideEntry
	for rowIndex := columns.HeaderRow + 1; rowIndex < len(rows); rowIndex++ {
		row := rows[rowIndex]
		if isRowEmpty(row) {
			continue
		}

		entries = append(entries, types.OverrideEntry{
			Index:   rowNumberIndex(cell(row, columns.NumberColumn)),
			OrderID: cell(row, columns.OrderIDColumn),
			Line:    rowIndex + 1,
			OverrideFields: types.OverrideFields{
				Status:     cell(row, columns.StatusColumn),
				Unit:       cell(row, columns.UnitColumn),
				Assignment: cell(row, columns.AssignmentColumn),
				Summary:    cell(row, columns.SummaryColumn),
				Log:        cell(row, columns.LogColumn),
			},
		})
	}

	return entries, nil
}

// cell returns the trimmed value at col, or "" when the row is shorter.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowNumberIndex turns a 1-based "No" cell into a 0-based index.
func rowNumberIndex(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return nil
	}
	index := n - 1
	return &index
}
