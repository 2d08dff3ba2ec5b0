// =============================================================================
// Order Report - Report Formatter
// =============================================================================
//
// This module renders reconciled results as the plain-text report that is
// shown on screen, copied to the clipboard and saved as a .txt file. All three
// artifacts carry exactly the same bytes.
//
// REPORT LAYOUT:
//   ====...==== (170 '=')
//   WITEL: <region>
//   Total INDIBIZ: <totalA> | Total WMS: <totalB>
//   ====...====
//   <blank>
//   <one line per result, 11 columns joined by " | ">
//   <blank>
//   ====...====
//
// Downstream consumers split the result lines on " | ", so the column order
// and the separator width must not change.
//
// =============================================================================

package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ginjaninja78/order-report/internal/types"
)

const (
	// SeparatorWidth is the number of '=' characters in a separator line.
	SeparatorWidth = 170

	// ColumnSeparator joins the columns of a result line.
	ColumnSeparator = " | "

	// DefaultRegionCode is used in file names when no region is present.
	DefaultRegionCode = "WITEL"
)

var separator = strings.Repeat("=", SeparatorWidth)

// =============================================================================
// REPORT RENDERING
// =============================================================================

// FormatReport renders the text report.
//
// PARAMETERS:
//   - meta: The metadata of the processed input.
//   - results: The reconciled results, in display order.
//
// RETURNS:
//   - The report text. With no results it still contains the header block
//     and both separator lines.
func FormatReport(meta types.Metadata, results []types.Result) string {
	var b strings.Builder

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "WITEL: %s\n", meta.Region)
	fmt.Fprintf(&b, "Total INDIBIZ: %s | Total WMS: %s\n", meta.TotalA, meta.TotalB)
	b.WriteString(separator + "\n\n")

	for _, r := range results {
		b.WriteString(FormatLine(r))
		b.WriteString("\n")
	}

	b.WriteString("\n" + separator + "\n")
	return b.String()
}

// FormatLine renders a single result line without the trailing newline.
func FormatLine(r types.Result) string {
	return strings.Join([]string{
		r.OrderID,
		r.SiteCode,
		r.CustomerName,
		r.ProvisioningStatus,
		r.Type,
		r.AgeDays + " hari",
		r.Status,
		r.Unit,
		r.Assignment,
		r.Summary,
		r.Log,
	}, ColumnSeparator)
}

// =============================================================================
// DOWNLOAD NAMING
// =============================================================================

var regionCodePattern = regexp.MustCompile(`WITEL:\s*(\S+)`)

// RegionCode extracts the region code used in file names from the raw input.
// Unlike Metadata.Region it keeps only the first word after the marker.
func RegionCode(text string) string {
	if m := regionCodePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return DefaultRegionCode
}

// FileName returns the download name for a report, e.g.
// "hasil_JAKARTA_2024-01-15.txt".
func FileName(regionCode string, date time.Time) string {
	return fmt.Sprintf("hasil_%s_%s.txt", regionCode, date.Format("2006-01-02"))
}
