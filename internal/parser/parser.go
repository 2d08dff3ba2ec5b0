// =============================================================================
// Order Report - Input Text Parser
// =============================================================================
//
// This module turns the raw, pipe-delimited text block pasted by the user into
// a Metadata record and an ordered list of Orders.
//
// INPUT FORMAT:
//   WITEL: JAKARTA PUSAT
//   Total INDIBIZ: 12 | Total WMS: 4
//   12345 | STO1 | Budu | Provisioned | Astinet | 3 hari
//   12346 | STO2 | Sari | Provisioned | Indibiz
//
// LINE CLASSIFICATION (in this order):
//   1. Blank lines are skipped.
//   2. A line containing the region marker sets Metadata.Region.
//   3. A line containing the totals marker sets Metadata.TotalA/TotalB.
//   4. A line with at least five "|" fields whose first field starts with a
//      digit becomes an Order.
//   5. Anything else is discarded.
//
// Markers are matched anywhere in the line, not only at its start. An order
// line that happens to contain a marker is read as a metadata line.
//
// =============================================================================

package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/order-report/internal/types"
)

// =============================================================================
// MARKERS AND LAYOUT
// =============================================================================

const (
	// RegionMarker identifies the region header line.
	RegionMarker = "WITEL:"

	// TotalsMarker identifies the totals header line.
	TotalsMarker = "Total INDIBIZ:"

	// FieldSeparator separates columns on order and totals lines.
	FieldSeparator = "|"

	// AgeUnit is stripped from the sixth column to obtain AgeDays.
	AgeUnit = "hari"

	// MinOrderFields is the minimum column count of an order line.
	MinOrderFields = 5
)

// ErrNoOrders reports an input without a single order line. Parse itself
// never fails; callers that need orders return it.
var ErrNoOrders = errors.New("no orders found in input")

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult is the outcome of parsing one input block.
type ParseResult struct {
	// Metadata holds the header fields. Unset fields keep their defaults.
	Metadata types.Metadata

	// Orders holds the accepted order lines in input order.
	// It is empty (never nil) when no line matched.
	Orders []types.Order

	// Discarded counts non-blank lines that matched neither a marker nor
	// the order shape.
	Discarded int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse parses an input text block.
//
// PARAMETERS:
//   - text: The raw multi-line input.
//
// RETURNS:
//   - The parsed metadata and orders. Parse never fails; an input without
//     order lines yields an empty Orders slice, which callers report to the
//     user as "no orders found".
func Parse(text string) ParseResult {
	p := newLineParser()
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		p.feed(line)
	}
	return p.result()
}

// ParseReader parses input read line by line from r.
//
// PARAMETERS:
//   - r: The source of the input text.
//
// RETURNS:
//   - The parse result.
//   - An error only if reading from r fails.
func ParseReader(r io.Reader) (ParseResult, error) {
	p := newLineParser()

	scanner := bufio.NewScanner(r)
	// Pasted blocks can carry very long customer names.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ParseResult{}, fmt.Errorf("failed to read input: %w", err)
	}

	return p.result(), nil
}

// ParseFile parses the input text stored in a file.
func ParseFile(filePath string) (ParseResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// =============================================================================
// LINE PARSER
// =============================================================================

// lineParser accumulates state while lines are fed to it.
type lineParser struct {
	meta      types.Metadata
	orders    []types.Order
	discarded int
}

func newLineParser() *lineParser {
	return &lineParser{
		meta:   types.NewMetadata(),
		orders: []types.Order{},
	}
}

// feed classifies a single raw line.
func (p *lineParser) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	if strings.Contains(line, RegionMarker) {
		// The region is the text between the first marker and the next one.
		p.meta.Region = strings.TrimSpace(strings.Split(line, RegionMarker)[1])
		return
	}

	if strings.Contains(line, TotalsMarker) {
		segments := strings.Split(line, FieldSeparator)
		if len(segments) >= 2 {
			p.meta.TotalA = afterLastColon(segments[0])
			p.meta.TotalB = afterLastColon(segments[1])
		}
		return
	}

	if order, ok := ParseOrderLine(line); ok {
		p.orders = append(p.orders, order)
		return
	}

	p.discarded++
}

func (p *lineParser) result() ParseResult {
	return ParseResult{
		Metadata:  p.meta,
		Orders:    p.orders,
		Discarded: p.discarded,
	}
}

// =============================================================================
// ORDER LINE
// =============================================================================

// ParseOrderLine converts one line into an Order.
//
// PARAMETERS:
//   - line: A single input line. Surrounding whitespace is ignored.
//
// RETURNS:
//   - The order and true when the line has at least five "|" fields and the
//     first field starts with a digit; otherwise false.
//
// COLUMN MAPPING:
//   0 OrderID | 1 SiteCode | 2 CustomerName | 3 ProvisioningStatus | 4 Type | 5 Age
func ParseOrderLine(line string) (types.Order, bool) {
	fields := strings.Split(strings.TrimSpace(line), FieldSeparator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if len(fields) < MinOrderFields || !startsWithDigit(fields[0]) {
		return types.Order{}, false
	}

	order := types.Order{
		OrderID:            fields[0],
		SiteCode:           fields[1],
		CustomerName:       fields[2],
		ProvisioningStatus: fields[3],
		Type:               fields[4],
		AgeDays:            "0",
	}
	if len(fields) > MinOrderFields {
		order.AgeDays = strings.TrimSpace(strings.Replace(fields[5], AgeUnit, "", 1))
	}

	return order, true
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// afterLastColon returns the trimmed text after the last ':' in s, or the
// whole trimmed segment when it has no colon.
func afterLastColon(s string) string {
	if i := strings.LastIndex(s, ":"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}

// startsWithDigit reports whether s begins with an ASCII digit.
func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
