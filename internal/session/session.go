// =============================================================================
// Order Report - Session State
// =============================================================================
//
// A Session owns everything one user works on between "generate" and "clear":
// the input text, the parsed orders, the per-row annotation values and the
// latest reconciled results. Every page action is a method on Session; no
// state lives at package level.
//
// ROW ALIGNMENT:
//   orders[i] and rows[i] always describe the same order. Rows are only
//   removed together with their orders by Generate or Clear.
//
// ERRORS:
//   All errors returned here are sentinel values that the caller shows as a
//   notification. None of them changes the session state.
//
// =============================================================================

package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ginjaninja78/order-report/internal/parser"
	"github.com/ginjaninja78/order-report/internal/reconciler"
	"github.com/ginjaninja78/order-report/internal/report"
	"github.com/ginjaninja78/order-report/internal/review"
	"github.com/ginjaninja78/order-report/internal/types"
)

var (
	// ErrEmptyInput is returned by Generate for blank input text.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrNoOrders is returned by Generate when no line is an order.
	ErrNoOrders = parser.ErrNoOrders

	// ErrNotGenerated is returned when an action needs a generated table.
	ErrNotGenerated = errors.New("order table has not been generated yet")

	// ErrIndexOutOfRange is returned for a row index outside the table.
	ErrIndexOutOfRange = errors.New("row index out of range")

	// ErrRowCount is returned by ProcessRows when the submitted rows do not
	// match the table, e.g. after the table was regenerated elsewhere.
	ErrRowCount = errors.New("row count does not match the order table")

	// ErrUnknownField is returned by SetField for a name outside
	// types.FieldNames.
	ErrUnknownField = errors.New("unknown field")
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the working state of one user.
type Session struct {
	// ID identifies the session in a Store.
	ID string

	mu        sync.Mutex
	text      string
	metadata  types.Metadata
	orders    []types.Order
	rows      []types.OverrideFields
	defaults  types.OverrideFields
	results   []types.Result
	processed bool
	updatedAt time.Time
}

// Row is one line of the editable order table.
type Row struct {
	Index     int    `json:"index"`
	ServiceID string `json:"serviceId"`
	types.Order
	types.OverrideFields
}

// Report is the outcome of Process.
type Report struct {
	Text     string           `json:"report"`
	FileName string           `json:"fileName"`
	Metadata types.Metadata   `json:"metadata"`
	Stats    reconciler.Stats `json:"stats"`
	Results  []types.Result   `json:"results"`
}

// New returns an empty session.
func New(id string) *Session {
	return &Session{ID: id, metadata: types.NewMetadata(), updatedAt: time.Now()}
}

// Generate parses text and builds a fresh order table whose rows are
// pre-filled with defaults.
//
// PARAMETERS:
//   - text: The raw input block.
//   - defaults: The annotation defaults to pre-fill and later compare with.
//
// RETURNS:
//   - The generated rows.
//   - ErrEmptyInput or ErrNoOrders; the previous table is kept in that case.
func (s *Session) Generate(text string, defaults types.OverrideFields) ([]Row, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	parsed := parser.Parse(text)
	if len(parsed.Orders) == 0 {
		return nil, ErrNoOrders
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.metadata = parsed.Metadata
	s.orders = parsed.Orders
	s.defaults = defaults
	s.rows = make([]types.OverrideFields, len(parsed.Orders))
	for i, o := range parsed.Orders {
		s.rows[i] = reconciler.ResolveDefaults(o, defaults)
	}
	s.results = nil
	s.processed = false
	s.touch()

	return s.rowsLocked(), nil
}

// ApplyDefaults resets every row to defaults and makes them the comparison
// baseline for the next Process.
func (s *Session) ApplyDefaults(defaults types.OverrideFields) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.orders) == 0 {
		return nil, ErrNotGenerated
	}

	s.defaults = defaults
	for i, o := range s.orders {
		s.rows[i] = reconciler.ResolveDefaults(o, defaults)
	}
	s.touch()

	return s.rowsLocked(), nil
}

// SetDefaults replaces the comparison baseline without touching the rows,
// like editing the default fields on the page before pressing "process".
func (s *Session) SetDefaults(defaults types.OverrideFields) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaults = defaults
	s.touch()
}

// SetOverride stores the values entered for row index.
func (s *Session) SetOverride(index int, fields types.OverrideFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.orders) == 0 {
		return ErrNotGenerated
	}
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("%w: %d (table has %d rows)", ErrIndexOutOfRange, index, len(s.rows))
	}

	s.rows[index] = fields
	s.touch()
	return nil
}

// SetField stores a single named value of row index.
func (s *Session) SetField(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.orders) == 0 {
		return ErrNotGenerated
	}
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("%w: %d (table has %d rows)", ErrIndexOutOfRange, index, len(s.rows))
	}
	if !s.rows[index].Set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.touch()
	return nil
}

// SetText replaces the input text without regenerating the table. Only the
// metadata read by the next Process is affected.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.touch()
}

// Rows returns a copy of the current order table.
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowsLocked()
}

// Process reconciles the table against the defaults and renders the report.
//
// RETURNS:
//   - The report, stats and results.
//   - ErrNotGenerated when no table exists.
func (s *Session) Process(now time.Time) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.orders) == 0 {
		return nil, ErrNotGenerated
	}
	return s.processLocked(now), nil
}

// ProcessRows replaces every row with the given values and processes in one
// step, so no concurrent edit can land between the two.
//
// RETURNS:
//   - The report, stats and results.
//   - ErrNotGenerated when no table exists, ErrRowCount when rows does not
//     match the table length.
func (s *Session) ProcessRows(rows []types.OverrideFields, now time.Time) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.orders) == 0 {
		return nil, ErrNotGenerated
	}
	if len(rows) != len(s.rows) {
		return nil, fmt.Errorf("%w: got %d rows, table has %d", ErrRowCount, len(rows), len(s.rows))
	}

	copy(s.rows, rows)
	return s.processLocked(now), nil
}

func (s *Session) processLocked(now time.Time) *Report {
	// Metadata comes from the text as it stands now.
	meta := parser.Parse(s.text).Metadata

	overrides := make(map[int]types.OverrideFields, len(s.rows))
	for i, row := range s.rows {
		overrides[i] = row
	}

	s.metadata = meta
	s.results = reconciler.Reconcile(s.orders, overrides, s.defaults)
	s.processed = true
	s.touch()

	return s.reportLocked(now)
}

// LastReport renders the last processed results again without
// reconciling, as offered for download.
func (s *Session) LastReport(now time.Time) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.processed {
		return nil, ErrNotGenerated
	}
	return s.reportLocked(now), nil
}

func (s *Session) reportLocked(now time.Time) *Report {
	return &Report{
		Text:     report.FormatReport(s.metadata, s.results),
		FileName: report.FileName(report.RegionCode(s.text), now.UTC()),
		Metadata: s.metadata,
		Stats:    reconciler.Summarize(s.results),
		Results:  append([]types.Result(nil), s.results...),
	}
}

// Results returns the last processed results.
func (s *Session) Results() ([]types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.processed {
		return nil, ErrNotGenerated
	}
	return append([]types.Result(nil), s.results...), nil
}

// Filter applies the review filter to the last processed results.
func (s *Session) Filter(mode review.Mode, query string) ([]types.Result, error) {
	results, err := s.Results()
	if err != nil {
		return nil, err
	}
	return review.FilterResults(results, mode, query), nil
}

// Metadata returns the metadata of the last generated or processed input.
func (s *Session) Metadata() types.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// Clear drops the input, the table and the results.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = ""
	s.metadata = types.NewMetadata()
	s.orders = nil
	s.rows = nil
	s.results = nil
	s.processed = false
	s.touch()
}

// UpdatedAt reports the time of the last change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func (s *Session) rowsLocked() []Row {
	rows := make([]Row, len(s.orders))
	for i, o := range s.orders {
		rows[i] = Row{
			Index:          i,
			ServiceID:      o.ServiceID(),
			Order:          o,
			OverrideFields: s.rows[i],
		}
	}
	return rows
}
