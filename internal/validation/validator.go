// =============================================================================
// Order Report - Override Validation
// =============================================================================
//
// This module checks override entries loaded from a file (YAML or XLSX)
// against the parsed order table and resolves them to the index-keyed map the
// reconciler expects.
//
// CHECKS PER ENTRY:
//   1. Struct rules: an entry needs an index or an order id; index >= 0.
//   2. The index lies inside the table.
//   3. The order id exists in the table.
//   4. Index and order id, when both are present, name the same order.
//   5. An order addressed twice keeps the first entry (warning).
//
// ERROR HANDLING:
//   - Problems are collected, never returned one at a time.
//   - Severity "error" drops the entry; "warning" keeps processing.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ginjaninja78/order-report/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single problem with an override entry.
type ValidationError struct {
	// Severity is "error" (entry ignored) or "warning" (entry kept).
	Severity string

	// Line is the source line or sheet row of the entry.
	Line int

	// Field names the offending attribute, e.g. "index" or "order_id".
	Field string

	// Value is the offending value.
	Value string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] line %d, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Line,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result is the outcome of Resolve.
type Result struct {
	// Overrides maps table index to the entered values.
	Overrides map[int]types.OverrideFields

	// Errors contains every problem found, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of entries dropped.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int
}

// IsValid reports whether every entry passed without an error. Warnings do
// not count.
func (r *Result) IsValid() bool {
	return r.ErrorCount == 0
}

// =============================================================================
// VALIDATOR
// =============================================================================

var structValidator = validator.New()

// Resolve validates entries against orders.
//
// PARAMETERS:
//   - entries: The override entries in file order.
//   - orders: The parsed order table.
//
// RETURNS:
//   - The resolved overrides and all problems found.
func Resolve(entries []types.OverrideEntry, orders []types.Order) *Result {
	result := &Result{Overrides: make(map[int]types.OverrideFields, len(entries))}

	byID := make(map[string]int, len(orders))
	for i, o := range orders {
		if _, seen := byID[o.OrderID]; !seen {
			byID[o.OrderID] = i
		}
	}

	for _, entry := range entries {
		index, ok := resolveIndex(entry, orders, byID, result)
		if !ok {
			continue
		}

		if _, dup := result.Overrides[index]; dup {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Line:     entry.Line,
				Field:    "index",
				Value:    fmt.Sprint(index),
				Message:  "order already has an override; entry ignored",
			})
			continue
		}

		result.Overrides[index] = entry.OverrideFields
	}

	return result
}

// resolveIndex applies checks 1-4 to one entry.
func resolveIndex(entry types.OverrideEntry, orders []types.Order, byID map[string]int, result *Result) (int, bool) {
	if err := structValidator.Struct(entry); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.add(&ValidationError{
					Severity: SeverityError,
					Line:     entry.Line,
					Field:    fieldName(fe.Field()),
					Value:    fmt.Sprint(deref(fe.Value())),
					Message:  describeTag(fe.Tag()),
				})
			}
		} else {
			result.add(&ValidationError{Severity: SeverityError, Line: entry.Line, Message: err.Error()})
		}
		return 0, false
	}

	if entry.Index != nil {
		index := *entry.Index
		if index >= len(orders) {
			result.add(&ValidationError{
				Severity: SeverityError,
				Line:     entry.Line,
				Field:    "index",
				Value:    fmt.Sprint(index),
				Message:  fmt.Sprintf("table has %d rows", len(orders)),
			})
			return 0, false
		}
		if entry.OrderID != "" && orders[index].OrderID != entry.OrderID {
			result.add(&ValidationError{
				Severity: SeverityError,
				Line:     entry.Line,
				Field:    "order_id",
				Value:    entry.OrderID,
				Message:  fmt.Sprintf("row %d holds order %s", index, orders[index].OrderID),
			})
			return 0, false
		}
		return index, true
	}

	index, found := byID[entry.OrderID]
	if !found {
		result.add(&ValidationError{
			Severity: SeverityError,
			Line:     entry.Line,
			Field:    "order_id",
			Value:    entry.OrderID,
			Message:  "order not found in input",
		})
		return 0, false
	}
	return index, true
}

func (r *Result) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityWarning {
		r.WarningCount++
	} else {
		r.ErrorCount++
	}
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

func fieldName(structField string) string {
	switch structField {
	case "Index":
		return "index"
	case "OrderID":
		return "order_id"
	}
	return strings.ToLower(structField)
}

func describeTag(tag string) string {
	switch tag {
	case "required_without":
		return "either index or order_id is required"
	case "gte":
		return "must not be negative"
	}
	return "failed rule " + tag
}

func deref(v interface{}) interface{} {
	if p, ok := v.(*int); ok && p != nil {
		return *p
	}
	return v
}

// FormatErrors renders validation errors one per line.
func FormatErrors(errs []*ValidationError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return b.String()
}
