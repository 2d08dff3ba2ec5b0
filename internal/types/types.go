// =============================================================================
// Order Report - Shared Types
// =============================================================================
//
// This package contains the data model shared by the parser, reconciler,
// report, review and session packages. Keeping the types here avoids import
// cycles between those packages.
//
//   Metadata       : header fields extracted once per input text
//   Order          : one service order parsed from an input line
//   OverrideFields : the five user-editable annotation fields of a row
//   Result         : Order + resolved OverrideFields + CUSTOM/DEFAULT flag
//
// =============================================================================

package types

// =============================================================================
// METADATA
// =============================================================================

// Metadata holds the free-form header fields of an input block.
type Metadata struct {
	// Region is the text following the region marker ("WITEL:").
	// Default: ""
	Region string `json:"region" yaml:"region"`

	// TotalA is the first total on the totals line ("Total INDIBIZ").
	// Default: "0"
	TotalA string `json:"totalA" yaml:"total_a"`

	// TotalB is the second total on the totals line ("Total WMS").
	// Default: "0"
	TotalB string `json:"totalB" yaml:"total_b"`
}

// NewMetadata returns Metadata with the documented defaults applied.
func NewMetadata() Metadata {
	return Metadata{Region: "", TotalA: "0", TotalB: "0"}
}

// =============================================================================
// ORDER
// =============================================================================

// Order is a single service-provisioning record.
//
// Orders are created by the parser and never modified afterwards. The
// position of an Order in its slice is the key that ties it to the
// OverrideFields entered for that row.
type Order struct {
	OrderID            string `json:"orderId"`
	SiteCode           string `json:"siteCode"`
	CustomerName       string `json:"customerName"`
	ProvisioningStatus string `json:"provisioningStatus"`
	Type               string `json:"type"`

	// AgeDays is the age column with the "hari" unit removed.
	// Default: "0" when the line has only five fields.
	AgeDays string `json:"ageDays"`
}

// ServiceID is the order id as shown (and copied) in the order table.
func (o Order) ServiceID() string {
	return "SC" + o.OrderID
}

// =============================================================================
// OVERRIDE FIELDS
// =============================================================================

// OverrideFields are the annotation values a user attaches to an order.
// The same struct carries the global default values.
type OverrideFields struct {
	Status     string `json:"status" yaml:"status"`
	Unit       string `json:"unit" yaml:"unit"`
	Assignment string `json:"assignment" yaml:"assignment"`
	Summary    string `json:"summary" yaml:"summary"`
	Log        string `json:"log" yaml:"log"`
}

// FieldNames lists the override field names in report order.
var FieldNames = []string{"status", "unit", "assignment", "summary", "log"}

// Get returns the value of the named field and whether the name is known.
func (f OverrideFields) Get(name string) (string, bool) {
	switch name {
	case "status":
		return f.Status, true
	case "unit":
		return f.Unit, true
	case "assignment":
		return f.Assignment, true
	case "summary":
		return f.Summary, true
	case "log":
		return f.Log, true
	}
	return "", false
}

// Set assigns the named field. It reports false for an unknown name.
func (f *OverrideFields) Set(name, value string) bool {
	switch name {
	case "status":
		f.Status = value
	case "unit":
		f.Unit = value
	case "assignment":
		f.Assignment = value
	case "summary":
		f.Summary = value
	case "log":
		f.Log = value
	default:
		return false
	}
	return true
}

// =============================================================================
// RESULT
// =============================================================================

// Result is an order together with its resolved annotation fields.
// Results are regenerated wholesale on every reconciliation.
type Result struct {
	Order
	OverrideFields

	// IsCustom is true when any resolved field differs from its default.
	IsCustom bool `json:"isCustom"`
}

// =============================================================================
// OVERRIDE ENTRY
// =============================================================================

// OverrideEntry is one row of an override file (YAML or XLSX).
//
// A row is addressed either by its table index or by its order id. When both
// are given they must refer to the same order.
type OverrideEntry struct {
	// Index is the 0-based position in the order table.
	Index *int `yaml:"index,omitempty" validate:"omitempty,gte=0"`

	// OrderID addresses the row by order id instead of position.
	OrderID string `yaml:"order_id,omitempty" validate:"required_without=Index"`

	// Line is the source line or sheet row, for error messages.
	Line int `yaml:"-"`

	OverrideFields `yaml:",inline"`
}
