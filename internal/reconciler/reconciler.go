// =============================================================================
// Order Report - Reconciler
// =============================================================================
//
// The reconciler merges the per-row values entered by the user with the global
// default values and classifies every row as CUSTOM or DEFAULT.
//
// RESOLUTION RULES (per order, per field):
//   - A user value that is non-empty after trimming wins.
//   - Otherwise the default value is used.
//   - The assignment default may contain the site placeholder ("{STO}"),
//     which is replaced by the order's SiteCode before it is used both as the
//     fallback and as the comparison baseline.
//
// CLASSIFICATION:
//   A row is CUSTOM when any resolved field differs from its (substituted)
//   default, and DEFAULT otherwise.
//
// Everything here is a pure function of its arguments.
//
// =============================================================================

package reconciler

import (
	"strings"

	"github.com/ginjaninja78/order-report/internal/types"
)

// SitePlaceholder is replaced with the order's site code in the assignment
// default.
const SitePlaceholder = "{STO}"

// =============================================================================
// DEFAULT RESOLUTION
// =============================================================================

// ResolveDefaults returns the default annotation values for a single order.
//
// PARAMETERS:
//   - order: The order the defaults are resolved for.
//   - defaults: The global default values.
//
// RETURNS:
//   - A copy of defaults with the site placeholder substituted in Assignment.
//     This is the value a freshly generated row is pre-filled with.
func ResolveDefaults(order types.Order, defaults types.OverrideFields) types.OverrideFields {
	resolved := defaults
	resolved.Assignment = SubstituteSite(defaults.Assignment, order.SiteCode)
	return resolved
}

// SubstituteSite replaces the first site placeholder in template with site.
func SubstituteSite(template, site string) string {
	return strings.Replace(template, SitePlaceholder, site, 1)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// Reconcile builds one Result per order.
//
// PARAMETERS:
//   - orders: The parsed orders, in display order.
//   - overrides: User-entered values keyed by order index. A missing index
//     behaves like a row whose fields are all blank.
//   - defaults: The global default values.
//
// RETURNS:
//   - A slice with exactly len(orders) results in the same order.
func Reconcile(orders []types.Order, overrides map[int]types.OverrideFields, defaults types.OverrideFields) []types.Result {
	results := make([]types.Result, len(orders))
	for i, order := range orders {
		results[i] = ReconcileOrder(order, overrides[i], defaults)
	}
	return results
}

// ReconcileOrder resolves the annotation fields of a single order.
func ReconcileOrder(order types.Order, entered types.OverrideFields, defaults types.OverrideFields) types.Result {
	baseline := ResolveDefaults(order, defaults)

	resolved := types.OverrideFields{
		Status:     pick(entered.Status, baseline.Status),
		Unit:       pick(entered.Unit, baseline.Unit),
		Assignment: pick(entered.Assignment, baseline.Assignment),
		Summary:    pick(entered.Summary, baseline.Summary),
		Log:        pick(entered.Log, baseline.Log),
	}

	return types.Result{
		Order:          order,
		OverrideFields: resolved,
		IsCustom:       resolved != baseline,
	}
}

// pick returns the trimmed user value, or fallback when it is blank.
func pick(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats summarises a reconciliation run.
type Stats struct {
	Total   int `json:"total"`
	Custom  int `json:"custom"`
	Default int `json:"default"`
}

// Summarize counts CUSTOM and DEFAULT results.
func Summarize(results []types.Result) Stats {
	stats := Stats{Total: len(results)}
	for _, r := range results {
		if r.IsCustom {
			stats.Custom++
		}
	}
	stats.Default = stats.Total - stats.Custom
	return stats
}
