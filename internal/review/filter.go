// Package review narrows reconciled results for the review table.
package review

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/order-report/internal/types"
)

// Mode selects results by classification.
type Mode string

const (
	ModeAll     Mode = "all"
	ModeCustom  Mode = "custom"
	ModeDefault Mode = "default"
)

// ParseMode validates a mode name. The empty string means ModeAll.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeAll:
		return ModeAll, nil
	case ModeCustom, ModeDefault:
		return m, nil
	}
	return "", fmt.Errorf("unknown filter mode %q (want all, custom or default)", s)
}

// FilterResults returns the results that match both mode and query, in their
// original relative order. The query is a case-insensitive substring matched
// against the searchable columns; an empty query matches everything. An
// unknown mode behaves like ModeAll.
func FilterResults(results []types.Result, mode Mode, query string) []types.Result {
	q := strings.ToLower(query)

	filtered := make([]types.Result, 0, len(results))
	for _, r := range results {
		if mode == ModeCustom && !r.IsCustom {
			continue
		}
		if mode == ModeDefault && r.IsCustom {
			continue
		}
		if q != "" && !matches(r, q) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// searchable lists the columns the query is matched against. Age is not
// searched.
func searchable(r types.Result) []string {
	values := []string{r.OrderID, r.SiteCode, r.CustomerName, r.ProvisioningStatus, r.Type}
	for _, name := range types.FieldNames {
		v, _ := r.OverrideFields.Get(name)
		values = append(values, v)
	}
	return values
}

func matches(r types.Result, lowerQuery string) bool {
	for _, v := range searchable(r) {
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}

// Label is the badge shown for a result.
func Label(r types.Result) string {
	if r.IsCustom {
		return "CUSTOM"
	}
	return "DEFAULT"
}
