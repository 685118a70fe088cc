package tools

import (
	"fmt"
	"strings"
)

// NormalizeCustomerID strips the dashes Google Ads UIs display, so
// "123-456-7890" and "1234567890" address the same account.
func NormalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

// ValidateCustomerID rejects IDs that are not exactly ten digits.
func ValidateCustomerID(id string) error {
	if len(id) != 10 {
		return fmt.Errorf("customer ID must be 10 digits, got %q", id)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("customer ID must be numeric, got %q", id)
		}
	}
	return nil
}

// validNumericID rejects resource IDs that are not plain digits. IDs are
// interpolated into GAQL predicates and resource names, so nothing but
// digits may pass.
func validNumericID(field, id string) error {
	if id == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s must be numeric, got %q", field, id)
		}
	}
	return nil
}

var entityStatuses = map[string]bool{
	"ENABLED": true,
	"PAUSED":  true,
	"REMOVED": true,
}

// validStatus rejects status values outside the shared entity status enum.
func validStatus(status string) error {
	if !entityStatuses[status] {
		return fmt.Errorf("invalid status %q: must be ENABLED, PAUSED, or REMOVED", status)
	}
	return nil
}

// QuoteGAQL escapes a string for use as a GAQL literal.
func QuoteGAQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// dateRangeClause maps a named range onto a GAQL segments.date predicate.
// Named ranges match the DURING keyword's built-in sets.
func dateRangeClause(dateRange string) string {
	switch strings.ToUpper(strings.TrimSpace(dateRange)) {
	case "", "LAST_30_DAYS":
		return "segments.date DURING LAST_30_DAYS"
	case "TODAY":
		return "segments.date DURING TODAY"
	case "YESTERDAY":
		return "segments.date DURING YESTERDAY"
	case "LAST_7_DAYS":
		return "segments.date DURING LAST_7_DAYS"
	case "LAST_14_DAYS":
		return "segments.date DURING LAST_14_DAYS"
	case "THIS_MONTH":
		return "segments.date DURING THIS_MONTH"
	case "LAST_MONTH":
		return "segments.date DURING LAST_MONTH"
	default:
		return "segments.date DURING LAST_30_DAYS"
	}
}
