package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ReturnUnitSortFields contains allowed sort fields for return units.
// Order-by input from clients is matched against this whitelist so it
// never reaches the SQL ORDER BY clause raw.
var ReturnUnitSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"ref_no":              true,
	"document_no":         true,
	"collection_order_id": true,
	"ncr_number":          true,
	"branch":              true,
	"customer_name":       true,
	"product_code":        true,
	"product_name":        true,
	"category":            true,
	"record_date":         true,
	"quantity":            true,
	"bill_price":          true,
	"sell_price":          true,
	"status":              true,
	"condition":           true,
	"disposition":         true,
	"documented_at":       true,
	"completed_at":        true,
	"settled_at":          true,
}
