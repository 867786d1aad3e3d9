package persistence

import "strings"

// ValidateSortOrder maps a requested direction onto ASC or DESC. Anything
// other than a case-insensitive "asc" sorts descending.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted and fallback
// otherwise. The result is interpolated into ORDER BY, so only exact column
// names pass.
func ValidateSortField(sortField string, allowed map[string]bool, fallback string) string {
	if col := strings.TrimSpace(sortField); allowed[col] {
		return col
	}
	return fallback
}

// CommonSortFields are sortable on every table.
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

func withCommon(cols ...string) map[string]bool {
	out := make(map[string]bool, len(CommonSortFields)+len(cols))
	for col := range CommonSortFields {
		out[col] = true
	}
	for _, col := range cols {
		out[col] = true
	}
	return out
}

// Per-table sort whitelists.
var (
	UserSortFields    = withCommon("username", "email", "display_name", "status", "last_login_at")
	CountrySortFields = withCommon("name", "iso_code")
	BankSortFields    = withCommon("bank_name", "beneficiary_name", "account_number", "swift_code")
	// PartySortFields covers exporters, consignees and buyers.
	PartySortFields = withCommon("name", "contact_person", "email")
	PortSortFields  = withCommon("name", "kind", "country_id")
	// CodedSortFields covers incoterms and units of measure.
	CodedSortFields = withCommon("code", "description")
	NamedSortFields = withCommon("name")

	ProformaInvoiceSortFields   = withCommon("date", "number", "status", "total_amount_usd")
	CommercialInvoiceSortFields = withCommon("date", "number", "status", "total_amount_usd")
	PackingListSortFields       = withCommon("date", "number", "status")
)
