package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	asc := []string{"ASC", "asc", " Asc ", "\tasc\n"}
	for _, in := range asc {
		assert.Equal(t, "ASC", ValidateSortOrder(in), "input %q", in)
	}

	desc := []string{"", "   ", "desc", "DESC", "ascending", "ASC, id", "ASC; DROP TABLE users;--"}
	for _, in := range desc {
		assert.Equal(t, "DESC", ValidateSortOrder(in), "input %q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	fields := withCommon("number", "date")

	cases := map[string]struct {
		in, fallback, want string
	}{
		"whitelisted":               {"number", "date", "number"},
		"common column":             {"created_at", "date", "created_at"},
		"padded":                    {"  date ", "number", "date"},
		"blank uses fallback":       {"", "date", "date"},
		"unknown uses fallback":     {"total", "date", "date"},
		"case matters":              {"NUMBER", "date", "date"},
		"qualified column rejected": {"proforma_invoices.number", "date", "date"},
		"expression rejected":       {"number desc, id", "date", "date"},
		"empty fallback passes":     {"nope", "", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateSortField(tc.in, fields, tc.fallback))
		})
	}
}

func TestSortWhitelists(t *testing.T) {
	lists := []map[string]bool{
		UserSortFields, CountrySortFields, BankSortFields, PartySortFields, PortSortFields,
		CodedSortFields, NamedSortFields, ProformaInvoiceSortFields,
		CommercialInvoiceSortFields, PackingListSortFields,
	}
	for _, list := range lists {
		for col := range CommonSortFields {
			assert.True(t, list[col], "missing %s", col)
		}
	}

	// withCommon must copy, never alias the shared map
	assert.False(t, CommonSortFields["name"])
	assert.False(t, CountrySortFields["bank_name"])
	assert.True(t, ProformaInvoiceSortFields["total_amount_usd"])
	assert.False(t, PackingListSortFields["total_amount_usd"])
}

func TestSortInputsNeverReachSQL(t *testing.T) {
	payloads := []string{
		"id' OR '1'='1",
		"id UNION SELECT password_hash FROM users",
		"(SELECT 1)",
		"id/**/;DROP TABLE users",
		"id\n;DROP TABLE users",
	}
	for _, p := range payloads {
		assert.Equal(t, "username", ValidateSortField(p, UserSortFields, "username"))
		assert.Equal(t, "DESC", ValidateSortOrder(p))
	}
}
