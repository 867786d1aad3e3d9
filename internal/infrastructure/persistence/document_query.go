package persistence

import (
	"github.com/tradedocs/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// documentQuery holds the listing rules shared by the three document tables
type documentQuery struct {
	table      string
	sortFields map[string]bool
	// extraSearch adds subquery conditions matched against the same pattern
	extraSearch []string
}

// partySearch matches documents by consignee or exporter name
func partySearch(table string) []string {
	return []string{
		table + ".consignee_id IN (SELECT id FROM consignees WHERE LOWER(name) LIKE ?)",
		table + ".exporter_id IN (SELECT id FROM exporters WHERE LOWER(name) LIKE ?)",
	}
}

func (q documentQuery) apply(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = q.applyWithoutPagination(query, filter)
	query = paginate(query, filter)

	if filter.OrderBy == "" {
		return query.Order(q.table + ".date DESC").Order(q.table + ".created_at DESC")
	}
	orderBy := ValidateSortField(filter.OrderBy, q.sortFields, "date")
	return query.Order(q.table + "." + orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Order(q.table + ".created_at DESC")
}

func (q documentQuery) applyWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = activeOnly(query, q.table, filter.IncludeInactive)

	if filter.Search != "" {
		conditions := append([]string{"LOWER(" + q.table + ".number) LIKE ?"}, q.extraSearch...)
		where := conditions[0]
		for _, c := range conditions[1:] {
			where += " OR " + c
		}
		query = query.Where(where, repeatArg(searchPattern(filter.Search), len(conditions))...)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status", "consignee_id", "exporter_id", "maker_id":
			query = query.Where(q.table+"."+key+" = ?", value)
		}
	}
	return query
}
