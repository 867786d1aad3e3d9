package shared

// Filter carries the paging, ordering and search options of a list query.
// Filters holds per-repository equality filters keyed by column.
type Filter struct {
	Page            int
	PageSize        int
	OrderBy         string
	OrderDir        string
	Search          string
	IncludeInactive bool
	Filters         map[string]any
}

// Normalize fills empty paging values and clamps the page size.
// An empty OrderBy is kept so repositories can apply their own default order.
func (f *Filter) Normalize(defaultPageSize, maxPageSize int) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if maxPageSize > 0 && f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
}
