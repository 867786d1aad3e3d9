package persistence

import (
	"errors"
	"strings"

	"github.com/tradedocs/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors onto domain errors. Not-found and
// unique-constraint violations become ErrNotFound and ErrAlreadyExists;
// anything else is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// isUniqueViolation catches unique errors from dialects without error translation
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// likeAny builds "LOWER(a) LIKE ? OR LOWER(b) LIKE ?" for the columns
func likeAny(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + ") LIKE ?"
	}
	return strings.Join(parts, " OR ")
}

func repeatArg(arg any, n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = arg
	}
	return args
}

// activeOnly restricts the query unless inactive rows were asked for
func activeOnly(query *gorm.DB, table string, includeInactive bool) *gorm.DB {
	if includeInactive {
		return query
	}
	return query.Where(table+".is_active = ?", true)
}

// paginate applies offset and limit
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
