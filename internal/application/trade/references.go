package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// Page size bounds for document listings
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// checkReferences verifies every master reference points at an active record.
// The first dangling reference is reported against its field.
func checkReferences(ctx context.Context, checker masterdata.ReferenceChecker, refs []trade.MasterRef) error {
	for _, ref := range refs {
		ok, err := checker.ActiveExists(ctx, masterdata.Kind(ref.Kind), ref.ID)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewValidationError(ref.Field, invalidChoice)
		}
	}
	return nil
}

// docNotFound replaces the generic repository not-found with one naming the document
func docNotFound(err error, docType trade.DocumentType) error {
	if shared.IsCode(err, shared.CodeNotFound) {
		label := docType.Label()
		return shared.NewNotFoundError(strings.ToUpper(label[:1]) + label[1:])
	}
	return err
}

// toDomainFilter normalises a list query
func toDomainFilter(f ListFilter) shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: strings.ToLower(f.OrderDir),
		Search:   strings.TrimSpace(f.Search),
		Filters:  make(map[string]interface{}),
	}
	filter.Normalize(DefaultPageSize, MaxPageSize)
	if f.Status != "" {
		filter.Filters["status"] = strings.ToUpper(f.Status)
	}
	return filter
}

// lineItemField prefixes a line validation error with its position
func lineItemField(index int, err error) error {
	var de *shared.DomainError
	if !errors.As(err, &de) || de.Code != shared.CodeValidation {
		return err
	}
	return shared.NewDomainError(de.Code, fmt.Sprintf("line_items[%d].%s", index, de.Message))
}
