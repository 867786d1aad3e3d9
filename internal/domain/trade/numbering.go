package trade

import (
	"context"
	"fmt"
)

// Number prefixes per document type
const (
	PrefixProformaInvoice   = "PI"
	PrefixPackingList       = "PL"
	PrefixCommercialInvoice = "CI"
)

// NumberPrefix returns the yearly prefix, e.g. "PI-2025-"
func NumberPrefix(kind string, year int) string {
	return fmt.Sprintf("%s-%d-", kind, year)
}

// FormatDocumentNumber renders a document number, e.g. "PI-2025-0001"
func FormatDocumentNumber(kind string, year int, seq int64) string {
	return fmt.Sprintf("%s%04d", NumberPrefix(kind, year), seq)
}

// NumberSequence allocates the next value of a per-prefix counter.
// Implementations must be atomic with respect to concurrent callers.
type NumberSequence interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// Numbered is implemented by documents that receive a number on first save
type Numbered interface {
	NumberKind() string
	NumberYear() int
	HasNumber() bool
	AssignNumber(number string)
}
