package trade

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/shared"
)

const (
	// PriceScale is the declared precision of unit prices and amounts
	PriceScale int32 = 2
	// QuantityScale is the declared precision of quantities
	QuantityScale int32 = 3
	// DefaultUnit is used when a proforma line omits its unit
	DefaultUnit = "MT"
)

// LineAmount returns quantity × unit price rounded to the price precision.
// Ties round half to even, matching decimal quantize semantics.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).RoundBank(PriceScale)
}

// LineItem is a priced line on a proforma or commercial invoice
type LineItem struct {
	ID                    uuid.UUID
	DocumentID            uuid.UUID
	Description           string
	HSCode                string
	ItemCode              string
	PackagingDetails      string
	MarksAndNumbers       string
	PackagesNumberAndKind string
	Quantity              decimal.Decimal
	Unit                  string
	UnitID                *uuid.UUID
	UnitPriceUSD          decimal.Decimal
	AmountUSD             decimal.Decimal
	shared.SoftDelete
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItemInput carries the fields of a create or partial update.
// Nil fields are left unchanged on update.
type LineItemInput struct {
	Description           *string
	HSCode                *string
	ItemCode              *string
	PackagingDetails      *string
	MarksAndNumbers       *string
	PackagesNumberAndKind *string
	Quantity              *decimal.Decimal
	Unit                  *string
	UnitID                *uuid.UUID
	UnitPriceUSD          *decimal.Decimal
}

// NewLineItem creates a line item and computes its amount.
// defaultUnit applies when the input carries no unit.
func NewLineItem(documentID uuid.UUID, in LineItemInput, defaultUnit string) (*LineItem, error) {
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		return nil, shared.NewValidationError("description", "This field is required.")
	}
	if in.Quantity == nil {
		return nil, shared.NewValidationError("quantity", "This field is required.")
	}
	if in.UnitPriceUSD == nil {
		return nil, shared.NewValidationError("unit_price_usd", "This field is required.")
	}

	now := time.Now()
	item := &LineItem{
		ID:         uuid.New(),
		DocumentID: documentID,
		Unit:       defaultUnit,
		SoftDelete: shared.NewSoftDelete(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := item.apply(in); err != nil {
		return nil, err
	}
	return item, nil
}

// apply copies the non-nil input fields, validates and recomputes the amount
func (l *LineItem) apply(in LineItemInput) error {
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return shared.NewValidationError("description", "This field may not be blank.")
		}
		l.Description = strings.TrimSpace(*in.Description)
	}
	if in.Quantity != nil {
		if in.Quantity.IsNegative() {
			return shared.NewValidationError("quantity", "Quantity cannot be negative.")
		}
		l.Quantity = in.Quantity.Round(QuantityScale)
	}
	if in.UnitPriceUSD != nil {
		if in.UnitPriceUSD.IsNegative() {
			return shared.NewValidationError("unit_price_usd", "Unit price cannot be negative.")
		}
		l.UnitPriceUSD = in.UnitPriceUSD.Round(PriceScale)
	}
	if in.HSCode != nil {
		l.HSCode = *in.HSCode
	}
	if in.ItemCode != nil {
		l.ItemCode = *in.ItemCode
	}
	if in.PackagingDetails != nil {
		l.PackagingDetails = *in.PackagingDetails
	}
	if in.MarksAndNumbers != nil {
		l.MarksAndNumbers = *in.MarksAndNumbers
	}
	if in.PackagesNumberAndKind != nil {
		l.PackagesNumberAndKind = *in.PackagesNumberAndKind
	}
	if in.Unit != nil && *in.Unit != "" {
		l.Unit = *in.Unit
	}
	if in.UnitID != nil {
		id := *in.UnitID
		l.UnitID = &id
	}
	l.AmountUSD = LineAmount(l.Quantity, l.UnitPriceUSD)
	l.UpdatedAt = time.Now()
	return nil
}

// lineItems is the ordered set of lines owned by an invoice
type lineItems []LineItem

// total sums the amounts of active lines
func (ls lineItems) total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		if l.IsActive {
			total = total.Add(l.AmountUSD)
		}
	}
	return total
}

// activeIndex returns the index of an active line, or -1
func (ls lineItems) activeIndex(id uuid.UUID) int {
	for i := range ls {
		if ls[i].ID == id && ls[i].IsActive {
			return i
		}
	}
	return -1
}

// active returns the active lines ordered by creation time
func (ls lineItems) active() []LineItem {
	out := make([]LineItem, 0, len(ls))
	for _, l := range ls {
		if l.IsActive {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func lineNotFound() error {
	return shared.NewNotFoundError("Item")
}
