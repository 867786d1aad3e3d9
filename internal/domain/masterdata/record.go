// Package masterdata holds the reference records that trade documents point
// at: countries, banks, trading parties, ports and commercial terms.
package masterdata

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// Kind names a master-data table
type Kind string

const (
	KindCountry           Kind = "country"
	KindBank              Kind = "bank"
	KindExporter          Kind = "exporter"
	KindConsignee         Kind = "consignee"
	KindBuyer             Kind = "buyer"
	KindPort              Kind = "port"
	KindIncoterm          Kind = "incoterm"
	KindPaymentTerm       Kind = "payment_term"
	KindUOM               Kind = "uom"
	KindPreCarriage       Kind = "pre_carriage"
	KindPlaceOfReceipt    Kind = "place_of_receipt"
	KindTermsTemplate     Kind = "terms_template"
	KindRegisteredAddress Kind = "registered_address"
)

// AllKinds lists every master kind in a stable order
func AllKinds() []Kind {
	return []Kind{
		KindCountry, KindBank, KindExporter, KindConsignee, KindBuyer, KindPort,
		KindIncoterm, KindPaymentTerm, KindUOM, KindPreCarriage, KindPlaceOfReceipt,
		KindTermsTemplate, KindRegisteredAddress,
	}
}

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Record is implemented by every master entity
type Record interface {
	GetID() uuid.UUID
	Active() bool
	Deactivate() bool
	// Normalize trims and canonicalises fields, then validates them
	Normalize() error
	// DisplayName is the label shown on documents and in pickers
	DisplayName() string
}

// Base carries identity, timestamps and the soft-delete flag of a master record
type Base struct {
	shared.BaseEntity
	shared.SoftDelete
}

// NewBase returns an active base with a fresh id
func NewBase() Base {
	return Base{
		BaseEntity: shared.NewBaseEntity(),
		SoftDelete: shared.NewSoftDelete(),
	}
}

// Repository persists one master kind. Records are never physically deleted.
type Repository[T any] interface {
	// FindByID finds an active record
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)

	// FindByIDIncludingInactive finds a record regardless of its active flag
	FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*T, error)

	// FindByIDs finds the active records among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error)

	// FindAll lists records honouring search, include_inactive and paging
	FindAll(ctx context.Context, filter shared.Filter) ([]T, error)

	// Count counts records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a record. Unique violations return ErrAlreadyExists.
	Save(ctx context.Context, record *T) error
}

// ReferenceChecker answers whether an active record of a kind exists
type ReferenceChecker interface {
	ActiveExists(ctx context.Context, kind Kind, id uuid.UUID) (bool, error)
}

// Repositories bundles one repository per master kind
type Repositories struct {
	Countries           Repository[Country]
	Banks               Repository[Bank]
	Exporters           Repository[Exporter]
	Consignees          Repository[Consignee]
	Buyers              Repository[Buyer]
	RegisteredAddresses Repository[RegisteredAddress]
	Ports               Repository[Port]
	Incoterms           Repository[Incoterm]
	UOMs                Repository[UOM]
	PaymentTerms        Repository[PaymentTerm]
	PreCarriages        Repository[PreCarriage]
	PlacesOfReceipt     Repository[PlaceOfReceipt]
	TermsTemplates      Repository[TermsTemplate]
}
