package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// ProformaInvoiceRepository defines the interface for proforma invoice persistence
type ProformaInvoiceRepository interface {
	// FindByID finds an active proforma invoice with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*ProformaInvoice, error)

	// FindByIDIncludingInactive also returns deactivated invoices
	FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*ProformaInvoice, error)

	// FindAll lists invoices honouring search, status filter and paging
	FindAll(ctx context.Context, filter shared.Filter) ([]ProformaInvoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates the invoice and its lines. It allocates the
	// number on first save and persists pending audit entries in the same
	// transaction.
	Save(ctx context.Context, pi *ProformaInvoice) error
}

// PackingListRepository defines the interface for packing list persistence
type PackingListRepository interface {
	// FindByID finds an active packing list with containers and items
	FindByID(ctx context.Context, id uuid.UUID) (*PackingList, error)

	// FindByIDIncludingInactive also returns deactivated packing lists
	FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*PackingList, error)

	// FindAll lists packing lists honouring search, status filter and paging
	FindAll(ctx context.Context, filter shared.Filter) ([]PackingList, error)

	// Count counts packing lists matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindApprovedByConsignee lists active approved packing lists of a consignee, newest first
	FindApprovedByConsignee(ctx context.Context, consigneeID uuid.UUID) ([]PackingList, error)

	// ApprovedConsigneeIDs returns the consignees having at least one active approved packing list
	ApprovedConsigneeIDs(ctx context.Context) ([]uuid.UUID, error)

	// ExistsForProforma reports whether another active packing list already
	// references the proforma invoice
	ExistsForProforma(ctx context.Context, proformaID uuid.UUID, excludeID uuid.UUID) (bool, error)

	// Save creates or updates the packing list with containers and items,
	// allocating the number on first save
	Save(ctx context.Context, pl *PackingList) error
}

// CommercialInvoiceRepository defines the interface for commercial invoice persistence
type CommercialInvoiceRepository interface {
	// FindByID finds an active commercial invoice with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*CommercialInvoice, error)

	// FindByIDIncludingInactive also returns deactivated invoices
	FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*CommercialInvoice, error)

	// FindAll lists invoices honouring search, status filter and paging
	FindAll(ctx context.Context, filter shared.Filter) ([]CommercialInvoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates the invoice and its lines. It allocates the
	// number on first save and persists pending audit entries in the same
	// transaction.
	Save(ctx context.Context, ci *CommercialInvoice) error
}

// AuditTrailRepository is the insert-only store of audit entries
type AuditTrailRepository interface {
	// Append stores a single entry outside of an aggregate save
	Append(ctx context.Context, entry AuditEntry) error

	// ListByDocument returns a document's entries newest first
	ListByDocument(ctx context.Context, docType DocumentType, docID uuid.UUID) ([]AuditEntry, error)
}
