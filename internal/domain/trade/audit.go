package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// DocumentType identifies one of the three trade documents
type DocumentType string

const (
	DocumentTypeProformaInvoice   DocumentType = "PROFORMA_INVOICE"
	DocumentTypePackingList       DocumentType = "PACKING_LIST"
	DocumentTypeCommercialInvoice DocumentType = "COMMERCIAL_INVOICE"
)

// Label returns the human-readable document name used in messages
func (d DocumentType) Label() string {
	switch d {
	case DocumentTypeProformaInvoice:
		return "proforma invoice"
	case DocumentTypePackingList:
		return "packing list"
	case DocumentTypeCommercialInvoice:
		return "commercial invoice"
	}
	return "document"
}

// HasAuditTrail reports whether the document type keeps an audit ledger.
// Packing lists do not.
func (d DocumentType) HasAuditTrail() bool {
	return d == DocumentTypeProformaInvoice || d == DocumentTypeCommercialInvoice
}

// AuditAction is the kind of action recorded in the audit trail
type AuditAction string

const (
	AuditActionCreated            AuditAction = "CREATED"
	AuditActionEdited             AuditAction = "EDITED"
	AuditActionSubmitted          AuditAction = "SUBMITTED"
	AuditActionApproved           AuditAction = "APPROVED"
	AuditActionRejected           AuditAction = "REJECTED"
	AuditActionReworked           AuditAction = "REWORKED"
	AuditActionDeactivated        AuditAction = "DEACTIVATED"
	AuditActionDisabled           AuditAction = "DISABLED"
	AuditActionPDFDownloaded      AuditAction = "PDF_DOWNLOADED"
	AuditActionPDFDraftDownloaded AuditAction = "PDF_DRAFT_DOWNLOADED"
)

// IsValid checks if the action is a known AuditAction
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreated, AuditActionEdited, AuditActionSubmitted, AuditActionApproved,
		AuditActionRejected, AuditActionReworked, AuditActionDeactivated, AuditActionDisabled,
		AuditActionPDFDownloaded, AuditActionPDFDraftDownloaded:
		return true
	}
	return false
}

// AuditEntry is one immutable row of a document's audit trail
type AuditEntry struct {
	ID           uuid.UUID
	DocumentType DocumentType
	DocumentID   uuid.UUID
	Action       AuditAction
	ActorID      uuid.UUID
	ActorName    string
	Timestamp    time.Time
	Notes        string
}

// NewAuditEntry creates an audit entry stamped with the current time
func NewAuditEntry(docType DocumentType, docID uuid.UUID, action AuditAction, actor Actor, notes string) AuditEntry {
	return AuditEntry{
		ID:           uuid.New(),
		DocumentType: docType,
		DocumentID:   docID,
		Action:       action,
		ActorID:      actor.ID,
		ActorName:    actor.Username,
		Timestamp:    time.Now(),
		Notes:        notes,
	}
}

// EventTypeAuditRecorded is the event type carrying a pending audit entry
const EventTypeAuditRecorded = "AuditRecorded"

// AuditRecordedEvent is raised by an aggregate for every auditable action.
// Repositories persist these entries in the same transaction as the aggregate.
type AuditRecordedEvent struct {
	shared.BaseDomainEvent
	Entry AuditEntry
}

func newAuditRecordedEvent(entry AuditEntry) *AuditRecordedEvent {
	return &AuditRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuditRecorded, string(entry.DocumentType), entry.DocumentID),
		Entry:           entry,
	}
}

// PendingAuditEntries extracts the audit entries carried by domain events
func PendingAuditEntries(events []shared.DomainEvent) []AuditEntry {
	entries := make([]AuditEntry, 0, len(events))
	for _, e := range events {
		if rec, ok := e.(*AuditRecordedEvent); ok {
			entries = append(entries, rec.Entry)
		}
	}
	return entries
}
