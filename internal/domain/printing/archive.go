package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// ArchivedDocument records one rendered final PDF kept in archive storage
type ArchivedDocument struct {
	ID             uuid.UUID
	DocumentType   trade.DocumentType
	DocumentID     uuid.UUID
	DocumentNumber string
	Variant        Variant
	StorageBackend string
	StorageKey     string
	SizeBytes      int64
	PageCount      int
	RenderedBy     uuid.UUID
	CreatedAt      time.Time
}

// NewArchivedDocument validates and builds an archive record
func NewArchivedDocument(docType trade.DocumentType, docID uuid.UUID, number string, variant Variant, backend, key string, size int64, renderedBy uuid.UUID) (*ArchivedDocument, error) {
	if docID == uuid.Nil {
		return nil, shared.NewValidationError("document_id", "This field is required.")
	}
	if !variant.IsValid() {
		return nil, shared.NewValidationError("variant", "Unknown PDF variant.")
	}
	if key == "" {
		return nil, shared.NewValidationError("storage_key", "This field is required.")
	}
	return &ArchivedDocument{
		ID:             uuid.New(),
		DocumentType:   docType,
		DocumentID:     docID,
		DocumentNumber: number,
		Variant:        variant,
		StorageBackend: backend,
		StorageKey:     key,
		SizeBytes:      size,
		RenderedBy:     renderedBy,
		CreatedAt:      time.Now(),
	}, nil
}

// ArchiveKey returns the object key under which a rendering is stored:
// <type>/<year>/<number>/<timestamp>.pdf
func ArchiveKey(docType trade.DocumentType, number string, at time.Time) string {
	at = at.UTC()
	return FilePrefix(docType) + "/" + at.Format("2006") + "/" + number + "/" + at.Format("20060102T150405Z") + ".pdf"
}

// ArchiveRepository persists archive records
type ArchiveRepository interface {
	// Save inserts an archive record
	Save(ctx context.Context, doc *ArchivedDocument) error

	// ListByDocument returns the archived renderings of a document, newest first
	ListByDocument(ctx context.Context, docType trade.DocumentType, docID uuid.UUID) ([]ArchivedDocument, error)

	FindByID(ctx context.Context, id uuid.UUID) (*ArchivedDocument, error)
}
