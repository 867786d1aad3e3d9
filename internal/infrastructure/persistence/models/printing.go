package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/printing"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// ArchivedDocumentModel is the GORM model for archived_documents table
type ArchivedDocumentModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	DocumentType   string    `gorm:"column:document_type;type:varchar(30);not null;index:idx_archive_document,priority:1"`
	DocumentID     uuid.UUID `gorm:"column:document_id;type:uuid;not null;index:idx_archive_document,priority:2"`
	DocumentNumber string    `gorm:"column:document_number;type:varchar(50);not null"`
	Variant        string    `gorm:"type:varchar(10);not null;default:'FINAL'"`
	StorageBackend string    `gorm:"column:storage_backend;type:varchar(20);not null"`
	StorageKey     string    `gorm:"column:storage_key;type:varchar(500);not null"`
	SizeBytes      int64     `gorm:"column:size_bytes;not null;default:0"`
	PageCount      int       `gorm:"column:page_count;not null;default:0"`
	RenderedBy     uuid.UUID `gorm:"column:rendered_by;type:uuid;not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for ArchivedDocumentModel
func (ArchivedDocumentModel) TableName() string {
	return "archived_documents"
}

// ToDomain converts ArchivedDocumentModel to domain ArchivedDocument
func (m *ArchivedDocumentModel) ToDomain() *printing.ArchivedDocument {
	return &printing.ArchivedDocument{
		ID:             m.ID,
		DocumentType:   trade.DocumentType(m.DocumentType),
		DocumentID:     m.DocumentID,
		DocumentNumber: m.DocumentNumber,
		Variant:        printing.Variant(m.Variant),
		StorageBackend: m.StorageBackend,
		StorageKey:     m.StorageKey,
		SizeBytes:      m.SizeBytes,
		PageCount:      m.PageCount,
		RenderedBy:     m.RenderedBy,
		CreatedAt:      m.CreatedAt,
	}
}

// ArchivedDocumentModelFromDomain creates an ArchivedDocumentModel from domain ArchivedDocument
func ArchivedDocumentModelFromDomain(d *printing.ArchivedDocument) *ArchivedDocumentModel {
	return &ArchivedDocumentModel{
		ID:             d.ID,
		DocumentType:   string(d.DocumentType),
		DocumentID:     d.DocumentID,
		DocumentNumber: d.DocumentNumber,
		Variant:        string(d.Variant),
		StorageBackend: d.StorageBackend,
		StorageKey:     d.StorageKey,
		SizeBytes:      d.SizeBytes,
		PageCount:      d.PageCount,
		RenderedBy:     d.RenderedBy,
		CreatedAt:      d.CreatedAt,
	}
}

// PrintArchiveModels returns the models of the printing context for AutoMigrate
func PrintArchiveModels() []any {
	return []any{&ArchivedDocumentModel{}}
}
