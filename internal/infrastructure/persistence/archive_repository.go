package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/printing"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormArchiveRepository implements printing.ArchiveRepository using GORM
type GormArchiveRepository struct {
	db *gorm.DB
}

// NewGormArchiveRepository creates a new GormArchiveRepository
func NewGormArchiveRepository(db *gorm.DB) *GormArchiveRepository {
	return &GormArchiveRepository{db: db}
}

// Save inserts an archive record
func (r *GormArchiveRepository) Save(ctx context.Context, doc *printing.ArchivedDocument) error {
	model := models.ArchivedDocumentModelFromDomain(doc)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("save archived document: %w", translateError(err))
	}
	return nil
}

// ListByDocument returns the archived renderings of a document, newest first
func (r *GormArchiveRepository) ListByDocument(ctx context.Context, docType trade.DocumentType, docID uuid.UUID) ([]printing.ArchivedDocument, error) {
	var rows []models.ArchivedDocumentModel
	if err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, docID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]printing.ArchivedDocument, len(rows))
	for i := range rows {
		docs[i] = *rows[i].ToDomain()
	}
	return docs, nil
}

func (r *GormArchiveRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.ArchivedDocument, error) {
	var row models.ArchivedDocumentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.ToDomain(), nil
}

var _ printing.ArchiveRepository = (*GormArchiveRepository)(nil)
