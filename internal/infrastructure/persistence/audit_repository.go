package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditTrailRepository implements trade.AuditTrailRepository
type GormAuditTrailRepository struct {
	db *gorm.DB
}

// NewGormAuditTrailRepository creates a new GormAuditTrailRepository
func NewGormAuditTrailRepository(db *gorm.DB) *GormAuditTrailRepository {
	return &GormAuditTrailRepository{db: db}
}

// Append stores one entry
func (r *GormAuditTrailRepository) Append(ctx context.Context, entry trade.AuditEntry) error {
	return appendAuditEntries(r.db.WithContext(ctx), []trade.AuditEntry{entry})
}

// ListByDocument returns the entries of a document, newest first
func (r *GormAuditTrailRepository) ListByDocument(ctx context.Context, docType trade.DocumentType, docID uuid.UUID) ([]trade.AuditEntry, error) {
	var rows []models.DocumentAuditTrailModel
	if err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, docID).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]trade.AuditEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

func appendAuditEntries(tx *gorm.DB, entries []trade.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.DocumentAuditTrailModel, len(entries))
	for i, e := range entries {
		if !e.DocumentType.HasAuditTrail() {
			return shared.NewDomainError(shared.CodeInvalidInput, e.DocumentType.Label()+" has no audit trail")
		}
		rows[i] = models.AuditTrailModelFromDomain(e)
	}
	return tx.Create(&rows).Error
}

// drainAuditEntries persists the audit entries raised by the aggregate and
// clears its pending events
func drainAuditEntries(tx *gorm.DB, agg *shared.BaseAggregateRoot) error {
	if err := appendAuditEntries(tx, trade.PendingAuditEntries(agg.PendingEvents())); err != nil {
		return err
	}
	agg.ClearEvents()
	return nil
}

var _ trade.AuditTrailRepository = (*GormAuditTrailRepository)(nil)
