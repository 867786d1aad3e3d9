package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProformaInvoiceRepository implements ProformaInvoiceRepository using GORM
type GormProformaInvoiceRepository struct {
	db    *gorm.DB
	query documentQuery
}

// NewGormProformaInvoiceRepository creates a new GormProformaInvoiceRepository
func NewGormProformaInvoiceRepository(db *gorm.DB) *GormProformaInvoiceRepository {
	table := models.ProformaInvoiceModel{}.TableName()
	return &GormProformaInvoiceRepository{
		db: db,
		query: documentQuery{
			table:       table,
			sortFields:  ProformaInvoiceSortFields,
			extraSearch: partySearch(table),
		},
	}
}

// FindByID finds an active proforma invoice by its ID
func (r *GormProformaInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ProformaInvoice, error) {
	return r.find(ctx, id, false)
}

// FindByIDIncludingInactive finds a proforma invoice regardless of its active flag
func (r *GormProformaInvoiceRepository) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.ProformaInvoice, error) {
	return r.find(ctx, id, true)
}

func (r *GormProformaInvoiceRepository) find(ctx context.Context, id uuid.UUID, includeInactive bool) (*trade.ProformaInvoice, error) {
	var model models.ProformaInvoiceModel
	query := activeOnly(r.db.WithContext(ctx), r.query.table, includeInactive).
		Preload("LineItems", orderByCreation)
	if err := query.Where(r.query.table+".id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all proforma invoices matching the filter
func (r *GormProformaInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.ProformaInvoice, error) {
	var rows []models.ProformaInvoiceModel
	query := r.query.apply(r.db.WithContext(ctx).Model(&models.ProformaInvoiceModel{}), filter).
		Preload("LineItems", orderByCreation)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]trade.ProformaInvoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Count counts proforma invoices matching the filter
func (r *GormProformaInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.query.applyWithoutPagination(r.db.WithContext(ctx).Model(&models.ProformaInvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the invoice, its lines and pending audit entries in one transaction
func (r *GormProformaInvoiceRepository) Save(ctx context.Context, pi *trade.ProformaInvoice) error {
	numbered := pi.HasNumber()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assignDocumentNumber(tx, pi); err != nil {
			return err
		}

		var model models.ProformaInvoiceModel
		model.FromDomain(pi)
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return translateError(err)
		}
		for i := range model.LineItems {
			if err := tx.Save(&model.LineItems[i]).Error; err != nil {
				return err
			}
		}
		return drainAuditEntries(tx, &pi.BaseAggregateRoot)
	})
	if err != nil && !numbered {
		pi.Number = ""
	}
	return err
}

func orderByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

var _ trade.ProformaInvoiceRepository = (*GormProformaInvoiceRepository)(nil)
