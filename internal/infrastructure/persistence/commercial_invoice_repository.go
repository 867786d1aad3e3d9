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

// GormCommercialInvoiceRepository implements CommercialInvoiceRepository using GORM
type GormCommercialInvoiceRepository struct {
	db    *gorm.DB
	query documentQuery
}

// NewGormCommercialInvoiceRepository creates a new GormCommercialInvoiceRepository
func NewGormCommercialInvoiceRepository(db *gorm.DB) *GormCommercialInvoiceRepository {
	table := models.CommercialInvoiceModel{}.TableName()
	return &GormCommercialInvoiceRepository{
		db: db,
		query: documentQuery{
			table:       table,
			sortFields:  CommercialInvoiceSortFields,
			extraSearch: partySearch(table),
		},
	}
}

// FindByID finds an active commercial invoice by its ID
func (r *GormCommercialInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.CommercialInvoice, error) {
	return r.find(ctx, id, false)
}

// FindByIDIncludingInactive finds a commercial invoice regardless of its active flag
func (r *GormCommercialInvoiceRepository) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.CommercialInvoice, error) {
	return r.find(ctx, id, true)
}

func (r *GormCommercialInvoiceRepository) find(ctx context.Context, id uuid.UUID, includeInactive bool) (*trade.CommercialInvoice, error) {
	var model models.CommercialInvoiceModel
	query := activeOnly(r.db.WithContext(ctx), r.query.table, includeInactive).
		Preload("LineItems", orderByCreation)
	if err := query.Where(r.query.table+".id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all commercial invoices matching the filter
func (r *GormCommercialInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.CommercialInvoice, error) {
	var rows []models.CommercialInvoiceModel
	query := r.query.apply(r.db.WithContext(ctx).Model(&models.CommercialInvoiceModel{}), filter).
		Preload("LineItems", orderByCreation)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]trade.CommercialInvoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Count counts commercial invoices matching the filter
func (r *GormCommercialInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.query.applyWithoutPagination(r.db.WithContext(ctx).Model(&models.CommercialInvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the invoice, its lines and pending audit entries in one transaction
func (r *GormCommercialInvoiceRepository) Save(ctx context.Context, ci *trade.CommercialInvoice) error {
	numbered := ci.HasNumber()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assignDocumentNumber(tx, ci); err != nil {
			return err
		}

		var model models.CommercialInvoiceModel
		model.FromDomain(ci)
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return translateError(err)
		}
		for i := range model.LineItems {
			if err := tx.Save(&model.LineItems[i]).Error; err != nil {
				return err
			}
		}
		return drainAuditEntries(tx, &ci.BaseAggregateRoot)
	})
	if err != nil && !numbered {
		ci.Number = ""
	}
	return err
}

var _ trade.CommercialInvoiceRepository = (*GormCommercialInvoiceRepository)(nil)
