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

// GormPackingListRepository implements PackingListRepository using GORM
type GormPackingListRepository struct {
	db    *gorm.DB
	query documentQuery
}

// NewGormPackingListRepository creates a new GormPackingListRepository
func NewGormPackingListRepository(db *gorm.DB) *GormPackingListRepository {
	table := models.PackingListModel{}.TableName()
	return &GormPackingListRepository{
		db: db,
		query: documentQuery{
			table:      table,
			sortFields: PackingListSortFields,
			extraSearch: append(partySearch(table),
				table+".proforma_invoice_id IN (SELECT id FROM proforma_invoices WHERE LOWER(number) LIKE ?)"),
		},
	}
}

// FindByID finds an active packing list by its ID
func (r *GormPackingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	return r.find(ctx, id, false)
}

// FindByIDIncludingInactive finds a packing list regardless of its active flag
func (r *GormPackingListRepository) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	return r.find(ctx, id, true)
}

func (r *GormPackingListRepository) find(ctx context.Context, id uuid.UUID, includeInactive bool) (*trade.PackingList, error) {
	var model models.PackingListModel
	query := r.preload(activeOnly(r.db.WithContext(ctx), r.query.table, includeInactive))
	if err := query.Where(r.query.table+".id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormPackingListRepository) preload(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Containers", orderByPosition).
		Preload("Containers.Items", orderByPosition)
}

// FindAll finds all packing lists matching the filter
func (r *GormPackingListRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PackingList, error) {
	var rows []models.PackingListModel
	query := r.preload(r.query.apply(r.db.WithContext(ctx).Model(&models.PackingListModel{}), filter))
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return packingListsToDomain(rows), nil
}

// Count counts packing lists matching the filter
func (r *GormPackingListRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.query.applyWithoutPagination(r.db.WithContext(ctx).Model(&models.PackingListModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindApprovedByConsignee lists the active approved packing lists of a consignee, newest first
func (r *GormPackingListRepository) FindApprovedByConsignee(ctx context.Context, consigneeID uuid.UUID) ([]trade.PackingList, error) {
	var rows []models.PackingListModel
	query := r.preload(r.db.WithContext(ctx).
		Where("consignee_id = ? AND status = ? AND is_active = ?", consigneeID, trade.PackingListStatusApproved, true).
		Order("date DESC").Order("created_at DESC"))
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return packingListsToDomain(rows), nil
}

// ApprovedConsigneeIDs returns the consignees with at least one active approved packing list
func (r *GormPackingListRepository) ApprovedConsigneeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.PackingListModel{}).
		Where("status = ? AND is_active = ?", trade.PackingListStatusApproved, true).
		Distinct().
		Pluck("consignee_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ExistsForProforma reports whether another active packing list references the proforma invoice
func (r *GormPackingListRepository) ExistsForProforma(ctx context.Context, proformaID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PackingListModel{}).
		Where("proforma_invoice_id = ? AND is_active = ?", proformaID, true)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists the packing list with its containers and items in one transaction
func (r *GormPackingListRepository) Save(ctx context.Context, pl *trade.PackingList) error {
	numbered := pl.HasNumber()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assignDocumentNumber(tx, pl); err != nil {
			return err
		}

		var model models.PackingListModel
		model.FromDomain(pl)
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return translateError(err)
		}

		containers, items := models.ContainerModelsFromDomain(pl)
		for i := range containers {
			if err := tx.Omit(clause.Associations).Save(&containers[i]).Error; err != nil {
				return err
			}
		}
		for i := range items {
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}
		pl.ClearEvents()
		return nil
	})
	if err != nil && !numbered {
		pl.Number = ""
	}
	return err
}

func packingListsToDomain(rows []models.PackingListModel) []trade.PackingList {
	lists := make([]trade.PackingList, len(rows))
	for i := range rows {
		lists[i] = *rows[i].ToDomain()
	}
	return lists
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

var _ trade.PackingListRepository = (*GormPackingListRepository)(nil)
