package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// masterModel is implemented by the pointer type of every master model
type masterModel[D any, M any] interface {
	*M
	TableName() string
	ToDomain() *D
	FromDomain(*D)
}

// MasterQuerySpec describes how one master table is searched and sorted
type MasterQuerySpec struct {
	SearchColumns []string
	SortFields    map[string]bool
	DefaultOrder  string
}

// GormMasterRepository implements masterdata.Repository for one master kind
type GormMasterRepository[D any, M any, PM masterModel[D, M]] struct {
	db    *gorm.DB
	spec  MasterQuerySpec
	table string
}

// NewGormMasterRepository creates a repository for the master model M
func NewGormMasterRepository[D any, M any, PM masterModel[D, M]](db *gorm.DB, spec MasterQuerySpec) *GormMasterRepository[D, M, PM] {
	var zero M
	return &GormMasterRepository[D, M, PM]{db: db, spec: spec, table: PM(&zero).TableName()}
}

// FindByID finds an active record by its ID
func (r *GormMasterRepository[D, M, PM]) FindByID(ctx context.Context, id uuid.UUID) (*D, error) {
	return r.find(ctx, id, false)
}

// FindByIDIncludingInactive finds a record by ID regardless of its active flag
func (r *GormMasterRepository[D, M, PM]) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*D, error) {
	return r.find(ctx, id, true)
}

func (r *GormMasterRepository[D, M, PM]) find(ctx context.Context, id uuid.UUID, includeInactive bool) (*D, error) {
	var model M
	query := activeOnly(r.db.WithContext(ctx).Table(r.table), r.table, includeInactive)
	if err := query.Where(r.table+".id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return PM(&model).ToDomain(), nil
}

// FindByIDs finds the active records among ids
func (r *GormMasterRepository[D, M, PM]) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]D, error) {
	if len(ids) == 0 {
		return []D{}, nil
	}
	var rows []M
	if err := r.db.WithContext(ctx).Table(r.table).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.toDomain(rows), nil
}

// FindAll lists records matching the filter
func (r *GormMasterRepository[D, M, PM]) FindAll(ctx context.Context, filter shared.Filter) ([]D, error) {
	var rows []M
	query := r.applyFilter(r.db.WithContext(ctx).Table(r.table), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.toDomain(rows), nil
}

// Count counts records matching the filter
func (r *GormMasterRepository[D, M, PM]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Table(r.table), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a record
func (r *GormMasterRepository[D, M, PM]) Save(ctx context.Context, record *D) error {
	var model M
	PM(&model).FromDomain(record)
	if err := r.db.WithContext(ctx).Table(r.table).Save(&model).Error; err != nil {
		if translated := translateError(err); translated == shared.ErrAlreadyExists {
			return translated
		}
		return fmt.Errorf("failed to save %s: %w", r.table, err)
	}
	return nil
}

func (r *GormMasterRepository[D, M, PM]) toDomain(rows []M) []D {
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *PM(&rows[i]).ToDomain()
	}
	return out
}

func (r *GormMasterRepository[D, M, PM]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = paginate(query, filter)

	if filter.OrderBy == "" {
		return query.Order(r.table + "." + r.spec.DefaultOrder + " ASC")
	}
	orderBy := ValidateSortField(filter.OrderBy, r.spec.SortFields, r.spec.DefaultOrder)
	return query.Order(r.table + "." + orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormMasterRepository[D, M, PM]) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = activeOnly(query, r.table, filter.IncludeInactive)

	if filter.Search != "" && len(r.spec.SearchColumns) > 0 {
		query = query.Where(likeAny(r.spec.SearchColumns),
			repeatArg(searchPattern(filter.Search), len(r.spec.SearchColumns))...)
	}

	for key, value := range filter.Filters {
		switch key {
		case "country_id", "kind":
			query = query.Where(r.table+"."+key+" = ?", value)
		}
	}
	return query
}

// NewMasterRepositories wires a gorm repository for every master kind
func NewMasterRepositories(db *gorm.DB) *masterdata.Repositories {
	return &masterdata.Repositories{
		Countries:           NewGormMasterRepository[masterdata.Country, models.CountryModel](db, MasterQuerySpec{[]string{"name", "iso_code"}, CountrySortFields, "name"}),
		Banks:               NewGormMasterRepository[masterdata.Bank, models.BankModel](db, MasterQuerySpec{[]string{"bank_name", "beneficiary_name", "account_number", "swift_code"}, BankSortFields, "bank_name"}),
		Exporters:           NewGormMasterRepository[masterdata.Exporter, models.ExporterModel](db, MasterQuerySpec{partySearchColumns, PartySortFields, "name"}),
		Consignees:          NewGormMasterRepository[masterdata.Consignee, models.ConsigneeModel](db, MasterQuerySpec{partySearchColumns, PartySortFields, "name"}),
		Buyers:              NewGormMasterRepository[masterdata.Buyer, models.BuyerModel](db, MasterQuerySpec{partySearchColumns, PartySortFields, "name"}),
		RegisteredAddresses: NewGormMasterRepository[masterdata.RegisteredAddress, models.RegisteredAddressModel](db, MasterQuerySpec{[]string{"name", "address"}, NamedSortFields, "name"}),
		Ports:               NewGormMasterRepository[masterdata.Port, models.PortModel](db, MasterQuerySpec{[]string{"name"}, PortSortFields, "name"}),
		Incoterms:           NewGormMasterRepository[masterdata.Incoterm, models.IncotermModel](db, MasterQuerySpec{[]string{"code", "description"}, CodedSortFields, "code"}),
		UOMs:                NewGormMasterRepository[masterdata.UOM, models.UOMModel](db, MasterQuerySpec{[]string{"code", "description"}, CodedSortFields, "code"}),
		PaymentTerms:        NewGormMasterRepository[masterdata.PaymentTerm, models.PaymentTermModel](db, MasterQuerySpec{[]string{"name"}, NamedSortFields, "name"}),
		PreCarriages:        NewGormMasterRepository[masterdata.PreCarriage, models.PreCarriageModel](db, MasterQuerySpec{[]string{"name"}, NamedSortFields, "name"}),
		PlacesOfReceipt:     NewGormMasterRepository[masterdata.PlaceOfReceipt, models.PlaceOfReceiptModel](db, MasterQuerySpec{[]string{"name"}, NamedSortFields, "name"}),
		TermsTemplates:      NewGormMasterRepository[masterdata.TermsTemplate, models.TermsTemplateModel](db, MasterQuerySpec{[]string{"name"}, NamedSortFields, "name"}),
	}
}

var partySearchColumns = []string{"name", "contact_person", "phone_no", "email"}

// GormReferenceChecker implements masterdata.ReferenceChecker
type GormReferenceChecker struct {
	db *gorm.DB
}

// NewGormReferenceChecker creates a new GormReferenceChecker
func NewGormReferenceChecker(db *gorm.DB) *GormReferenceChecker {
	return &GormReferenceChecker{db: db}
}

// ActiveExists reports whether an active record of kind exists with id
func (c *GormReferenceChecker) ActiveExists(ctx context.Context, kind masterdata.Kind, id uuid.UUID) (bool, error) {
	table, ok := models.MasterTables[kind]
	if !ok {
		return false, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown master kind %q", kind))
	}
	var count int64
	if err := c.db.WithContext(ctx).Table(table).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ masterdata.ReferenceChecker = (*GormReferenceChecker)(nil)
