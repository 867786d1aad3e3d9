package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// MockProformaInvoiceRepository is a mock implementation of ProformaInvoiceRepository
type MockProformaInvoiceRepository struct {
	mock.Mock
}

func (m *MockProformaInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ProformaInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ProformaInvoice), args.Error(1)
}

func (m *MockProformaInvoiceRepository) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.ProformaInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ProformaInvoice), args.Error(1)
}

func (m *MockProformaInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.ProformaInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.ProformaInvoice), args.Error(1)
}

func (m *MockProformaInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProformaInvoiceRepository) Save(ctx context.Context, pi *trade.ProformaInvoice) error {
	args := m.Called(ctx, pi)
	return args.Error(0)
}

// MockPackingListRepository is a mock implementation of PackingListRepository
type MockPackingListRepository struct {
	mock.Mock
}

func (m *MockPackingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PackingList), args.Error(1)
}

func (m *MockPackingListRepository) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PackingList), args.Error(1)
}

func (m *MockPackingListRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PackingList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PackingList), args.Error(1)
}

func (m *MockPackingListRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPackingListRepository) FindApprovedByConsignee(ctx context.Context, consigneeID uuid.UUID) ([]trade.PackingList, error) {
	args := m.Called(ctx, consigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PackingList), args.Error(1)
}

func (m *MockPackingListRepository) ApprovedConsigneeIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPackingListRepository) ExistsForProforma(ctx context.Context, proformaID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, proformaID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPackingListRepository) Save(ctx context.Context, pl *trade.PackingList) error {
	args := m.Called(ctx, pl)
	return args.Error(0)
}

// MockCommercialInvoiceRepository is a mock implementation of CommercialInvoiceRepository
type MockCommercialInvoiceRepository struct {
	mock.Mock
}

func (m *MockCommercialInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.CommercialInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.CommercialInvoice), args.Error(1)
}

func (m *MockCommercialInvoiceRepository) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.CommercialInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.CommercialInvoice), args.Error(1)
}

func (m *MockCommercialInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.CommercialInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.CommercialInvoice), args.Error(1)
}

func (m *MockCommercialInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommercialInvoiceRepository) Save(ctx context.Context, ci *trade.CommercialInvoice) error {
	args := m.Called(ctx, ci)
	return args.Error(0)
}

// MockAuditTrailRepository is a mock implementation of AuditTrailRepository
type MockAuditTrailRepository struct {
	mock.Mock
}

func (m *MockAuditTrailRepository) Append(ctx context.Context, entry trade.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditTrailRepository) ListByDocument(ctx context.Context, docType trade.DocumentType, docID uuid.UUID) ([]trade.AuditEntry, error) {
	args := m.Called(ctx, docType, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.AuditEntry), args.Error(1)
}

// MockReferenceChecker is a mock implementation of ReferenceChecker
type MockReferenceChecker struct {
	mock.Mock
}

func (m *MockReferenceChecker) ActiveExists(ctx context.Context, kind masterdata.Kind, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

// MockUOMRepository is a mock implementation of Repository[UOM]
type MockUOMRepository struct {
	mock.Mock
}

func (m *MockUOMRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.UOM, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.UOM), args.Error(1)
}

func (m *MockUOMRepository) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*masterdata.UOM, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.UOM), args.Error(1)
}

func (m *MockUOMRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]masterdata.UOM, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]masterdata.UOM), args.Error(1)
}

func (m *MockUOMRepository) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.UOM, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]masterdata.UOM), args.Error(1)
}

func (m *MockUOMRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUOMRepository) Save(ctx context.Context, record *masterdata.UOM) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

var (
	makerID   = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	checkerID = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	adminID   = uuid.MustParse("00000000-0000-0000-0000-00000000000c")

	testMaker   = trade.Actor{ID: makerID, Username: "maker", Maker: true}
	testChecker = trade.Actor{ID: checkerID, Username: "checker", Checker: true}
	testAdmin   = trade.Actor{ID: adminID, Username: "admin", Admin: true}
)

// allReferencesExist makes every master reference resolve
func allReferencesExist() *MockReferenceChecker {
	refs := new(MockReferenceChecker)
	refs.On("ActiveExists", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	return refs
}

func strPtr(s string) *string { return &s }
