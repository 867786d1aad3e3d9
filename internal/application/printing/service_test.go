package printing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/printing"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// MockRenderer is a mock implementation of DocumentRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, doc *DocumentView) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockArchiveStore is a mock implementation of ArchiveStore
type MockArchiveStore struct {
	mock.Mock
}

func (m *MockArchiveStore) Backend() string { return "memory" }

func (m *MockArchiveStore) Put(ctx context.Context, key string, pdf []byte) error {
	args := m.Called(ctx, key, pdf)
	return args.Error(0)
}

func (m *MockArchiveStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(bytes.NewReader(args.Get(0).([]byte))), args.Error(1)
}

// MockArchiveRepository is a mock implementation of printing.ArchiveRepository
type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Save(ctx context.Context, doc *printing.ArchivedDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockArchiveRepository) ListByDocument(ctx context.Context, docType trade.DocumentType, docID uuid.UUID) ([]printing.ArchivedDocument, error) {
	args := m.Called(ctx, docType, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printing.ArchivedDocument), args.Error(1)
}

func (m *MockArchiveRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.ArchivedDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.ArchivedDocument), args.Error(1)
}

// MockAuditTrail is a mock implementation of trade.AuditTrailRepository
type MockAuditTrail struct {
	mock.Mock
}

func (m *MockAuditTrail) Append(ctx context.Context, entry trade.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditTrail) ListByDocument(ctx context.Context, docType trade.DocumentType, docID uuid.UUID) ([]trade.AuditEntry, error) {
	args := m.Called(ctx, docType, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.AuditEntry), args.Error(1)
}

// MockProformas is a mock implementation of trade.ProformaInvoiceRepository
type MockProformas struct {
	mock.Mock
}

func (m *MockProformas) FindByID(ctx context.Context, id uuid.UUID) (*trade.ProformaInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ProformaInvoice), args.Error(1)
}

func (m *MockProformas) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.ProformaInvoice, error) {
	return m.FindByID(ctx, id)
}

func (m *MockProformas) FindAll(context.Context, shared.Filter) ([]trade.ProformaInvoice, error) {
	return nil, nil
}

func (m *MockProformas) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (m *MockProformas) Save(context.Context, *trade.ProformaInvoice) error { return nil }

// MockPackingLists is a mock implementation of trade.PackingListRepository
type MockPackingLists struct {
	mock.Mock
}

func (m *MockPackingLists) FindByID(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PackingList), args.Error(1)
}

func (m *MockPackingLists) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	return m.FindByID(ctx, id)
}

func (m *MockPackingLists) FindAll(context.Context, shared.Filter) ([]trade.PackingList, error) {
	return nil, nil
}

func (m *MockPackingLists) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (m *MockPackingLists) FindApprovedByConsignee(context.Context, uuid.UUID) ([]trade.PackingList, error) {
	return nil, nil
}

func (m *MockPackingLists) ApprovedConsigneeIDs(context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

func (m *MockPackingLists) ExistsForProforma(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (m *MockPackingLists) Save(context.Context, *trade.PackingList) error { return nil }

// MockCommercials is a mock implementation of trade.CommercialInvoiceRepository
type MockCommercials struct {
	mock.Mock
}

func (m *MockCommercials) FindByID(ctx context.Context, id uuid.UUID) (*trade.CommercialInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.CommercialInvoice), args.Error(1)
}

func (m *MockCommercials) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*trade.CommercialInvoice, error) {
	return m.FindByID(ctx, id)
}

func (m *MockCommercials) FindAll(context.Context, shared.Filter) ([]trade.CommercialInvoice, error) {
	return nil, nil
}

func (m *MockCommercials) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (m *MockCommercials) Save(context.Context, *trade.CommercialInvoice) error { return nil }

// MockMaster is a mock implementation of masterdata.Repository
type MockMaster[T any] struct {
	mock.Mock
}

func (m *MockMaster[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return m.FindByIDIncludingInactive(ctx, id)
}

func (m *MockMaster[T]) FindByIDIncludingInactive(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockMaster[T]) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockMaster[T]) FindAll(context.Context, shared.Filter) ([]T, error) { return nil, nil }

func (m *MockMaster[T]) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }

func (m *MockMaster[T]) Save(context.Context, *T) error { return nil }

var (
	makerActor   = trade.Actor{ID: uuid.New(), Username: "maker", Maker: true}
	otherMaker   = trade.Actor{ID: uuid.New(), Username: "maker2", Maker: true}
	checkerActor = trade.Actor{ID: uuid.New(), Username: "checker", Checker: true}
	adminActor   = trade.Actor{ID: uuid.New(), Username: "admin", Admin: true}
	noRoles      = trade.Actor{ID: uuid.New(), Username: "guest"}
)

var pdfBytes = []byte("%PDF-1.4 test")

// masters returns repositories resolving one exporter (with a country) and
// one consignee; every other lookup misses
func masters(parties trade.Parties) *masterdata.Repositories {
	india := &masterdata.Country{Base: masterdata.NewBase(), Name: "India", ISOCode: "IN"}
	countries := new(MockMaster[masterdata.Country])
	countries.On("FindByIDIncludingInactive", mock.Anything, india.ID).Return(india, nil)
	countries.On("FindByIDIncludingInactive", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	exporter := &masterdata.Exporter{Base: masterdata.NewBase(), PartyDetails: masterdata.PartyDetails{Name: "Acme Exports", CountryID: india.ID}}
	exporter.Deactivate()
	exporters := new(MockMaster[masterdata.Exporter])
	exporters.On("FindByIDIncludingInactive", mock.Anything, parties.ExporterID).Return(exporter, nil)

	consignee := &masterdata.Consignee{Base: masterdata.NewBase(), PartyDetails: masterdata.PartyDetails{Name: "Gulf Foods", CountryID: uuid.New()}}
	consignees := new(MockMaster[masterdata.Consignee])
	consignees.On("FindByIDIncludingInactive", mock.Anything, parties.ConsigneeID).Return(consignee, nil)

	return &masterdata.Repositories{Countries: countries, Exporters: exporters, Consignees: consignees}
}

func approvedProforma() *trade.ProformaInvoice {
	pi := &trade.ProformaInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SoftDelete:        shared.NewSoftDelete(),
		Number:            "PI-2025-0001",
		Status:            trade.ProformaStatusApproved,
		TotalAmountUSD:    decimal.RequireFromString("128.62"),
		MakerID:           makerActor.ID,
	}
	pi.Date = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	pi.Parties = trade.Parties{ExporterID: uuid.New(), ConsigneeID: uuid.New()}
	pi.BuyerOrderNo = "BO-17"
	pi.TermsAndConditions = "<p>Payment within 30 days</p>"
	return pi
}

func commercialInStatus(status trade.CommercialStatus) *trade.CommercialInvoice {
	ci := &trade.CommercialInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SoftDelete:        shared.NewSoftDelete(),
		Number:            "CI-2025-0003",
		Status:            status,
		TotalAmountUSD:    decimal.NewFromInt(36),
		MakerID:           makerActor.ID,
	}
	ci.Parties = trade.Parties{ExporterID: uuid.New(), ConsigneeID: uuid.New()}
	ci.BankID = uuid.New()
	ci.Freight = decimal.NewFromInt(100)
	return ci
}

func TestPrintService_ProformaInvoicePDF(t *testing.T) {
	ctx := context.Background()

	t.Run("renders, audits and archives", func(t *testing.T) {
		pi := approvedProforma()
		proformas := new(MockProformas)
		proformas.On("FindByID", mock.Anything, pi.ID).Return(pi, nil)
		audit := new(MockAuditTrail)
		audit.On("Append", mock.Anything, mock.MatchedBy(func(e trade.AuditEntry) bool {
			return e.Action == trade.AuditActionPDFDownloaded && e.DocumentID == pi.ID && e.ActorID == checkerActor.ID
		})).Return(nil)
		renderer := new(MockRenderer)
		var rendered *DocumentView
		renderer.On("Render", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { rendered = args.Get(1).(*DocumentView) }).
			Return(pdfBytes, nil)
		store := new(MockArchiveStore)
		store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return len(key) > 0 && key[:3] == "PI/"
		}), pdfBytes).Return(nil)
		archives := new(MockArchiveRepository)
		archives.On("Save", mock.Anything, mock.AnythingOfType("*printing.ArchivedDocument")).Return(nil)

		svc := NewPrintService(Repositories{Proformas: proformas, Audit: audit, Archives: archives}, masters(pi.Parties), renderer, store, nil)
		out, err := svc.ProformaInvoicePDF(ctx, checkerActor, pi.ID)
		require.NoError(t, err)
		assert.Equal(t, "PI_PI-2025-0001.pdf", out.FileName)
		assert.Equal(t, pdfBytes, out.Content)

		require.NotNil(t, rendered)
		assert.Equal(t, "PROFORMA INVOICE", rendered.Title)
		assert.False(t, rendered.IsDraft())
		assert.Equal(t, "Acme Exports", rendered.Exporter.Name)
		assert.Equal(t, "India", rendered.Exporter.Country)
		assert.Equal(t, "Gulf Foods", rendered.Consignee.Name)
		assert.Empty(t, rendered.Consignee.Country)
		assert.Nil(t, rendered.Buyer)
		assert.Equal(t, "<p>Payment within 30 days</p>", rendered.TermsHTML)
		assert.Contains(t, rendered.References, ReferenceView{Label: "Buyer Order No.", Value: "BO-17"})

		audit.AssertExpectations(t)
		store.AssertExpectations(t)
		archives.AssertExpectations(t)
	})

	t.Run("not approved", func(t *testing.T) {
		pi := approvedProforma()
		pi.Status = trade.ProformaStatusPendingApproval
		proformas := new(MockProformas)
		proformas.On("FindByID", mock.Anything, pi.ID).Return(pi, nil)
		renderer := new(MockRenderer)

		svc := NewPrintService(Repositories{Proformas: proformas}, nil, renderer, nil, nil)
		_, err := svc.ProformaInvoicePDF(ctx, checkerActor, pi.ID)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition) || shared.IsCode(err, shared.CodeInvalidState))
		renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	})

	t.Run("actor without roles", func(t *testing.T) {
		pi := approvedProforma()
		proformas := new(MockProformas)
		proformas.On("FindByID", mock.Anything, pi.ID).Return(pi, nil)

		svc := NewPrintService(Repositories{Proformas: proformas}, nil, new(MockRenderer), nil, nil)
		_, err := svc.ProformaInvoicePDF(ctx, noRoles, pi.ID)
		assert.True(t, shared.IsCode(err, shared.CodeForbidden))
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		proformas := new(MockProformas)
		proformas.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		svc := NewPrintService(Repositories{Proformas: proformas}, nil, new(MockRenderer), nil, nil)
		_, err := svc.ProformaInvoicePDF(ctx, checkerActor, id)
		require.Error(t, err)
		assert.Equal(t, "Proforma invoice not found", err.Error())
	})

	t.Run("render failure", func(t *testing.T) {
		pi := approvedProforma()
		proformas := new(MockProformas)
		proformas.On("FindByID", mock.Anything, pi.ID).Return(pi, nil)
		renderer := new(MockRenderer)
		renderer.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("chrome crashed"))
		audit := new(MockAuditTrail)

		svc := NewPrintService(Repositories{Proformas: proformas, Audit: audit}, masters(pi.Parties), renderer, nil, nil)
		_, err := svc.ProformaInvoicePDF(ctx, makerActor, pi.ID)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeRenderFailed))
		audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("archive failure does not fail the download", func(t *testing.T) {
		pi := approvedProforma()
		proformas := new(MockProformas)
		proformas.On("FindByID", mock.Anything, pi.ID).Return(pi, nil)
		audit := new(MockAuditTrail)
		audit.On("Append", mock.Anything, mock.Anything).Return(nil)
		renderer := new(MockRenderer)
		renderer.On("Render", mock.Anything, mock.Anything).Return(pdfBytes, nil)
		store := new(MockArchiveStore)
		store.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket missing"))
		archives := new(MockArchiveRepository)

		svc := NewPrintService(Repositories{Proformas: proformas, Audit: audit, Archives: archives}, masters(pi.Parties), renderer, store, nil)
		out, err := svc.ProformaInvoicePDF(ctx, makerActor, pi.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, out.Content)
		archives.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPrintService_PackingListPDF(t *testing.T) {
	ctx := context.Background()
	kg := uuid.New()

	pl := &trade.PackingList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SoftDelete:        shared.NewSoftDelete(),
		Number:            "PL-2025-0002",
		Status:            trade.PackingListStatusApproved,
	}
	pl.Parties = trade.Parties{ExporterID: uuid.New(), ConsigneeID: uuid.New()}
	pl.Containers = []trade.Container{{
		ID:                 uuid.New(),
		ContainerReference: "MSCU1234567",
		NetWeight:          decimal.NewFromInt(20000),
		TareWeight:         decimal.NewFromInt(150),
		GrossWeight:        decimal.NewFromInt(20150),
		Items: []trade.ContainerItem{{
			ID:                 uuid.New(),
			ItemCode:           "RICE",
			DescriptionOfGoods: "Basmati rice",
			Quantity:           decimal.NewFromInt(20),
			UOMID:              &kg,
			NetWeight:          decimal.NewFromInt(20000),
			TareWeight:         decimal.NewFromInt(150),
			GrossWeight:        decimal.NewFromInt(20150),
			SoftDelete:         shared.NewSoftDelete(),
		}},
		SoftDelete: shared.NewSoftDelete(),
	}}

	pls := new(MockPackingLists)
	pls.On("FindByID", mock.Anything, pl.ID).Return(pl, nil)
	repos := masters(pl.Parties)
	uoms := new(MockMaster[masterdata.UOM])
	uom := masterdata.UOM{Base: masterdata.NewBase(), Code: "KG"}
	uom.ID = kg
	uoms.On("FindByIDs", mock.Anything, []uuid.UUID{kg}).Return([]masterdata.UOM{uom}, nil)
	repos.UOMs = uoms

	renderer := new(MockRenderer)
	var rendered *DocumentView
	renderer.On("Render", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { rendered = args.Get(1).(*DocumentView) }).
		Return(pdfBytes, nil)
	audit := new(MockAuditTrail)

	svc := NewPrintService(Repositories{PackingLists: pls, Audit: audit}, repos, renderer, nil, nil)
	out, err := svc.PackingListPDF(ctx, makerActor, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, "PL_PL-2025-0002.pdf", out.FileName)

	require.Len(t, rendered.Containers, 1)
	require.Len(t, rendered.Containers[0].Items, 1)
	assert.Equal(t, "KG", rendered.Containers[0].Items[0].Unit)
	assert.True(t, decimal.NewFromInt(20150).Equal(rendered.TotalGrossWeight))
	// packing lists keep no audit ledger
	audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestPrintService_CommercialInvoiceDraftPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("maker gets a watermarked draft", func(t *testing.T) {
		ci := commercialInStatus(trade.CommercialStatusDraft)
		cis := new(MockCommercials)
		cis.On("FindByID", mock.Anything, ci.ID).Return(ci, nil)
		audit := new(MockAuditTrail)
		audit.On("Append", mock.Anything, mock.MatchedBy(func(e trade.AuditEntry) bool {
			return e.Action == trade.AuditActionPDFDraftDownloaded
		})).Return(nil)
		renderer := new(MockRenderer)
		var rendered *DocumentView
		renderer.On("Render", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { rendered = args.Get(1).(*DocumentView) }).
			Return(pdfBytes, nil)
		store := new(MockArchiveStore)

		svc := NewPrintService(Repositories{Commercials: cis, Audit: audit}, masters(ci.Parties), renderer, store, nil)
		out, err := svc.CommercialInvoiceDraftPDF(ctx, makerActor, ci.ID)
		require.NoError(t, err)
		assert.Equal(t, "CI_CI-2025-0003_DRAFT.pdf", out.FileName)
		assert.True(t, rendered.IsDraft())
		assert.True(t, decimal.NewFromInt(136).Equal(rendered.GrandTotalUSD))
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
		audit.AssertExpectations(t)
	})

	t.Run("another maker is refused", func(t *testing.T) {
		ci := commercialInStatus(trade.CommercialStatusPendingApproval)
		cis := new(MockCommercials)
		cis.On("FindByID", mock.Anything, ci.ID).Return(ci, nil)

		svc := NewPrintService(Repositories{Commercials: cis}, nil, new(MockRenderer), nil, nil)
		_, err := svc.CommercialInvoiceDraftPDF(ctx, otherMaker, ci.ID)
		assert.True(t, shared.IsCode(err, shared.CodeForbidden))
	})

	t.Run("approved invoice has no draft", func(t *testing.T) {
		ci := commercialInStatus(trade.CommercialStatusApproved)
		cis := new(MockCommercials)
		cis.On("FindByID", mock.Anything, ci.ID).Return(ci, nil)

		svc := NewPrintService(Repositories{Commercials: cis}, nil, new(MockRenderer), nil, nil)
		_, err := svc.CommercialInvoiceDraftPDF(ctx, adminActor, ci.ID)
		require.Error(t, err)
		assert.False(t, shared.IsCode(err, shared.CodeForbidden))
	})
}

func TestPrintService_CommercialInvoicePDF(t *testing.T) {
	ctx := context.Background()
	ci := commercialInStatus(trade.CommercialStatusApproved)
	cis := new(MockCommercials)
	cis.On("FindByID", mock.Anything, ci.ID).Return(ci, nil)
	audit := new(MockAuditTrail)
	audit.On("Append", mock.Anything, mock.Anything).Return(nil)
	renderer := new(MockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).Return(pdfBytes, nil)

	svc := NewPrintService(Repositories{Commercials: cis, Audit: audit}, masters(ci.Parties), renderer, nil, nil)
	out, err := svc.CommercialInvoicePDF(ctx, checkerActor, ci.ID)
	require.NoError(t, err)
	assert.Equal(t, "CI_CI-2025-0003.pdf", out.FileName)
}

func TestPrintService_ArchivedRenderings(t *testing.T) {
	ctx := context.Background()
	docID := uuid.New()
	doc, err := printing.NewArchivedDocument(trade.DocumentTypeProformaInvoice, docID, "PI-2025-0001", printing.VariantFinal, "s3", "PI/2025/PI-2025-0001/x.pdf", 12, uuid.New())
	require.NoError(t, err)

	archives := new(MockArchiveRepository)
	archives.On("ListByDocument", mock.Anything, trade.DocumentTypeProformaInvoice, docID).Return([]printing.ArchivedDocument{*doc}, nil)

	svc := NewPrintService(Repositories{Archives: archives}, nil, nil, nil, nil)
	out, err := svc.ArchivedRenderings(ctx, trade.DocumentTypeProformaInvoice, docID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "s3", out[0].StorageBackend)
	assert.Equal(t, "FINAL", out[0].Variant)

	empty := NewPrintService(Repositories{}, nil, nil, nil, nil)
	out, err = empty.ArchivedRenderings(ctx, trade.DocumentTypeProformaInvoice, docID)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPrintService_ArchivedRendering(t *testing.T) {
	ctx := context.Background()
	docID := uuid.New()
	key := "PI/2025/PI-2025-0001/x.pdf"
	record, err := printing.NewArchivedDocument(trade.DocumentTypeProformaInvoice, docID, "PI-2025-0001", printing.VariantFinal, "memory", key, 8, uuid.New())
	require.NoError(t, err)

	setup := func() (*PrintService, *MockArchiveRepository, *MockArchiveStore) {
		archives := new(MockArchiveRepository)
		store := new(MockArchiveStore)
		return NewPrintService(Repositories{Archives: archives}, nil, nil, store, nil), archives, store
	}

	t.Run("reads the stored copy", func(t *testing.T) {
		svc, archives, store := setup()
		archives.On("FindByID", mock.Anything, record.ID).Return(record, nil)
		store.On("Open", mock.Anything, key).Return(pdfBytes, nil)

		out, err := svc.ArchivedRendering(ctx, trade.DocumentTypeProformaInvoice, docID, record.ID)
		require.NoError(t, err)
		assert.Equal(t, pdfBytes, out.Content)
		assert.Equal(t, printing.FileName(trade.DocumentTypeProformaInvoice, "PI-2025-0001", printing.VariantFinal), out.FileName)
	})

	t.Run("copy of another document", func(t *testing.T) {
		svc, archives, _ := setup()
		archives.On("FindByID", mock.Anything, record.ID).Return(record, nil)

		_, err := svc.ArchivedRendering(ctx, trade.DocumentTypeProformaInvoice, uuid.New(), record.ID)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("unknown record", func(t *testing.T) {
		svc, archives, _ := setup()
		archives.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := svc.ArchivedRendering(ctx, trade.DocumentTypeProformaInvoice, docID, uuid.New())
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("object gone from storage", func(t *testing.T) {
		svc, archives, store := setup()
		archives.On("FindByID", mock.Anything, record.ID).Return(record, nil)
		store.On("Open", mock.Anything, key).Return(nil, errors.New("no such key"))

		_, err := svc.ArchivedRendering(ctx, trade.DocumentTypeProformaInvoice, docID, record.ID)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("archiving disabled", func(t *testing.T) {
		svc := NewPrintService(Repositories{}, nil, nil, nil, nil)
		_, err := svc.ArchivedRendering(ctx, trade.DocumentTypeProformaInvoice, docID, record.ID)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})
}
