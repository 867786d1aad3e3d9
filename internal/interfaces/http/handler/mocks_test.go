package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	appidentity "github.com/tradedocs/backend/internal/application/identity"
	appmd "github.com/tradedocs/backend/internal/application/masterdata"
	appprinting "github.com/tradedocs/backend/internal/application/printing"
	apptrade "github.com/tradedocs/backend/internal/application/trade"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// mockResult unpacks a (*T, error) mock return
func mockResult[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

// MockDocumentService is a mock implementation of DocumentService
type MockDocumentService[R any, Q any] struct {
	mock.Mock
}

func (m *MockDocumentService[R, Q]) List(ctx context.Context, filter apptrade.ListFilter) ([]R, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]R), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentService[R, Q]) GetByID(ctx context.Context, id uuid.UUID) (*R, error) {
	return mockResult[R](m.Called(ctx, id))
}

func (m *MockDocumentService[R, Q]) Create(ctx context.Context, actor trade.Actor, req Q) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, req))
}

func (m *MockDocumentService[R, Q]) Update(ctx context.Context, actor trade.Actor, id uuid.UUID, req Q) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, id, req))
}

func (m *MockDocumentService[R, Q]) Submit(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, id))
}

func (m *MockDocumentService[R, Q]) Approve(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, id))
}

func (m *MockDocumentService[R, Q]) Reject(ctx context.Context, actor trade.Actor, id uuid.UUID, req apptrade.RejectRequest) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, id, req))
}

func (m *MockDocumentService[R, Q]) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, id))
}

// MockInvoiceService adds the line-item operations
type MockInvoiceService[R any, Q any] struct {
	MockDocumentService[R, Q]
}

func (m *MockInvoiceService[R, Q]) AuditTrail(ctx context.Context, id uuid.UUID) ([]apptrade.AuditEntryResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]apptrade.AuditEntryResponse), args.Error(1)
}

func (m *MockInvoiceService[R, Q]) ListLineItems(ctx context.Context, id uuid.UUID) ([]apptrade.LineItemResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]apptrade.LineItemResponse), args.Error(1)
}

func (m *MockInvoiceService[R, Q]) AddLineItem(ctx context.Context, actor trade.Actor, id uuid.UUID, req apptrade.LineItemRequest) (*apptrade.LineItemResult, error) {
	return mockResult[apptrade.LineItemResult](m.Called(ctx, actor, id, req))
}

func (m *MockInvoiceService[R, Q]) UpdateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID, req apptrade.LineItemRequest) (*apptrade.LineItemResult, error) {
	return mockResult[apptrade.LineItemResult](m.Called(ctx, actor, id, itemID, req))
}

func (m *MockInvoiceService[R, Q]) DeactivateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID) (*apptrade.LineItemResult, error) {
	return mockResult[apptrade.LineItemResult](m.Called(ctx, actor, id, itemID))
}

type MockProformaInvoiceService = MockInvoiceService[apptrade.ProformaInvoiceResponse, apptrade.ProformaInvoiceRequest]

// MockPackingListService is a mock implementation of PackingListService
type MockPackingListService struct {
	MockDocumentService[apptrade.PackingListResponse, apptrade.PackingListRequest]
}

func (m *MockPackingListService) PermanentlyReject(ctx context.Context, actor trade.Actor, id uuid.UUID) (*apptrade.PackingListResponse, error) {
	return mockResult[apptrade.PackingListResponse](m.Called(ctx, actor, id))
}

// MockCommercialInvoiceService is a mock implementation of CommercialInvoiceService
type MockCommercialInvoiceService struct {
	MockInvoiceService[apptrade.CommercialInvoiceResponse, apptrade.CommercialInvoiceRequest]
}

func (m *MockCommercialInvoiceService) Disable(ctx context.Context, actor trade.Actor, id uuid.UUID) (*apptrade.CommercialInvoiceResponse, error) {
	return mockResult[apptrade.CommercialInvoiceResponse](m.Called(ctx, actor, id))
}

func (m *MockCommercialInvoiceService) Aggregate(ctx context.Context, packingListID uuid.UUID) (*apptrade.AggregationResponse, error) {
	return mockResult[apptrade.AggregationResponse](m.Called(ctx, packingListID))
}

func (m *MockCommercialInvoiceService) CreateFromPackingList(ctx context.Context, actor trade.Actor, req apptrade.CreateFromPackingListRequest) (*apptrade.CommercialInvoiceResponse, error) {
	return mockResult[apptrade.CommercialInvoiceResponse](m.Called(ctx, actor, req))
}

func (m *MockCommercialInvoiceService) ApprovedPackingLists(ctx context.Context, consigneeID uuid.UUID) ([]apptrade.ApprovedPackingListResponse, error) {
	args := m.Called(ctx, consigneeID)
	return args.Get(0).([]apptrade.ApprovedPackingListResponse), args.Error(1)
}

// MockPrinter is a mock implementation of DocumentPrinter
type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) ProformaInvoicePDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error) {
	return mockResult[appprinting.PDFResult](m.Called(ctx, actor, id))
}

func (m *MockPrinter) PackingListPDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error) {
	return mockResult[appprinting.PDFResult](m.Called(ctx, actor, id))
}

func (m *MockPrinter) CommercialInvoicePDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error) {
	return mockResult[appprinting.PDFResult](m.Called(ctx, actor, id))
}

func (m *MockPrinter) CommercialInvoiceDraftPDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error) {
	return mockResult[appprinting.PDFResult](m.Called(ctx, actor, id))
}

func (m *MockPrinter) ArchivedRenderings(ctx context.Context, docType trade.DocumentType, id uuid.UUID) ([]appprinting.ArchiveResponse, error) {
	args := m.Called(ctx, docType, id)
	return args.Get(0).([]appprinting.ArchiveResponse), args.Error(1)
}

func (m *MockPrinter) ArchivedRendering(ctx context.Context, docType trade.DocumentType, id, archiveID uuid.UUID) (*appprinting.PDFResult, error) {
	return mockResult[appprinting.PDFResult](m.Called(ctx, docType, id, archiveID))
}

// MockMasterService is a mock implementation of MasterService
type MockMasterService[T any, R any] struct {
	mock.Mock
}

func (m *MockMasterService[T, R]) List(ctx context.Context, filter appmd.ListFilter) ([]R, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]R), args.Get(1).(int64), args.Error(2)
}

func (m *MockMasterService[T, R]) GetByID(ctx context.Context, id uuid.UUID) (*R, error) {
	return mockResult[R](m.Called(ctx, id))
}

func (m *MockMasterService[T, R]) Create(ctx context.Context, actor trade.Actor, in appmd.Payload[T]) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, in))
}

func (m *MockMasterService[T, R]) Update(ctx context.Context, actor trade.Actor, id uuid.UUID, in appmd.Payload[T]) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, id, in))
}

func (m *MockMasterService[T, R]) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error) {
	return mockResult[R](m.Called(ctx, actor, id))
}

// MockApprovedConsignees is a mock implementation of ApprovedConsigneeLister
type MockApprovedConsignees struct {
	mock.Mock
}

func (m *MockApprovedConsignees) ConsigneesWithApprovedPackingLists(ctx context.Context) ([]appmd.PartyResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]appmd.PartyResponse), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error) {
	return mockResult[appidentity.LoginResult](m.Called(ctx, input))
}

func (m *MockAuthService) RefreshToken(ctx context.Context, input appidentity.RefreshTokenInput) (*appidentity.TokenResult, error) {
	return mockResult[appidentity.TokenResult](m.Called(ctx, input))
}

func (m *MockAuthService) Logout(ctx context.Context, input appidentity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*appidentity.UserResponse, error) {
	return mockResult[appidentity.UserResponse](m.Called(ctx, userID))
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input appidentity.ChangePasswordInput) error {
	return m.Called(ctx, userID, input).Error(0)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor trade.Actor, f appidentity.UserListFilter) ([]appidentity.UserResponse, int64, error) {
	args := m.Called(ctx, actor, f)
	return args.Get(0).([]appidentity.UserResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Create(ctx context.Context, actor trade.Actor, req appidentity.CreateUserRequest) (*appidentity.UserResponse, error) {
	return mockResult[appidentity.UserResponse](m.Called(ctx, actor, req))
}

func (m *MockUserService) SetRoles(ctx context.Context, actor trade.Actor, id uuid.UUID, req appidentity.SetRolesRequest) (*appidentity.UserResponse, error) {
	return mockResult[appidentity.UserResponse](m.Called(ctx, actor, id, req))
}

func (m *MockUserService) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appidentity.UserResponse, error) {
	return mockResult[appidentity.UserResponse](m.Called(ctx, actor, id))
}
