package masterdata

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// ListFilter holds master listing query parameters
type ListFilter struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1"`
	Search          string `form:"search" binding:"omitempty,max=100"`
	OrderBy         string `form:"order_by" binding:"omitempty,oneof=name code iso_code bank_name created_at updated_at"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	IncludeInactive bool   `form:"include_inactive"`
	CountryID       string `form:"country_id" binding:"omitempty,uuid"`
	Kind            string `form:"kind"`
}

func (f ListFilter) toDomain() shared.Filter {
	out := shared.Filter{
		Page:            f.Page,
		PageSize:        f.PageSize,
		OrderBy:         f.OrderBy,
		OrderDir:        strings.ToLower(f.OrderDir),
		Search:          strings.TrimSpace(f.Search),
		IncludeInactive: f.IncludeInactive,
		Filters:         make(map[string]interface{}),
	}
	// pickers list alphabetically unless told otherwise
	if out.OrderDir == "" {
		out.OrderDir = "asc"
	}
	out.Normalize(DefaultPageSize, MaxPageSize)
	if id, err := uuid.Parse(f.CountryID); err == nil {
		out.Filters["country_id"] = id
	}
	if kind := strings.ToUpper(strings.TrimSpace(f.Kind)); kind != "" {
		out.Filters["kind"] = kind
	}
	return out
}

// RecordResponse carries the fields common to every master record
type RecordResponse struct {
	ID            uuid.UUID  `json:"id"`
	DisplayName   string     `json:"display_name"`
	IsActive      bool       `json:"is_active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toRecordResponse(base *masterdata.Base, displayName string) RecordResponse {
	return RecordResponse{
		ID:            base.ID,
		DisplayName:   displayName,
		IsActive:      base.IsActive,
		DeactivatedAt: base.DeactivatedAt,
		CreatedAt:     base.CreatedAt,
		UpdatedAt:     base.UpdatedAt,
	}
}

func newRecord() masterdata.Base {
	return masterdata.NewBase()
}

// Country

// CountryRequest creates or updates a country
type CountryRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	ISOCode string `json:"iso_code" binding:"required,len=2"`
}

func (r *CountryRequest) Build() *masterdata.Country {
	c := &masterdata.Country{Base: newRecord()}
	r.ApplyTo(c)
	return c
}

func (r *CountryRequest) ApplyTo(c *masterdata.Country) {
	c.Name, c.ISOCode = r.Name, r.ISOCode
}

func (r *CountryRequest) References() []Reference { return nil }

// CountryResponse represents a country in API responses
type CountryResponse struct {
	RecordResponse
	Name    string `json:"name"`
	ISOCode string `json:"iso_code"`
}

// ToCountryResponse converts a country to its response
func ToCountryResponse(c *masterdata.Country) CountryResponse {
	return CountryResponse{RecordResponse: toRecordResponse(&c.Base, c.DisplayName()), Name: c.Name, ISOCode: c.ISOCode}
}

// Bank

// BankRequest creates or updates a bank
type BankRequest struct {
	BeneficiaryName string `json:"beneficiary_name" binding:"required,max=150"`
	BankName        string `json:"bank_name" binding:"required,max=150"`
	BranchName      string `json:"branch_name" binding:"max=150"`
	BranchAddress   string `json:"branch_address"`
	AccountNumber   string `json:"account_number" binding:"required,max=64"`
	SwiftCode       string `json:"swift_code" binding:"max=20"`
}

func (r *BankRequest) Build() *masterdata.Bank {
	b := &masterdata.Bank{Base: newRecord()}
	r.ApplyTo(b)
	return b
}

func (r *BankRequest) ApplyTo(b *masterdata.Bank) {
	b.BeneficiaryName = r.BeneficiaryName
	b.BankName = r.BankName
	b.BranchName = r.BranchName
	b.BranchAddress = r.BranchAddress
	b.AccountNumber = r.AccountNumber
	b.SwiftCode = r.SwiftCode
}

func (r *BankRequest) References() []Reference { return nil }

// BankResponse represents a bank in API responses
type BankResponse struct {
	RecordResponse
	BeneficiaryName string `json:"beneficiary_name"`
	BankName        string `json:"bank_name"`
	BranchName      string `json:"branch_name"`
	BranchAddress   string `json:"branch_address"`
	AccountNumber   string `json:"account_number"`
	SwiftCode       string `json:"swift_code"`
}

// ToBankResponse converts a bank to its response
func ToBankResponse(b *masterdata.Bank) BankResponse {
	return BankResponse{
		RecordResponse:  toRecordResponse(&b.Base, b.DisplayName()),
		BeneficiaryName: b.BeneficiaryName,
		BankName:        b.BankName,
		BranchName:      b.BranchName,
		BranchAddress:   b.BranchAddress,
		AccountNumber:   b.AccountNumber,
		SwiftCode:       b.SwiftCode,
	}
}

// Parties

// PartyRequest holds the fields shared by exporters, consignees and buyers
type PartyRequest struct {
	Name          string    `json:"name" binding:"required,max=150"`
	Address       string    `json:"address"`
	CountryID     uuid.UUID `json:"country" binding:"required"`
	ContactPerson string    `json:"contact_person" binding:"max=100"`
	PhoneNo       string    `json:"phone_no" binding:"max=30"`
	Email         string    `json:"email_id" binding:"omitempty,email"`
}

func (r *PartyRequest) details() masterdata.PartyDetails {
	return masterdata.PartyDetails{
		Name:          r.Name,
		Address:       r.Address,
		CountryID:     r.CountryID,
		ContactPerson: r.ContactPerson,
		PhoneNo:       r.PhoneNo,
		Email:         r.Email,
	}
}

func (r *PartyRequest) References() []Reference {
	return []Reference{{Field: "country", Kind: masterdata.KindCountry, ID: r.CountryID}}
}

// ExporterRequest creates or updates an exporter
type ExporterRequest struct{ PartyRequest }

func (r *ExporterRequest) Build() *masterdata.Exporter {
	return &masterdata.Exporter{Base: newRecord(), PartyDetails: r.details()}
}

func (r *ExporterRequest) ApplyTo(e *masterdata.Exporter) { e.PartyDetails = r.details() }

// ConsigneeRequest creates or updates a consignee
type ConsigneeRequest struct{ PartyRequest }

func (r *ConsigneeRequest) Build() *masterdata.Consignee {
	return &masterdata.Consignee{Base: newRecord(), PartyDetails: r.details()}
}

func (r *ConsigneeRequest) ApplyTo(c *masterdata.Consignee) { c.PartyDetails = r.details() }

// BuyerRequest creates or updates a buyer
type BuyerRequest struct{ PartyRequest }

func (r *BuyerRequest) Build() *masterdata.Buyer {
	return &masterdata.Buyer{Base: newRecord(), PartyDetails: r.details()}
}

func (r *BuyerRequest) ApplyTo(b *masterdata.Buyer) { b.PartyDetails = r.details() }

// PartyResponse represents an exporter, consignee or buyer
type PartyResponse struct {
	RecordResponse
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	CountryID     uuid.UUID `json:"country"`
	ContactPerson string    `json:"contact_person"`
	PhoneNo       string    `json:"phone_no"`
	Email         string    `json:"email_id"`
}

func toPartyResponse(base *masterdata.Base, p masterdata.PartyDetails) PartyResponse {
	return PartyResponse{
		RecordResponse: toRecordResponse(base, p.Name),
		Name:           p.Name,
		Address:        p.Address,
		CountryID:      p.CountryID,
		ContactPerson:  p.ContactPerson,
		PhoneNo:        p.PhoneNo,
		Email:          p.Email,
	}
}

// ToExporterResponse converts an exporter to its response
func ToExporterResponse(e *masterdata.Exporter) PartyResponse {
	return toPartyResponse(&e.Base, e.PartyDetails)
}

// ToConsigneeResponse converts a consignee to its response
func ToConsigneeResponse(c *masterdata.Consignee) PartyResponse {
	return toPartyResponse(&c.Base, c.PartyDetails)
}

// ToBuyerResponse converts a buyer to its response
func ToBuyerResponse(b *masterdata.Buyer) PartyResponse {
	return toPartyResponse(&b.Base, b.PartyDetails)
}

// Registered address

// RegisteredAddressRequest creates or updates a registered address
type RegisteredAddressRequest struct {
	Name      string     `json:"name" binding:"required,max=150"`
	Address   string     `json:"address" binding:"required"`
	CountryID *uuid.UUID `json:"country"`
}

func (r *RegisteredAddressRequest) Build() *masterdata.RegisteredAddress {
	a := &masterdata.RegisteredAddress{Base: newRecord()}
	r.ApplyTo(a)
	return a
}

func (r *RegisteredAddressRequest) ApplyTo(a *masterdata.RegisteredAddress) {
	a.Name, a.Address, a.CountryID = r.Name, r.Address, r.CountryID
}

func (r *RegisteredAddressRequest) References() []Reference {
	if r.CountryID == nil {
		return nil
	}
	return []Reference{{Field: "country", Kind: masterdata.KindCountry, ID: *r.CountryID}}
}

// RegisteredAddressResponse represents a registered address
type RegisteredAddressResponse struct {
	RecordResponse
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	CountryID *uuid.UUID `json:"country"`
}

// ToRegisteredAddressResponse converts a registered address to its response
func ToRegisteredAddressResponse(a *masterdata.RegisteredAddress) RegisteredAddressResponse {
	return RegisteredAddressResponse{
		RecordResponse: toRecordResponse(&a.Base, a.DisplayName()),
		Name:           a.Name,
		Address:        a.Address,
		CountryID:      a.CountryID,
	}
}

// Port

// PortRequest creates or updates a port
type PortRequest struct {
	Kind      string    `json:"kind" binding:"required"`
	Name      string    `json:"name" binding:"required,max=150"`
	CountryID uuid.UUID `json:"country" binding:"required"`
}

func (r *PortRequest) Build() *masterdata.Port {
	p := &masterdata.Port{Base: newRecord()}
	r.ApplyTo(p)
	return p
}

func (r *PortRequest) ApplyTo(p *masterdata.Port) {
	p.Kind, p.Name, p.CountryID = masterdata.PortKind(r.Kind), r.Name, r.CountryID
}

func (r *PortRequest) References() []Reference {
	return []Reference{{Field: "country", Kind: masterdata.KindCountry, ID: r.CountryID}}
}

// PortResponse represents a port
type PortResponse struct {
	RecordResponse
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	CountryID uuid.UUID `json:"country"`
}

// ToPortResponse converts a port to its response
func ToPortResponse(p *masterdata.Port) PortResponse {
	return PortResponse{
		RecordResponse: toRecordResponse(&p.Base, p.DisplayName()),
		Kind:           string(p.Kind),
		Name:           p.Name,
		CountryID:      p.CountryID,
	}
}

// Coded records

// CodedRequest holds a code and a description
type CodedRequest struct {
	Code        string `json:"code" binding:"required,max=20"`
	Description string `json:"description"`
}

func (r *CodedRequest) References() []Reference { return nil }

// IncotermRequest creates or updates an incoterm
type IncotermRequest struct{ CodedRequest }

func (r *IncotermRequest) Build() *masterdata.Incoterm {
	i := &masterdata.Incoterm{Base: newRecord()}
	r.ApplyTo(i)
	return i
}

func (r *IncotermRequest) ApplyTo(i *masterdata.Incoterm) {
	i.Code, i.Description = r.Code, r.Description
}

// UOMRequest creates or updates a unit of measure
type UOMRequest struct{ CodedRequest }

func (r *UOMRequest) Build() *masterdata.UOM {
	u := &masterdata.UOM{Base: newRecord()}
	r.ApplyTo(u)
	return u
}

func (r *UOMRequest) ApplyTo(u *masterdata.UOM) {
	u.Code, u.Description = r.Code, r.Description
}

// CodedResponse represents an incoterm or a unit of measure
type CodedResponse struct {
	RecordResponse
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ToIncotermResponse converts an incoterm to its response
func ToIncotermResponse(i *masterdata.Incoterm) CodedResponse {
	return CodedResponse{RecordResponse: toRecordResponse(&i.Base, i.DisplayName()), Code: i.Code, Description: i.Description}
}

// ToUOMResponse converts a unit of measure to its response
func ToUOMResponse(u *masterdata.UOM) CodedResponse {
	return CodedResponse{RecordResponse: toRecordResponse(&u.Base, u.DisplayName()), Code: u.Code, Description: u.Description}
}

// Named records

// NamedRequest holds a single name
type NamedRequest struct {
	Name string `json:"name" binding:"required,max=150"`
}

func (r *NamedRequest) References() []Reference { return nil }

// PaymentTermRequest creates or updates a payment term
type PaymentTermRequest struct{ NamedRequest }

func (r *PaymentTermRequest) Build() *masterdata.PaymentTerm {
	return &masterdata.PaymentTerm{NamedRecord: masterdata.NamedRecord{Base: newRecord(), Name: r.Name}}
}

func (r *PaymentTermRequest) ApplyTo(p *masterdata.PaymentTerm) { p.Name = r.Name }

// PreCarriageRequest creates or updates a pre-carriage mode
type PreCarriageRequest struct{ NamedRequest }

func (r *PreCarriageRequest) Build() *masterdata.PreCarriage {
	return &masterdata.PreCarriage{NamedRecord: masterdata.NamedRecord{Base: newRecord(), Name: r.Name}}
}

func (r *PreCarriageRequest) ApplyTo(p *masterdata.PreCarriage) { p.Name = r.Name }

// PlaceOfReceiptRequest creates or updates a place of receipt
type PlaceOfReceiptRequest struct{ NamedRequest }

func (r *PlaceOfReceiptRequest) Build() *masterdata.PlaceOfReceipt {
	return &masterdata.PlaceOfReceipt{NamedRecord: masterdata.NamedRecord{Base: newRecord(), Name: r.Name}}
}

func (r *PlaceOfReceiptRequest) ApplyTo(p *masterdata.PlaceOfReceipt) { p.Name = r.Name }

// NamedResponse represents a payment term, pre-carriage or place of receipt
type NamedResponse struct {
	RecordResponse
	Name string `json:"name"`
}

func toNamedResponse(n *masterdata.NamedRecord) NamedResponse {
	return NamedResponse{RecordResponse: toRecordResponse(&n.Base, n.DisplayName()), Name: n.Name}
}

// ToPaymentTermResponse converts a payment term to its response
func ToPaymentTermResponse(p *masterdata.PaymentTerm) NamedResponse {
	return toNamedResponse(&p.NamedRecord)
}

// ToPreCarriageResponse converts a pre-carriage mode to its response
func ToPreCarriageResponse(p *masterdata.PreCarriage) NamedResponse {
	return toNamedResponse(&p.NamedRecord)
}

// ToPlaceOfReceiptResponse converts a place of receipt to its response
func ToPlaceOfReceiptResponse(p *masterdata.PlaceOfReceipt) NamedResponse {
	return toNamedResponse(&p.NamedRecord)
}

// Terms template

// TermsTemplateRequest creates or updates a terms template
type TermsTemplateRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	ContentHTML string `json:"content_html"`
}

func (r *TermsTemplateRequest) Build() *masterdata.TermsTemplate {
	t := &masterdata.TermsTemplate{Base: newRecord()}
	r.ApplyTo(t)
	return t
}

func (r *TermsTemplateRequest) ApplyTo(t *masterdata.TermsTemplate) {
	t.Name, t.ContentHTML = r.Name, r.ContentHTML
}

func (r *TermsTemplateRequest) References() []Reference { return nil }

// TermsTemplateResponse represents a terms template
type TermsTemplateResponse struct {
	RecordResponse
	Name        string `json:"name"`
	ContentHTML string `json:"content_html"`
}

// ToTermsTemplateResponse converts a terms template to its response
func ToTermsTemplateResponse(t *masterdata.TermsTemplate) TermsTemplateResponse {
	return TermsTemplateResponse{RecordResponse: toRecordResponse(&t.Base, t.DisplayName()), Name: t.Name, ContentHTML: t.ContentHTML}
}

var (
	_ Payload[masterdata.Country]           = (*CountryRequest)(nil)
	_ Payload[masterdata.Bank]              = (*BankRequest)(nil)
	_ Payload[masterdata.Exporter]          = (*ExporterRequest)(nil)
	_ Payload[masterdata.Consignee]         = (*ConsigneeRequest)(nil)
	_ Payload[masterdata.Buyer]             = (*BuyerRequest)(nil)
	_ Payload[masterdata.RegisteredAddress] = (*RegisteredAddressRequest)(nil)
	_ Payload[masterdata.Port]              = (*PortRequest)(nil)
	_ Payload[masterdata.Incoterm]          = (*IncotermRequest)(nil)
	_ Payload[masterdata.UOM]               = (*UOMRequest)(nil)
	_ Payload[masterdata.PaymentTerm]       = (*PaymentTermRequest)(nil)
	_ Payload[masterdata.PreCarriage]       = (*PreCarriageRequest)(nil)
	_ Payload[masterdata.PlaceOfReceipt]    = (*PlaceOfReceiptRequest)(nil)
	_ Payload[masterdata.TermsTemplate]     = (*TermsTemplateRequest)(nil)
)
