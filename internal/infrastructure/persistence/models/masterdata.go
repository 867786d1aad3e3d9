package models

import (
	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
)

func masterBase(b BaseModel, s SoftDeleteModel) masterdata.Base {
	return masterdata.Base{BaseEntity: b.entity(), SoftDelete: s.softDelete()}
}

func (m *BaseModel) fromMaster(b masterdata.Base) {
	m.setEntity(b.BaseEntity)
}

// CountryModel is the persistence model for countries
type CountryModel struct {
	BaseModel
	SoftDeleteModel
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex:idx_countries_name"`
	ISOCode string `gorm:"type:varchar(2);not null;uniqueIndex:idx_countries_iso_code"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string { return "countries" }

// ToDomain converts the model to a domain Country
func (m *CountryModel) ToDomain() *masterdata.Country {
	return &masterdata.Country{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Name: m.Name, ISOCode: m.ISOCode}
}

// FromDomain populates the model from a domain Country
func (m *CountryModel) FromDomain(d *masterdata.Country) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Name = d.Name
	m.ISOCode = d.ISOCode
}

// BankModel is the persistence model for beneficiary banks
type BankModel struct {
	BaseModel
	SoftDeleteModel
	BeneficiaryName string `gorm:"type:varchar(150);not null"`
	BankName        string `gorm:"type:varchar(150);not null"`
	BranchName      string `gorm:"type:varchar(150)"`
	BranchAddress   string `gorm:"type:text"`
	AccountNumber   string `gorm:"type:varchar(64);not null;uniqueIndex:idx_banks_account_number"`
	SwiftCode       string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (BankModel) TableName() string { return "banks" }

// ToDomain converts the model to a domain Bank
func (m *BankModel) ToDomain() *masterdata.Bank {
	return &masterdata.Bank{
		Base:            masterBase(m.BaseModel, m.SoftDeleteModel),
		BeneficiaryName: m.BeneficiaryName,
		BankName:        m.BankName,
		BranchName:      m.BranchName,
		BranchAddress:   m.BranchAddress,
		AccountNumber:   m.AccountNumber,
		SwiftCode:       m.SwiftCode,
	}
}

// FromDomain populates the model from a domain Bank
func (m *BankModel) FromDomain(d *masterdata.Bank) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.BeneficiaryName = d.BeneficiaryName
	m.BankName = d.BankName
	m.BranchName = d.BranchName
	m.BranchAddress = d.BranchAddress
	m.AccountNumber = d.AccountNumber
	m.SwiftCode = d.SwiftCode
}

// PartyColumns are the columns shared by exporters, consignees and buyers
type PartyColumns struct {
	Name          string    `gorm:"type:varchar(150);not null;index"`
	Address       string    `gorm:"type:text"`
	CountryID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ContactPerson string    `gorm:"type:varchar(150)"`
	PhoneNo       string    `gorm:"type:varchar(50)"`
	Email         string    `gorm:"type:varchar(254)"`
}

func (c PartyColumns) toDomain() masterdata.PartyDetails {
	return masterdata.PartyDetails{
		Name:          c.Name,
		Address:       c.Address,
		CountryID:     c.CountryID,
		ContactPerson: c.ContactPerson,
		PhoneNo:       c.PhoneNo,
		Email:         c.Email,
	}
}

func partyColumns(d masterdata.PartyDetails) PartyColumns {
	return PartyColumns{
		Name:          d.Name,
		Address:       d.Address,
		CountryID:     d.CountryID,
		ContactPerson: d.ContactPerson,
		PhoneNo:       d.PhoneNo,
		Email:         d.Email,
	}
}

// ExporterModel is the persistence model for exporters
type ExporterModel struct {
	BaseModel
	SoftDeleteModel
	PartyColumns
}

// TableName returns the table name for GORM
func (ExporterModel) TableName() string { return "exporters" }

// ToDomain converts the model to a domain Exporter
func (m *ExporterModel) ToDomain() *masterdata.Exporter {
	return &masterdata.Exporter{Base: masterBase(m.BaseModel, m.SoftDeleteModel), PartyDetails: m.PartyColumns.toDomain()}
}

// FromDomain populates the model from a domain Exporter
func (m *ExporterModel) FromDomain(d *masterdata.Exporter) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.PartyColumns = partyColumns(d.PartyDetails)
}

// ConsigneeModel is the persistence model for consignees
type ConsigneeModel struct {
	BaseModel
	SoftDeleteModel
	PartyColumns
}

// TableName returns the table name for GORM
func (ConsigneeModel) TableName() string { return "consignees" }

// ToDomain converts the model to a domain Consignee
func (m *ConsigneeModel) ToDomain() *masterdata.Consignee {
	return &masterdata.Consignee{Base: masterBase(m.BaseModel, m.SoftDeleteModel), PartyDetails: m.PartyColumns.toDomain()}
}

// FromDomain populates the model from a domain Consignee
func (m *ConsigneeModel) FromDomain(d *masterdata.Consignee) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.PartyColumns = partyColumns(d.PartyDetails)
}

// BuyerModel is the persistence model for buyers
type BuyerModel struct {
	BaseModel
	SoftDeleteModel
	PartyColumns
}

// TableName returns the table name for GORM
func (BuyerModel) TableName() string { return "buyers" }

// ToDomain converts the model to a domain Buyer
func (m *BuyerModel) ToDomain() *masterdata.Buyer {
	return &masterdata.Buyer{Base: masterBase(m.BaseModel, m.SoftDeleteModel), PartyDetails: m.PartyColumns.toDomain()}
}

// FromDomain populates the model from a domain Buyer
func (m *BuyerModel) FromDomain(d *masterdata.Buyer) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.PartyColumns = partyColumns(d.PartyDetails)
}

// RegisteredAddressModel is the persistence model for registered addresses
type RegisteredAddressModel struct {
	BaseModel
	SoftDeleteModel
	Name      string     `gorm:"type:varchar(150);not null"`
	Address   string     `gorm:"type:text;not null"`
	CountryID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (RegisteredAddressModel) TableName() string { return "registered_addresses" }

// ToDomain converts the model to a domain RegisteredAddress
func (m *RegisteredAddressModel) ToDomain() *masterdata.RegisteredAddress {
	return &masterdata.RegisteredAddress{
		Base:      masterBase(m.BaseModel, m.SoftDeleteModel),
		Name:      m.Name,
		Address:   m.Address,
		CountryID: m.CountryID,
	}
}

// FromDomain populates the model from a domain RegisteredAddress
func (m *RegisteredAddressModel) FromDomain(d *masterdata.RegisteredAddress) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Name = d.Name
	m.Address = d.Address
	m.CountryID = d.CountryID
}

// PortModel is the persistence model for loading, discharge and destination ports
type PortModel struct {
	BaseModel
	SoftDeleteModel
	Kind      masterdata.PortKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_ports_kind_name_country,priority:1"`
	Name      string              `gorm:"type:varchar(150);not null;uniqueIndex:idx_ports_kind_name_country,priority:2"`
	CountryID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_ports_kind_name_country,priority:3"`
}

// TableName returns the table name for GORM
func (PortModel) TableName() string { return "ports" }

// ToDomain converts the model to a domain Port
func (m *PortModel) ToDomain() *masterdata.Port {
	return &masterdata.Port{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Kind: m.Kind, Name: m.Name, CountryID: m.CountryID}
}

// FromDomain populates the model from a domain Port
func (m *PortModel) FromDomain(d *masterdata.Port) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Kind = d.Kind
	m.Name = d.Name
	m.CountryID = d.CountryID
}

// IncotermModel is the persistence model for incoterms
type IncotermModel struct {
	BaseModel
	SoftDeleteModel
	Code        string `gorm:"type:varchar(10);not null;uniqueIndex:idx_incoterms_code"`
	Description string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (IncotermModel) TableName() string { return "incoterms" }

// ToDomain converts the model to a domain Incoterm
func (m *IncotermModel) ToDomain() *masterdata.Incoterm {
	return &masterdata.Incoterm{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Code: m.Code, Description: m.Description}
}

// FromDomain populates the model from a domain Incoterm
func (m *IncotermModel) FromDomain(d *masterdata.Incoterm) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Code = d.Code
	m.Description = d.Description
}

// UOMModel is the persistence model for units of measure
type UOMModel struct {
	BaseModel
	SoftDeleteModel
	Code        string `gorm:"type:varchar(20);not null;uniqueIndex:idx_uoms_code"`
	Description string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (UOMModel) TableName() string { return "uoms" }

// ToDomain converts the model to a domain UOM
func (m *UOMModel) ToDomain() *masterdata.UOM {
	return &masterdata.UOM{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Code: m.Code, Description: m.Description}
}

// FromDomain populates the model from a domain UOM
func (m *UOMModel) FromDomain(d *masterdata.UOM) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Code = d.Code
	m.Description = d.Description
}

// PaymentTermModel is the persistence model for payment terms
type PaymentTermModel struct {
	BaseModel
	SoftDeleteModel
	Name string `gorm:"type:varchar(150);not null;uniqueIndex:idx_payment_terms_name"`
}

// TableName returns the table name for GORM
func (PaymentTermModel) TableName() string { return "payment_terms" }

// ToDomain converts the model to a domain PaymentTerm
func (m *PaymentTermModel) ToDomain() *masterdata.PaymentTerm {
	return &masterdata.PaymentTerm{NamedRecord: masterdata.NamedRecord{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Name: m.Name}}
}

// FromDomain populates the model from a domain PaymentTerm
func (m *PaymentTermModel) FromDomain(d *masterdata.PaymentTerm) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Name = d.Name
}

// PreCarriageModel is the persistence model for pre-carriage modes
type PreCarriageModel struct {
	BaseModel
	SoftDeleteModel
	Name string `gorm:"type:varchar(150);not null;uniqueIndex:idx_pre_carriages_name"`
}

// TableName returns the table name for GORM
func (PreCarriageModel) TableName() string { return "pre_carriages" }

// ToDomain converts the model to a domain PreCarriage
func (m *PreCarriageModel) ToDomain() *masterdata.PreCarriage {
	return &masterdata.PreCarriage{NamedRecord: masterdata.NamedRecord{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Name: m.Name}}
}

// FromDomain populates the model from a domain PreCarriage
func (m *PreCarriageModel) FromDomain(d *masterdata.PreCarriage) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Name = d.Name
}

// PlaceOfReceiptModel is the persistence model for places of receipt
type PlaceOfReceiptModel struct {
	BaseModel
	SoftDeleteModel
	Name string `gorm:"type:varchar(150);not null;uniqueIndex:idx_places_of_receipt_name"`
}

// TableName returns the table name for GORM
func (PlaceOfReceiptModel) TableName() string { return "places_of_receipt" }

// ToDomain converts the model to a domain PlaceOfReceipt
func (m *PlaceOfReceiptModel) ToDomain() *masterdata.PlaceOfReceipt {
	return &masterdata.PlaceOfReceipt{NamedRecord: masterdata.NamedRecord{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Name: m.Name}}
}

// FromDomain populates the model from a domain PlaceOfReceipt
func (m *PlaceOfReceiptModel) FromDomain(d *masterdata.PlaceOfReceipt) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Name = d.Name
}

// TermsTemplateModel is the persistence model for terms-and-conditions templates
type TermsTemplateModel struct {
	BaseModel
	SoftDeleteModel
	Name        string `gorm:"type:varchar(150);not null;uniqueIndex:idx_terms_templates_name"`
	ContentHTML string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TermsTemplateModel) TableName() string { return "terms_templates" }

// ToDomain converts the model to a domain TermsTemplate
func (m *TermsTemplateModel) ToDomain() *masterdata.TermsTemplate {
	return &masterdata.TermsTemplate{Base: masterBase(m.BaseModel, m.SoftDeleteModel), Name: m.Name, ContentHTML: m.ContentHTML}
}

// FromDomain populates the model from a domain TermsTemplate
func (m *TermsTemplateModel) FromDomain(d *masterdata.TermsTemplate) {
	m.fromMaster(d.Base)
	m.SoftDeleteModel = softDeleteColumns(d.SoftDelete)
	m.Name = d.Name
	m.ContentHTML = d.ContentHTML
}

// MasterTables maps each master kind to its table
var MasterTables = map[masterdata.Kind]string{
	masterdata.KindCountry:           CountryModel{}.TableName(),
	masterdata.KindBank:              BankModel{}.TableName(),
	masterdata.KindExporter:          ExporterModel{}.TableName(),
	masterdata.KindConsignee:         ConsigneeModel{}.TableName(),
	masterdata.KindBuyer:             BuyerModel{}.TableName(),
	masterdata.KindRegisteredAddress: RegisteredAddressModel{}.TableName(),
	masterdata.KindPort:              PortModel{}.TableName(),
	masterdata.KindIncoterm:          IncotermModel{}.TableName(),
	masterdata.KindUOM:               UOMModel{}.TableName(),
	masterdata.KindPaymentTerm:       PaymentTermModel{}.TableName(),
	masterdata.KindPreCarriage:       PreCarriageModel{}.TableName(),
	masterdata.KindPlaceOfReceipt:    PlaceOfReceiptModel{}.TableName(),
	masterdata.KindTermsTemplate:     TermsTemplateModel{}.TableName(),
}

// MasterModels returns one instance of every master model for AutoMigrate
func MasterModels() []any {
	return []any{
		&CountryModel{}, &BankModel{}, &ExporterModel{}, &ConsigneeModel{}, &BuyerModel{},
		&RegisteredAddressModel{}, &PortModel{}, &IncotermModel{}, &UOMModel{},
		&PaymentTermModel{}, &PreCarriageModel{}, &PlaceOfReceiptModel{}, &TermsTemplateModel{},
	}
}
