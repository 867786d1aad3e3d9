package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// PartiesColumns are the party references shared by every document header
type PartiesColumns struct {
	ExporterID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ConsigneeID uuid.UUID  `gorm:"type:uuid;not null;index"`
	BuyerID     *uuid.UUID `gorm:"type:uuid"`
}

func (c PartiesColumns) toDomain() trade.Parties {
	return trade.Parties{ExporterID: c.ExporterID, ConsigneeID: c.ConsigneeID, BuyerID: c.BuyerID}
}

func partiesColumns(p trade.Parties) PartiesColumns {
	return PartiesColumns{ExporterID: p.ExporterID, ConsigneeID: p.ConsigneeID, BuyerID: p.BuyerID}
}

// ShippingColumns are the routing references shared by every document header
type ShippingColumns struct {
	PaymentTermID                *uuid.UUID `gorm:"type:uuid"`
	IncotermID                   *uuid.UUID `gorm:"type:uuid"`
	PreCarriageID                *uuid.UUID `gorm:"type:uuid"`
	PlaceOfReceiptID             *uuid.UUID `gorm:"type:uuid"`
	PlaceOfReceiptByPreCarrierID *uuid.UUID `gorm:"type:uuid"`
	PortLoadingID                *uuid.UUID `gorm:"type:uuid"`
	PortDischargeID              *uuid.UUID `gorm:"type:uuid"`
	FinalDestinationID           *uuid.UUID `gorm:"type:uuid"`
	VesselFlightNo               string     `gorm:"type:varchar(64)"`
}

func (c ShippingColumns) toDomain() (trade.CommercialTerms, trade.Shipping) {
	return trade.CommercialTerms{PaymentTermID: c.PaymentTermID, IncotermID: c.IncotermID},
		trade.Shipping{
			PreCarriageID:                c.PreCarriageID,
			PlaceOfReceiptID:             c.PlaceOfReceiptID,
			PlaceOfReceiptByPreCarrierID: c.PlaceOfReceiptByPreCarrierID,
			PortLoadingID:                c.PortLoadingID,
			PortDischargeID:              c.PortDischargeID,
			FinalDestinationID:           c.FinalDestinationID,
			VesselFlightNo:               c.VesselFlightNo,
		}
}

func shippingColumns(t trade.CommercialTerms, s trade.Shipping) ShippingColumns {
	return ShippingColumns{
		PaymentTermID:                t.PaymentTermID,
		IncotermID:                   t.IncotermID,
		PreCarriageID:                s.PreCarriageID,
		PlaceOfReceiptID:             s.PlaceOfReceiptID,
		PlaceOfReceiptByPreCarrierID: s.PlaceOfReceiptByPreCarrierID,
		PortLoadingID:                s.PortLoadingID,
		PortDischargeID:              s.PortDischargeID,
		FinalDestinationID:           s.FinalDestinationID,
		VesselFlightNo:               s.VesselFlightNo,
	}
}

// WorkflowColumns track the maker/checker history of a document
type WorkflowColumns struct {
	MakerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	LastCheckerID *uuid.UUID `gorm:"type:uuid"`
	SubmittedAt   *time.Time
	ApprovedAt    *time.Time
}

// LineItemColumns are shared by proforma and commercial invoice lines
type LineItemColumns struct {
	BaseModel
	SoftDeleteModel
	InvoiceID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description           string          `gorm:"type:varchar(255);not null"`
	HSCode                string          `gorm:"type:varchar(50)"`
	ItemCode              string          `gorm:"type:varchar(50)"`
	PackagingDetails      string          `gorm:"type:varchar(255)"`
	MarksAndNumbers       string          `gorm:"type:varchar(255)"`
	PackagesNumberAndKind string          `gorm:"type:varchar(255)"`
	Quantity              decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Unit                  string          `gorm:"type:varchar(32)"`
	UnitID                *uuid.UUID      `gorm:"type:uuid"`
	UnitPriceUSD          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	AmountUSD             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

func (c *LineItemColumns) toDomain() trade.LineItem {
	return trade.LineItem{
		ID:                    c.ID,
		DocumentID:            c.InvoiceID,
		Description:           c.Description,
		HSCode:                c.HSCode,
		ItemCode:              c.ItemCode,
		PackagingDetails:      c.PackagingDetails,
		MarksAndNumbers:       c.MarksAndNumbers,
		PackagesNumberAndKind: c.PackagesNumberAndKind,
		Quantity:              c.Quantity,
		Unit:                  c.Unit,
		UnitID:                c.UnitID,
		UnitPriceUSD:          c.UnitPriceUSD,
		AmountUSD:             c.AmountUSD,
		SoftDelete:            c.SoftDeleteModel.softDelete(),
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func lineItemColumns(l trade.LineItem) LineItemColumns {
	return LineItemColumns{
		BaseModel:             BaseModel{ID: l.ID, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt},
		SoftDeleteModel:       softDeleteColumns(l.SoftDelete),
		InvoiceID:             l.DocumentID,
		Description:           l.Description,
		HSCode:                l.HSCode,
		ItemCode:              l.ItemCode,
		PackagingDetails:      l.PackagingDetails,
		MarksAndNumbers:       l.MarksAndNumbers,
		PackagesNumberAndKind: l.PackagesNumberAndKind,
		Quantity:              l.Quantity,
		Unit:                  l.Unit,
		UnitID:                l.UnitID,
		UnitPriceUSD:          l.UnitPriceUSD,
		AmountUSD:             l.AmountUSD,
	}
}

// ProformaInvoiceLineItemModel is a line of a proforma invoice
type ProformaInvoiceLineItemModel struct {
	LineItemColumns
}

// TableName returns the table name for GORM
func (ProformaInvoiceLineItemModel) TableName() string { return "proforma_invoice_line_items" }

// ProformaInvoiceModel is the persistence model for the ProformaInvoice aggregate root
type ProformaInvoiceModel struct {
	AggregateModel
	SoftDeleteModel
	Number string    `gorm:"type:varchar(32);uniqueIndex:idx_proforma_invoices_number"`
	Date   time.Time `gorm:"type:date;not null"`
	PartiesColumns
	ShippingColumns
	BankID                *uuid.UUID           `gorm:"type:uuid"`
	TermsTemplateID       *uuid.UUID           `gorm:"type:uuid"`
	TermsAndConditions    string               `gorm:"type:text"`
	BuyerOrderNo          string               `gorm:"type:varchar(64)"`
	BuyerOrderDate        *time.Time           `gorm:"type:date"`
	OtherReferences       string               `gorm:"type:text"`
	MarksAndNos           string               `gorm:"type:text"`
	ContainerNo           string               `gorm:"type:varchar(64)"`
	KindOfPackages        string               `gorm:"type:varchar(128)"`
	ValidityForAcceptance *time.Time           `gorm:"type:date"`
	ValidityForShipment   *time.Time           `gorm:"type:date"`
	PartialShipment       bool                 `gorm:"not null"`
	Transshipment         bool                 `gorm:"not null"`
	BankCharges           decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	Status                trade.ProformaStatus `gorm:"type:varchar(32);not null;index"`
	TotalAmountUSD        decimal.Decimal      `gorm:"type:decimal(14,2);not null"`
	WorkflowColumns
	ReworkedAt *time.Time
	LineItems  []ProformaInvoiceLineItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (ProformaInvoiceModel) TableName() string { return "proforma_invoices" }

// ToDomain converts the persistence model to a domain ProformaInvoice
func (m *ProformaInvoiceModel) ToDomain() *trade.ProformaInvoice {
	terms, shipping := m.ShippingColumns.toDomain()
	pi := &trade.ProformaInvoice{
		BaseAggregateRoot: m.AggregateModel.aggregate(),
		SoftDelete:        m.SoftDeleteModel.softDelete(),
		Number:            m.Number,
		ProformaInvoiceHeader: trade.ProformaInvoiceHeader{
			Date:                  m.Date,
			Parties:               m.PartiesColumns.toDomain(),
			CommercialTerms:       terms,
			Shipping:              shipping,
			BankID:                m.BankID,
			TermsTemplateID:       m.TermsTemplateID,
			TermsAndConditions:    m.TermsAndConditions,
			BuyerOrderNo:          m.BuyerOrderNo,
			BuyerOrderDate:        m.BuyerOrderDate,
			OtherReferences:       m.OtherReferences,
			MarksAndNos:           m.MarksAndNos,
			ContainerNo:           m.ContainerNo,
			KindOfPackages:        m.KindOfPackages,
			ValidityForAcceptance: m.ValidityForAcceptance,
			ValidityForShipment:   m.ValidityForShipment,
			PartialShipment:       m.PartialShipment,
			Transshipment:         m.Transshipment,
			BankCharges:           m.BankCharges,
		},
		Status:         m.Status,
		TotalAmountUSD: m.TotalAmountUSD,
		MakerID:        m.MakerID,
		LastCheckerID:  m.LastCheckerID,
		SubmittedAt:    m.SubmittedAt,
		ApprovedAt:     m.ApprovedAt,
		ReworkedAt:     m.ReworkedAt,
		LineItems:      make([]trade.LineItem, 0, len(m.LineItems)),
	}
	for i := range m.LineItems {
		pi.LineItems = append(pi.LineItems, m.LineItems[i].toDomain())
	}
	return pi
}

// FromDomain populates the persistence model from a domain ProformaInvoice
func (m *ProformaInvoiceModel) FromDomain(pi *trade.ProformaInvoice) {
	m.setAggregate(pi.BaseAggregateRoot)
	m.SoftDeleteModel = softDeleteColumns(pi.SoftDelete)
	m.Number = pi.Number
	h := pi.ProformaInvoiceHeader
	m.Date = h.Date
	m.PartiesColumns = partiesColumns(h.Parties)
	m.ShippingColumns = shippingColumns(h.CommercialTerms, h.Shipping)
	m.BankID = h.BankID
	m.TermsTemplateID = h.TermsTemplateID
	m.TermsAndConditions = h.TermsAndConditions
	m.BuyerOrderNo = h.BuyerOrderNo
	m.BuyerOrderDate = h.BuyerOrderDate
	m.OtherReferences = h.OtherReferences
	m.MarksAndNos = h.MarksAndNos
	m.ContainerNo = h.ContainerNo
	m.KindOfPackages = h.KindOfPackages
	m.ValidityForAcceptance = h.ValidityForAcceptance
	m.ValidityForShipment = h.ValidityForShipment
	m.PartialShipment = h.PartialShipment
	m.Transshipment = h.Transshipment
	m.BankCharges = h.BankCharges
	m.Status = pi.Status
	m.TotalAmountUSD = pi.TotalAmountUSD
	m.WorkflowColumns = WorkflowColumns{
		MakerID:       pi.MakerID,
		LastCheckerID: pi.LastCheckerID,
		SubmittedAt:   pi.SubmittedAt,
		ApprovedAt:    pi.ApprovedAt,
	}
	m.ReworkedAt = pi.ReworkedAt
	m.LineItems = make([]ProformaInvoiceLineItemModel, len(pi.LineItems))
	for i, l := range pi.LineItems {
		m.LineItems[i] = ProformaInvoiceLineItemModel{LineItemColumns: lineItemColumns(l)}
	}
}

// CommercialInvoiceLineItemModel is a line of a commercial invoice
type CommercialInvoiceLineItemModel struct {
	LineItemColumns
}

// TableName returns the table name for GORM
func (CommercialInvoiceLineItemModel) TableName() string { return "commercial_invoice_line_items" }

// CommercialInvoiceModel is the persistence model for the CommercialInvoice aggregate root
type CommercialInvoiceModel struct {
	AggregateModel
	SoftDeleteModel
	Number string    `gorm:"type:varchar(32);uniqueIndex:idx_commercial_invoices_number"`
	Date   time.Time `gorm:"type:date;not null"`
	PartiesColumns
	ShippingColumns
	BankID         uuid.UUID              `gorm:"type:uuid;not null"`
	PackingListID  *uuid.UUID             `gorm:"type:uuid;index"`
	FOBRate        decimal.Decimal        `gorm:"column:fob_rate;type:decimal(14,2);not null"`
	Freight        decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	Insurance      decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	LCDetails      string                 `gorm:"column:lc_details;type:text"`
	Status         trade.CommercialStatus `gorm:"type:varchar(32);not null;index"`
	TotalAmountUSD decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	WorkflowColumns
	RejectedAt *time.Time
	DisabledAt *time.Time
	LineItems  []CommercialInvoiceLineItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (CommercialInvoiceModel) TableName() string { return "commercial_invoices" }

// ToDomain converts the persistence model to a domain CommercialInvoice
func (m *CommercialInvoiceModel) ToDomain() *trade.CommercialInvoice {
	terms, shipping := m.ShippingColumns.toDomain()
	ci := &trade.CommercialInvoice{
		BaseAggregateRoot: m.AggregateModel.aggregate(),
		SoftDelete:        m.SoftDeleteModel.softDelete(),
		Number:            m.Number,
		CommercialInvoiceHeader: trade.CommercialInvoiceHeader{
			Date:            m.Date,
			Parties:         m.PartiesColumns.toDomain(),
			CommercialTerms: terms,
			Shipping:        shipping,
			BankID:          m.BankID,
			PackingListID:   m.PackingListID,
			FOBRate:         m.FOBRate,
			Freight:         m.Freight,
			Insurance:       m.Insurance,
			LCDetails:       m.LCDetails,
		},
		Status:         m.Status,
		TotalAmountUSD: m.TotalAmountUSD,
		MakerID:        m.MakerID,
		LastCheckerID:  m.LastCheckerID,
		SubmittedAt:    m.SubmittedAt,
		ApprovedAt:     m.ApprovedAt,
		RejectedAt:     m.RejectedAt,
		DisabledAt:     m.DisabledAt,
		LineItems:      make([]trade.LineItem, 0, len(m.LineItems)),
	}
	for i := range m.LineItems {
		ci.LineItems = append(ci.LineItems, m.LineItems[i].toDomain())
	}
	return ci
}

// FromDomain populates the persistence model from a domain CommercialInvoice
func (m *CommercialInvoiceModel) FromDomain(ci *trade.CommercialInvoice) {
	m.setAggregate(ci.BaseAggregateRoot)
	m.SoftDeleteModel = softDeleteColumns(ci.SoftDelete)
	m.Number = ci.Number
	h := ci.CommercialInvoiceHeader
	m.Date = h.Date
	m.PartiesColumns = partiesColumns(h.Parties)
	m.ShippingColumns = shippingColumns(h.CommercialTerms, h.Shipping)
	m.BankID = h.BankID
	m.PackingListID = h.PackingListID
	m.FOBRate = h.FOBRate
	m.Freight = h.Freight
	m.Insurance = h.Insurance
	m.LCDetails = h.LCDetails
	m.Status = ci.Status
	m.TotalAmountUSD = ci.TotalAmountUSD
	m.WorkflowColumns = WorkflowColumns{
		MakerID:       ci.MakerID,
		LastCheckerID: ci.LastCheckerID,
		SubmittedAt:   ci.SubmittedAt,
		ApprovedAt:    ci.ApprovedAt,
	}
	m.RejectedAt = ci.RejectedAt
	m.DisabledAt = ci.DisabledAt
	m.LineItems = make([]CommercialInvoiceLineItemModel, len(ci.LineItems))
	for i, l := range ci.LineItems {
		m.LineItems[i] = CommercialInvoiceLineItemModel{LineItemColumns: lineItemColumns(l)}
	}
}

// ContainerItemModel is an item packed in a packing-list container
type ContainerItemModel struct {
	BaseModel
	SoftDeleteModel
	ContainerID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position              int             `gorm:"not null"`
	HSCode                string          `gorm:"type:varchar(50)"`
	ItemCode              string          `gorm:"type:varchar(50);index"`
	PackagesNumberAndKind string          `gorm:"type:varchar(255)"`
	DescriptionOfGoods    string          `gorm:"type:text"`
	Quantity              decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UOMID                 *uuid.UUID      `gorm:"column:uom_id;type:uuid"`
	BatchDetails          string          `gorm:"type:text"`
	NetWeight             decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	TareWeight            decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	GrossWeight           decimal.Decimal `gorm:"type:decimal(14,3);not null"`
}

// TableName returns the table name for GORM
func (ContainerItemModel) TableName() string { return "packing_list_container_items" }

// ContainerModel is a container of a packing list
type ContainerModel struct {
	BaseModel
	SoftDeleteModel
	PackingListID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	Position           int                  `gorm:"not null"`
	ContainerReference string               `gorm:"type:varchar(64)"`
	MarksAndNumbers    string               `gorm:"type:text"`
	NetWeight          decimal.Decimal      `gorm:"type:decimal(14,3);not null"`
	TareWeight         decimal.Decimal      `gorm:"type:decimal(14,3);not null"`
	GrossWeight        decimal.Decimal      `gorm:"type:decimal(14,3);not null"`
	Items              []ContainerItemModel `gorm:"foreignKey:ContainerID;references:ID"`
}

// TableName returns the table name for GORM
func (ContainerModel) TableName() string { return "packing_list_containers" }

// PackingListModel is the persistence model for the PackingList aggregate root
type PackingListModel struct {
	AggregateModel
	SoftDeleteModel
	Number        string    `gorm:"type:varchar(32);uniqueIndex:idx_packing_lists_number"`
	InvoiceNumber string    `gorm:"type:varchar(64)"`
	Date          time.Time `gorm:"type:date;not null"`
	PartiesColumns
	ShippingColumns
	ProformaInvoiceID         *uuid.UUID              `gorm:"type:uuid;index"`
	NotifyParty               string                  `gorm:"type:text"`
	PONumber                  string                  `gorm:"column:po_number;type:varchar(64)"`
	PODate                    *time.Time              `gorm:"column:po_date;type:date"`
	LCNumber                  string                  `gorm:"column:lc_number;type:varchar(64)"`
	LCDate                    *time.Time              `gorm:"column:lc_date;type:date"`
	BLNumber                  string                  `gorm:"column:bl_number;type:varchar(64)"`
	BLDate                    *time.Time              `gorm:"column:bl_date;type:date"`
	SONumber                  string                  `gorm:"column:so_number;type:varchar(64)"`
	SODate                    *time.Time              `gorm:"column:so_date;type:date"`
	OtherRef                  string                  `gorm:"type:varchar(128)"`
	OtherRefDate              *time.Time              `gorm:"type:date"`
	OriginCountryID           *uuid.UUID              `gorm:"type:uuid"`
	FinalDestinationCountryID *uuid.UUID              `gorm:"type:uuid"`
	Status                    trade.PackingListStatus `gorm:"type:varchar(32);not null;index"`
	WorkflowColumns
	ReworkedAt            *time.Time
	PermanentlyRejectedAt *time.Time
	Containers            []ContainerModel `gorm:"foreignKey:PackingListID;references:ID"`
}

// TableName returns the table name for GORM
func (PackingListModel) TableName() string { return "packing_lists" }

// ToDomain converts the persistence model to a domain PackingList
func (m *PackingListModel) ToDomain() *trade.PackingList {
	terms, shipping := m.ShippingColumns.toDomain()
	pl := &trade.PackingList{
		BaseAggregateRoot: m.AggregateModel.aggregate(),
		SoftDelete:        m.SoftDeleteModel.softDelete(),
		Number:            m.Number,
		PackingListHeader: trade.PackingListHeader{
			InvoiceNumber:             m.InvoiceNumber,
			Date:                      m.Date,
			Parties:                   m.PartiesColumns.toDomain(),
			CommercialTerms:           terms,
			Shipping:                  shipping,
			ProformaInvoiceID:         m.ProformaInvoiceID,
			NotifyParty:               m.NotifyParty,
			PONumber:                  m.PONumber,
			PODate:                    m.PODate,
			LCNumber:                  m.LCNumber,
			LCDate:                    m.LCDate,
			BLNumber:                  m.BLNumber,
			BLDate:                    m.BLDate,
			SONumber:                  m.SONumber,
			SODate:                    m.SODate,
			OtherRef:                  m.OtherRef,
			OtherRefDate:              m.OtherRefDate,
			OriginCountryID:           m.OriginCountryID,
			FinalDestinationCountryID: m.FinalDestinationCountryID,
		},
		Status:                m.Status,
		MakerID:               m.MakerID,
		LastCheckerID:         m.LastCheckerID,
		SubmittedAt:           m.SubmittedAt,
		ApprovedAt:            m.ApprovedAt,
		ReworkedAt:            m.ReworkedAt,
		PermanentlyRejectedAt: m.PermanentlyRejectedAt,
		Containers:            make([]trade.Container, 0, len(m.Containers)),
	}
	for _, c := range m.Containers {
		container := trade.Container{
			ID:                 c.ID,
			PackingListID:      c.PackingListID,
			Position:           c.Position,
			ContainerReference: c.ContainerReference,
			MarksAndNumbers:    c.MarksAndNumbers,
			NetWeight:          c.NetWeight,
			TareWeight:         c.TareWeight,
			GrossWeight:        c.GrossWeight,
			SoftDelete:         c.SoftDeleteModel.softDelete(),
			CreatedAt:          c.CreatedAt,
			UpdatedAt:          c.UpdatedAt,
			Items:              make([]trade.ContainerItem, 0, len(c.Items)),
		}
		for _, it := range c.Items {
			container.Items = append(container.Items, trade.ContainerItem{
				ID:                    it.ID,
				ContainerID:           it.ContainerID,
				Position:              it.Position,
				HSCode:                it.HSCode,
				ItemCode:              it.ItemCode,
				PackagesNumberAndKind: it.PackagesNumberAndKind,
				DescriptionOfGoods:    it.DescriptionOfGoods,
				Quantity:              it.Quantity,
				UOMID:                 it.UOMID,
				BatchDetails:          it.BatchDetails,
				NetWeight:             it.NetWeight,
				TareWeight:            it.TareWeight,
				GrossWeight:           it.GrossWeight,
				SoftDelete:            it.SoftDeleteModel.softDelete(),
				CreatedAt:             it.CreatedAt,
				UpdatedAt:             it.UpdatedAt,
			})
		}
		pl.Containers = append(pl.Containers, container)
	}
	return pl
}

// FromDomain populates the persistence model from a domain PackingList.
// Containers and items are flattened by the repository, not attached here.
func (m *PackingListModel) FromDomain(pl *trade.PackingList) {
	m.setAggregate(pl.BaseAggregateRoot)
	m.SoftDeleteModel = softDeleteColumns(pl.SoftDelete)
	m.Number = pl.Number
	h := pl.PackingListHeader
	m.InvoiceNumber = h.InvoiceNumber
	m.Date = h.Date
	m.PartiesColumns = partiesColumns(h.Parties)
	m.ShippingColumns = shippingColumns(h.CommercialTerms, h.Shipping)
	m.ProformaInvoiceID = h.ProformaInvoiceID
	m.NotifyParty = h.NotifyParty
	m.PONumber = h.PONumber
	m.PODate = h.PODate
	m.LCNumber = h.LCNumber
	m.LCDate = h.LCDate
	m.BLNumber = h.BLNumber
	m.BLDate = h.BLDate
	m.SONumber = h.SONumber
	m.SODate = h.SODate
	m.OtherRef = h.OtherRef
	m.OtherRefDate = h.OtherRefDate
	m.OriginCountryID = h.OriginCountryID
	m.FinalDestinationCountryID = h.FinalDestinationCountryID
	m.Status = pl.Status
	m.WorkflowColumns = WorkflowColumns{
		MakerID:       pl.MakerID,
		LastCheckerID: pl.LastCheckerID,
		SubmittedAt:   pl.SubmittedAt,
		ApprovedAt:    pl.ApprovedAt,
	}
	m.ReworkedAt = pl.ReworkedAt
	m.PermanentlyRejectedAt = pl.PermanentlyRejectedAt
}

// ContainerModelsFromDomain flattens the containers and their items
func ContainerModelsFromDomain(pl *trade.PackingList) ([]ContainerModel, []ContainerItemModel) {
	containers := make([]ContainerModel, 0, len(pl.Containers))
	var items []ContainerItemModel
	for _, c := range pl.Containers {
		containers = append(containers, ContainerModel{
			BaseModel:          BaseModel{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
			SoftDeleteModel:    softDeleteColumns(c.SoftDelete),
			PackingListID:      pl.ID,
			Position:           c.Position,
			ContainerReference: c.ContainerReference,
			MarksAndNumbers:    c.MarksAndNumbers,
			NetWeight:          c.NetWeight,
			TareWeight:         c.TareWeight,
			GrossWeight:        c.GrossWeight,
		})
		for _, it := range c.Items {
			items = append(items, ContainerItemModel{
				BaseModel:             BaseModel{ID: it.ID, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt},
				SoftDeleteModel:       softDeleteColumns(it.SoftDelete),
				ContainerID:           c.ID,
				Position:              it.Position,
				HSCode:                it.HSCode,
				ItemCode:              it.ItemCode,
				PackagesNumberAndKind: it.PackagesNumberAndKind,
				DescriptionOfGoods:    it.DescriptionOfGoods,
				Quantity:              it.Quantity,
				UOMID:                 it.UOMID,
				BatchDetails:          it.BatchDetails,
				NetWeight:             it.NetWeight,
				TareWeight:            it.TareWeight,
				GrossWeight:           it.GrossWeight,
			})
		}
	}
	return containers, items
}

// DocumentAuditTrailModel is one insert-only audit row
type DocumentAuditTrailModel struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key"`
	DocumentType trade.DocumentType `gorm:"type:varchar(32);not null;index:idx_audit_document,priority:1"`
	DocumentID   uuid.UUID          `gorm:"type:uuid;not null;index:idx_audit_document,priority:2"`
	Action       trade.AuditAction  `gorm:"type:varchar(32);not null"`
	ActorID      uuid.UUID          `gorm:"type:uuid;not null"`
	ActorName    string             `gorm:"type:varchar(150)"`
	Timestamp    time.Time          `gorm:"not null;index"`
	Notes        string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DocumentAuditTrailModel) TableName() string { return "document_audit_trails" }

// ToDomain converts the model to a domain AuditEntry
func (m *DocumentAuditTrailModel) ToDomain() trade.AuditEntry {
	return trade.AuditEntry{
		ID:           m.ID,
		DocumentType: m.DocumentType,
		DocumentID:   m.DocumentID,
		Action:       m.Action,
		ActorID:      m.ActorID,
		ActorName:    m.ActorName,
		Timestamp:    m.Timestamp,
		Notes:        m.Notes,
	}
}

// AuditTrailModelFromDomain builds an audit row from a domain entry
func AuditTrailModelFromDomain(e trade.AuditEntry) DocumentAuditTrailModel {
	return DocumentAuditTrailModel{
		ID:           e.ID,
		DocumentType: e.DocumentType,
		DocumentID:   e.DocumentID,
		Action:       e.Action,
		ActorID:      e.ActorID,
		ActorName:    e.ActorName,
		Timestamp:    e.Timestamp,
		Notes:        e.Notes,
	}
}

// DocumentSequenceModel is the per-prefix numbering counter
type DocumentSequenceModel struct {
	Prefix    string `gorm:"type:varchar(32);primary_key"`
	LastValue int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string { return "document_sequences" }

// TradeModels returns one instance of every trade model for AutoMigrate
func TradeModels() []any {
	return []any{
		&ProformaInvoiceModel{}, &ProformaInvoiceLineItemModel{},
		&PackingListModel{}, &ContainerModel{}, &ContainerItemModel{},
		&CommercialInvoiceModel{}, &CommercialInvoiceLineItemModel{},
		&DocumentAuditTrailModel{}, &DocumentSequenceModel{},
	}
}
