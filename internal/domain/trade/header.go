package trade

import (
	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// MasterKind names a master-data table referenced from a document header
type MasterKind string

const (
	MasterCountry        MasterKind = "country"
	MasterBank           MasterKind = "bank"
	MasterExporter       MasterKind = "exporter"
	MasterConsignee      MasterKind = "consignee"
	MasterBuyer          MasterKind = "buyer"
	MasterPort           MasterKind = "port"
	MasterIncoterm       MasterKind = "incoterm"
	MasterPaymentTerm    MasterKind = "payment_term"
	MasterUOM            MasterKind = "uom"
	MasterPreCarriage    MasterKind = "pre_carriage"
	MasterPlaceOfReceipt MasterKind = "place_of_receipt"
	MasterTermsTemplate  MasterKind = "terms_template"
)

// MasterRef is a foreign key from a document header to a master record
type MasterRef struct {
	Field string
	Kind  MasterKind
	ID    uuid.UUID
}

func appendRef(refs []MasterRef, field string, kind MasterKind, id *uuid.UUID) []MasterRef {
	if id == nil || *id == uuid.Nil {
		return refs
	}
	return append(refs, MasterRef{Field: field, Kind: kind, ID: *id})
}

// Parties are the trading parties on a document
type Parties struct {
	ExporterID  uuid.UUID
	ConsigneeID uuid.UUID
	BuyerID     *uuid.UUID
}

func (p Parties) validate() error {
	if p.ExporterID == uuid.Nil {
		return shared.NewValidationError("exporter", "This field is required.")
	}
	if p.ConsigneeID == uuid.Nil {
		return shared.NewValidationError("consignee", "This field is required.")
	}
	return nil
}

func (p Parties) refs() []MasterRef {
	refs := []MasterRef{
		{Field: "exporter", Kind: MasterExporter, ID: p.ExporterID},
		{Field: "consignee", Kind: MasterConsignee, ID: p.ConsigneeID},
	}
	return appendRef(refs, "buyer", MasterBuyer, p.BuyerID)
}

// CommercialTerms reference the payment term and incoterm
type CommercialTerms struct {
	PaymentTermID *uuid.UUID
	IncotermID    *uuid.UUID
}

func (c CommercialTerms) refs() []MasterRef {
	refs := appendRef(nil, "payment_term", MasterPaymentTerm, c.PaymentTermID)
	return appendRef(refs, "incoterm", MasterIncoterm, c.IncotermID)
}

// Shipping holds the routing references shared by all documents
type Shipping struct {
	PreCarriageID                *uuid.UUID
	PlaceOfReceiptID             *uuid.UUID
	PlaceOfReceiptByPreCarrierID *uuid.UUID
	PortLoadingID                *uuid.UUID
	PortDischargeID              *uuid.UUID
	FinalDestinationID           *uuid.UUID
	VesselFlightNo               string
}

func (s Shipping) refs() []MasterRef {
	refs := appendRef(nil, "pre_carriage", MasterPreCarriage, s.PreCarriageID)
	refs = appendRef(refs, "place_of_receipt", MasterPlaceOfReceipt, s.PlaceOfReceiptID)
	refs = appendRef(refs, "place_of_receipt_by_pre_carrier", MasterPlaceOfReceipt, s.PlaceOfReceiptByPreCarrierID)
	refs = appendRef(refs, "port_loading", MasterPort, s.PortLoadingID)
	refs = appendRef(refs, "port_discharge", MasterPort, s.PortDischargeID)
	return appendRef(refs, "final_destination", MasterPort, s.FinalDestinationID)
}
