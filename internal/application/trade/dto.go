package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// ListFilter is the query accepted by document list endpoints
type ListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Status   string `form:"status"`
}

// PartiesRequest references the trading parties of a document
type PartiesRequest struct {
	ExporterID  uuid.UUID  `json:"exporter"`
	ConsigneeID uuid.UUID  `json:"consignee"`
	BuyerID     *uuid.UUID `json:"buyer"`
}

func (p PartiesRequest) toDomain() trade.Parties {
	return trade.Parties{ExporterID: p.ExporterID, ConsigneeID: p.ConsigneeID, BuyerID: p.BuyerID}
}

// ShippingRequest carries the routing block shared by every document
type ShippingRequest struct {
	PaymentTermID                *uuid.UUID `json:"payment_term"`
	IncotermID                   *uuid.UUID `json:"incoterm"`
	PreCarriageID                *uuid.UUID `json:"pre_carriage"`
	PlaceOfReceiptID             *uuid.UUID `json:"place_of_receipt"`
	PlaceOfReceiptByPreCarrierID *uuid.UUID `json:"place_of_receipt_by_pre_carrier"`
	PortLoadingID                *uuid.UUID `json:"port_loading"`
	PortDischargeID              *uuid.UUID `json:"port_discharge"`
	FinalDestinationID           *uuid.UUID `json:"final_destination"`
	VesselFlightNo               string     `json:"vessel_flight_no" binding:"max=100"`
}

func (s ShippingRequest) terms() trade.CommercialTerms {
	return trade.CommercialTerms{PaymentTermID: s.PaymentTermID, IncotermID: s.IncotermID}
}

func (s ShippingRequest) shipping() trade.Shipping {
	return trade.Shipping{
		PreCarriageID:                s.PreCarriageID,
		PlaceOfReceiptID:             s.PlaceOfReceiptID,
		PlaceOfReceiptByPreCarrierID: s.PlaceOfReceiptByPreCarrierID,
		PortLoadingID:                s.PortLoadingID,
		PortDischargeID:              s.PortDischargeID,
		FinalDestinationID:           s.FinalDestinationID,
		VesselFlightNo:               s.VesselFlightNo,
	}
}

// LineItemRequest creates or patches an invoice line. Omitted fields are
// left unchanged on patch.
type LineItemRequest struct {
	Description           *string          `json:"description"`
	HSCode                *string          `json:"hs_code" binding:"omitempty,max=50"`
	ItemCode              *string          `json:"item_code" binding:"omitempty,max=100"`
	PackagingDetails      *string          `json:"packaging_details"`
	MarksAndNumbers       *string          `json:"marks_and_numbers"`
	PackagesNumberAndKind *string          `json:"packages_number_and_kind"`
	Quantity              *decimal.Decimal `json:"quantity"`
	Unit                  *string          `json:"unit" binding:"omitempty,max=20"`
	UnitID                *uuid.UUID       `json:"unit_id"`
	UnitPriceUSD          *decimal.Decimal `json:"unit_price_usd"`
}

// ToInput converts the request into a domain line input
func (r LineItemRequest) ToInput() trade.LineItemInput {
	return trade.LineItemInput{
		Description:           r.Description,
		HSCode:                r.HSCode,
		ItemCode:              r.ItemCode,
		PackagingDetails:      r.PackagingDetails,
		MarksAndNumbers:       r.MarksAndNumbers,
		PackagesNumberAndKind: r.PackagesNumberAndKind,
		Quantity:              r.Quantity,
		Unit:                  r.Unit,
		UnitID:                r.UnitID,
		UnitPriceUSD:          r.UnitPriceUSD,
	}
}

// LineItemResponse is a priced invoice line
type LineItemResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Description           string          `json:"description"`
	HSCode                string          `json:"hs_code"`
	ItemCode              string          `json:"item_code"`
	PackagingDetails      string          `json:"packaging_details,omitempty"`
	MarksAndNumbers       string          `json:"marks_and_numbers,omitempty"`
	PackagesNumberAndKind string          `json:"packages_number_and_kind,omitempty"`
	Quantity              decimal.Decimal `json:"quantity"`
	Unit                  string          `json:"unit"`
	UnitID                *uuid.UUID      `json:"unit_id,omitempty"`
	UnitPriceUSD          decimal.Decimal `json:"unit_price_usd"`
	AmountUSD             decimal.Decimal `json:"amount_usd"`
	IsActive              bool            `json:"is_active"`
	DeactivatedAt         *time.Time      `json:"deactivated_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ToLineItemResponse maps a domain line
func ToLineItemResponse(l *trade.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:                    l.ID,
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
		IsActive:              l.IsActive,
		DeactivatedAt:         l.DeactivatedAt,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

func toLineItemResponses(lines []trade.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(lines))
	for i := range lines {
		out[i] = ToLineItemResponse(&lines[i])
	}
	return out
}

// LineItemResult is returned by line-item mutations together with the new total
type LineItemResult struct {
	Item           LineItemResponse `json:"item"`
	TotalAmountUSD decimal.Decimal  `json:"total_amount_usd"`
}

// RejectRequest carries the checker's rework comments
type RejectRequest struct {
	Notes string `json:"notes"`
}

// AuditEntryResponse is one audit trail row
type AuditEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actor"`
	ActorName string    `json:"actor_name"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

func toAuditResponses(entries []trade.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			ID:        e.ID,
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			ActorName: e.ActorName,
			Timestamp: e.Timestamp,
			Notes:     e.Notes,
		}
	}
	return out
}

// WorkflowResponse carries the fields common to every document response
type WorkflowResponse struct {
	ID            uuid.UUID  `json:"id"`
	Number        string     `json:"number"`
	Status        string     `json:"status"`
	MakerID       uuid.UUID  `json:"created_by"`
	LastCheckerID *uuid.UUID `json:"last_checker,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	IsActive      bool       `json:"is_active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ShippingResponse mirrors ShippingRequest
type ShippingResponse struct {
	ExporterID                   uuid.UUID  `json:"exporter"`
	ConsigneeID                  uuid.UUID  `json:"consignee"`
	BuyerID                      *uuid.UUID `json:"buyer,omitempty"`
	PaymentTermID                *uuid.UUID `json:"payment_term,omitempty"`
	IncotermID                   *uuid.UUID `json:"incoterm,omitempty"`
	PreCarriageID                *uuid.UUID `json:"pre_carriage,omitempty"`
	PlaceOfReceiptID             *uuid.UUID `json:"place_of_receipt,omitempty"`
	PlaceOfReceiptByPreCarrierID *uuid.UUID `json:"place_of_receipt_by_pre_carrier,omitempty"`
	PortLoadingID                *uuid.UUID `json:"port_loading,omitempty"`
	PortDischargeID              *uuid.UUID `json:"port_discharge,omitempty"`
	FinalDestinationID           *uuid.UUID `json:"final_destination,omitempty"`
	VesselFlightNo               string     `json:"vessel_flight_no"`
}

func toShippingResponse(p trade.Parties, c trade.CommercialTerms, s trade.Shipping) ShippingResponse {
	return ShippingResponse{
		ExporterID:                   p.ExporterID,
		ConsigneeID:                  p.ConsigneeID,
		BuyerID:                      p.BuyerID,
		PaymentTermID:                c.PaymentTermID,
		IncotermID:                   c.IncotermID,
		PreCarriageID:                s.PreCarriageID,
		PlaceOfReceiptID:             s.PlaceOfReceiptID,
		PlaceOfReceiptByPreCarrierID: s.PlaceOfReceiptByPreCarrierID,
		PortLoadingID:                s.PortLoadingID,
		PortDischargeID:              s.PortDischargeID,
		FinalDestinationID:           s.FinalDestinationID,
		VesselFlightNo:               s.VesselFlightNo,
	}
}

// ---------------------------------------------------------------------------
// Proforma invoice
// ---------------------------------------------------------------------------

// ProformaInvoiceRequest creates or replaces a proforma invoice header
type ProformaInvoiceRequest struct {
	Date *Date `json:"date"`
	PartiesRequest
	ShippingRequest
	BankID                *uuid.UUID        `json:"bank"`
	TermsTemplateID       *uuid.UUID        `json:"terms_and_conditions_template"`
	TermsAndConditions    string            `json:"terms_and_conditions"`
	BuyerOrderNo          string            `json:"buyer_order_no" binding:"max=100"`
	BuyerOrderDate        *Date             `json:"buyer_order_date"`
	OtherReferences       string            `json:"other_references" binding:"max=255"`
	MarksAndNos           string            `json:"marks_and_nos"`
	ContainerNo           string            `json:"container_no" binding:"max=100"`
	KindOfPackages        string            `json:"kind_of_packages" binding:"max=255"`
	ValidityForAcceptance *Date             `json:"validity_for_acceptance"`
	ValidityForShipment   *Date             `json:"validity_for_shipment"`
	PartialShipment       bool              `json:"partial_shipment"`
	Transshipment         bool              `json:"transshipment"`
	BankCharges           *decimal.Decimal  `json:"bank_charges"`
	LineItems             []LineItemRequest `json:"line_items" binding:"dive"`
}

// ToHeader converts the request into a domain header
func (r ProformaInvoiceRequest) ToHeader() trade.ProformaInvoiceHeader {
	charges := decimal.Zero
	if r.BankCharges != nil {
		charges = *r.BankCharges
	}
	return trade.ProformaInvoiceHeader{
		Date:                  timeOrZero(r.Date),
		Parties:               r.PartiesRequest.toDomain(),
		CommercialTerms:       r.ShippingRequest.terms(),
		Shipping:              r.ShippingRequest.shipping(),
		BankID:                r.BankID,
		TermsTemplateID:       r.TermsTemplateID,
		TermsAndConditions:    r.TermsAndConditions,
		BuyerOrderNo:          r.BuyerOrderNo,
		BuyerOrderDate:        timePtr(r.BuyerOrderDate),
		OtherReferences:       r.OtherReferences,
		MarksAndNos:           r.MarksAndNos,
		ContainerNo:           r.ContainerNo,
		KindOfPackages:        r.KindOfPackages,
		ValidityForAcceptance: timePtr(r.ValidityForAcceptance),
		ValidityForShipment:   timePtr(r.ValidityForShipment),
		PartialShipment:       r.PartialShipment,
		Transshipment:         r.Transshipment,
		BankCharges:           charges,
	}
}

// ProformaInvoiceResponse is the full proforma invoice representation
type ProformaInvoiceResponse struct {
	WorkflowResponse
	Date Date `json:"date"`
	ShippingResponse
	BankID                *uuid.UUID         `json:"bank,omitempty"`
	TermsTemplateID       *uuid.UUID         `json:"terms_and_conditions_template,omitempty"`
	TermsAndConditions    string             `json:"terms_and_conditions"`
	BuyerOrderNo          string             `json:"buyer_order_no"`
	BuyerOrderDate        *Date              `json:"buyer_order_date,omitempty"`
	OtherReferences       string             `json:"other_references"`
	MarksAndNos           string             `json:"marks_and_nos"`
	ContainerNo           string             `json:"container_no"`
	KindOfPackages        string             `json:"kind_of_packages"`
	ValidityForAcceptance *Date              `json:"validity_for_acceptance,omitempty"`
	ValidityForShipment   *Date              `json:"validity_for_shipment,omitempty"`
	PartialShipment       bool               `json:"partial_shipment"`
	Transshipment         bool               `json:"transshipment"`
	BankCharges           decimal.Decimal    `json:"bank_charges"`
	TotalAmountUSD        decimal.Decimal    `json:"total_amount_usd"`
	ReworkedAt            *time.Time         `json:"reworked_at,omitempty"`
	LineItems             []LineItemResponse `json:"line_items"`
}

// ToProformaInvoiceResponse maps a domain proforma invoice with its active lines
func ToProformaInvoiceResponse(p *trade.ProformaInvoice) ProformaInvoiceResponse {
	return ProformaInvoiceResponse{
		WorkflowResponse: WorkflowResponse{
			ID:            p.ID,
			Number:        p.Number,
			Status:        string(p.Status),
			MakerID:       p.MakerID,
			LastCheckerID: p.LastCheckerID,
			SubmittedAt:   p.SubmittedAt,
			ApprovedAt:    p.ApprovedAt,
			IsActive:      p.IsActive,
			DeactivatedAt: p.DeactivatedAt,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		},
		Date:                  NewDate(p.Date),
		ShippingResponse:      toShippingResponse(p.Parties, p.CommercialTerms, p.Shipping),
		BankID:                p.BankID,
		TermsTemplateID:       p.TermsTemplateID,
		TermsAndConditions:    p.TermsAndConditions,
		BuyerOrderNo:          p.BuyerOrderNo,
		BuyerOrderDate:        DatePtr(p.BuyerOrderDate),
		OtherReferences:       p.OtherReferences,
		MarksAndNos:           p.MarksAndNos,
		ContainerNo:           p.ContainerNo,
		KindOfPackages:        p.KindOfPackages,
		ValidityForAcceptance: DatePtr(p.ValidityForAcceptance),
		ValidityForShipment:   DatePtr(p.ValidityForShipment),
		PartialShipment:       p.PartialShipment,
		Transshipment:         p.Transshipment,
		BankCharges:           p.BankCharges,
		TotalAmountUSD:        p.TotalAmountUSD,
		ReworkedAt:            p.ReworkedAt,
		LineItems:             toLineItemResponses(p.ActiveLineItems()),
	}
}

// ---------------------------------------------------------------------------
// Packing list
// ---------------------------------------------------------------------------

// ContainerItemRequest is one packed item. Items with an id update the
// existing item; items without one are created.
type ContainerItemRequest struct {
	ID                    *uuid.UUID      `json:"id"`
	HSCode                string          `json:"hs_code" binding:"max=50"`
	ItemCode              string          `json:"item_code" binding:"max=100"`
	PackagesNumberAndKind string          `json:"packages_number_and_kind" binding:"max=255"`
	DescriptionOfGoods    string          `json:"description_of_goods"`
	Quantity              decimal.Decimal `json:"quantity"`
	UOMID                 *uuid.UUID      `json:"uom"`
	BatchDetails          string          `json:"batch_details"`
	NetWeight             decimal.Decimal `json:"net_weight"`
	TareWeight            decimal.Decimal `json:"tare_weight"`
}

// ContainerRequest is one container with its items
type ContainerRequest struct {
	ID                 *uuid.UUID             `json:"id"`
	ContainerReference string                 `json:"container_reference" binding:"max=100"`
	MarksAndNumbers    string                 `json:"marks_and_numbers"`
	Items              []ContainerItemRequest `json:"items" binding:"dive"`
}

// PackingListRequest creates or replaces a packing list with its containers
type PackingListRequest struct {
	InvoiceNumber string `json:"invoice_number" binding:"max=100"`
	Date          *Date  `json:"date"`
	PartiesRequest
	ShippingRequest
	ProformaInvoiceID         *uuid.UUID         `json:"proforma_invoice"`
	NotifyParty               string             `json:"notify_party"`
	PONumber                  string             `json:"po_number" binding:"max=100"`
	PODate                    *Date              `json:"po_date"`
	LCNumber                  string             `json:"lc_number" binding:"max=100"`
	LCDate                    *Date              `json:"lc_date"`
	BLNumber                  string             `json:"bl_number" binding:"max=100"`
	BLDate                    *Date              `json:"bl_date"`
	SONumber                  string             `json:"so_number" binding:"max=100"`
	SODate                    *Date              `json:"so_date"`
	OtherRef                  string             `json:"other_ref" binding:"max=255"`
	OtherRefDate              *Date              `json:"other_ref_date"`
	OriginCountryID           *uuid.UUID         `json:"origin_country"`
	FinalDestinationCountryID *uuid.UUID         `json:"final_destination_country"`
	Containers                []ContainerRequest `json:"containers" binding:"dive"`
}

// ToHeader converts the request into a domain header
func (r PackingListRequest) ToHeader() trade.PackingListHeader {
	return trade.PackingListHeader{
		InvoiceNumber:             r.InvoiceNumber,
		Date:                      timeOrZero(r.Date),
		Parties:                   r.PartiesRequest.toDomain(),
		CommercialTerms:           r.ShippingRequest.terms(),
		Shipping:                  r.ShippingRequest.shipping(),
		ProformaInvoiceID:         r.ProformaInvoiceID,
		NotifyParty:               r.NotifyParty,
		PONumber:                  r.PONumber,
		PODate:                    timePtr(r.PODate),
		LCNumber:                  r.LCNumber,
		LCDate:                    timePtr(r.LCDate),
		BLNumber:                  r.BLNumber,
		BLDate:                    timePtr(r.BLDate),
		SONumber:                  r.SONumber,
		SODate:                    timePtr(r.SODate),
		OtherRef:                  r.OtherRef,
		OtherRefDate:              timePtr(r.OtherRefDate),
		OriginCountryID:           r.OriginCountryID,
		FinalDestinationCountryID: r.FinalDestinationCountryID,
	}
}

// ToContainers converts the nested payload into domain inputs
func (r PackingListRequest) ToContainers() []trade.ContainerInput {
	out := make([]trade.ContainerInput, len(r.Containers))
	for i, c := range r.Containers {
		items := make([]trade.ContainerItemInput, len(c.Items))
		for j, it := range c.Items {
			items[j] = trade.ContainerItemInput{
				ID:                    it.ID,
				HSCode:                it.HSCode,
				ItemCode:              it.ItemCode,
				PackagesNumberAndKind: it.PackagesNumberAndKind,
				DescriptionOfGoods:    it.DescriptionOfGoods,
				Quantity:              it.Quantity,
				UOMID:                 it.UOMID,
				BatchDetails:          it.BatchDetails,
				NetWeight:             it.NetWeight,
				TareWeight:            it.TareWeight,
			}
		}
		out[i] = trade.ContainerInput{
			ID:                 c.ID,
			ContainerReference: c.ContainerReference,
			MarksAndNumbers:    c.MarksAndNumbers,
			Items:              items,
		}
	}
	return out
}

// ContainerItemResponse is one packed item
type ContainerItemResponse struct {
	ID                    uuid.UUID       `json:"id"`
	HSCode                string          `json:"hs_code"`
	ItemCode              string          `json:"item_code"`
	PackagesNumberAndKind string          `json:"packages_number_and_kind"`
	DescriptionOfGoods    string          `json:"description_of_goods"`
	Quantity              decimal.Decimal `json:"quantity"`
	UOMID                 *uuid.UUID      `json:"uom,omitempty"`
	BatchDetails          string          `json:"batch_details"`
	NetWeight             decimal.Decimal `json:"net_weight"`
	TareWeight            decimal.Decimal `json:"tare_weight"`
	GrossWeight           decimal.Decimal `json:"gross_weight"`
}

// ContainerResponse is one container with its active items
type ContainerResponse struct {
	ID                 uuid.UUID               `json:"id"`
	ContainerReference string                  `json:"container_reference"`
	MarksAndNumbers    string                  `json:"marks_and_numbers"`
	NetWeight          decimal.Decimal         `json:"net_weight"`
	TareWeight         decimal.Decimal         `json:"tare_weight"`
	GrossWeight        decimal.Decimal         `json:"gross_weight"`
	Items              []ContainerItemResponse `json:"items"`
}

// PackingListResponse is the full packing list representation
type PackingListResponse struct {
	WorkflowResponse
	InvoiceNumber string `json:"invoice_number"`
	Date          Date   `json:"date"`
	ShippingResponse
	ProformaInvoiceID         *uuid.UUID          `json:"proforma_invoice,omitempty"`
	NotifyParty               string              `json:"notify_party"`
	PONumber                  string              `json:"po_number"`
	PODate                    *Date               `json:"po_date,omitempty"`
	LCNumber                  string              `json:"lc_number"`
	LCDate                    *Date               `json:"lc_date,omitempty"`
	BLNumber                  string              `json:"bl_number"`
	BLDate                    *Date               `json:"bl_date,omitempty"`
	SONumber                  string              `json:"so_number"`
	SODate                    *Date               `json:"so_date,omitempty"`
	OtherRef                  string              `json:"other_ref"`
	OtherRefDate              *Date               `json:"other_ref_date,omitempty"`
	OriginCountryID           *uuid.UUID          `json:"origin_country,omitempty"`
	FinalDestinationCountryID *uuid.UUID          `json:"final_destination_country,omitempty"`
	ReworkedAt                *time.Time          `json:"reworked_at,omitempty"`
	PermanentlyRejectedAt     *time.Time          `json:"permanently_rejected_at,omitempty"`
	TotalNetWeight            decimal.Decimal     `json:"total_net_weight"`
	TotalGrossWeight          decimal.Decimal     `json:"total_gross_weight"`
	Containers                []ContainerResponse `json:"containers"`
}

// ToPackingListResponse maps a domain packing list with its active containers
func ToPackingListResponse(p *trade.PackingList) PackingListResponse {
	resp := PackingListResponse{
		WorkflowResponse: WorkflowResponse{
			ID:            p.ID,
			Number:        p.Number,
			Status:        string(p.Status),
			MakerID:       p.MakerID,
			LastCheckerID: p.LastCheckerID,
			SubmittedAt:   p.SubmittedAt,
			ApprovedAt:    p.ApprovedAt,
			IsActive:      p.IsActive,
			DeactivatedAt: p.DeactivatedAt,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		},
		InvoiceNumber:             p.InvoiceNumber,
		Date:                      NewDate(p.Date),
		ShippingResponse:          toShippingResponse(p.Parties, p.CommercialTerms, p.Shipping),
		ProformaInvoiceID:         p.ProformaInvoiceID,
		NotifyParty:               p.NotifyParty,
		PONumber:                  p.PONumber,
		PODate:                    DatePtr(p.PODate),
		LCNumber:                  p.LCNumber,
		LCDate:                    DatePtr(p.LCDate),
		BLNumber:                  p.BLNumber,
		BLDate:                    DatePtr(p.BLDate),
		SONumber:                  p.SONumber,
		SODate:                    DatePtr(p.SODate),
		OtherRef:                  p.OtherRef,
		OtherRefDate:              DatePtr(p.OtherRefDate),
		OriginCountryID:           p.OriginCountryID,
		FinalDestinationCountryID: p.FinalDestinationCountryID,
		ReworkedAt:                p.ReworkedAt,
		PermanentlyRejectedAt:     p.PermanentlyRejectedAt,
		TotalNetWeight:            decimal.Zero,
		TotalGrossWeight:          decimal.Zero,
		Containers:                make([]ContainerResponse, 0, len(p.Containers)),
	}
	for _, c := range p.ActiveContainers() {
		cr := ContainerResponse{
			ID:                 c.ID,
			ContainerReference: c.ContainerReference,
			MarksAndNumbers:    c.MarksAndNumbers,
			NetWeight:          c.NetWeight,
			TareWeight:         c.TareWeight,
			GrossWeight:        c.GrossWeight,
			Items:              make([]ContainerItemResponse, 0, len(c.Items)),
		}
		for _, it := range c.ActiveItems() {
			cr.Items = append(cr.Items, ContainerItemResponse{
				ID:                    it.ID,
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
		resp.TotalNetWeight = resp.TotalNetWeight.Add(c.NetWeight)
		resp.TotalGrossWeight = resp.TotalGrossWeight.Add(c.GrossWeight)
		resp.Containers = append(resp.Containers, cr)
	}
	return resp
}

// ---------------------------------------------------------------------------
// Commercial invoice
// ---------------------------------------------------------------------------

// CommercialInvoiceRequest creates or replaces a commercial invoice header
type CommercialInvoiceRequest struct {
	Date *Date `json:"date"`
	PartiesRequest
	ShippingRequest
	BankID        uuid.UUID         `json:"bank"`
	PackingListID *uuid.UUID        `json:"packing_list"`
	FOBRate       *decimal.Decimal  `json:"fob_rate"`
	Freight       *decimal.Decimal  `json:"freight"`
	Insurance     *decimal.Decimal  `json:"insurance"`
	LCDetails     string            `json:"lc_details"`
	LineItems     []LineItemRequest `json:"line_items" binding:"dive"`
}

// ToHeader converts the request into a domain header
func (r CommercialInvoiceRequest) ToHeader() trade.CommercialInvoiceHeader {
	return trade.CommercialInvoiceHeader{
		Date:            timeOrZero(r.Date),
		Parties:         r.PartiesRequest.toDomain(),
		CommercialTerms: r.ShippingRequest.terms(),
		Shipping:        r.ShippingRequest.shipping(),
		BankID:          r.BankID,
		PackingListID:   r.PackingListID,
		FOBRate:         decimalOrZero(r.FOBRate),
		Freight:         decimalOrZero(r.Freight),
		Insurance:       decimalOrZero(r.Insurance),
		LCDetails:       r.LCDetails,
	}
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// CommercialInvoiceResponse is the full commercial invoice representation
type CommercialInvoiceResponse struct {
	WorkflowResponse
	Date Date `json:"date"`
	ShippingResponse
	BankID         uuid.UUID          `json:"bank"`
	PackingListID  *uuid.UUID         `json:"packing_list,omitempty"`
	FOBRate        decimal.Decimal    `json:"fob_rate"`
	Freight        decimal.Decimal    `json:"freight"`
	Insurance      decimal.Decimal    `json:"insurance"`
	LCDetails      string             `json:"lc_details"`
	TotalAmountUSD decimal.Decimal    `json:"total_amount_usd"`
	GrandTotalUSD  decimal.Decimal    `json:"grand_total_usd"`
	RejectedAt     *time.Time         `json:"rejected_at,omitempty"`
	DisabledAt     *time.Time         `json:"disabled_at,omitempty"`
	LineItems      []LineItemResponse `json:"line_items"`
}

// ToCommercialInvoiceResponse maps a domain commercial invoice with its active lines
func ToCommercialInvoiceResponse(c *trade.CommercialInvoice) CommercialInvoiceResponse {
	return CommercialInvoiceResponse{
		WorkflowResponse: WorkflowResponse{
			ID:            c.ID,
			Number:        c.Number,
			Status:        string(c.Status),
			MakerID:       c.MakerID,
			LastCheckerID: c.LastCheckerID,
			SubmittedAt:   c.SubmittedAt,
			ApprovedAt:    c.ApprovedAt,
			IsActive:      c.IsActive,
			DeactivatedAt: c.DeactivatedAt,
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		},
		Date:             NewDate(c.Date),
		ShippingResponse: toShippingResponse(c.Parties, c.CommercialTerms, c.Shipping),
		BankID:           c.BankID,
		PackingListID:    c.PackingListID,
		FOBRate:          c.FOBRate,
		Freight:          c.Freight,
		Insurance:        c.Insurance,
		LCDetails:        c.LCDetails,
		TotalAmountUSD:   c.TotalAmountUSD,
		GrandTotalUSD:    c.GrandTotal(),
		RejectedAt:       c.RejectedAt,
		DisabledAt:       c.DisabledAt,
		LineItems:        toLineItemResponses(c.ActiveLineItems()),
	}
}

// ---------------------------------------------------------------------------
// Aggregation
// ---------------------------------------------------------------------------

// AggregatedLineResponse is one proposed commercial-invoice line
type AggregatedLineResponse struct {
	HSCode                string          `json:"hs_code"`
	ItemCode              string          `json:"item_code"`
	Description           string          `json:"description"`
	PackagesNumberAndKind string          `json:"packages_number_and_kind"`
	Quantity              decimal.Decimal `json:"quantity"`
	UnitID                *uuid.UUID      `json:"unit_id"`
	Unit                  string          `json:"unit"`
	RateLabel             string          `json:"rate_label"`
	ContainerIDs          []uuid.UUID     `json:"container_ids"`
}

// AggregationResponse is the proposal built from an approved packing list
type AggregationResponse struct {
	PackingListID     uuid.UUID                `json:"packing_list_id"`
	PackingListNumber string                   `json:"packing_list_number"`
	ExporterID        uuid.UUID                `json:"exporter"`
	ConsigneeID       uuid.UUID                `json:"consignee"`
	BuyerID           *uuid.UUID               `json:"buyer,omitempty"`
	PaymentTermID     *uuid.UUID               `json:"payment_term,omitempty"`
	IncotermID        *uuid.UUID               `json:"incoterm,omitempty"`
	Lines             []AggregatedLineResponse `json:"lines"`
}

// GroupPrice prices one aggregated group, keyed by item code and unit
type GroupPrice struct {
	ItemCode     string          `json:"item_code"`
	UnitID       *uuid.UUID      `json:"unit_id"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd"`
}

// CreateFromPackingListRequest turns an approved packing list into a draft commercial invoice
type CreateFromPackingListRequest struct {
	PackingListID uuid.UUID        `json:"packing_list_id" binding:"required"`
	BankID        uuid.UUID        `json:"bank_id" binding:"required"`
	Date          *Date            `json:"date"`
	FOBRate       *decimal.Decimal `json:"fob_rate"`
	Freight       *decimal.Decimal `json:"freight"`
	Insurance     *decimal.Decimal `json:"insurance"`
	LCDetails     string           `json:"lc_details"`
	Prices        []GroupPrice     `json:"prices"`
}

// ApprovedPackingListResponse is a packing list offered for invoicing
type ApprovedPackingListResponse struct {
	ID            uuid.UUID  `json:"id"`
	Number        string     `json:"number"`
	InvoiceNumber string     `json:"invoice_number"`
	Date          Date       `json:"date"`
	ConsigneeID   uuid.UUID  `json:"consignee"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
}
