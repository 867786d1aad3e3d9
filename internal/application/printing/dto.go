package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/printing"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// PartyView is a trading party with its master references resolved to names
type PartyView struct {
	Name          string
	Address       string
	Country       string
	ContactPerson string
	PhoneNo       string
	Email         string
}

// BankView is the beneficiary bank block printed on invoices
type BankView struct {
	BeneficiaryName string
	BankName        string
	BranchName      string
	BranchAddress   string
	AccountNumber   string
	SwiftCode       string
}

// ShippingView holds the routing and terms block
type ShippingView struct {
	PaymentTerm                string
	Incoterm                   string
	PreCarriage                string
	PlaceOfReceipt             string
	PlaceOfReceiptByPreCarrier string
	PortOfLoading              string
	PortOfDischarge            string
	FinalDestination           string
	VesselFlightNo             string
}

// ReferenceView is one labelled header field such as "Buyer Order No."
type ReferenceView struct {
	Label string
	Value string
}

// LineView is one priced line of an invoice
type LineView struct {
	Position              int
	Description           string
	HSCode                string
	ItemCode              string
	PackagingDetails      string
	MarksAndNumbers       string
	PackagesNumberAndKind string
	Quantity              decimal.Decimal
	Unit                  string
	UnitPriceUSD          decimal.Decimal
	AmountUSD             decimal.Decimal
}

// ContainerItemView is one packed item of a packing list
type ContainerItemView struct {
	HSCode                string
	ItemCode              string
	PackagesNumberAndKind string
	Description           string
	Quantity              decimal.Decimal
	Unit                  string
	BatchDetails          string
	NetWeight             decimal.Decimal
	TareWeight            decimal.Decimal
	GrossWeight           decimal.Decimal
}

// ContainerView is one container of a packing list with its weights
type ContainerView struct {
	Reference       string
	MarksAndNumbers string
	Items           []ContainerItemView
	NetWeight       decimal.Decimal
	TareWeight      decimal.Decimal
	GrossWeight     decimal.Decimal
}

// DocumentView is everything a template needs to lay out one document
type DocumentView struct {
	Type       trade.DocumentType
	Variant    printing.Variant
	Title      string
	Number     string
	Date       time.Time
	Status     string
	Exporter   PartyView
	Consignee  PartyView
	Buyer      *PartyView
	Shipping   ShippingView
	Bank       *BankView
	References []ReferenceView

	Lines      []LineView
	Containers []ContainerView

	TotalAmountUSD   decimal.Decimal
	BankCharges      decimal.Decimal
	FOBRate          decimal.Decimal
	Freight          decimal.Decimal
	Insurance        decimal.Decimal
	GrandTotalUSD    decimal.Decimal
	TotalNetWeight   decimal.Decimal
	TotalGrossWeight decimal.Decimal

	LCDetails string
	// TermsHTML is stored by checkers in a terms template and printed verbatim
	TermsHTML string
}

// IsDraft reports whether the DRAFT watermark is printed
func (v *DocumentView) IsDraft() bool {
	return v.Variant == printing.VariantDraft
}

// PDFResult is a rendered document ready to be sent as an attachment
type PDFResult struct {
	FileName string
	Content  []byte
}

// ArchiveResponse represents an archived final rendering
type ArchiveResponse struct {
	ID             uuid.UUID `json:"id"`
	DocumentType   string    `json:"document_type"`
	DocumentID     uuid.UUID `json:"document_id"`
	DocumentNumber string    `json:"document_number"`
	Variant        string    `json:"variant"`
	StorageBackend string    `json:"storage_backend"`
	StorageKey     string    `json:"storage_key"`
	SizeBytes      int64     `json:"size_bytes"`
	RenderedBy     uuid.UUID `json:"rendered_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func toArchiveResponse(doc *printing.ArchivedDocument) ArchiveResponse {
	return ArchiveResponse{
		ID:             doc.ID,
		DocumentType:   string(doc.DocumentType),
		DocumentID:     doc.DocumentID,
		DocumentNumber: doc.DocumentNumber,
		Variant:        doc.Variant.String(),
		StorageBackend: doc.StorageBackend,
		StorageKey:     doc.StorageKey,
		SizeBytes:      doc.SizeBytes,
		RenderedBy:     doc.RenderedBy,
		CreatedAt:      doc.CreatedAt,
	}
}
