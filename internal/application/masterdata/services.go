package masterdata

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"go.uber.org/zap"
)

// Type aliases keep handler signatures readable
type (
	CountryService           = Service[masterdata.Country, *masterdata.Country, CountryResponse]
	BankService              = Service[masterdata.Bank, *masterdata.Bank, BankResponse]
	ExporterService          = Service[masterdata.Exporter, *masterdata.Exporter, PartyResponse]
	ConsigneeService         = Service[masterdata.Consignee, *masterdata.Consignee, PartyResponse]
	BuyerService             = Service[masterdata.Buyer, *masterdata.Buyer, PartyResponse]
	RegisteredAddressService = Service[masterdata.RegisteredAddress, *masterdata.RegisteredAddress, RegisteredAddressResponse]
	PortService              = Service[masterdata.Port, *masterdata.Port, PortResponse]
	IncotermService          = Service[masterdata.Incoterm, *masterdata.Incoterm, CodedResponse]
	UOMService               = Service[masterdata.UOM, *masterdata.UOM, CodedResponse]
	PaymentTermService       = Service[masterdata.PaymentTerm, *masterdata.PaymentTerm, NamedResponse]
	PreCarriageService       = Service[masterdata.PreCarriage, *masterdata.PreCarriage, NamedResponse]
	PlaceOfReceiptService    = Service[masterdata.PlaceOfReceipt, *masterdata.PlaceOfReceipt, NamedResponse]
	TermsTemplateService     = Service[masterdata.TermsTemplate, *masterdata.TermsTemplate, TermsTemplateResponse]
)

// ApprovedConsigneeSource lists consignees that have an approved packing list
type ApprovedConsigneeSource interface {
	ApprovedConsigneeIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Services bundles one service per master kind
type Services struct {
	Countries           *CountryService
	Banks               *BankService
	Exporters           *ExporterService
	Consignees          *ConsigneeService
	Buyers              *BuyerService
	RegisteredAddresses *RegisteredAddressService
	Ports               *PortService
	Incoterms           *IncotermService
	UOMs                *UOMService
	PaymentTerms        *PaymentTermService
	PreCarriages        *PreCarriageService
	PlacesOfReceipt     *PlaceOfReceiptService
	TermsTemplates      *TermsTemplateService

	consignees masterdata.Repository[masterdata.Consignee]
	approved   ApprovedConsigneeSource
}

// NewServices creates the master data services
func NewServices(repos *masterdata.Repositories, refs masterdata.ReferenceChecker, approved ApprovedConsigneeSource, log *zap.Logger) *Services {
	return &Services{
		Countries:           NewService[masterdata.Country, *masterdata.Country](masterdata.KindCountry, repos.Countries, refs, ToCountryResponse, log),
		Banks:               NewService[masterdata.Bank, *masterdata.Bank](masterdata.KindBank, repos.Banks, refs, ToBankResponse, log),
		Exporters:           NewService[masterdata.Exporter, *masterdata.Exporter](masterdata.KindExporter, repos.Exporters, refs, ToExporterResponse, log),
		Consignees:          NewService[masterdata.Consignee, *masterdata.Consignee](masterdata.KindConsignee, repos.Consignees, refs, ToConsigneeResponse, log),
		Buyers:              NewService[masterdata.Buyer, *masterdata.Buyer](masterdata.KindBuyer, repos.Buyers, refs, ToBuyerResponse, log),
		RegisteredAddresses: NewService[masterdata.RegisteredAddress, *masterdata.RegisteredAddress](masterdata.KindRegisteredAddress, repos.RegisteredAddresses, refs, ToRegisteredAddressResponse, log),
		Ports:               NewService[masterdata.Port, *masterdata.Port](masterdata.KindPort, repos.Ports, refs, ToPortResponse, log),
		Incoterms:           NewService[masterdata.Incoterm, *masterdata.Incoterm](masterdata.KindIncoterm, repos.Incoterms, refs, ToIncotermResponse, log),
		UOMs:                NewService[masterdata.UOM, *masterdata.UOM](masterdata.KindUOM, repos.UOMs, refs, ToUOMResponse, log),
		PaymentTerms:        NewService[masterdata.PaymentTerm, *masterdata.PaymentTerm](masterdata.KindPaymentTerm, repos.PaymentTerms, refs, ToPaymentTermResponse, log),
		PreCarriages:        NewService[masterdata.PreCarriage, *masterdata.PreCarriage](masterdata.KindPreCarriage, repos.PreCarriages, refs, ToPreCarriageResponse, log),
		PlacesOfReceipt:     NewService[masterdata.PlaceOfReceipt, *masterdata.PlaceOfReceipt](masterdata.KindPlaceOfReceipt, repos.PlacesOfReceipt, refs, ToPlaceOfReceiptResponse, log),
		TermsTemplates:      NewService[masterdata.TermsTemplate, *masterdata.TermsTemplate](masterdata.KindTermsTemplate, repos.TermsTemplates, refs, ToTermsTemplateResponse, log),
		consignees:          repos.Consignees,
		approved:            approved,
	}
}

// ConsigneesWithApprovedPackingLists returns the active consignees that can be
// invoiced from a packing list, sorted by name
func (s *Services) ConsigneesWithApprovedPackingLists(ctx context.Context) ([]PartyResponse, error) {
	ids, err := s.approved.ApprovedConsigneeIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []PartyResponse{}, nil
	}
	consignees, err := s.consignees.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(consignees, func(i, j int) bool {
		return strings.ToLower(consignees[i].Name) < strings.ToLower(consignees[j].Name)
	})

	out := make([]PartyResponse, len(consignees))
	for i := range consignees {
		out[i] = ToConsigneeResponse(&consignees[i])
	}
	return out, nil
}
