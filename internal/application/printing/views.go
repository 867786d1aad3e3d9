package printing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/printing"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
)

// resolver turns master ids on a document into printable names.
// Inactive masters still resolve so old documents keep printing.
type resolver struct {
	masters *masterdata.Repositories
}

func lookup[T any](ctx context.Context, repo masterdata.Repository[T], id *uuid.UUID) (*T, error) {
	if repo == nil || id == nil || *id == uuid.Nil {
		return nil, nil
	}
	record, err := repo.FindByIDIncludingInactive(ctx, *id)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r resolver) country(ctx context.Context, id *uuid.UUID) (string, error) {
	c, err := lookup(ctx, r.masters.Countries, id)
	if err != nil || c == nil {
		return "", err
	}
	return c.Name, nil
}

func (r resolver) party(ctx context.Context, details *masterdata.PartyDetails) (PartyView, error) {
	if details == nil {
		return PartyView{}, nil
	}
	country, err := r.country(ctx, &details.CountryID)
	if err != nil {
		return PartyView{}, err
	}
	return PartyView{
		Name:          details.Name,
		Address:       details.Address,
		Country:       country,
		ContactPerson: details.ContactPerson,
		PhoneNo:       details.PhoneNo,
		Email:         details.Email,
	}, nil
}

func (r resolver) parties(ctx context.Context, p trade.Parties, view *DocumentView) error {
	exporter, err := lookup(ctx, r.masters.Exporters, &p.ExporterID)
	if err != nil {
		return err
	}
	consignee, err := lookup(ctx, r.masters.Consignees, &p.ConsigneeID)
	if err != nil {
		return err
	}
	buyer, err := lookup(ctx, r.masters.Buyers, p.BuyerID)
	if err != nil {
		return err
	}

	if exporter != nil {
		if view.Exporter, err = r.party(ctx, &exporter.PartyDetails); err != nil {
			return err
		}
	}
	if consignee != nil {
		if view.Consignee, err = r.party(ctx, &consignee.PartyDetails); err != nil {
			return err
		}
	}
	if buyer != nil {
		b, err := r.party(ctx, &buyer.PartyDetails)
		if err != nil {
			return err
		}
		view.Buyer = &b
	}
	return nil
}

func (r resolver) bank(ctx context.Context, id *uuid.UUID) (*BankView, error) {
	b, err := lookup(ctx, r.masters.Banks, id)
	if err != nil || b == nil {
		return nil, err
	}
	return &BankView{
		BeneficiaryName: b.BeneficiaryName,
		BankName:        b.BankName,
		BranchName:      b.BranchName,
		BranchAddress:   b.BranchAddress,
		AccountNumber:   b.AccountNumber,
		SwiftCode:       b.SwiftCode,
	}, nil
}

func (r resolver) port(ctx context.Context, id *uuid.UUID) (string, error) {
	p, err := lookup(ctx, r.masters.Ports, id)
	if err != nil || p == nil {
		return "", err
	}
	return p.Name, nil
}

func (r resolver) shipping(ctx context.Context, terms trade.CommercialTerms, s trade.Shipping) (ShippingView, error) {
	view := ShippingView{VesselFlightNo: s.VesselFlightNo}

	if pt, err := lookup(ctx, r.masters.PaymentTerms, terms.PaymentTermID); err != nil {
		return view, err
	} else if pt != nil {
		view.PaymentTerm = pt.Name
	}
	if inc, err := lookup(ctx, r.masters.Incoterms, terms.IncotermID); err != nil {
		return view, err
	} else if inc != nil {
		view.Incoterm = inc.Code
	}
	if pc, err := lookup(ctx, r.masters.PreCarriages, s.PreCarriageID); err != nil {
		return view, err
	} else if pc != nil {
		view.PreCarriage = pc.Name
	}
	if por, err := lookup(ctx, r.masters.PlacesOfReceipt, s.PlaceOfReceiptID); err != nil {
		return view, err
	} else if por != nil {
		view.PlaceOfReceipt = por.Name
	}
	if por, err := lookup(ctx, r.masters.PlacesOfReceipt, s.PlaceOfReceiptByPreCarrierID); err != nil {
		return view, err
	} else if por != nil {
		view.PlaceOfReceiptByPreCarrier = por.Name
	}

	var err error
	if view.PortOfLoading, err = r.port(ctx, s.PortLoadingID); err != nil {
		return view, err
	}
	if view.PortOfDischarge, err = r.port(ctx, s.PortDischargeID); err != nil {
		return view, err
	}
	if view.FinalDestination, err = r.port(ctx, s.FinalDestinationID); err != nil {
		return view, err
	}
	return view, nil
}

// unitCodes resolves UOM ids to codes in one query
func (r resolver) unitCodes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 || r.masters.UOMs == nil {
		return out, nil
	}
	units, err := r.masters.UOMs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		out[u.ID] = u.Code
	}
	return out, nil
}

func (r resolver) termsHTML(ctx context.Context, id *uuid.UUID, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	t, err := lookup(ctx, r.masters.TermsTemplates, id)
	if err != nil || t == nil {
		return "", err
	}
	return t.ContentHTML, nil
}

func lineViews(lines []trade.LineItem) []LineView {
	out := make([]LineView, len(lines))
	for i, l := range lines {
		out[i] = LineView{
			Position:              i + 1,
			Description:           l.Description,
			HSCode:                l.HSCode,
			ItemCode:              l.ItemCode,
			PackagingDetails:      l.PackagingDetails,
			MarksAndNumbers:       l.MarksAndNumbers,
			PackagesNumberAndKind: l.PackagesNumberAndKind,
			Quantity:              l.Quantity,
			Unit:                  l.Unit,
			UnitPriceUSD:          l.UnitPriceUSD,
			AmountUSD:             l.AmountUSD,
		}
	}
	return out
}

func addRef(refs []ReferenceView, label, value string) []ReferenceView {
	if strings.TrimSpace(value) == "" {
		return refs
	}
	return append(refs, ReferenceView{Label: label, Value: value})
}

func addDateRef(refs []ReferenceView, label string, t *time.Time) []ReferenceView {
	if t == nil || t.IsZero() {
		return refs
	}
	return append(refs, ReferenceView{Label: label, Value: t.Format("02-01-2006")})
}

func yesNo(b bool) string {
	if b {
		return "Allowed"
	}
	return "Not Allowed"
}

func title(docType trade.DocumentType) string {
	return strings.ToUpper(docType.Label())
}

func (r resolver) proformaView(ctx context.Context, pi *trade.ProformaInvoice) (*DocumentView, error) {
	view := &DocumentView{
		Type:           trade.DocumentTypeProformaInvoice,
		Variant:        printing.VariantFinal,
		Title:          title(trade.DocumentTypeProformaInvoice),
		Number:         pi.Number,
		Date:           pi.Date,
		Status:         string(pi.Status),
		Lines:          lineViews(pi.ActiveLineItems()),
		TotalAmountUSD: pi.TotalAmountUSD,
		BankCharges:    pi.BankCharges,
		GrandTotalUSD:  pi.TotalAmountUSD,
	}
	if err := r.parties(ctx, pi.Parties, view); err != nil {
		return nil, err
	}
	var err error
	if view.Shipping, err = r.shipping(ctx, pi.CommercialTerms, pi.Shipping); err != nil {
		return nil, err
	}
	if view.Bank, err = r.bank(ctx, pi.BankID); err != nil {
		return nil, err
	}
	if view.TermsHTML, err = r.termsHTML(ctx, pi.TermsTemplateID, pi.TermsAndConditions); err != nil {
		return nil, err
	}

	refs := addRef(nil, "Buyer Order No.", pi.BuyerOrderNo)
	refs = addDateRef(refs, "Buyer Order Date", pi.BuyerOrderDate)
	refs = addRef(refs, "Other References", pi.OtherReferences)
	refs = addRef(refs, "Marks & Nos.", pi.MarksAndNos)
	refs = addRef(refs, "Container No.", pi.ContainerNo)
	refs = addRef(refs, "Kind of Packages", pi.KindOfPackages)
	refs = addDateRef(refs, "Validity for Acceptance", pi.ValidityForAcceptance)
	refs = addDateRef(refs, "Validity for Shipment", pi.ValidityForShipment)
	refs = addRef(refs, "Partial Shipment", yesNo(pi.PartialShipment))
	view.References = addRef(refs, "Transshipment", yesNo(pi.Transshipment))
	return view, nil
}

func (r resolver) packingListView(ctx context.Context, pl *trade.PackingList) (*DocumentView, error) {
	view := &DocumentView{
		Type:             trade.DocumentTypePackingList,
		Variant:          printing.VariantFinal,
		Title:            title(trade.DocumentTypePackingList),
		Number:           pl.Number,
		Date:             pl.Date,
		Status:           string(pl.Status),
		TotalNetWeight:   decimal.Zero,
		TotalGrossWeight: decimal.Zero,
	}
	if err := r.parties(ctx, pl.Parties, view); err != nil {
		return nil, err
	}
	var err error
	if view.Shipping, err = r.shipping(ctx, pl.CommercialTerms, pl.Shipping); err != nil {
		return nil, err
	}

	containers := pl.ActiveContainers()
	var unitIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for i := range containers {
		for _, item := range containers[i].ActiveItems() {
			if item.UOMID != nil && !seen[*item.UOMID] {
				seen[*item.UOMID] = true
				unitIDs = append(unitIDs, *item.UOMID)
			}
		}
	}
	units, err := r.unitCodes(ctx, unitIDs)
	if err != nil {
		return nil, err
	}

	view.Containers = make([]ContainerView, len(containers))
	for i := range containers {
		c := &containers[i]
		cv := ContainerView{
			Reference:       c.ContainerReference,
			MarksAndNumbers: c.MarksAndNumbers,
			NetWeight:       c.NetWeight,
			TareWeight:      c.TareWeight,
			GrossWeight:     c.GrossWeight,
		}
		for _, item := range c.ActiveItems() {
			unit := ""
			if item.UOMID != nil {
				unit = units[*item.UOMID]
			}
			cv.Items = append(cv.Items, ContainerItemView{
				HSCode:                item.HSCode,
				ItemCode:              item.ItemCode,
				PackagesNumberAndKind: item.PackagesNumberAndKind,
				Description:           item.DescriptionOfGoods,
				Quantity:              item.Quantity,
				Unit:                  unit,
				BatchDetails:          item.BatchDetails,
				NetWeight:             item.NetWeight,
				TareWeight:            item.TareWeight,
				GrossWeight:           item.GrossWeight,
			})
		}
		view.Containers[i] = cv
		view.TotalNetWeight = view.TotalNetWeight.Add(c.NetWeight)
		view.TotalGrossWeight = view.TotalGrossWeight.Add(c.GrossWeight)
	}

	origin, err := r.country(ctx, pl.OriginCountryID)
	if err != nil {
		return nil, err
	}
	destination, err := r.country(ctx, pl.FinalDestinationCountryID)
	if err != nil {
		return nil, err
	}

	refs := addRef(nil, "Invoice No.", pl.InvoiceNumber)
	refs = addRef(refs, "Notify Party", pl.NotifyParty)
	refs = addRef(refs, "P.O. No.", pl.PONumber)
	refs = addDateRef(refs, "P.O. Date", pl.PODate)
	refs = addRef(refs, "L/C No.", pl.LCNumber)
	refs = addDateRef(refs, "L/C Date", pl.LCDate)
	refs = addRef(refs, "B/L No.", pl.BLNumber)
	refs = addDateRef(refs, "B/L Date", pl.BLDate)
	refs = addRef(refs, "S/O No.", pl.SONumber)
	refs = addDateRef(refs, "S/O Date", pl.SODate)
	refs = addRef(refs, "Other Reference", pl.OtherRef)
	refs = addDateRef(refs, "Other Reference Date", pl.OtherRefDate)
	refs = addRef(refs, "Country of Origin of Goods", origin)
	view.References = addRef(refs, "Country of Final Destination", destination)
	return view, nil
}

func (r resolver) commercialView(ctx context.Context, ci *trade.CommercialInvoice, variant printing.Variant) (*DocumentView, error) {
	view := &DocumentView{
		Type:           trade.DocumentTypeCommercialInvoice,
		Variant:        variant,
		Title:          title(trade.DocumentTypeCommercialInvoice),
		Number:         ci.Number,
		Date:           ci.Date,
		Status:         string(ci.Status),
		Lines:          lineViews(ci.ActiveLineItems()),
		TotalAmountUSD: ci.TotalAmountUSD,
		FOBRate:        ci.FOBRate,
		Freight:        ci.Freight,
		Insurance:      ci.Insurance,
		GrandTotalUSD:  ci.GrandTotal(),
		LCDetails:      ci.LCDetails,
	}
	if err := r.parties(ctx, ci.Parties, view); err != nil {
		return nil, err
	}
	var err error
	if view.Shipping, err = r.shipping(ctx, ci.CommercialTerms, ci.Shipping); err != nil {
		return nil, err
	}
	bankID := ci.BankID
	if view.Bank, err = r.bank(ctx, &bankID); err != nil {
		return nil, err
	}
	return view, nil
}
