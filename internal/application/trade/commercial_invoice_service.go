package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CommercialInvoiceService handles commercial invoice use cases, including
// building an invoice from an approved packing list
type CommercialInvoiceService struct {
	repo         trade.CommercialInvoiceRepository
	packingLists trade.PackingListRepository
	audit        trade.AuditTrailRepository
	units        masterdata.Repository[masterdata.UOM]
	refs         masterdata.ReferenceChecker
	logger       *zap.Logger
}

// NewCommercialInvoiceService creates a new CommercialInvoiceService
func NewCommercialInvoiceService(
	repo trade.CommercialInvoiceRepository,
	packingLists trade.PackingListRepository,
	audit trade.AuditTrailRepository,
	units masterdata.Repository[masterdata.UOM],
	refs masterdata.ReferenceChecker,
	log *zap.Logger,
) *CommercialInvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommercialInvoiceService{
		repo:         repo,
		packingLists: packingLists,
		audit:        audit,
		units:        units,
		refs:         refs,
		logger:       log,
	}
}

// List returns active commercial invoices matching the filter
func (s *CommercialInvoiceService) List(ctx context.Context, filter ListFilter) ([]CommercialInvoiceResponse, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", "List")
	defer span.End()

	domainFilter := toDomainFilter(filter)
	invoices, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	out := make([]CommercialInvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToCommercialInvoiceResponse(&invoices[i])
	}
	return out, total, nil
}

// GetByID returns an active commercial invoice
func (s *CommercialInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*CommercialInvoiceResponse, error) {
	ci, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCommercialInvoiceResponse(ci)
	return &resp, nil
}

// Create drafts a commercial invoice by hand
func (s *CommercialInvoiceService) Create(ctx context.Context, actor trade.Actor, req CommercialInvoiceRequest) (*CommercialInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", "Create", telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	header := req.ToHeader()
	ci, err := trade.NewCommercialInvoice(actor, header)
	if err != nil {
		return nil, err
	}
	if err := s.validateHeader(ctx, header); err != nil {
		return nil, err
	}
	for i, line := range req.LineItems {
		if _, err := ci.AddLineItem(actor, line.ToInput()); err != nil {
			return nil, lineItemField(i, err)
		}
	}
	if err := s.repo.Save(ctx, ci); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.log(ctx, ci).Info("Commercial invoice created")
	resp := ToCommercialInvoiceResponse(ci)
	return &resp, nil
}

// Update replaces the header of an editable commercial invoice
func (s *CommercialInvoiceService) Update(ctx context.Context, actor trade.Actor, id uuid.UUID, req CommercialInvoiceRequest) (*CommercialInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", "Update", telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	ci, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	header := req.ToHeader()
	if err := ci.Update(actor, header); err != nil {
		return nil, err
	}
	if err := s.validateHeader(ctx, header); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ci); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToCommercialInvoiceResponse(ci)
	return &resp, nil
}

// Submit sends the invoice for approval
func (s *CommercialInvoiceService) Submit(ctx context.Context, actor trade.Actor, id uuid.UUID) (*CommercialInvoiceResponse, error) {
	return s.transition(ctx, actor, id, "Submit", func(ci *trade.CommercialInvoice) error {
		return ci.Submit(actor)
	})
}

// Approve approves a pending or rejected invoice
func (s *CommercialInvoiceService) Approve(ctx context.Context, actor trade.Actor, id uuid.UUID) (*CommercialInvoiceResponse, error) {
	return s.transition(ctx, actor, id, "Approve", func(ci *trade.CommercialInvoice) error {
		return ci.Approve(actor)
	})
}

// Reject rejects a pending invoice; notes are mandatory
func (s *CommercialInvoiceService) Reject(ctx context.Context, actor trade.Actor, id uuid.UUID, req RejectRequest) (*CommercialInvoiceResponse, error) {
	return s.transition(ctx, actor, id, "Reject", func(ci *trade.CommercialInvoice) error {
		return ci.Reject(actor, req.Notes)
	})
}

// Disable retires an approved invoice; the invoice becomes read-only
func (s *CommercialInvoiceService) Disable(ctx context.Context, actor trade.Actor, id uuid.UUID) (*CommercialInvoiceResponse, error) {
	return s.transition(ctx, actor, id, "Disable", func(ci *trade.CommercialInvoice) error {
		return ci.Disable(actor)
	})
}

// Deactivate soft-deletes the invoice. Deactivating an inactive invoice is a no-op.
func (s *CommercialInvoiceService) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*CommercialInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", "Deactivate", telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	ci, err := s.repo.FindByIDIncludingInactive(ctx, id)
	if err != nil {
		return nil, docNotFound(err, trade.DocumentTypeCommercialInvoice)
	}
	changed, err := ci.Deactivate(actor)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.repo.Save(ctx, ci); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.log(ctx, ci).Info("Commercial invoice deactivated")
	}
	resp := ToCommercialInvoiceResponse(ci)
	return &resp, nil
}

// AuditTrail returns the invoice's audit entries newest first
func (s *CommercialInvoiceService) AuditTrail(ctx context.Context, id uuid.UUID) ([]AuditEntryResponse, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByDocument(ctx, trade.DocumentTypeCommercialInvoice, id)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(entries), nil
}

// ListLineItems returns the active lines of an invoice
func (s *CommercialInvoiceService) ListLineItems(ctx context.Context, id uuid.UUID) ([]LineItemResponse, error) {
	ci, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLineItemResponses(ci.ActiveLineItems()), nil
}

// AddLineItem appends a line and recomputes the invoice total
func (s *CommercialInvoiceService) AddLineItem(ctx context.Context, actor trade.Actor, id uuid.UUID, req LineItemRequest) (*LineItemResult, error) {
	return s.lineItemOp(ctx, id, "AddLineItem", func(ci *trade.CommercialInvoice) (*trade.LineItem, error) {
		return ci.AddLineItem(actor, req.ToInput())
	})
}

// UpdateLineItem patches an active line and recomputes the invoice total
func (s *CommercialInvoiceService) UpdateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID, req LineItemRequest) (*LineItemResult, error) {
	return s.lineItemOp(ctx, id, "UpdateLineItem", func(ci *trade.CommercialInvoice) (*trade.LineItem, error) {
		return ci.UpdateLineItem(actor, itemID, req.ToInput())
	})
}

// DeactivateLineItem soft-deletes a line and recomputes the invoice total
func (s *CommercialInvoiceService) DeactivateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID) (*LineItemResult, error) {
	return s.lineItemOp(ctx, id, "DeactivateLineItem", func(ci *trade.CommercialInvoice) (*trade.LineItem, error) {
		return ci.DeactivateLineItem(actor, itemID)
	})
}

// Aggregate proposes commercial-invoice lines from an approved packing list
func (s *CommercialInvoiceService) Aggregate(ctx context.Context, packingListID uuid.UUID) (*AggregationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", "Aggregate", telemetry.AttrDocumentID.String(packingListID.String()))
	defer span.End()

	pl, groups, err := s.aggregate(ctx, packingListID)
	if err != nil {
		return nil, err
	}

	resp := &AggregationResponse{
		PackingListID:     pl.ID,
		PackingListNumber: pl.Number,
		ExporterID:        pl.ExporterID,
		ConsigneeID:       pl.ConsigneeID,
		BuyerID:           pl.BuyerID,
		PaymentTermID:     pl.PaymentTermID,
		IncotermID:        pl.IncotermID,
		Lines:             make([]AggregatedLineResponse, len(groups)),
	}
	for i, g := range groups {
		resp.Lines[i] = AggregatedLineResponse{
			HSCode:                g.HSCode,
			ItemCode:              g.ItemCode,
			Description:           g.Description,
			PackagesNumberAndKind: g.PackagesNumberAndKind,
			Quantity:              g.Quantity,
			UnitID:                g.UnitID,
			Unit:                  g.Unit,
			RateLabel:             g.RateLabel,
			ContainerIDs:          g.ContainerIDs,
		}
	}
	return resp, nil
}

// CreateFromPackingList re-aggregates the packing list server-side, prices
// every group and saves a draft invoice with one line per group
func (s *CommercialInvoiceService) CreateFromPackingList(ctx context.Context, actor trade.Actor, req CreateFromPackingListRequest) (*CommercialInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", "CreateFromPackingList",
		telemetry.AttrDocumentID.String(req.PackingListID.String()), telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	if !trade.IsMaker(actor) {
		return nil, shared.NewForbiddenError("Not allowed to create.")
	}
	if req.BankID == uuid.Nil {
		return nil, shared.NewValidationError("bank_id", "This field is required.")
	}

	pl, groups, err := s.aggregate(ctx, req.PackingListID)
	if err != nil {
		return nil, err
	}

	prices := make(map[trade.AggregationKey]decimal.Decimal, len(req.Prices))
	for _, p := range req.Prices {
		prices[trade.NewAggregationKey(p.ItemCode, p.UnitID)] = p.UnitPriceUSD
	}
	lines, err := trade.PriceAggregatedLines(groups, prices)
	if err != nil {
		return nil, err
	}

	plID := pl.ID
	header := trade.CommercialInvoiceHeader{
		Date:            timeOrZero(req.Date),
		Parties:         pl.Parties,
		CommercialTerms: pl.CommercialTerms,
		Shipping:        pl.Shipping,
		BankID:          req.BankID,
		PackingListID:   &plID,
		FOBRate:         decimalOrZero(req.FOBRate),
		Freight:         decimalOrZero(req.Freight),
		Insurance:       decimalOrZero(req.Insurance),
		LCDetails:       req.LCDetails,
	}
	if err := s.validateHeader(ctx, header); err != nil {
		return nil, err
	}
	ci, err := trade.NewCommercialInvoiceFromPackingList(actor, header, lines)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ci); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.log(ctx, ci).Info("Commercial invoice created from packing list",
		zap.String("packing_list_number", pl.Number),
		zap.Int("lines", len(lines)),
	)
	resp := ToCommercialInvoiceResponse(ci)
	return &resp, nil
}

// ApprovedPackingLists lists a consignee's approved packing lists, newest first
func (s *CommercialInvoiceService) ApprovedPackingLists(ctx context.Context, consigneeID uuid.UUID) ([]ApprovedPackingListResponse, error) {
	if consigneeID == uuid.Nil {
		return nil, shared.NewValidationError("consignee_id", "This field is required.")
	}
	lists, err := s.packingLists.FindApprovedByConsignee(ctx, consigneeID)
	if err != nil {
		return nil, err
	}
	out := make([]ApprovedPackingListResponse, len(lists))
	for i, pl := range lists {
		out[i] = ApprovedPackingListResponse{
			ID:            pl.ID,
			Number:        pl.Number,
			InvoiceNumber: pl.InvoiceNumber,
			Date:          NewDate(pl.Date),
			ConsigneeID:   pl.ConsigneeID,
			ApprovedAt:    pl.ApprovedAt,
		}
	}
	return out, nil
}

func (s *CommercialInvoiceService) aggregate(ctx context.Context, packingListID uuid.UUID) (*trade.PackingList, []trade.AggregatedLine, error) {
	pl, err := s.packingLists.FindByID(ctx, packingListID)
	if err != nil {
		return nil, nil, docNotFound(err, trade.DocumentTypePackingList)
	}

	units, err := s.unitCodes(ctx, pl)
	if err != nil {
		return nil, nil, err
	}
	groups, err := trade.AggregatePackingList(pl, func(id uuid.UUID) (string, bool) {
		code, ok := units[id]
		return code, ok
	})
	if err != nil {
		return nil, nil, err
	}
	return pl, groups, nil
}

// unitCodes resolves the unit codes of every active item in one query
func (s *CommercialInvoiceService) unitCodes(ctx context.Context, pl *trade.PackingList) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, c := range pl.ActiveContainers() {
		for _, it := range c.ActiveItems() {
			if it.UOMID == nil {
				continue
			}
			if _, ok := seen[*it.UOMID]; !ok {
				seen[*it.UOMID] = struct{}{}
				ids = append(ids, *it.UOMID)
			}
		}
	}

	codes := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return codes, nil
	}
	uoms, err := s.units.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range uoms {
		codes[u.ID] = u.Code
	}
	return codes, nil
}

// validateHeader checks master references and the linked packing list
func (s *CommercialInvoiceService) validateHeader(ctx context.Context, header trade.CommercialInvoiceHeader) error {
	if err := checkReferences(ctx, s.refs, header.MasterRefs()); err != nil {
		return err
	}
	if header.PackingListID == nil || *header.PackingListID == uuid.Nil {
		return nil
	}
	if _, err := s.packingLists.FindByID(ctx, *header.PackingListID); err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return shared.NewValidationError("packing_list", invalidChoice)
		}
		return err
	}
	return nil
}

func (s *CommercialInvoiceService) lineItemOp(
	ctx context.Context,
	id uuid.UUID,
	operation string,
	fn func(*trade.CommercialInvoice) (*trade.LineItem, error),
) (*LineItemResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", operation, telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	ci, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := fn(ci)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ci); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &LineItemResult{Item: ToLineItemResponse(item), TotalAmountUSD: ci.TotalAmountUSD}, nil
}

func (s *CommercialInvoiceService) transition(
	ctx context.Context,
	actor trade.Actor,
	id uuid.UUID,
	operation string,
	fn func(*trade.CommercialInvoice) error,
) (*CommercialInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commercial_invoice", operation,
		telemetry.AttrDocumentID.String(id.String()), telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	ci, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := ci.StatusName()
	if err := fn(ci); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ci); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(telemetry.AttrDocumentStatus.String(ci.StatusName()))
	telemetry.CountTransition(ctx, string(ci.DocumentType()), operation)
	s.log(ctx, ci).Info("Commercial invoice status changed", zap.String("from", from))
	resp := ToCommercialInvoiceResponse(ci)
	return &resp, nil
}

func (s *CommercialInvoiceService) load(ctx context.Context, id uuid.UUID) (*trade.CommercialInvoice, error) {
	ci, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, docNotFound(err, trade.DocumentTypeCommercialInvoice)
	}
	return ci, nil
}

func (s *CommercialInvoiceService) log(ctx context.Context, ci *trade.CommercialInvoice) *zap.Logger {
	return logger.Enrich(ctx, s.logger).With(
		logger.Document(string(trade.DocumentTypeCommercialInvoice), ci.ID.String(), ci.Number, ci.StatusName())...)
}
