package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProformaInvoiceService handles proforma invoice use cases
type ProformaInvoiceService struct {
	repo   trade.ProformaInvoiceRepository
	audit  trade.AuditTrailRepository
	refs   masterdata.ReferenceChecker
	logger *zap.Logger
}

// NewProformaInvoiceService creates a new ProformaInvoiceService
func NewProformaInvoiceService(
	repo trade.ProformaInvoiceRepository,
	audit trade.AuditTrailRepository,
	refs masterdata.ReferenceChecker,
	log *zap.Logger,
) *ProformaInvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProformaInvoiceService{repo: repo, audit: audit, refs: refs, logger: log}
}

// List returns active proforma invoices matching the filter
func (s *ProformaInvoiceService) List(ctx context.Context, filter ListFilter) ([]ProformaInvoiceResponse, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "proforma", "List")
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

	out := make([]ProformaInvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToProformaInvoiceResponse(&invoices[i])
	}
	return out, total, nil
}

// GetByID returns an active proforma invoice
func (s *ProformaInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*ProformaInvoiceResponse, error) {
	pi, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProformaInvoiceResponse(pi)
	return &resp, nil
}

// Create drafts a new proforma invoice, optionally with its first lines
func (s *ProformaInvoiceService) Create(ctx context.Context, actor trade.Actor, req ProformaInvoiceRequest) (*ProformaInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "proforma", "Create", telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	header := req.ToHeader()
	pi, err := trade.NewProformaInvoice(actor, header)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.refs, header.MasterRefs()); err != nil {
		return nil, err
	}
	for i, line := range req.LineItems {
		if _, err := pi.AddLineItem(actor, line.ToInput()); err != nil {
			return nil, lineItemField(i, err)
		}
	}
	if err := s.repo.Save(ctx, pi); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.log(ctx, pi).Info("Proforma invoice created")
	resp := ToProformaInvoiceResponse(pi)
	return &resp, nil
}

// Update replaces the header of an editable proforma invoice
func (s *ProformaInvoiceService) Update(ctx context.Context, actor trade.Actor, id uuid.UUID, req ProformaInvoiceRequest) (*ProformaInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "proforma", "Update", telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	pi, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	header := req.ToHeader()
	if err := pi.Update(actor, header); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.refs, header.MasterRefs()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pi); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToProformaInvoiceResponse(pi)
	return &resp, nil
}

// Submit sends the invoice for approval
func (s *ProformaInvoiceService) Submit(ctx context.Context, actor trade.Actor, id uuid.UUID) (*ProformaInvoiceResponse, error) {
	return s.transition(ctx, actor, id, "Submit", func(pi *trade.ProformaInvoice) error {
		return pi.Submit(actor)
	})
}

// Approve approves a pending or reworked invoice
func (s *ProformaInvoiceService) Approve(ctx context.Context, actor trade.Actor, id uuid.UUID) (*ProformaInvoiceResponse, error) {
	return s.transition(ctx, actor, id, "Approve", func(pi *trade.ProformaInvoice) error {
		return pi.Approve(actor)
	})
}

// Reject sends a pending invoice back for rework
func (s *ProformaInvoiceService) Reject(ctx context.Context, actor trade.Actor, id uuid.UUID, req RejectRequest) (*ProformaInvoiceResponse, error) {
	return s.transition(ctx, actor, id, "Reject", func(pi *trade.ProformaInvoice) error {
		return pi.Reject(actor, req.Notes)
	})
}

// Deactivate soft-deletes the invoice. Deactivating an inactive invoice is a no-op.
func (s *ProformaInvoiceService) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*ProformaInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "proforma", "Deactivate", telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	pi, err := s.repo.FindByIDIncludingInactive(ctx, id)
	if err != nil {
		return nil, docNotFound(err, trade.DocumentTypeProformaInvoice)
	}
	changed, err := pi.Deactivate(actor)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.repo.Save(ctx, pi); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.log(ctx, pi).Info("Proforma invoice deactivated")
	}
	resp := ToProformaInvoiceResponse(pi)
	return &resp, nil
}

// AuditTrail returns the invoice's audit entries newest first
func (s *ProformaInvoiceService) AuditTrail(ctx context.Context, id uuid.UUID) ([]AuditEntryResponse, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByDocument(ctx, trade.DocumentTypeProformaInvoice, id)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(entries), nil
}

// ListLineItems returns the active lines of an invoice
func (s *ProformaInvoiceService) ListLineItems(ctx context.Context, id uuid.UUID) ([]LineItemResponse, error) {
	pi, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLineItemResponses(pi.ActiveLineItems()), nil
}

// AddLineItem appends a line and recomputes the invoice total
func (s *ProformaInvoiceService) AddLineItem(ctx context.Context, actor trade.Actor, id uuid.UUID, req LineItemRequest) (*LineItemResult, error) {
	return s.lineItemOp(ctx, id, "AddLineItem", func(pi *trade.ProformaInvoice) (*trade.LineItem, error) {
		return pi.AddLineItem(actor, req.ToInput())
	})
}

// UpdateLineItem patches an active line and recomputes the invoice total
func (s *ProformaInvoiceService) UpdateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID, req LineItemRequest) (*LineItemResult, error) {
	return s.lineItemOp(ctx, id, "UpdateLineItem", func(pi *trade.ProformaInvoice) (*trade.LineItem, error) {
		return pi.UpdateLineItem(actor, itemID, req.ToInput())
	})
}

// DeactivateLineItem soft-deletes a line and recomputes the invoice total
func (s *ProformaInvoiceService) DeactivateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID) (*LineItemResult, error) {
	return s.lineItemOp(ctx, id, "DeactivateLineItem", func(pi *trade.ProformaInvoice) (*trade.LineItem, error) {
		return pi.DeactivateLineItem(actor, itemID)
	})
}

func (s *ProformaInvoiceService) lineItemOp(
	ctx context.Context,
	id uuid.UUID,
	operation string,
	fn func(*trade.ProformaInvoice) (*trade.LineItem, error),
) (*LineItemResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "proforma", operation, telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	pi, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := fn(pi)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pi); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &LineItemResult{Item: ToLineItemResponse(item), TotalAmountUSD: pi.TotalAmountUSD}, nil
}

func (s *ProformaInvoiceService) transition(
	ctx context.Context,
	actor trade.Actor,
	id uuid.UUID,
	operation string,
	fn func(*trade.ProformaInvoice) error,
) (*ProformaInvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "proforma", operation,
		telemetry.AttrDocumentID.String(id.String()), telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	pi, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := pi.StatusName()
	if err := fn(pi); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pi); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(telemetry.AttrDocumentStatus.String(pi.StatusName()))
	telemetry.CountTransition(ctx, string(pi.DocumentType()), operation)
	s.log(ctx, pi).Info("Proforma invoice status changed", zap.String("from", from))
	resp := ToProformaInvoiceResponse(pi)
	return &resp, nil
}

func (s *ProformaInvoiceService) load(ctx context.Context, id uuid.UUID) (*trade.ProformaInvoice, error) {
	pi, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, docNotFound(err, trade.DocumentTypeProformaInvoice)
	}
	return pi, nil
}

func (s *ProformaInvoiceService) log(ctx context.Context, pi *trade.ProformaInvoice) *zap.Logger {
	return logger.Enrich(ctx, s.logger).With(
		logger.Document(string(trade.DocumentTypeProformaInvoice), pi.ID.String(), pi.Number, pi.StatusName())...)
}
