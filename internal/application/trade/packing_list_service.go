package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PackingListService handles packing list use cases. Packing lists keep no
// audit ledger, so every transition is written to the application log.
type PackingListService struct {
	repo      trade.PackingListRepository
	proformas trade.ProformaInvoiceRepository
	refs      masterdata.ReferenceChecker
	logger    *zap.Logger
}

// NewPackingListService creates a new PackingListService
func NewPackingListService(
	repo trade.PackingListRepository,
	proformas trade.ProformaInvoiceRepository,
	refs masterdata.ReferenceChecker,
	log *zap.Logger,
) *PackingListService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PackingListService{repo: repo, proformas: proformas, refs: refs, logger: log}
}

// List returns active packing lists matching the filter
func (s *PackingListService) List(ctx context.Context, filter ListFilter) ([]PackingListResponse, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packing_list", "List")
	defer span.End()

	domainFilter := toDomainFilter(filter)
	lists, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	out := make([]PackingListResponse, len(lists))
	for i := range lists {
		out[i] = ToPackingListResponse(&lists[i])
	}
	return out, total, nil
}

// GetByID returns an active packing list with its containers
func (s *PackingListService) GetByID(ctx context.Context, id uuid.UUID) (*PackingListResponse, error) {
	pl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPackingListResponse(pl)
	return &resp, nil
}

// Create drafts a packing list with its nested containers and items
func (s *PackingListService) Create(ctx context.Context, actor trade.Actor, req PackingListRequest) (*PackingListResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packing_list", "Create", telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	header := req.ToHeader()
	pl, err := trade.NewPackingList(actor, header, req.ToContainers())
	if err != nil {
		return nil, err
	}
	if err := s.validateHeader(ctx, uuid.Nil, header); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pl); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.log(ctx, pl).Info("Packing list created", zap.Int("containers", len(pl.ActiveContainers())))
	resp := ToPackingListResponse(pl)
	return &resp, nil
}

// Update replaces the header and merges the nested containers. Containers and
// items missing from the payload are deactivated.
func (s *PackingListService) Update(ctx context.Context, actor trade.Actor, id uuid.UUID, req PackingListRequest) (*PackingListResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packing_list", "Update", telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	pl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	header := req.ToHeader()
	if err := pl.Update(actor, header, req.ToContainers()); err != nil {
		return nil, err
	}
	if err := s.validateHeader(ctx, pl.ID, header); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pl); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.log(ctx, pl).Info("Packing list updated")
	resp := ToPackingListResponse(pl)
	return &resp, nil
}

// Submit sends the packing list for approval
func (s *PackingListService) Submit(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PackingListResponse, error) {
	return s.transition(ctx, actor, id, "Submit", func(pl *trade.PackingList) error {
		return pl.Submit(actor)
	})
}

// Approve approves a pending packing list
func (s *PackingListService) Approve(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PackingListResponse, error) {
	return s.transition(ctx, actor, id, "Approve", func(pl *trade.PackingList) error {
		return pl.Approve(actor)
	})
}

// Reject sends a pending packing list back for rework; notes are mandatory
func (s *PackingListService) Reject(ctx context.Context, actor trade.Actor, id uuid.UUID, req RejectRequest) (*PackingListResponse, error) {
	return s.transition(ctx, actor, id, "Reject", func(pl *trade.PackingList) error {
		return pl.Reject(actor, req.Notes)
	}, zap.String("notes", req.Notes))
}

// PermanentlyReject closes the packing list for good
func (s *PackingListService) PermanentlyReject(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PackingListResponse, error) {
	return s.transition(ctx, actor, id, "PermanentlyReject", func(pl *trade.PackingList) error {
		return pl.PermanentlyReject(actor)
	})
}

// Deactivate soft-deletes the packing list. Deactivating an inactive list is a no-op.
func (s *PackingListService) Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PackingListResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packing_list", "Deactivate", telemetry.AttrDocumentID.String(id.String()))
	defer span.End()

	pl, err := s.repo.FindByIDIncludingInactive(ctx, id)
	if err != nil {
		return nil, docNotFound(err, trade.DocumentTypePackingList)
	}
	changed, err := pl.Deactivate(actor)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.repo.Save(ctx, pl); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.log(ctx, pl).Info("Packing list deactivated", zap.String("actor", actor.Username))
	}
	resp := ToPackingListResponse(pl)
	return &resp, nil
}

// validateHeader checks master references and the one-packing-list-per-proforma rule
func (s *PackingListService) validateHeader(ctx context.Context, selfID uuid.UUID, header trade.PackingListHeader) error {
	if err := checkReferences(ctx, s.refs, header.MasterRefs()); err != nil {
		return err
	}
	if header.ProformaInvoiceID == nil || *header.ProformaInvoiceID == uuid.Nil {
		return nil
	}

	piID := *header.ProformaInvoiceID
	if _, err := s.proformas.FindByID(ctx, piID); err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return shared.NewValidationError("proforma_invoice", invalidChoice)
		}
		return err
	}
	exists, err := s.repo.ExistsForProforma(ctx, piID, selfID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewValidationError("proforma_invoice", "packing list with this proforma invoice already exists.")
	}
	return nil
}

func (s *PackingListService) transition(
	ctx context.Context,
	actor trade.Actor,
	id uuid.UUID,
	operation string,
	fn func(*trade.PackingList) error,
	fields ...zap.Field,
) (*PackingListResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "packing_list", operation,
		telemetry.AttrDocumentID.String(id.String()), telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	pl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := pl.StatusName()
	if err := fn(pl); err != nil {
		s.log(ctx, pl).Debug("Packing list transition refused",
			zap.String("operation", operation), zap.Error(err))
		return nil, err
	}
	if err := s.repo.Save(ctx, pl); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(telemetry.AttrDocumentStatus.String(pl.StatusName()))
	telemetry.CountTransition(ctx, string(pl.DocumentType()), operation)
	fields = append(fields,
		zap.String("from", from),
		zap.String("operation", operation),
		zap.String("actor", actor.Username),
	)
	s.log(ctx, pl).Info("Packing list status changed", fields...)
	resp := ToPackingListResponse(pl)
	return &resp, nil
}

func (s *PackingListService) load(ctx context.Context, id uuid.UUID) (*trade.PackingList, error) {
	pl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, docNotFound(err, trade.DocumentTypePackingList)
	}
	return pl, nil
}

func (s *PackingListService) log(ctx context.Context, pl *trade.PackingList) *zap.Logger {
	return logger.Enrich(ctx, s.logger).With(
		logger.Document(string(trade.DocumentTypePackingList), pl.ID.String(), pl.Number, pl.StatusName())...)
}
