package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/printing"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DocumentRenderer lays out a document view and converts it to PDF
type DocumentRenderer interface {
	Render(ctx context.Context, doc *DocumentView) ([]byte, error)
}

// ArchiveStore keeps a copy of every final rendering
type ArchiveStore interface {
	// Backend names the storage, e.g. "filesystem" or "s3"
	Backend() string
	// Put stores the PDF under key
	Put(ctx context.Context, key string, pdf []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Repositories are the document repositories the service reads
type Repositories struct {
	Proformas    trade.ProformaInvoiceRepository
	PackingLists trade.PackingListRepository
	Commercials  trade.CommercialInvoiceRepository
	Audit        trade.AuditTrailRepository
	Archives     printing.ArchiveRepository
}

// PrintService renders trade documents to PDF
type PrintService struct {
	repos    Repositories
	resolver resolver
	renderer DocumentRenderer
	archive  ArchiveStore
	logger   *zap.Logger
}

// NewPrintService creates a new PrintService. archive may be nil, in which
// case final renderings are not kept.
func NewPrintService(
	repos Repositories,
	masters *masterdata.Repositories,
	renderer DocumentRenderer,
	archive ArchiveStore,
	logger *zap.Logger,
) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if masters == nil {
		masters = &masterdata.Repositories{}
	}
	return &PrintService{
		repos:    repos,
		resolver: resolver{masters: masters},
		renderer: renderer,
		archive:  archive,
		logger:   logger,
	}
}

// ProformaInvoicePDF renders an approved proforma invoice
func (s *PrintService) ProformaInvoicePDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PDFResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "print", "ProformaInvoicePDF",
		telemetry.AttrDocumentID.String(id.String()), telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	pi, err := s.repos.Proformas.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, trade.DocumentTypeProformaInvoice)
	}
	if err := pi.CheckPDFDownload(actor); err != nil {
		return nil, err
	}
	view, err := s.resolver.proformaView(ctx, pi)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.produce(ctx, actor, pi.ID, view)
}

// PackingListPDF renders an approved packing list
func (s *PrintService) PackingListPDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PDFResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "print", "PackingListPDF",
		telemetry.AttrDocumentID.String(id.String()), telemetry.AttrActorID.String(actor.ID.String()))
	defer span.End()

	pl, err := s.repos.PackingLists.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, trade.DocumentTypePackingList)
	}
	if err := pl.CheckPDFDownload(actor); err != nil {
		return nil, err
	}
	view, err := s.resolver.packingListView(ctx, pl)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.produce(ctx, actor, pl.ID, view)
}

// CommercialInvoicePDF renders an approved commercial invoice
func (s *PrintService) CommercialInvoicePDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PDFResult, error) {
	return s.commercial(ctx, actor, id, printing.VariantFinal)
}

// CommercialInvoiceDraftPDF renders a watermarked draft of an unapproved
// commercial invoice for its maker or an admin
func (s *PrintService) CommercialInvoiceDraftPDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*PDFResult, error) {
	return s.commercial(ctx, actor, id, printing.VariantDraft)
}

func (s *PrintService) commercial(ctx context.Context, actor trade.Actor, id uuid.UUID, variant printing.Variant) (*PDFResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "print", "CommercialInvoicePDF",
		telemetry.AttrDocumentID.String(id.String()),
		telemetry.AttrActorID.String(actor.ID.String()),
		telemetry.AttrPDFDraft.Bool(variant == printing.VariantDraft))
	defer span.End()

	ci, err := s.repos.Commercials.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, trade.DocumentTypeCommercialInvoice)
	}
	if variant == printing.VariantDraft {
		err = ci.CheckDraftPDFDownload(actor)
	} else {
		err = ci.CheckPDFDownload(actor)
	}
	if err != nil {
		return nil, err
	}
	view, err := s.resolver.commercialView(ctx, ci, variant)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.produce(ctx, actor, ci.ID, view)
}

// ArchivedRenderings lists the stored final copies of a document
func (s *PrintService) ArchivedRenderings(ctx context.Context, docType trade.DocumentType, id uuid.UUID) ([]ArchiveResponse, error) {
	if s.repos.Archives == nil {
		return []ArchiveResponse{}, nil
	}
	docs, err := s.repos.Archives.ListByDocument(ctx, docType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived renderings: %w", err)
	}
	out := make([]ArchiveResponse, len(docs))
	for i := range docs {
		out[i] = toArchiveResponse(&docs[i])
	}
	return out, nil
}

// produce renders the view, records the download and archives final copies
func (s *PrintService) produce(ctx context.Context, actor trade.Actor, docID uuid.UUID, view *DocumentView) (*PDFResult, error) {
	log := logger.Enrich(ctx, s.logger).With(logger.Document(string(view.Type), docID.String(), view.Number, view.Status)...)

	span := trace.SpanFromContext(ctx)
	start := time.Now()
	pdf, err := s.renderer.Render(ctx, view)
	elapsed := time.Since(start)
	telemetry.RecordRender(ctx, string(view.Type), view.Variant.String(), elapsed, err)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("PDF rendering failed", zap.Error(err))
		return nil, shared.NewDomainError(shared.CodeRenderFailed, "Failed to render PDF.")
	}
	telemetry.AddEvent(span, "pdf_rendered", telemetry.AttrPDFBytes.Int(len(pdf)))

	if view.Type.HasAuditTrail() {
		action := trade.AuditActionPDFDownloaded
		if view.IsDraft() {
			action = trade.AuditActionPDFDraftDownloaded
		}
		if err := s.repos.Audit.Append(ctx, trade.NewAuditEntry(view.Type, docID, action, actor, "")); err != nil {
			return nil, fmt.Errorf("failed to record download: %w", err)
		}
	}

	if !view.IsDraft() {
		s.archiveCopy(ctx, log, actor, docID, view, pdf)
	}

	log.Info("PDF rendered",
		zap.String("variant", view.Variant.String()),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", elapsed))

	return &PDFResult{
		FileName: printing.FileName(view.Type, view.Number, view.Variant),
		Content:  pdf,
	}, nil
}

// archiveCopy stores the rendering. Failures are logged and do not fail the download.
func (s *PrintService) archiveCopy(ctx context.Context, log *zap.Logger, actor trade.Actor, docID uuid.UUID, view *DocumentView, pdf []byte) {
	if s.archive == nil {
		return
	}
	key := printing.ArchiveKey(view.Type, view.Number, time.Now())
	if err := s.archive.Put(ctx, key, pdf); err != nil {
		log.Warn("Failed to archive PDF", zap.String("key", key), zap.Error(err))
		return
	}
	if s.repos.Archives == nil {
		return
	}
	record, err := printing.NewArchivedDocument(view.Type, docID, view.Number, view.Variant, s.archive.Backend(), key, int64(len(pdf)), actor.ID)
	if err != nil {
		log.Warn("Invalid archive record", zap.Error(err))
		return
	}
	if err := s.repos.Archives.Save(ctx, record); err != nil {
		log.Warn("Failed to save archive record", zap.String("key", key), zap.Error(err))
	}
}

// ArchivedRendering reads one stored copy back. The copy must belong to the
// given document and live in the configured backend.
func (s *PrintService) ArchivedRendering(ctx context.Context, docType trade.DocumentType, docID, archiveID uuid.UUID) (*PDFResult, error) {
	missing := shared.NewNotFoundError("Archived rendering")
	if s.archive == nil || s.repos.Archives == nil {
		return nil, missing
	}
	record, err := s.repos.Archives.FindByID(ctx, archiveID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, missing
	}
	if err != nil {
		return nil, err
	}
	if record.DocumentType != docType || record.DocumentID != docID || record.StorageBackend != s.archive.Backend() {
		return nil, missing
	}

	rc, err := s.archive.Open(ctx, record.StorageKey)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("Archived PDF unreadable", zap.String("key", record.StorageKey), zap.Error(err))
		return nil, missing
	}
	defer rc.Close()
	pdf, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read archived PDF: %w", err)
	}
	return &PDFResult{
		FileName: printing.FileName(record.DocumentType, record.DocumentNumber, record.Variant),
		Content:  pdf,
	}, nil
}

func notFound(err error, docType trade.DocumentType) error {
	if errors.Is(err, shared.ErrNotFound) || shared.IsCode(err, shared.CodeNotFound) {
		label := docType.Label()
		return shared.NewNotFoundError(strings.ToUpper(label[:1]) + label[1:])
	}
	return err
}
