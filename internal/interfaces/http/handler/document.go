package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appprinting "github.com/tradedocs/backend/internal/application/printing"
	apptrade "github.com/tradedocs/backend/internal/application/trade"
	"github.com/tradedocs/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// DocumentService is the workflow surface shared by the three document types.
// R is the response shape and Q the create/update payload.
type DocumentService[R any, Q any] interface {
	List(ctx context.Context, filter apptrade.ListFilter) ([]R, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*R, error)
	Create(ctx context.Context, actor trade.Actor, req Q) (*R, error)
	Update(ctx context.Context, actor trade.Actor, id uuid.UUID, req Q) (*R, error)
	Submit(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error)
	Approve(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error)
	Reject(ctx context.Context, actor trade.Actor, id uuid.UUID, req apptrade.RejectRequest) (*R, error)
	Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error)
}

// InvoiceService adds the line-item and audit operations of priced documents
type InvoiceService interface {
	AuditTrail(ctx context.Context, id uuid.UUID) ([]apptrade.AuditEntryResponse, error)
	ListLineItems(ctx context.Context, id uuid.UUID) ([]apptrade.LineItemResponse, error)
	AddLineItem(ctx context.Context, actor trade.Actor, id uuid.UUID, req apptrade.LineItemRequest) (*apptrade.LineItemResult, error)
	UpdateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID, req apptrade.LineItemRequest) (*apptrade.LineItemResult, error)
	DeactivateLineItem(ctx context.Context, actor trade.Actor, id, itemID uuid.UUID) (*apptrade.LineItemResult, error)
}

// DocumentPrinter renders documents and lists their archived renderings
type DocumentPrinter interface {
	ProformaInvoicePDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error)
	PackingListPDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error)
	CommercialInvoicePDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error)
	CommercialInvoiceDraftPDF(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error)
	ArchivedRenderings(ctx context.Context, docType trade.DocumentType, id uuid.UUID) ([]appprinting.ArchiveResponse, error)
	ArchivedRendering(ctx context.Context, docType trade.DocumentType, id, archiveID uuid.UUID) (*appprinting.PDFResult, error)
}

type transitionFunc[R any] func(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error)

type pdfFunc func(ctx context.Context, actor trade.Actor, id uuid.UUID) (*appprinting.PDFResult, error)

// documentHandler serves the CRUD and workflow endpoints of one document type
type documentHandler[R any, Q any] struct {
	BaseHandler
	service DocumentService[R, Q]
}

func newDocumentHandler[R any, Q any](service DocumentService[R, Q], log *zap.Logger) documentHandler[R, Q] {
	return documentHandler[R, Q]{BaseHandler: newBaseHandler(log), service: service}
}

// List returns a page of active documents
// @Summary      List trade documents
// @Description  Active documents of one type, paginated and searchable
// @Tags         trade-documents
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(10) maximum(100)
// @Param        search query string false "Search term (number, party names)"
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Param        status query string false "Workflow status"
// @Success      200 {object} dto.Response{data=[]object,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices [get]
// @Router       /packing-lists [get]
// @Router       /commercial-invoices [get]
func (h *documentHandler[R, Q]) List(c *gin.Context) {
	var filter apptrade.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, apptrade.DefaultPageSize, apptrade.MaxPageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

// Get returns one active document
// @Summary      Get trade document by ID
// @Description  Retrieve one active document with its lines or containers
// @Tags         trade-documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=object}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id} [get]
// @Router       /packing-lists/{id} [get]
// @Router       /commercial-invoices/{id} [get]
func (h *documentHandler[R, Q]) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Create drafts a new document owned by the caller
// @Summary      Create a trade document
// @Description  Draft a new document owned by the caller; the number is allocated on save
// @Tags         trade-documents
// @Accept       json
// @Produce      json
// @Param        request body object true "Document header (and containers for packing lists)"
// @Success      201 {object} dto.Response{data=object}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices [post]
// @Router       /packing-lists [post]
// @Router       /commercial-invoices [post]
func (h *documentHandler[R, Q]) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req Q
	if !h.bindJSON(c, &req) {
		return
	}
	doc, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Update replaces the header of an editable document
// @Summary      Update a trade document
// @Description  Replace the header of a document the caller may edit in its current status
// @Tags         trade-documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body object true "Document header"
// @Success      200 {object} dto.Response{data=object}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id} [put]
// @Router       /packing-lists/{id} [put]
// @Router       /commercial-invoices/{id} [put]
func (h *documentHandler[R, Q]) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req Q
	if !h.bindJSON(c, &req) {
		return
	}
	doc, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Reject takes optional rework notes in the body
// @Summary      Reject a trade document
// @Description  Send a pending document back; notes are required for packing lists and commercial invoices
// @Tags         trade-documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body apptrade.RejectRequest false "Rejection notes"
// @Success      200 {object} dto.Response{data=object}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/reject [post]
// @Router       /packing-lists/{id}/reject [post]
// @Router       /commercial-invoices/{id}/reject [post]
func (h *documentHandler[R, Q]) Reject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req apptrade.RejectRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	doc, err := h.service.Reject(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// transition adapts a body-less workflow action to a gin handler
// @Summary      Apply a workflow action
// @Description  Submit, approve, disable, permanently reject or deactivate a document
// @Tags         trade-documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=object}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/submit [post]
// @Router       /packing-lists/{id}/submit [post]
// @Router       /commercial-invoices/{id}/submit [post]
// @Router       /proforma-invoices/{id}/approve [post]
// @Router       /packing-lists/{id}/approve [post]
// @Router       /commercial-invoices/{id}/approve [post]
// @Router       /proforma-invoices/{id}/deactivate [post]
// @Router       /packing-lists/{id}/deactivate [post]
// @Router       /commercial-invoices/{id}/deactivate [post]
// @Router       /commercial-invoices/{id}/disable [post]
// @Router       /packing-lists/{id}/permanently-reject [post]
func (h *documentHandler[R, Q]) transition(fn transitionFunc[R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.actor(c)
		if !ok {
			return
		}
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		doc, err := fn(c.Request.Context(), actor, id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, doc)
	}
}

// pdf streams a rendered document as an attachment
// @Summary      Download document PDF
// @Description  Final PDF of an approved document, or the watermarked draft of a commercial invoice
// @Tags         trade-documents
// @Produce      application/pdf
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/pdf [get]
// @Router       /packing-lists/{id}/pdf [get]
// @Router       /commercial-invoices/{id}/pdf [get]
// @Router       /commercial-invoices/{id}/pdf-draft [get]
func (h *documentHandler[R, Q]) pdf(fn pdfFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.actor(c)
		if !ok {
			return
		}
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		result, err := fn(c.Request.Context(), actor, id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		attachPDF(c, result)
	}
}

func attachPDF(c *gin.Context, result *appprinting.PDFResult) {
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

// renderings lists the archived final PDFs of a document
// @Summary      List archived renderings
// @Description  Stored copies of the final PDFs of a document, newest first
// @Tags         trade-documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]appprinting.ArchiveResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/renderings [get]
// @Router       /packing-lists/{id}/renderings [get]
// @Router       /commercial-invoices/{id}/renderings [get]
func (h *documentHandler[R, Q]) renderings(printer DocumentPrinter, docType trade.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		archives, err := printer.ArchivedRenderings(c.Request.Context(), docType, id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, archives)
	}
}

// archived downloads one stored copy listed by renderings
// @Summary      Download an archived rendering
// @Tags         trade-documents
// @Produce      application/pdf
// @Param        id path string true "Document ID" format(uuid)
// @Param        archiveId path string true "Archive ID" format(uuid)
// @Success      200 {file} binary
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/renderings/{archiveId} [get]
// @Router       /packing-lists/{id}/renderings/{archiveId} [get]
// @Router       /commercial-invoices/{id}/renderings/{archiveId} [get]
func (h *documentHandler[R, Q]) archived(printer DocumentPrinter, docType trade.DocumentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		archiveID, ok := h.pathID(c, "archiveId")
		if !ok {
			return
		}
		result, err := printer.ArchivedRendering(c.Request.Context(), docType, id, archiveID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		attachPDF(c, result)
	}
}

// lineItemHandler serves the audit and line-item endpoints of invoices
type lineItemHandler struct {
	BaseHandler
	service InvoiceService
}

func newLineItemHandler(service InvoiceService, log *zap.Logger) lineItemHandler {
	return lineItemHandler{BaseHandler: newBaseHandler(log), service: service}
}

// AuditTrail returns the audit entries of a document, newest first
// @Summary      Get document audit trail
// @Tags         trade-documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]apptrade.AuditEntryResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/audit [get]
// @Router       /commercial-invoices/{id}/audit [get]
func (h *lineItemHandler) AuditTrail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.service.AuditTrail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// List returns the active lines of a document
// @Summary      List line items
// @Tags         trade-documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]apptrade.LineItemResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/line-items [get]
// @Router       /commercial-invoices/{id}/line-items [get]
func (h *lineItemHandler) List(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.ListLineItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Add appends a line and returns it with the new document total
// @Summary      Add a line item
// @Description  Amount is quantity times unit price rounded to 2 places; the document total is recomputed
// @Tags         trade-documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body apptrade.LineItemRequest true "Line item"
// @Success      201 {object} dto.Response{data=apptrade.LineItemResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/line-items [post]
// @Router       /commercial-invoices/{id}/line-items [post]
func (h *lineItemHandler) Add(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req apptrade.LineItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.AddLineItem(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update patches a line; omitted fields are kept
// @Summary      Update a line item
// @Tags         trade-documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        item_id path string true "Line item ID" format(uuid)
// @Param        request body apptrade.LineItemRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=apptrade.LineItemResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/line-items/{item_id} [patch]
// @Router       /commercial-invoices/{id}/line-items/{item_id} [patch]
func (h *lineItemHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	var req apptrade.LineItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.UpdateLineItem(c.Request.Context(), actor, id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Deactivate soft-deletes a line
// @Summary      Deactivate a line item
// @Tags         trade-documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        item_id path string true "Line item ID" format(uuid)
// @Success      200 {object} dto.Response{data=apptrade.LineItemResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proforma-invoices/{id}/line-items/{item_id}/deactivate [post]
// @Router       /commercial-invoices/{id}/line-items/{item_id}/deactivate [post]
func (h *lineItemHandler) Deactivate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	result, err := h.service.DeactivateLineItem(c.Request.Context(), actor, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
