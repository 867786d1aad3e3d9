package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptrade "github.com/tradedocs/backend/internal/application/trade"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// CommercialInvoiceService is the application surface behind the commercial invoice endpoints
type CommercialInvoiceService interface {
	DocumentService[apptrade.CommercialInvoiceResponse, apptrade.CommercialInvoiceRequest]
	InvoiceService
	Disable(ctx context.Context, actor trade.Actor, id uuid.UUID) (*apptrade.CommercialInvoiceResponse, error)
	Aggregate(ctx context.Context, packingListID uuid.UUID) (*apptrade.AggregationResponse, error)
	CreateFromPackingList(ctx context.Context, actor trade.Actor, req apptrade.CreateFromPackingListRequest) (*apptrade.CommercialInvoiceResponse, error)
	ApprovedPackingLists(ctx context.Context, consigneeID uuid.UUID) ([]apptrade.ApprovedPackingListResponse, error)
}

// CommercialInvoiceHandler handles commercial invoice endpoints, including
// invoicing from an approved packing list
type CommercialInvoiceHandler struct {
	docs    documentHandler[apptrade.CommercialInvoiceResponse, apptrade.CommercialInvoiceRequest]
	lines   lineItemHandler
	service CommercialInvoiceService
	printer DocumentPrinter
}

// NewCommercialInvoiceHandler creates a new CommercialInvoiceHandler
func NewCommercialInvoiceHandler(service CommercialInvoiceService, printer DocumentPrinter, log *zap.Logger) *CommercialInvoiceHandler {
	return &CommercialInvoiceHandler{
		docs:    newDocumentHandler[apptrade.CommercialInvoiceResponse, apptrade.CommercialInvoiceRequest](service, log),
		lines:   newLineItemHandler(service, log),
		service: service,
		printer: printer,
	}
}

// Aggregate previews the invoice lines an approved packing list would produce
// @Summary      Preview invoice lines from a packing list
// @Description  Groups the active items of an approved packing list by item code and unit
// @Tags         commercial-invoices
// @Produce      json
// @Param        packing_list_id query string true "Packing list ID" format(uuid)
// @Success      200 {object} dto.Response{data=apptrade.AggregationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /packing-lists/aggregate-from-packing-list [get]
func (h *CommercialInvoiceHandler) Aggregate(c *gin.Context) {
	plID, ok := h.queryID(c, "packing_list_id")
	if !ok {
		return
	}
	result, err := h.service.Aggregate(c.Request.Context(), plID)
	if err != nil {
		h.docs.HandleError(c, err)
		return
	}
	h.docs.Success(c, result)
}

// CreateFromPackingList drafts a commercial invoice from an approved packing list
// @Summary      Create a commercial invoice from a packing list
// @Description  Re-aggregates server-side and prices every group in one transaction
// @Tags         commercial-invoices
// @Accept       json
// @Produce      json
// @Param        request body apptrade.CreateFromPackingListRequest true "Packing list, bank and unit prices"
// @Success      201 {object} dto.Response{data=apptrade.CommercialInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /packing-lists/create-from-packing-list [post]
func (h *CommercialInvoiceHandler) CreateFromPackingList(c *gin.Context) {
	actor, ok := h.docs.actor(c)
	if !ok {
		return
	}
	var req apptrade.CreateFromPackingListRequest
	if !h.docs.bindJSON(c, &req) {
		return
	}
	ci, err := h.service.CreateFromPackingList(c.Request.Context(), actor, req)
	if err != nil {
		h.docs.HandleError(c, err)
		return
	}
	h.docs.Created(c, ci)
}

// ApprovedPackingLists lists the packing lists of a consignee that can be invoiced
// @Summary      List approved packing lists of a consignee
// @Tags         commercial-invoices
// @Produce      json
// @Param        consignee_id query string true "Consignee ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]apptrade.ApprovedPackingListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /commercial-invoices/approved-packing-lists [get]
func (h *CommercialInvoiceHandler) ApprovedPackingLists(c *gin.Context) {
	consigneeID, ok := h.queryID(c, "consignee_id")
	if !ok {
		return
	}
	lists, err := h.service.ApprovedPackingLists(c.Request.Context(), consigneeID)
	if err != nil {
		h.docs.HandleError(c, err)
		return
	}
	h.docs.Success(c, lists)
}

// queryID reads a required UUID query parameter and writes a 400 when it is missing or malformed
func (h *CommercialInvoiceHandler) queryID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		h.docs.Error(c, shared.CodeInvalidInput, name+" is required.")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.docs.Error(c, shared.CodeInvalidInput, name+" must be a valid UUID.")
		return uuid.Nil, false
	}
	return id, true
}

// CommercialInvoiceRoutes returns the route group for /commercial-invoices
func CommercialInvoiceRoutes(h *CommercialInvoiceHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	g := router.NewDomainGroup("commercial-invoices", "/commercial-invoices")
	g.Use(authMiddleware)

	g.GET("", h.docs.List)
	g.POST("", h.docs.Create)
	g.GET("/approved-packing-lists", h.ApprovedPackingLists)
	g.GET("/:id", h.docs.Get)
	g.PUT("/:id", h.docs.Update)
	g.DELETE("/:id", h.docs.MethodNotAllowed)

	g.POST("/:id/submit", h.docs.transition(h.service.Submit))
	g.POST("/:id/approve", h.docs.transition(h.service.Approve))
	g.POST("/:id/reject", h.docs.Reject)
	g.POST("/:id/disable", h.docs.transition(h.service.Disable))
	g.POST("/:id/deactivate", h.docs.transition(h.service.Deactivate))

	g.GET("/:id/audit", h.lines.AuditTrail)
	g.GET("/:id/line-items", h.lines.List)
	g.POST("/:id/line-items", h.lines.Add)
	g.PATCH("/:id/line-items/:item_id", h.lines.Update)
	g.POST("/:id/line-items/:item_id/deactivate", h.lines.Deactivate)

	g.GET("/:id/pdf", h.docs.pdf(h.printer.CommercialInvoicePDF))
	g.GET("/:id/pdf-draft", h.docs.pdf(h.printer.CommercialInvoiceDraftPDF))
	g.GET("/:id/renderings", h.docs.renderings(h.printer, trade.DocumentTypeCommercialInvoice))
	g.GET("/:id/renderings/:archiveId", h.docs.archived(h.printer, trade.DocumentTypeCommercialInvoice))
	return g
}

// PackingListInvoicingRoutes returns the packing-list side of the aggregation endpoints
func PackingListInvoicingRoutes(h *CommercialInvoiceHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	g := router.NewDomainGroup("packing-list-invoicing", "/packing-lists")
	g.Use(authMiddleware)

	g.GET("/aggregate-from-packing-list", h.Aggregate)
	g.POST("/create-from-packing-list", h.CreateFromPackingList)
	return g
}
