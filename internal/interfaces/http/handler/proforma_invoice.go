package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/tradedocs/backend/internal/application/trade"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// ProformaInvoiceService is the application surface behind the proforma invoice endpoints
type ProformaInvoiceService interface {
	DocumentService[apptrade.ProformaInvoiceResponse, apptrade.ProformaInvoiceRequest]
	InvoiceService
}

// ProformaInvoiceHandler handles proforma invoice endpoints
type ProformaInvoiceHandler struct {
	docs    documentHandler[apptrade.ProformaInvoiceResponse, apptrade.ProformaInvoiceRequest]
	lines   lineItemHandler
	service ProformaInvoiceService
	printer DocumentPrinter
}

// NewProformaInvoiceHandler creates a new ProformaInvoiceHandler
func NewProformaInvoiceHandler(service ProformaInvoiceService, printer DocumentPrinter, log *zap.Logger) *ProformaInvoiceHandler {
	return &ProformaInvoiceHandler{
		docs:    newDocumentHandler[apptrade.ProformaInvoiceResponse, apptrade.ProformaInvoiceRequest](service, log),
		lines:   newLineItemHandler(service, log),
		service: service,
		printer: printer,
	}
}

// ProformaInvoiceRoutes returns the route group for /proforma-invoices
func ProformaInvoiceRoutes(h *ProformaInvoiceHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	g := router.NewDomainGroup("proforma-invoices", "/proforma-invoices")
	g.Use(authMiddleware)

	g.GET("", h.docs.List)
	g.POST("", h.docs.Create)
	g.GET("/:id", h.docs.Get)
	g.PUT("/:id", h.docs.Update)
	g.DELETE("/:id", h.docs.MethodNotAllowed)

	g.POST("/:id/submit", h.docs.transition(h.service.Submit))
	g.POST("/:id/approve", h.docs.transition(h.service.Approve))
	g.POST("/:id/reject", h.docs.Reject)
	g.POST("/:id/deactivate", h.docs.transition(h.service.Deactivate))

	g.GET("/:id/audit", h.lines.AuditTrail)
	g.GET("/:id/line-items", h.lines.List)
	g.POST("/:id/line-items", h.lines.Add)
	g.PATCH("/:id/line-items/:item_id", h.lines.Update)
	g.POST("/:id/line-items/:item_id/deactivate", h.lines.Deactivate)

	g.GET("/:id/pdf", h.docs.pdf(h.printer.ProformaInvoicePDF))
	g.GET("/:id/renderings", h.docs.renderings(h.printer, trade.DocumentTypeProformaInvoice))
	g.GET("/:id/renderings/:archiveId", h.docs.archived(h.printer, trade.DocumentTypeProformaInvoice))
	return g
}
