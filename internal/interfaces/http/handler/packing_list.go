package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptrade "github.com/tradedocs/backend/internal/application/trade"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// PackingListService is the application surface behind the packing list endpoints
type PackingListService interface {
	DocumentService[apptrade.PackingListResponse, apptrade.PackingListRequest]
	PermanentlyReject(ctx context.Context, actor trade.Actor, id uuid.UUID) (*apptrade.PackingListResponse, error)
}

// PackingListHandler handles packing list endpoints
type PackingListHandler struct {
	docs    documentHandler[apptrade.PackingListResponse, apptrade.PackingListRequest]
	service PackingListService
	printer DocumentPrinter
}

// NewPackingListHandler creates a new PackingListHandler
func NewPackingListHandler(service PackingListService, printer DocumentPrinter, log *zap.Logger) *PackingListHandler {
	return &PackingListHandler{
		docs:    newDocumentHandler[apptrade.PackingListResponse, apptrade.PackingListRequest](service, log),
		service: service,
		printer: printer,
	}
}

// PackingListRoutes returns the route group for /packing-lists
func PackingListRoutes(h *PackingListHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	g := router.NewDomainGroup("packing-lists", "/packing-lists")
	g.Use(authMiddleware)

	g.GET("", h.docs.List)
	g.POST("", h.docs.Create)
	g.GET("/:id", h.docs.Get)
	g.PUT("/:id", h.docs.Update)
	g.DELETE("/:id", h.docs.MethodNotAllowed)

	g.POST("/:id/submit", h.docs.transition(h.service.Submit))
	g.POST("/:id/approve", h.docs.transition(h.service.Approve))
	g.POST("/:id/reject", h.docs.Reject)
	g.POST("/:id/permanently-reject", h.docs.transition(h.service.PermanentlyReject))
	g.POST("/:id/deactivate", h.docs.transition(h.service.Deactivate))

	g.GET("/:id/pdf", h.docs.pdf(h.printer.PackingListPDF))
	g.GET("/:id/renderings", h.docs.renderings(h.printer, trade.DocumentTypePackingList))
	g.GET("/:id/renderings/:archiveId", h.docs.archived(h.printer, trade.DocumentTypePackingList))
	return g
}
