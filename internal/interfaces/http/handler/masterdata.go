package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appmd "github.com/tradedocs/backend/internal/application/masterdata"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// MasterService is the CRUD surface of one master kind
type MasterService[T any, R any] interface {
	List(ctx context.Context, filter appmd.ListFilter) ([]R, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*R, error)
	Create(ctx context.Context, actor trade.Actor, in appmd.Payload[T]) (*R, error)
	Update(ctx context.Context, actor trade.Actor, id uuid.UUID, in appmd.Payload[T]) (*R, error)
	Deactivate(ctx context.Context, actor trade.Actor, id uuid.UUID) (*R, error)
}

// ApprovedConsigneeLister lists consignees that can be invoiced from a packing list
type ApprovedConsigneeLister interface {
	ConsigneesWithApprovedPackingLists(ctx context.Context) ([]appmd.PartyResponse, error)
}

// payload constrains *Q to a bindable master payload for records of type T
type payload[T any, Q any] interface {
	*Q
	appmd.Payload[T]
}

// masterHandler serves one master kind. Q is the request body type.
type masterHandler[T any, R any, Q any, PQ payload[T, Q]] struct {
	BaseHandler
	service MasterService[T, R]
}

func newMasterHandler[T any, R any, Q any, PQ payload[T, Q]](service MasterService[T, R], log *zap.Logger) *masterHandler[T, R, Q, PQ] {
	return &masterHandler[T, R, Q, PQ]{BaseHandler: newBaseHandler(log), service: service}
}

// List godoc
// @Summary      List master records
// @Tags         master-data
// @Produce      json
// @Param        kind path string true "Master kind" Enums(countries, banks, exporters, consignees, buyers, registered-addresses, ports, incoterms, uoms, payment-terms, pre-carriages, places-of-receipt, terms-templates)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(10) maximum(100)
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(asc)
// @Success      200 {object} dto.Response{data=[]object,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /master/{kind} [get]
func (h *masterHandler[T, R, Q, PQ]) List(c *gin.Context) {
	var filter appmd.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize, appmd.DefaultPageSize, appmd.MaxPageSize)
	h.SuccessWithMeta(c, items, total, p, size)
}

// Get godoc
// @Summary      Get master record by ID
// @Tags         master-data
// @Produce      json
// @Param        kind path string true "Master kind"
// @Param        id path string true "Record ID" format(uuid)
// @Success      200 {object} dto.Response{data=object}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /master/{kind}/{id} [get]
func (h *masterHandler[T, R, Q, PQ]) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Create godoc
// @Summary      Create a master record
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        kind path string true "Master kind"
// @Param        request body object true "Record fields"
// @Success      201 {object} dto.Response{data=object}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /master/{kind} [post]
func (h *masterHandler[T, R, Q, PQ]) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	req := PQ(new(Q))
	if !h.bindJSON(c, req) {
		return
	}
	record, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Update godoc
// @Summary      Update a master record
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        kind path string true "Master kind"
// @Param        id path string true "Record ID" format(uuid)
// @Param        request body object true "Record fields"
// @Success      200 {object} dto.Response{data=object}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /master/{kind}/{id} [put]
func (h *masterHandler[T, R, Q, PQ]) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	req := PQ(new(Q))
	if !h.bindJSON(c, req) {
		return
	}
	record, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Deactivate godoc
// @Summary      Deactivate a master record
// @Tags         master-data
// @Produce      json
// @Param        kind path string true "Master kind"
// @Param        id path string true "Record ID" format(uuid)
// @Success      200 {object} dto.Response{data=object}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /master/{kind}/{id}/deactivate [post]
func (h *masterHandler[T, R, Q, PQ]) Deactivate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.service.Deactivate(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// mount registers the standard master endpoints under prefix
func (h *masterHandler[T, R, Q, PQ]) mount(g *router.DomainGroup, prefix string) {
	sub := g.Group(strings.TrimPrefix(prefix, "/"), prefix)
	sub.GET("", h.List)
	sub.POST("", h.Create)
	sub.GET("/:id", h.Get)
	sub.PUT("/:id", h.Update)
	sub.DELETE("/:id", h.MethodNotAllowed)
	sub.POST("/:id/deactivate", h.Deactivate)
}

// MasterDataHandler exposes every master kind under /master
type MasterDataHandler struct {
	BaseHandler
	services *appmd.Services
	approved ApprovedConsigneeLister
}

// NewMasterDataHandler creates a new MasterDataHandler
func NewMasterDataHandler(services *appmd.Services, log *zap.Logger) *MasterDataHandler {
	return &MasterDataHandler{BaseHandler: newBaseHandler(log), services: services, approved: services}
}

// ConsigneesWithApprovedPackingLists feeds the consignee picker of the invoicing screen
// @Summary      List consignees with approved packing lists
// @Tags         master-data
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appmd.PartyResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /master/consignees/with-approved-packing-lists [get]
func (h *MasterDataHandler) ConsigneesWithApprovedPackingLists(c *gin.Context) {
	consignees, err := h.approved.ConsigneesWithApprovedPackingLists(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, consignees)
}

// MasterDataRoutes returns the route group for /master
func MasterDataRoutes(h *MasterDataHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	g := router.NewDomainGroup("master", "/master")
	g.Use(authMiddleware)

	s, log := h.services, h.logger
	g.GET("/consignees/with-approved-packing-lists", h.ConsigneesWithApprovedPackingLists)

	newMasterHandler[masterdata.Country, appmd.CountryResponse, appmd.CountryRequest](s.Countries, log).mount(g, "/countries")
	newMasterHandler[masterdata.Bank, appmd.BankResponse, appmd.BankRequest](s.Banks, log).mount(g, "/banks")
	newMasterHandler[masterdata.Exporter, appmd.PartyResponse, appmd.ExporterRequest](s.Exporters, log).mount(g, "/exporters")
	newMasterHandler[masterdata.Consignee, appmd.PartyResponse, appmd.ConsigneeRequest](s.Consignees, log).mount(g, "/consignees")
	newMasterHandler[masterdata.Buyer, appmd.PartyResponse, appmd.BuyerRequest](s.Buyers, log).mount(g, "/buyers")
	newMasterHandler[masterdata.RegisteredAddress, appmd.RegisteredAddressResponse, appmd.RegisteredAddressRequest](s.RegisteredAddresses, log).mount(g, "/registered-addresses")
	newMasterHandler[masterdata.Port, appmd.PortResponse, appmd.PortRequest](s.Ports, log).mount(g, "/ports")
	newMasterHandler[masterdata.Incoterm, appmd.CodedResponse, appmd.IncotermRequest](s.Incoterms, log).mount(g, "/incoterms")
	newMasterHandler[masterdata.UOM, appmd.CodedResponse, appmd.UOMRequest](s.UOMs, log).mount(g, "/uoms")
	newMasterHandler[masterdata.PaymentTerm, appmd.NamedResponse, appmd.PaymentTermRequest](s.PaymentTerms, log).mount(g, "/payment-terms")
	newMasterHandler[masterdata.PreCarriage, appmd.NamedResponse, appmd.PreCarriageRequest](s.PreCarriages, log).mount(g, "/pre-carriages")
	newMasterHandler[masterdata.PlaceOfReceipt, appmd.NamedResponse, appmd.PlaceOfReceiptRequest](s.PlacesOfReceipt, log).mount(g, "/places-of-receipt")
	newMasterHandler[masterdata.TermsTemplate, appmd.TermsTemplateResponse, appmd.TermsTemplateRequest](s.TermsTemplates, log).mount(g, "/terms-templates")
	return g
}
