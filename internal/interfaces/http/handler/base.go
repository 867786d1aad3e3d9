package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/logger"
	"github.com/tradedocs/backend/internal/interfaces/http/dto"
	"github.com/tradedocs/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger *zap.Logger
}

func newBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.OK(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.PageOf(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.OK(data))
}

// Error sends an error response with the status mapped from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.Fail(code, message, middleware.GetRequestID(c)))
}

// HandleError turns err into a JSON error response. Domain errors keep their
// code and message; anything else is logged and reported as a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && dto.IsKnownCode(domainErr.Code) {
		if dto.GetHTTPStatus(domainErr.Code) >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.Enrich(c.Request.Context(), h.logger).Error("Unhandled error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON binds the request body. On failure it writes a 400 response and returns false.
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters. On failure it writes a 400 response and returns false.
func (h *BaseHandler) bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, dto.ErrCodeRequestTooLarge, "Request body is too large.")
		return
	}
	if details := middleware.ValidationDetails(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, dto.Invalid(
			details[0].Field+": "+details[0].Message, middleware.GetRequestID(c), details))
		return
	}
	h.Error(c, dto.ErrCodeBadRequest, "Malformed request: "+err.Error())
}

// pathID parses a UUID path parameter. An unparsable id cannot name an
// existing record, so it is reported as not found.
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, shared.CodeNotFound, "Not found.")
		return uuid.Nil, false
	}
	return id, true
}

// actor returns the authenticated caller or writes a 401
func (h *BaseHandler) actor(c *gin.Context) (trade.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Error(c, shared.CodeUnauthorized, "Authentication credentials were not provided.")
		return trade.Actor{}, false
	}
	return actor, true
}

// MethodNotAllowed answers physical deletes, which are never allowed
func (h *BaseHandler) MethodNotAllowed(c *gin.Context) {
	h.HandleError(c, shared.ErrMethodNotAllowed)
}

// page resolves the page and page size a list query ends up using
func page(p, size, defaultSize, maxSize int) (int, int) {
	f := shared.Filter{Page: p, PageSize: size}
	f.Normalize(defaultSize, maxSize)
	return f.Page, f.PageSize
}
