package dto

import (
	"net/http"

	"github.com/tradedocs/backend/internal/domain/shared"
)

// Codes produced by the HTTP layer itself. Domain codes come from shared.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMITED"
)

// errorCodeToHTTPStatus maps error codes to HTTP status codes
var errorCodeToHTTPStatus = map[string]int{
	shared.CodeNotFound:          http.StatusNotFound,
	shared.CodeAlreadyExists:     http.StatusConflict,
	shared.CodeInvalidInput:      http.StatusBadRequest,
	shared.CodeValidation:        http.StatusBadRequest,
	shared.CodeUnauthorized:      http.StatusUnauthorized,
	shared.CodeForbidden:         http.StatusForbidden,
	shared.CodeInvalidState:      http.StatusBadRequest,
	shared.CodeInvalidTransition: http.StatusBadRequest,
	shared.CodeMethodNotAllowed:  http.StatusMethodNotAllowed,
	shared.CodeRenderFailed:      http.StatusInternalServerError,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound:   http.StatusNotFound,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an error code. Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeToHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsKnownCode reports whether code has an HTTP mapping
func IsKnownCode(code string) bool {
	_, ok := errorCodeToHTTPStatus[code]
	return ok
}
