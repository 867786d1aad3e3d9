package shared

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped sentinel
// errors keep matching after their message was customised.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across bounded contexts
const (
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidState      = "INVALID_STATE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeRenderFailed      = "RENDER_FAILED"
)

// Common domain errors
var (
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists    = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput     = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized     = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden        = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState     = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrMethodNotAllowed = NewDomainError(CodeMethodNotAllowed, "Method \"DELETE\" not allowed. Use deactivate.")
)

// NewNotFoundError returns a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewForbiddenError returns a FORBIDDEN error with a human-readable reason
func NewForbiddenError(reason string) *DomainError {
	return NewDomainError(CodeForbidden, reason)
}

// NewValidationError returns a VALIDATION_ERROR naming the offending field
func NewValidationError(field, message string) *DomainError {
	if field == "" {
		return NewDomainError(CodeValidation, message)
	}
	return NewDomainError(CodeValidation, fmt.Sprintf("%s: %s", field, message))
}

// NewInvalidTransitionError reports an action attempted from a state outside
// its legal source set. The allowed source states are listed in the message.
func NewInvalidTransitionError(action, document, current string, allowed []string) *DomainError {
	return NewDomainError(CodeInvalidTransition, fmt.Sprintf(
		"Cannot %s %s in %s status; allowed from: %s",
		action, document, current, strings.Join(allowed, ", "),
	))
}

// IsCode reports whether err is a DomainError with the given code
func IsCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
