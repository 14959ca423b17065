package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the service taxonomy.
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodePermissionDenied      = "PERMISSION_DENIED"
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeTimeout               = "TIMEOUT"
	CodeSuggestionUnavailable = "SUGGESTION_UNAVAILABLE"
	CodeStoreError            = "STORE_ERROR"
	CodeInternal              = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewUnauthenticated signals a missing or invalid session.
func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

// NewPermissionDenied signals an authenticated but role-insufficient caller.
func NewPermissionDenied(message string) error {
	return NewDomainError(CodePermissionDenied, message, http.StatusForbidden, nil)
}

// NewValidationError signals missing or malformed required fields.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewNotFound signals a missing record. Unauthorized reads are reported with
// the same constructor so existence never leaks.
func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewInvalidTransition signals a status state-machine violation.
func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("cannot transition from %q to %q", from, to),
		http.StatusConflict,
		map[string]any{"from": from, "to": to})
}

// NewTimeout signals that an external call exceeded its bound.
func NewTimeout(operation string, err error) error {
	return &DomainError{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout,
		Err:        err,
	}
}

// NewSuggestionUnavailable reports a failed AI helper call. Non-fatal: it
// only disables the suggested-reply display.
func NewSuggestionUnavailable(err error) error {
	return &DomainError{
		Code:       CodeSuggestionUnavailable,
		Message:    "suggested response unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewStoreError wraps an opaque backing-store failure.
func NewStoreError(err error) error {
	return &DomainError{
		Code:       CodeStoreError,
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternalError wraps unexpected failures.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given taxonomy code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError for rendering.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		if de, ok := NewTimeout("request", err).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to the taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
