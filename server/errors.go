package server

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// IAPIError is the interface for errors carrying structured API information.
// Collaborators raise these instead of relying on error-text sniffing.
type IAPIError interface {
	error
	ErrorCode() string
	Message() string
	HTTPStatus() int
	Details() map[string]any
}

// ErrDuplicateKey is the structured marker for storage-layer uniqueness
// violations. Storage collaborators should wrap it so classification does not
// depend on driver error text.
var ErrDuplicateKey = errors.New("duplicate key")

// BaseAPIError provides a basic implementation of IAPIError.
type BaseAPIError struct {
	code       string
	message    string
	httpStatus int
	details    map[string]any
}

// NewBaseAPIError creates a new base API error.
func NewBaseAPIError(code, message string, httpStatus int) *BaseAPIError {
	return &BaseAPIError{
		code:       code,
		message:    message,
		httpStatus: httpStatus,
		details:    make(map[string]any),
	}
}

// ErrorCode returns the canonical error type string.
func (e *BaseAPIError) ErrorCode() string { return e.code }

// Message returns the user-facing error message.
func (e *BaseAPIError) Message() string { return e.message }

// HTTPStatus returns the HTTP status code.
func (e *BaseAPIError) HTTPStatus() int { return e.httpStatus }

// Details returns a copy of the additional error details.
func (e *BaseAPIError) Details() map[string]any {
	if len(e.details) == 0 {
		return nil
	}
	cp := make(map[string]any, len(e.details))
	maps.Copy(cp, e.details)
	return cp
}

// WithDetails adds a detail entry to the error.
func (e *BaseAPIError) WithDetails(key string, value any) *BaseAPIError {
	e.details[key] = value
	return e
}

// Error implements the error interface.
func (e *BaseAPIError) Error() string {
	if e == nil {
		return ""
	}
	if e.code == "" {
		return e.message
	}
	return e.code + ": " + e.message
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(message string) *BaseAPIError {
	return NewBaseAPIError(TypeBadRequest, message, http.StatusBadRequest)
}

// NewNotFoundError creates a 404 error for the named resource.
func NewNotFoundError(resource string) *BaseAPIError {
	return NewBaseAPIError(TypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewConflictError creates a 409 error.
func NewConflictError(message string) *BaseAPIError {
	return NewBaseAPIError(TypeConflict, message, http.StatusConflict)
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError(message string) *BaseAPIError {
	if message == "" {
		message = "Authentication required"
	}
	return NewBaseAPIError(TypeUnauthorized, message, http.StatusUnauthorized)
}

// NewForbiddenError creates a 403 error.
func NewForbiddenError(message string) *BaseAPIError {
	if message == "" {
		message = "Access denied"
	}
	return NewBaseAPIError(TypeForbidden, message, http.StatusForbidden)
}

// NewInternalServerError creates a 500 error.
func NewInternalServerError(message string) *BaseAPIError {
	if message == "" {
		message = "Internal Server Error"
	}
	return NewBaseAPIError(TypeInternalServerError, message, http.StatusInternalServerError)
}

// NewNotAcceptableError creates a 406 error.
func NewNotAcceptableError(message string) *BaseAPIError {
	if message == "" {
		message = "Not Acceptable"
	}
	return NewBaseAPIError(TypeNotAcceptable, message, http.StatusNotAcceptable)
}

var _ IAPIError = (*BaseAPIError)(nil)
