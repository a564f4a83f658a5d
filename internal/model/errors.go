package model

import (
	"fmt"
	"net/http"
)

// APIError is the error half of the response envelope. Handlers and the
// realtime bridge map service errors onto one of these; the Status never
// reaches the wire body, only the header.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// NewValidationError reports malformed or missing input (400)
func NewValidationError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NewUnauthorizedError reports a missing or invalid credential (401)
func NewUnauthorizedError(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

// NewAuthorizationError reports a caller lacking the required role or
// ownership (403)
func NewAuthorizationError(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Message: message}
}

// NewNotFoundError reports an absent entity (404)
func NewNotFoundError(resource string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewConflictError reports an invariant violation: capacity exceeded,
// already a member, poll closed, owner attempting to leave (409)
func NewConflictError(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message}
}

// NewInternalError reports an unexpected failure without leaking internal
// detail (500)
func NewInternalError(message string) *APIError {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return &APIError{Status: http.StatusInternalServerError, Message: message}
}
