package core

import "net/http"

// HTTPError represents an HTTP error with a status code and a stable,
// machine-readable code clients can branch on.
type HTTPError struct {
	Status int    // HTTP status code
	Code   string // Machine-readable code (e.g. "INSUFFICIENT_PERMISSIONS")
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Code
}

// Errors for the failure taxonomy the authorization chain produces.
var (
	ErrBadRequest          = HTTPError{Status: http.StatusBadRequest, Code: "BAD_REQUEST"}
	ErrUnauthorized        = HTTPError{Status: http.StatusUnauthorized, Code: "AUTHENTICATION_REQUIRED"}
	ErrForbidden           = HTTPError{Status: http.StatusForbidden, Code: "INSUFFICIENT_PERMISSIONS"}
	ErrNotFound            = HTTPError{Status: http.StatusNotFound, Code: "NOT_FOUND"}
	ErrConflict            = HTTPError{Status: http.StatusConflict, Code: "CONFLICT"}
	ErrUnprocessable       = HTTPError{Status: http.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY"}
	ErrTooManyRequests     = HTTPError{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS"}
	ErrInternalServerError = HTTPError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
	ErrServiceUnavailable  = HTTPError{Status: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE"}
)

// NewHTTPError creates a custom HTTP error with the given status and code.
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code}
}
