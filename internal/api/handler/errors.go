package handler

import (
	"net/http"

	"github.com/mcoot/swisspairing/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// WriteLegacyError writes the flat error body used by the query-string routes
func WriteLegacyError(w http.ResponseWriter, err error) {
	apierr.WriteLegacyError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
