package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/swisspairing/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidRounds       = "INVALID_ROUNDS"
	CodeInvalidTournamentID = "INVALID_TOURNAMENT_ID"
	CodeInvalidCompetitor   = "INVALID_COMPETITOR"
	CodeCompetitorNotFound  = "COMPETITOR_NOT_FOUND"
	CodeScheduleNotFound    = "SCHEDULE_NOT_FOUND"
	CodeBusy                = "TOURNAMENT_BUSY"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// LegacyErrorResponse is the flat error body of the query-string routes
// the existing front-end pages call
type LegacyErrorResponse struct {
	Error string `json:"error"`
}

// WriteLegacyError writes err as {"error": "<message>"} with the same status
// WriteError would use
func WriteLegacyError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(LegacyErrorResponse{Error: he.apiError.Message})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrInvalidRounds):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRounds, "Rounds must be a positive integer"}}
	case errors.Is(err, model.ErrInvalidTournamentID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTournamentID, "Tournament ID is required"}}
	case errors.Is(err, model.ErrInvalidCompetitor):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCompetitor, "Competitor id and username are required"}}
	case errors.Is(err, model.ErrCompetitorNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCompetitorNotFound, "Competitor not found"}}
	case errors.Is(err, model.ErrScheduleNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeScheduleNotFound, "No pairings generated"}}
	case errors.Is(err, model.ErrLockTimeout):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeBusy, "Tournament is busy, try again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
