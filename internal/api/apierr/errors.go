package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/expoprize/prizewheel-go/internal/model"
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
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeCompanyNotFound        = "COMPANY_NOT_FOUND"
	CodePrizeNotFound          = "PRIZE_NOT_FOUND"
	CodeParticipantNotFound    = "PARTICIPANT_NOT_FOUND"
	CodeRaffleNotFound         = "RAFFLE_NOT_FOUND"
	CodeDrawNotFound           = "DRAW_NOT_FOUND"
	CodeEmptyPool              = "EMPTY_POOL"
	CodeNotEnoughPrizes        = "NOT_ENOUGH_PRIZES"
	CodeNoEligibleParticipants = "NO_ELIGIBLE_PARTICIPANTS"
	CodeAlreadyParticipated    = "ALREADY_PARTICIPATED"
	CodeAlreadySpun            = "ALREADY_SPUN"
	CodeSpinInProgress         = "SPIN_IN_PROGRESS"
	CodeInvalidCode            = "INVALID_CODE"
	CodeRemoteUnavailable      = "REMOTE_UNAVAILABLE"
	CodeInternalError          = "INTERNAL_ERROR"
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

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrCompanyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCompanyNotFound, "Company not found"}}
	case errors.Is(err, model.ErrPrizeNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePrizeNotFound, "Prize not found"}}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeParticipantNotFound, "Participant not found"}}
	case errors.Is(err, model.ErrCollaboratorNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeParticipantNotFound, "Collaborator not found"}}
	case errors.Is(err, model.ErrRaffleNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRaffleNotFound, "Raffle not found"}}
	case errors.Is(err, model.ErrDrawNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeDrawNotFound, "Draw not found"}}
	case errors.Is(err, model.ErrEmptyPool):
		return &httpError{http.StatusConflict, APIError{CodeEmptyPool, "No candidates to draw from"}}
	case errors.Is(err, model.ErrNotEnoughPrizes):
		return &httpError{http.StatusConflict, APIError{CodeNotEnoughPrizes, "At least two prizes are needed to spin"}}
	case errors.Is(err, model.ErrNoEligibleParticipants):
		return &httpError{http.StatusConflict, APIError{CodeNoEligibleParticipants, "All participants for the selected raffles have already been drawn"}}
	case errors.Is(err, model.ErrAlreadyParticipated):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyParticipated, "This email has already participated"}}
	case errors.Is(err, model.ErrAlreadySpun):
		return &httpError{http.StatusConflict, APIError{CodeAlreadySpun, "Participant has already spun"}}
	case errors.Is(err, model.ErrSpinInProgress):
		return &httpError{http.StatusConflict, APIError{CodeSpinInProgress, "A spin is already in progress"}}
	case errors.Is(err, model.ErrSessionCancelled):
		return &httpError{http.StatusConflict, APIError{CodeSpinInProgress, "The spin session was cancelled"}}
	case errors.Is(err, model.ErrInvalidCode):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCode, "Invalid collaborator code"}}
	case errors.Is(err, model.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired spin token"}}
	case errors.Is(err, model.ErrRemoteUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeRemoteUnavailable, "Backing store is unavailable, try again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
