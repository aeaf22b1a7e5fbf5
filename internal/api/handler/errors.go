package handler

import (
	"net/http"

	"github.com/expoprize/prizewheel-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest         = apierr.CodeInvalidRequest
	CodeUnauthorized           = apierr.CodeUnauthorized
	CodeCompanyNotFound        = apierr.CodeCompanyNotFound
	CodePrizeNotFound          = apierr.CodePrizeNotFound
	CodeParticipantNotFound    = apierr.CodeParticipantNotFound
	CodeRaffleNotFound         = apierr.CodeRaffleNotFound
	CodeDrawNotFound           = apierr.CodeDrawNotFound
	CodeEmptyPool              = apierr.CodeEmptyPool
	CodeNotEnoughPrizes        = apierr.CodeNotEnoughPrizes
	CodeNoEligibleParticipants = apierr.CodeNoEligibleParticipants
	CodeAlreadyParticipated    = apierr.CodeAlreadyParticipated
	CodeAlreadySpun            = apierr.CodeAlreadySpun
	CodeSpinInProgress         = apierr.CodeSpinInProgress
	CodeInvalidCode            = apierr.CodeInvalidCode
	CodeRemoteUnavailable      = apierr.CodeRemoteUnavailable
	CodeInternalError          = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
