package model

import "errors"

// Common errors used across the application
var (
	// Lookup errors
	ErrCompanyNotFound      = errors.New("company not found")
	ErrPrizeNotFound        = errors.New("prize not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrRaffleNotFound       = errors.New("raffle not found")
	ErrDrawNotFound         = errors.New("draw not found")

	// Draw errors
	ErrEmptyPool              = errors.New("candidate pool is empty")
	ErrNoEligibleParticipants = errors.New("no eligible participants for this draw")
	ErrNotEnoughPrizes        = errors.New("not enough prizes to spin the wheel")

	// Participation errors
	ErrAlreadyParticipated = errors.New("participant has already taken part")
	ErrAlreadySpun         = errors.New("spin already recorded for participant")
	ErrSpinInProgress      = errors.New("a spin is already in progress")
	ErrSessionCancelled    = errors.New("spin session was cancelled")

	// Access errors
	ErrInvalidCode  = errors.New("invalid collaborator code")
	ErrInvalidToken = errors.New("invalid or expired spin token")

	// ErrRemoteUnavailable wraps transient data-service failures.
	// Retryable by the caller; never marks a participant as spent.
	ErrRemoteUnavailable = errors.New("data service unavailable")
)
