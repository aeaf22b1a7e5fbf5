package model

import "time"

// SpinPhase represents the current phase of a spin session
type SpinPhase string

const (
	SpinPhaseIdle     SpinPhase = "idle"     // No spin started
	SpinPhaseArmed    SpinPhase = "armed"    // Winner picked, angle computed, animation not yet started
	SpinPhaseSpinning SpinPhase = "spinning" // Animation in flight
	SpinPhaseSettled  SpinPhase = "settled"  // Terminal: winner revealed, persistence triggered
)

// SpinSnapshot is the renderable view of a spin session at one instant.
// The rendering layer interpolates the visual rotation from its current
// angle to TargetAngleDeg over the configured spin duration; the winner is
// fixed before the snapshot ever reports armed.
type SpinSnapshot struct {
	Phase          SpinPhase
	WinnerIndex    int // -1 until armed
	TargetAngleDeg float64
	HasTarget      bool
	StartedAt      time.Time
	SettledAt      *time.Time

	// CommitError is set when the settled outcome could not be
	// persisted. The draw stands; the write is retryable.
	CommitError string
}
