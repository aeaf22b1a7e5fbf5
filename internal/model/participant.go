package model

import "time"

// ParticipantID uniquely identifies a participant
type ParticipantID string

// Participant is an attendee registered at a booth's wheel, or an entrant
// in an organizer raffle (RaffleID set). Created with no prize and no spin
// timestamp; PrizeName and SpunAt are set together, exactly once, when a
// spin settles.
type Participant struct {
	ID        ParticipantID
	CompanyID CompanyID
	RaffleID  RaffleID // empty unless entered via a raffle
	Name      string
	Email     string // lowercased; empty when not provided
	Phone     string // empty when not provided

	PrizeName string
	SpunAt    *time.Time

	CreatedAt time.Time
}

// HasSpun reports whether a spin has already been recorded for this
// participant. Once true, no code path may record another.
func (p *Participant) HasSpun() bool {
	return p.SpunAt != nil
}
