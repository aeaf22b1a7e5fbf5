package model

import "time"

// RaffleID uniquely identifies an organizer raffle
type RaffleID string

// DrawID identifies one organizer draw invocation
type DrawID string

// Raffle groups participants for the organizer-side draw. An event may run
// several raffles; a draw can span any selection of them.
type Raffle struct {
	ID      RaffleID
	EventID EventID
	Name    string

	CreatedAt time.Time
}

// DrawResult is the durable record of one raffle win: participant X won
// raffle R at time T. Written once per (raffle, participant); eligibility
// filtering excludes prior winners, so a participant is never drawn twice
// for the same raffle.
type DrawResult struct {
	RaffleID        RaffleID
	ParticipantID   ParticipantID
	ParticipantName string

	// ParticipantPhoneMasked is the winner's phone in its on-stage form,
	// masked at draw time so the raw number never leaves storage with
	// the result.
	ParticipantPhoneMasked string

	DrawnAt time.Time
}
