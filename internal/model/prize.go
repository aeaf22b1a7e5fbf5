package model

import "time"

// PrizeID uniquely identifies a prize
type PrizeID string

// Prize is one slice on a company's wheel.
// The ordered prize list defines slice order, so Position is significant:
// the angle a spin lands on is derived from the prize's index.
type Prize struct {
	ID        PrizeID
	CompanyID CompanyID
	Name      string
	Position  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MinPrizesForSpin is the smallest wheel that can be spun.
// A single-slice wheel is not a draw, so arming is rejected below this.
const MinPrizesForSpin = 2
