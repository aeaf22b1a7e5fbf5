package model

import "time"

// CompanyID uniquely identifies an exhibiting company (a booth)
type CompanyID string

// EventID uniquely identifies a trade-show event
type EventID string

// Company represents an exhibitor booth that runs a prize wheel
type Company struct {
	ID      CompanyID
	EventID EventID
	Name    string
	LogoURL string

	// WheelColors override the default slice palette, in slice order
	WheelColors []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
