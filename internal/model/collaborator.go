package model

import "time"

// CollaboratorID uniquely identifies a booth collaborator
type CollaboratorID string

// Collaborator is a booth staff member whose personal code unlocks the
// wheel for a registered attendee. Codes are stored hashed;
// the plaintext code is normalized to upper case before comparison.
type Collaborator struct {
	ID        CollaboratorID
	CompanyID CompanyID
	Name      string
	CodeHash  string // bcrypt hash of the upper-cased code
	CreatedAt time.Time
}
