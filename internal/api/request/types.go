package request

// CreateCompanyRequest is the request body for creating a company
type CreateCompanyRequest struct {
	EventID     string   `json:"event_id"`
	Name        string   `json:"name"`
	LogoURL     string   `json:"logo_url,omitempty"`
	WheelColors []string `json:"wheel_colors,omitempty"`
}

// RegisterParticipantRequest is the request body for wheel registration
type RegisterParticipantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// VerifyCodeRequest is the request body for collaborator code verification
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// CreateCollaboratorRequest is the request body for creating a collaborator
type CreateCollaboratorRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// SpinRequest is the request body for starting a wheel spin
type SpinRequest struct {
	ParticipantID string `json:"participant_id"`
}

// SavePrizeRequest is the request body for creating or updating a prize
type SavePrizeRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// CreateRaffleRequest is the request body for creating a raffle
type CreateRaffleRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

// EnterRaffleRequest is the request body for entering a participant
// into a raffle
type EnterRaffleRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// StartDrawRequest is the request body for starting an organizer draw
type StartDrawRequest struct {
	RaffleIDs []string `json:"raffle_ids"`
}
