package response

import (
	"time"

	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/raffle"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
)

// Company represents a company in API responses
type Company struct {
	ID          string   `json:"id"`
	EventID     string   `json:"event_id"`
	Name        string   `json:"name"`
	LogoURL     string   `json:"logo_url,omitempty"`
	WheelColors []string `json:"wheel_colors,omitempty"`
}

// CompanyFromModel converts a model.Company to a response Company
func CompanyFromModel(c *model.Company) Company {
	return Company{
		ID:          string(c.ID),
		EventID:     string(c.EventID),
		Name:        c.Name,
		LogoURL:     c.LogoURL,
		WheelColors: c.WheelColors,
	}
}

// Prize represents a wheel prize
type Prize struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// PrizeFromModel converts model.Prize
func PrizeFromModel(p *model.Prize) Prize {
	return Prize{
		ID:       string(p.ID),
		Name:     p.Name,
		Position: p.Position,
	}
}

// PrizesFromModel converts a prize slice, keeping wheel order
func PrizesFromModel(prizes []*model.Prize) []Prize {
	out := make([]Prize, len(prizes))
	for i, p := range prizes {
		out[i] = PrizeFromModel(p)
	}
	return out
}

// Participant represents a participant in API responses
type Participant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	PrizeName string     `json:"prize_name,omitempty"`
	SpunAt    *time.Time `json:"spun_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ParticipantFromModel converts model.Participant
func ParticipantFromModel(p *model.Participant) Participant {
	return Participant{
		ID:        string(p.ID),
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		PrizeName: p.PrizeName,
		SpunAt:    p.SpunAt,
		CreatedAt: p.CreatedAt,
	}
}

// ParticipantsFromModel converts a participant slice
func ParticipantsFromModel(participants []*model.Participant) []Participant {
	out := make([]Participant, len(participants))
	for i, p := range participants {
		out[i] = ParticipantFromModel(p)
	}
	return out
}

// VerifyCodeResponse is the response for collaborator code verification
type VerifyCodeResponse struct {
	SpinToken string    `json:"spin_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyCodeResponseFromToken creates a VerifyCodeResponse from a token
func VerifyCodeResponseFromToken(t *registration.SpinToken) VerifyCodeResponse {
	return VerifyCodeResponse{
		SpinToken: t.Token,
		ExpiresAt: t.ExpiresAt,
	}
}

// Collaborator represents a collaborator in API responses. The code is
// only returned on creation; afterwards only its hash exists.
type Collaborator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CollaboratorFromModel converts model.Collaborator
func CollaboratorFromModel(c *model.Collaborator) Collaborator {
	return Collaborator{
		ID:   string(c.ID),
		Name: c.Name,
	}
}

// SpinState is the renderable view of a wheel spin
type SpinState struct {
	Phase          string     `json:"phase"`
	WinnerIndex    int        `json:"winner_index"`
	TargetAngleDeg float64    `json:"target_angle_deg,omitempty"`
	PrizeName      string     `json:"prize_name,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
	CommitError    string     `json:"commit_error,omitempty"`
}

// SpinStateFromSnapshot converts a spin snapshot. prizeName only
// applies once the spin has settled.
func SpinStateFromSnapshot(s model.SpinSnapshot, prizeName string) SpinState {
	state := SpinState{
		Phase:       string(s.Phase),
		WinnerIndex: s.WinnerIndex,
		StartedAt:   s.StartedAt,
		SettledAt:   s.SettledAt,
		CommitError: s.CommitError,
	}
	if s.HasTarget {
		state.TargetAngleDeg = s.TargetAngleDeg
	}
	if s.Phase == model.SpinPhaseSettled {
		state.PrizeName = prizeName
	}
	return state
}

// Raffle represents a raffle in API responses
type Raffle struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

// RaffleFromModel converts model.Raffle
func RaffleFromModel(r *model.Raffle) Raffle {
	return Raffle{
		ID:      string(r.ID),
		EventID: string(r.EventID),
		Name:    r.Name,
	}
}

// EligibleResponse reports the entry pool for a raffle selection
type EligibleResponse struct {
	EligibleCount int `json:"eligible_count"`
}

// DrawWinner represents a drawn winner. The phone is masked for
// on-stage display.
type DrawWinner struct {
	RaffleID        string    `json:"raffle_id"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	Phone           string    `json:"phone,omitempty"`
	DrawnAt         time.Time `json:"drawn_at"`
}

// DrawWinnerFromModel converts model.DrawResult
func DrawWinnerFromModel(r *model.DrawResult) DrawWinner {
	return DrawWinner{
		RaffleID:        string(r.RaffleID),
		ParticipantID:   string(r.ParticipantID),
		ParticipantName: r.ParticipantName,
		Phone:           r.ParticipantPhoneMasked,
		DrawnAt:         r.DrawnAt,
	}
}

// DrawState is the renderable view of an organizer draw
type DrawState struct {
	DrawID    string      `json:"draw_id"`
	Phase     string      `json:"phase"`
	Countdown int         `json:"countdown"`
	Winner    *DrawWinner `json:"winner,omitempty"`
	RaffleIDs []string    `json:"raffle_ids"`
	Error     string      `json:"error,omitempty"`
}

// DrawStateFromSnapshot converts a draw snapshot
func DrawStateFromSnapshot(s raffle.Snapshot) DrawState {
	raffleIDs := make([]string, len(s.RaffleIDs))
	for i, id := range s.RaffleIDs {
		raffleIDs[i] = string(id)
	}
	state := DrawState{
		DrawID:    string(s.DrawID),
		Phase:     s.Phase,
		Countdown: s.Countdown,
		RaffleIDs: raffleIDs,
		Error:     s.Error,
	}
	if s.Winner != nil {
		w := DrawWinnerFromModel(s.Winner)
		state.Winner = &w
	}
	return state
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
