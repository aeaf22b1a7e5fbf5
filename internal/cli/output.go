package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Company:
		o.printCompany(v)
	case Prize:
		o.printPrize(v)
	case []Prize:
		o.printPrizes(v)
	case Participant:
		o.printParticipant(v)
	case []Participant:
		o.printParticipants(v)
	case VerifyResult:
		o.printVerifyResult(v)
	case SpinState:
		o.printSpinState(v)
	case Raffle:
		o.printRaffle(v)
	case EligibleResult:
		o.printEligibleResult(v)
	case DrawState:
		o.printDrawState(v)
	case []DrawWinner:
		o.printDrawWinners(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Company response type (matches API)
type Company struct {
	ID          string   `json:"id"`
	EventID     string   `json:"event_id"`
	Name        string   `json:"name"`
	LogoURL     string   `json:"logo_url,omitempty"`
	WheelColors []string `json:"wheel_colors,omitempty"`
}

// Prize response type
type Prize struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Participant response type
type Participant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	PrizeName string     `json:"prize_name,omitempty"`
	SpunAt    *time.Time `json:"spun_at,omitempty"`
}

// VerifyResult response type
type VerifyResult struct {
	SpinToken string    `json:"spin_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SpinState response type
type SpinState struct {
	Phase          string     `json:"phase"`
	WinnerIndex    int        `json:"winner_index"`
	TargetAngleDeg float64    `json:"target_angle_deg,omitempty"`
	PrizeName      string     `json:"prize_name,omitempty"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
	CommitError    string     `json:"commit_error,omitempty"`
}

// Raffle response type
type Raffle struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

// EligibleResult response type
type EligibleResult struct {
	EligibleCount int `json:"eligible_count"`
}

// DrawWinner response type
type DrawWinner struct {
	RaffleID        string    `json:"raffle_id"`
	ParticipantName string    `json:"participant_name"`
	Phone           string    `json:"phone,omitempty"`
	DrawnAt         time.Time `json:"drawn_at"`
}

// DrawState response type
type DrawState struct {
	DrawID    string      `json:"draw_id"`
	Phase     string      `json:"phase"`
	Countdown int         `json:"countdown"`
	Winner    *DrawWinner `json:"winner,omitempty"`
	RaffleIDs []string    `json:"raffle_ids"`
	Error     string      `json:"error,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printCompany(c Company) {
	fmt.Printf("Company: %s (%s)\n", c.Name, c.ID)
	if c.EventID != "" {
		fmt.Printf("Event: %s\n", c.EventID)
	}
	if c.LogoURL != "" {
		fmt.Printf("Logo: %s\n", c.LogoURL)
	}
}

func (o *Output) printPrize(p Prize) {
	fmt.Printf("Prize: %s (%s) at position %d\n", p.Name, p.ID, p.Position)
}

func (o *Output) printPrizes(prizes []Prize) {
	fmt.Printf("Prizes (%d):\n", len(prizes))
	for _, p := range prizes {
		fmt.Printf("  %d. %s (%s)\n", p.Position, p.Name, p.ID)
	}
}

func (o *Output) printParticipant(p Participant) {
	fmt.Printf("Participant: %s (%s)\n", p.Name, p.ID)
	if p.Email != "" {
		fmt.Printf("Email: %s\n", p.Email)
	}
	if p.SpunAt != nil {
		fmt.Printf("Spun: %s -> %s\n", p.SpunAt.Format("2006-01-02 15:04:05"), p.PrizeName)
	}
}

func (o *Output) printParticipants(participants []Participant) {
	fmt.Printf("Participants (%d):\n", len(participants))
	for _, p := range participants {
		status := "not spun"
		if p.SpunAt != nil {
			status = "won " + p.PrizeName
		}
		fmt.Printf("  - %s (%s) - %s\n", p.Name, p.Email, status)
	}
}

func (o *Output) printVerifyResult(v VerifyResult) {
	fmt.Printf("Token: %s\n", v.SpinToken)
	fmt.Printf("Expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04:05"))
}

func (o *Output) printSpinState(s SpinState) {
	fmt.Printf("Phase: %s\n", s.Phase)
	if s.WinnerIndex >= 0 {
		fmt.Printf("Winner index: %d\n", s.WinnerIndex)
	}
	if s.TargetAngleDeg != 0 {
		fmt.Printf("Target angle: %.2f deg\n", s.TargetAngleDeg)
	}
	if s.PrizeName != "" {
		fmt.Printf("Prize: %s\n", s.PrizeName)
	}
	if s.CommitError != "" {
		fmt.Printf("Commit error: %s\n", s.CommitError)
	}
}

func (o *Output) printRaffle(r Raffle) {
	fmt.Printf("Raffle: %s (%s)\n", r.Name, r.ID)
	if r.EventID != "" {
		fmt.Printf("Event: %s\n", r.EventID)
	}
}

func (o *Output) printEligibleResult(e EligibleResult) {
	fmt.Printf("Eligible entries: %d\n", e.EligibleCount)
}

func (o *Output) printDrawState(d DrawState) {
	fmt.Printf("Draw: %s\n", d.DrawID)
	fmt.Printf("Phase: %s\n", d.Phase)
	if d.Phase == "countdown" {
		fmt.Printf("Countdown: %d\n", d.Countdown)
	}
	if d.Winner != nil {
		fmt.Printf("Winner: %s", d.Winner.ParticipantName)
		if d.Winner.Phone != "" {
			fmt.Printf(" (%s)", d.Winner.Phone)
		}
		fmt.Println()
	}
	if d.Error != "" {
		fmt.Printf("Error: %s\n", d.Error)
	}
}

func (o *Output) printDrawWinners(winners []DrawWinner) {
	fmt.Printf("Winners (%d):\n", len(winners))
	for _, w := range winners {
		fmt.Printf("  - %s at %s\n", w.ParticipantName, w.DrawnAt.Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
