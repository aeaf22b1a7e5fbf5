package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/raffle"
)

// Broadcaster pushes wheel and draw state changes to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

type spinEventPayload struct {
	Phase          string     `json:"phase"`
	WinnerIndex    int        `json:"winner_index"`
	TargetAngleDeg float64    `json:"target_angle_deg,omitempty"`
	PrizeName      string     `json:"prize_name,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
	CommitError    string     `json:"commit_error,omitempty"`
}

// BroadcastSpinUpdate pushes a wheel phase transition to the company's
// channel. prizeName is only meaningful once settled.
func (b *Broadcaster) BroadcastSpinUpdate(companyID model.CompanyID, snapshot model.SpinSnapshot, prizeName string) {
	hub := b.hubManager.GetHub(ChannelForCompany(companyID))
	if hub == nil {
		return
	}

	payload := spinEventPayload{
		Phase:       string(snapshot.Phase),
		WinnerIndex: snapshot.WinnerIndex,
		StartedAt:   snapshot.StartedAt,
		SettledAt:   snapshot.SettledAt,
		CommitError: snapshot.CommitError,
	}
	if snapshot.HasTarget {
		payload.TargetAngleDeg = snapshot.TargetAngleDeg
	}
	if snapshot.Phase == model.SpinPhaseSettled {
		payload.PrizeName = prizeName
	}

	b.broadcastJSON(hub, "spin-update", payload)
}

// BroadcastPrizesUpdated signals that the company's prize list changed,
// so connected wheels refetch and redraw their slices
func (b *Broadcaster) BroadcastPrizesUpdated(companyID model.CompanyID, prizeCount int) {
	hub := b.hubManager.GetHub(ChannelForCompany(companyID))
	if hub == nil {
		return
	}

	b.broadcastJSON(hub, "prizes-update", map[string]int{
		"prize_count": prizeCount,
	})
}

type drawEventPayload struct {
	DrawID    model.DrawID     `json:"draw_id"`
	Phase     string           `json:"phase"`
	Countdown int              `json:"countdown"`
	Winner    *drawWinner      `json:"winner,omitempty"`
	RaffleIDs []model.RaffleID `json:"raffle_ids"`
	Error     string           `json:"error,omitempty"`
}

type drawWinner struct {
	RaffleID        model.RaffleID `json:"raffle_id"`
	ParticipantName string         `json:"participant_name"`
	Phone           string         `json:"phone,omitempty"`
	DrawnAt         time.Time      `json:"drawn_at"`
}

// BroadcastDrawUpdate pushes a countdown tick or the final winner to the
// draw's channel
func (b *Broadcaster) BroadcastDrawUpdate(snapshot raffle.Snapshot) {
	hub := b.hubManager.GetHub(ChannelForDraw(snapshot.DrawID))
	if hub == nil {
		return
	}

	payload := drawEventPayload{
		DrawID:    snapshot.DrawID,
		Phase:     snapshot.Phase,
		Countdown: snapshot.Countdown,
		RaffleIDs: snapshot.RaffleIDs,
		Error:     snapshot.Error,
	}
	if snapshot.Winner != nil {
		payload.Winner = &drawWinner{
			RaffleID:        snapshot.Winner.RaffleID,
			ParticipantName: snapshot.Winner.ParticipantName,
			Phone:           snapshot.Winner.ParticipantPhoneMasked,
			DrawnAt:         snapshot.Winner.DrawnAt,
		}
	}

	b.broadcastJSON(hub, "draw-update", payload)
}

func (b *Broadcaster) broadcastJSON(hub *Hub, eventName string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("sse payload marshal failed",
			slog.String("event", eventName),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(eventName, string(data))
}
