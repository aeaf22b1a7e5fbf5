package raffle

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/draw"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// Draw phases
const (
	DrawPhaseCountdown = "countdown"
	DrawPhaseComplete  = "complete"
	DrawPhaseFailed    = "failed"
	DrawPhaseCancelled = "cancelled"
)

// Config holds configuration for organizer draws
type Config struct {
	// CountdownFrom is the number the on-stage countdown starts at
	CountdownFrom int

	// TickInterval is the delay between countdown numbers
	TickInterval time.Duration
}

// DefaultConfig returns default draw configuration
func DefaultConfig() Config {
	return Config{
		CountdownFrom: 5,
		TickInterval:  time.Second,
	}
}

// Snapshot is the renderable view of a running or finished draw
type Snapshot struct {
	DrawID    model.DrawID        `json:"draw_id"`
	Phase     string              `json:"phase"`
	Countdown int                 `json:"countdown"`
	Winner    *model.DrawResult   `json:"winner,omitempty"`
	RaffleIDs []model.RaffleID    `json:"raffle_ids"`
	Error     string              `json:"error,omitempty"`
}

// SnapshotFunc observes draw transitions
type SnapshotFunc func(Snapshot)

// Draw is one on-stage countdown draw over a selection of raffles
type Draw struct {
	mu        sync.Mutex
	id        model.DrawID
	raffleIDs []model.RaffleID
	phase     string
	countdown int
	winner    *model.DrawResult
	err       error
	cancelled bool
	timer     clock.Timer
	observer  SnapshotFunc
}

// Snapshot returns the draw's current renderable state
func (d *Draw) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Draw) snapshotLocked() Snapshot {
	snap := Snapshot{
		DrawID:    d.id,
		Phase:     d.phase,
		Countdown: d.countdown,
		Winner:    d.winner,
		RaffleIDs: d.raffleIDs,
	}
	if d.err != nil {
		snap.Error = d.err.Error()
	}
	return snap
}

// Err returns the draw's failure, if it failed
func (d *Draw) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Service runs organizer raffle draws: multi-raffle eligibility, the
// on-stage countdown, winner selection and result persistence.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	engine  *draw.Engine
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	mu    sync.Mutex
	draws map[model.DrawID]*Draw
}

// New creates a raffle draw service
func New(
	store storage.Storage,
	clk clock.Clock,
	engine *draw.Engine,
	rnd random.Random,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.CountdownFrom == 0 {
		cfg.CountdownFrom = DefaultConfig().CountdownFrom
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	return &Service{
		storage: store,
		clock:   clk,
		engine:  engine,
		random:  rnd,
		logger:  logger,
		cfg:     cfg,
		draws:   make(map[model.DrawID]*Draw),
	}
}

// Eligible returns the entries still in the running across the selected
// raffles: every registered participant of each raffle, minus that
// raffle's past winners. A participant registered in several of the
// selected raffles holds one entry per raffle.
func (s *Service) Eligible(ctx context.Context, raffleIDs []model.RaffleID) ([]draw.Entry, error) {
	participantsByRaffle := make(map[model.RaffleID][]*model.Participant, len(raffleIDs))
	winners := make(map[model.RaffleID]map[model.ParticipantID]bool, len(raffleIDs))

	for _, raffleID := range raffleIDs {
		if _, err := s.storage.GetRaffle(ctx, raffleID); err != nil {
			return nil, err
		}
		participants, err := s.storage.GetParticipantsForRaffle(ctx, raffleID)
		if err != nil {
			return nil, err
		}
		results, err := s.storage.GetDrawResultsForRaffle(ctx, raffleID)
		if err != nil {
			return nil, err
		}
		participantsByRaffle[raffleID] = participants
		winners[raffleID] = draw.WinnerSet(results)
	}

	return draw.EligibleEntries(participantsByRaffle, raffleIDs, winners), nil
}

// EligibleCount returns how many entries the selection currently holds
func (s *Service) EligibleCount(ctx context.Context, raffleIDs []model.RaffleID) (int, error) {
	entries, err := s.Eligible(ctx, raffleIDs)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// StartDraw begins a countdown draw over the selected raffles. The pool
// must be non-empty when the draw starts; the winner is picked from the
// pool as it stands when the countdown finishes.
func (s *Service) StartDraw(ctx context.Context, raffleIDs []model.RaffleID, observer SnapshotFunc) (*Draw, error) {
	if len(raffleIDs) == 0 {
		return nil, model.ErrRaffleNotFound
	}

	entries, err := s.Eligible(ctx, raffleIDs)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, model.ErrNoEligibleParticipants
	}

	d := &Draw{
		id:        model.DrawID("dr_" + s.random.String(12, random.IDAlphabet)),
		raffleIDs: raffleIDs,
		phase:     DrawPhaseCountdown,
		countdown: s.cfg.CountdownFrom,
		observer:  observer,
	}

	s.mu.Lock()
	s.draws[d.id] = d
	s.mu.Unlock()

	s.logger.Info("draw started",
		slog.String("draw_id", string(d.id)),
		slog.Int("eligible", len(entries)),
	)

	d.timer = s.clock.AfterFunc(s.cfg.TickInterval, func() { s.tick(d) })
	emit(observer, d.Snapshot())
	return d, nil
}

// tick advances the countdown by one; the last tick performs the draw
func (s *Service) tick(d *Draw) {
	d.mu.Lock()
	if d.cancelled || d.phase != DrawPhaseCountdown {
		d.mu.Unlock()
		return
	}
	d.countdown--
	if d.countdown > 0 {
		d.timer = s.clock.AfterFunc(s.cfg.TickInterval, func() { s.tick(d) })
		snapshot := d.snapshotLocked()
		observer := d.observer
		d.mu.Unlock()
		emit(observer, snapshot)
		return
	}
	raffleIDs := d.raffleIDs
	observer := d.observer
	d.mu.Unlock()

	emit(observer, d.Snapshot())
	s.finish(d, raffleIDs)
}

// finish picks the winner from the pool as it stands now and records it
func (s *Service) finish(d *Draw, raffleIDs []model.RaffleID) {
	ctx := context.Background()

	winner, err := s.drawWinner(ctx, raffleIDs)

	d.mu.Lock()
	if d.cancelled {
		d.mu.Unlock()
		return
	}
	if err != nil {
		d.phase = DrawPhaseFailed
		d.err = err
	} else {
		d.phase = DrawPhaseComplete
		d.winner = winner
	}
	snapshot := d.snapshotLocked()
	observer := d.observer
	d.mu.Unlock()

	if err != nil {
		s.logger.Error("draw failed",
			slog.String("draw_id", string(d.id)),
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Info("draw complete",
			slog.String("draw_id", string(d.id)),
			slog.String("raffle_id", string(winner.RaffleID)),
			slog.String("participant_id", string(winner.ParticipantID)),
		)
	}
	emit(observer, snapshot)
}

func (s *Service) drawWinner(ctx context.Context, raffleIDs []model.RaffleID) (*model.DrawResult, error) {
	entries, err := s.Eligible(ctx, raffleIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRemoteUnavailable, err)
	}
	if len(entries) == 0 {
		return nil, model.ErrNoEligibleParticipants
	}

	entry, err := draw.Select(s.engine, entries)
	if err != nil {
		return nil, err
	}

	result := &model.DrawResult{
		RaffleID:               entry.RaffleID,
		ParticipantID:          entry.Participant.ID,
		ParticipantName:        entry.Participant.Name,
		ParticipantPhoneMasked: MaskPhone(entry.Participant.Phone),
		DrawnAt:                s.clock.Now(),
	}
	if err := s.storage.SaveDrawResult(ctx, result); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRemoteUnavailable, err)
	}
	return result, nil
}

// GetDraw returns a running or finished draw
func (s *Service) GetDraw(drawID model.DrawID) (*Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.draws[drawID]
	if !ok {
		return nil, model.ErrDrawNotFound
	}
	return d, nil
}

// CancelDraw stops a draw's countdown; no winner is selected or recorded
func (s *Service) CancelDraw(drawID model.DrawID) error {
	s.mu.Lock()
	d, ok := s.draws[drawID]
	s.mu.Unlock()
	if !ok {
		return model.ErrDrawNotFound
	}

	d.mu.Lock()
	if d.cancelled || d.phase != DrawPhaseCountdown {
		d.mu.Unlock()
		return nil
	}
	d.cancelled = true
	d.phase = DrawPhaseCancelled
	if d.timer != nil {
		d.timer.Stop()
	}
	snapshot := d.snapshotLocked()
	observer := d.observer
	d.mu.Unlock()

	emit(observer, snapshot)
	return nil
}

// CancelAll stops every running draw, for server shutdown
func (s *Service) CancelAll() {
	s.mu.Lock()
	ids := make([]model.DrawID, 0, len(s.draws))
	for id := range s.draws {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		_ = s.CancelDraw(id)
	}
}

var areaCodePattern = regexp.MustCompile(`^\(\d{2}\)\s*`)

// MaskPhone hides the middle digits of a phone number for on-stage
// display. Numbers in the (NN) NNNNN-NNNN shape keep their area code,
// first digit and suffix; anything else passes through untouched.
func MaskPhone(phone string) string {
	if phone == "" {
		return phone
	}
	parts := strings.SplitN(phone, "-", 3)
	if len(parts) != 2 {
		return phone
	}
	areaCode := areaCodePattern.FindString(parts[0])
	local := strings.TrimSpace(parts[0][len(areaCode):])
	switch len(local) {
	case 5:
		return areaCode + local[:1] + "****-" + parts[1]
	case 4:
		return areaCode + "****-" + parts[1]
	}
	return phone
}

func emit(observer SnapshotFunc, snapshot Snapshot) {
	if observer != nil {
		observer(snapshot)
	}
}
