package spin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/draw"
	"github.com/expoprize/prizewheel-go/internal/services/wheel"
)

// Config holds timing and guard settings for spin sessions
type Config struct {
	// MinCandidates is the smallest pool a session will arm for
	MinCandidates int

	// ArmDelay separates arming from the start of the visual transition,
	// so the renderer can deliver the not-yet-rotating frame before the
	// rotating transform is applied. Without two distinct observable
	// states some rendering engines coalesce them and the animation
	// never visibly plays.
	ArmDelay time.Duration

	// SpinDuration is the fixed wall-clock length of the spin animation
	SpinDuration time.Duration
}

// DefaultConfig returns the standard wheel timing
func DefaultConfig() Config {
	return Config{
		MinCandidates: model.MinPrizesForSpin,
		ArmDelay:      50 * time.Millisecond,
		SpinDuration:  5 * time.Second,
	}
}

// CommitFunc persists the outcome once a session settles. It is invoked
// exactly once per settled session, and never after cancellation.
type CommitFunc func(ctx context.Context, winnerIndex int) error

// SnapshotFunc observes each phase transition
type SnapshotFunc func(model.SpinSnapshot)

// Session is the state machine for one draw attempt:
//
//	idle --start--> armed --tick--> spinning --elapse--> settled
//
// A session instance is single-use: settled is terminal, and a new draw
// needs a fresh session (which the participation guard may refuse).
type Session struct {
	clock    clock.Clock
	engine   *draw.Engine
	resolver *wheel.Resolver
	cfg      Config
	logger   *slog.Logger

	mu          sync.Mutex
	phase       model.SpinPhase
	winnerIndex int
	target      wheel.Target
	hasTarget   bool
	startedAt   time.Time
	settledAt   time.Time
	cancelled   bool
	commit      CommitFunc
	commitErr   error
	observer    SnapshotFunc

	armTimer    clock.Timer
	settleTimer clock.Timer
}

// NewSession creates an idle spin session. resolver may be nil for draws
// with no wheel animation.
func NewSession(clk clock.Clock, engine *draw.Engine, resolver *wheel.Resolver, cfg Config, logger *slog.Logger) *Session {
	if cfg.MinCandidates == 0 {
		cfg.MinCandidates = DefaultConfig().MinCandidates
	}
	if cfg.SpinDuration == 0 {
		cfg.SpinDuration = DefaultConfig().SpinDuration
	}
	return &Session{
		clock:       clk,
		engine:      engine,
		resolver:    resolver,
		cfg:         cfg,
		logger:      logger,
		phase:       model.SpinPhaseIdle,
		winnerIndex: -1,
	}
}

// OnSnapshot registers an observer for phase transitions. Must be set
// before Start; the observer is called outside the session lock.
func (s *Session) OnSnapshot(fn SnapshotFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// Start arms the session: the winner is picked, the target angle is
// resolved and the arm tick is scheduled. Starting a session that is not
// idle is a no-op, not an error, so a double-click cannot produce a
// second draw. The pool must hold at least cfg.MinCandidates.
func (s *Session) Start(candidateCount int, commit CommitFunc) error {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return model.ErrSessionCancelled
	}
	if s.phase != model.SpinPhaseIdle {
		s.mu.Unlock()
		return nil
	}
	if candidateCount < s.cfg.MinCandidates {
		s.mu.Unlock()
		return model.ErrNotEnoughPrizes
	}

	idx, err := s.engine.PickIndex(candidateCount)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if s.resolver != nil {
		target, err := s.resolver.Resolve(idx, candidateCount)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.target = target
		s.hasTarget = true
	}

	s.winnerIndex = idx
	s.commit = commit
	s.phase = model.SpinPhaseArmed
	s.startedAt = s.clock.Now()
	s.armTimer = s.clock.AfterFunc(s.cfg.ArmDelay, s.beginSpin)

	snapshot := s.snapshotLocked()
	observer := s.observer
	s.mu.Unlock()

	s.logger.Info("spin armed",
		slog.Int("winner_index", idx),
		slog.Int("candidates", candidateCount),
	)

	emit(observer, snapshot)
	return nil
}

// beginSpin runs on the arm tick: the renderer has seen the armed frame,
// so the rotating transform may now be applied.
func (s *Session) beginSpin() {
	s.mu.Lock()
	if s.cancelled || s.phase != model.SpinPhaseArmed {
		s.mu.Unlock()
		return
	}
	s.phase = model.SpinPhaseSpinning
	s.settleTimer = s.clock.AfterFunc(s.cfg.SpinDuration, s.settle)

	snapshot := s.snapshotLocked()
	observer := s.observer
	s.mu.Unlock()

	emit(observer, snapshot)
}

// settle runs when the spin duration elapses: the winner becomes final and
// persistence is triggered. A commit failure does not undo the draw; the
// session still settles (re-running the draw would break at-most-once) and
// the failure is retained for the caller to surface.
func (s *Session) settle() {
	s.mu.Lock()
	if s.cancelled || s.phase != model.SpinPhaseSpinning {
		s.mu.Unlock()
		return
	}
	s.phase = model.SpinPhaseSettled
	s.settledAt = s.clock.Now()
	commit := s.commit
	idx := s.winnerIndex
	s.mu.Unlock()

	var commitErr error
	if commit != nil {
		commitErr = commit(context.Background(), idx)
	}

	s.mu.Lock()
	s.commitErr = commitErr
	snapshot := s.snapshotLocked()
	observer := s.observer
	s.mu.Unlock()

	if commitErr != nil {
		s.logger.Error("spin settled but commit failed",
			slog.Int("winner_index", idx),
			slog.String("error", commitErr.Error()),
		)
	} else {
		s.logger.Info("spin settled", slog.Int("winner_index", idx))
	}

	emit(observer, snapshot)
}

// Cancel tears the session down. Pending timers are stopped; after Cancel
// no transition happens and no commit ever fires.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	if s.armTimer != nil {
		s.armTimer.Stop()
	}
	if s.settleTimer != nil {
		s.settleTimer.Stop()
	}
}

// Phase returns the session's current phase
func (s *Session) Phase() model.SpinPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Active reports whether the session is armed or spinning
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cancelled &&
		(s.phase == model.SpinPhaseArmed || s.phase == model.SpinPhaseSpinning)
}

// WinnerIndex returns the selected winner's index, or -1 before arming
func (s *Session) WinnerIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winnerIndex
}

// CommitErr returns the persistence failure from settlement, if any
func (s *Session) CommitErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitErr
}

// Rotation returns the cumulative rotation the renderer should be at.
// After settlement it is reduced modulo one turn for numerical hygiene;
// the reduction never happens while the animation is in flight.
func (s *Session) Rotation() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTarget {
		return 0
	}
	if s.phase == model.SpinPhaseSettled {
		return wheel.NormalizeRotation(s.target.Degrees)
	}
	return s.target.Degrees
}

// Snapshot returns the renderable view of the session
func (s *Session) Snapshot() model.SpinSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() model.SpinSnapshot {
	snap := model.SpinSnapshot{
		Phase:       s.phase,
		WinnerIndex: s.winnerIndex,
		StartedAt:   s.startedAt,
	}
	if s.hasTarget {
		snap.TargetAngleDeg = s.target.Degrees
		snap.HasTarget = true
	}
	if s.phase == model.SpinPhaseSettled {
		t := s.settledAt
		snap.SettledAt = &t
		if s.commitErr != nil {
			snap.CommitError = s.commitErr.Error()
		}
	}
	return snap
}

func emit(observer SnapshotFunc, snapshot model.SpinSnapshot) {
	if observer != nil {
		observer(snapshot)
	}
}
