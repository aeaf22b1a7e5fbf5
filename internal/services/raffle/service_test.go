package raffle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/expoprize/prizewheel-go/internal/dependencies/mocks"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/draw"
	"github.com/expoprize/prizewheel-go/internal/storage/memory"
	"github.com/expoprize/prizewheel-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context

	snapshots []Snapshot
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	engine := draw.NewEngine(s.random)
	s.service = New(s.storage, s.clock, engine, s.random, testutil.NopLogger(), DefaultConfig())
	s.ctx = context.Background()
	s.snapshots = nil

	s.Require().NoError(s.storage.SaveRaffle(s.ctx, &model.Raffle{ID: "r1", EventID: "ev-1", Name: "Main raffle"}))
	s.Require().NoError(s.storage.SaveRaffle(s.ctx, &model.Raffle{ID: "r2", EventID: "ev-1", Name: "Side raffle"}))
}

func (s *ServiceSuite) observer(snap Snapshot) {
	s.snapshots = append(s.snapshots, snap)
}

func (s *ServiceSuite) enter(raffleID model.RaffleID, id, name, phone string) {
	s.Require().NoError(s.storage.SaveParticipant(s.ctx, &model.Participant{
		ID:        model.ParticipantID(id),
		RaffleID:  raffleID,
		Name:      name,
		Phone:     phone,
		CreatedAt: s.clock.Now(),
	}))
}

// Eligibility tests

func (s *ServiceSuite) TestEligibleCountsEntrants() {
	s.enter("r1", "p1", "Alice", "")
	s.enter("r1", "p2", "Bob", "")

	count, err := s.service.EligibleCount(s.ctx, []model.RaffleID{"r1"})
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *ServiceSuite) TestEligibleUnknownRaffle() {
	_, err := s.service.Eligible(s.ctx, []model.RaffleID{"r-missing"})
	s.ErrorIs(err, model.ErrRaffleNotFound)
}

func (s *ServiceSuite) TestEligibleExcludesPastWinners() {
	s.enter("r1", "p1", "Alice", "")
	s.enter("r1", "p2", "Bob", "")
	s.Require().NoError(s.storage.SaveDrawResult(s.ctx, &model.DrawResult{
		RaffleID:      "r1",
		ParticipantID: "p1",
	}))

	entries, err := s.service.Eligible(s.ctx, []model.RaffleID{"r1"})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.ParticipantID("p2"), entries[0].Participant.ID)
}

func (s *ServiceSuite) TestEligibleSpansRaffles() {
	s.enter("r1", "p1", "Alice", "")
	s.enter("r2", "p2", "Bob", "")

	count, err := s.service.EligibleCount(s.ctx, []model.RaffleID{"r1", "r2"})
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Draw tests

func (s *ServiceSuite) TestStartDrawRunsCountdownThenPicksWinner() {
	s.enter("r1", "p1", "Alice", "")
	s.enter("r1", "p2", "Bob", "")
	s.random.QueueString("draw-001")
	s.random.QueueIntn(1) // picks Bob

	d, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, s.observer)
	s.Require().NoError(err)

	snap := d.Snapshot()
	s.Equal(DrawPhaseCountdown, snap.Phase)
	s.Equal(5, snap.Countdown)

	// Four ticks count down without drawing.
	s.clock.Advance(4 * time.Second)
	snap = d.Snapshot()
	s.Equal(DrawPhaseCountdown, snap.Phase)
	s.Equal(1, snap.Countdown)

	// The fifth tick performs the draw.
	s.clock.Advance(time.Second)
	snap = d.Snapshot()
	s.Equal(DrawPhaseComplete, snap.Phase)
	s.Require().NotNil(snap.Winner)
	s.Equal(model.ParticipantID("p2"), snap.Winner.ParticipantID)
	s.Equal("Bob", snap.Winner.ParticipantName)
	s.Equal(s.clock.Now(), snap.Winner.DrawnAt)
}

func (s *ServiceSuite) TestWinnerIsPersisted() {
	s.enter("r1", "p1", "Alice", "")
	s.random.QueueString("draw-001")
	s.random.QueueIntn(0)

	_, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Second)

	results, err := s.storage.GetDrawResultsForRaffle(s.ctx, "r1")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(model.ParticipantID("p1"), results[0].ParticipantID)
}

func (s *ServiceSuite) TestWinnerExcludedFromNextDraw() {
	s.enter("r1", "p1", "Alice", "")
	s.enter("r1", "p2", "Bob", "")
	s.random.QueueString("draw-001", "draw-002")
	s.random.QueueIntn(0, 0)

	_, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Second)

	second, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Second)

	snap := second.Snapshot()
	s.Require().NotNil(snap.Winner)
	s.Equal(model.ParticipantID("p2"), snap.Winner.ParticipantID)
}

func (s *ServiceSuite) TestWinnerPhoneIsMasked() {
	s.enter("r1", "p1", "Alice", "(11) 98765-4321")
	s.random.QueueString("draw-001")
	s.random.QueueIntn(0)

	d, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Second)

	snap := d.Snapshot()
	s.Require().NotNil(snap.Winner)
	s.Equal("(11) 9****-4321", snap.Winner.ParticipantPhoneMasked)
}

func (s *ServiceSuite) TestStartDrawEmptyPool() {
	_, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.ErrorIs(err, model.ErrNoEligibleParticipants)
}

func (s *ServiceSuite) TestStartDrawNoRaffles() {
	_, err := s.service.StartDraw(s.ctx, nil, nil)
	s.ErrorIs(err, model.ErrRaffleNotFound)
}

func (s *ServiceSuite) TestPoolReEvaluatedAtCountdownEnd() {
	s.enter("r1", "p1", "Alice", "")
	s.random.QueueString("draw-001")
	s.random.QueueIntn(1) // valid only against the grown pool

	d, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)

	// Bob registers while the countdown runs.
	s.clock.Advance(2 * time.Second)
	s.enter("r1", "p2", "Bob", "")
	s.clock.Advance(3 * time.Second)

	snap := d.Snapshot()
	s.Equal(DrawPhaseComplete, snap.Phase)
	s.Equal(model.ParticipantID("p2"), snap.Winner.ParticipantID)
}

func (s *ServiceSuite) TestDrawFailsWhenPoolDrainsDuringCountdown() {
	s.enter("r1", "p1", "Alice", "")
	s.random.QueueString("draw-001")

	d, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, s.observer)
	s.Require().NoError(err)

	// Alice wins through another channel mid-countdown.
	s.Require().NoError(s.storage.SaveDrawResult(s.ctx, &model.DrawResult{
		RaffleID:      "r1",
		ParticipantID: "p1",
	}))
	s.clock.Advance(5 * time.Second)

	snap := d.Snapshot()
	s.Equal(DrawPhaseFailed, snap.Phase)
	s.ErrorIs(d.Err(), model.ErrNoEligibleParticipants)

	results, _ := s.storage.GetDrawResultsForRaffle(s.ctx, "r1")
	s.Len(results, 1) // only the out-of-band one
}

func (s *ServiceSuite) TestCancelDuringCountdown() {
	s.enter("r1", "p1", "Alice", "")
	s.random.QueueString("draw-001")

	d, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)
	s.clock.Advance(2 * time.Second)

	s.Require().NoError(s.service.CancelDraw(d.Snapshot().DrawID))
	s.clock.Advance(10 * time.Second)

	snap := d.Snapshot()
	s.Equal(DrawPhaseCancelled, snap.Phase)
	s.Nil(snap.Winner)

	results, _ := s.storage.GetDrawResultsForRaffle(s.ctx, "r1")
	s.Empty(results)
}

func (s *ServiceSuite) TestCancelAfterCompleteIsNoOp() {
	s.enter("r1", "p1", "Alice", "")
	s.random.QueueString("draw-001")
	s.random.QueueIntn(0)

	d, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Second)

	s.Require().NoError(s.service.CancelDraw(d.Snapshot().DrawID))
	s.Equal(DrawPhaseComplete, d.Snapshot().Phase)
}

func (s *ServiceSuite) TestCancelUnknownDraw() {
	err := s.service.CancelDraw("dr_missing")
	s.ErrorIs(err, model.ErrDrawNotFound)
}

func (s *ServiceSuite) TestGetDraw() {
	s.enter("r1", "p1", "Alice", "")
	s.random.QueueString("draw-001")
	s.random.QueueIntn(0)

	d, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, nil)
	s.Require().NoError(err)

	got, err := s.service.GetDraw(d.Snapshot().DrawID)
	s.Require().NoError(err)
	s.Same(d, got)

	_, err = s.service.GetDraw("dr_missing")
	s.ErrorIs(err, model.ErrDrawNotFound)
}

func (s *ServiceSuite) TestObserverSeesTicksAndResult() {
	s.enter("r1", "p1", "Alice", "")
	s.random.QueueString("draw-001")
	s.random.QueueIntn(0)

	_, err := s.service.StartDraw(s.ctx, []model.RaffleID{"r1"}, s.observer)
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Second)

	s.Require().NotEmpty(s.snapshots)
	s.Equal(5, s.snapshots[0].Countdown)
	last := s.snapshots[len(s.snapshots)-1]
	s.Equal(DrawPhaseComplete, last.Phase)
	s.NotNil(last.Winner)
}

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"full mobile with area code", "(11) 98765-4321", "(11) 9****-4321"},
		{"landline with area code", "(11) 3456-7890", "(11) ****-7890"},
		{"five digit local no area code", "98765-4321", "9****-4321"},
		{"four digit local no area code", "3456-7890", "****-7890"},
		{"no hyphen", "11987654321", "11987654321"},
		{"two hyphens", "1-2-3", "1-2-3"},
		{"unexpected local length", "(11) 123-4567", "(11) 123-4567"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MaskPhone(tc.in))
		})
	}
}
