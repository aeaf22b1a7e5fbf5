package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/expoprize/prizewheel-go/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createCompany(id string) *model.Company {
	company := &model.Company{
		ID:        model.CompanyID(id),
		EventID:   "ev-1",
		Name:      "Acme Corp",
		CreatedAt: s.app.MockClock.Now(),
	}
	s.Require().NoError(s.app.Storage.SaveCompany(s.ctx, company))
	return company
}

func (s *IntegrationSuite) addPrizes(companyID model.CompanyID, names ...string) []*model.Prize {
	prizes := make([]*model.Prize, len(names))
	for i, name := range names {
		prize := &model.Prize{
			ID:        model.PrizeID("pr_" + name),
			CompanyID: companyID,
			Name:      name,
			Position:  i,
			CreatedAt: s.app.MockClock.Now(),
		}
		s.Require().NoError(s.app.Storage.SavePrize(s.ctx, prize))
		prizes[i] = prize
	}
	return prizes
}

// Test: complete wheel flow from registration through a settled spin
func (s *IntegrationSuite) TestCompleteWheelFlow() {
	company := s.createCompany("co_acme")
	prizes := s.addPrizes(company.ID, "Gold hamper", "Sticker pack", "Tote bag")

	// Step 1: staff code is provisioned and verified
	s.app.MockRandom.QueueString("collab000001")
	_, err := s.app.RegistrationService.CreateCollaborator(s.ctx, company.ID, "Bob", "wheel42")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("token0000000000000000001")
	token, err := s.app.RegistrationService.VerifyCollaborator(s.ctx, company.ID, "WHEEL42")
	s.Require().NoError(err)

	// Step 2: a visitor registers
	s.app.MockRandom.QueueString("participant1")
	participant, err := s.app.RegistrationService.Register(s.ctx, company.ID, "Alice", "Alice@Example.com", "(11) 98765-4321")
	s.Require().NoError(err)
	s.Equal("alice@example.com", participant.Email)

	// Step 3: the spin is started with the token consumed
	s.app.MockRandom.QueueIntn(1, 0)
	commit := func(ctx context.Context, winnerIndex int) error {
		return s.app.Guard.Commit(ctx, company.ID, participant.ID, prizes[winnerIndex].Name)
	}
	session, started, err := s.app.SpinManager.Start(company.ID, len(prizes), commit, nil)
	s.Require().NoError(err)
	s.True(started)
	s.Equal(1, session.WinnerIndex())

	_, err = s.app.RegistrationService.ConsumeToken(token.Token)
	s.Require().NoError(err)

	// Step 4: the animation runs out and the outcome is persisted
	s.app.MockClock.Advance(50 * time.Millisecond)
	s.Equal(model.SpinPhaseSpinning, session.Phase())
	s.app.MockClock.Advance(5 * time.Second)
	s.Equal(model.SpinPhaseSettled, session.Phase())
	s.Require().NoError(session.CommitErr())

	stored, err := s.app.Storage.GetParticipant(s.ctx, participant.ID)
	s.Require().NoError(err)
	s.Equal("Sticker pack", stored.PrizeName)
	s.Require().NotNil(stored.SpunAt)

	// Step 5: the email and the device are both blocked now
	_, err = s.app.RegistrationService.Register(s.ctx, company.ID, "Alice", "alice@example.com", "")
	s.ErrorIs(err, model.ErrAlreadyParticipated)

	blocked, err := s.app.Guard.AlreadySpun(s.ctx, company.ID, "alice@example.com")
	s.Require().NoError(err)
	s.True(blocked)

	// Step 6: the consumed token does not authorize another spin
	_, err = s.app.RegistrationService.ValidateToken(token.Token)
	s.ErrorIs(err, model.ErrInvalidToken)
}

// Test: complete organizer flow from raffle entry through a drawn winner
func (s *IntegrationSuite) TestCompleteDrawFlow() {
	raffle := &model.Raffle{
		ID:        "rf_main",
		EventID:   "ev-1",
		Name:      "Main raffle",
		CreatedAt: s.app.MockClock.Now(),
	}
	s.Require().NoError(s.app.Storage.SaveRaffle(s.ctx, raffle))

	for i, name := range []string{"Alice", "Bob", "Carol"} {
		entrant := &model.Participant{
			ID:        model.ParticipantID("pt_" + name),
			RaffleID:  raffle.ID,
			Name:      name,
			Phone:     "(11) 98765-4321",
			CreatedAt: s.app.MockClock.Now().Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.app.Storage.SaveParticipant(s.ctx, entrant))
	}

	count, err := s.app.RaffleService.EligibleCount(s.ctx, []model.RaffleID{raffle.ID})
	s.Require().NoError(err)
	s.Equal(3, count)

	// Countdown draw lands on Bob
	s.app.MockRandom.QueueString("draw00000001")
	s.app.MockRandom.QueueIntn(1)
	d, err := s.app.RaffleService.StartDraw(s.ctx, []model.RaffleID{raffle.ID}, nil)
	s.Require().NoError(err)
	s.Equal(5, d.Snapshot().Countdown)

	s.app.MockClock.Advance(5 * time.Second)
	snapshot := d.Snapshot()
	s.Require().NotNil(snapshot.Winner)
	s.Equal("Bob", snapshot.Winner.ParticipantName)
	s.Equal("(11) 9****-4321", snapshot.Winner.ParticipantPhoneMasked)

	results, err := s.app.Storage.GetDrawResultsForRaffle(s.ctx, raffle.ID)
	s.Require().NoError(err)
	s.Require().Len(results, 1)

	// Bob is out of the pool for the next draw
	count, err = s.app.RaffleService.EligibleCount(s.ctx, []model.RaffleID{raffle.ID})
	s.Require().NoError(err)
	s.Equal(2, count)

	s.app.MockRandom.QueueString("draw00000002")
	s.app.MockRandom.QueueIntn(0)
	d2, err := s.app.RaffleService.StartDraw(s.ctx, []model.RaffleID{raffle.ID}, nil)
	s.Require().NoError(err)
	s.app.MockClock.Advance(5 * time.Second)
	s.Equal("Alice", d2.Snapshot().Winner.ParticipantName)
}

// Test: losing the registration race on another device flags this one
func (s *IntegrationSuite) TestDuplicateRegistrationFlagsDevice() {
	company := s.createCompany("co_acme")

	s.app.MockRandom.QueueString("participant1")
	_, err := s.app.RegistrationService.Register(s.ctx, company.ID, "Alice", "alice@example.com", "")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("participant2")
	_, err = s.app.RegistrationService.Register(s.ctx, company.ID, "Alice", "ALICE@EXAMPLE.COM", "")
	s.ErrorIs(err, model.ErrAlreadyParticipated)

	// Same email at a different company still registers
	other := s.createCompany("co_other")
	s.app.MockRandom.QueueString("participant3")
	_, err = s.app.RegistrationService.Register(s.ctx, other.ID, "Alice", "alice@example.com", "")
	s.Require().NoError(err)
}

// Test: a spin for one company does not block another company's wheel
func (s *IntegrationSuite) TestCompaniesSpinIndependently() {
	first := s.createCompany("co_first")
	second := s.createCompany("co_second")
	s.addPrizes(first.ID, "Mug", "Pen")
	s.addPrizes(second.ID, "Cap", "Shirt")

	s.app.MockRandom.QueueIntn(0, 0, 1, 0)
	_, started, err := s.app.SpinManager.Start(first.ID, 2, nil, nil)
	s.Require().NoError(err)
	s.True(started)

	_, started, err = s.app.SpinManager.Start(second.ID, 2, nil, nil)
	s.Require().NoError(err)
	s.True(started)

	s.app.MockClock.Advance(10 * time.Second)

	firstSession, ok := s.app.SpinManager.Get(first.ID)
	s.Require().True(ok)
	s.Equal(model.SpinPhaseSettled, firstSession.Phase())

	secondSession, ok := s.app.SpinManager.Get(second.ID)
	s.Require().True(ok)
	s.Equal(model.SpinPhaseSettled, secondSession.Phase())
}
