package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	companies     map[model.CompanyID]*model.Company
	prizes        map[model.PrizeID]*model.Prize
	participants  map[model.ParticipantID]*model.Participant
	emailIndex    map[emailKey]model.ParticipantID
	collaborators map[model.CollaboratorID]*model.Collaborator
	raffles       map[model.RaffleID]*model.Raffle
	drawResults   map[model.RaffleID][]*model.DrawResult

	// insertion order per company so history listings are stable
	participantOrder map[model.CompanyID][]model.ParticipantID
}

type emailKey struct {
	companyID model.CompanyID
	email     string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		companies:        make(map[model.CompanyID]*model.Company),
		prizes:           make(map[model.PrizeID]*model.Prize),
		participants:     make(map[model.ParticipantID]*model.Participant),
		emailIndex:       make(map[emailKey]model.ParticipantID),
		collaborators:    make(map[model.CollaboratorID]*model.Collaborator),
		raffles:          make(map[model.RaffleID]*model.Raffle),
		drawResults:      make(map[model.RaffleID][]*model.DrawResult),
		participantOrder: make(map[model.CompanyID][]model.ParticipantID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Company operations

func (s *Storage) SaveCompany(ctx context.Context, company *model.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.ID] = company
	return nil
}

func (s *Storage) GetCompany(ctx context.Context, id model.CompanyID) (*model.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	company, ok := s.companies[id]
	if !ok {
		return nil, model.ErrCompanyNotFound
	}
	return company, nil
}

// Prize operations

func (s *Storage) SavePrize(ctx context.Context, prize *model.Prize) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prizes[prize.ID] = prize
	return nil
}

func (s *Storage) GetPrize(ctx context.Context, id model.PrizeID) (*model.Prize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prize, ok := s.prizes[id]
	if !ok {
		return nil, model.ErrPrizeNotFound
	}
	return prize, nil
}

func (s *Storage) DeletePrize(ctx context.Context, id model.PrizeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prizes, id)
	return nil
}

func (s *Storage) GetPrizesForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Prize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var prizes []*model.Prize
	for _, p := range s.prizes {
		if p.CompanyID == companyID {
			prizes = append(prizes, p)
		}
	}
	sortPrizes(prizes)
	return prizes, nil
}

// sortPrizes orders by wheel position, ID as tiebreak for stability
func sortPrizes(prizes []*model.Prize) {
	sort.Slice(prizes, func(i, j int) bool {
		if prizes[i].Position != prizes[j].Position {
			return prizes[i].Position < prizes[j].Position
		}
		return prizes[i].ID < prizes[j].ID
	})
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, p *model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertParticipantLocked(p)
	return nil
}

func (s *Storage) CreateParticipantUnique(ctx context.Context, p *model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Email != "" {
		if _, exists := s.emailIndex[emailKey{p.CompanyID, p.Email}]; exists {
			return model.ErrAlreadyParticipated
		}
	}
	s.insertParticipantLocked(p)
	return nil
}

func (s *Storage) insertParticipantLocked(p *model.Participant) {
	if _, exists := s.participants[p.ID]; !exists {
		s.participantOrder[p.CompanyID] = append(s.participantOrder[p.CompanyID], p.ID)
	}
	s.participants[p.ID] = p
	if p.Email != "" {
		s.emailIndex[emailKey{p.CompanyID, p.Email}] = p.ID
	}
}

func (s *Storage) GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[id]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	return p, nil
}

func (s *Storage) FindParticipantByEmail(ctx context.Context, companyID model.CompanyID, email string) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[emailKey{companyID, email}]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	p, ok := s.participants[id]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	return p, nil
}

func (s *Storage) GetParticipantsForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.participantOrder[companyID]
	participants := make([]*model.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.participants[id]; ok {
			participants = append(participants, p)
		}
	}
	return participants, nil
}

func (s *Storage) RecordSpin(ctx context.Context, id model.ParticipantID, prizeName string, spunAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return model.ErrParticipantNotFound
	}
	if p.SpunAt != nil {
		return model.ErrAlreadySpun
	}
	updated := *p
	updated.PrizeName = prizeName
	t := spunAt
	updated.SpunAt = &t
	s.participants[id] = &updated
	return nil
}

// Collaborator operations

func (s *Storage) SaveCollaborator(ctx context.Context, c *model.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collaborators[c.ID] = c
	return nil
}

func (s *Storage) GetCollaboratorsForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Collaborator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Collaborator
	for _, c := range s.collaborators {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Raffle operations

func (s *Storage) SaveRaffle(ctx context.Context, raffle *model.Raffle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raffles[raffle.ID] = raffle
	return nil
}

func (s *Storage) GetRaffle(ctx context.Context, id model.RaffleID) (*model.Raffle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raffle, ok := s.raffles[id]
	if !ok {
		return nil, model.ErrRaffleNotFound
	}
	return raffle, nil
}

func (s *Storage) GetRafflesForEvent(ctx context.Context, eventID model.EventID) ([]*model.Raffle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Raffle
	for _, r := range s.raffles {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Storage) GetParticipantsForRaffle(ctx context.Context, raffleID model.RaffleID) ([]*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Participant
	for _, p := range s.participants {
		if p.RaffleID == raffleID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Draw result operations

func (s *Storage) SaveDrawResult(ctx context.Context, result *model.DrawResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawResults[result.RaffleID] = append(s.drawResults[result.RaffleID], result)
	return nil
}

func (s *Storage) GetDrawResultsForRaffle(ctx context.Context, raffleID model.RaffleID) ([]*model.DrawResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := s.drawResults[raffleID]
	out := make([]*model.DrawResult, len(results))
	copy(out, results)
	return out, nil
}
