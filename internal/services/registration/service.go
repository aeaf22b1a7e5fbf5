package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/guard"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// SpinToken grants one verified spin. Tokens are minted by collaborator
// code verification, held in memory, and consumed by the spin that uses
// them.
type SpinToken struct {
	Token          string
	CompanyID      model.CompanyID
	CollaboratorID model.CollaboratorID
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// Config holds configuration for the registration service
type Config struct {
	// StrictUniqueEmail makes duplicate-email rejection atomic at the
	// storage layer. When false, the pre-check is advisory and a race
	// can admit the same email twice.
	StrictUniqueEmail bool

	// TokenDuration is how long a minted spin token stays valid
	TokenDuration time.Duration
}

// DefaultConfig returns default registration configuration
func DefaultConfig() Config {
	return Config{
		StrictUniqueEmail: true,
		TokenDuration:     10 * time.Minute,
	}
}

// Service handles participant sign-up and collaborator code verification
type Service struct {
	storage storage.Storage
	guard   *guard.Guard
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	mu     sync.RWMutex
	tokens map[string]*SpinToken
}

// New creates a registration service
func New(
	store storage.Storage,
	g *guard.Guard,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	return &Service{
		storage: store,
		guard:   g,
		clock:   clk,
		random:  rnd,
		logger:  logger,
		cfg:     cfg,
		tokens:  make(map[string]*SpinToken),
	}
}

// Register signs a visitor up for a company's wheel. The email is the
// duplicate key: a second registration with an email that has already
// been used for this company is rejected with ErrAlreadyParticipated.
func (s *Service) Register(ctx context.Context, companyID model.CompanyID, name, email, phone string) (*model.Participant, error) {
	if _, err := s.storage.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	email = guard.NormalizeEmail(email)
	phone = strings.TrimSpace(phone)

	blocked, err := s.guard.AlreadySpun(ctx, companyID, email)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, model.ErrAlreadyParticipated
	}

	now := s.clock.Now()
	participant := &model.Participant{
		ID:        model.ParticipantID("pt_" + s.random.String(12, random.IDAlphabet)),
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
	}

	if s.cfg.StrictUniqueEmail {
		err = s.storage.CreateParticipantUnique(ctx, participant)
	} else {
		err = s.storage.SaveParticipant(ctx, participant)
	}
	if err != nil {
		if errors.Is(err, model.ErrAlreadyParticipated) {
			// Lost the race to another device. Flag this one so the
			// block is immediate here as well.
			if flagErr := s.guard.MarkParticipated(ctx, companyID); flagErr != nil {
				s.logger.Warn("failed to flag device after duplicate registration",
					slog.String("company_id", string(companyID)),
					slog.String("error", flagErr.Error()),
				)
			}
			return nil, model.ErrAlreadyParticipated
		}
		return nil, remoteUnavailable(err)
	}

	s.logger.Info("participant registered",
		slog.String("company_id", string(companyID)),
		slog.String("participant_id", string(participant.ID)),
	)
	return participant, nil
}

// VerifyCollaborator checks a staff code for the company and mints a
// spin token on success. Codes are case-insensitive: they are stored and
// compared in upper case.
func (s *Service) VerifyCollaborator(ctx context.Context, companyID model.CompanyID, code string) (*SpinToken, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, model.ErrInvalidCode
	}

	collaborators, err := s.storage.GetCollaboratorsForCompany(ctx, companyID)
	if err != nil {
		return nil, remoteUnavailable(err)
	}

	for _, c := range collaborators {
		if err := bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)); err == nil {
			return s.mintToken(companyID, c.ID), nil
		}
	}
	return nil, model.ErrInvalidCode
}

// ValidateToken checks a spin token without consuming it
func (s *Service) ValidateToken(token string) (*SpinToken, error) {
	s.mu.RLock()
	t, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrInvalidToken
	}
	if s.clock.Now().After(t.ExpiresAt) {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
		return nil, model.ErrInvalidToken
	}
	return t, nil
}

// ConsumeToken validates a token and removes it, so one verification
// authorizes exactly one spin
func (s *Service) ConsumeToken(token string) (*SpinToken, error) {
	t, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return t, nil
}

// CreateCollaborator registers a staff member with a verification code
func (s *Service) CreateCollaborator(ctx context.Context, companyID model.CompanyID, name, code string) (*model.Collaborator, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, model.ErrInvalidCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	collaborator := &model.Collaborator{
		ID:        model.CollaboratorID("cb_" + s.random.String(12, random.IDAlphabet)),
		CompanyID: companyID,
		Name:      strings.TrimSpace(name),
		CodeHash:  string(hash),
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveCollaborator(ctx, collaborator); err != nil {
		return nil, remoteUnavailable(err)
	}
	return collaborator, nil
}

// CleanExpiredTokens removes expired spin tokens (call periodically)
func (s *Service) CleanExpiredTokens() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, t := range s.tokens {
		if now.After(t.ExpiresAt) {
			delete(s.tokens, token)
		}
	}
}

// NormalizeCode folds a collaborator code into its stored form
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Service) mintToken(companyID model.CompanyID, collaboratorID model.CollaboratorID) *SpinToken {
	now := s.clock.Now()
	t := &SpinToken{
		Token:          "spin_" + s.random.String(24, random.IDAlphabet),
		CompanyID:      companyID,
		CollaboratorID: collaboratorID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.cfg.TokenDuration),
	}

	s.mu.Lock()
	s.tokens[t.Token] = t
	s.mu.Unlock()

	return t
}

func remoteUnavailable(err error) error {
	return fmt.Errorf("%w: %v", model.ErrRemoteUnavailable, err)
}
