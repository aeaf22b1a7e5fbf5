package spin

import (
	"log/slog"
	"sync"

	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/draw"
	"github.com/expoprize/prizewheel-go/internal/services/wheel"
)

// Manager owns the per-company spin sessions. Each company runs at most
// one active session at a time; a start request while one is in flight
// returns the existing session unchanged.
type Manager struct {
	clock    clock.Clock
	engine   *draw.Engine
	resolver *wheel.Resolver
	cfg      Config
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[model.CompanyID]*Session
}

func NewManager(clk clock.Clock, engine *draw.Engine, resolver *wheel.Resolver, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		clock:    clk,
		engine:   engine,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[model.CompanyID]*Session),
	}
}

// Start begins a spin for the company, or returns the active session when
// one is already running. The returned bool reports whether a new session
// was started by this call.
func (m *Manager) Start(
	companyID model.CompanyID,
	candidateCount int,
	commit CommitFunc,
	observer SnapshotFunc,
) (*Session, bool, error) {
	m.mu.Lock()
	if existing, ok := m.sessions[companyID]; ok && existing.Active() {
		m.mu.Unlock()
		return existing, false, nil
	}

	session := NewSession(m.clock, m.engine, m.resolver, m.cfg,
		m.logger.With(slog.String("company_id", string(companyID))))
	session.OnSnapshot(observer)
	m.sessions[companyID] = session
	m.mu.Unlock()

	if err := session.Start(candidateCount, commit); err != nil {
		m.mu.Lock()
		if m.sessions[companyID] == session {
			delete(m.sessions, companyID)
		}
		m.mu.Unlock()
		return nil, false, err
	}
	return session, true, nil
}

// Get returns the company's most recent session, settled or not
func (m *Manager) Get(companyID model.CompanyID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[companyID]
	return session, ok
}

// Cancel tears down the company's session if one exists
func (m *Manager) Cancel(companyID model.CompanyID) {
	m.mu.Lock()
	session, ok := m.sessions[companyID]
	if ok {
		delete(m.sessions, companyID)
	}
	m.mu.Unlock()
	if ok {
		session.Cancel()
	}
}

// CancelAll tears down every session, for server shutdown
func (m *Manager) CancelAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[model.CompanyID]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Cancel()
	}
}
