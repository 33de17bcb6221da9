package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digital-defiance/dominion-server-go/internal/game"
)

var (
	// ErrSessionNotFound is returned when no live session exists for an id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the manager is at capacity.
	ErrTooManySessions = errors.New("session limit reached")
)

// Session owns one live game. All mutations go through Update, which holds
// the session lock for the duration of the call: the engine's pure
// state-in/state-out functions rely on exactly one in-flight mutation per
// game, and this is where that serialization lives.
type Session struct {
	ID       string
	mu       sync.Mutex
	state    game.Game
	lastSeen time.Time
}

// Update applies fn to the current state and commits the returned state
// wholesale. When fn errors nothing is committed.
func (s *Session) Update(fn func(game.Game) (game.Game, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state)
	if err != nil {
		return err
	}
	s.state = next
	s.lastSeen = time.Now()
	return nil
}

// State returns a deep copy of the current game state.
func (s *Session) State() game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.state.Copy()
}

// Manager tracks the live sessions and expires the abandoned ones.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	leasePeriod time.Duration
	maxSessions int
	logger      *zap.Logger
}

// NewManager creates a session manager. Sessions idle for longer than
// leasePeriod are removed by CleanupExpiredSessions.
func NewManager(leasePeriod time.Duration, maxSessions int, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		leasePeriod: leasePeriod,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Create registers a new session holding the given initial state.
func (m *Manager) Create(initial game.Game) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}
	s := &Session{
		ID:       uuid.New().String(),
		state:    initial,
		lastSeen: time.Now(),
	}
	m.sessions[s.ID] = s

	m.logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.String("game_id", initial.ID.String()),
		zap.Int("active_sessions", len(m.sessions)),
	)
	return s, nil
}

// Get returns the live session for an id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close removes a session.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return
	}
	delete(m.sessions, id)
	m.logger.Info("session closed", zap.String("session_id", id))
}

// CloseAll removes every session, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := len(m.sessions)
	m.sessions = make(map[string]*Session)
	m.logger.Info("all sessions closed", zap.Int("count", count))
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions periodically drops sessions whose lease lapsed.
// It runs until the context is cancelled.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(m.leasePeriod / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.expireSessions()
		}
	}
}

func (m *Manager) expireSessions() {
	cutoff := time.Now().Add(-m.leasePeriod)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		expired := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if !expired {
			continue
		}
		delete(m.sessions, id)
		m.logger.Info("session expired",
			zap.String("session_id", id),
			zap.Duration("lease_period", m.leasePeriod),
		)
	}
}
