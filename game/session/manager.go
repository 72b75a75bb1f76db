package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSession       = errors.New("invalid session")
)

const idLength = 8

// Manager handles match session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	clock    quartz.Clock
	logger   *log.Logger
	mu       sync.RWMutex
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock used for session timestamps
func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithLogger sets the session manager's logger
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) { m.logger = logger.WithPrefix("session") }
}

// NewManager creates a new session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*service.Session),
		clock:    quartz.NewReal(),
		logger:   log.Default().WithPrefix("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a match under the given ID, or under a generated one
// when id is empty. Player1 shoots first.
func (m *Manager) Create(id string, match *engine.Match, config *engine.MatchConfig) (*service.Session, error) {
	if match == nil || config == nil {
		return nil, fmt.Errorf("%w: match and config are required", ErrInvalidSession)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	}

	// Check if session already exists (case-insensitive)
	if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	now := m.clock.Now()
	session := &service.Session{
		ID:             id,
		Match:          match,
		Config:         config,
		ConfigID:       config.Name,
		NextShooter:    engine.Player1,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[strings.ToLower(id)] = session

	m.logger.Debug("session created", "id", id, "sessions", len(m.sessions))
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)

	m.logger.Debug("session deleted", "id", id, "sessions", len(m.sessions))
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}

	now := m.clock.Now()
	session.Lock()
	session.LastAccessedAt = now
	session.Unlock()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clock.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		session.Lock()
		expired := session.LastAccessedAt.Before(cutoff)
		session.Unlock()

		if expired {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info("expired sessions removed", "removed", removed, "remaining", len(m.sessions))
	}
	return removed
}

// StartCleanup removes sessions idle for longer than maxAge every interval
// until ctx is done. The returned waiter reports when the loop has stopped.
func (m *Manager) StartCleanup(ctx context.Context, interval, maxAge time.Duration) quartz.Waiter {
	return m.clock.TickerFunc(ctx, interval, func() error {
		m.CleanupExpiredSessions(maxAge)
		return nil
	}, "session", "cleanup")
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns a short random ID not already in use. The
// caller holds the write lock.
func (m *Manager) generateSessionID() string {
	for {
		id := uuid.NewString()[:idLength]
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}
