package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/battleship/game/engine"
)

var (
	// ErrNotYourTurn is returned when a player shoots out of turn
	ErrNotYourTurn = errors.New("not your turn")
	// ErrMatchFinished is returned for shots after the match has a winner
	ErrMatchFinished = errors.New("match already finished")
)

// GameService defines all match-related operations
type GameService interface {
	// Match Management
	CreateMatch(ctx context.Context, req CreateMatchRequest) (*SessionInfo, error)
	GetMatch(ctx context.Context, matchID string) (*SessionInfo, error)
	ListMatches(ctx context.Context) ([]*SessionInfo, error)
	DeleteMatch(ctx context.Context, matchID string) error

	// Play
	Shoot(ctx context.Context, matchID string, attacker engine.PlayerID, row, col int) (*ShotResult, error)
	Mark(ctx context.Context, matchID string, player engine.PlayerID, row, col int) (*PlayerView, error)

	// Match State
	PlayerView(ctx context.Context, matchID string, player engine.PlayerID) (*PlayerView, error)
	History(ctx context.Context, matchID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.MatchConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.MatchConfig) error
	Rules(ctx context.Context, configName string) (*RulesInfo, error)
}

// SessionManager defines match session storage operations
type SessionManager interface {
	Create(id string, match *engine.Match, config *engine.MatchConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles match preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MatchConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MatchConfig
	SaveConfig(name string, config *engine.MatchConfig) error
}

// Session is one match in progress. Match and NextShooter are guarded by
// the session lock; the engine itself is not safe for concurrent use.
type Session struct {
	ID             string
	Match          *engine.Match
	Config         *engine.MatchConfig
	ConfigID       string
	NextShooter    engine.PlayerID
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock acquires the session lock
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock
func (s *Session) Unlock() { s.mu.Unlock() }
