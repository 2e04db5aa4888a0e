package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/hexcorridor/game/engine"
)

var (
	// ErrSessionNotFound is returned for an unknown session ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrConfigNotFound is returned for an unknown match configuration
	ErrConfigNotFound = errors.New("configuration not found")
)

// GameService defines all match-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Match Operations
	SubmitAction(ctx context.Context, sessionID string, req ActionRequest) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Match State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetLegal(ctx context.Context, sessionID, cardID string) (*LegalResponse, error)
	GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.MatchConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.MatchConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.MatchConfig, opts engine.MatchOptions) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles match configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MatchConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MatchConfig
	SaveConfig(name string, config *engine.MatchConfig) error
}

// Notifier receives every state change the service commits, including
// automatic turn ends.
type Notifier interface {
	BroadcastState(sessionID string, state *engine.GameState, events []engine.Event)
}

// Session represents an active match session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.MatchConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
