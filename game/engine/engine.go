package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for match operations
type Engine interface {
	// Match state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	GetWinner() Player
	GetCurrentPlayer() Player
	GetMatchID() string
	GetSeed() int64

	// Actions
	Apply(action Action) (*GameState, []Event, error)
	HasLegalAction(player Player) bool
	GetLegalActions() []Action
	GetLegalSets(cardID string) LegalSets

	// Configuration
	GetConfig() *MatchConfig

	// History
	GetActionHistory() []ActionRecord
	GetLastAction() *ActionRecord
}

// ActionRecord is one entry of a match's action log.
type ActionRecord struct {
	Sequence  int    `json:"sequence"`
	Action    Action `json:"action"`
	Player    Player `json:"player"`
	TurnCount int    `json:"turn_count"`
	Accepted  bool   `json:"accepted"`
	Reason    string `json:"reason,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// GameEngine implements the Engine interface. It owns the authoritative
// state of one match and its action log; the rules themselves are pure.
type GameEngine struct {
	rules   *Rules
	state   *GameState
	history []ActionRecord
	now     func() time.Time
}

// MatchOptions identifies a match. A zero Seed draws a random one and an
// empty MatchID generates a fresh UUID.
type MatchOptions struct {
	MatchID string
	Seed    int64
	Rand    RandSource
}

// NewEngine creates a new match engine with the provided configuration
func NewEngine(config *MatchConfig, opts MatchOptions) (*GameEngine, error) {
	rules, err := NewRules(config)
	if err != nil {
		return nil, err
	}
	if opts.Rand != nil {
		rules.WithRandSource(opts.Rand)
	}
	if opts.MatchID == "" {
		opts.MatchID = uuid.NewString()
	}
	if opts.Seed == 0 {
		opts.Seed = NewSeed()
	}

	return &GameEngine{
		rules:   rules,
		state:   rules.NewMatch(opts.MatchID, opts.Seed),
		history: []ActionRecord{},
		now:     time.Now,
	}, nil
}

// NewEngineWithDefaults creates a classic match with a random seed
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultMatchConfig(), MatchOptions{})
	if err != nil {
		// The built-in configuration always validates.
		panic(err)
	}
	return e
}

// GetState returns the current match state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the match state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.CorridorLength != e.rules.config.CorridorLength || state.CorridorWidth != e.rules.config.CorridorWidth {
		return fmt.Errorf("state corridor %dx%d does not match config %dx%d",
			state.CorridorLength, state.CorridorWidth, e.rules.config.CorridorLength, e.rules.config.CorridorWidth)
	}
	e.state = state
	return nil
}

// Reset starts a new match with the same configuration and a new seed. The
// action log is cleared.
func (e *GameEngine) Reset() *GameState {
	e.state = e.rules.NewMatch(uuid.NewString(), NewSeed())
	e.history = []ActionRecord{}
	return e.state
}

// IsGameOver returns whether a winner has been decided
func (e *GameEngine) IsGameOver() bool {
	return e.state.IsOver()
}

// GetWinner returns the winner or "" while the match continues
func (e *GameEngine) GetWinner() Player {
	return e.state.Winner
}

// GetCurrentPlayer returns the player whose turn it is
func (e *GameEngine) GetCurrentPlayer() Player {
	return e.state.CurrentPlayer
}

// GetMatchID returns the match identifier
func (e *GameEngine) GetMatchID() string {
	return e.state.MatchID
}

// GetSeed returns the seed the match was generated from
func (e *GameEngine) GetSeed() int64 {
	return e.state.Seed
}

// Apply runs action through the rules and records it in the log. Rejected
// and invalid actions are logged too but leave the state untouched.
func (e *GameEngine) Apply(action Action) (*GameState, []Event, error) {
	if action.Timestamp == 0 {
		action.Timestamp = e.now().UnixMilli()
	}

	record := ActionRecord{
		Sequence:  len(e.history) + 1,
		Action:    action,
		Player:    e.state.CurrentPlayer,
		TurnCount: e.state.TurnCount,
		Timestamp: action.Timestamp,
	}

	next, events, err := e.rules.Apply(e.state, action)
	if err != nil {
		record.Reason = err.Error()
		e.history = append(e.history, record)
		return e.state, nil, err
	}

	record.Accepted = true
	e.history = append(e.history, record)
	e.state = next
	return next, events, nil
}

// HasLegalAction reports whether player has anything to do besides ending the turn
func (e *GameEngine) HasLegalAction(player Player) bool {
	return HasLegalAction(e.state, player)
}

// GetLegalActions lists the current player's legal actions
func (e *GameEngine) GetLegalActions() []Action {
	return LegalActions(e.state)
}

// GetLegalSets returns the spawn, move and attack targets of a card
func (e *GameEngine) GetLegalSets(cardID string) LegalSets {
	return LegalSetsFor(e.state, cardID)
}

// RestoreHistory replaces the action log, used when a session is loaded from
// a snapshot instead of a replay.
func (e *GameEngine) RestoreHistory(history []ActionRecord) {
	e.history = append([]ActionRecord{}, history...)
}

// GetConfig returns the match configuration
func (e *GameEngine) GetConfig() *MatchConfig {
	return e.rules.config
}

// GetActionHistory returns the complete action log
func (e *GameEngine) GetActionHistory() []ActionRecord {
	return e.history
}

// GetLastAction returns the last logged action, or nil if none
func (e *GameEngine) GetLastAction() *ActionRecord {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// Replay rebuilds a match from its identity and action log. Only accepted
// records are re-applied, and each must be accepted again.
func Replay(config *MatchConfig, opts MatchOptions, history []ActionRecord) (*GameEngine, error) {
	if opts.Seed == 0 || opts.MatchID == "" {
		return nil, fmt.Errorf("replay requires match id and seed")
	}
	e, err := NewEngine(config, opts)
	if err != nil {
		return nil, err
	}

	for _, rec := range history {
		if !rec.Accepted {
			e.history = append(e.history, rec)
			continue
		}
		next, _, err := e.rules.Apply(e.state, rec.Action)
		if err != nil {
			return nil, fmt.Errorf("replay diverged at action %d (%s): %w", rec.Sequence, rec.Action, err)
		}
		e.state = next
		e.history = append(e.history, rec)
	}
	return e, nil
}
