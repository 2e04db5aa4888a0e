package service

import (
	"time"

	"github.com/wricardo/hexcorridor/game/engine"
)

// SessionInfo provides information about a match session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	MatchID        string              `json:"match_id"`
	Seed           int64               `json:"seed"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Summary        engine.Summary      `json:"summary"`
	GameState      *engine.GameState   `json:"game_state"`
	GameConfig     *engine.MatchConfig `json:"game_config"`
}

// ActionRequest is an engine action as submitted by a client. With
// AutoSelect set, move and attack actions select their card first when it
// is not already selected.
type ActionRequest struct {
	engine.Action
	AutoSelect bool `json:"auto_select,omitempty"`
}

// ActionResult is the outcome of SubmitAction. A rule rejection is not an
// error: Accepted is false, Reason explains why and GameState is unchanged.
type ActionResult struct {
	Accepted    bool              `json:"accepted"`
	Reason      string            `json:"reason,omitempty"`
	GameState   *engine.GameState `json:"game_state"`
	Events      []engine.Event    `json:"events"`
	AutoEndTurn bool              `json:"auto_end_turn"` // an automatic END_TURN was scheduled
}

// LegalResponse answers a legal-target query. Card is set when a card id
// was given, Actions lists every legal action of the current player
// otherwise.
type LegalResponse struct {
	CurrentPlayer  engine.Player     `json:"current_player"`
	HasLegalAction bool              `json:"has_legal_action"`
	Card           *engine.LegalSets `json:"card,omitempty"`
	Actions        []engine.Action   `json:"actions,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the action log
type HistoryResponse struct {
	Actions      []engine.ActionRecord `json:"actions"`
	TotalActions int                   `json:"total_actions"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a match configuration
type ConfigInfo struct {
	Filename          string `json:"filename"`
	ConfigID          string `json:"config_id"` // The identifier to use for session creation
	Name              string `json:"name"`      // Display name
	Description       string `json:"description"`
	CorridorLength    int    `json:"corridor_length"`
	CorridorWidth     int    `json:"corridor_width"`
	FortressHitPoints int    `json:"fortress_hit_points"`
	HandSize          int    `json:"hand_size"`
}
