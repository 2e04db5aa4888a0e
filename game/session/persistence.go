package session

import (
	"fmt"
	"time"

	"github.com/wricardo/hexcorridor/game/engine"
	"github.com/wricardo/hexcorridor/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session. The match is kept
// both as a snapshot and as its action log so it can be rebuilt by replay.
type PersistedSessionData struct {
	ID             string                `json:"id"`
	ConfigName     string                `json:"config_name"`
	MatchID        string                `json:"match_id"`
	Seed           int64                 `json:"seed"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	GameState      *engine.GameState     `json:"game_state"`
	History        []engine.ActionRecord `json:"history"`
}

// snapshot captures a session for storage under configID.
func snapshot(session *service.Session, configID string) *PersistedSessionData {
	state := session.Engine.GetState()
	return &PersistedSessionData{
		ID:             session.ID,
		ConfigName:     configID,
		MatchID:        state.MatchID,
		Seed:           state.Seed,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      state,
		History:        session.Engine.GetActionHistory(),
	}
}

// restore rebuilds a session from stored data. The match is replayed from
// its seed and log; if the replay does not reproduce the stored snapshot
// (for example because the config file changed since) the snapshot wins.
func restore(data *PersistedSessionData, configs service.ConfigManager) (*service.Session, error) {
	config, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	opts := engine.MatchOptions{MatchID: data.MatchID, Seed: data.Seed}
	eng, err := engine.Replay(config, opts, data.History)
	if err != nil || (data.GameState != nil && !engine.SameState(eng.GetState(), data.GameState)) {
		if data.GameState == nil {
			return nil, fmt.Errorf("failed to replay session %s: %w", data.ID, err)
		}
		eng, err = engine.NewEngine(config, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create game engine: %w", err)
		}
		if err := eng.SetState(data.GameState); err != nil {
			return nil, fmt.Errorf("failed to set game state: %w", err)
		}
		eng.RestoreHistory(data.History)
	}

	return &service.Session{
		ID:             data.ID,
		Engine:         eng,
		Config:         config,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// configIDFor returns the config ID (filename without extension) for a display name
func configIDFor(configs service.ConfigManager, displayName string) (string, error) {
	list, err := configs.ListConfigs()
	if err != nil {
		return "", fmt.Errorf("failed to list configs: %w", err)
	}

	for _, config := range list {
		if config.Name == displayName {
			return config.ConfigID, nil
		}
	}

	// If not found, assume the displayName is already the config ID
	return displayName, nil
}
