package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/hexcorridor/game/engine"
)

const (
	// DefaultAutoEndTurnDelay is the grace period before a stuck player's
	// turn is ended automatically.
	DefaultAutoEndTurnDelay = 100 * time.Millisecond

	// MaxAutoEndChain bounds consecutive automatic turn ends so two stuck
	// players do not pass the turn back and forth forever.
	MaxAutoEndChain = 2

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	notifier Notifier
	delay    time.Duration
	timers   map[string]*time.Timer
	mu       sync.RWMutex
}

// Option customizes a game service.
type Option func(*gameServiceImpl)

// WithNotifier sends every committed state change to n.
func WithNotifier(n Notifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// WithAutoEndTurnDelay sets the grace period before an automatic END_TURN.
// A negative delay disables automatic turn ends.
func WithAutoEndTurnDelay(d time.Duration) Option {
	return func(s *gameServiceImpl) {
		s.delay = d
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		delay:    DefaultAutoEndTurnDelay,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	state := sess.Engine.GetState()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		MatchID:        state.MatchID,
		Seed:           state.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Summary:        engine.Summarize(state),
		GameState:      state,
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new match session. A zero seed draws a random one.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.MatchConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, engine.MatchOptions{Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Printf("[SESSION] created id=%s config=%s match=%s seed=%d", sess.ID, configID, sess.Engine.GetMatchID(), sess.Engine.GetSeed())
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionNotFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session and cancels its pending automatic turn end
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelAutoEnd(sessionID)
	return s.sessions.Delete(sessionID)
}

// SubmitAction applies one action to the session's match.
//
// Rule rejections come back as a result with Accepted false. Malformed
// requests and unknown sessions are errors; malformed requests wrap
// engine.ErrInvalidRequest.
func (s *gameServiceImpl) SubmitAction(ctx context.Context, sessionID string, req ActionRequest) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionNotFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	eng := sess.Engine
	var events []engine.Event

	if req.AutoSelect {
		if id := unitActionCard(req.Action); id != "" && eng.GetState().SelectedCardID != id {
			_, selEvents, err := eng.Apply(engine.NewSelectCard(req.PlayerID, id))
			if err != nil {
				return s.rejection(sessionID, eng, req.Action, err)
			}
			events = append(events, selEvents...)
		}
	}

	state, actionEvents, err := eng.Apply(req.Action)
	if err != nil {
		if len(events) > 0 {
			// The auto-select went through; keep it.
			s.commit(sessionID, sess, events)
		}
		res, err := s.rejection(sessionID, eng, req.Action, err)
		if res != nil {
			res.Events = nonNilEvents(events)
		}
		return res, err
	}
	events = append(events, actionEvents...)

	s.commit(sessionID, sess, events)
	scheduled := s.maybeScheduleAutoEnd(sessionID, state, 0)

	log.Printf("[ACTION] session=%s %s accepted=true events=%d turn=%d next=%s",
		sessionID, req.Action, len(events), state.TurnCount, state.CurrentPlayer)

	return &ActionResult{
		Accepted:    true,
		GameState:   state,
		Events:      nonNilEvents(events),
		AutoEndTurn: scheduled,
	}, nil
}

// sessionNotFound tags a failed session lookup with ErrSessionNotFound.
func sessionNotFound(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
}

// rejection turns a rule rejection into a result. Any other error is
// returned as is.
func (s *gameServiceImpl) rejection(sessionID string, eng *engine.GameEngine, action engine.Action, err error) (*ActionResult, error) {
	if !engine.IsRejected(err) {
		return nil, err
	}
	log.Printf("[ACTION] session=%s %s accepted=false reason=%q", sessionID, action, err.Error())
	return &ActionResult{
		Accepted:  false,
		Reason:    err.Error(),
		GameState: eng.GetState(),
		Events:    []engine.Event{},
	}, nil
}

// commit persists the session and notifies listeners of the new state.
func (s *gameServiceImpl) commit(sessionID string, sess *Session, events []engine.Event) {
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s: %v\n", sessionID, err)
	}
	if s.notifier != nil {
		s.notifier.BroadcastState(sessionID, sess.Engine.GetState(), events)
	}
}

// unitActionCard returns the card a move or attack acts with.
func unitActionCard(a engine.Action) string {
	switch a.Type {
	case engine.ActionMoveUnit, engine.ActionAttackUnit, engine.ActionAttackFortress:
		return a.ActingCardID()
	}
	return ""
}

func nonNilEvents(events []engine.Event) []engine.Event {
	if events == nil {
		return []engine.Event{}
	}
	return events
}

// maybeScheduleAutoEnd arms an automatic END_TURN when the current player
// has nothing left to do, and disarms any pending one otherwise. It reports
// whether a timer is armed. Callers hold s.mu.
func (s *gameServiceImpl) maybeScheduleAutoEnd(sessionID string, state *engine.GameState, chain int) bool {
	s.cancelAutoEnd(sessionID)
	if s.delay < 0 || state.IsOver() || chain >= MaxAutoEndChain {
		return false
	}
	if engine.HasLegalAction(state, state.CurrentPlayer) {
		return false
	}

	player, turn := state.CurrentPlayer, state.TurnCount
	s.timers[sessionID] = time.AfterFunc(s.delay, func() {
		s.autoEndTurn(sessionID, player, turn, chain+1)
	})
	return true
}

func (s *gameServiceImpl) cancelAutoEnd(sessionID string) {
	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
		delete(s.timers, sessionID)
	}
}

// autoEndTurn ends player's turn if the match is still where it was when
// the timer was armed and the player is still stuck.
func (s *gameServiceImpl) autoEndTurn(sessionID string, player engine.Player, turn, chain int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, sessionID)

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return
	}
	eng := sess.Engine
	state := eng.GetState()
	if state.IsOver() || state.CurrentPlayer != player || state.TurnCount != turn {
		return
	}
	if engine.HasLegalAction(state, player) {
		return
	}

	next, events, err := eng.Apply(engine.NewEndTurn(player))
	if err != nil {
		log.Printf("[AUTO] session=%s end turn failed: %v", sessionID, err)
		return
	}
	log.Printf("[AUTO] session=%s ended turn for %s, %s to play", sessionID, player, next.CurrentPlayer)

	s.commit(sessionID, sess, events)
	s.maybeScheduleAutoEnd(sessionID, next, chain)
}

// Reset starts a new match in the session with a fresh seed
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionNotFound(err)
	}

	s.cancelAutoEnd(sessionID)
	state := sess.Engine.Reset()
	s.sessions.UpdateLastAccessed(sessionID)
	s.commit(sessionID, sess, nil)

	return state, nil
}

// GetGameState returns the current match state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionNotFound(err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.GetState(), nil
}

// GetLegal returns the legal targets of cardID, or every legal action of the
// current player when cardID is empty.
func (s *gameServiceImpl) GetLegal(ctx context.Context, sessionID, cardID string) (*LegalResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionNotFound(err)
	}

	state := sess.Engine.GetState()
	resp := &LegalResponse{
		CurrentPlayer:  state.CurrentPlayer,
		HasLegalAction: engine.HasLegalAction(state, state.CurrentPlayer),
	}

	if cardID == "" {
		resp.Actions = sess.Engine.GetLegalActions()
		return resp, nil
	}

	if state.CardByID(cardID) == nil {
		return nil, fmt.Errorf("%w: unknown card %q", engine.ErrInvalidRequest, cardID)
	}
	sets := sess.Engine.GetLegalSets(cardID)
	resp.Card = &sets
	return resp, nil
}

// GetActionHistory returns a page of the session's action log
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionNotFound(err)
	}

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	history := sess.Engine.GetActionHistory()
	total := len(history)

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	actions := []engine.ActionRecord{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				actions = append(actions, history[i])
			}
		} else {
			actions = append(actions, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available match configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific match configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.MatchConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a match configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.MatchConfig) error {
	if config == nil {
		return errors.New("config is required")
	}
	return s.configs.SaveConfig(configName, config)
}
