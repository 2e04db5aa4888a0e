package engine

import "fmt"

// Rules applies actions to game states. It holds no match state of its own:
// every call takes a state and returns a new one, so the same Rules value can
// serve any number of matches built from the same configuration.
type Rules struct {
	config  *MatchConfig
	newRand RandSource
}

// NewRules returns rules for config using math/rand for randomness.
func NewRules(config *MatchConfig) (*Rules, error) {
	if err := ValidateMatchConfig(config); err != nil {
		return nil, err
	}
	return &Rules{config: config, newRand: NewRand}, nil
}

// WithRandSource replaces the randomness source. Tests use it to script
// grid generation, dealing and respawn.
func (r *Rules) WithRandSource(source RandSource) *Rules {
	r.newRand = source
	return r
}

// Config returns the match configuration.
func (r *Rules) Config() *MatchConfig {
	return r.config
}

// NewMatch generates the board and deals both hands. The result depends only
// on the configuration, matchID and seed.
func (r *Rules) NewMatch(matchID string, seed int64) *GameState {
	rng := r.newRand(seed)
	tiles, left, right := GenerateGrid(r.config, rng)

	state := &GameState{
		MatchID:    matchID,
		Seed:       seed,
		ConfigName: r.config.Name,
		Phase:      PhaseSetup,
		Tiles:      tiles,
		Cards:      []Card{},
		Fortresses: Fortresses{
			Player1: Fortress{Owner: Player1, HitPoints: r.config.FortressHitPoints, MaxHitPoints: r.config.FortressHitPoints},
			Player2: Fortress{Owner: Player2, HitPoints: r.config.FortressHitPoints, MaxHitPoints: r.config.FortressHitPoints},
		},
		CurrentPlayer:  Player1,
		CorridorLength: r.config.CorridorLength,
		CorridorWidth:  r.config.CorridorWidth,
		LeftSpawnEdge:  left,
		RightSpawnEdge: right,
	}
	dealHands(state, r.config.Templates, r.config.HandSize, rng)
	return state
}

// Apply validates action against state. On success it returns a new state
// and the events produced. On failure it returns the unchanged input state
// and an error wrapping ErrRejected or ErrInvalidRequest.
func (r *Rules) Apply(state *GameState, action Action) (*GameState, []Event, error) {
	if state == nil {
		return nil, nil, fmt.Errorf("%w: state cannot be nil", ErrInvalidRequest)
	}
	if err := action.Validate(); err != nil {
		return state, nil, err
	}
	if id := action.ActingCardID(); id != "" && state.CardByID(id) == nil {
		return state, nil, invalidf("unknown card %q", id)
	}
	if state.IsOver() {
		return state, nil, ErrGameOver
	}
	if action.PlayerID != "" && action.PlayerID != state.CurrentPlayer {
		return state, nil, ErrNotYourTurn
	}

	next := state.Clone()
	var events []Event
	var err error

	switch action.Type {
	case ActionPlaceCard:
		events, err = placeCard(next, action.CardID, *action.Position)
	case ActionSelectCard:
		events, err = selectCard(next, action.CardID)
	case ActionMoveUnit:
		events, err = moveUnit(next, action.CardID, *action.TargetPosition)
	case ActionAttackUnit:
		events, err = attackUnit(next, action.AttackerID, *action.TargetPosition)
	case ActionAttackFortress:
		events, err = attackFortress(next, action.AttackerID, action.TargetFortress)
	case ActionEndTurn:
		events, err = r.endTurn(next)
	}
	if err != nil {
		return state, nil, err
	}

	if next.Phase == PhaseSetup {
		next.Phase = PhaseInProgress
	}
	if next.IsOver() {
		next.Phase = PhaseEnded
		events = append(events, Event{
			Type:    EventGameOver,
			Player:  next.Winner,
			Message: fmt.Sprintf("%s wins", next.Winner),
		})
	}
	return next, events, nil
}
