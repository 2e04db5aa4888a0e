package engine

import "github.com/wricardo/hexcorridor/game/hex"

// EventType names something that happened while applying an action.
type EventType string

const (
	EventCardPlaced       EventType = "card_placed"
	EventCardSelected     EventType = "card_selected"
	EventSelectionCleared EventType = "selection_cleared"
	EventUnitMoved        EventType = "unit_moved"
	EventTileRevealed     EventType = "tile_revealed"
	EventRewardCollected  EventType = "reward_collected"
	EventFortressRush     EventType = "fortress_rush"
	EventCombat           EventType = "combat"
	EventUnitDestroyed    EventType = "unit_destroyed"
	EventFortressDamaged  EventType = "fortress_damaged"
	EventTurnEnded        EventType = "turn_ended"
	EventRewardsRespawned EventType = "rewards_respawned"
	EventGameOver         EventType = "game_over"
)

// Event describes one effect of an accepted action.
type Event struct {
	Type     EventType     `json:"type"`
	Player   Player        `json:"player,omitempty"`
	CardID   string        `json:"card_id,omitempty"`
	Position *hex.Position `json:"position,omitempty"`
	Amount   int           `json:"amount,omitempty"`
	Message  string        `json:"message"`
}

func posPtr(p hex.Position) *hex.Position {
	return &p
}
