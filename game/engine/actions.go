package engine

import (
	"fmt"

	"github.com/wricardo/hexcorridor/game/hex"
)

// ActionType is one of the closed set of player intents.
type ActionType string

const (
	ActionPlaceCard      ActionType = "PLACE_CARD"
	ActionSelectCard     ActionType = "SELECT_CARD"
	ActionMoveUnit       ActionType = "MOVE_UNIT"
	ActionAttackUnit     ActionType = "ATTACK_UNIT"
	ActionAttackFortress ActionType = "ATTACK_FORTRESS"
	ActionEndTurn        ActionType = "END_TURN"
)

// Action is a player intent as carried by every transport. Only the fields
// relevant to Type are read. Timestamp is informational.
type Action struct {
	Type           ActionType    `json:"type"`
	PlayerID       Player        `json:"player_id,omitempty"`
	Timestamp      int64         `json:"timestamp,omitempty"`
	CardID         string        `json:"card_id,omitempty"`
	AttackerID     string        `json:"attacker_id,omitempty"`
	Position       *hex.Position `json:"position,omitempty"`
	TargetPosition *hex.Position `json:"target_position,omitempty"`
	TargetFortress Player        `json:"target_fortress,omitempty"`
}

// Validate checks the payload shape. It does not look at any game state.
func (a Action) Validate() error {
	if a.PlayerID != "" && !a.PlayerID.Valid() {
		return invalidf("unknown player %q", a.PlayerID)
	}

	switch a.Type {
	case ActionPlaceCard:
		if a.CardID == "" {
			return invalidf("%s requires card_id", a.Type)
		}
		if a.Position == nil {
			return invalidf("%s requires position", a.Type)
		}
	case ActionSelectCard, ActionEndTurn:
	case ActionMoveUnit:
		if a.CardID == "" {
			return invalidf("%s requires card_id", a.Type)
		}
		if a.TargetPosition == nil {
			return invalidf("%s requires target_position", a.Type)
		}
	case ActionAttackUnit:
		if a.AttackerID == "" {
			return invalidf("%s requires attacker_id", a.Type)
		}
		if a.TargetPosition == nil {
			return invalidf("%s requires target_position", a.Type)
		}
	case ActionAttackFortress:
		if a.AttackerID == "" {
			return invalidf("%s requires attacker_id", a.Type)
		}
		if !a.TargetFortress.Valid() {
			return invalidf("%s requires target_fortress of player1 or player2", a.Type)
		}
	case "":
		return invalidf("action type is required")
	default:
		return invalidf("unknown action type %q", a.Type)
	}
	return nil
}

// ActingCardID returns the card the action is about, if any.
func (a Action) ActingCardID() string {
	if a.Type == ActionAttackUnit || a.Type == ActionAttackFortress {
		return a.AttackerID
	}
	return a.CardID
}

// String renders a compact description for logs.
func (a Action) String() string {
	switch a.Type {
	case ActionPlaceCard:
		return fmt.Sprintf("%s card=%s at=%s", a.Type, a.CardID, fmtPos(a.Position))
	case ActionSelectCard:
		if a.CardID == "" {
			return fmt.Sprintf("%s none", a.Type)
		}
		return fmt.Sprintf("%s card=%s", a.Type, a.CardID)
	case ActionMoveUnit:
		return fmt.Sprintf("%s card=%s to=%s", a.Type, a.CardID, fmtPos(a.TargetPosition))
	case ActionAttackUnit:
		return fmt.Sprintf("%s attacker=%s target=%s", a.Type, a.AttackerID, fmtPos(a.TargetPosition))
	case ActionAttackFortress:
		return fmt.Sprintf("%s attacker=%s fortress=%s", a.Type, a.AttackerID, a.TargetFortress)
	default:
		return string(a.Type)
	}
}

func fmtPos(p *hex.Position) string {
	if p == nil {
		return "<nil>"
	}
	return p.String()
}

// NewPlaceCard builds a PLACE_CARD action.
func NewPlaceCard(player Player, cardID string, at hex.Position) Action {
	return Action{Type: ActionPlaceCard, PlayerID: player, CardID: cardID, Position: &at}
}

// NewSelectCard builds a SELECT_CARD action. An empty cardID clears the selection.
func NewSelectCard(player Player, cardID string) Action {
	return Action{Type: ActionSelectCard, PlayerID: player, CardID: cardID}
}

// NewMoveUnit builds a MOVE_UNIT action.
func NewMoveUnit(player Player, cardID string, to hex.Position) Action {
	return Action{Type: ActionMoveUnit, PlayerID: player, CardID: cardID, TargetPosition: &to}
}

// NewAttackUnit builds an ATTACK_UNIT action.
func NewAttackUnit(player Player, attackerID string, target hex.Position) Action {
	return Action{Type: ActionAttackUnit, PlayerID: player, AttackerID: attackerID, TargetPosition: &target}
}

// NewAttackFortress builds an ATTACK_FORTRESS action.
func NewAttackFortress(player Player, attackerID string, fortress Player) Action {
	return Action{Type: ActionAttackFortress, PlayerID: player, AttackerID: attackerID, TargetFortress: fortress}
}

// NewEndTurn builds an END_TURN action.
func NewEndTurn(player Player) Action {
	return Action{Type: ActionEndTurn, PlayerID: player}
}
