package engine

import (
	"fmt"

	"github.com/wricardo/hexcorridor/game/hex"
)

// placeCard puts an in-hand card on an open tile of its owner's spawn edge.
func placeCard(state *GameState, cardID string, at hex.Position) ([]Event, error) {
	card := state.CardByID(cardID)
	if card.Owner != state.CurrentPlayer {
		return nil, rejectf("card %s belongs to %s", cardID, card.Owner)
	}
	if !card.InHand() {
		return nil, rejectf("card %s is already on the board", cardID)
	}
	if state.TileAt(at) == nil {
		return nil, rejectf("%s is not a tile", at)
	}
	if state.CardAt(at) != nil {
		return nil, rejectf("%s is occupied", at)
	}
	if !state.IsOnSpawnEdgeOf(at, card.Owner) {
		return nil, rejectf("%s is not on the %s spawn edge", at, card.Owner)
	}

	card.Position = posPtr(at)
	card.AP = 0

	events := []Event{{
		Type:     EventCardPlaced,
		Player:   card.Owner,
		CardID:   card.ID,
		Position: posPtr(at),
		Message:  fmt.Sprintf("%s placed %s at %s", card.Owner, card.Name, at),
	}}

	// Prepare the next hand card for placement.
	state.SelectedCardID = ""
	for _, c := range state.Cards {
		if c.Owner == card.Owner && c.InHand() && c.ID != card.ID {
			state.SelectedCardID = c.ID
			events = append(events, Event{
				Type:    EventCardSelected,
				Player:  c.Owner,
				CardID:  c.ID,
				Message: fmt.Sprintf("%s selected %s", c.Owner, c.Name),
			})
			break
		}
	}
	return events, nil
}

// selectCard changes the current selection. An empty cardID clears it;
// selecting an already selected unit on the board toggles it off.
func selectCard(state *GameState, cardID string) ([]Event, error) {
	if cardID == "" {
		state.SelectedCardID = ""
		return []Event{{
			Type:    EventSelectionCleared,
			Player:  state.CurrentPlayer,
			Message: "selection cleared",
		}}, nil
	}

	card := state.CardByID(cardID)
	if card.Owner != state.CurrentPlayer {
		return nil, rejectf("card %s belongs to %s", cardID, card.Owner)
	}

	if card.OnBoard() && state.SelectedCardID == card.ID {
		state.SelectedCardID = ""
		return []Event{{
			Type:    EventSelectionCleared,
			Player:  card.Owner,
			CardID:  card.ID,
			Message: fmt.Sprintf("%s deselected %s", card.Owner, card.Name),
		}}, nil
	}

	state.SelectedCardID = card.ID
	return []Event{{
		Type:    EventCardSelected,
		Player:  card.Owner,
		CardID:  card.ID,
		Message: fmt.Sprintf("%s selected %s", card.Owner, card.Name),
	}}, nil
}

// requireReady checks the shared preconditions of unit actions: the card is
// the current player's selected unit and still has an action point.
func requireReady(state *GameState, cardID string) (*Card, error) {
	card := state.CardByID(cardID)
	if card.Owner != state.CurrentPlayer {
		return nil, rejectf("card %s belongs to %s", cardID, card.Owner)
	}
	if state.SelectedCardID != card.ID {
		return nil, rejectf("card %s is not selected", cardID)
	}
	if !card.OnBoard() {
		return nil, rejectf("card %s is not on the board", cardID)
	}
	if card.AP <= 0 {
		return nil, rejectf("card %s has no action points", cardID)
	}
	return card, nil
}

// moveUnit moves the selected unit. Reaching the enemy spawn edge converts
// the unit's hit points into fortress damage and removes it; any other
// destination reveals the tile and collects its reward.
func moveUnit(state *GameState, cardID string, to hex.Position) ([]Event, error) {
	card, err := requireReady(state, cardID)
	if err != nil {
		return nil, err
	}
	if !containsPosition(LegalMoveSet(state, cardID), to) {
		return nil, rejectf("%s is not a legal move for card %s", to, cardID)
	}

	var events []Event
	enemy := card.Owner.Opponent()

	if state.IsOnSpawnEdgeOf(to, enemy) {
		damage := card.HitPoints
		owner, name := card.Owner, card.Name
		state.Fortresses.Get(enemy).HitPoints -= damage
		state.removeCard(cardID)

		events = append(events,
			Event{
				Type:     EventFortressRush,
				Player:   owner,
				CardID:   cardID,
				Position: posPtr(to),
				Amount:   damage,
				Message:  fmt.Sprintf("%s's %s rushed the %s fortress", owner, name, enemy),
			},
			Event{
				Type:    EventFortressDamaged,
				Player:  enemy,
				Amount:  damage,
				Message: fmt.Sprintf("%s fortress took %d damage", enemy, damage),
			},
		)
	} else {
		from := *card.Position
		card.Position = posPtr(to)
		card.AP = 0
		events = append(events, Event{
			Type:     EventUnitMoved,
			Player:   card.Owner,
			CardID:   card.ID,
			Position: posPtr(to),
			Message:  fmt.Sprintf("%s moved %s from %s to %s", card.Owner, card.Name, from, to),
		})

		tile := state.TileAt(to)
		if !tile.IsRevealed {
			tile.IsRevealed = true
			events = append(events, Event{
				Type:     EventTileRevealed,
				Position: posPtr(to),
				Message:  fmt.Sprintf("%s revealed", to),
			})
		}
		if tile.HasUncollectedReward() {
			owner := card.Owner
			reward := mintCard(state.nextCardID(), owner, *tile.Reward)
			tile.IsCollected = true
			state.Cards = append(state.Cards, reward)
			events = append(events, Event{
				Type:     EventRewardCollected,
				Player:   owner,
				CardID:   reward.ID,
				Position: posPtr(to),
				Message:  fmt.Sprintf("%s found a %s", owner, reward.Name),
			})
		}
	}

	state.SelectedCardID = ""
	evaluateWinner(state)
	return events, nil
}

func containsPosition(set []hex.Position, p hex.Position) bool {
	for _, s := range set {
		if s.Equal(p) {
			return true
		}
	}
	return false
}
