package engine

import "github.com/wricardo/hexcorridor/game/hex"

// DistanceToFortress measures from p to owner's fortress, modelled as a
// virtual cell just outside owner's spawn edge on p's row.
func DistanceToFortress(p hex.Position, owner Player, corridorLength int) int {
	q := -1
	if owner == Player2 {
		q = corridorLength
	}
	return hex.Distance(p, hex.New(q, p.R))
}

// LegalSpawnSet returns the open tiles on the owner's spawn edge where the
// in-hand card cardID may be placed. Cards on the board get an empty set.
func LegalSpawnSet(state *GameState, cardID string) []hex.Position {
	card := state.CardByID(cardID)
	if card == nil || !card.InHand() {
		return nil
	}
	return openSpawnTiles(state, card.Owner)
}

func openSpawnTiles(state *GameState, owner Player) []hex.Position {
	var out []hex.Position
	for _, p := range state.SpawnEdge(owner) {
		if state.TileAt(p) != nil && state.CardAt(p) == nil {
			out = append(out, p)
		}
	}
	return out
}

// LegalMoveSet returns every unoccupied tile within the card's speed. Cards
// without action points, or not on the board, cannot move.
func LegalMoveSet(state *GameState, cardID string) []hex.Position {
	card := state.CardByID(cardID)
	if card == nil || !card.OnBoard() || card.AP <= 0 {
		return nil
	}
	var out []hex.Position
	for _, t := range state.Tiles {
		if !hex.InRange(*card.Position, t.Position, card.Speed) {
			continue
		}
		if state.CardAt(t.Position) == nil {
			out = append(out, t.Position)
		}
	}
	return out
}

// LegalAttackSet returns the tiles within the card's range that hold an
// enemy unit.
func LegalAttackSet(state *GameState, cardID string) []hex.Position {
	card := state.CardByID(cardID)
	if card == nil || !card.OnBoard() || card.AP <= 0 {
		return nil
	}
	var out []hex.Position
	for _, other := range state.Cards {
		if other.Owner == card.Owner || !other.OnBoard() {
			continue
		}
		if hex.InRange(*card.Position, *other.Position, card.Range) {
			out = append(out, *other.Position)
		}
	}
	return out
}

// CanAttackFortress reports whether the card can strike the enemy fortress
// from where it stands.
func CanAttackFortress(state *GameState, cardID string) bool {
	card := state.CardByID(cardID)
	if card == nil || !card.OnBoard() || card.AP <= 0 {
		return false
	}
	return DistanceToFortress(*card.Position, card.Owner.Opponent(), state.CorridorLength) <= card.Range
}

// HasLegalAction reports whether player could do anything other than end
// the turn: place a hand card on an open spawn tile, or move or attack with
// a ready unit.
func HasLegalAction(state *GameState, player Player) bool {
	if state.IsOver() {
		return false
	}
	if len(state.Hand(player)) > 0 && len(openSpawnTiles(state, player)) > 0 {
		return true
	}
	for _, c := range state.Board(player) {
		if c.AP <= 0 {
			continue
		}
		if len(LegalMoveSet(state, c.ID)) > 0 ||
			len(LegalAttackSet(state, c.ID)) > 0 ||
			CanAttackFortress(state, c.ID) {
			return true
		}
	}
	return false
}

// LegalSets bundles the targets available to one card.
type LegalSets struct {
	CardID            string         `json:"card_id"`
	Spawn             []hex.Position `json:"spawn"`
	Move              []hex.Position `json:"move"`
	Attack            []hex.Position `json:"attack"`
	CanAttackFortress bool           `json:"can_attack_fortress"`
}

// LegalSetsFor computes every target set for cardID.
func LegalSetsFor(state *GameState, cardID string) LegalSets {
	return LegalSets{
		CardID:            cardID,
		Spawn:             LegalSpawnSet(state, cardID),
		Move:              LegalMoveSet(state, cardID),
		Attack:            LegalAttackSet(state, cardID),
		CanAttackFortress: CanAttackFortress(state, cardID),
	}
}

// LegalActions enumerates every accepted non-selection action for the
// current player, ending with END_TURN. Move, attack and fortress actions
// assume their card gets selected first.
func LegalActions(state *GameState) []Action {
	if state.IsOver() {
		return nil
	}
	player := state.CurrentPlayer
	var out []Action

	open := openSpawnTiles(state, player)
	for _, c := range state.Hand(player) {
		for _, p := range open {
			out = append(out, NewPlaceCard(player, c.ID, p))
		}
	}

	for _, c := range state.Board(player) {
		for _, p := range LegalMoveSet(state, c.ID) {
			out = append(out, NewMoveUnit(player, c.ID, p))
		}
		for _, p := range LegalAttackSet(state, c.ID) {
			out = append(out, NewAttackUnit(player, c.ID, p))
		}
		if CanAttackFortress(state, c.ID) {
			out = append(out, NewAttackFortress(player, c.ID, player.Opponent()))
		}
	}

	return append(out, NewEndTurn(player))
}
