package engine

import "fmt"

// endTurn hands the turn to the opponent. If a player has been wiped out
// the winner is recorded and the turn does not advance.
func (r *Rules) endTurn(state *GameState) ([]Event, error) {
	if evaluateWinner(state) {
		return nil, nil
	}

	prev := state.CurrentPlayer
	next := prev.Opponent()
	for i := range state.Cards {
		if state.Cards[i].Owner == next && state.Cards[i].OnBoard() {
			state.Cards[i].AP = MaxActionPoints
		}
	}
	state.CurrentPlayer = next
	state.SelectedCardID = ""
	state.TurnCount++

	events := []Event{{
		Type:    EventTurnEnded,
		Player:  prev,
		Amount:  state.TurnCount,
		Message: fmt.Sprintf("%s ended the turn, %s to play", prev, next),
	}}

	if state.TurnCount%r.config.RespawnInterval == 0 {
		rng := r.newRand(turnSeed(state.Seed, state.TurnCount))
		if placed := respawnRewards(state, r.config.Templates, r.config.RespawnCount, rng); len(placed) > 0 {
			events = append(events, Event{
				Type:    EventRewardsRespawned,
				Amount:  len(placed),
				Message: fmt.Sprintf("%d new rewards appeared", len(placed)),
			})
		}
	}
	return events, nil
}

// RespawnEligible reports whether a tile can receive a respawned reward:
// revealed, not a spawn edge, unoccupied, and carrying no reward at all. A
// collected tile keeps its reward and stays ineligible.
func RespawnEligible(state *GameState, t *HexTile) bool {
	if !t.IsRevealed || state.IsSpawnEdge(t.Position) {
		return false
	}
	if t.Reward != nil {
		return false
	}
	return state.CardAt(t.Position) == nil
}

// respawnRewards picks count distinct eligible tiles uniformly at random and
// gives each a fresh random reward. Nothing happens unless at least count
// tiles are eligible. It returns the indexes of the tiles that changed.
func respawnRewards(state *GameState, templates []CardTemplate, count int, rng Rand) []int {
	var eligible []int
	for i := range state.Tiles {
		if RespawnEligible(state, &state.Tiles[i]) {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) < count {
		return nil
	}

	// Partial Fisher-Yates: the first count entries become the sample.
	for i := 0; i < count; i++ {
		j := i + rng.Intn(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}

	picked := eligible[:count]
	for _, idx := range picked {
		reward := templates[rng.Intn(len(templates))]
		state.Tiles[idx].Reward = &reward
		state.Tiles[idx].IsCollected = false
	}
	return picked
}
