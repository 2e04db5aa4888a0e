package engine

// DetermineWinner applies the win conditions in precedence order and returns
// the winner, or "" while play continues:
//  1. both fortresses down: higher remaining hit points wins, a tie goes to
//     the current player
//  2. one fortress down: the other player wins
//  3. a player with no units on the board and no cards in hand loses
//     (player2 is checked first)
func DetermineWinner(state *GameState) Player {
	p1 := state.Fortresses.Player1
	p2 := state.Fortresses.Player2

	switch {
	case p1.Destroyed() && p2.Destroyed():
		switch {
		case p1.HitPoints > p2.HitPoints:
			return Player1
		case p2.HitPoints > p1.HitPoints:
			return Player2
		default:
			return state.CurrentPlayer
		}
	case p1.Destroyed():
		return Player2
	case p2.Destroyed():
		return Player1
	}

	if eliminated(state, Player2) {
		return Player1
	}
	if eliminated(state, Player1) {
		return Player2
	}
	return ""
}

func eliminated(state *GameState, p Player) bool {
	for _, c := range state.Cards {
		if c.Owner == p {
			return false
		}
	}
	return true
}

// evaluateWinner records the winner, if any, and reports whether the match
// is now decided.
func evaluateWinner(state *GameState) bool {
	if w := DetermineWinner(state); w != "" {
		state.Winner = w
	}
	return state.IsOver()
}
