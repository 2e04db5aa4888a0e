package engine

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/wricardo/hexcorridor/game/hex"
)

// SameState reports whether two states encode to the same JSON, which is the
// form every session store persists.
func SameState(a, b *GameState) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}

// Summary is a compact view of a match used in listings and logs.
type Summary struct {
	TurnCount     int    `json:"turn_count"`
	CurrentPlayer Player `json:"current_player"`
	Winner        Player `json:"winner,omitempty"`
	Phase         Phase  `json:"phase"`
	Player1HP     int    `json:"player1_fortress_hp"`
	Player2HP     int    `json:"player2_fortress_hp"`
	Player1Hand   int    `json:"player1_hand"`
	Player2Hand   int    `json:"player2_hand"`
	Player1Board  int    `json:"player1_board"`
	Player2Board  int    `json:"player2_board"`
}

// Summarize counts units and fortress hit points.
func Summarize(state *GameState) Summary {
	return Summary{
		TurnCount:     state.TurnCount,
		CurrentPlayer: state.CurrentPlayer,
		Winner:        state.Winner,
		Phase:         state.Phase,
		Player1HP:     state.Fortresses.Player1.DisplayHitPoints(),
		Player2HP:     state.Fortresses.Player2.DisplayHitPoints(),
		Player1Hand:   len(state.Hand(Player1)),
		Player2Hand:   len(state.Hand(Player2)),
		Player1Board:  len(state.Board(Player1)),
		Player2Board:  len(state.Board(Player2)),
	}
}

// RenderBoard draws the corridor as text, one line per row r. Each row is
// indented by r to show the axial skew.
//
//	1 / 2  unit of player1 / player2
//	#      unrevealed tile
//	+      revealed tile with an uncollected reward
//	.      revealed empty tile
func RenderBoard(state *GameState) []string {
	lines := make([]string, 0, state.CorridorWidth)
	for r := 0; r < state.CorridorWidth; r++ {
		var row strings.Builder
		row.WriteString(strings.Repeat(" ", r))
		for q := 0; q < state.CorridorLength; q++ {
			if q > 0 {
				row.WriteByte(' ')
			}
			row.WriteByte(tileGlyph(state, hex.New(q, r)))
		}
		lines = append(lines, row.String())
	}
	return lines
}

func tileGlyph(state *GameState, p hex.Position) byte {
	if c := state.CardAt(p); c != nil {
		if c.Owner == Player1 {
			return '1'
		}
		return '2'
	}
	t := state.TileAt(p)
	switch {
	case t == nil:
		return ' '
	case !t.IsRevealed:
		return '#'
	case t.HasUncollectedReward():
		return '+'
	default:
		return '.'
	}
}
