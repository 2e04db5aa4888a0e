package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineWinner(t *testing.T) {
	tests := []struct {
		name    string
		p1HP    int
		p2HP    int
		current Player
		p1Cards bool
		p2Cards bool
		want    Player
	}{
		{"play continues", 3000, 3000, Player1, true, true, ""},
		{"player2 fortress down", 100, 0, Player2, true, true, Player1},
		{"player1 fortress down", -50, 100, Player1, true, true, Player2},
		{"both down, higher remaining wins", -10, -200, Player2, true, true, Player1},
		{"both down, player2 higher", -300, 0, Player1, true, true, Player2},
		{"both down tie goes to current player", -100, -100, Player2, true, true, Player2},
		{"fortress beats elimination", 0, 500, Player1, true, false, Player2},
		{"player2 eliminated", 3000, 3000, Player2, true, false, Player1},
		{"player1 eliminated", 3000, 3000, Player1, false, true, Player2},
		{"both eliminated favours player1", 3000, 3000, Player2, false, false, Player1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &GameState{
				MatchID:       "winner",
				CurrentPlayer: tt.current,
				Fortresses: Fortresses{
					Player1: Fortress{Owner: Player1, HitPoints: tt.p1HP, MaxHitPoints: 3000},
					Player2: Fortress{Owner: Player2, HitPoints: tt.p2HP, MaxHitPoints: 3000},
				},
			}
			if tt.p1Cards {
				addUnit(state, Player1, 10, nil, 0)
			}
			if tt.p2Cards {
				addUnit(state, Player2, 10, at(3, 0), 1)
			}
			assert.Equal(t, tt.want, DetermineWinner(state))
		})
	}
}

func TestEvaluateWinnerKeepsDecidedMatch(t *testing.T) {
	state := &GameState{
		Winner: Player2,
		Fortresses: Fortresses{
			Player1: Fortress{HitPoints: 3000},
			Player2: Fortress{HitPoints: 3000},
		},
	}
	addReserves(state)
	assert.True(t, evaluateWinner(state))
	assert.Equal(t, Player2, state.Winner)
}
