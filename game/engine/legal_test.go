package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexcorridor/game/hex"
)

func TestDistanceToFortress(t *testing.T) {
	tests := []struct {
		pos   hex.Position
		owner Player
		want  int
	}{
		{hex.New(0, 2), Player1, 1},
		{hex.New(9, 0), Player2, 1},
		{hex.New(4, 1), Player2, 6},
		{hex.New(4, 1), Player1, 5},
		{hex.New(9, 3), Player1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String()+"/"+string(tt.owner), func(t *testing.T) {
			assert.Equal(t, tt.want, DistanceToFortress(tt.pos, tt.owner, 10))
		})
	}
}

func TestLegalSpawnSet(t *testing.T) {
	_, state := createEmptyMatch(t)
	hand := addUnit(state, Player2, 50, nil, 0)
	placed := addUnit(state, Player2, 50, at(9, 1), 0)

	got := LegalSpawnSet(state, hand)
	assert.ElementsMatch(t, []hex.Position{hex.New(9, 0), hex.New(9, 2), hex.New(9, 3)}, got)
	assert.Empty(t, LegalSpawnSet(state, placed))
	assert.Empty(t, LegalSpawnSet(state, "missing"))
}

func TestLegalMoveSet(t *testing.T) {
	_, state := createEmptyMatch(t)
	unit := addUnit(state, Player1, 100, at(4, 1), 1)
	addUnit(state, Player2, 100, at(5, 1), 1)
	tired := addUnit(state, Player1, 100, at(2, 2), 0)

	moves := LegalMoveSet(state, unit)
	require.NotEmpty(t, moves)
	for _, p := range moves {
		d := hex.Distance(hex.New(4, 1), p)
		assert.True(t, d >= 1 && d <= 2, "%s at distance %d", p, d)
		assert.True(t, state.InBounds(p))
		assert.Nil(t, state.CardAt(p))
	}
	assert.NotContains(t, moves, hex.New(5, 1))
	assert.NotContains(t, moves, hex.New(2, 2))
	assert.Contains(t, moves, hex.New(6, 1))

	assert.Empty(t, LegalMoveSet(state, tired))
}

func TestLegalAttackSet(t *testing.T) {
	_, state := createEmptyMatch(t)
	unit := addUnit(state, Player1, 100, at(4, 1), 1)
	addUnit(state, Player2, 100, at(5, 1), 1)
	addUnit(state, Player2, 100, at(6, 1), 1)
	addUnit(state, Player1, 100, at(4, 2), 1)
	addUnit(state, Player2, 100, nil, 0)

	assert.Equal(t, []hex.Position{hex.New(5, 1)}, LegalAttackSet(state, unit))

	state.CardByID(unit).Range = 2
	assert.ElementsMatch(t, []hex.Position{hex.New(5, 1), hex.New(6, 1)}, LegalAttackSet(state, unit))
}

func TestHasLegalAction(t *testing.T) {
	t.Run("fresh match", func(t *testing.T) {
		rules := createTestRules(t)
		state := rules.NewMatch("fresh", 1)
		assert.True(t, HasLegalAction(state, Player1))
		assert.True(t, HasLegalAction(state, Player2))
	})

	t.Run("only exhausted units", func(t *testing.T) {
		_, state := createEmptyMatch(t)
		addUnit(state, Player1, 100, at(3, 1), 0)
		assert.False(t, HasLegalAction(state, Player1))
	})

	t.Run("hand card with a full spawn edge", func(t *testing.T) {
		_, state := createEmptyMatch(t)
		addUnit(state, Player1, 100, nil, 0)
		for r := 0; r < 4; r++ {
			addUnit(state, Player1, 100, at(0, r), 0)
		}
		assert.False(t, HasLegalAction(state, Player1))
	})

	t.Run("ready unit", func(t *testing.T) {
		_, state := createEmptyMatch(t)
		addUnit(state, Player1, 100, at(3, 1), 1)
		assert.True(t, HasLegalAction(state, Player1))
	})

	t.Run("match over", func(t *testing.T) {
		_, state := createEmptyMatch(t)
		addUnit(state, Player1, 100, at(3, 1), 1)
		state.Winner = Player2
		assert.False(t, HasLegalAction(state, Player1))
	})
}

func TestLegalActions(t *testing.T) {
	rules := createTestRules(t)
	state := rules.NewMatch("legal", 1)

	actions := LegalActions(state)
	require.Len(t, actions, 13)
	for _, a := range actions[:12] {
		assert.Equal(t, ActionPlaceCard, a.Type)
		assert.Equal(t, Player1, a.PlayerID)
		assert.Equal(t, 0, a.Position.Q)
	}
	assert.Equal(t, ActionEndTurn, actions[12].Type)

	// Every listed action is accepted.
	for _, a := range actions {
		_, _, err := rules.Apply(state, a)
		assert.NoError(t, err, "%s", a)
	}
}

func TestLegalActionsIncludeFortress(t *testing.T) {
	_, state := createEmptyMatch(t)
	addReserves(state)
	unit := addUnit(state, Player1, 100, at(8, 1), 1)
	state.CardByID(unit).Range = 2

	actions := LegalActions(state)
	var fortress bool
	for _, a := range actions {
		if a.Type == ActionAttackFortress && a.AttackerID == unit {
			fortress = true
			assert.Equal(t, Player2, a.TargetFortress)
		}
	}
	assert.True(t, fortress)
}

func TestLegalSetsFor(t *testing.T) {
	_, state := createEmptyMatch(t)
	hand := addUnit(state, Player1, 50, nil, 0)

	sets := LegalSetsFor(state, hand)
	assert.Equal(t, hand, sets.CardID)
	assert.Len(t, sets.Spawn, 4)
	assert.Empty(t, sets.Move)
	assert.Empty(t, sets.Attack)
	assert.False(t, sets.CanAttackFortress)
}
