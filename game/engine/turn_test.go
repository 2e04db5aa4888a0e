package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexcorridor/game/hex"
)

func TestEndTurnRestoresActionPoints(t *testing.T) {
	rules, state := createEmptyMatch(t)
	mine := addUnit(state, Player1, 100, at(2, 1), 0)
	theirs := addUnit(state, Player2, 100, at(7, 1), 0)
	theirHand := addUnit(state, Player2, 100, nil, 0)
	state.SelectedCardID = mine

	next, events, err := rules.Apply(state, NewEndTurn(Player1))
	require.NoError(t, err)

	assert.Equal(t, Player2, next.CurrentPlayer)
	assert.Equal(t, 1, next.TurnCount)
	assert.Empty(t, next.SelectedCardID)
	assert.Equal(t, 1, next.CardByID(theirs).AP)
	assert.Equal(t, 0, next.CardByID(theirHand).AP, "hand cards never hold action points")
	assert.Equal(t, 0, next.CardByID(mine).AP)
	require.Len(t, events, 1)
	assert.Equal(t, EventTurnEnded, events[0].Type)
	assert.Equal(t, Player1, events[0].Player)
}

func TestEndTurnRespawnsRewards(t *testing.T) {
	rules, state := createEmptyMatch(t)
	addReserves(state)
	state.TileAt(hex.New(3, 1)).IsRevealed = true
	state.TileAt(hex.New(4, 2)).IsRevealed = true
	collected := state.TileAt(hex.New(5, 2))
	collected.IsRevealed = true
	grass := TemplateGrass
	collected.Reward = &grass
	collected.IsCollected = true
	state.CurrentPlayer = Player2
	state.TurnCount = 2

	next, events, err := rules.Apply(state, NewEndTurn(Player2))
	require.NoError(t, err)
	assert.Equal(t, 3, next.TurnCount)

	for _, p := range []hex.Position{hex.New(3, 1), hex.New(4, 2)} {
		tile := next.TileAt(p)
		require.NotNil(t, tile.Reward, "tile %s", p)
		assert.False(t, tile.IsCollected, "tile %s", p)
		assert.Equal(t, "Man", tile.Reward.Name)
	}
	require.Len(t, events, 2)
	assert.Equal(t, EventRewardsRespawned, events[1].Type)
	assert.Equal(t, 2, events[1].Amount)

	// A collected tile keeps its spent reward and is never refilled.
	spent := next.TileAt(hex.New(5, 2))
	assert.Equal(t, "Grass", spent.Reward.Name)
	assert.True(t, spent.IsCollected)
}

func TestEndTurnRespawnSkipped(t *testing.T) {
	tests := []struct {
		name  string
		turn  int
		setup func(*GameState)
	}{
		{
			name: "off interval",
			turn: 0,
			setup: func(s *GameState) {
				s.TileAt(hex.New(3, 1)).IsRevealed = true
				s.TileAt(hex.New(4, 1)).IsRevealed = true
			},
		},
		{
			name: "no eligible tile",
			turn: 2,
			setup: func(s *GameState) {},
		},
		{
			name: "one eligible tile",
			turn: 2,
			setup: func(s *GameState) {
				s.TileAt(hex.New(3, 1)).IsRevealed = true
			},
		},
		{
			name: "collected tile is not eligible",
			turn: 2,
			setup: func(s *GameState) {
				s.TileAt(hex.New(3, 1)).IsRevealed = true
				spent := s.TileAt(hex.New(4, 1))
				spent.IsRevealed = true
				man := TemplateMan
				spent.Reward = &man
				spent.IsCollected = true
			},
		},
		{
			name: "occupied tile",
			turn: 2,
			setup: func(s *GameState) {
				s.TileAt(hex.New(3, 1)).IsRevealed = true
				s.TileAt(hex.New(4, 1)).IsRevealed = true
				addUnit(s, Player1, 50, at(4, 1), 0)
			},
		},
		{
			name: "reward still waiting",
			turn: 2,
			setup: func(s *GameState) {
				s.TileAt(hex.New(3, 1)).IsRevealed = true
				waiting := s.TileAt(hex.New(4, 1))
				waiting.IsRevealed = true
				mouse := TemplateMouse
				waiting.Reward = &mouse
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, state := createEmptyMatch(t)
			addReserves(state)
			tt.setup(state)
			state.TurnCount = tt.turn
			if tt.turn%2 == 1 {
				state.CurrentPlayer = Player2
			}

			next, events, err := rules.Apply(state, NewEndTurn(state.CurrentPlayer))
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, EventTurnEnded, events[0].Type)
			assert.Nil(t, next.TileAt(hex.New(3, 1)).Reward)
		})
	}
}

func TestRespawnEligible(t *testing.T) {
	_, state := createEmptyMatch(t)
	addUnit(state, Player1, 50, at(2, 2), 1)
	state.TileAt(hex.New(2, 2)).IsRevealed = true
	state.TileAt(hex.New(3, 3)).IsRevealed = true

	assert.False(t, RespawnEligible(state, state.TileAt(hex.New(0, 0))), "spawn edge")
	assert.False(t, RespawnEligible(state, state.TileAt(hex.New(4, 0))), "unrevealed")
	assert.False(t, RespawnEligible(state, state.TileAt(hex.New(2, 2))), "occupied")
	assert.True(t, RespawnEligible(state, state.TileAt(hex.New(3, 3))))

	spent := state.TileAt(hex.New(3, 3))
	mouse := TemplateMouse
	spent.Reward = &mouse
	spent.IsCollected = true
	assert.False(t, RespawnEligible(state, spent), "collected")
}

func TestEndTurnEliminationDoesNotAdvance(t *testing.T) {
	rules, state := createEmptyMatch(t)
	addUnit(state, Player1, 50, nil, 0)

	next, events, err := rules.Apply(state, NewEndTurn(Player1))
	require.NoError(t, err)
	assert.Equal(t, Player1, next.Winner)
	assert.Equal(t, Player1, next.CurrentPlayer)
	assert.Equal(t, 0, next.TurnCount)
	require.Len(t, events, 1)
	assert.Equal(t, EventGameOver, events[0].Type)
}

func TestRespawnIsDeterministicPerTurn(t *testing.T) {
	cfg := DefaultMatchConfig()
	rules, err := NewRules(cfg)
	require.NoError(t, err)

	build := func() *GameState {
		state := rules.NewMatch("respawn", 77)
		for i := range state.Tiles {
			if !state.IsSpawnEdge(state.Tiles[i].Position) {
				state.Tiles[i].IsRevealed = true
				state.Tiles[i].Reward = nil
			}
		}
		state.TurnCount = 2
		state.CurrentPlayer = Player2
		return state
	}

	a, _, err := rules.Apply(build(), NewEndTurn(Player2))
	require.NoError(t, err)
	b, _, err := rules.Apply(build(), NewEndTurn(Player2))
	require.NoError(t, err)
	assert.Equal(t, a.Tiles, b.Tiles)

	rewards := 0
	for _, tile := range a.Tiles {
		if tile.HasUncollectedReward() {
			rewards++
		}
	}
	assert.Equal(t, cfg.RespawnCount, rewards)
}
