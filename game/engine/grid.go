package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/wricardo/hexcorridor/game/hex"
)

// cardNamespace scopes card ids so that the same match id and sequence
// number always yield the same card id.
var cardNamespace = uuid.MustParse("6f1c2a9e-4b7d-4c55-9a31-0d2f7be81c40")

// CardID returns the deterministic id of the seq-th card minted in a match.
func CardID(matchID string, seq int) string {
	return uuid.NewSHA1(cardNamespace, []byte(fmt.Sprintf("%s/%d", matchID, seq))).String()
}

// GenerateGrid builds a length × width corridor. Spawn-edge columns are
// revealed and reward-free; interior tiles roll terrain and then a reward
// whose strength grows with the distance from the nearest edge.
func GenerateGrid(config *MatchConfig, rng Rand) (tiles []HexTile, left, right []hex.Position) {
	length, width := config.CorridorLength, config.CorridorWidth
	tiers := newRewardTiers(config.Templates)

	tiles = make([]HexTile, 0, length*width)
	for q := 0; q < length; q++ {
		for r := 0; r < width; r++ {
			pos := hex.New(q, r)
			edge := q == 0 || q == length-1

			tile := HexTile{
				Position:   pos,
				IsRevealed: edge,
				Terrain:    TerrainNormal,
			}

			if !edge {
				if rng.Float64() < config.TerrainChance {
					if rng.Float64() < 0.5 {
						tile.Terrain = TerrainSlow
					} else {
						tile.Terrain = TerrainDangerous
					}
				}
				if rng.Float64() < config.RewardChance {
					reward := pickReward(tiers, q, length, rng)
					tile.Reward = &reward
				}
			}

			switch q {
			case 0:
				left = append(left, pos)
			case length - 1:
				right = append(right, pos)
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles, left, right
}

// pickReward draws a reward template for column q. Quality is the distance
// from the nearest spawn edge normalized by half the corridor, clamped to 1.
func pickReward(tiers rewardTiers, q, length int, rng Rand) CardTemplate {
	fromEdge := min(q, length-1-q)
	quality := math.Min(float64(fromEdge)/(float64(length)/2), 1)

	switch {
	case quality > 0.6 && rng.Float64() > 0.5:
		return tiers.strong
	case quality > 0.3 && rng.Float64() > 0.4:
		return tiers.middle
	default:
		return tiers.weak
	}
}

// dealHands gives each player handSize random cards, player1 first.
func dealHands(state *GameState, templates []CardTemplate, handSize int, rng Rand) {
	for _, owner := range []Player{Player1, Player2} {
		for i := 0; i < handSize; i++ {
			t := templates[rng.Intn(len(templates))]
			state.Cards = append(state.Cards, mintCard(state.nextCardID(), owner, t))
		}
	}
}

// nextCardID advances the card sequence and returns the new id.
func (s *GameState) nextCardID() string {
	s.CardSeq++
	return CardID(s.MatchID, s.CardSeq)
}
