package engine

import "github.com/wricardo/hexcorridor/game/hex"

// Player identifies one side of a match.
type Player string

const (
	Player1 Player = "player1"
	Player2 Player = "player2"
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether p names one of the two sides.
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

// TerrainType marks special ground under a tile. It is carried for display
// only and does not change any rule.
type TerrainType string

const (
	TerrainNormal    TerrainType = "normal"
	TerrainSlow      TerrainType = "slow"
	TerrainDangerous TerrainType = "dangerous"
)

// Phase is the lifecycle stage of a match.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseInProgress Phase = "in_progress"
	PhaseEnded      Phase = "ended"
)

const (
	// Validation constants
	MinCorridorLength = 3
	MaxCorridorLength = 40
	MinCorridorWidth  = 1
	MaxCorridorWidth  = 20
	MaxHandSize       = 20
	MaxActionPoints   = 1
)

// CardTemplate is the immutable archetype a Card is minted from.
type CardTemplate struct {
	Name         string `json:"name" yaml:"name"`
	HitPoints    int    `json:"hit_points" yaml:"hit_points"`
	MaxHitPoints int    `json:"max_hit_points" yaml:"max_hit_points"`
	Speed        int    `json:"speed" yaml:"speed"`
	Range        int    `json:"range" yaml:"range"`
	Image        string `json:"image" yaml:"image"`
}

// Card is a unit instance. A nil Position means the card is in its owner's hand.
type Card struct {
	ID           string        `json:"id"`
	Owner        Player        `json:"owner"`
	Name         string        `json:"name"`
	HitPoints    int           `json:"hit_points"`
	MaxHitPoints int           `json:"max_hit_points"`
	Speed        int           `json:"speed"`
	Range        int           `json:"range"`
	Image        string        `json:"image"`
	Position     *hex.Position `json:"position,omitempty"`
	AP           int           `json:"ap"`
}

// InHand reports whether the card has not been placed yet.
func (c *Card) InHand() bool {
	return c.Position == nil
}

// OnBoard reports whether the card occupies a tile.
func (c *Card) OnBoard() bool {
	return c.Position != nil
}

// HexTile is one cell of the corridor.
type HexTile struct {
	Position    hex.Position  `json:"position"`
	IsRevealed  bool          `json:"is_revealed"`
	IsCollected bool          `json:"is_collected"`
	Reward      *CardTemplate `json:"reward,omitempty"`
	Terrain     TerrainType   `json:"terrain_type,omitempty"`
}

// HasUncollectedReward reports whether stepping on the tile yields a card.
func (t *HexTile) HasUncollectedReward() bool {
	return t.Reward != nil && !t.IsCollected
}

// Fortress is a player's base. HitPoints may go below zero internally.
type Fortress struct {
	Owner        Player `json:"owner"`
	HitPoints    int    `json:"hit_points"`
	MaxHitPoints int    `json:"max_hit_points"`
}

// DisplayHitPoints clamps HitPoints at zero.
func (f Fortress) DisplayHitPoints() int {
	if f.HitPoints < 0 {
		return 0
	}
	return f.HitPoints
}

// Destroyed reports whether the fortress has fallen.
func (f Fortress) Destroyed() bool {
	return f.HitPoints <= 0
}

// Fortresses holds both bases.
type Fortresses struct {
	Player1 Fortress `json:"player1"`
	Player2 Fortress `json:"player2"`
}

// Get returns a pointer to the fortress owned by p.
func (f *Fortresses) Get(p Player) *Fortress {
	if p == Player2 {
		return &f.Player2
	}
	return &f.Player1
}

// GameState is the complete, serializable state of a match. Accepted actions
// never modify a GameState in place; they return a new one.
type GameState struct {
	MatchID        string         `json:"match_id"`
	Seed           int64          `json:"seed"`
	ConfigName     string         `json:"config_name"`
	Phase          Phase          `json:"phase"`
	Tiles          []HexTile      `json:"tiles"`
	Cards          []Card         `json:"cards"`
	Fortresses     Fortresses     `json:"fortresses"`
	CurrentPlayer  Player         `json:"current_player"`
	SelectedCardID string         `json:"selected_card_id,omitempty"`
	Winner         Player         `json:"winner,omitempty"`
	CorridorLength int            `json:"corridor_length"`
	CorridorWidth  int            `json:"corridor_width"`
	LeftSpawnEdge  []hex.Position `json:"left_spawn_edge"`
	RightSpawnEdge []hex.Position `json:"right_spawn_edge"`
	TurnCount      int            `json:"turn_count"`
	CardSeq        int            `json:"card_seq"`
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s

	out.Tiles = make([]HexTile, len(s.Tiles))
	for i, t := range s.Tiles {
		if t.Reward != nil {
			reward := *t.Reward
			t.Reward = &reward
		}
		out.Tiles[i] = t
	}

	out.Cards = make([]Card, len(s.Cards))
	for i, c := range s.Cards {
		if c.Position != nil {
			pos := *c.Position
			c.Position = &pos
		}
		out.Cards[i] = c
	}

	out.LeftSpawnEdge = append([]hex.Position(nil), s.LeftSpawnEdge...)
	out.RightSpawnEdge = append([]hex.Position(nil), s.RightSpawnEdge...)
	return &out
}

// IsOver reports whether a winner has been decided.
func (s *GameState) IsOver() bool {
	return s.Winner != ""
}

// InBounds reports whether p is a tile of the corridor.
func (s *GameState) InBounds(p hex.Position) bool {
	return p.Q >= 0 && p.Q < s.CorridorLength && p.R >= 0 && p.R < s.CorridorWidth
}

// TileAt returns the tile at p, or nil when p is off the board.
func (s *GameState) TileAt(p hex.Position) *HexTile {
	if !s.InBounds(p) {
		return nil
	}
	idx := p.Q*s.CorridorWidth + p.R
	if idx < len(s.Tiles) && s.Tiles[idx].Position.Equal(p) {
		return &s.Tiles[idx]
	}
	// Fall back to a scan for states built by hand.
	for i := range s.Tiles {
		if s.Tiles[i].Position.Equal(p) {
			return &s.Tiles[i]
		}
	}
	return nil
}

// CardByID returns the card with the given id, or nil.
func (s *GameState) CardByID(id string) *Card {
	if id == "" {
		return nil
	}
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

// CardAt returns the unit standing on p, or nil.
func (s *GameState) CardAt(p hex.Position) *Card {
	for i := range s.Cards {
		if s.Cards[i].Position != nil && s.Cards[i].Position.Equal(p) {
			return &s.Cards[i]
		}
	}
	return nil
}

// SelectedCard resolves SelectedCardID.
func (s *GameState) SelectedCard() *Card {
	return s.CardByID(s.SelectedCardID)
}

// Hand returns the cards p holds but has not placed.
func (s *GameState) Hand(p Player) []Card {
	var out []Card
	for _, c := range s.Cards {
		if c.Owner == p && c.InHand() {
			out = append(out, c)
		}
	}
	return out
}

// Board returns p's units on the corridor.
func (s *GameState) Board(p Player) []Card {
	var out []Card
	for _, c := range s.Cards {
		if c.Owner == p && c.OnBoard() {
			out = append(out, c)
		}
	}
	return out
}

// SpawnEdge returns the column where p places cards.
func (s *GameState) SpawnEdge(p Player) []hex.Position {
	if p == Player2 {
		return s.RightSpawnEdge
	}
	return s.LeftSpawnEdge
}

// SpawnColumn returns the q of p's spawn edge.
func (s *GameState) SpawnColumn(p Player) int {
	if p == Player2 {
		return s.CorridorLength - 1
	}
	return 0
}

// IsSpawnEdge reports whether p lies on either spawn edge.
func (s *GameState) IsSpawnEdge(p hex.Position) bool {
	return s.IsOnSpawnEdgeOf(p, Player1) || s.IsOnSpawnEdgeOf(p, Player2)
}

// IsOnSpawnEdgeOf reports whether p lies on owner's spawn edge.
func (s *GameState) IsOnSpawnEdgeOf(p hex.Position, owner Player) bool {
	for _, e := range s.SpawnEdge(owner) {
		if e.Equal(p) {
			return true
		}
	}
	return false
}

// removeCard drops the card with id from the state.
func (s *GameState) removeCard(id string) {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			s.Cards = append(s.Cards[:i], s.Cards[i+1:]...)
			return
		}
	}
}
