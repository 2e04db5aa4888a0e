// Package engine provides the rule engine for Hex Corridor matches.
//
// The engine package implements:
//   - The entity model: cards, tiles, fortresses and the GameState aggregate
//   - Corridor generation with hidden, distance-weighted rewards
//   - Placement, movement, HP-difference combat and fortress assaults
//   - Turn rotation, periodic reward respawn and win detection
//   - Legal-set queries for UI highlighting and auto-end-turn scheduling
//   - Match configuration loading and validation (JSON or YAML)
//
// Core Types:
//
// Rules is the pure transition function: Rules.Apply takes a GameState and
// an Action and returns a new GameState, or the unchanged input together with
// an error wrapping ErrRejected (a rule precondition failed) or
// ErrInvalidRequest (malformed input). GameEngine wraps Rules with the
// authoritative state of one match and its action log.
//
// Determinism:
//
// All randomness comes from a RandSource keyed by the match seed. The board
// and the initial deal are drawn from the seed itself; reward respawn draws
// from a seed derived from the match seed and the turn number. Card ids are
// UUIDv5 values of the match id and a sequence number. Replaying the same
// action log against the same configuration, match id and seed therefore
// reproduces the same state on any host.
//
// Usage:
//
//	config, err := engine.LoadMatchConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(config, engine.MatchOptions{Seed: 42})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hand := eng.GetState().Hand(engine.Player1)
//	_, events, err := eng.Apply(engine.NewPlaceCard(engine.Player1, hand[0].ID, hex.New(0, 1)))
//	if engine.IsRejected(err) {
//		// stale UI or wrong turn; nothing changed
//	}
//
// Game Rules:
//
// Players place hand cards on their own spawn edge, then move and attack
// across the corridor. Combat subtracts hit points: the survivor keeps the
// difference and the loser's owner takes the loser's hit points as fortress
// damage. Walking onto the enemy spawn edge sacrifices the unit for fortress
// damage equal to its hit points. A match ends when a fortress falls or a
// player has no units and no cards left.
package engine
