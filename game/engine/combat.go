package engine

import (
	"fmt"

	"github.com/wricardo/hexcorridor/game/hex"
)

// CombatOutcome is the result of HP-difference combat between two units.
type CombatOutcome int

const (
	AttackerWins CombatOutcome = iota
	DefenderWins
	MutualDestruction
)

// ResolveCombat compares hit points. The stronger unit survives with the
// difference; equal units destroy each other.
func ResolveCombat(attackerHP, defenderHP int) (CombatOutcome, int) {
	switch {
	case attackerHP > defenderHP:
		return AttackerWins, attackerHP - defenderHP
	case defenderHP > attackerHP:
		return DefenderWins, defenderHP - attackerHP
	default:
		return MutualDestruction, 0
	}
}

// attackUnit resolves the selected unit attacking the enemy on target.
//
// The loser's owner takes fortress damage equal to the loser's original hit
// points and the survivor advances onto the loser's tile. On a tie both units
// die and only the defender's owner takes damage.
func attackUnit(state *GameState, attackerID string, target hex.Position) ([]Event, error) {
	attacker, err := requireReady(state, attackerID)
	if err != nil {
		return nil, err
	}
	if !containsPosition(LegalAttackSet(state, attackerID), target) {
		return nil, rejectf("%s is not a legal attack target for card %s", target, attackerID)
	}
	defender := state.CardAt(target)

	a, d := *attacker, *defender
	attackerFrom := *a.Position
	outcome, remaining := ResolveCombat(a.HitPoints, d.HitPoints)

	events := []Event{{
		Type:     EventCombat,
		Player:   a.Owner,
		CardID:   a.ID,
		Position: posPtr(target),
		Message:  fmt.Sprintf("%s (%d) attacked %s (%d)", a.Name, a.HitPoints, d.Name, d.HitPoints),
	}}

	switch outcome {
	case AttackerWins:
		state.removeCard(d.ID)
		winner := state.CardByID(a.ID)
		winner.HitPoints = remaining
		winner.Position = posPtr(target)
		winner.AP = 0
		events = append(events, destroyed(d), damageFortress(state, d.Owner, d.HitPoints))

	case DefenderWins:
		state.removeCard(a.ID)
		winner := state.CardByID(d.ID)
		winner.HitPoints = remaining
		winner.Position = posPtr(attackerFrom)
		events = append(events, destroyed(a), damageFortress(state, a.Owner, a.HitPoints))

	case MutualDestruction:
		state.removeCard(a.ID)
		state.removeCard(d.ID)
		events = append(events, destroyed(a), destroyed(d), damageFortress(state, d.Owner, d.HitPoints))
	}

	state.SelectedCardID = ""
	evaluateWinner(state)
	return events, nil
}

// attackFortress strikes the enemy fortress from range. The attacker stays put.
func attackFortress(state *GameState, attackerID string, owner Player) ([]Event, error) {
	attacker, err := requireReady(state, attackerID)
	if err != nil {
		return nil, err
	}
	if owner == attacker.Owner {
		return nil, rejectf("card %s cannot attack its own fortress", attackerID)
	}
	dist := DistanceToFortress(*attacker.Position, owner, state.CorridorLength)
	if dist > attacker.Range {
		return nil, rejectf("%s fortress is %d away, card %s has range %d", owner, dist, attackerID, attacker.Range)
	}

	attacker.AP = 0
	events := []Event{damageFortress(state, owner, attacker.HitPoints)}
	events[0].CardID = attacker.ID

	state.SelectedCardID = ""
	evaluateWinner(state)
	return events, nil
}

func damageFortress(state *GameState, owner Player, amount int) Event {
	state.Fortresses.Get(owner).HitPoints -= amount
	return Event{
		Type:    EventFortressDamaged,
		Player:  owner,
		Amount:  amount,
		Message: fmt.Sprintf("%s fortress took %d damage", owner, amount),
	}
}

func destroyed(c Card) Event {
	return Event{
		Type:     EventUnitDestroyed,
		Player:   c.Owner,
		CardID:   c.ID,
		Position: posPtr(*c.Position),
		Message:  fmt.Sprintf("%s's %s was destroyed", c.Owner, c.Name),
	}
}
