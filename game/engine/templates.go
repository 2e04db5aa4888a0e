package engine

import "sort"

// Built-in card archetypes.
var (
	TemplateMan = CardTemplate{
		Name:         "Man",
		HitPoints:    200,
		MaxHitPoints: 200,
		Speed:        2,
		Range:        1,
		Image:        "/cards/man.svg",
	}
	TemplateGrass = CardTemplate{
		Name:         "Grass",
		HitPoints:    300,
		MaxHitPoints: 300,
		Speed:        1,
		Range:        1,
		Image:        "/cards/grass.svg",
	}
	TemplateMouse = CardTemplate{
		Name:         "Mouse",
		HitPoints:    30,
		MaxHitPoints: 30,
		Speed:        2,
		Range:        1,
		Image:        "/cards/mouse.svg",
	}
)

// DefaultTemplates returns a fresh copy of the built-in catalog.
func DefaultTemplates() []CardTemplate {
	return []CardTemplate{TemplateMan, TemplateGrass, TemplateMouse}
}

// rewardTiers orders a catalog for reward placement: strongest, middle and
// weakest by max hit points. Equal templates keep catalog order.
type rewardTiers struct {
	strong CardTemplate
	middle CardTemplate
	weak   CardTemplate
}

func newRewardTiers(templates []CardTemplate) rewardTiers {
	ranked := append([]CardTemplate(nil), templates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MaxHitPoints > ranked[j].MaxHitPoints
	})
	return rewardTiers{
		strong: ranked[0],
		middle: ranked[len(ranked)/2],
		weak:   ranked[len(ranked)-1],
	}
}

// mintCard stamps a new in-hand card for owner from t.
func mintCard(id string, owner Player, t CardTemplate) Card {
	return Card{
		ID:           id,
		Owner:        owner,
		Name:         t.Name,
		HitPoints:    t.HitPoints,
		MaxHitPoints: t.MaxHitPoints,
		Speed:        t.Speed,
		Range:        t.Range,
		Image:        t.Image,
		AP:           0,
	}
}
