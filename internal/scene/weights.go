package scene

import (
	"math"

	"github.com/autinyork/LowBorn/internal/event"
	"github.com/autinyork/LowBorn/internal/rng"
	"github.com/autinyork/LowBorn/internal/stats"
)

// EscalationCurve maps a 1-based day to [0,1]; tension ramps across the week.
func EscalationCurve(day int) float64 {
	c := float64(day-1) / 6
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// eventWeight scores a card for tonight's draw. The hidden threat and the
// escalation curve set the base profile; active investigation surfaces
// evidence cards; the intense-streak multipliers force recovery nights after
// back-to-back spikes. The floor keeps every card drawable.
func eventWeight(card event.Card, sceneType event.SceneType, threat ThreatSeed, day int, investigating bool, intenseStreak int) float64 {
	curve := EscalationCurve(day)
	hazard := card.HasTag(event.TagHazard)
	ambiguous := card.HasTag(event.TagAmbiguous)
	mundane := card.HasTag(event.TagMundane)
	internal := card.HasTag(event.TagInternal)
	shock := card.HasTag(event.TagShock)

	weight := 1.0
	if sceneType == event.ScenePatrol {
		switch threat {
		case ThreatReal:
			if mundane {
				weight += 2.1 - curve*0.7
			}
			if ambiguous {
				weight += 0.6 + curve*1.3
			}
			if hazard {
				weight += 0.25 + curve*1.1
			}
			if internal {
				weight += 0.2 + curve*0.8
			}
			if shock {
				if day <= 3 {
					weight += 0.03
				} else {
					weight += 0.12 + curve*0.35
				}
			}
		case ThreatExaggerated:
			if mundane {
				weight += 2 - curve*0.6
			}
			if ambiguous {
				weight += 0.8 + curve*1.2
			}
			if hazard {
				weight += 0.2 + curve*0.8
			}
			if internal {
				weight += 0.35 + curve*0.9
			}
			if shock {
				if day <= 3 {
					weight += 0.03
				} else {
					weight += 0.1 + curve*0.3
				}
			}
		default:
			if mundane {
				weight += 2.5 - curve*0.4
			}
			if ambiguous {
				weight += 0.35 + curve*0.55
			}
			if hazard {
				weight += 0.08 + curve*0.3
			}
			if internal {
				weight += 0.15 + curve*0.3
			}
			if shock {
				if day <= 4 {
					weight += 0.02
				} else {
					weight += 0.06 + curve*0.18
				}
			}
		}
	} else {
		switch threat {
		case ThreatReal:
			if mundane {
				weight += 1.9 - curve*0.4
			}
			if internal {
				weight += 0.7 + curve*1
			}
			if ambiguous {
				weight += 0.45 + curve*0.7
			}
			if hazard {
				weight += 0.25 + curve*0.8
			}
			if shock {
				if day <= 3 {
					weight += 0.03
				} else {
					weight += 0.1 + curve*0.35
				}
			}
		case ThreatExaggerated:
			if mundane {
				weight += 1.8 - curve*0.35
			}
			if internal {
				weight += 0.95 + curve*1.25
			}
			if ambiguous {
				weight += 0.65 + curve*0.95
			}
			if hazard {
				weight += 0.2 + curve*0.65
			}
			if shock {
				if day <= 3 {
					weight += 0.03
				} else {
					weight += 0.09 + curve*0.3
				}
			}
		default:
			if mundane {
				weight += 2.3 - curve*0.2
			}
			if internal {
				weight += 0.35 + curve*0.35
			}
			if ambiguous {
				weight += 0.25 + curve*0.4
			}
			if hazard {
				weight += 0.08 + curve*0.2
			}
			if shock {
				if day <= 4 {
					weight += 0.02
				} else {
					weight += 0.05 + curve*0.15
				}
			}
		}
	}

	if day <= 2 && card.Intense() {
		weight *= 0.7
	}
	if investigating && (hazard || ambiguous || shock) {
		weight += 1.6
	}
	if intenseStreak >= 1 && shock {
		weight *= 0.35
	}
	if intenseStreak >= 2 && card.Intense() {
		weight *= 0.08
	}
	if intenseStreak >= 2 && mundane {
		weight *= 2.8
	}

	return math.Max(0.05, round3(weight))
}

// pacingPool narrows the draw to cool-down cards once two intense nights
// have run back to back.
func pacingPool(cards []event.Card, intenseStreak int) []event.Card {
	if intenseStreak < 2 {
		return cards
	}
	cool := make([]event.Card, 0, len(cards))
	for _, c := range cards {
		if !c.Intense() || c.HasTag(event.TagMundane) {
			cool = append(cool, c)
		}
	}
	if len(cool) == 0 {
		return cards
	}
	return cool
}

func pickEventCard(r *rng.Rand, cards []event.Card, sceneType event.SceneType, threat ThreatSeed, day int, investigating bool, intenseStreak int) event.Card {
	pool := pacingPool(cards, intenseStreak)
	entries := make([]rng.Weighted[event.Card], len(pool))
	for i, c := range pool {
		entries[i] = rng.Weighted[event.Card]{
			Value:  c,
			Weight: eventWeight(c, sceneType, threat, day, investigating, intenseStreak),
		}
	}
	return rng.WeightedPick(r, entries)
}

// ThreatModifier is the hidden stat pressure the threat exerts on top of a
// card's base deltas. Calm nights under a real or exaggerated threat still
// leak rumor; a baseless threat lets calm nights genuinely restore.
func ThreatModifier(threat ThreatSeed, card event.Card, day int) (stats.PlayerDelta, stats.CampDelta) {
	early := day <= 2
	if card.Calm() {
		switch threat {
		case ThreatReal:
			p := stats.PlayerDelta{Sanity: -1}
			if early {
				p.Sanity = 0
			}
			return p, stats.CampDelta{Rumor: 1}
		case ThreatExaggerated:
			p := stats.PlayerDelta{Sanity: -1}
			c := stats.CampDelta{Rumor: 1, Discipline: -1}
			if early {
				p.Sanity = 0
				c.Discipline = 0
			}
			return p, c
		default:
			return stats.PlayerDelta{Sanity: 1}, stats.CampDelta{Rumor: -1, Morale: 1}
		}
	}

	switch threat {
	case ThreatReal:
		p := stats.PlayerDelta{Sanity: -1, Stamina: -1}
		c := stats.CampDelta{Rumor: 2, Morale: -1}
		if early {
			p.Stamina = 0
			c.Rumor = 1
			c.Morale = 0
		}
		return p, c
	case ThreatExaggerated:
		p := stats.PlayerDelta{Sanity: -1}
		c := stats.CampDelta{Rumor: 3, Discipline: -1}
		if early {
			p.Sanity = 0
			c.Rumor = 2
			c.Discipline = 0
		}
		return p, c
	default:
		return stats.PlayerDelta{Sanity: 1}, stats.CampDelta{Rumor: -1, Morale: 1}
	}
}
