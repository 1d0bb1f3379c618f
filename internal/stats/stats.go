// Package stats holds the player and camp stat blocks and their delta
// arithmetic. Every stat is an integer clamped to [0,100] after each
// application; deltas merge by plain per-field summation.
package stats

import "strconv"

// Player tracks the watcher's personal condition.
type Player struct {
	Warmth  int `json:"warmth" yaml:"warmth"`
	Stamina int `json:"stamina" yaml:"stamina"`
	Injury  int `json:"injury" yaml:"injury"`
	Hunger  int `json:"hunger" yaml:"hunger"`
	Sanity  int `json:"sanity" yaml:"sanity"`
}

// Camp tracks the shared camp condition.
type Camp struct {
	Supplies   int `json:"supplies" yaml:"supplies"`
	Morale     int `json:"morale" yaml:"morale"`
	Discipline int `json:"discipline" yaml:"discipline"`
	Rumor      int `json:"rumor" yaml:"rumor"`
}

// PlayerDelta is a signed adjustment; zero fields mean no change.
type PlayerDelta struct {
	Warmth  int `json:"warmth,omitempty" yaml:"warmth,omitempty"`
	Stamina int `json:"stamina,omitempty" yaml:"stamina,omitempty"`
	Injury  int `json:"injury,omitempty" yaml:"injury,omitempty"`
	Hunger  int `json:"hunger,omitempty" yaml:"hunger,omitempty"`
	Sanity  int `json:"sanity,omitempty" yaml:"sanity,omitempty"`
}

// CampDelta is a signed adjustment; zero fields mean no change.
type CampDelta struct {
	Supplies   int `json:"supplies,omitempty" yaml:"supplies,omitempty"`
	Morale     int `json:"morale,omitempty" yaml:"morale,omitempty"`
	Discipline int `json:"discipline,omitempty" yaml:"discipline,omitempty"`
	Rumor      int `json:"rumor,omitempty" yaml:"rumor,omitempty"`
}

// Clamp bounds value to [min, max].
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampF bounds value to [min, max].
func ClampF(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// MergePlayerDeltas sums deltas field by field.
func MergePlayerDeltas(deltas ...PlayerDelta) PlayerDelta {
	var out PlayerDelta
	for _, d := range deltas {
		out.Warmth += d.Warmth
		out.Stamina += d.Stamina
		out.Injury += d.Injury
		out.Hunger += d.Hunger
		out.Sanity += d.Sanity
	}
	return out
}

// MergeCampDeltas sums deltas field by field.
func MergeCampDeltas(deltas ...CampDelta) CampDelta {
	var out CampDelta
	for _, d := range deltas {
		out.Supplies += d.Supplies
		out.Morale += d.Morale
		out.Discipline += d.Discipline
		out.Rumor += d.Rumor
	}
	return out
}

// Apply returns the stats after the delta, each field clamped to [0,100].
func (p Player) Apply(d PlayerDelta) Player {
	return Player{
		Warmth:  Clamp(p.Warmth+d.Warmth, 0, 100),
		Stamina: Clamp(p.Stamina+d.Stamina, 0, 100),
		Injury:  Clamp(p.Injury+d.Injury, 0, 100),
		Hunger:  Clamp(p.Hunger+d.Hunger, 0, 100),
		Sanity:  Clamp(p.Sanity+d.Sanity, 0, 100),
	}
}

// Apply returns the stats after the delta, each field clamped to [0,100].
func (c Camp) Apply(d CampDelta) Camp {
	return Camp{
		Supplies:   Clamp(c.Supplies+d.Supplies, 0, 100),
		Morale:     Clamp(c.Morale+d.Morale, 0, 100),
		Discipline: Clamp(c.Discipline+d.Discipline, 0, 100),
		Rumor:      Clamp(c.Rumor+d.Rumor, 0, 100),
	}
}

// InBounds reports whether every field sits inside [0,100].
func (p Player) InBounds() bool {
	for _, v := range []int{p.Warmth, p.Stamina, p.Injury, p.Hunger, p.Sanity} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}

// InBounds reports whether every field sits inside [0,100].
func (c Camp) InBounds() bool {
	for _, v := range []int{c.Supplies, c.Morale, c.Discipline, c.Rumor} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}

// Signed formats a delta component for narrative output ("+5", "-3", "0").
func Signed(value int) string {
	if value > 0 {
		return "+" + strconv.Itoa(value)
	}
	return strconv.Itoa(value)
}
