// Package npc models the camp roster: who stands watch, how loyal or fearful
// they are, and how much they trust the player. The roster is derived purely
// from the run seed so the same seed always yields the same watchers.
package npc

import (
	"fmt"

	"github.com/autinyork/LowBorn/internal/rng"
)

// Profile is one watcher on the roster. All gauge fields sit in [0,100].
type Profile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Loyalty       int    `json:"loyalty"`
	Fear          int    `json:"fear"`
	Belief        int    `json:"belief"`
	TrustInPlayer int    `json:"trustInPlayer"`
	Role          string `json:"role"`
}

// Template describes a roster role archetype.
type Template struct {
	ID       string
	Role     string
	Attitude string
}

// RosterMin and RosterMax bound the seeded roster size.
const (
	RosterMin = 8
	RosterMax = 14
)

// BuildRoster derives the full NPC roster for a seed. Calling it twice with
// the same seed yields identical IDs, names, and gauge values in the same
// order.
func BuildRoster(seed string) []Profile {
	r := rng.New(seed + ":npcs")
	size := r.IntBetween(RosterMin, RosterMax)

	available := make([]string, len(frontierNames))
	copy(available, frontierNames)

	roster := make([]Profile, 0, size)
	for i := 0; i < size; i++ {
		template := rng.Pick(r, templates)

		var base string
		if len(available) > 0 {
			at := r.IntBetween(0, len(available)-1)
			base = available[at]
			available = append(available[:at], available[at+1:]...)
		} else {
			base = rng.Pick(r, frontierNames)
		}
		name := base
		if i >= len(frontierNames) {
			name = fmt.Sprintf("%s-%d", base, i+1)
		}

		roster = append(roster, Profile{
			ID:            fmt.Sprintf("npc-%d", i+1),
			Name:          name,
			Loyalty:       r.IntBetween(30, 85),
			Fear:          r.IntBetween(10, 80),
			Belief:        r.IntBetween(15, 90),
			TrustInPlayer: r.IntBetween(25, 80),
			Role:          template.Role,
		})
	}

	return roster
}
