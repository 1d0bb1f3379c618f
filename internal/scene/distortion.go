package scene

import "github.com/autinyork/LowBorn/internal/rng"

var sanityOverlayLines = []string{
	"For one breath, you see a second patrol crossing your own tracks.",
	"Lantern shadows gather into a shape that vanishes when you turn.",
	"You hear your own name carried from beyond the marker line.",
	"Footsteps echo behind you, but the snow remains untouched.",
}

// DistortionForSanity grades perception reliability from current sanity.
func DistortionForSanity(sanity int) DistortionLevel {
	if sanity < 25 {
		return DistortionSevere
	}
	if sanity < 45 {
		return DistortionUneasy
	}
	return DistortionNone
}

func distortOutcome(outcome string, level DistortionLevel, r *rng.Rand) string {
	if level == DistortionNone {
		return outcome
	}
	uneasy := rng.Pick(r, []string{
		"The silence around it lingers too long.",
		"The detail sits wrong in your mind.",
		"It feels less resolved than the words suggest.",
	})
	if level == DistortionUneasy {
		return outcome + " " + uneasy
	}
	severe := rng.Pick(r, []string{
		"Every shadow seems to repeat the scene.",
		"For a moment you doubt what happened first.",
		"The memory plays back with missing pieces.",
	})
	return outcome + " " + severe
}

func distortRoute(route string, level DistortionLevel, r *rng.Rand) string {
	if route == "" || level == DistortionNone {
		return route
	}
	if level == DistortionUneasy {
		return route + " " + rng.Pick(r, []string{
			"The path feels narrower than it is.",
			"Markers look misplaced in the dark.",
			"Your map memory stutters on this stretch.",
		})
	}
	return route + " " + rng.Pick(r, []string{
		"You could swear this bend was not here before.",
		"For several steps, every trail points at you.",
		"The marker lights seem to move when you blink.",
	})
}

// perceptionOverlay sometimes injects a hallucinated line; the roll is
// consumed even when no overlay fires so the stream stays aligned.
func perceptionOverlay(level DistortionLevel, r *rng.Rand) string {
	if level == DistortionNone {
		return ""
	}
	roll := r.Float64()
	if level == DistortionUneasy && roll < 0.26 {
		return rng.Pick(r, sanityOverlayLines)
	}
	if level == DistortionSevere && roll < 0.6 {
		return rng.Pick(r, sanityOverlayLines)
	}
	return ""
}

// PresentClaim filters an NPC claim through the player's sanity. At low
// sanity even a calm report arrives colored; below the severe line the calm
// claim itself reads wrong.
func PresentClaim(claim string, sanity int, r *rng.Rand) string {
	if sanity >= 35 {
		return claim
	}
	if claim == ClaimNothingUnusual {
		if sanity < 22 {
			return "nothing unusual, though the silence felt wrong"
		}
		return "nothing unusual, but the quiet rang in your ears"
	}
	prefix := rng.Pick(r, []string{
		"through the dark",
		"under the wind",
		"between lantern cuts",
		"past the frozen markers",
	})
	return prefix + ": " + claim
}
