package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/autinyork/LowBorn/internal/event"
	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/rng"
	"github.com/autinyork/LowBorn/internal/schedule"
	"github.com/autinyork/LowBorn/internal/stats"
)

// ClaimNothingUnusual is the one debrief claim that spreads no rumor.
const ClaimNothingUnusual = "nothing unusual"

// DebriefClaims is the closed vocabulary of what a scout can report.
var DebriefClaims = []string{
	"tracks in snow",
	"distant light",
	"howl",
	"missing man",
	ClaimNothingUnusual,
	"strange symbol",
}

// AlarmingClaims is every claim that feeds the rumor mill.
var AlarmingClaims = []string{
	"tracks in snow",
	"distant light",
	"howl",
	"missing man",
	"strange symbol",
}

// Alarming reports whether a claim spreads fear.
func Alarming(claim string) bool {
	return claim != ClaimNothingUnusual
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// debriefTruth rolls what an NPC actually saw tonight. The hidden threat
// shapes the table: a real threat produces genuine sightings, an exaggerated
// one mostly quiet truths, and calm nights skew heavily toward nothing.
func debriefTruth(r *rng.Rand, threat ThreatSeed, day int, calmNight bool) string {
	curve := EscalationCurve(day)
	if calmNight {
		switch threat {
		case ThreatReal:
			return rng.WeightedPick(r, []rng.Weighted[string]{
				{Value: ClaimNothingUnusual, Weight: 5.2 - curve*0.8},
				{Value: "tracks in snow", Weight: 1.4 + curve*0.5},
				{Value: "distant light", Weight: 1.1 + curve*0.35},
				{Value: "howl", Weight: 0.9 + curve*0.25},
				{Value: "strange symbol", Weight: 0.8 + curve*0.3},
				{Value: "missing man", Weight: 0.55 + curve*0.15},
			})
		case ThreatExaggerated:
			return rng.WeightedPick(r, []rng.Weighted[string]{
				{Value: ClaimNothingUnusual, Weight: 6.4 - curve*0.3},
				{Value: "tracks in snow", Weight: 0.95 + curve*0.2},
				{Value: "distant light", Weight: 0.9 + curve*0.15},
				{Value: "howl", Weight: 0.65 + curve*0.1},
				{Value: "strange symbol", Weight: 0.6 + curve*0.1},
				{Value: "missing man", Weight: 0.45 + curve*0.05},
			})
		default:
			return rng.WeightedPick(r, []rng.Weighted[string]{
				{Value: ClaimNothingUnusual, Weight: 7.2 - curve*0.2},
				{Value: "tracks in snow", Weight: 0.8 + curve*0.1},
				{Value: "distant light", Weight: 0.75 + curve*0.08},
				{Value: "howl", Weight: 0.6 + curve*0.08},
				{Value: "strange symbol", Weight: 0.55 + curve*0.05},
				{Value: "missing man", Weight: 0.35 + curve*0.04},
			})
		}
	}

	switch threat {
	case ThreatReal:
		return rng.WeightedPick(r, []rng.Weighted[string]{
			{Value: "missing man", Weight: 2 + curve*2.1},
			{Value: "tracks in snow", Weight: 2.4 + curve*1.8},
			{Value: "distant light", Weight: 1.8 + curve*1.4},
			{Value: "howl", Weight: 1.6 + curve*1.2},
			{Value: "strange symbol", Weight: 1.4 + curve*1.5},
			{Value: ClaimNothingUnusual, Weight: 1.3 - curve*0.7},
		})
	case ThreatExaggerated:
		return rng.WeightedPick(r, []rng.Weighted[string]{
			{Value: ClaimNothingUnusual, Weight: 3.3 - curve*0.6},
			{Value: "tracks in snow", Weight: 1.8 + curve*0.3},
			{Value: "distant light", Weight: 1.6 + curve*0.3},
			{Value: "howl", Weight: 1 + curve*0.2},
			{Value: "strange symbol", Weight: 1 + curve*0.2},
			{Value: "missing man", Weight: 0.9 + curve*0.1},
		})
	default:
		return rng.WeightedPick(r, []rng.Weighted[string]{
			{Value: ClaimNothingUnusual, Weight: 5.5 - curve*0.5},
			{Value: "tracks in snow", Weight: 1 + curve*0.15},
			{Value: "distant light", Weight: 1 + curve*0.1},
			{Value: "howl", Weight: 0.9 + curve*0.1},
			{Value: "strange symbol", Weight: 0.8 + curve*0.15},
			{Value: "missing man", Weight: 0.7 + curve*0.1},
		})
	}
}

// distortedClaim replaces the truth with something else from the vocabulary.
// Frightened believers and exaggerated threats pull toward alarming claims.
func distortedClaim(r *rng.Rand, truth string, p npc.Profile, threat ThreatSeed) string {
	pool := make([]string, 0, len(DebriefClaims))
	for _, claim := range DebriefClaims {
		if claim != truth {
			pool = append(pool, claim)
		}
	}
	if len(pool) == 0 {
		return truth
	}
	if threat == ThreatExaggerated || p.Fear+p.Belief > 120 {
		entries := make([]rng.Weighted[string], len(pool))
		for i, claim := range pool {
			w := 1.0
			if Alarming(claim) {
				w = 3
			}
			entries[i] = rng.Weighted[string]{Value: claim, Weight: w}
		}
		return rng.WeightedPick(r, entries)
	}
	return rng.Pick(r, pool)
}

func emotionForReport(r *rng.Rand, p npc.Profile, claim string) Emotion {
	if Alarming(claim) && p.Fear > 60 {
		return rng.Pick(r, []Emotion{EmotionAnxious, EmotionPanicked})
	}
	if p.Belief > 65 {
		return rng.Pick(r, []Emotion{EmotionAnxious, EmotionDefiant})
	}
	return rng.Pick(r, []Emotion{EmotionSteady, EmotionAnxious, EmotionDefiant})
}

// ConflictingClaims reports whether the testimony set contains both a calm
// claim and an alarming one.
func ConflictingClaims(reports []Report) bool {
	calm := false
	alarming := false
	for _, rep := range reports {
		if Alarming(rep.Claim()) {
			alarming = true
		} else {
			calm = true
		}
	}
	return calm && alarming
}

func drawNpc(r *rng.Rand, pool []npc.Profile) (npc.Profile, []npc.Profile) {
	idx := r.IntBetween(0, len(pool)-1)
	picked := pool[idx]
	return picked, append(pool[:idx:idx], pool[idx+1:]...)
}

// CampDebriefReports interviews two to four scouts after a camp night. Each
// rolls a truth, then possibly replaces it with a lie or an honest mistake.
// A post-pass usually forces one dissenting voice into a tense night, and a
// calm night always keeps at least one steady report.
func CampDebriefReports(p Params, day int, card event.Card) []Report {
	truthRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:camp-debrief", p.Seed, p.Week, day))
	pool := append([]npc.Profile(nil), p.Roster...)
	count := truthRng.IntBetween(2, 4)
	if count > len(pool) {
		count = len(pool)
	}
	curve := EscalationCurve(day)
	calmNight := card.Calm()

	lieBase, mistakeBase := 0.05, 0.12
	switch p.Threat {
	case ThreatReal:
		lieBase, mistakeBase = 0.09, 0.16
	case ThreatExaggerated:
		lieBase, mistakeBase = 0.2, 0.3
	}

	reports := make([]Report, 0, count)
	for i := 0; i < count; i++ {
		var scout npc.Profile
		scout, pool = drawNpc(truthRng, pool)

		truth := debriefTruth(truthRng, p.Threat, day, calmNight)

		calmRelief := 0.0
		mistakeRelief := 0.0
		if calmNight {
			calmRelief = 0.05
			mistakeRelief = 0.08
		}
		lieChance := stats.ClampF(
			lieBase+float64(100-scout.TrustInPlayer)/310+float64(scout.Belief)/620+curve*0.05-calmRelief,
			0.03, 0.74)
		mistakeChance := stats.ClampF(
			mistakeBase+float64(scout.Fear)/230+float64(scout.Belief)/360-float64(scout.Loyalty)/620+curve*0.08-mistakeRelief,
			0.06, 0.9)

		roll := truthRng.Float64()
		lying := roll < lieChance
		mistaken := !lying && roll < lieChance+mistakeChance

		claim := truth
		if lying || mistaken {
			claim = distortedClaim(truthRng, truth, scout, p.Threat)
		}

		confidence := round2(stats.ClampF(float64(scout.Loyalty+scout.TrustInPlayer)/220+truthRng.Float64()*0.25, 0.1, 0.98))

		presentRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:camp-debrief:presentation:%s", p.Seed, p.Week, day, scout.ID))
		reports = append(reports, Report{
			NpcID:      scout.ID,
			NpcName:    scout.Name,
			Claims:     []string{claim},
			Truth:      truth,
			Presented:  PresentClaim(claim, p.Sanity, presentRng),
			Confidence: confidence,
			Emotion:    emotionForReport(truthRng, scout, claim),
			Lying:      lying,
		})
	}

	if !calmNight && len(reports) > 1 && !ConflictingClaims(reports) && truthRng.Float64() < 0.7 {
		idx := truthRng.IntBetween(0, len(reports)-1)
		target := &reports[idx]
		forced := ClaimNothingUnusual
		if target.Claim() == ClaimNothingUnusual {
			forced = rng.Pick(truthRng, AlarmingClaims)
		}
		target.Claims = []string{forced}
		forcedRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:camp-debrief:presentation:%s:forced", p.Seed, p.Week, day, target.NpcID))
		target.Presented = PresentClaim(forced, p.Sanity, forcedRng)
		target.Lying = forced != target.Truth
	}

	if calmNight && len(reports) > 0 {
		anyCalm := false
		for _, rep := range reports {
			if rep.Claim() == ClaimNothingUnusual {
				anyCalm = true
				break
			}
		}
		if !anyCalm {
			order := make([]int, len(reports))
			for i := range order {
				order[i] = i
			}
			sort.SliceStable(order, func(a, b int) bool {
				return reports[order[a]].Confidence > reports[order[b]].Confidence
			})
			target := &reports[order[0]]
			target.Claims = []string{ClaimNothingUnusual}
			calmRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:camp-debrief:presentation:%s:calm-fallback", p.Seed, p.Week, day, target.NpcID))
			target.Presented = PresentClaim(ClaimNothingUnusual, p.Sanity, calmRng)
			target.Lying = target.Truth != ClaimNothingUnusual
		}
	}

	return reports
}

// PatrolFieldReports collects testimony from the two or three scouts who
// shared tonight's patrol. Their truths come from the card's observation
// pool; lie and mistake odds run lower than in the barracks.
func PatrolFieldReports(p Params, day int, observations []string) []Report {
	truthRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:patrol-field-reports", p.Seed, p.Week, day))
	pool := append([]npc.Profile(nil), p.Roster...)
	count := truthRng.IntBetween(2, 3)
	if count > len(pool) {
		count = len(pool)
	}
	curve := EscalationCurve(day)

	lieBase, mistakeBase := 0.03, 0.08
	switch p.Threat {
	case ThreatReal:
		lieBase, mistakeBase = 0.05, 0.11
	case ThreatExaggerated:
		lieBase, mistakeBase = 0.15, 0.2
	}

	reports := make([]Report, 0, count)
	for i := 0; i < count; i++ {
		var scout npc.Profile
		scout, pool = drawNpc(truthRng, pool)

		truth := rng.Pick(truthRng, observations)
		lieChance := stats.ClampF(
			lieBase+float64(100-scout.TrustInPlayer)/360+float64(scout.Belief)/700+curve*0.04,
			0.02, 0.58)
		mistakeChance := stats.ClampF(
			mistakeBase+float64(scout.Fear)/280+float64(scout.Belief)/460-float64(scout.Loyalty)/700+curve*0.05,
			0.04, 0.72)

		roll := truthRng.Float64()
		lying := roll < lieChance
		mistaken := !lying && roll < lieChance+mistakeChance

		claim := truth
		if lying || mistaken {
			claim = distortedClaim(truthRng, truth, scout, p.Threat)
		}

		presentRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:patrol-field-reports:presentation:%s", p.Seed, p.Week, day, scout.ID))
		reports = append(reports, Report{
			NpcID:      scout.ID,
			NpcName:    scout.Name,
			Claims:     []string{claim},
			Truth:      truth,
			Presented:  PresentClaim(claim, p.Sanity, presentRng),
			Confidence: round2(stats.ClampF(0.5+truthRng.Float64()*0.4, 0.2, 0.95)),
			Emotion:    rng.Pick(truthRng, []Emotion{EmotionSteady, EmotionAnxious, EmotionDefiant}),
			Lying:      lying,
		})
	}
	return reports
}

// Flag values attached to a resolved night.
const (
	FlagPotentialFalseReport = "POTENTIAL_FALSE_REPORT"
	FlagConflictingTestimony = "CONFLICTING_TESTIMONY"
	FlagLowConfidence        = "LOW_CONFIDENCE"
	FlagExtraDutyApplied     = "EXTRA_DUTY_APPLIED"
	FlagAccuseConflict       = "ACCUSE_CONFLICT"
)

// Flags summarizes testimony quality for the night log.
func Flags(reports []Report, assignment schedule.Assignment) []string {
	var flags []string
	for _, rep := range reports {
		if rep.Lying {
			flags = append(flags, FlagPotentialFalseReport)
			break
		}
	}
	if ConflictingClaims(reports) {
		flags = append(flags, FlagConflictingTestimony)
	}
	total := 0.0
	for _, rep := range reports {
		total += rep.Confidence
	}
	n := len(reports)
	if n == 0 {
		n = 1
	}
	if total/float64(n) < 0.45 {
		flags = append(flags, FlagLowConfidence)
	}
	if assignment.Disruption.ExtraDuty == schedule.DutyNightWatch {
		flags = append(flags, FlagExtraDutyApplied)
	}
	return flags
}
