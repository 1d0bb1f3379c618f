package scene

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autinyork/LowBorn/internal/event"
	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/rng"
	"github.com/autinyork/LowBorn/internal/schedule"
)

func testParams(seed string, duty schedule.Duty, day int) Params {
	return Params{
		Seed: seed,
		Week: 1,
		Assignment: schedule.Assignment{
			Day:          day,
			Label:        schedule.DayLabel(day),
			AssignedDuty: duty,
		},
		Sanity: 55,
		Threat: PickThreat(seed),
		Roster: npc.BuildRoster(seed),
		Cards:  event.MustDefaultCatalog(),
	}
}

func TestPickThreatDeterministic(t *testing.T) {
	assert.Equal(t, PickThreat("threat-seed-a"), PickThreat("threat-seed-a"))
	seen := map[ThreatSeed]bool{}
	for i := 0; i < 60; i++ {
		seen[PickThreat(fmt.Sprintf("threat-%d", i))] = true
	}
	assert.Len(t, seen, 3, "all threat seeds should occur across seeds")
}

func TestBuildIsDeterministic(t *testing.T) {
	p := testParams("build-deterministic", schedule.DutyPatrol, 3)
	a, err := Build(p)
	require.NoError(t, err)
	b, err := Build(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildPatrolScene(t *testing.T) {
	p := testParams("patrol-scene-seed", schedule.DutyPatrol, 2)
	s, err := Build(p)
	require.NoError(t, err)

	assert.Equal(t, event.ScenePatrol, s.Type)
	assert.Equal(t, event.ScenePatrol, s.Card.Scene)
	assert.NotEmpty(t, s.Route)
	assert.Equal(t, s.Route, s.PresentedRoute, "no distortion at full sanity")
	assert.Equal(t, s.Card.Outcome, s.PresentedOutcome)
	assert.Empty(t, s.PerceptionOverlay)
	assert.Empty(t, s.DebriefReports)
	require.Len(t, s.Choices, 3)
	assert.Equal(t, ChoicePressForward, s.Choices[0].ID)
	assert.Equal(t, ChoiceMarkAndReturn, s.Choices[1].ID)
	assert.Equal(t, ChoiceHoldPosition, s.Choices[2].ID)
}

func TestBuildCampScene(t *testing.T) {
	p := testParams("camp-scene-seed", schedule.DutyCampWork, 4)
	s, err := Build(p)
	require.NoError(t, err)

	assert.Equal(t, event.SceneCamp, s.Type)
	assert.Empty(t, s.Route)
	require.NotEmpty(t, s.DebriefReports)
	assert.GreaterOrEqual(t, len(s.DebriefReports), 2)
	assert.LessOrEqual(t, len(s.DebriefReports), 4)
	require.Len(t, s.Choices, 4)
	ids := []string{s.Choices[0].ID, s.Choices[1].ID, s.Choices[2].ID, s.Choices[3].ID}
	assert.Equal(t, []string{ChoiceEscalateCommander, ChoiceDownplay, ChoiceInvestigateQuietly, ChoiceAccuseLiar}, ids)
}

func TestBuildDistortsAtLowSanity(t *testing.T) {
	p := testParams("distortion-seed", schedule.DutyPatrol, 5)
	p.Sanity = 20
	s, err := Build(p)
	require.NoError(t, err)

	assert.Equal(t, DistortionSevere, s.Distortion)
	assert.NotEqual(t, s.Route, s.PresentedRoute)
	assert.NotEqual(t, s.Card.Outcome, s.PresentedOutcome)
	assert.Contains(t, s.PresentedRoute, s.Route)
	assert.Contains(t, s.PresentedOutcome, s.Card.Outcome)
}

func TestDistortionForSanity(t *testing.T) {
	assert.Equal(t, DistortionSevere, DistortionForSanity(24))
	assert.Equal(t, DistortionUneasy, DistortionForSanity(25))
	assert.Equal(t, DistortionUneasy, DistortionForSanity(44))
	assert.Equal(t, DistortionNone, DistortionForSanity(45))
}

func TestPresentClaim(t *testing.T) {
	r := rng.New("present-claim")
	assert.Equal(t, "howl", PresentClaim("howl", 35, r))

	low := PresentClaim("howl", 30, rng.New("present-claim"))
	assert.Contains(t, low, ": howl")

	assert.Equal(t,
		"nothing unusual, but the quiet rang in your ears",
		PresentClaim(ClaimNothingUnusual, 30, rng.New("x")))
	assert.Equal(t,
		"nothing unusual, though the silence felt wrong",
		PresentClaim(ClaimNothingUnusual, 21, rng.New("x")))
}

func TestCampDebriefReportsDualTruth(t *testing.T) {
	for i := 0; i < 30; i++ {
		p := testParams(fmt.Sprintf("debrief-%d", i), schedule.DutyCampWork, 5)
		s, err := Build(p)
		require.NoError(t, err)
		for _, rep := range s.DebriefReports {
			assert.Contains(t, DebriefClaims, rep.Truth)
			assert.Contains(t, DebriefClaims, rep.Claim())
			assert.GreaterOrEqual(t, rep.Confidence, 0.1)
			assert.LessOrEqual(t, rep.Confidence, 0.98)
			if rep.Lying {
				assert.NotEqual(t, rep.Truth, rep.Claim(), "a lie must diverge from the truth")
			}
			assert.Equal(t, rep.Claim(), rep.Presented, "full sanity passes claims through verbatim")
		}
	}
}

func TestCampDebriefCalmNightKeepsOneSteadyVoice(t *testing.T) {
	calm := event.Card{
		ID:           "calm-test",
		Scene:        event.SceneCamp,
		Title:        "Quiet Hall",
		Outcome:      "Nothing stirs.",
		Tags:         []event.Tag{event.TagMundane},
		Routes:       []string{"r"},
		Observations: []string{ClaimNothingUnusual},
	}
	for i := 0; i < 40; i++ {
		p := testParams(fmt.Sprintf("calm-night-%d", i), schedule.DutyCampWork, 6)
		reports := CampDebriefReports(p, 6, calm)
		require.NotEmpty(t, reports)
		found := false
		for _, rep := range reports {
			if rep.Claim() == ClaimNothingUnusual {
				found = true
			}
		}
		assert.True(t, found, "seed %d: calm night must keep a calm claim", i)
	}
}

func TestPatrolFieldReports(t *testing.T) {
	p := testParams("field-report-seed", schedule.DutyPatrol, 4)
	obs := []string{"tracks in snow", "distant light", ClaimNothingUnusual}
	a := PatrolFieldReports(p, 4, obs)
	b := PatrolFieldReports(p, 4, obs)
	assert.Equal(t, a, b)

	require.GreaterOrEqual(t, len(a), 2)
	assert.LessOrEqual(t, len(a), 3)
	seen := map[string]bool{}
	for _, rep := range a {
		assert.False(t, seen[rep.NpcID], "an npc reports at most once")
		seen[rep.NpcID] = true
		assert.Contains(t, obs, rep.Truth)
		assert.GreaterOrEqual(t, rep.Confidence, 0.2)
		assert.LessOrEqual(t, rep.Confidence, 0.95)
	}
}

func TestConflictingClaims(t *testing.T) {
	calm := Report{Claims: []string{ClaimNothingUnusual}}
	alarm := Report{Claims: []string{"howl"}}
	assert.True(t, ConflictingClaims([]Report{calm, alarm}))
	assert.False(t, ConflictingClaims([]Report{calm, calm}))
	assert.False(t, ConflictingClaims([]Report{alarm, alarm}))
	assert.False(t, ConflictingClaims(nil))
}

func TestFlags(t *testing.T) {
	quiet := schedule.Assignment{}
	extra := schedule.Assignment{Disruption: schedule.Disruption{ExtraDuty: schedule.DutyNightWatch}}

	reports := []Report{
		{Claims: []string{"howl"}, Truth: "howl", Confidence: 0.9},
		{Claims: []string{ClaimNothingUnusual}, Truth: ClaimNothingUnusual, Confidence: 0.8, Lying: true},
	}
	flags := Flags(reports, extra)
	assert.Contains(t, flags, FlagPotentialFalseReport)
	assert.Contains(t, flags, FlagConflictingTestimony)
	assert.Contains(t, flags, FlagExtraDutyApplied)
	assert.NotContains(t, flags, FlagLowConfidence)

	shaky := []Report{{Claims: []string{"howl"}, Truth: "howl", Confidence: 0.2}}
	assert.Contains(t, Flags(shaky, quiet), FlagLowConfidence)
	assert.Empty(t, Flags(nil, quiet))
}

func TestEventWeightPacing(t *testing.T) {
	shock := event.Card{Tags: []event.Tag{event.TagShock}}
	mundane := event.Card{Tags: []event.Tag{event.TagMundane}}

	base := eventWeight(shock, event.ScenePatrol, ThreatReal, 6, false, 0)
	damped := eventWeight(shock, event.ScenePatrol, ThreatReal, 6, false, 1)
	assert.Less(t, damped, base, "a shock night suppresses the next shock")

	boosted := eventWeight(mundane, event.ScenePatrol, ThreatReal, 6, false, 2)
	calm := eventWeight(mundane, event.ScenePatrol, ThreatReal, 6, false, 0)
	assert.Greater(t, boosted, calm, "two intense nights boost mundane cards")

	crushed := eventWeight(shock, event.ScenePatrol, ThreatReal, 6, false, 2)
	assert.GreaterOrEqual(t, crushed, 0.05, "weights never fall below the floor")
}

func TestEventWeightInvestigation(t *testing.T) {
	h := event.Card{Tags: []event.Tag{event.TagHazard}}
	plain := eventWeight(h, event.ScenePatrol, ThreatReal, 4, false, 0)
	focused := eventWeight(h, event.ScenePatrol, ThreatReal, 4, true, 0)
	assert.InDelta(t, plain+1.6, focused, 0.001)

	m := event.Card{Tags: []event.Tag{event.TagMundane}}
	assert.Equal(t,
		eventWeight(m, event.ScenePatrol, ThreatReal, 4, false, 0),
		eventWeight(m, event.ScenePatrol, ThreatReal, 4, true, 0),
		"investigation leaves mundane cards untouched")
}

func TestPacingPoolFiltersIntense(t *testing.T) {
	cards := []event.Card{
		{ID: "a", Tags: []event.Tag{event.TagShock}},
		{ID: "b", Tags: []event.Tag{event.TagMundane}},
		{ID: "c", Tags: []event.Tag{event.TagHazard}},
	}
	assert.Len(t, pacingPool(cards, 1), 3)
	cooled := pacingPool(cards, 2)
	require.Len(t, cooled, 1)
	assert.Equal(t, "b", cooled[0].ID)

	allIntense := []event.Card{{ID: "a", Tags: []event.Tag{event.TagShock}}}
	assert.Len(t, pacingPool(allIntense, 2), 1, "an all-intense pool stays usable")
}

func TestThreatModifier(t *testing.T) {
	calm := event.Card{Tags: []event.Tag{event.TagMundane}}
	tense := event.Card{Tags: []event.Tag{event.TagShock}}

	p, c := ThreatModifier(ThreatNone, calm, 5)
	assert.Equal(t, 1, p.Sanity)
	assert.Equal(t, -1, c.Rumor)
	assert.Equal(t, 1, c.Morale)

	p, c = ThreatModifier(ThreatReal, tense, 5)
	assert.Equal(t, -1, p.Sanity)
	assert.Equal(t, 2, c.Rumor)

	p, c = ThreatModifier(ThreatReal, tense, 1)
	assert.Equal(t, 0, p.Stamina, "early week softens the pressure")
	assert.Equal(t, 1, c.Rumor)

	p, c = ThreatModifier(ThreatExaggerated, calm, 7)
	assert.Equal(t, -1, p.Sanity)
	assert.Equal(t, 1, c.Rumor)
	assert.Equal(t, -1, c.Discipline)
}

func TestChoiceByID(t *testing.T) {
	s := &Scene{Choices: CampChoices()}
	c, ok := s.ChoiceByID(ChoiceDownplay)
	require.True(t, ok)
	assert.Equal(t, "Downplay", c.Label)

	_, ok = s.ChoiceByID("unknown")
	assert.False(t, ok)
}

func TestPatrolChoicesScaleWithTone(t *testing.T) {
	mundane := PatrolChoices(event.Card{Tags: []event.Tag{event.TagMundane}})
	hazard := PatrolChoices(event.Card{Tags: []event.Tag{event.TagHazard, event.TagShock}})

	assert.Equal(t, -1, mundane[0].PlayerDelta.Stamina)
	assert.Equal(t, -3, hazard[0].PlayerDelta.Stamina)
	assert.Equal(t, 0, mundane[0].PlayerDelta.Injury)
	assert.Equal(t, 3, hazard[0].PlayerDelta.Injury)

	assert.Equal(t, -1, mundane[0].CampDelta.Rumor)
	assert.Equal(t, 3, hazard[2].CampDelta.Rumor)
	assert.Equal(t, -2, hazard[2].CampDelta.Morale)
}
