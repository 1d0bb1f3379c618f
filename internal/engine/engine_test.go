package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autinyork/LowBorn/internal/config"
	"github.com/autinyork/LowBorn/internal/event"
	"github.com/autinyork/LowBorn/internal/scene"
	"github.com/autinyork/LowBorn/internal/schedule"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(nil, config.Default())
	require.NoError(t, err)
	return e
}

func TestNewRunInitialState(t *testing.T) {
	e := newTestEngine(t)
	s := e.NewRun("  Deterministic-Week-Seed  ")

	assert.Equal(t, "deterministic-week-seed", s.Seed)
	assert.Equal(t, 1, s.Week)
	assert.Equal(t, 0, s.TodayIndex)
	assert.Equal(t, PhaseDay, s.Phase)
	assert.False(t, s.Complete)
	assert.Nil(t, s.ActiveScene)
	assert.Nil(t, s.DawnReport)
	require.Len(t, s.Schedule, schedule.DaysInWeek)
	assert.Equal(t, config.Default().BasePlayer, s.Player)
	assert.Equal(t, config.Default().BaseCamp, s.Camp)
	assert.GreaterOrEqual(t, len(s.Roster), 8)
	assert.LessOrEqual(t, len(s.Roster), 14)
	assert.Len(t, s.Hidden.RumorAdoption, len(s.Roster))
	assert.Contains(t, []scene.ThreatSeed{scene.ThreatReal, scene.ThreatExaggerated, scene.ThreatNone}, s.Hidden.ThreatSeed)
	assert.NotEmpty(t, s.TodaySummary)
	assert.Len(t, s.RecentEvents, 3)
}

func TestNewRunBlankSeedFallsBack(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, DefaultSeed, e.NewRun("").Seed)
	assert.Equal(t, DefaultSeed, e.NewRun("   ").Seed)
}

func TestNewRunAppliesFirstDayDisruption(t *testing.T) {
	e := newTestEngine(t)
	// Every day, including day one, carries a rolled disruption chance; the
	// raw generated schedule has zero.
	s := e.NewRun("first-day-disruption")
	assert.Greater(t, s.Schedule[0].Disruption.Chance, 0.0)
	for _, later := range s.Schedule[1:] {
		assert.Equal(t, schedule.DisruptionType("NONE"), later.Disruption.Type)
		assert.Zero(t, later.Disruption.Chance)
	}
}

func TestBeginNightOnlyFromDay(t *testing.T) {
	e := newTestEngine(t)
	s := e.NewRun("phase-guard-seed")

	night := e.BeginNight(s)
	assert.Equal(t, PhaseNightScene, night.Phase)
	require.NotNil(t, night.ActiveScene)

	// Repeating the call in NIGHT_SCENE is a no-op.
	again := e.BeginNight(night)
	assert.Same(t, night, again)

	// Resolving from DAY is a no-op too.
	assert.Same(t, s, e.ResolveNight(s, ""))
	assert.Same(t, s, e.StartNextDay(s))
}

func TestBeginNightDoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t)
	s := e.NewRun("immutability-seed")
	before, err := json.Marshal(s)
	require.NoError(t, err)

	_ = e.BeginNight(s)
	after, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestResolveNightProducesDawnReport(t *testing.T) {
	e := newTestEngine(t)
	s := e.BeginNight(e.NewRun("resolve-seed"))
	require.Equal(t, PhaseNightScene, s.Phase)

	out := e.ResolveNight(s, s.ActiveScene.Choices[0].ID)
	assert.Equal(t, PhaseDawnReport, out.Phase)
	assert.Nil(t, out.ActiveScene)
	require.NotNil(t, out.DawnReport)
	assert.Equal(t, 1, out.DawnReport.Day)
	assert.Contains(t, out.DawnReport.Summary, "Dawn tally:")
	require.Len(t, out.NightLogs, 1)
	assert.True(t, out.Schedule[0].Resolved)
	assert.NotEmpty(t, out.Schedule[0].EventTitle)
	assert.NotEmpty(t, out.NightLogs[0].Reports, "every night yields testimony")
}

func TestResolveNightUnknownChoiceFallsBackToFirst(t *testing.T) {
	e := newTestEngine(t)
	s := e.BeginNight(e.NewRun("fallback-choice-seed"))

	a := e.ResolveNight(s, "no-such-choice")
	b := e.ResolveNight(s, s.ActiveScene.Choices[0].ID)
	assert.Equal(t, a, b)
}

func TestResolveNightIsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	s := e.BeginNight(e.NewRun("deterministic-week-seed"))
	a := e.ResolveNight(s, s.ActiveScene.Choices[1].ID)
	b := e.ResolveNight(s, s.ActiveScene.Choices[1].ID)
	assert.Equal(t, a, b)
}

func TestFullWeekPlaythrough(t *testing.T) {
	e := newTestEngine(t)
	s := e.PlayOut(e.NewRun("full-week-seed"))

	assert.Equal(t, PhaseWeekSummary, s.Phase)
	assert.True(t, s.Complete)
	require.NotNil(t, s.WeekSummary)
	assert.Equal(t, 7, s.WeekSummary.NightsSurvived)
	assert.Len(t, s.NightLogs, 7)
	assert.NotEmpty(t, s.WeekSummary.FirstBreakLabel)
	assert.Contains(t, s.WeekSummary.ShareText, "Seed: full-week-seed")
	assert.Contains(t, s.WeekSummary.ShareText, "Nights survived: 7/7")
	assert.True(t, s.Player.InBounds())
	assert.True(t, s.Camp.InBounds())
	assert.LessOrEqual(t, len(s.RecentEvents), e.Balance().RecentEventCap)

	// Terminal state refuses every transition.
	assert.Same(t, s, e.BeginNight(s))
	assert.Same(t, s, e.ResolveNight(s, ""))
	assert.Same(t, s, e.StartNextDay(s))
}

func TestFullWeekIsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	a := e.PlayOut(e.NewRun("deterministic-week-seed"))
	b := e.PlayOut(e.NewRun("deterministic-week-seed"))

	aj, err := json.Marshal(a)
	require.NoError(t, err)
	bj, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(aj), string(bj))
}

func TestSeedsDiverge(t *testing.T) {
	e := newTestEngine(t)
	a := e.PlayOut(e.NewRun("divergence-seed-a"))
	b := e.PlayOut(e.NewRun("divergence-seed-b"))
	assert.NotEqual(t, a.NightLogs, b.NightLogs)
}

func TestStartNextDayReappliesDisruption(t *testing.T) {
	e := newTestEngine(t)
	s := e.NewRun("next-day-seed")
	s = e.ResolveNight(e.BeginNight(s), "")
	require.Equal(t, PhaseDawnReport, s.Phase)

	next := e.StartNextDay(s)
	assert.Equal(t, PhaseDay, next.Phase)
	assert.Equal(t, 1, next.TodayIndex)
	assert.Nil(t, next.DawnReport)
	assert.Greater(t, next.Schedule[1].Disruption.Chance, 0.0, "day two rolls its disruption on entry")
	assert.NotEmpty(t, next.TodaySummary)
}

func TestIntenseStreakTracksCardTone(t *testing.T) {
	e := newTestEngine(t)
	s := e.NewRun("streak-seed")
	for day := 0; day < schedule.DaysInWeek; day++ {
		s = e.BeginNight(s)
		require.Equal(t, PhaseNightScene, s.Phase)
		intense := s.ActiveScene.Card.Intense()
		prev := s.Hidden.IntenseStreak
		s = e.ResolveNight(s, "")
		if intense {
			assert.Equal(t, prev+1, s.Hidden.IntenseStreak)
		} else {
			assert.Zero(t, s.Hidden.IntenseStreak)
		}
		s = e.StartNextDay(s)
	}
}

func TestInvestigationFocusLifecycle(t *testing.T) {
	e := newTestEngine(t)
	// Investigate on every camp night and verify the counter moves inside
	// [0,3] and drains on an investigation-active patrol.
	s := e.NewRun("focus-seed")
	for !s.Complete {
		switch s.Phase {
		case PhaseDay:
			s = e.BeginNight(s)
		case PhaseNightScene:
			prev := s.Hidden.InvestigationFocus
			wasCamp := s.ActiveScene.Type == event.SceneCamp
			wasActive := s.ActiveScene.Investigating
			s = e.ResolveNight(s, scene.ChoiceInvestigateQuietly)
			if wasCamp {
				assert.Equal(t, minInt(prev+1, 3), s.Hidden.InvestigationFocus)
			} else if wasActive {
				assert.Equal(t, maxInt(prev-1, 0), s.Hidden.InvestigationFocus)
			}
		case PhaseDawnReport:
			s = e.StartNextDay(s)
		}
		assert.GreaterOrEqual(t, s.Hidden.InvestigationFocus, 0)
		assert.LessOrEqual(t, s.Hidden.InvestigationFocus, 3)
	}
}

func TestAccuseLiarShiftsTrust(t *testing.T) {
	e := newTestEngine(t)
	// Find a seed whose first night is a camp scene.
	for i := 0; i < 40; i++ {
		s := e.NewRun(fmt.Sprintf("accuse-%d", i))
		s = e.BeginNight(s)
		if s.ActiveScene.Type != event.SceneCamp {
			continue
		}
		before := map[string]int{}
		for _, p := range s.Roster {
			before[p.ID] = p.TrustInPlayer
		}
		out := e.ResolveNight(s, scene.ChoiceAccuseLiar)

		dropped := 0
		for _, p := range out.Roster {
			if p.TrustInPlayer < before[p.ID] {
				dropped++
			}
		}
		assert.Equal(t, 1, dropped, "exactly one scout takes the trust hit")
		require.NotNil(t, out.Hidden.LastDebrief)
		assert.Equal(t, scene.ChoiceAccuseLiar, out.Hidden.LastDebrief.ChoiceID)
		return
	}
	t.Fatal("no camp-first seed found in scan")
}

func TestCampNightSpreadsRumors(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 40; i++ {
		s := e.BeginNight(e.NewRun(fmt.Sprintf("camp-rumor-%d", i)))
		if s.ActiveScene.Type != event.SceneCamp {
			continue
		}
		out := e.ResolveNight(s, scene.ChoiceEscalateCommander)
		log := out.NightLogs[0]
		assert.NotEmpty(t, log.RumorPackets)
		assert.GreaterOrEqual(t, log.ReachCount, 1, "the source always adopts its own rumor")
		assert.NotNil(t, out.Hidden.LastDebrief)
		return
	}
	t.Fatal("no camp-first seed found in scan")
}

func TestPatrolNightLeavesNetworkAlone(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 40; i++ {
		s := e.BeginNight(e.NewRun(fmt.Sprintf("patrol-night-%d", i)))
		if s.ActiveScene.Type != event.ScenePatrol {
			continue
		}
		out := e.ResolveNight(s, "")
		assert.Empty(t, out.NightLogs[0].RumorPackets)
		assert.Zero(t, out.NightLogs[0].ReachCount)
		assert.Equal(t, s.Hidden.RumorAdoption, out.Hidden.RumorAdoption)
		return
	}
	t.Fatal("no patrol-first seed found in scan")
}

func TestHiddenTruthStaysInternal(t *testing.T) {
	e := newTestEngine(t)
	s := e.BeginNight(e.NewRun("hidden-truth-seed"))

	// The scene presented to the player never names the threat seed.
	assert.NotContains(t, s.TodaySummary, string(s.Hidden.ThreatSeed))
	for _, line := range s.RecentEvents {
		assert.NotContains(t, line, "threatSeed")
	}
}

func TestRunBatch(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.RunBatch(context.Background(), "batch-seed", 5)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Runs)
	assert.GreaterOrEqual(t, report.AverageNightsSurvived, 0.0)
	assert.LessOrEqual(t, report.AverageNightsSurvived, 7.0)
	total := 0
	for _, n := range report.CollapseCauses {
		total += n
	}
	assert.Equal(t, 5, total)

	again, err := e.RunBatch(context.Background(), "batch-seed", 5)
	require.NoError(t, err)
	assert.Equal(t, report, again)
}

func TestRunBatchClampsRuns(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.RunBatch(context.Background(), "batch-min", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Runs)
}

func TestRunBatchHonorsCancellation(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.RunBatch(ctx, "batch-cancel", 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJournal(t *testing.T) {
	e := newTestEngine(t)
	s := e.PlayOut(e.NewRun("journal-seed"))

	entries := JournalEntries(s)
	require.Len(t, entries, 7)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Day)
		assert.NotEqual(t, "Pending", entry.Night, "all nights resolved")
		assert.Contains(t, entry.Assignment, "/")
	}

	text := ShareableRunText(s)
	assert.Contains(t, text, "Lowborn Run Journal")
	assert.Contains(t, text, "Seed: journal-seed")
	assert.Contains(t, text, "Week Summary:")
	assert.Contains(t, text, "Day 7 (Day 7 - Last Ember)")
}

func TestJournalMidRunShowsPending(t *testing.T) {
	e := newTestEngine(t)
	s := e.NewRun("pending-journal-seed")
	entries := JournalEntries(s)
	require.Len(t, entries, 7)
	assert.Equal(t, "Pending", entries[0].Night)
	assert.Equal(t, "Pending", entries[0].DawnDeltas)
}

func TestNewRejectsBrokenInputs(t *testing.T) {
	_, err := New([]event.Card{}, config.Default())
	assert.Error(t, err, "empty catalog")

	bad := config.Default()
	bad.RecentEventCap = 0
	_, err = New(nil, bad)
	assert.Error(t, err, "broken balance")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
