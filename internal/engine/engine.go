package engine

import (
	"fmt"
	"strings"

	"github.com/autinyork/LowBorn/internal/config"
	"github.com/autinyork/LowBorn/internal/event"
	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/rng"
	"github.com/autinyork/LowBorn/internal/rumor"
	"github.com/autinyork/LowBorn/internal/scene"
	"github.com/autinyork/LowBorn/internal/schedule"
	"github.com/autinyork/LowBorn/internal/stats"
)

// DefaultSeed is used when a run is created with a blank seed.
const DefaultSeed = "lowborn-week-seed"

// Engine runs watch weeks against a card catalog and a balance sheet. It is
// stateless; all run state lives in RunState snapshots.
type Engine struct {
	cards   []event.Card
	balance config.Balance
}

// New builds an engine. A nil card list falls back to the embedded catalog.
func New(cards []event.Card, balance config.Balance) (*Engine, error) {
	if cards == nil {
		var err error
		cards, err = event.DefaultCatalog()
		if err != nil {
			return nil, err
		}
	} else if err := event.ValidateCatalog(cards); err != nil {
		return nil, err
	}
	if err := balance.Validate(); err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return &Engine{cards: cards, balance: balance}, nil
}

// MustNew is New for wiring where a bad catalog is a programming error.
func MustNew(cards []event.Card, balance config.Balance) *Engine {
	e, err := New(cards, balance)
	if err != nil {
		panic(err)
	}
	return e
}

// Balance exposes the engine's balance sheet.
func (e *Engine) Balance() config.Balance { return e.balance }

// NormalizeSeed canonicalizes a run seed: trimmed, lowercased, defaulted.
func NormalizeSeed(seed string) string {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		seed = DefaultSeed
	}
	return strings.ToLower(seed)
}

// NewRun creates the week-one snapshot for a seed: roster, schedule with the
// first day's disruption already applied, base stats, and the hidden threat.
func (e *Engine) NewRun(seedInput string) *RunState {
	seed := NormalizeSeed(seedInput)
	roster := npc.BuildRoster(seed)
	week := schedule.Generate(seed, 1)
	week[0] = schedule.ApplyDisruption(week[0], seed, 1)
	today := week[0]

	patrolDays := 0
	for _, day := range week {
		if day.ScheduledDuty == schedule.DutyPatrol {
			patrolDays++
		}
	}

	return &RunState{
		Seed:       seed,
		Week:       1,
		TodayIndex: 0,
		Schedule:   week,
		Phase:      PhaseDay,
		Player:     e.balance.BasePlayer,
		Camp:       e.balance.BaseCamp,
		Roster:     roster,
		NightLogs:  []NightLog{},
		RecentEvents: []string{
			fmt.Sprintf("Week 1 initialized with seed %q.", seed),
			fmt.Sprintf("Schedule posted with %d patrol day(s).", patrolDays),
			fmt.Sprintf("Roster assembled: %d watchers assigned.", len(roster)),
		},
		TodaySummary: today.Briefing(),
		Hidden: Hidden{
			ThreatSeed:    scene.PickThreat(seed),
			RumorAdoption: rumor.InitNetwork(roster),
		},
	}
}

// BeginNight moves a DAY snapshot into its night scene. Any other phase, or
// a completed run, is returned unchanged.
func (e *Engine) BeginNight(s *RunState) *RunState {
	if s.Complete || s.Phase != PhaseDay {
		return s
	}
	today, ok := s.Today()
	if !ok {
		out := s.Clone()
		out.Complete = true
		out.TodaySummary = "No further assignments available."
		return out
	}

	sc, err := scene.Build(scene.Params{
		Seed:               s.Seed,
		Week:               s.Week,
		Assignment:         today,
		Sanity:             s.Player.Sanity,
		Threat:             s.Hidden.ThreatSeed,
		InvestigationFocus: s.Hidden.InvestigationFocus,
		IntenseStreak:      s.Hidden.IntenseStreak,
		Roster:             s.Roster,
		Cards:              e.cards,
	})
	if err != nil {
		return s
	}

	out := s.Clone()
	out.Phase = PhaseNightScene
	out.ActiveScene = sc
	out.DawnReport = nil
	if sc.Type == event.ScenePatrol {
		out.TodaySummary = "Patrol scene active. Make one decision to resolve the night."
	} else {
		out.TodaySummary = "Camp scene active. Patrols are returning for debrief."
	}
	out.RecentEvents = appendEvents(out.RecentEvents, e.balance.RecentEventCap,
		fmt.Sprintf("%s: Night began (%s).", today.Label, sc.Type),
		fmt.Sprintf("Event: %s.", sc.Card.Title),
	)
	return out
}

// ResolveNight settles the active night scene with the given choice. An
// unknown or empty choice id falls back to the first option. The night log,
// testimony, rumor fallout, and dawn report are all produced here.
func (e *Engine) ResolveNight(s *RunState, choiceID string) *RunState {
	if s.Complete || s.Phase != PhaseNightScene || s.ActiveScene == nil {
		return s
	}
	today, ok := s.Today()
	if !ok {
		out := s.Clone()
		out.Phase = PhaseDay
		out.ActiveScene = nil
		out.DawnReport = nil
		out.Complete = true
		out.TodaySummary = "No further assignments available."
		return out
	}

	sc := s.ActiveScene
	choice, found := sc.ChoiceByID(choiceID)
	if !found {
		choice = sc.Choices[0]
	}

	debriefChoice := ""
	if sc.Type == event.SceneCamp {
		debriefChoice = choice.ID
	}

	threatPlayer, threatCamp := scene.ThreatModifier(s.Hidden.ThreatSeed, sc.Card, today.Day)

	var extraDuty stats.PlayerDelta
	var extraCamp stats.CampDelta
	if today.Disruption.ExtraDuty == schedule.DutyNightWatch {
		extraDuty = stats.PlayerDelta{Sanity: -3, Stamina: -2, Warmth: -1}
		extraCamp = stats.CampDelta{Rumor: 1}
	}

	var investigation stats.PlayerDelta
	var investigationCamp stats.CampDelta
	if sc.Type == event.ScenePatrol && sc.Investigating {
		investigation = stats.PlayerDelta{Stamina: -1, Sanity: -1}
		investigationCamp = stats.CampDelta{Rumor: 1}
	}

	playerDelta := stats.MergePlayerDeltas(sc.Card.PlayerDelta, choice.PlayerDelta, threatPlayer, extraDuty, investigation)
	baseCampDelta := stats.MergeCampDeltas(sc.Card.CampDelta, choice.CampDelta, threatCamp, extraCamp, investigationCamp)

	sceneParams := scene.Params{
		Seed:   s.Seed,
		Week:   s.Week,
		Sanity: s.Player.Sanity,
		Threat: s.Hidden.ThreatSeed,
		Roster: s.Roster,
	}
	reports := sc.DebriefReports
	if sc.Type == event.ScenePatrol {
		reports = scene.PatrolFieldReports(sceneParams, today.Day, sc.Card.Observations)
	}

	flags := scene.Flags(reports, today)

	var packets []rumor.Packet
	propagation := rumor.Outcome{Network: s.Hidden.RumorAdoption}
	if sc.Type == event.SceneCamp {
		packets = rumor.BuildPackets(reports, today.Day, debriefChoice)
		propagation = rumor.Propagate(s.Seed, s.Week, today.Day, packets, s.Roster, s.Hidden.RumorAdoption, s.Camp.Discipline, debriefChoice)
	} else {
		conflicted := false
		for _, f := range flags {
			if f == scene.FlagConflictingTestimony {
				conflicted = true
			}
		}
		if conflicted {
			propagation.CampDelta = stats.CampDelta{Rumor: 1}
		}
	}

	events := []string{
		sc.Card.Title,
		sc.Card.Outcome,
		fmt.Sprintf("Decision: %s. %s", choice.Label, choice.LogText),
	}
	if sc.Card.Calm() {
		events = append(events, "Calm watch held. No urgent signs forced an alert.")
	}

	roster := s.Roster
	pendingConflict := s.Hidden.PendingAccusationConflict
	if sc.Type == event.SceneCamp && debriefChoice == scene.ChoiceAccuseLiar {
		var targetName string
		roster, targetName = accuseLiarTrustShift(s.Roster, reports)
		pendingConflict = true
		if targetName != "" {
			events = append(events, targetName+" took the accusation personally.")
		}
	}

	backlashRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:accusation-backlash", s.Seed, s.Week, today.Day))
	var backlash stats.CampDelta
	if sc.Type == event.SceneCamp && pendingConflict && backlashRng.Float64() < 0.42 {
		backlash = stats.CampDelta{Morale: -2, Discipline: -1, Rumor: 2}
		pendingConflict = false
		events = append(events, "Accusation backlash flared after lights-out, splitting the barracks.")
		flags = append(flags, scene.FlagAccuseConflict)
	}

	finalCampDelta := stats.MergeCampDeltas(baseCampDelta, propagation.CampDelta, backlash)

	if sc.Route != "" {
		events = append(events, "Route: "+sc.Route)
	}
	if sc.Type == event.SceneCamp {
		events = append(events, "You waited for patrol return and processed debrief reports.")
		quiet := 0
		for _, rep := range reports {
			if rep.Claim() == scene.ClaimNothingUnusual {
				quiet++
			}
		}
		threshold := len(reports) - 1
		if threshold < 1 {
			threshold = 1
		}
		if quiet >= threshold {
			events = append(events, "Debriefs stayed mostly quiet: nothing unusual dominated the hall.")
		}
	}
	if today.Disruption.Type != schedule.DisruptionNone {
		events = append(events, "Disruption note: "+today.Disruption.Reason)
	}

	log := NightLog{
		Day:           today.Day,
		Events:        events,
		DutyResolved:  today.AssignedDuty,
		DebriefChoice: debriefChoice,
		ReachCount:    propagation.ReachCount,
		Deltas:        NightDeltas{Player: playerDelta, Camp: finalCampDelta},
		Reports:       reports,
		RumorPackets:  propagation.Packets,
		Flags:         flags,
	}

	out := s.Clone()
	out.Phase = PhaseDawnReport
	out.ActiveScene = nil
	out.Player = s.Player.Apply(playerDelta)
	out.Camp = s.Camp.Apply(finalCampDelta)
	out.Roster = roster
	out.NightLogs = append(out.NightLogs, log)

	today.Resolved = true
	today.EventTitle = sc.Card.Title
	today.Summary = strings.TrimSpace(sc.Card.Outcome + " " + choice.LogText)
	out.Schedule[s.TodayIndex] = today

	dawn := newDawnReport(today.Day, playerDelta, finalCampDelta, propagation.ReachCount)
	out.DawnReport = &dawn

	focusDelta := 0
	switch {
	case debriefChoice == scene.ChoiceInvestigateQuietly:
		focusDelta = 1
	case sc.Type == event.ScenePatrol && sc.Investigating:
		focusDelta = -1
	}
	out.Hidden.InvestigationFocus = stats.Clamp(s.Hidden.InvestigationFocus+focusDelta, 0, 3)

	if sc.Card.Intense() {
		out.Hidden.IntenseStreak = stats.Clamp(s.Hidden.IntenseStreak+1, 0, 7)
	} else {
		out.Hidden.IntenseStreak = 0
	}
	out.Hidden.PendingAccusationConflict = pendingConflict
	if sc.Type == event.SceneCamp {
		out.Hidden.RumorAdoption = propagation.Network
		out.Hidden.LastDebrief = &DebriefSnapshot{
			Day:        today.Day,
			ChoiceID:   debriefChoice,
			Reports:    reports,
			Packets:    propagation.Packets,
			ReachCount: propagation.ReachCount,
		}
	}

	reachLine := ""
	if sc.Type == event.SceneCamp {
		reachLine = fmt.Sprintf("Rumor reached %d watcher(s).", propagation.ReachCount)
	}
	out.RecentEvents = appendEvents(out.RecentEvents, e.balance.RecentEventCap,
		fmt.Sprintf("%s: %s", today.Label, sc.Card.Title),
		choice.LogText,
		reachLine,
		dawn.Summary,
	)
	out.TodaySummary = "Dawn report ready. Review changes, then start the next day."
	out.WeekSummary = nil
	return out
}

// StartNextDay advances a DAWN_REPORT snapshot to the next day, or closes
// the run into its week summary after the seventh night.
func (e *Engine) StartNextDay(s *RunState) *RunState {
	if s.Complete || s.Phase != PhaseDawnReport {
		return s
	}

	if s.TodayIndex >= schedule.DaysInWeek-1 {
		summary := e.BuildWeekSummary(s)
		out := s.Clone()
		out.Phase = PhaseWeekSummary
		out.ActiveScene = nil
		out.DawnReport = nil
		out.Complete = true
		out.WeekSummary = &summary
		out.TodaySummary = "Week complete. Review your summary and decide your next run."
		out.RecentEvents = appendEvents(out.RecentEvents, e.balance.RecentEventCap,
			"Week 1 complete.", summary.FirstBreakLabel)
		return out
	}

	out := s.Clone()
	out.TodayIndex = s.TodayIndex + 1

	next := out.Schedule[out.TodayIndex]
	next.AssignedDuty = next.ScheduledDuty
	next.AssignedShift = next.ScheduledShift
	next.Disruption = schedule.Disruption{Type: schedule.DisruptionNone}
	next.Resolved = false
	next.EventTitle = ""
	next.Summary = ""
	next = schedule.ApplyDisruption(next, s.Seed, s.Week)
	out.Schedule[out.TodayIndex] = next

	out.Phase = PhaseDay
	out.ActiveScene = nil
	out.DawnReport = nil
	out.WeekSummary = nil
	out.TodaySummary = next.Briefing()
	out.RecentEvents = appendEvents(out.RecentEvents, e.balance.RecentEventCap,
		fmt.Sprintf("%s started: %s/%s.", next.Label, next.AssignedDuty, next.AssignedShift),
		next.Disruption.Summary(),
	)
	return out
}

// accuseLiarTrustShift punishes the least credible reporter and rewards the
// truthful ones. The target is the lowest-confidence report whose claim
// diverges from its truth, falling back to the lowest-confidence report.
func accuseLiarTrustShift(roster []npc.Profile, reports []scene.Report) ([]npc.Profile, string) {
	if len(reports) == 0 {
		return roster, ""
	}

	target := scene.Report{}
	haveTarget := false
	for _, rep := range reports {
		if rep.Claim() == rep.Truth {
			continue
		}
		if !haveTarget || rep.Confidence < target.Confidence {
			target = rep
			haveTarget = true
		}
	}
	if !haveTarget {
		for _, rep := range reports {
			if !haveTarget || rep.Confidence < target.Confidence {
				target = rep
				haveTarget = true
			}
		}
	}

	truthful := map[string]bool{}
	for _, rep := range reports {
		if rep.Claim() == rep.Truth {
			truthful[rep.NpcID] = true
		}
	}

	targetName := ""
	out := make([]npc.Profile, len(roster))
	for i, p := range roster {
		switch {
		case p.ID == target.NpcID:
			targetName = p.Name
			p.TrustInPlayer = stats.Clamp(p.TrustInPlayer-14, 0, 100)
			p.Loyalty = stats.Clamp(p.Loyalty-8, 0, 100)
			p.Fear = stats.Clamp(p.Fear+6, 0, 100)
		case truthful[p.ID]:
			p.TrustInPlayer = stats.Clamp(p.TrustInPlayer+2, 0, 100)
		}
		out[i] = p
	}
	return out, targetName
}

func newDawnReport(day int, player stats.PlayerDelta, camp stats.CampDelta, reach int) DawnReport {
	deltas := DawnDeltas{
		Supplies:   camp.Supplies,
		Morale:     camp.Morale,
		Discipline: camp.Discipline,
		Rumor:      camp.Rumor,
		Warmth:     player.Warmth,
		Stamina:    player.Stamina,
		Sanity:     player.Sanity,
		Injury:     player.Injury,
	}
	parts := []string{
		"Supplies " + stats.Signed(deltas.Supplies),
		"Morale " + stats.Signed(deltas.Morale),
		"Discipline " + stats.Signed(deltas.Discipline),
		"Rumor " + stats.Signed(deltas.Rumor),
		"Warmth " + stats.Signed(deltas.Warmth),
		"Stamina " + stats.Signed(deltas.Stamina),
		"Sanity " + stats.Signed(deltas.Sanity),
		"Injury " + stats.Signed(deltas.Injury),
		fmt.Sprintf("Rumor reach %d", reach),
	}
	return DawnReport{
		Day:        day,
		Title:      fmt.Sprintf("Dawn Report - Day %d", day),
		Summary:    "Dawn tally: " + strings.Join(parts, ", ") + ".",
		ReachCount: reach,
		Deltas:     deltas,
	}
}
