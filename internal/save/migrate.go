package save

import (
	"fmt"

	"github.com/autinyork/LowBorn/internal/engine"
	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/rumor"
	"github.com/autinyork/LowBorn/internal/scene"
	"github.com/autinyork/LowBorn/internal/schedule"
	"github.com/autinyork/LowBorn/internal/stats"
)

// legacyShiftRotation is the fixed shift cycle saves predating per-day shift
// assignment were replayed onto.
var legacyShiftRotation = []schedule.Shift{schedule.ShiftDawn, schedule.ShiftDay, schedule.ShiftDusk}

// Envelope layouts for the retired save formats. Each struct mirrors the
// exact wire shape its version wrote so old payloads unmarshal losslessly.

type envelopeV1 struct {
	Version  int        `json:"version"`
	SavedAt  string     `json:"savedAt"`
	Snapshot snapshotV1 `json:"snapshot"`
}

type snapshotV1 struct {
	Seed     string `json:"seed"`
	Week     int    `json:"week"`
	Day      int    `json:"day"`
	Schedule []struct {
		Day         int    `json:"day"`
		Label       string `json:"label"`
		PlannedDuty string `json:"plannedDuty"`
		Resolved    bool   `json:"resolved"`
		EventTitle  string `json:"eventTitle"`
		Summary     string `json:"summary"`
	} `json:"schedule"`
	Stats struct {
		Supplies   int `json:"supplies"`
		Morale     int `json:"morale"`
		Discipline int `json:"discipline"`
		Rumor      int `json:"rumor"`
		Warmth     int `json:"warmth"`
		Stamina    int `json:"stamina"`
		Sanity     int `json:"sanity"`
	} `json:"stats"`
	TodaySummary string   `json:"todaySummary"`
	Log          []string `json:"log"`
	Complete     bool     `json:"complete"`
}

type envelopeV2 struct {
	Version   int     `json:"version"`
	SavedAt   string  `json:"savedAt"`
	GameState stateV2 `json:"gameState"`
}

type assignmentV2 struct {
	Day        int    `json:"day"`
	Label      string `json:"label"`
	DutyType   string `json:"dutyType"`
	Shift      string `json:"shift"`
	Resolved   bool   `json:"resolved"`
	EventTitle string `json:"eventTitle"`
	Summary    string `json:"summary"`
}

type nightLogV2 struct {
	Day    int      `json:"day"`
	Events []string `json:"events"`
	Deltas struct {
		Player map[string]int `json:"player"`
		Camp   map[string]int `json:"camp"`
	} `json:"deltas"`
	Reports []scene.Report `json:"reports"`
	Flags   []string       `json:"flags"`
}

type stateV2 struct {
	Seed         string         `json:"seed"`
	Week         int            `json:"week"`
	Day          int            `json:"day"`
	WeekSchedule []assignmentV2 `json:"weekSchedule"`
	PlayerStats  stats.Player   `json:"playerStats"`
	CampStats    stats.Camp     `json:"campStats"`
	NpcProfiles  []npc.Profile  `json:"npcProfiles"`
	NightLogs    []nightLogV2   `json:"nightLogs"`
	RecentEvents []string       `json:"recentEvents"`
	TodaySummary string         `json:"todaySummary"`
	Complete     bool           `json:"complete"`
	Hidden       legacyHidden   `json:"hidden"`
}

type legacyHidden struct {
	ThreatSeed string `json:"threatSeed"`
}

type envelopeV3 struct {
	Version   int     `json:"version"`
	SavedAt   string  `json:"savedAt"`
	GameState stateV3 `json:"gameState"`
}

type stateV3 struct {
	Seed         string            `json:"seed"`
	Week         int               `json:"week"`
	TodayIndex   int               `json:"todayIndex"`
	Schedule     schedule.Week     `json:"schedule"`
	Phase        string            `json:"phase"`
	PlayerStats  stats.Player      `json:"playerStats"`
	CampStats    stats.Camp        `json:"campStats"`
	NpcProfiles  []npc.Profile     `json:"npcProfiles"`
	NightLogs    []engine.NightLog `json:"nightLogs"`
	RecentEvents []string          `json:"recentEvents"`
	TodaySummary string            `json:"todaySummary"`
	Complete     bool              `json:"complete"`
	Hidden       legacyHidden      `json:"hidden"`
}

type envelopeV4 struct {
	Version   int     `json:"version"`
	SavedAt   string  `json:"savedAt"`
	GameState stateV4 `json:"gameState"`
}

type stateV4 struct {
	Seed         string             `json:"seed"`
	Week         int                `json:"week"`
	TodayIndex   int                `json:"todayIndex"`
	Schedule     schedule.Week      `json:"schedule"`
	Phase        engine.Phase       `json:"phase"`
	ActiveScene  *scene.Scene       `json:"activeNightScene"`
	DawnReport   *engine.DawnReport `json:"dawnReport"`
	PlayerStats  stats.Player       `json:"playerStats"`
	CampStats    stats.Camp         `json:"campStats"`
	NpcProfiles  []npc.Profile      `json:"npcProfiles"`
	NightLogs    []engine.NightLog  `json:"nightLogs"`
	RecentEvents []string           `json:"recentEvents"`
	TodaySummary string             `json:"todaySummary"`
	Complete     bool               `json:"complete"`
	Hidden       legacyHidden       `json:"hidden"`
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// campFallbackDuty deterministically expands the retired two-duty model into
// the camp duty pool, keyed off the legacy seed string.
func campFallbackDuty(seedKey string) schedule.Duty {
	switch len(seedKey) % 3 {
	case 0:
		return schedule.DutyCampWork
	case 1:
		return schedule.DutyCampWait
	default:
		return schedule.DutyRest
	}
}

func mapLegacyDuty(duty, seedKey string) schedule.Duty {
	if duty == string(schedule.DutyPatrol) {
		return schedule.DutyPatrol
	}
	return campFallbackDuty(seedKey)
}

func normalizeThreatSeed(value string) scene.ThreatSeed {
	switch scene.ThreatSeed(value) {
	case scene.ThreatReal, scene.ThreatExaggerated, scene.ThreatNone:
		return scene.ThreatSeed(value)
	}
	return scene.ThreatNone
}

// normalizeReport backfills fields legacy reports could omit. A report with
// no claims at all collapses to the quiet claim.
func normalizeReport(r scene.Report) scene.Report {
	primary := scene.ClaimNothingUnusual
	if len(r.Claims) > 0 && r.Claims[0] != "" {
		primary = r.Claims[0]
	}
	if len(r.Claims) == 0 {
		r.Claims = []string{primary}
	}
	if r.NpcID == "" {
		r.NpcID = "unknown-npc"
	}
	if r.NpcName == "" {
		r.NpcName = r.NpcID
	}
	if r.Truth == "" {
		r.Truth = primary
	}
	if r.Presented == "" {
		r.Presented = primary
	}
	if r.Confidence == 0 {
		r.Confidence = 0.5
	}
	if r.Emotion == "" {
		r.Emotion = scene.EmotionSteady
	}
	return r
}

func normalizeNightLogs(logs []engine.NightLog) []engine.NightLog {
	out := make([]engine.NightLog, 0, len(logs))
	for _, log := range logs {
		log.Day = clampInt(log.Day, 1, schedule.DaysInWeek)
		if len(log.Events) == 0 {
			log.Events = []string{"Legacy log entry"}
		}
		if log.DutyResolved == "" {
			log.DutyResolved = schedule.DutyCampWait
		}
		reports := make([]scene.Report, 0, len(log.Reports))
		for _, r := range log.Reports {
			reports = append(reports, normalizeReport(r))
		}
		log.Reports = reports
		out = append(out, log)
	}
	return out
}

// buildRumorNetwork sizes the adoption state to the roster, carrying over any
// prior node and zeroing NPCs the old save never tracked.
func buildRumorNetwork(roster []npc.Profile, existing rumor.Network) rumor.Network {
	next := rumor.Network{}
	for _, p := range roster {
		next[p.ID] = existing[p.ID]
	}
	return next
}

func buildLegacyDawnReport(day int, log *engine.NightLog) *engine.DawnReport {
	report := engine.DawnReport{
		Day:     day,
		Title:   fmt.Sprintf("Dawn Report - Day %d", day),
		Summary: "Migrated report: review stats before starting next day.",
	}
	if log != nil {
		report.ReachCount = log.ReachCount
		report.Deltas = engine.DawnDeltas{
			Supplies:   log.Deltas.Camp.Supplies,
			Morale:     log.Deltas.Camp.Morale,
			Discipline: log.Deltas.Camp.Discipline,
			Rumor:      log.Deltas.Camp.Rumor,
			Warmth:     log.Deltas.Player.Warmth,
			Stamina:    log.Deltas.Player.Stamina,
			Sanity:     log.Deltas.Player.Sanity,
			Injury:     log.Deltas.Player.Injury,
		}
	}
	return &report
}

// finalize settles any decoded snapshot into a fully hydrated current state:
// night logs and reports get their legacy defaults, the hidden block is
// reseeded where absent, and the rumor network is resized to the roster.
func finalize(s *engine.RunState) *engine.RunState {
	out := s.Clone()
	out.NightLogs = normalizeNightLogs(out.NightLogs)

	if out.DawnReport != nil && out.DawnReport.ReachCount == 0 && len(out.NightLogs) > 0 {
		out.DawnReport.ReachCount = out.NightLogs[len(out.NightLogs)-1].ReachCount
	}

	if out.Hidden.ThreatSeed == "" {
		out.Hidden.ThreatSeed = scene.PickThreat(out.Seed)
	} else {
		out.Hidden.ThreatSeed = normalizeThreatSeed(string(out.Hidden.ThreatSeed))
	}
	out.Hidden.InvestigationFocus = clampInt(out.Hidden.InvestigationFocus, 0, 7)
	out.Hidden.IntenseStreak = clampInt(out.Hidden.IntenseStreak, 0, 7)
	out.Hidden.RumorAdoption = buildRumorNetwork(out.Roster, out.Hidden.RumorAdoption)
	return out
}

func migrateFromV4(gs stateV4) *engine.RunState {
	sc := gs.ActiveScene
	if sc != nil {
		copied := *sc
		reports := make([]scene.Report, 0, len(copied.DebriefReports))
		for _, r := range copied.DebriefReports {
			reports = append(reports, normalizeReport(r))
		}
		copied.DebriefReports = reports
		sc = &copied
	}

	return finalize(&engine.RunState{
		Seed:         gs.Seed,
		Week:         gs.Week,
		TodayIndex:   gs.TodayIndex,
		Schedule:     gs.Schedule,
		Phase:        gs.Phase,
		ActiveScene:  sc,
		DawnReport:   gs.DawnReport,
		Player:       gs.PlayerStats,
		Camp:         gs.CampStats,
		Roster:       gs.NpcProfiles,
		NightLogs:    gs.NightLogs,
		RecentEvents: gs.RecentEvents,
		TodaySummary: gs.TodaySummary,
		Complete:     gs.Complete,
		Hidden: engine.Hidden{
			ThreatSeed: normalizeThreatSeed(gs.Hidden.ThreatSeed),
		},
	})
}

// mapLegacyPhase translates the retired two-phase model. A save captured
// mid-NIGHT resumes at a reconstructed dawn report; everything else resumes
// at the day briefing.
func mapLegacyPhase(phase string, complete bool, day int, logs []engine.NightLog) (engine.Phase, *engine.DawnReport) {
	if complete || phase != "NIGHT" {
		return engine.PhaseDay, nil
	}
	var latest *engine.NightLog
	for i := range logs {
		if logs[i].Day == day {
			latest = &logs[i]
			break
		}
	}
	if latest == nil && len(logs) > 0 {
		latest = &logs[len(logs)-1]
	}
	return engine.PhaseDawnReport, buildLegacyDawnReport(day, latest)
}

func migrateFromV3(gs stateV3) *engine.RunState {
	logs := normalizeNightLogs(gs.NightLogs)
	day := clampInt(gs.TodayIndex+1, 1, schedule.DaysInWeek)
	phase, dawn := mapLegacyPhase(gs.Phase, gs.Complete, day, logs)

	return finalize(&engine.RunState{
		Seed:         gs.Seed,
		Week:         gs.Week,
		TodayIndex:   gs.TodayIndex,
		Schedule:     gs.Schedule,
		Phase:        phase,
		DawnReport:   dawn,
		Player:       gs.PlayerStats,
		Camp:         gs.CampStats,
		Roster:       gs.NpcProfiles,
		NightLogs:    logs,
		RecentEvents: gs.RecentEvents,
		TodaySummary: gs.TodaySummary,
		Complete:     gs.Complete,
		Hidden: engine.Hidden{
			ThreatSeed: normalizeThreatSeed(gs.Hidden.ThreatSeed),
		},
	})
}

func migrateFromV2(gs stateV2) *engine.RunState {
	todayIndex := clampInt(gs.Day-1, 0, schedule.DaysInWeek-1)

	week := make(schedule.Week, 0, len(gs.WeekSchedule))
	for _, entry := range gs.WeekSchedule {
		duty := mapLegacyDuty(entry.DutyType, fmt.Sprintf("%s:legacy-v2:day:%d", gs.Seed, entry.Day))
		shift := schedule.Shift(entry.Shift)
		week = append(week, schedule.Assignment{
			Day:            entry.Day,
			Label:          entry.Label,
			ScheduledDuty:  duty,
			ScheduledShift: shift,
			AssignedDuty:   duty,
			AssignedShift:  shift,
			Disruption:     schedule.Disruption{Type: schedule.DisruptionNone},
			Resolved:       entry.Resolved,
			EventTitle:     entry.EventTitle,
			Summary:        entry.Summary,
		})
	}

	logs := make([]engine.NightLog, 0, len(gs.NightLogs))
	for i, log := range gs.NightLogs {
		duty := schedule.DutyCampWait
		if idx := clampInt(log.Day-1, 0, schedule.DaysInWeek-1); idx < len(week) {
			duty = week[idx].AssignedDuty
		}
		flags := log.Flags
		if len(flags) == 0 {
			flags = []string{fmt.Sprintf("LEGACY_LOG_%d", i+1)}
		}
		logs = append(logs, engine.NightLog{
			Day:          log.Day,
			Events:       log.Events,
			DutyResolved: duty,
			Deltas: engine.NightDeltas{
				Player: stats.PlayerDelta{
					Warmth:  log.Deltas.Player["warmth"],
					Stamina: log.Deltas.Player["stamina"],
					Injury:  log.Deltas.Player["injury"],
					Hunger:  log.Deltas.Player["hunger"],
					Sanity:  log.Deltas.Player["sanity"],
				},
				Camp: stats.CampDelta{
					Supplies:   log.Deltas.Camp["supplies"],
					Morale:     log.Deltas.Camp["morale"],
					Discipline: log.Deltas.Camp["discipline"],
					Rumor:      log.Deltas.Camp["rumor"],
				},
			},
			Reports: log.Reports,
			Flags:   flags,
		})
	}
	logs = normalizeNightLogs(logs)

	phase := engine.PhaseDay
	var dawn *engine.DawnReport
	if !gs.Complete && todayIndex < len(week) && week[todayIndex].Resolved {
		phase = engine.PhaseDawnReport
		var latest *engine.NightLog
		if len(logs) > 0 {
			latest = &logs[len(logs)-1]
		}
		dawn = buildLegacyDawnReport(gs.Day, latest)
	}

	return finalize(&engine.RunState{
		Seed:         gs.Seed,
		Week:         gs.Week,
		TodayIndex:   todayIndex,
		Schedule:     week,
		Phase:        phase,
		DawnReport:   dawn,
		Player:       gs.PlayerStats,
		Camp:         gs.CampStats,
		Roster:       gs.NpcProfiles,
		NightLogs:    logs,
		RecentEvents: gs.RecentEvents,
		TodaySummary: gs.TodaySummary,
		Complete:     gs.Complete,
		Hidden: engine.Hidden{
			ThreatSeed: normalizeThreatSeed(gs.Hidden.ThreatSeed),
		},
	})
}

func migrateFromV1(snapshot snapshotV1) *engine.RunState {
	todayIndex := clampInt(snapshot.Day-1, 0, schedule.DaysInWeek-1)

	week := make(schedule.Week, 0, len(snapshot.Schedule))
	for i, entry := range snapshot.Schedule {
		duty := mapLegacyDuty(entry.PlannedDuty, fmt.Sprintf("%s:legacy-v1:day:%d", snapshot.Seed, entry.Day))
		shift := legacyShiftRotation[i%len(legacyShiftRotation)]
		week = append(week, schedule.Assignment{
			Day:            entry.Day,
			Label:          entry.Label,
			ScheduledDuty:  duty,
			ScheduledShift: shift,
			AssignedDuty:   duty,
			AssignedShift:  shift,
			Disruption:     schedule.Disruption{Type: schedule.DisruptionNone},
			Resolved:       entry.Resolved,
			EventTitle:     entry.EventTitle,
			Summary:        entry.Summary,
		})
	}

	// The v1 format predates injury and hunger tracking; both reconstruct
	// from their inverse stats.
	player := stats.Player{
		Warmth:  snapshot.Stats.Warmth,
		Stamina: snapshot.Stats.Stamina,
		Injury:  clampInt(100-snapshot.Stats.Stamina, 0, 100),
		Hunger:  clampInt(100-snapshot.Stats.Supplies, 0, 100),
		Sanity:  snapshot.Stats.Sanity,
	}

	return finalize(&engine.RunState{
		Seed:       snapshot.Seed,
		Week:       snapshot.Week,
		TodayIndex: todayIndex,
		Schedule:   week,
		Phase:      engine.PhaseDay,
		Player:     player,
		Camp: stats.Camp{
			Supplies:   snapshot.Stats.Supplies,
			Morale:     snapshot.Stats.Morale,
			Discipline: snapshot.Stats.Discipline,
			Rumor:      snapshot.Stats.Rumor,
		},
		Roster:       npc.BuildRoster(snapshot.Seed),
		NightLogs:    []engine.NightLog{},
		RecentEvents: snapshot.Log,
		TodaySummary: snapshot.TodaySummary,
		Complete:     snapshot.Complete,
		Hidden: engine.Hidden{
			ThreatSeed: scene.PickThreat(snapshot.Seed),
		},
	})
}
