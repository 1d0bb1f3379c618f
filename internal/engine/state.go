// Package engine drives a week-long watch run: the day/night phase machine,
// night resolution, rumor fallout, and the week summary. State snapshots are
// immutable; every transition returns a fresh RunState and invalid
// transitions return the input unchanged.
package engine

import (
	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/rumor"
	"github.com/autinyork/LowBorn/internal/scene"
	"github.com/autinyork/LowBorn/internal/schedule"
	"github.com/autinyork/LowBorn/internal/stats"
)

// Phase is the run's position in the daily loop.
type Phase string

const (
	PhaseDay         Phase = "DAY"
	PhaseNightScene  Phase = "NIGHT_SCENE"
	PhaseDawnReport  Phase = "DAWN_REPORT"
	PhaseWeekSummary Phase = "WEEK_SUMMARY"
)

// DebriefSnapshot preserves the last camp debrief for the accusation and
// follow-up systems.
type DebriefSnapshot struct {
	Day        int            `json:"day"`
	ChoiceID   string         `json:"choiceId"`
	Reports    []scene.Report `json:"reports"`
	Packets    []rumor.Packet `json:"packets"`
	ReachCount int            `json:"rumorReachCount"`
}

// Hidden is run state the player never sees directly: the true threat, the
// pacing counters, and the rumor network.
type Hidden struct {
	ThreatSeed                scene.ThreatSeed `json:"threatSeed"`
	InvestigationFocus        int              `json:"investigationFocus"`
	IntenseStreak             int              `json:"intenseStreak"`
	PendingAccusationConflict bool             `json:"pendingAccusationConflict"`
	RumorAdoption             rumor.Network    `json:"rumorAdoption"`
	LastDebrief               *DebriefSnapshot `json:"lastDebrief,omitempty"`
}

// NightDeltas is the full stat movement of one resolved night.
type NightDeltas struct {
	Player stats.PlayerDelta `json:"player"`
	Camp   stats.CampDelta   `json:"camp"`
}

// NightLog records everything that happened on one night.
type NightLog struct {
	Day           int            `json:"day"`
	Events        []string       `json:"events"`
	DutyResolved  schedule.Duty  `json:"dutyResolved"`
	DebriefChoice string         `json:"debriefChoice,omitempty"`
	ReachCount    int            `json:"rumorReachCount"`
	Deltas        NightDeltas    `json:"deltas"`
	Reports       []scene.Report `json:"reports"`
	RumorPackets  []rumor.Packet `json:"rumorPackets"`
	Flags         []string       `json:"flags"`
}

// DawnDeltas is the flattened stat tally shown at dawn.
type DawnDeltas struct {
	Supplies   int `json:"supplies"`
	Morale     int `json:"morale"`
	Discipline int `json:"discipline"`
	Rumor      int `json:"rumor"`
	Warmth     int `json:"warmth"`
	Stamina    int `json:"stamina"`
	Sanity     int `json:"sanity"`
	Injury     int `json:"injury"`
}

// DawnReport is the morning-after view of a resolved night.
type DawnReport struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Summary    string     `json:"summary"`
	ReachCount int        `json:"rumorReachCount"`
	Deltas     DawnDeltas `json:"deltas"`
}

// CollapseIndicators are the end-of-week warning lights.
type CollapseIndicators struct {
	MoraleLow     bool `json:"moraleLow"`
	DisciplineLow bool `json:"disciplineLow"`
	RumorHigh     bool `json:"rumorHigh"`
}

// WeekSummary closes out a run.
type WeekSummary struct {
	Week            int                `json:"week"`
	NightsSurvived  int                `json:"nightsSurvived"`
	Indicators      CollapseIndicators `json:"collapseIndicators"`
	FirstBreakLabel string             `json:"firstBreakLabel"`
	ShareText       string             `json:"shareText"`
}

// RunState is one full snapshot of a watch run.
type RunState struct {
	Seed         string        `json:"seed"`
	Week         int           `json:"week"`
	TodayIndex   int           `json:"todayIndex"`
	Schedule     schedule.Week `json:"schedule"`
	Phase        Phase         `json:"phase"`
	ActiveScene  *scene.Scene  `json:"activeNightScene,omitempty"`
	DawnReport   *DawnReport   `json:"dawnReport,omitempty"`
	Player       stats.Player  `json:"playerStats"`
	Camp         stats.Camp    `json:"campStats"`
	Roster       []npc.Profile `json:"npcProfiles"`
	NightLogs    []NightLog    `json:"nightLogs"`
	RecentEvents []string      `json:"recentEvents"`
	TodaySummary string        `json:"todaySummary"`
	WeekSummary  *WeekSummary  `json:"weekSummary,omitempty"`
	Complete     bool          `json:"complete"`
	Hidden       Hidden        `json:"hidden"`
}

// Today returns the current day's assignment; ok is false past week end.
func (s *RunState) Today() (schedule.Assignment, bool) {
	if s.TodayIndex < 0 || s.TodayIndex >= len(s.Schedule) {
		return schedule.Assignment{}, false
	}
	return s.Schedule[s.TodayIndex], true
}

// Clone deep-copies the snapshot so transitions never alias live state.
func (s *RunState) Clone() *RunState {
	out := *s
	out.Schedule = append(schedule.Week(nil), s.Schedule...)
	out.Roster = append([]npc.Profile(nil), s.Roster...)
	out.NightLogs = append([]NightLog(nil), s.NightLogs...)
	out.RecentEvents = append([]string(nil), s.RecentEvents...)
	out.Hidden.RumorAdoption = s.Hidden.RumorAdoption.Clone()
	if s.ActiveScene != nil {
		sc := *s.ActiveScene
		out.ActiveScene = &sc
	}
	if s.DawnReport != nil {
		dr := *s.DawnReport
		out.DawnReport = &dr
	}
	if s.WeekSummary != nil {
		ws := *s.WeekSummary
		out.WeekSummary = &ws
	}
	if s.Hidden.LastDebrief != nil {
		ld := *s.Hidden.LastDebrief
		out.Hidden.LastDebrief = &ld
	}
	return &out
}

// appendEvents appends to the rolling event feed, dropping blanks and
// trimming to the cap.
func appendEvents(feed []string, limit int, lines ...string) []string {
	out := append([]string(nil), feed...)
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
