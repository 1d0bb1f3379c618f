package engine

import (
	"fmt"
	"strings"

	"github.com/autinyork/LowBorn/internal/schedule"
	"github.com/autinyork/LowBorn/internal/stats"
)

// JournalEntry is one day's line in the run journal.
type JournalEntry struct {
	Day        int    `json:"day"`
	Label      string `json:"label"`
	Assignment string `json:"assignment"`
	Disruption string `json:"disruption"`
	Night      string `json:"nightSummary"`
	DawnDeltas string `json:"dawnDeltaSummary"`
}

func deltaLine(log *NightLog) string {
	if log == nil {
		return "Pending"
	}
	return strings.Join([]string{
		"Sup " + stats.Signed(log.Deltas.Camp.Supplies),
		"Mor " + stats.Signed(log.Deltas.Camp.Morale),
		"Dis " + stats.Signed(log.Deltas.Camp.Discipline),
		"Rum " + stats.Signed(log.Deltas.Camp.Rumor),
		"Warm " + stats.Signed(log.Deltas.Player.Warmth),
		"Sta " + stats.Signed(log.Deltas.Player.Stamina),
		"San " + stats.Signed(log.Deltas.Player.Sanity),
		"Inj " + stats.Signed(log.Deltas.Player.Injury),
	}, " | ")
}

// JournalEntries builds the day-by-day journal for a run.
func JournalEntries(s *RunState) []JournalEntry {
	byDay := map[int]*NightLog{}
	for i := range s.NightLogs {
		byDay[s.NightLogs[i].Day] = &s.NightLogs[i]
	}

	entries := make([]JournalEntry, 0, len(s.Schedule))
	for _, day := range s.Schedule {
		disruption := "None"
		if day.Disruption.Type != schedule.DisruptionNone {
			disruption = day.Disruption.Reason
			if disruption == "" {
				disruption = string(day.Disruption.Type)
			}
		}
		night := day.Summary
		if night == "" {
			night = "Pending"
		}
		entries = append(entries, JournalEntry{
			Day:        day.Day,
			Label:      day.Label,
			Assignment: fmt.Sprintf("%s / %s", day.AssignedDuty, day.AssignedShift),
			Disruption: disruption,
			Night:      night,
			DawnDeltas: deltaLine(byDay[day.Day]),
		})
	}
	return entries
}

// ShareableRunText renders the whole run as a paste-friendly text block.
func ShareableRunText(s *RunState) string {
	lines := []string{
		"Lowborn Run Journal",
		"Seed: " + s.Seed,
		fmt.Sprintf("Week: %d | Phase: %s | Nights resolved: %d/7", s.Week, s.Phase, len(s.NightLogs)),
		fmt.Sprintf("Camp: supplies %d, morale %d, discipline %d, rumor %d",
			s.Camp.Supplies, s.Camp.Morale, s.Camp.Discipline, s.Camp.Rumor),
		fmt.Sprintf("Player: warmth %d, stamina %d, sanity %d, injury %d",
			s.Player.Warmth, s.Player.Stamina, s.Player.Sanity, s.Player.Injury),
		"",
		"Daily Journal:",
	}

	for _, entry := range JournalEntries(s) {
		lines = append(lines,
			fmt.Sprintf("Day %d (%s)", entry.Day, entry.Label),
			"  Assignment: "+entry.Assignment,
			"  Disruption: "+entry.Disruption,
			"  Night: "+entry.Night,
			"  Dawn deltas: "+entry.DawnDeltas,
		)
	}

	if s.WeekSummary != nil {
		lines = append(lines, "", "Week Summary:", s.WeekSummary.ShareText)
	}
	return strings.Join(lines, "\n")
}
