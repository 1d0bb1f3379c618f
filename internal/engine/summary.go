package engine

import (
	"fmt"
	"sort"
	"strings"
)

// firstBreak replays the run's night logs from base stats and reports which
// collapse threshold tripped first. Thresholds are checked in a fixed order
// so ties resolve the same way every time.
func (e *Engine) firstBreak(s *RunState) (string, int) {
	player := e.balance.BasePlayer
	camp := e.balance.BaseCamp

	logs := append([]NightLog(nil), s.NightLogs...)
	sort.SliceStable(logs, func(a, b int) bool { return logs[a].Day < logs[b].Day })

	for _, log := range logs {
		player = player.Apply(log.Deltas.Player)
		camp = camp.Apply(log.Deltas.Camp)

		switch {
		case camp.Morale <= e.balance.MoraleFloor:
			return "Morale collapsed first", log.Day
		case camp.Discipline <= e.balance.DisciplineFloor:
			return "Discipline cracked first", log.Day
		case camp.Rumor >= e.balance.RumorCeiling:
			return "Rumor pressure broke containment first", log.Day
		case player.Sanity <= e.balance.SanityFloor:
			return "Sanity erosion broke your judgment first", log.Day
		case camp.Supplies <= e.balance.SuppliesFloor:
			return "Supply strain broke the line first", log.Day
		case player.Injury >= e.balance.InjuryCeiling:
			return "Injury load broke patrol capacity first", log.Day
		}
	}
	return "No single collapse trigger fired before week end", 0
}

// BuildWeekSummary closes the books on a run: collapse indicators, the
// first-break verdict, and a shareable text block.
func (e *Engine) BuildWeekSummary(s *RunState) WeekSummary {
	label, day := e.firstBreak(s)
	if day > 0 {
		label = fmt.Sprintf("%s on Day %d", label, day)
	}

	indicators := CollapseIndicators{
		MoraleLow:     s.Camp.Morale <= e.balance.MoraleFloor,
		DisciplineLow: s.Camp.Discipline <= e.balance.DisciplineFloor,
		RumorHigh:     s.Camp.Rumor >= e.balance.RumorCeiling,
	}

	return WeekSummary{
		Week:            s.Week,
		NightsSurvived:  len(s.NightLogs),
		Indicators:      indicators,
		FirstBreakLabel: label,
		ShareText:       e.weekShareText(s, indicators, label),
	}
}

func (e *Engine) weekShareText(s *RunState, ind CollapseIndicators, firstBreak string) string {
	moraleWord, disciplineWord, rumorWord := "steady", "steady", "contained"
	if ind.MoraleLow {
		moraleWord = "LOW"
	}
	if ind.DisciplineLow {
		disciplineWord = "LOW"
	}
	if ind.RumorHigh {
		rumorWord = "HIGH"
	}

	lines := []string{
		fmt.Sprintf("Lowborn Week %d Summary", s.Week),
		"Seed: " + s.Seed,
		fmt.Sprintf("Nights survived: %d/7", len(s.NightLogs)),
		fmt.Sprintf("Collapse indicators: morale %s (%d), discipline %s (%d), rumor %s (%d)",
			moraleWord, s.Camp.Morale, disciplineWord, s.Camp.Discipline, rumorWord, s.Camp.Rumor),
		"What broke first: " + firstBreak,
		fmt.Sprintf("Final camp -> supplies %d, morale %d, discipline %d, rumor %d",
			s.Camp.Supplies, s.Camp.Morale, s.Camp.Discipline, s.Camp.Rumor),
		fmt.Sprintf("Final player -> warmth %d, stamina %d, sanity %d, injury %d",
			s.Player.Warmth, s.Player.Stamina, s.Player.Sanity, s.Player.Injury),
	}
	return strings.Join(lines, "\n")
}
