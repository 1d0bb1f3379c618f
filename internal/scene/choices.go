package scene

import (
	"github.com/autinyork/LowBorn/internal/event"
	"github.com/autinyork/LowBorn/internal/stats"
)

// Patrol choice ids.
const (
	ChoicePressForward  = "press-forward"
	ChoiceMarkAndReturn = "mark-and-return"
	ChoiceHoldPosition  = "hold-position"
)

// Camp debrief choice ids.
const (
	ChoiceEscalateCommander  = "ESCALATE_COMMANDER"
	ChoiceDownplay           = "DOWNPLAY"
	ChoiceInvestigateQuietly = "INVESTIGATE_QUIETLY"
	ChoiceAccuseLiar         = "ACCUSE_LIAR"
)

// PatrolChoices builds the three patrol decisions with deltas scaled by the
// drawn card's tone. Pressing into a hazard costs more than pressing into a
// quiet night; holding back on anything non-mundane feeds the rumor mill.
func PatrolChoices(card event.Card) []Choice {
	hazard := card.HasTag(event.TagHazard)
	ambiguous := card.HasTag(event.TagAmbiguous)
	internal := card.HasTag(event.TagInternal)
	shock := card.HasTag(event.TagShock)
	mundane := card.HasTag(event.TagMundane) && !hazard && !internal && !shock

	press := Choice{
		ID:          ChoicePressForward,
		Label:       "Press forward",
		Description: "Push deeper to confirm signs before returning.",
		PlayerDelta: stats.PlayerDelta{Stamina: -3},
		CampDelta:   stats.CampDelta{Discipline: 1},
		LogText:     "You pushed deeper before falling back to the line.",
	}
	if mundane {
		press.PlayerDelta.Stamina = -1
	}
	switch {
	case hazard:
		press.PlayerDelta.Injury = 2
		if shock {
			press.PlayerDelta.Injury = 3
		}
	case mundane:
		press.PlayerDelta.Injury = 0
	default:
		press.PlayerDelta.Injury = 1
	}
	switch {
	case ambiguous:
		press.PlayerDelta.Sanity = -1
		if shock {
			press.PlayerDelta.Sanity = -2
		}
	case shock:
		press.PlayerDelta.Sanity = -2
	case mundane:
		press.PlayerDelta.Sanity = 1
	}
	switch {
	case ambiguous || shock:
		press.CampDelta.Rumor = 1
	case mundane:
		press.CampDelta.Rumor = -1
	}

	mark := Choice{
		ID:          ChoiceMarkAndReturn,
		Label:       "Mark and return",
		Description: "Mark the route and report at first safe chance.",
		PlayerDelta: stats.PlayerDelta{Stamina: -1, Sanity: 1},
		CampDelta:   stats.CampDelta{Discipline: 1},
		LogText:     "You marked the route and returned with a measured report.",
	}
	if ambiguous || shock {
		mark.PlayerDelta.Sanity = -1
		mark.CampDelta.Rumor = 1
	} else if mundane {
		mark.CampDelta.Rumor = -1
	}
	if internal {
		mark.CampDelta.Morale = -1
	}

	hold := Choice{
		ID:          ChoiceHoldPosition,
		Label:       "Hold position",
		Description: "Conserve strength and shadow the area from distance.",
		PlayerDelta: stats.PlayerDelta{Warmth: -1, Stamina: -1, Sanity: 1},
		LogText:     "You held observation and returned with limited certainty.",
	}
	if shock {
		hold.PlayerDelta.Sanity = -1
	}
	if !mundane {
		hold.CampDelta.Rumor = 2
		hold.CampDelta.Morale = -1
		if shock {
			hold.CampDelta.Rumor = 3
			hold.CampDelta.Morale = -2
		}
	}

	return []Choice{press, mark, hold}
}

// CampChoices builds the fixed debrief decision set.
func CampChoices() []Choice {
	return []Choice{
		{
			ID:          ChoiceEscalateCommander,
			Label:       "Escalate to commander",
			Description: "File an immediate alarm and force stricter report protocol.",
			PlayerDelta: stats.PlayerDelta{Sanity: -1},
			CampDelta:   stats.CampDelta{Discipline: 2, Morale: -2, Rumor: 2},
			LogText:     "You escalated the debrief to command authority.",
		},
		{
			ID:          ChoiceDownplay,
			Label:       "Downplay",
			Description: "Treat the debrief as noise and calm the line publicly.",
			PlayerDelta: stats.PlayerDelta{Sanity: 1},
			CampDelta:   stats.CampDelta{Discipline: -2, Morale: 2, Rumor: -2},
			LogText:     "You downplayed the reports and steadied the hall.",
		},
		{
			ID:          ChoiceInvestigateQuietly,
			Label:       "Investigate quietly",
			Description: "Track the claims privately and pull threads on the next patrol.",
			PlayerDelta: stats.PlayerDelta{Stamina: -1, Sanity: -1},
			CampDelta:   stats.CampDelta{Discipline: 1, Rumor: 1},
			LogText:     "You opened a quiet inquiry and kept it off the board.",
		},
		{
			ID:          ChoiceAccuseLiar,
			Label:       "Accuse liar",
			Description: "Call out one report as false in front of the barracks.",
			PlayerDelta: stats.PlayerDelta{Sanity: -2},
			CampDelta:   stats.CampDelta{Discipline: 1, Morale: -1, Rumor: 2},
			LogText:     "You accused one scout of lying during debrief.",
		},
	}
}
