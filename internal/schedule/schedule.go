// Package schedule generates the weekly duty roster and the command
// disruptions that rewrite it. Everything here is a pure function of the
// run seed and week number.
package schedule

import (
	"fmt"
	"math"

	"github.com/autinyork/LowBorn/internal/rng"
)

// Duty is a day's assigned role.
type Duty string

const (
	DutyPatrol     Duty = "PATROL"
	DutyCampWork   Duty = "CAMP_WORK"
	DutyCampWait   Duty = "CAMP_WAIT"
	DutyNightWatch Duty = "NIGHT_WATCH"
	DutyRest       Duty = "REST"
)

// Shift is the time block a duty occupies.
type Shift string

const (
	ShiftDawn  Shift = "DAWN"
	ShiftDay   Shift = "DAY"
	ShiftDusk  Shift = "DUSK"
	ShiftNight Shift = "NIGHT"
)

// DisruptionType names what command did to the scheduled duty.
type DisruptionType string

const (
	DisruptionNone         DisruptionType = "NONE"
	DisruptionSwap         DisruptionType = "SWAP"
	DisruptionExtraDuty    DisruptionType = "EXTRA_DUTY"
	DisruptionFillInPatrol DisruptionType = "FILL_IN_PATROL"
)

// Disruption records whether and how command overrode a day. Chance is
// display flavor only; the weekly plan decides which days actually disrupt.
type Disruption struct {
	Type      DisruptionType `json:"type"`
	Chance    float64        `json:"chance"`
	Reason    string         `json:"reason,omitempty"`
	ExtraDuty Duty           `json:"extraDuty,omitempty"`
}

// Summary renders the disruption line shown in the day briefing.
func (d Disruption) Summary() string {
	if d.Type == DisruptionNone {
		return "No disruption reported."
	}
	reason := d.Reason
	if reason == "" {
		reason = "Command override issued."
	}
	return "Disruption: " + reason
}

// Assignment is one day of the week roster. Scheduled fields hold the
// original plan; Assigned fields hold the post-disruption reality.
type Assignment struct {
	Day            int        `json:"day"`
	Label          string     `json:"label"`
	ScheduledDuty  Duty       `json:"scheduledDuty"`
	ScheduledShift Shift      `json:"scheduledShift"`
	AssignedDuty   Duty       `json:"assignedDuty"`
	AssignedShift  Shift      `json:"assignedShift"`
	Disruption     Disruption `json:"disruption"`
	Resolved       bool       `json:"resolved"`
	EventTitle     string     `json:"eventTitle,omitempty"`
	Summary        string     `json:"summary,omitempty"`
}

// Briefing renders the one-line day summary: duty, shift, disruption, and
// any extra watch posting.
func (a Assignment) Briefing() string {
	out := fmt.Sprintf("%s: %s (%s). %s", a.Label, a.AssignedDuty, a.AssignedShift, a.Disruption.Summary())
	if a.Disruption.ExtraDuty == DutyNightWatch {
		out += " Extra duty posted: NIGHT_WATCH tonight."
	}
	return out
}

// Week is the seven-day roster, index 0 = day 1.
type Week []Assignment

// DaysInWeek is fixed; the run always spans one seven-day watch rotation.
const DaysInWeek = 7

var dayLabels = [DaysInWeek]string{
	"Day 1 - Frostwake",
	"Day 2 - Longwind",
	"Day 3 - Coldreach",
	"Day 4 - Ironveil",
	"Day 5 - Ashrest",
	"Day 6 - Graywatch",
	"Day 7 - Last Ember",
}

// DayLabel returns the flavor label for a 1-based day, or an empty string
// when the day is out of range.
func DayLabel(day int) string {
	if day < 1 || day > DaysInWeek {
		return ""
	}
	return dayLabels[day-1]
}

func shiftForDuty(duty Duty, seedKey string) Shift {
	r := rng.New(seedKey)
	switch duty {
	case DutyNightWatch:
		return ShiftNight
	case DutyPatrol:
		return rng.WeightedPick(r, []rng.Weighted[Shift]{
			{Value: ShiftDawn, Weight: 6},
			{Value: ShiftDusk, Weight: 4},
		})
	case DutyRest:
		return rng.WeightedPick(r, []rng.Weighted[Shift]{
			{Value: ShiftDay, Weight: 4},
			{Value: ShiftDusk, Weight: 2},
		})
	default:
		return rng.WeightedPick(r, []rng.Weighted[Shift]{
			{Value: ShiftDay, Weight: 5},
			{Value: ShiftDusk, Weight: 3},
			{Value: ShiftDawn, Weight: 2},
		})
	}
}

// Generate builds the scheduled week roster for the seed. One to three days
// become patrol days; the rest draw from the camp duty pool. The same seed
// and week always produce the same roster.
func Generate(seed string, week int) Week {
	r := rng.New(fmt.Sprintf("%s:week:%d:schedule", seed, week))
	patrolTarget := r.IntBetween(1, 3)

	availableDays := []int{0, 1, 2, 3, 4, 5, 6}
	patrolDays := map[int]bool{}
	for len(patrolDays) < patrolTarget {
		patrolDays[rng.Pick(r, availableDays)] = true
	}

	out := make(Week, 0, DaysInWeek)
	for i, label := range dayLabels {
		duty := DutyPatrol
		if !patrolDays[i] {
			duty = rng.WeightedPick(r, []rng.Weighted[Duty]{
				{Value: DutyCampWork, Weight: 4},
				{Value: DutyCampWait, Weight: 3},
				{Value: DutyNightWatch, Weight: 1},
				{Value: DutyRest, Weight: 2},
			})
		}
		shift := shiftForDuty(duty, fmt.Sprintf("%s:week:%d:day:%d:shift", seed, week, i+1))
		out = append(out, Assignment{
			Day:            i + 1,
			Label:          label,
			ScheduledDuty:  duty,
			ScheduledShift: shift,
			AssignedDuty:   duty,
			AssignedShift:  shift,
			Disruption:     Disruption{Type: DisruptionNone},
		})
	}
	return out
}

// disruptionPlan picks which days of the week command interferes with.
func disruptionPlan(seed string, week int) map[int]bool {
	r := rng.New(fmt.Sprintf("%s:week:%d:disruption-plan", seed, week))
	target := r.IntBetween(1, 3)
	availableDays := []int{1, 2, 3, 4, 5, 6, 7}
	planned := map[int]bool{}
	for len(planned) < target {
		planned[rng.Pick(r, availableDays)] = true
	}
	return planned
}

func pickDisruptionType(scheduled Duty, r *rng.Rand) DisruptionType {
	switch scheduled {
	case DutyPatrol:
		return rng.WeightedPick(r, []rng.Weighted[DisruptionType]{
			{Value: DisruptionSwap, Weight: 6},
			{Value: DisruptionExtraDuty, Weight: 4},
		})
	case DutyNightWatch:
		return rng.WeightedPick(r, []rng.Weighted[DisruptionType]{
			{Value: DisruptionFillInPatrol, Weight: 6},
			{Value: DisruptionSwap, Weight: 4},
		})
	default:
		return rng.WeightedPick(r, []rng.Weighted[DisruptionType]{
			{Value: DisruptionFillInPatrol, Weight: 4},
			{Value: DisruptionSwap, Weight: 3},
			{Value: DisruptionExtraDuty, Weight: 3},
		})
	}
}

func swapDuty(scheduled Duty, seedKey string) Duty {
	if scheduled != DutyPatrol {
		return DutyPatrol
	}
	r := rng.New(seedKey)
	return rng.WeightedPick(r, []rng.Weighted[Duty]{
		{Value: DutyCampWork, Weight: 4},
		{Value: DutyCampWait, Weight: 3},
		{Value: DutyRest, Weight: 2},
	})
}

// ApplyDisruption resolves what command actually posts for the day. Days
// outside the weekly plan keep the scheduled duty; planned days are rewritten
// by a swap, a fill-in patrol, or an extra night watch. The chance figure is
// rolled either way so every day shows one.
func ApplyDisruption(a Assignment, seed string, week int) Assignment {
	chanceRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:disruption-chance", seed, week, a.Day))
	chance := math.Round((0.25+chanceRng.Float64()*0.15)*1000) / 1000

	if !disruptionPlan(seed, week)[a.Day] {
		a.AssignedDuty = a.ScheduledDuty
		a.AssignedShift = a.ScheduledShift
		a.Disruption = Disruption{Type: DisruptionNone, Chance: chance}
		return a
	}

	r := rng.New(fmt.Sprintf("%s:week:%d:day:%d:disruption-effect", seed, week, a.Day))
	switch pickDisruptionType(a.ScheduledDuty, r) {
	case DisruptionFillInPatrol:
		a.AssignedDuty = DutyPatrol
		a.AssignedShift = shiftForDuty(DutyPatrol, fmt.Sprintf("%s:week:%d:day:%d:fillin-shift", seed, week, a.Day))
		a.Disruption = Disruption{
			Type:   DisruptionFillInPatrol,
			Chance: chance,
			Reason: "Short roster on the perimeter. You were reassigned to patrol.",
		}
	case DisruptionSwap:
		swapped := swapDuty(a.ScheduledDuty, fmt.Sprintf("%s:week:%d:day:%d:swap-duty", seed, week, a.Day))
		reason := "Command pulled you into patrol due to a late gap."
		if a.ScheduledDuty == DutyPatrol {
			reason = "Command swapped your patrol slot for camp support."
		}
		a.AssignedDuty = swapped
		a.AssignedShift = shiftForDuty(swapped, fmt.Sprintf("%s:week:%d:day:%d:swap-shift", seed, week, a.Day))
		a.Disruption = Disruption{Type: DisruptionSwap, Chance: chance, Reason: reason}
	default:
		a.AssignedDuty = a.ScheduledDuty
		a.AssignedShift = a.ScheduledShift
		a.Disruption = Disruption{
			Type:      DisruptionExtraDuty,
			Chance:    chance,
			Reason:    "Emergency watch expansion. Extra NIGHT_WATCH assigned.",
			ExtraDuty: DutyNightWatch,
		}
	}
	return a
}
