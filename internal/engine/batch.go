package engine

import (
	"context"
	"fmt"
	"math"
)

// BatchReport aggregates a batch of full-week runs played on autopilot.
type BatchReport struct {
	Runs                  int            `json:"runs"`
	AverageNightsSurvived float64        `json:"averageNightsSurvived"`
	AverageEndMorale      float64        `json:"averageEndMorale"`
	AverageRumor          float64        `json:"averageRumor"`
	CollapseCauses        map[string]int `json:"collapseCauseDistribution"`
}

// PlayOut drives a run to its week summary, always taking the first choice.
// The step guard bounds the loop if a phase ever fails to advance.
func (e *Engine) PlayOut(s *RunState) *RunState {
	guard := 0
	for s.Phase != PhaseWeekSummary && guard < e.balance.BatchGuardSteps {
		switch s.Phase {
		case PhaseDay:
			s = e.BeginNight(s)
		case PhaseNightScene:
			choice := ""
			if s.ActiveScene != nil && len(s.ActiveScene.Choices) > 0 {
				choice = s.ActiveScene.Choices[0].ID
			}
			s = e.ResolveNight(s, choice)
		case PhaseDawnReport:
			s = e.StartNextDay(s)
		default:
			return s
		}
		guard++
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RunBatch plays runs 1..n with derived seeds and aggregates the outcomes.
// The context is checked between runs so large batches can be cancelled.
func (e *Engine) RunBatch(ctx context.Context, baseSeed string, runs int) (BatchReport, error) {
	if runs < 1 {
		runs = 1
	}
	base := NormalizeSeed(baseSeed)

	totalNights, totalMorale, totalRumor := 0, 0, 0
	causes := map[string]int{}

	for i := 1; i <= runs; i++ {
		if err := ctx.Err(); err != nil {
			return BatchReport{}, err
		}
		state := e.PlayOut(e.NewRun(fmt.Sprintf("%s-sim-%d", base, i)))

		totalNights += len(state.NightLogs)
		totalMorale += state.Camp.Morale
		totalRumor += state.Camp.Rumor
		cause := "No break label"
		if state.WeekSummary != nil {
			cause = state.WeekSummary.FirstBreakLabel
		}
		causes[cause]++
	}

	n := float64(runs)
	return BatchReport{
		Runs:                  runs,
		AverageNightsSurvived: round2(float64(totalNights) / n),
		AverageEndMorale:      round2(float64(totalMorale) / n),
		AverageRumor:          round2(float64(totalRumor) / n),
		CollapseCauses:        causes,
	}, nil
}
