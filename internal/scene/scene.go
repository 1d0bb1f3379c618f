// Package scene builds the night encounter: the event card draw, the
// sanity-distorted presentation of it, the NPC testimony, and the decision
// options offered to the player. The hidden truth of a night and the
// presented version of it are kept as separate fields throughout.
package scene

import (
	"fmt"

	"github.com/autinyork/LowBorn/internal/event"
	"github.com/autinyork/LowBorn/internal/npc"
	"github.com/autinyork/LowBorn/internal/rng"
	"github.com/autinyork/LowBorn/internal/schedule"
	"github.com/autinyork/LowBorn/internal/stats"
)

// ThreatSeed is the hidden nature of the week's threat. It is rolled once
// per run and never shown to the player; it shapes event weights and how
// often NPCs lie or err.
type ThreatSeed string

const (
	ThreatReal        ThreatSeed = "REAL"
	ThreatExaggerated ThreatSeed = "EXAGGERATED"
	ThreatNone        ThreatSeed = "NONE"
)

// PickThreat rolls the week's hidden threat. Real threats are most common,
// a baseless scare the least.
func PickThreat(seed string) ThreatSeed {
	r := rng.New(seed + ":threat-seed")
	return rng.WeightedPick(r, []rng.Weighted[ThreatSeed]{
		{Value: ThreatReal, Weight: 5},
		{Value: ThreatExaggerated, Weight: 3},
		{Value: ThreatNone, Weight: 2},
	})
}

// DistortionLevel grades how unreliable the player's perception is tonight.
type DistortionLevel string

const (
	DistortionNone   DistortionLevel = "NONE"
	DistortionUneasy DistortionLevel = "UNEASY"
	DistortionSevere DistortionLevel = "SEVERE"
)

// Emotion is the register an NPC delivers a report in.
type Emotion string

const (
	EmotionSteady   Emotion = "STEADY"
	EmotionAnxious  Emotion = "ANXIOUS"
	EmotionDefiant  Emotion = "DEFIANT"
	EmotionPanicked Emotion = "PANICKED"
)

// Report is one NPC's testimony about the night. Truth holds what actually
// happened; Claims holds what they say; Presented holds what the player
// hears through their current sanity filter.
type Report struct {
	NpcID      string   `json:"npcId"`
	NpcName    string   `json:"npcName"`
	Claims     []string `json:"claimedObservations"`
	Truth      string   `json:"truthObservation"`
	Presented  string   `json:"presentedClaim"`
	Confidence float64  `json:"confidence"`
	Emotion    Emotion  `json:"emotion"`
	Lying      bool     `json:"isLying"`
}

// Claim returns the report's leading claim, defaulting to the calm one.
func (r Report) Claim() string {
	if len(r.Claims) == 0 {
		return ClaimNothingUnusual
	}
	return r.Claims[0]
}

// Choice is one decision option presented with the scene.
type Choice struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
	PlayerDelta stats.PlayerDelta `json:"playerDelta"`
	CampDelta   stats.CampDelta   `json:"campDelta"`
	LogText     string            `json:"logText"`
}

// Scene is a fully built night encounter awaiting the player's decision.
type Scene struct {
	Type              event.SceneType `json:"sceneType"`
	Day               int             `json:"day"`
	AssignmentDuty    schedule.Duty   `json:"assignmentDuty"`
	Route             string          `json:"routeDescription,omitempty"`
	PresentedRoute    string          `json:"presentedRouteDescription,omitempty"`
	Card              event.Card      `json:"eventCard"`
	PresentedOutcome  string          `json:"presentedOutcome"`
	PerceptionOverlay string          `json:"falsePerceptionOverlay,omitempty"`
	Distortion        DistortionLevel `json:"distortionLevel"`
	Investigating     bool            `json:"investigationActive"`
	DebriefReports    []Report        `json:"debriefReports"`
	Choices           []Choice        `json:"choices"`
}

// ChoiceByID finds a choice by id; ok is false when no choice matches.
func (s *Scene) ChoiceByID(id string) (Choice, bool) {
	for _, c := range s.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Params carries everything a night scene build needs from the run state.
type Params struct {
	Seed               string
	Week               int
	Assignment         schedule.Assignment
	Sanity             int
	Threat             ThreatSeed
	InvestigationFocus int
	IntenseStreak      int
	Roster             []npc.Profile
	Cards              []event.Card
}

var patrolRouteSuffixes = []string{
	"Snowfall is thin enough to read tracks.",
	"Lantern light barely reaches the outer stakes.",
	"Wind carries every sound from the ridge.",
	"The frost line has swallowed old path markers.",
}

// Build assembles the night scene for the day: the weighted card draw, the
// route flavor, the sanity-distorted presentation, camp testimony when the
// night is spent in camp, and the choice set. Returns an error when the
// catalog has no card for the scene type.
func Build(p Params) (*Scene, error) {
	sceneType := event.SceneCamp
	if p.Assignment.AssignedDuty == schedule.DutyPatrol {
		sceneType = event.ScenePatrol
	}
	investigating := sceneType == event.ScenePatrol && p.InvestigationFocus > 0

	day := p.Assignment.Day
	r := rng.New(fmt.Sprintf("%s:week:%d:day:%d:night-scene", p.Seed, p.Week, day))
	pool := event.FilterScene(p.Cards, sceneType)
	if len(pool) == 0 {
		return nil, fmt.Errorf("no %s cards in catalog", sceneType)
	}

	card := pickEventCard(r, pool, sceneType, p.Threat, day, investigating, p.IntenseStreak)

	route := ""
	if sceneType == event.ScenePatrol {
		route = rng.Pick(r, card.Routes) + " " + rng.Pick(r, patrolRouteSuffixes)
	}

	presentRng := rng.New(fmt.Sprintf("%s:week:%d:day:%d:scene-presentation", p.Seed, p.Week, day))
	level := DistortionForSanity(p.Sanity)
	presentedRoute := distortRoute(route, level, presentRng)
	presentedOutcome := distortOutcome(card.Outcome, level, presentRng)
	overlay := perceptionOverlay(level, presentRng)

	var reports []Report
	var choices []Choice
	if sceneType == event.SceneCamp {
		reports = CampDebriefReports(p, day, card)
		choices = CampChoices()
	} else {
		choices = PatrolChoices(card)
	}

	return &Scene{
		Type:              sceneType,
		Day:               day,
		AssignmentDuty:    p.Assignment.AssignedDuty,
		Route:             route,
		PresentedRoute:    presentedRoute,
		Card:              card,
		PresentedOutcome:  presentedOutcome,
		PerceptionOverlay: overlay,
		Distortion:        level,
		Investigating:     investigating,
		DebriefReports:    reports,
		Choices:           choices,
	}, nil
}
