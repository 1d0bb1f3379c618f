// Package event defines the night event cards the scene builder draws from.
// Cards are static content: the engine weights and picks them but never
// invents new ones at runtime. The default catalog ships as embedded YAML.
package event

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/autinyork/LowBorn/internal/stats"
)

// SceneType says which kind of night a card can occur on.
type SceneType string

const (
	ScenePatrol SceneType = "PATROL"
	SceneCamp   SceneType = "CAMP"
)

// Tag classifies a card's tone; a card carries at least one.
type Tag string

const (
	TagMundane   Tag = "mundane"
	TagAmbiguous Tag = "ambiguous"
	TagHazard    Tag = "hazard"
	TagInternal  Tag = "internal"
	TagShock     Tag = "shock"
)

var knownTags = map[Tag]bool{
	TagMundane:   true,
	TagAmbiguous: true,
	TagHazard:    true,
	TagInternal:  true,
	TagShock:     true,
}

// Card is one night event.
type Card struct {
	ID           string            `yaml:"id" json:"id"`
	Scene        SceneType         `yaml:"scene" json:"sceneType"`
	Title        string            `yaml:"title" json:"title"`
	Outcome      string            `yaml:"outcome" json:"outcome"`
	Tags         []Tag             `yaml:"tags" json:"tags"`
	Routes       []string          `yaml:"routes" json:"routeTemplates"`
	PlayerDelta  stats.PlayerDelta `yaml:"player_delta" json:"basePlayerDelta"`
	CampDelta    stats.CampDelta   `yaml:"camp_delta" json:"baseCampDelta"`
	Observations []string          `yaml:"observations" json:"observationPool"`
}

// HasTag reports whether the card carries the tag.
func (c Card) HasTag(tag Tag) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Intense reports whether the card counts against the pacing streak.
func (c Card) Intense() bool {
	return c.HasTag(TagHazard) || c.HasTag(TagInternal) || c.HasTag(TagShock)
}

// Calm reports whether the card is a pure mundane night.
func (c Card) Calm() bool {
	return c.HasTag(TagMundane) && !c.Intense()
}

//go:embed cards.yaml
var defaultCatalogYAML []byte

var (
	catalogOnce sync.Once
	catalog     []Card
	catalogErr  error
)

// DefaultCatalog parses and validates the embedded card catalog. The result
// is cached; the slice must be treated as read-only.
func DefaultCatalog() ([]Card, error) {
	catalogOnce.Do(func() {
		var doc struct {
			Cards []Card `yaml:"cards"`
		}
		if err := yaml.Unmarshal(defaultCatalogYAML, &doc); err != nil {
			catalogErr = fmt.Errorf("parse card catalog: %w", err)
			return
		}
		if err := ValidateCatalog(doc.Cards); err != nil {
			catalogErr = err
			return
		}
		catalog = doc.Cards
	})
	return catalog, catalogErr
}

// MustDefaultCatalog is DefaultCatalog for callers that treat a broken
// embedded catalog as a build defect.
func MustDefaultCatalog() []Card {
	cards, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return cards
}

// ValidateCatalog enforces the structural rules every card set must satisfy:
// unique non-empty IDs, a known scene type, at least one known tag, at least
// one route template, and a non-empty observation pool. Both scene types must
// be represented or the scene builder would have nothing to draw.
func ValidateCatalog(cards []Card) error {
	if len(cards) == 0 {
		return errors.New("card catalog is empty")
	}
	seen := map[string]bool{}
	scenes := map[SceneType]int{}
	for _, c := range cards {
		if c.ID == "" {
			return errors.New("card with empty id")
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate card id %q", c.ID)
		}
		seen[c.ID] = true
		if c.Scene != ScenePatrol && c.Scene != SceneCamp {
			return fmt.Errorf("card %q: unknown scene type %q", c.ID, c.Scene)
		}
		scenes[c.Scene]++
		if c.Title == "" || c.Outcome == "" {
			return fmt.Errorf("card %q: title and outcome are required", c.ID)
		}
		if len(c.Tags) == 0 {
			return fmt.Errorf("card %q: at least one tag required", c.ID)
		}
		for _, t := range c.Tags {
			if !knownTags[t] {
				return fmt.Errorf("card %q: unknown tag %q", c.ID, t)
			}
		}
		if len(c.Routes) == 0 {
			return fmt.Errorf("card %q: at least one route template required", c.ID)
		}
		if len(c.Observations) == 0 {
			return fmt.Errorf("card %q: at least one observation required", c.ID)
		}
	}
	if scenes[ScenePatrol] == 0 || scenes[SceneCamp] == 0 {
		return errors.New("card catalog must cover both PATROL and CAMP scenes")
	}
	return nil
}

// FilterScene returns the cards playable for the scene type.
func FilterScene(cards []Card, scene SceneType) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Scene == scene {
			out = append(out, c)
		}
	}
	return out
}
