package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cards, err := DefaultCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, cards)

	// Cached: second call must return the same backing slice.
	again, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, len(cards), len(again))
}

func TestDefaultCatalogCoversBothScenes(t *testing.T) {
	cards := MustDefaultCatalog()
	patrol := FilterScene(cards, ScenePatrol)
	camp := FilterScene(cards, SceneCamp)
	assert.NotEmpty(t, patrol)
	assert.NotEmpty(t, camp)
	assert.Equal(t, len(cards), len(patrol)+len(camp))
}

func TestDefaultCatalogToneSpread(t *testing.T) {
	cards := MustDefaultCatalog()
	byTag := map[Tag]int{}
	for _, c := range cards {
		byTag[c.Tags[0]]++
	}
	// Mundane nights dominate so that intense ones land as spikes.
	assert.Greater(t, byTag[TagMundane], byTag[TagShock])
	for _, tag := range []Tag{TagMundane, TagAmbiguous, TagHazard, TagInternal, TagShock} {
		assert.GreaterOrEqual(t, byTag[tag], 2, "tag %s underrepresented", tag)
	}
}

func TestMundaneCardsStayLowIntensity(t *testing.T) {
	for _, c := range MustDefaultCatalog() {
		if !c.Calm() {
			continue
		}
		p := c.PlayerDelta
		sum := abs(p.Warmth) + abs(p.Stamina) + abs(p.Injury) + abs(p.Hunger) + abs(p.Sanity)
		cd := c.CampDelta
		sum += abs(cd.Supplies) + abs(cd.Morale) + abs(cd.Discipline) + abs(cd.Rumor)
		assert.LessOrEqual(t, sum, 4, "mundane card %s hits too hard", c.ID)
	}
}

func TestIntenseAndCalmClassification(t *testing.T) {
	shock := Card{Tags: []Tag{TagShock, TagAmbiguous}}
	assert.True(t, shock.Intense())
	assert.False(t, shock.Calm())

	quiet := Card{Tags: []Tag{TagMundane}}
	assert.False(t, quiet.Intense())
	assert.True(t, quiet.Calm())

	odd := Card{Tags: []Tag{TagAmbiguous}}
	assert.False(t, odd.Intense())
	assert.False(t, odd.Calm())
}

func TestValidateCatalogRejectsBrokenSets(t *testing.T) {
	good := Card{
		ID:           "c1",
		Scene:        ScenePatrol,
		Title:        "t",
		Outcome:      "o",
		Tags:         []Tag{TagMundane},
		Routes:       []string{"r"},
		Observations: []string{"nothing unusual"},
	}
	campGood := good
	campGood.ID = "c2"
	campGood.Scene = SceneCamp

	t.Run("valid pair passes", func(t *testing.T) {
		assert.NoError(t, ValidateCatalog([]Card{good, campGood}))
	})
	t.Run("empty set", func(t *testing.T) {
		assert.Error(t, ValidateCatalog(nil))
	})
	t.Run("duplicate id", func(t *testing.T) {
		dup := good
		dup.Scene = SceneCamp
		assert.Error(t, ValidateCatalog([]Card{good, dup}))
	})
	t.Run("unknown scene", func(t *testing.T) {
		bad := good
		bad.ID = "c3"
		bad.Scene = SceneType("DUNGEON")
		assert.Error(t, ValidateCatalog([]Card{good, campGood, bad}))
	})
	t.Run("unknown tag", func(t *testing.T) {
		bad := good
		bad.ID = "c3"
		bad.Tags = []Tag{Tag("spooky")}
		assert.Error(t, ValidateCatalog([]Card{good, campGood, bad}))
	})
	t.Run("missing routes", func(t *testing.T) {
		bad := good
		bad.ID = "c3"
		bad.Routes = nil
		assert.Error(t, ValidateCatalog([]Card{good, campGood, bad}))
	})
	t.Run("single scene only", func(t *testing.T) {
		assert.Error(t, ValidateCatalog([]Card{good}))
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
