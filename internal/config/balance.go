// Package config holds tunable balance values and process configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/autinyork/LowBorn/internal/stats"
)

// Balance holds gameplay balance configuration: starting stats, collapse
// thresholds, and run bookkeeping limits.
type Balance struct {
	BasePlayer stats.Player `yaml:"base_player" json:"base_player"`
	BaseCamp   stats.Camp   `yaml:"base_camp" json:"base_camp"`

	// Collapse thresholds, checked in fixed order after every night.
	MoraleFloor     int `yaml:"morale_floor" json:"morale_floor"`
	DisciplineFloor int `yaml:"discipline_floor" json:"discipline_floor"`
	RumorCeiling    int `yaml:"rumor_ceiling" json:"rumor_ceiling"`
	SanityFloor     int `yaml:"sanity_floor" json:"sanity_floor"`
	SuppliesFloor   int `yaml:"supplies_floor" json:"supplies_floor"`
	InjuryCeiling   int `yaml:"injury_ceiling" json:"injury_ceiling"`

	// Run bookkeeping.
	RecentEventCap  int `yaml:"recent_event_cap" json:"recent_event_cap"`
	BatchGuardSteps int `yaml:"batch_guard_steps" json:"batch_guard_steps"`
}

// Default returns the baseline balance configuration.
func Default() Balance {
	return Balance{
		BasePlayer: stats.Player{
			Warmth:  55,
			Stamina: 60,
			Injury:  8,
			Hunger:  35,
			Sanity:  55,
		},
		BaseCamp: stats.Camp{
			Supplies:   50,
			Morale:     50,
			Discipline: 50,
			Rumor:      25,
		},
		MoraleFloor:     35,
		DisciplineFloor: 35,
		RumorCeiling:    65,
		SanityFloor:     30,
		SuppliesFloor:   30,
		InjuryCeiling:   25,
		RecentEventCap:  120,
		BatchGuardSteps: 80,
	}
}

// Casual returns a more forgiving balance for casual play.
func Casual() Balance {
	cfg := Default()
	cfg.BasePlayer.Sanity = 65
	cfg.BaseCamp.Morale = 58
	cfg.BaseCamp.Rumor = 18
	cfg.MoraleFloor = 28
	cfg.DisciplineFloor = 28
	cfg.RumorCeiling = 75
	cfg.SanityFloor = 22
	return cfg
}

// Hard returns a tighter balance for experienced players.
func Hard() Balance {
	cfg := Default()
	cfg.BasePlayer.Stamina = 52
	cfg.BaseCamp.Supplies = 44
	cfg.BaseCamp.Rumor = 32
	cfg.MoraleFloor = 40
	cfg.DisciplineFloor = 40
	cfg.RumorCeiling = 58
	cfg.InjuryCeiling = 22
	return cfg
}

// ForDifficulty maps a difficulty name to its balance preset; unknown names
// fall back to the default.
func ForDifficulty(name string) Balance {
	switch name {
	case "casual":
		return Casual()
	case "hard":
		return Hard()
	default:
		return Default()
	}
}

// Validate rejects a balance whose thresholds could never fire or whose
// base stats start out of bounds.
func (b Balance) Validate() error {
	if !b.BasePlayer.InBounds() || !b.BaseCamp.InBounds() {
		return fmt.Errorf("base stats out of [0,100]")
	}
	if b.MoraleFloor < 0 || b.DisciplineFloor < 0 || b.SanityFloor < 0 || b.SuppliesFloor < 0 {
		return fmt.Errorf("collapse floors must be non-negative")
	}
	if b.RumorCeiling > 100 || b.InjuryCeiling > 100 {
		return fmt.Errorf("collapse ceilings must not exceed 100")
	}
	if b.RecentEventCap <= 0 {
		return fmt.Errorf("recent_event_cap must be positive")
	}
	if b.BatchGuardSteps <= 0 {
		return fmt.Errorf("batch_guard_steps must be positive")
	}
	return nil
}

// Load reads a balance file, filling unset sections from the default.
func Load(path string) (Balance, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Balance{}, fmt.Errorf("parse balance file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Balance{}, fmt.Errorf("balance file %s: %w", path, err)
	}
	return cfg, nil
}
