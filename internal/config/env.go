package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env is process configuration read from the environment.
type Env struct {
	Seed        string `env:"LOWBORN_SEED"`
	Difficulty  string `env:"LOWBORN_DIFFICULTY"`
	BalanceFile string `env:"LOWBORN_BALANCE_FILE"`
	SaveDB      string `env:"LOWBORN_SAVE_DB" envDefault:"lowborn.db"`
	BatchRuns   int    `env:"LOWBORN_BATCH_RUNS" envDefault:"10"`
}

// FromEnv parses process configuration from environment variables.
func FromEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Balance resolves the balance for this process: an explicit balance file
// wins, otherwise the difficulty preset.
func (e Env) Balance() (Balance, error) {
	if e.BalanceFile != "" {
		return Load(e.BalanceFile)
	}
	return ForDifficulty(e.Difficulty), nil
}
