package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the host configuration, loaded from environment variables.
type Config struct {
	Debug         bool   `env:"CORSAIR_DEBUG" envDefault:"false"`
	Language      string `env:"CORSAIR_LANG" envDefault:"en"`
	SaveDBPath    string `env:"CORSAIR_SAVE_DB" envDefault:"corsair.db"`
	StoryPath     string `env:"CORSAIR_STORY"`
	MaxSaveSlots  int    `env:"CORSAIR_SAVE_SLOTS" envDefault:"5"`
	HallOfFameMax int    `env:"CORSAIR_HALL_OF_FAME_MAX" envDefault:"25"`
	// RandomSeed fixes the random_chance draws; zero means seed from the
	// clock. Useful for reproducing authored-content reports.
	RandomSeed int64 `env:"CORSAIR_SEED" envDefault:"0"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
