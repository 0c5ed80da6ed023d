// Package config loads host configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the host-level configuration shared by the Grove commands.
// Engine packages never read it; hosts translate it into explicit arguments.
type Config struct {
	// DatabasePath locates the SQLite economy store.
	DatabasePath string `env:"GROVE_DB_PATH" envDefault:"grove.db"`

	// LootTablePath locates the loot table document. Empty means the host
	// must supply a table through other wiring (tests, simulation presets).
	LootTablePath string `env:"GROVE_LOOT_TABLE"`

	// TuningPath locates the tuning YAML; empty selects built-in defaults.
	TuningPath string `env:"GROVE_TUNING"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the Grove host configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
