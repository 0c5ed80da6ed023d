// Package tuning loads the operator-adjustable economy parameters.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orchardworks/grove/internal/inventory"
	"github.com/orchardworks/grove/internal/progression"
)

// Tuning is the YAML-backed parameter set. Everything here is host
// configuration; the pure engine packages receive these values as explicit
// arguments and never read them ambiently.
type Tuning struct {
	PerCategoryMax int `yaml:"per_category_max"`
	GlobalMax      int `yaml:"global_max"`

	InitialRate            uint64 `yaml:"initial_rate"`
	SupplyCap              uint64 `yaml:"supply_cap"`
	HalvingIntervalSeconds int64  `yaml:"halving_interval_seconds"`

	RandomnessFreshnessSeconds int64 `yaml:"randomness_freshness_seconds"`

	Levels []LevelStep `yaml:"levels"`
}

// LevelStep mirrors progression.Step in configuration form.
type LevelStep struct {
	Level     uint8  `yaml:"level"`
	Purchases uint32 `yaml:"purchases"`
	Capacity  uint8  `yaml:"capacity"`
}

// Default returns the shipped tuning.
func Default() Tuning {
	steps := progression.DefaultSchedule().Steps()
	levels := make([]LevelStep, 0, len(steps))
	for _, s := range steps {
		levels = append(levels, LevelStep{Level: s.Level, Purchases: s.Threshold, Capacity: s.Capacity})
	}
	return Tuning{
		PerCategoryMax:             8,
		GlobalMax:                  48,
		InitialRate:                1_000_000,
		SupplyCap:                  1_000_000_000_000,
		HalvingIntervalSeconds:     30 * 24 * 3600,
		RandomnessFreshnessSeconds: 90,
		Levels:                     levels,
	}
}

// Load reads a tuning file and validates it. A missing path returns the
// defaults.
func Load(path string) (Tuning, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, err
	}
	t := Default()
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tuning{}, fmt.Errorf("tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate checks the cross-field consistency the engine packages rely on.
func (t Tuning) Validate() error {
	if _, err := t.InventoryConfig(); err != nil {
		return err
	}
	if _, err := t.Schedule(); err != nil {
		return err
	}
	if t.InitialRate == 0 {
		return fmt.Errorf("tuning: initial_rate must be positive")
	}
	if t.SupplyCap == 0 {
		return fmt.Errorf("tuning: supply_cap must be positive")
	}
	if t.HalvingIntervalSeconds <= 0 {
		return fmt.Errorf("tuning: halving_interval_seconds must be positive")
	}
	if t.RandomnessFreshnessSeconds <= 0 {
		return fmt.Errorf("tuning: randomness_freshness_seconds must be positive")
	}
	return nil
}

// InventoryConfig converts the caps into an inventory configuration,
// delegating bound checks to the inventory package.
func (t Tuning) InventoryConfig() (inventory.Config, error) {
	cfg := inventory.Config{PerCategoryMax: t.PerCategoryMax, GlobalMax: t.GlobalMax}
	if _, err := inventory.New(cfg); err != nil {
		return inventory.Config{}, err
	}
	return cfg, nil
}

// Schedule converts the level table into a validated progression schedule.
func (t Tuning) Schedule() (progression.Schedule, error) {
	steps := make([]progression.Step, 0, len(t.Levels))
	for _, l := range t.Levels {
		steps = append(steps, progression.Step{Level: l.Level, Threshold: l.Purchases, Capacity: l.Capacity})
	}
	return progression.NewSchedule(steps)
}
