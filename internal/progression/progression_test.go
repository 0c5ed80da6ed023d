package progression

import (
	"errors"
	"testing"
)

func TestAutoUpgrade(t *testing.T) {
	s := DefaultSchedule()

	tcs := []struct {
		name         string
		currentLevel uint8
		cumulative   uint32
		wantLevel    uint8
		wantCapacity uint8
		wantUpgraded bool
	}{
		{name: "below first threshold", currentLevel: 1, cumulative: 4, wantLevel: 1, wantCapacity: 4, wantUpgraded: false},
		{name: "exactly at threshold", currentLevel: 1, cumulative: 5, wantLevel: 2, wantCapacity: 6, wantUpgraded: true},
		{name: "single step", currentLevel: 2, cumulative: 16, wantLevel: 3, wantCapacity: 8, wantUpgraded: true},
		{name: "batch jump skips intermediates", currentLevel: 1, cumulative: 130, wantLevel: 6, wantCapacity: 16, wantUpgraded: true},
		{name: "counter beyond final step", currentLevel: 3, cumulative: 1_000_000, wantLevel: 10, wantCapacity: 35, wantUpgraded: true},
		{name: "already at owed level is a no-op", currentLevel: 6, cumulative: 130, wantLevel: 6, wantCapacity: 16, wantUpgraded: false},
		{name: "level never decreases", currentLevel: 8, cumulative: 0, wantLevel: 8, wantCapacity: 24, wantUpgraded: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := s.AutoUpgrade(tc.currentLevel, tc.cumulative)
			if got.Level != tc.wantLevel || got.Capacity != tc.wantCapacity || got.Upgraded != tc.wantUpgraded {
				t.Errorf("AutoUpgrade(%d, %d) = %+v, want level=%d capacity=%d upgraded=%t",
					tc.currentLevel, tc.cumulative, got, tc.wantLevel, tc.wantCapacity, tc.wantUpgraded)
			}
		})
	}
}

func TestAutoUpgradeMonotonicOverRandomCounters(t *testing.T) {
	s := DefaultSchedule()
	level := uint8(1)
	counters := []uint32{0, 3, 20, 7, 100, 50, 800, 2, 900}
	for _, c := range counters {
		got := s.AutoUpgrade(level, c)
		if got.Level < level {
			t.Fatalf("level decreased from %d to %d at counter %d", level, got.Level, c)
		}
		level = got.Level
	}
}

func TestNewScheduleValidation(t *testing.T) {
	tcs := []struct {
		name  string
		steps []Step
	}{
		{name: "empty", steps: nil},
		{name: "does not open at level 1", steps: []Step{{Level: 2, Threshold: 0, Capacity: 4}}},
		{name: "non-zero first threshold", steps: []Step{{Level: 1, Threshold: 3, Capacity: 4}}},
		{
			name: "level gap",
			steps: []Step{
				{Level: 1, Threshold: 0, Capacity: 4},
				{Level: 3, Threshold: 10, Capacity: 6},
			},
		},
		{
			name: "threshold not ascending",
			steps: []Step{
				{Level: 1, Threshold: 0, Capacity: 4},
				{Level: 2, Threshold: 0, Capacity: 6},
			},
		},
		{
			name: "capacity shrinks",
			steps: []Step{
				{Level: 1, Threshold: 0, Capacity: 4},
				{Level: 2, Threshold: 10, Capacity: 3},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSchedule(tc.steps); !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("NewSchedule = %v, want ErrInvalidSchedule", err)
			}
		})
	}
}

func TestCapacityLookup(t *testing.T) {
	s := DefaultSchedule()
	if got := s.Capacity(1); got != 4 {
		t.Errorf("Capacity(1) = %d, want 4", got)
	}
	if got := s.Capacity(10); got != 35 {
		t.Errorf("Capacity(10) = %d, want 35", got)
	}
	// Levels above the schedule clamp to the final step.
	if got := s.Capacity(15); got != 35 {
		t.Errorf("Capacity(15) = %d, want 35", got)
	}
}
