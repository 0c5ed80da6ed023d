// Package progression maps cumulative crate purchases to orchard level and
// capacity.
//
// Levels only ever increase. Upgrades are recomputed from the cumulative
// counter, so a batch purchase that jumps several thresholds lands directly
// on the final level rather than stepping through intermediates.
package progression

import (
	"errors"
	"fmt"
)

// MaxLevel bounds the schedule.
const MaxLevel = 20

// ErrInvalidSchedule indicates a schedule whose steps are not strictly
// ascending in level and threshold with non-decreasing capacities.
var ErrInvalidSchedule = errors.New("invalid progression schedule")

// Step defines when a level is reached and the capacity it grants.
type Step struct {
	Level     uint8
	Threshold uint32 // minimum cumulative purchases for the level
	Capacity  uint8  // plot capacity granted at the level
}

// Schedule is an ordered level table. Schedules are injected configuration,
// validated on construction.
type Schedule struct {
	steps []Step
}

// NewSchedule validates and builds a schedule. Steps must start at level 1
// with a zero threshold, ascend one level at a time with strictly increasing
// thresholds, and never reduce capacity.
func NewSchedule(steps []Step) (Schedule, error) {
	if len(steps) == 0 {
		return Schedule{}, fmt.Errorf("%w: no steps", ErrInvalidSchedule)
	}
	if steps[0].Level != 1 || steps[0].Threshold != 0 {
		return Schedule{}, fmt.Errorf("%w: schedule must open at level 1 with threshold 0", ErrInvalidSchedule)
	}
	for i := 1; i < len(steps); i++ {
		prev, cur := steps[i-1], steps[i]
		if cur.Level != prev.Level+1 {
			return Schedule{}, fmt.Errorf("%w: level %d follows %d", ErrInvalidSchedule, cur.Level, prev.Level)
		}
		if cur.Threshold <= prev.Threshold {
			return Schedule{}, fmt.Errorf("%w: threshold %d at level %d not ascending", ErrInvalidSchedule, cur.Threshold, cur.Level)
		}
		if cur.Capacity < prev.Capacity {
			return Schedule{}, fmt.Errorf("%w: capacity shrinks at level %d", ErrInvalidSchedule, cur.Level)
		}
	}
	last := steps[len(steps)-1]
	if last.Level > MaxLevel {
		return Schedule{}, fmt.Errorf("%w: level %d exceeds maximum %d", ErrInvalidSchedule, last.Level, MaxLevel)
	}
	owned := make([]Step, len(steps))
	copy(owned, steps)
	return Schedule{steps: owned}, nil
}

// DefaultSchedule is the shipped ten-level curve.
func DefaultSchedule() Schedule {
	s, err := NewSchedule([]Step{
		{Level: 1, Threshold: 0, Capacity: 4},
		{Level: 2, Threshold: 5, Capacity: 6},
		{Level: 3, Threshold: 15, Capacity: 8},
		{Level: 4, Threshold: 35, Capacity: 10},
		{Level: 5, Threshold: 70, Capacity: 13},
		{Level: 6, Threshold: 125, Capacity: 16},
		{Level: 7, Threshold: 205, Capacity: 20},
		{Level: 8, Threshold: 320, Capacity: 24},
		{Level: 9, Threshold: 480, Capacity: 29},
		{Level: 10, Threshold: 700, Capacity: 35},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// Result reports the outcome of an AutoUpgrade call.
type Result struct {
	Level    uint8
	Capacity uint8
	Upgraded bool
}

// AutoUpgrade recomputes the level owed for a cumulative purchase counter.
//
// The target is the highest step whose threshold is at or below the counter.
// When the target exceeds the current level the result carries the new level
// and capacity with Upgraded set; otherwise it restates the current level and
// is a no-op, not an error. The level never decreases even if the counter
// would map below it.
func (s Schedule) AutoUpgrade(currentLevel uint8, cumulative uint32) Result {
	target := s.steps[0]
	for _, step := range s.steps {
		if step.Threshold > cumulative {
			break
		}
		target = step
	}
	if target.Level <= currentLevel {
		return Result{Level: currentLevel, Capacity: s.Capacity(currentLevel), Upgraded: false}
	}
	return Result{Level: target.Level, Capacity: target.Capacity, Upgraded: true}
}

// Capacity returns the plot capacity of a level, clamping unknown levels to
// the nearest defined step.
func (s Schedule) Capacity(level uint8) uint8 {
	c := s.steps[0].Capacity
	for _, step := range s.steps {
		if step.Level > level {
			break
		}
		c = step.Capacity
	}
	return c
}

// MaxDefinedLevel returns the highest level in the schedule.
func (s Schedule) MaxDefinedLevel() uint8 {
	return s.steps[len(s.steps)-1].Level
}

// Steps returns a copy of the schedule steps.
func (s Schedule) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}
