package loot

import (
	"errors"
	"fmt"
)

// Normalization is the denominator of cumulative thresholds: a table entry
// with threshold N covers normalized values up to but excluding N out of
// Normalization.
const Normalization = 10000

// ErrTableEmpty indicates a table with no entries.
var ErrTableEmpty = errors.New("loot table has no entries")

// ErrTableTooLarge indicates a table with more entries than MaxCategories.
var ErrTableTooLarge = errors.New("loot table exceeds entry limit")

// ErrThresholdOrder indicates thresholds that are not strictly ascending.
var ErrThresholdOrder = errors.New("loot table thresholds must be strictly ascending")

// ErrBadNormalization indicates a final threshold that does not equal Normalization.
var ErrBadNormalization = errors.New("loot table must end exactly at the normalization constant")

// Entry maps a band of normalized random values to a drop.
type Entry struct {
	Category            Category
	PowerValue          uint64
	CumulativeThreshold uint32
}

// Table is an ordered cumulative-threshold probability table.
//
// Tables are injected configuration: they are loaded and validated by the
// host, never compiled in, and carry a version so outcomes can be audited
// against the table that produced them.
type Table struct {
	Version uint32
	Entries []Entry
}

// Validate checks the structural invariants of the table: at least one entry,
// at most MaxCategories entries, strictly ascending thresholds, and a final
// threshold equal to Normalization.
func (t Table) Validate() error {
	if len(t.Entries) == 0 {
		return ErrTableEmpty
	}
	if len(t.Entries) > MaxCategories {
		return fmt.Errorf("%w: %d entries, limit %d", ErrTableTooLarge, len(t.Entries), MaxCategories)
	}
	prev := uint32(0)
	for i, e := range t.Entries {
		if !e.Category.Valid() {
			return fmt.Errorf("entry %d: %w", i, ErrUnknownCategory)
		}
		if e.CumulativeThreshold <= prev {
			return fmt.Errorf("entry %d: %w", i, ErrThresholdOrder)
		}
		prev = e.CumulativeThreshold
	}
	if prev != Normalization {
		return fmt.Errorf("%w: final threshold %d", ErrBadNormalization, prev)
	}
	return nil
}

// Resolve maps a subseed to a drop outcome.
//
// The subseed is normalized into [0, Normalization) and matched against the
// first entry whose cumulative threshold exceeds it. A malformed table whose
// final threshold fails to cover the value resolves to the last entry rather
// than failing; validation at load time makes that branch unreachable in
// normal operation.
func Resolve(subseed uint64, t Table) (Category, uint64) {
	normalized := uint32(subseed % Normalization)
	for _, e := range t.Entries {
		if normalized < e.CumulativeThreshold {
			return e.Category, e.PowerValue
		}
	}
	last := t.Entries[len(t.Entries)-1]
	return last.Category, last.PowerValue
}
