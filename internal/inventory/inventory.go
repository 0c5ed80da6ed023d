// Package inventory maintains a capacity-bounded multi-category item
// collection with oldest-first auto-eviction.
//
// Bounds are enforced on every mutation: each category holds at most the
// configured per-category maximum and the whole inventory at most the global
// maximum. Admitting an item into a full category evicts the oldest item of
// that same category, so admission only fails when the global cap binds with
// nothing evictable, which is a configuration defect rather than a runtime
// condition.
package inventory

import (
	"errors"
	"fmt"

	"github.com/orchardworks/grove/internal/loot"
)

// ErrStorageFull indicates the global capacity is reached and the target
// category has no item to evict.
var ErrStorageFull = errors.New("inventory is full")

// ErrInvalidConfig indicates non-positive or inconsistent capacity bounds.
var ErrInvalidConfig = errors.New("invalid inventory configuration")

// Config bounds one inventory.
//
// GlobalMax should not exceed PerCategoryMax times the number of categories;
// otherwise the global cap can bind while every category still has headroom.
type Config struct {
	PerCategoryMax int
	GlobalMax      int
}

func (c Config) validate() error {
	if c.PerCategoryMax <= 0 || c.GlobalMax <= 0 {
		return fmt.Errorf("%w: caps must be positive", ErrInvalidConfig)
	}
	return nil
}

// Entry is one held item in insertion order.
type Entry struct {
	ID       uint64
	Category loot.Category
}

// Inventory is a bounded, ordered item collection. It is a pure in-memory
// structure; the host persists and restores it around each transaction.
type Inventory struct {
	cfg    Config
	items  []Entry
	counts [loot.MaxCategories]int
	total  int
}

// New creates an empty inventory with the provided bounds.
func New(cfg Config) (*Inventory, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Inventory{cfg: cfg}, nil
}

// Restore rebuilds an inventory from persisted entries, enforcing bounds and
// rejecting duplicates. Entry order is the original insertion order.
func Restore(cfg Config, entries []Entry) (*Inventory, error) {
	inv, err := New(cfg)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %d", ErrInvalidConfig, e.ID)
		}
		seen[e.ID] = struct{}{}
		if !e.Category.Valid() {
			return nil, fmt.Errorf("item %d: %w", e.ID, loot.ErrUnknownCategory)
		}
		if inv.counts[e.Category] >= cfg.PerCategoryMax || inv.total >= cfg.GlobalMax {
			return nil, fmt.Errorf("%w: persisted entries exceed bounds", ErrInvalidConfig)
		}
		inv.items = append(inv.items, e)
		inv.counts[e.Category]++
		inv.total++
	}
	return inv, nil
}

// Add admits an item.
//
// When the item's category is at its cap, the oldest item of the same
// category is evicted first and its id is reported, so Add never fails solely
// because a category is full. ErrStorageFull is returned only in the
// defensive case where the global cap is reached and the category holds
// nothing evictable.
func (inv *Inventory) Add(id uint64, category loot.Category) (evicted uint64, didEvict bool, err error) {
	if !category.Valid() {
		return 0, false, loot.ErrUnknownCategory
	}

	if inv.counts[category] >= inv.cfg.PerCategoryMax {
		evicted = inv.evictOldest(category)
		didEvict = true
	} else if inv.total >= inv.cfg.GlobalMax {
		if inv.counts[category] == 0 {
			return 0, false, ErrStorageFull
		}
		evicted = inv.evictOldest(category)
		didEvict = true
	}

	inv.items = append(inv.items, Entry{ID: id, Category: category})
	inv.counts[category]++
	inv.total++
	return evicted, didEvict, nil
}

// Remove deletes an item, returning false without mutation when the item is
// not present under the given category.
func (inv *Inventory) Remove(id uint64, category loot.Category) bool {
	for i, e := range inv.items {
		if e.ID == id && e.Category == category {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			inv.counts[category]--
			inv.total--
			return true
		}
	}
	return false
}

// evictOldest removes the first-inserted item of the category. The caller
// guarantees the category is non-empty.
func (inv *Inventory) evictOldest(category loot.Category) uint64 {
	for i, e := range inv.items {
		if e.Category == category {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			inv.counts[category]--
			inv.total--
			return e.ID
		}
	}
	panic("inventory: evictOldest on empty category")
}

// Count returns the number of held items of a category.
func (inv *Inventory) Count(category loot.Category) int {
	if !category.Valid() {
		return 0
	}
	return inv.counts[category]
}

// Total returns the number of held items across all categories.
func (inv *Inventory) Total() int {
	return inv.total
}

// Entries returns the held items in insertion order.
func (inv *Inventory) Entries() []Entry {
	out := make([]Entry, len(inv.items))
	copy(out, inv.items)
	return out
}

// CheckInvariant verifies that category counts sum to the total and no bound
// is exceeded. It exists for tests and host assertions.
func (inv *Inventory) CheckInvariant() error {
	sum := 0
	for c, n := range inv.counts {
		if n > inv.cfg.PerCategoryMax {
			return fmt.Errorf("category %d count %d exceeds cap %d", c, n, inv.cfg.PerCategoryMax)
		}
		sum += n
	}
	if sum != inv.total {
		return fmt.Errorf("category counts sum to %d, total is %d", sum, inv.total)
	}
	if inv.total != len(inv.items) {
		return fmt.Errorf("total %d disagrees with %d ordered entries", inv.total, len(inv.items))
	}
	if inv.total > inv.cfg.GlobalMax {
		return fmt.Errorf("total %d exceeds global cap %d", inv.total, inv.cfg.GlobalMax)
	}
	return nil
}
