package inventory

import (
	"errors"
	"testing"

	"github.com/orchardworks/grove/internal/loot"
)

func mustNew(t *testing.T, cfg Config) *Inventory {
	t.Helper()
	inv, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return inv
}

func mustAdd(t *testing.T, inv *Inventory, id uint64, cat loot.Category) {
	t.Helper()
	if _, _, err := inv.Add(id, cat); err != nil {
		t.Fatalf("Add(%d, %v) returned error: %v", id, cat, err)
	}
}

func TestAddEvictsOldestOfSameCategory(t *testing.T) {
	inv := mustNew(t, Config{PerCategoryMax: 3, GlobalMax: 100})

	mustAdd(t, inv, 1, loot.CategoryCommon)
	mustAdd(t, inv, 2, loot.CategoryCommon)
	mustAdd(t, inv, 3, loot.CategoryCommon)
	mustAdd(t, inv, 10, loot.CategoryRare)

	evicted, didEvict, err := inv.Add(4, loot.CategoryCommon)
	if err != nil {
		t.Fatalf("Add into full category returned error: %v", err)
	}
	if !didEvict || evicted != 1 {
		t.Errorf("Add evicted (%d, %t), want oldest common item 1", evicted, didEvict)
	}
	if got := inv.Count(loot.CategoryCommon); got != 3 {
		t.Errorf("common count = %d, want 3 (never above the cap)", got)
	}
	if got := inv.Count(loot.CategoryRare); got != 1 {
		t.Errorf("rare count = %d, want 1 (other categories untouched)", got)
	}
	if err := inv.CheckInvariant(); err != nil {
		t.Errorf("invariant broken: %v", err)
	}

	// The next eviction from the same category picks the new oldest.
	evicted, didEvict, err = inv.Add(5, loot.CategoryCommon)
	if err != nil || !didEvict || evicted != 2 {
		t.Errorf("second Add evicted (%d, %t, %v), want item 2", evicted, didEvict, err)
	}
}

func TestAddNeverExceedsCategoryCap(t *testing.T) {
	inv := mustNew(t, Config{PerCategoryMax: 2, GlobalMax: 100})
	for id := uint64(1); id <= 20; id++ {
		if _, _, err := inv.Add(id, loot.CategoryEpic); err != nil {
			t.Fatalf("Add(%d) returned error: %v", id, err)
		}
		if got := inv.Count(loot.CategoryEpic); got > 2 {
			t.Fatalf("epic count = %d after %d adds, cap is 2", got, id)
		}
		if err := inv.CheckInvariant(); err != nil {
			t.Fatalf("invariant broken after %d adds: %v", id, err)
		}
	}
}

func TestAddStorageFullOnlyWhenNothingEvictable(t *testing.T) {
	// Misconfigured on purpose: the global cap binds before the per-category
	// cap can free space in the target category.
	inv := mustNew(t, Config{PerCategoryMax: 4, GlobalMax: 2})
	mustAdd(t, inv, 1, loot.CategoryCommon)
	mustAdd(t, inv, 2, loot.CategoryCommon)

	if _, _, err := inv.Add(3, loot.CategoryRare); !errors.Is(err, ErrStorageFull) {
		t.Errorf("Add into distinct category at global cap = %v, want ErrStorageFull", err)
	}

	// Same category still admits by evicting its own oldest.
	evicted, didEvict, err := inv.Add(4, loot.CategoryCommon)
	if err != nil || !didEvict || evicted != 1 {
		t.Errorf("Add at global cap evicted (%d, %t, %v), want item 1", evicted, didEvict, err)
	}
	if inv.Total() != 2 {
		t.Errorf("total = %d, want 2 (global cap held)", inv.Total())
	}
}

func TestRemove(t *testing.T) {
	inv := mustNew(t, Config{PerCategoryMax: 4, GlobalMax: 8})
	mustAdd(t, inv, 1, loot.CategoryCommon)
	mustAdd(t, inv, 2, loot.CategoryRare)

	if !inv.Remove(1, loot.CategoryCommon) {
		t.Error("Remove(present item) = false, want true")
	}
	if inv.Remove(1, loot.CategoryCommon) {
		t.Error("Remove(absent item) = true, want false no-op")
	}
	if inv.Remove(2, loot.CategoryCommon) {
		t.Error("Remove with wrong category = true, want false no-op")
	}
	if inv.Total() != 1 || inv.Count(loot.CategoryCommon) != 0 {
		t.Errorf("counts after removals: total=%d common=%d, want 1 and 0", inv.Total(), inv.Count(loot.CategoryCommon))
	}
	if err := inv.CheckInvariant(); err != nil {
		t.Errorf("invariant broken: %v", err)
	}
}

func TestRestore(t *testing.T) {
	cfg := Config{PerCategoryMax: 2, GlobalMax: 4}
	entries := []Entry{
		{ID: 5, Category: loot.CategoryCommon},
		{ID: 6, Category: loot.CategoryMythic},
		{ID: 7, Category: loot.CategoryCommon},
	}

	inv, err := Restore(cfg, entries)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	// Insertion order survives: the oldest common item is still first out.
	evicted, didEvict, err := inv.Add(8, loot.CategoryCommon)
	if err != nil || !didEvict || evicted != 5 {
		t.Errorf("Add after Restore evicted (%d, %t, %v), want item 5", evicted, didEvict, err)
	}

	if _, err := Restore(cfg, append(entries, Entry{ID: 5, Category: loot.CategoryRare})); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Restore with duplicate id = %v, want ErrInvalidConfig", err)
	}

	over := []Entry{
		{ID: 1, Category: loot.CategoryCommon},
		{ID: 2, Category: loot.CategoryCommon},
		{ID: 3, Category: loot.CategoryCommon},
	}
	if _, err := Restore(cfg, over); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Restore above category cap = %v, want ErrInvalidConfig", err)
	}
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(Config{PerCategoryMax: 0, GlobalMax: 10}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New with zero category cap = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(Config{PerCategoryMax: 5, GlobalMax: 0}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New with zero global cap = %v, want ErrInvalidConfig", err)
	}
}
