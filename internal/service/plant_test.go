package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/loot"
	apperrors "github.com/orchardworks/grove/internal/platform/errors"
	"github.com/orchardworks/grove/internal/storage"
	"github.com/orchardworks/grove/internal/tuning"
)

func seedEconomy(t *testing.T, f *fixture) {
	t.Helper()
	if err := f.econ.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
}

func seedItem(t *testing.T, f *fixture, owner uuid.UUID, id uint64, power uint64) {
	t.Helper()
	item := engine.Item{ID: id, Owner: owner, Category: loot.CategoryCommon, PowerValue: power}
	if err := f.store.PutItem(context.Background(), item); err != nil {
		t.Fatalf("PutItem() error = %v", err)
	}
}

func TestPlantAndUnplant(t *testing.T) {
	f := newFixture(t, tuning.Default(), commonOnlyTable())
	ctx := context.Background()
	seedEconomy(t, f)
	owner := registerTestParticipant(t, f)
	seedItem(t, f, owner, 1, 40)

	if err := f.econ.Plant(ctx, owner, 1); err != nil {
		t.Fatalf("Plant() error = %v", err)
	}
	p, err := f.store.GetParticipant(ctx, owner)
	if err != nil {
		t.Fatalf("GetParticipant() error = %v", err)
	}
	if p.Power != 40 {
		t.Errorf("participant power = %d, want 40", p.Power)
	}
	g, err := f.store.GetEconomy(ctx)
	if err != nil {
		t.Fatalf("GetEconomy() error = %v", err)
	}
	if g.TotalPower != 40 {
		t.Errorf("global power = %d, want 40", g.TotalPower)
	}
	item, err := f.store.GetItem(ctx, 1)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if !item.Planted {
		t.Error("item not marked planted")
	}

	// Planting again must fail without touching power.
	err = f.econ.Plant(ctx, owner, 1)
	if apperrors.CodeOf(err) != apperrors.CodeItemPlanted {
		t.Errorf("double plant error = %v, want ITEM_PLANTED", err)
	}

	if err := f.econ.Unplant(ctx, owner, 1); err != nil {
		t.Fatalf("Unplant() error = %v", err)
	}
	p, err = f.store.GetParticipant(ctx, owner)
	if err != nil {
		t.Fatalf("GetParticipant() error = %v", err)
	}
	if p.Power != 0 {
		t.Errorf("power after unplant = %d, want 0", p.Power)
	}
	g, err = f.store.GetEconomy(ctx)
	if err != nil {
		t.Fatalf("GetEconomy() error = %v", err)
	}
	if g.TotalPower != 0 {
		t.Errorf("global power after unplant = %d, want 0", g.TotalPower)
	}
}

func TestPlantRejectsNonOwner(t *testing.T) {
	f := newFixture(t, tuning.Default(), commonOnlyTable())
	ctx := context.Background()
	seedEconomy(t, f)
	owner := registerTestParticipant(t, f)
	other := registerTestParticipant(t, f)
	seedItem(t, f, owner, 1, 40)

	err := f.econ.Plant(ctx, other, 1)
	if apperrors.CodeOf(err) != apperrors.CodeNotOwner {
		t.Errorf("Plant() by non-owner error = %v, want NOT_OWNER", err)
	}
}

func TestUnplantRefusedWhenShedFull(t *testing.T) {
	tun := tuning.Default()
	tun.PerCategoryMax = 1
	tun.GlobalMax = 4
	f := newFixture(t, tun, commonOnlyTable())
	ctx := context.Background()
	seedEconomy(t, f)
	owner := registerTestParticipant(t, f)

	// Item 1 is planted; item 2 already fills the single COMMON slot.
	seedItem(t, f, owner, 1, 40)
	if err := f.econ.Plant(ctx, owner, 1); err != nil {
		t.Fatalf("Plant() error = %v", err)
	}
	seedItem(t, f, owner, 2, 10)

	err := f.econ.Unplant(ctx, owner, 1)
	if apperrors.CodeOf(err) != apperrors.CodeStorageFull {
		t.Errorf("Unplant() into a full shed error = %v, want STORAGE_FULL", err)
	}
	item, getErr := f.store.GetItem(ctx, 1)
	if getErr != nil {
		t.Fatalf("GetItem() error = %v", getErr)
	}
	if !item.Planted {
		t.Error("refused unplant still flipped the planted flag")
	}
}

func TestDiscard(t *testing.T) {
	f := newFixture(t, tuning.Default(), commonOnlyTable())
	ctx := context.Background()
	seedEconomy(t, f)
	owner := registerTestParticipant(t, f)
	seedItem(t, f, owner, 1, 40)

	if err := f.econ.Discard(ctx, owner, 1); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if _, err := f.store.GetItem(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetItem() after discard error = %v, want ErrNotFound", err)
	}
}

func TestDiscardRejectsPlanted(t *testing.T) {
	f := newFixture(t, tuning.Default(), commonOnlyTable())
	ctx := context.Background()
	seedEconomy(t, f)
	owner := registerTestParticipant(t, f)
	seedItem(t, f, owner, 1, 40)
	if err := f.econ.Plant(ctx, owner, 1); err != nil {
		t.Fatalf("Plant() error = %v", err)
	}

	err := f.econ.Discard(ctx, owner, 1)
	if apperrors.CodeOf(err) != apperrors.CodeItemPlanted {
		t.Errorf("Discard() of planted item error = %v, want ITEM_PLANTED", err)
	}
	if _, err := f.store.GetItem(ctx, 1); err != nil {
		t.Errorf("planted item deleted despite refusal: %v", err)
	}
}
