package archive

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/loot"
)

func TestSnapshotRoundTrip(t *testing.T) {
	owner := uuid.New()
	snap := Snapshot{
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Economy: FromEconomy(engine.GlobalEconomyState{
			TotalPower:      500,
			Rate:            100,
			NextHalvingTime: 86_400,
			HalvingInterval: 86_400,
			SupplyMinted:    1_234,
			SupplyCap:       1 << 50,
		}),
		Participants: []ParticipantV1{
			FromParticipant(engine.Participant{ID: owner, Power: 500, Level: 2}),
		},
		Items: []ItemV1{
			FromItem(engine.Item{ID: 1, Owner: owner, Category: loot.CategoryRare, PowerValue: 40, Planted: true}),
			FromItem(engine.Item{ID: 2, Owner: owner, Category: loot.CategoryCommon, PowerValue: 5}),
		},
	}

	path := filepath.Join(t.TempDir(), "grove.snap.zst")
	if err := Write(path, snap); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Version != Version {
		t.Errorf("Version = %d, want %d", got.Version, Version)
	}
	if got.Economy == nil || got.Economy.SupplyMinted != 1_234 {
		t.Errorf("Economy = %+v", got.Economy)
	}
	if len(got.Participants) != 1 || got.Participants[0].ID != owner.String() {
		t.Errorf("Participants = %+v", got.Participants)
	}
	if len(got.Items) != 2 || got.Items[0].Category != "RARE" || !got.Items[0].Planted {
		t.Errorf("Items = %+v", got.Items)
	}
}

func TestReadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grove.snap.zst")
	if err := Write(path, Snapshot{Version: 99}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("Read() accepted version 99, want error")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grove.snap.zst")
	snap := Snapshot{
		Version:      Version,
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Economy:      &EconomyV1{SupplyMinted: 77},
		Participants: make([]ParticipantV1, 3),
		Items:        make([]ItemV1, 5),
	}
	if err := WriteManifest(path, snap); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}
	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.Participants != 3 || m.Items != 5 || m.SupplyMinted != 77 {
		t.Errorf("Manifest = %+v", m)
	}
}

func TestParticipantConversion(t *testing.T) {
	tcs := []struct {
		name string
		p    engine.Participant
	}{
		{name: "no referrers", p: engine.Participant{ID: uuid.New(), Power: 10, Level: 1}},
		{name: "full chain", p: engine.Participant{
			ID:                     uuid.New(),
			ReferrerL1:             uuid.New(),
			ReferrerL2:             uuid.New(),
			PendingReferralBalance: 99,
			Level:                  4,
			CumulativePurchases:    12,
		}},
		{name: "exempt", p: engine.Participant{ID: uuid.New(), ReferralExempt: true, Level: 1}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromParticipant(tc.p).ToParticipant()
			if err != nil {
				t.Fatalf("ToParticipant() error = %v", err)
			}
			if got != tc.p {
				t.Errorf("round trip = %+v, want %+v", got, tc.p)
			}
		})
	}
}

func TestItemConversionRejectsBadCategory(t *testing.T) {
	_, err := ItemV1{ID: 1, Owner: uuid.New().String(), Category: "SHINY"}.ToItem()
	if !errors.Is(err, loot.ErrUnknownCategory) {
		t.Errorf("ToItem() error = %v, want ErrUnknownCategory", err)
	}
}
