package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/emission"
	"github.com/orchardworks/grove/internal/loot"
)

func TestPlantUnplantRoundTrip(t *testing.T) {
	owner := Participant{ID: uuid.New(), Power: 500}
	g := GlobalEconomyState{TotalPower: 10_000}
	item := Item{ID: 7, Owner: owner.ID, Category: loot.CategoryRare, PowerValue: 300}

	planted, err := PlanPlant(item, owner, g)
	if err != nil {
		t.Fatalf("PlanPlant returned error: %v", err)
	}
	if !planted.Item.Planted || planted.Participant.Power != 800 || planted.Global.TotalPower != 10_300 {
		t.Errorf("after plant: %+v power=%d global=%d", planted.Item, planted.Participant.Power, planted.Global.TotalPower)
	}

	unplanted, err := PlanUnplant(planted.Item, planted.Participant, planted.Global)
	if err != nil {
		t.Fatalf("PlanUnplant returned error: %v", err)
	}
	if unplanted.Item.Planted || unplanted.Participant.Power != 500 || unplanted.Global.TotalPower != 10_000 {
		t.Errorf("after unplant: %+v power=%d global=%d", unplanted.Item, unplanted.Participant.Power, unplanted.Global.TotalPower)
	}
}

func TestPlantValidation(t *testing.T) {
	owner := Participant{ID: uuid.New(), Power: 100}
	stranger := Participant{ID: uuid.New()}
	g := GlobalEconomyState{TotalPower: 100}

	planted := Item{ID: 1, Owner: owner.ID, PowerValue: 10, Planted: true}
	if _, err := PlanPlant(planted, owner, g); !errors.Is(err, ErrItemPlanted) {
		t.Errorf("PlanPlant(planted item) = %v, want ErrItemPlanted", err)
	}

	unplanted := Item{ID: 2, Owner: owner.ID, PowerValue: 10}
	if _, err := PlanUnplant(unplanted, owner, g); !errors.Is(err, ErrItemNotPlanted) {
		t.Errorf("PlanUnplant(unplanted item) = %v, want ErrItemNotPlanted", err)
	}

	if _, err := PlanPlant(unplanted, stranger, g); !errors.Is(err, ErrNotOwner) {
		t.Errorf("PlanPlant by stranger = %v, want ErrNotOwner", err)
	}

	huge := Item{ID: 3, Owner: owner.ID, PowerValue: math.MaxUint64}
	if _, err := PlanPlant(huge, owner, g); !errors.Is(err, emission.ErrCalculationOverflow) {
		t.Errorf("PlanPlant overflow = %v, want ErrCalculationOverflow", err)
	}
}

func TestPlanDiscard(t *testing.T) {
	owner := Participant{ID: uuid.New()}
	stranger := Participant{ID: uuid.New()}

	if err := PlanDiscard(Item{ID: 1, Owner: owner.ID, Planted: true}, owner); !errors.Is(err, ErrItemPlanted) {
		t.Errorf("PlanDiscard(planted) = %v, want ErrItemPlanted", err)
	}
	if err := PlanDiscard(Item{ID: 2, Owner: owner.ID}, stranger); !errors.Is(err, ErrNotOwner) {
		t.Errorf("PlanDiscard by stranger = %v, want ErrNotOwner", err)
	}
	if err := PlanDiscard(Item{ID: 3, Owner: owner.ID}, owner); err != nil {
		t.Errorf("PlanDiscard(unplanted) = %v, want nil", err)
	}
}
