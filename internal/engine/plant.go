package engine

import (
	"math/bits"

	"github.com/orchardworks/grove/internal/emission"
)

// PlantPlan is the effect of planting or unplanting one tree.
type PlantPlan struct {
	Item        Item
	Participant Participant
	Global      GlobalEconomyState
}

// PlanPlant stakes an unplanted tree, adding its power value to the owner
// and to the global pool with checked arithmetic.
func PlanPlant(item Item, owner Participant, g GlobalEconomyState) (PlantPlan, error) {
	if item.Owner != owner.ID {
		return PlantPlan{}, ErrNotOwner
	}
	if item.Planted {
		return PlantPlan{}, ErrItemPlanted
	}

	power, carry := bits.Add64(owner.Power, item.PowerValue, 0)
	if carry != 0 {
		return PlantPlan{}, emission.ErrCalculationOverflow
	}
	total, carry := bits.Add64(g.TotalPower, item.PowerValue, 0)
	if carry != 0 {
		return PlantPlan{}, emission.ErrCalculationOverflow
	}

	item.Planted = true
	owner.Power = power
	g.TotalPower = total
	return PlantPlan{Item: item, Participant: owner, Global: g}, nil
}

// PlanUnplant withdraws a planted tree, removing its power value from the
// owner and the global pool. Underflow means the recorded power diverged
// from the item set and is reported as an overflow failure rather than
// wrapped.
func PlanUnplant(item Item, owner Participant, g GlobalEconomyState) (PlantPlan, error) {
	if item.Owner != owner.ID {
		return PlantPlan{}, ErrNotOwner
	}
	if !item.Planted {
		return PlantPlan{}, ErrItemNotPlanted
	}
	if owner.Power < item.PowerValue || g.TotalPower < item.PowerValue {
		return PlantPlan{}, emission.ErrCalculationOverflow
	}

	item.Planted = false
	owner.Power -= item.PowerValue
	g.TotalPower -= item.PowerValue
	return PlantPlan{Item: item, Participant: owner, Global: g}, nil
}

// PlanDiscard validates the explicit destruction of a tree. Only unplanted
// trees may be discarded; the host removes the item from the inventory and
// deletes the record when the plan succeeds.
func PlanDiscard(item Item, owner Participant) error {
	if item.Owner != owner.ID {
		return ErrNotOwner
	}
	if item.Planted {
		return ErrItemPlanted
	}
	return nil
}
