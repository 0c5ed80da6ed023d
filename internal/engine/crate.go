package engine

import (
	"github.com/orchardworks/grove/internal/inventory"
	"github.com/orchardworks/grove/internal/loot"
	"github.com/orchardworks/grove/internal/progression"
)

// CrateRequest is everything one crate opening reads.
//
// Inventory is a scratch snapshot restored by the host for this plan; the
// planner works through it to compute admissions and evictions, so the host
// must not reuse it after planning.
type CrateRequest struct {
	Participant Participant
	Inventory   *inventory.Inventory
	Schedule    progression.Schedule
	Table       loot.Table
	BaseEntropy uint64
	Count       uint8
	NextItemID  uint64 // first id to assign to minted items
}

// Drop is one resolved item of a crate.
type Drop struct {
	ItemID        uint64
	Index         uint8
	Subseed       uint64
	Category      loot.Category
	PowerValue    uint64
	EvictedItemID uint64
	Evicted       bool
}

// CratePlan is the complete effect of one crate opening: the minted drops
// with any evictions they forced, and the participant's updated purchase
// counter, level, and capacity.
type CratePlan struct {
	Drops       []Drop
	Participant Participant
	NewCapacity uint8
	Upgraded    bool
	NextItemID  uint64 // next unused id after the plan
}

// PlanCrateOpening resolves Count items from one base entropy value.
//
// Each item derives its own subseed from (BaseEntropy, index), so replaying
// the same request reproduces the same drops in the same order; there is no
// re-roll. The cumulative purchase counter advances by Count and the level is
// recomputed once from the final counter, landing directly on the highest
// level owed.
func PlanCrateOpening(req CrateRequest) (CratePlan, error) {
	if req.Count == 0 {
		return CratePlan{}, ErrInvalidCrateCount
	}
	if err := req.Table.Validate(); err != nil {
		return CratePlan{}, err
	}

	p := req.Participant
	itemID := req.NextItemID
	drops := make([]Drop, 0, req.Count)
	for i := uint8(0); i < req.Count; i++ {
		sub := loot.DeriveSubseed(req.BaseEntropy, i)
		cat, power := loot.Resolve(sub, req.Table)

		evicted, didEvict, err := req.Inventory.Add(itemID, cat)
		if err != nil {
			return CratePlan{}, err
		}
		drops = append(drops, Drop{
			ItemID:        itemID,
			Index:         i,
			Subseed:       sub,
			Category:      cat,
			PowerValue:    power,
			EvictedItemID: evicted,
			Evicted:       didEvict,
		})
		itemID++
	}

	p.CumulativePurchases += uint32(req.Count)
	res := req.Schedule.AutoUpgrade(p.Level, p.CumulativePurchases)
	p.Level = res.Level

	return CratePlan{
		Drops:       drops,
		Participant: p,
		NewCapacity: res.Capacity,
		Upgraded:    res.Upgraded,
		NextItemID:  itemID,
	}, nil
}
