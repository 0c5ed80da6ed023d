package engine

import (
	"errors"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/loot"
)

// ErrNoRewardAvailable indicates a claim that would pay nothing: zero power,
// no elapsed time, or an exhausted supply cap.
var ErrNoRewardAvailable = errors.New("no reward available")

// ErrInvalidReferralTopology indicates a self-referral or an attempt to form
// a referral cycle.
var ErrInvalidReferralTopology = errors.New("invalid referral topology")

// ErrReferrerAlreadySet indicates the participant already has a referrer.
var ErrReferrerAlreadySet = errors.New("referrer already set")

// ErrItemPlanted indicates an operation that requires an unplanted item.
var ErrItemPlanted = errors.New("item is planted")

// ErrItemNotPlanted indicates an operation that requires a planted item.
var ErrItemNotPlanted = errors.New("item is not planted")

// ErrNotOwner indicates an item operation by a non-owner.
var ErrNotOwner = errors.New("item belongs to another participant")

// ErrInvalidCrateCount indicates a crate opening of zero items.
var ErrInvalidCrateCount = errors.New("crate must contain at least one item")

// Participant is one economy account.
//
// The referral slots are structural: L2 is always the L1 referrer's own L1,
// fixed at link time, so the referral graph is acyclic by construction and
// never walked recursively. uuid.Nil marks an empty slot.
type Participant struct {
	ID                     uuid.UUID
	Power                  uint64
	LastAccrual            int64
	ReferrerL1             uuid.UUID
	ReferrerL2             uuid.UUID
	ReferralExempt         bool
	PendingReferralBalance uint64
	Level                  uint8
	CumulativePurchases    uint32
}

// Item is one tree.
type Item struct {
	ID         uint64
	Owner      uuid.UUID
	Category   loot.Category
	PowerValue uint64
	Planted    bool
}

// GlobalEconomyState is the shared emission bookkeeping.
//
// SupplyMinted never exceeds SupplyCap, and Rate only decreases through
// halving (admin rate changes happen outside the engine).
type GlobalEconomyState struct {
	TotalPower      uint64
	Rate            uint64
	NextHalvingTime int64
	HalvingInterval int64
	SupplyMinted    uint64
	SupplyCap       uint64
}
