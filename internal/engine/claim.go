package engine

import (
	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/emission"
	"github.com/orchardworks/grove/internal/referral"
)

// ClaimRequest is everything one claim reads.
//
// Referrer exemption flags are resolved by the host (it holds the referrer
// records); presence flags are derived structurally from the participant's
// referral slots so the two can never disagree.
type ClaimRequest struct {
	Participant Participant
	Global      GlobalEconomyState
	Now         int64
	L1Exempt    bool
	L2Exempt    bool
}

// ClaimPlan is the complete effect of one claim. The host credits
// Shares.Claimant to the claimant's balance, Shares.L1 and Shares.L2 to the
// respective referrers' pending balances, and commits the updated
// participant and global states in the same transaction.
type ClaimPlan struct {
	Base        uint64 // reward after the supply-cap clamp
	Clamped     bool   // true when the cap reduced the reward
	Shares      referral.Shares
	Participant Participant
	Global      GlobalEconomyState
}

// PlanClaim validates and computes a claim.
//
// The accrued reward is clamped so SupplyMinted never exceeds SupplyCap; a
// clamp to zero, like any zero accrual, fails with ErrNoRewardAvailable so
// hosts do not burn a transaction on an empty payout. Halving boundaries
// crossed by Now are folded into the returned global state.
func PlanClaim(req ClaimRequest) (ClaimPlan, error) {
	p := req.Participant
	g := req.Global

	base, err := emission.Accrue(emission.Params{
		ParticipantPower: p.Power,
		GlobalPower:      g.TotalPower,
		Rate:             g.Rate,
		LastTime:         p.LastAccrual,
		Now:              req.Now,
		NextHalvingTime:  g.NextHalvingTime,
		HalvingInterval:  g.HalvingInterval,
	})
	if err != nil {
		return ClaimPlan{}, err
	}

	clamped := false
	var remaining uint64
	if g.SupplyCap > g.SupplyMinted {
		remaining = g.SupplyCap - g.SupplyMinted
	}
	if base > remaining {
		base = remaining
		clamped = true
	}
	if base == 0 {
		return ClaimPlan{}, ErrNoRewardAvailable
	}

	shares := referral.Split(base, referral.Topology{
		HasL1:          p.ReferrerL1 != uuid.Nil,
		HasL2:          p.ReferrerL2 != uuid.Nil,
		L1Exempt:       req.L1Exempt,
		L2Exempt:       req.L2Exempt,
		ClaimantExempt: p.ReferralExempt,
	})

	p.LastAccrual = req.Now
	g.SupplyMinted += base
	advanceHalvings(&g, req.Now)

	return ClaimPlan{
		Base:        base,
		Clamped:     clamped,
		Shares:      shares,
		Participant: p,
		Global:      g,
	}, nil
}

// advanceHalvings folds every boundary at or before now into the global
// state, mirroring the halving walk inside emission.Accrue.
func advanceHalvings(g *GlobalEconomyState, now int64) {
	if g.HalvingInterval <= 0 {
		return
	}
	for g.NextHalvingTime <= now {
		g.Rate >>= 1
		g.NextHalvingTime += g.HalvingInterval
	}
}
