// Package referral splits a base reward across a two-level referral cascade.
//
// The cascade depth is fixed at two by construction: a participant carries at
// most one direct referrer (L1) and that referrer's own direct referrer (L2).
// There is no recursive walk, so no cycle handling is needed here.
package referral

// Commission rates. L1 receives 10% of a claimed reward and L2 receives 5%;
// both rates divide any base reward exactly, so integer division loses
// nothing that the claimant does not keep.
const (
	l1Divisor = 10 // 10%
	l2Divisor = 20 // 5%
)

// Topology describes the claimant's referral situation for one split.
//
// Exemption marks accounts excluded from commissions (team and treasury
// accounts); an exempt referrer's share reverts to the claimant.
type Topology struct {
	HasL1          bool
	HasL2          bool
	L1Exempt       bool
	L2Exempt       bool
	ClaimantExempt bool
}

// Shares is the result of one split.
type Shares struct {
	Claimant uint64
	L1       uint64
	L2       uint64
}

// Total returns the sum of all shares, which always equals the base reward.
func (s Shares) Total() uint64 {
	return s.Claimant + s.L1 + s.L2
}

// Split divides base across the claimant and up to two referrers.
//
// A claimant exemption short-circuits the cascade entirely. Otherwise L1
// takes 10% and L2 takes 5%, with each share reverting to the claimant when
// the corresponding referrer is absent or exempt. The claimant share is
// computed by subtraction, so Claimant+L1+L2 == base holds exactly for every
// branch.
func Split(base uint64, t Topology) Shares {
	if t.ClaimantExempt || !t.HasL1 {
		return Shares{Claimant: base}
	}

	var l1, l2 uint64
	if !t.L1Exempt {
		l1 = base / l1Divisor
	}
	if t.HasL2 && !t.L2Exempt {
		l2 = base / l2Divisor
	}
	return Shares{
		Claimant: base - l1 - l2,
		L1:       l1,
		L2:       l2,
	}
}
