// Package emission computes halving-aware proportional reward accrual.
//
// The package is pure: all state, including time, arrives as explicit
// parameters, and identical inputs always produce identical rewards. All
// arithmetic is integer arithmetic with truncating division; intermediate
// products are widened to 128 bits and every narrowing step is checked.
package emission

import (
	"errors"
	"math/bits"
)

// ErrCalculationOverflow indicates a checked arithmetic step failed. The only
// intentional truncation in this package is the halving right-shift of the
// emission rate.
var ErrCalculationOverflow = errors.New("reward calculation overflow")

// Params carries every input of one accrual computation.
type Params struct {
	ParticipantPower uint64
	GlobalPower      uint64
	Rate             uint64 // emission units per second
	LastTime         int64  // unix seconds of the previous accrual
	Now              int64  // unix seconds
	NextHalvingTime  int64  // unix seconds of the next halving boundary
	HalvingInterval  int64  // seconds between halvings; <= 0 disables halving
}

// Accrue computes the reward earned between LastTime and Now.
//
// The elapsed window is split into periods bounded by halving events. Each
// period [start, end) contributes
//
//	floor(ParticipantPower * Rate * (end-start) / GlobalPower)
//
// computed through a 128-bit intermediate, and the rate is floor-halved at
// every boundary crossed. Boundaries at or before LastTime still halve the
// rate before any accrual, so a host that fell behind on halving bookkeeping
// never over-pays.
//
// Accrue returns (0, nil) when GlobalPower, ParticipantPower, or Rate is
// zero, or when Now <= LastTime. A zero reward is a valid outcome, not an
// error; ErrCalculationOverflow is returned only when a checked step fails.
func Accrue(p Params) (uint64, error) {
	if p.GlobalPower == 0 || p.ParticipantPower == 0 || p.Rate == 0 {
		return 0, nil
	}
	if p.Now <= p.LastTime {
		return 0, nil
	}

	rate := p.Rate
	start := p.LastTime
	boundary := p.NextHalvingTime
	halving := p.HalvingInterval > 0

	var total uint64
	for start < p.Now {
		end := p.Now
		if halving && boundary < end {
			end = boundary
		}

		if end > start {
			period, err := mulDiv(p.ParticipantPower, rate, uint64(end-start), p.GlobalPower)
			if err != nil {
				return 0, err
			}
			var carry uint64
			total, carry = bits.Add64(total, period, 0)
			if carry != 0 {
				return 0, ErrCalculationOverflow
			}
		}

		if halving && end == boundary {
			rate >>= 1
			boundary += p.HalvingInterval
			if rate == 0 {
				break
			}
		}
		// A boundary at or before start contributes nothing; the loop makes
		// progress because every pass either advances start or the boundary.
		if end > start {
			start = end
		}
	}
	return total, nil
}

// mulDiv computes floor(a*b*c/d) through a 128-bit intermediate, returning
// ErrCalculationOverflow when the product exceeds 128 bits or the quotient
// exceeds 64 bits.
func mulDiv(a, b, c, d uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)

	overflow, prodHi := bits.Mul64(hi, c)
	if overflow != 0 {
		return 0, ErrCalculationOverflow
	}
	carryHi, prodLo := bits.Mul64(lo, c)
	prodHi, carry := bits.Add64(prodHi, carryHi, 0)
	if carry != 0 {
		return 0, ErrCalculationOverflow
	}

	if prodHi >= d {
		// bits.Div64 would panic on a quotient wider than 64 bits.
		return 0, ErrCalculationOverflow
	}
	q, _ := bits.Div64(prodHi, prodLo, d)
	return q, nil
}
