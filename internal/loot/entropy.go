package loot

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

// ErrStaleRandomness indicates an external randomness payload older than the
// freshness window.
var ErrStaleRandomness = errors.New("external randomness is stale")

// ErrWeakRandomness indicates an external randomness payload that failed the
// statistical sanity checks.
var ErrWeakRandomness = errors.New("external randomness failed quality checks")

// Quality thresholds for the external randomness gate. A genuinely uniform
// 32-byte payload has ~28 distinct bytes, ~128 set bits, and no long runs of
// a repeated byte; the bounds below leave generous slack so only grossly
// degenerate payloads are rejected.
const (
	minDistinctBytes = 16
	minSetBits       = 88
	maxSetBits       = 168
	maxByteRun       = 4
)

// ExternalRandomness is a raw oracle payload with its production timestamp.
type ExternalRandomness struct {
	Bytes     [32]byte
	Timestamp int64
}

// ScoreRandomness checks a 32-byte payload for basic statistical sanity:
// distinct-byte count, overall bit balance, and the longest run of a repeated
// byte. It returns ErrWeakRandomness when any check fails.
//
// This is a cheap degeneracy filter, not a randomness test; an adversarial
// oracle can still pass it. It exists to catch stuck or zeroed feeds.
func ScoreRandomness(payload [32]byte) error {
	var seen [256]bool
	distinct := 0
	setBits := 0
	run := 1
	longestRun := 1
	for i, b := range payload {
		if !seen[b] {
			seen[b] = true
			distinct++
		}
		setBits += bits.OnesCount8(b)
		if i > 0 && b == payload[i-1] {
			run++
			if run > longestRun {
				longestRun = run
			}
		} else {
			run = 1
		}
	}
	if distinct < minDistinctBytes || setBits < minSetBits || setBits > maxSetBits || longestRun > maxByteRun {
		return ErrWeakRandomness
	}
	return nil
}

// FoldExternal reduces a fresh, sane external randomness payload to a base
// entropy word.
//
// The payload is rejected with ErrStaleRandomness when its timestamp is more
// than freshnessWindow seconds before now, and with ErrWeakRandomness when it
// fails ScoreRandomness. On rejection the caller should fall back to
// FallbackEntropy.
func FoldExternal(r ExternalRandomness, now int64, freshnessWindow int64) (uint64, error) {
	if freshnessWindow > 0 && now-r.Timestamp > freshnessWindow {
		return 0, ErrStaleRandomness
	}
	if err := ScoreRandomness(r.Bytes); err != nil {
		return 0, err
	}
	var folded uint64
	for i := 0; i < len(r.Bytes); i += 8 {
		folded ^= binary.LittleEndian.Uint64(r.Bytes[i : i+8])
	}
	return DeriveSubseed(folded, 0), nil
}

// FallbackEntropy derives base entropy from host-local values when external
// randomness is rejected.
//
// Trade-off: the inputs (caller nonce, sequence counter, requester id, clock)
// are observable or influenceable by a motivated participant, so this source
// has strictly weaker unpredictability than a healthy external oracle. Hosts
// should surface fallback use in telemetry rather than treat the two sources
// as equivalent.
func FallbackEntropy(nonce, sequence, requester uint64, now int64) uint64 {
	x := DeriveSubseed(nonce, 0)
	x ^= DeriveSubseed(sequence, 1)
	x ^= DeriveSubseed(requester, 2)
	x ^= DeriveSubseed(uint64(now), 3)
	if x == 0 {
		return zeroFallback
	}
	return x
}
