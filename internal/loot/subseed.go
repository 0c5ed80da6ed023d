package loot

// splitmix64 finalizer constants (Steele, Lea & Flood; also used by
// xxhash-style avalanche steps). Each multiply/xor-shift round diffuses every
// input bit across the whole word.
const (
	goldenGamma = 0x9E3779B97F4A7C15
	mixRound1   = 0xBF58476D1CE4E5B9
	mixRound2   = 0x94D049BB133111EB
)

// zeroFallback replaces an all-zero mix result so a subseed is never zero.
const zeroFallback = goldenGamma

// DeriveSubseed expands one base entropy value into the subseed for a single
// item of a batch.
//
// # Determinism
//
// Identical (baseEntropy, index) inputs always yield the same subseed, so a
// replayed crate opening reproduces exactly the drops it produced the first
// time.
//
// # Decorrelation
//
// Distinct indices within the same batch pass through a full splitmix64
// avalanche and are statistically independent of each other even though they
// share the base entropy.
//
// The result is never zero: a zero mix output maps to a fixed non-zero
// fallback constant.
func DeriveSubseed(baseEntropy uint64, index uint8) uint64 {
	x := baseEntropy + (uint64(index)+1)*goldenGamma
	x ^= x >> 30
	x *= mixRound1
	x ^= x >> 27
	x *= mixRound2
	x ^= x >> 31
	if x == 0 {
		return zeroFallback
	}
	return x
}
