// Package errors provides structured error handling for the Grove economy.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Arithmetic errors
	CodeCalculationOverflow Code = "CALCULATION_OVERFLOW"

	// Configuration errors
	CodeInvalidConfiguration Code = "INVALID_CONFIGURATION"

	// Inventory errors
	CodeStorageFull Code = "STORAGE_FULL"

	// Referral errors
	CodeInvalidReferralTopology Code = "INVALID_REFERRAL_TOPOLOGY"
	CodeReferrerAlreadySet      Code = "REFERRER_ALREADY_SET"

	// Randomness errors
	CodeStaleRandomness Code = "STALE_RANDOMNESS"
	CodeWeakRandomness  Code = "WEAK_RANDOMNESS"

	// Claim errors
	CodeNoRewardAvailable Code = "NO_REWARD_AVAILABLE"

	// Item errors
	CodeItemPlanted    Code = "ITEM_PLANTED"
	CodeItemNotPlanted Code = "ITEM_NOT_PLANTED"
	CodeNotOwner       Code = "NOT_OWNER"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Retryable reports whether an operation failing with this code can succeed
// on a later attempt without operator intervention.
func (c Code) Retryable() bool {
	switch c {
	case CodeNoRewardAvailable, CodeStaleRandomness, CodeWeakRandomness:
		return true
	default:
		return false
	}
}
