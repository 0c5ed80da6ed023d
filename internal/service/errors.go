package service

import (
	"errors"

	"github.com/orchardworks/grove/internal/emission"
	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/inventory"
	"github.com/orchardworks/grove/internal/loot"
	apperrors "github.com/orchardworks/grove/internal/platform/errors"
)

// mapEngineErr attaches the matching domain code to an engine sentinel so
// callers branch on codes while errors.Is against the sentinel keeps working
// through the cause chain.
func mapEngineErr(err error) error {
	if err == nil {
		return nil
	}
	code := apperrors.CodeUnknown
	switch {
	case errors.Is(err, emission.ErrCalculationOverflow):
		code = apperrors.CodeCalculationOverflow
	case errors.Is(err, engine.ErrNoRewardAvailable):
		code = apperrors.CodeNoRewardAvailable
	case errors.Is(err, engine.ErrInvalidReferralTopology):
		code = apperrors.CodeInvalidReferralTopology
	case errors.Is(err, engine.ErrReferrerAlreadySet):
		code = apperrors.CodeReferrerAlreadySet
	case errors.Is(err, engine.ErrItemPlanted):
		code = apperrors.CodeItemPlanted
	case errors.Is(err, engine.ErrItemNotPlanted):
		code = apperrors.CodeItemNotPlanted
	case errors.Is(err, engine.ErrNotOwner):
		code = apperrors.CodeNotOwner
	case errors.Is(err, inventory.ErrStorageFull):
		code = apperrors.CodeStorageFull
	case errors.Is(err, inventory.ErrInvalidConfig),
		errors.Is(err, engine.ErrInvalidCrateCount),
		errors.Is(err, loot.ErrUnknownCategory),
		errors.Is(err, loot.ErrTableEmpty),
		errors.Is(err, loot.ErrTableTooLarge),
		errors.Is(err, loot.ErrThresholdOrder),
		errors.Is(err, loot.ErrBadNormalization):
		code = apperrors.CodeInvalidConfiguration
	case errors.Is(err, loot.ErrStaleRandomness):
		code = apperrors.CodeStaleRandomness
	case errors.Is(err, loot.ErrWeakRandomness):
		code = apperrors.CodeWeakRandomness
	}
	return apperrors.Wrap(code, err.Error(), err)
}
