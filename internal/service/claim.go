package service

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/orchardworks/grove/internal/emission"
	"github.com/orchardworks/grove/internal/engine"
	apperrors "github.com/orchardworks/grove/internal/platform/errors"
	"github.com/orchardworks/grove/internal/storage"
	"github.com/orchardworks/grove/internal/telemetry"
)

// ClaimResult reports a committed claim. Shares.Claimant is the amount owed
// to the claimant by the external ledger; the referrer shares have already
// been credited to the referrers' pending balances.
type ClaimResult struct {
	Base    uint64
	Clamped bool
	Shares  struct {
		Claimant uint64
		L1       uint64
		L2       uint64
	}
}

// Claim accrues the participant's reward since their last claim and commits
// the payout split in one transaction.
func (e *Economy) Claim(ctx context.Context, participantID uuid.UUID) (ClaimResult, error) {
	ctx, span := e.tracer.Start(ctx, "economy.claim")
	defer span.End()

	var res ClaimResult
	err := e.store.InTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return wrapNotFound(err, "participant")
		}
		g, err := tx.GetEconomy(ctx)
		if err != nil {
			return wrapNotFound(err, "economy")
		}

		l1, l1Exempt, err := e.loadReferrer(ctx, tx, p.ReferrerL1)
		if err != nil {
			return err
		}
		l2, l2Exempt, err := e.loadReferrer(ctx, tx, p.ReferrerL2)
		if err != nil {
			return err
		}

		plan, err := engine.PlanClaim(engine.ClaimRequest{
			Participant: p,
			Global:      g,
			Now:         e.now(),
			L1Exempt:    l1Exempt,
			L2Exempt:    l2Exempt,
		})
		if err != nil {
			return mapEngineErr(err)
		}

		if plan.Shares.L1 > 0 {
			if err := creditPending(ctx, tx, l1, plan.Shares.L1); err != nil {
				return err
			}
		}
		if plan.Shares.L2 > 0 {
			if err := creditPending(ctx, tx, l2, plan.Shares.L2); err != nil {
				return err
			}
		}
		if err := tx.PutParticipant(ctx, plan.Participant); err != nil {
			return err
		}
		if err := tx.PutEconomy(ctx, plan.Global); err != nil {
			return err
		}

		if err := telemetry.NewEmitter(tx).Emit(ctx, storage.TelemetryEvent{
			Kind:  telemetry.KindClaim,
			Actor: participantID,
			Payload: map[string]string{
				"base":    strconv.FormatUint(plan.Base, 10),
				"l1":      strconv.FormatUint(plan.Shares.L1, 10),
				"l2":      strconv.FormatUint(plan.Shares.L2, 10),
				"clamped": strconv.FormatBool(plan.Clamped),
			},
		}); err != nil {
			return err
		}

		res.Base = plan.Base
		res.Clamped = plan.Clamped
		res.Shares.Claimant = plan.Shares.Claimant
		res.Shares.L1 = plan.Shares.L1
		res.Shares.L2 = plan.Shares.L2
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	span.SetAttributes(
		attribute.Int64("grove.claim.base", int64(res.Base)),
		attribute.Bool("grove.claim.clamped", res.Clamped),
	)
	return res, nil
}

// SettleReferralBalance zeroes the participant's pending referral balance and
// returns the settled amount for the external ledger.
func (e *Economy) SettleReferralBalance(ctx context.Context, participantID uuid.UUID) (uint64, error) {
	ctx, span := e.tracer.Start(ctx, "economy.settle_referral_balance")
	defer span.End()

	var settled uint64
	err := e.store.InTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return wrapNotFound(err, "participant")
		}
		settled = p.PendingReferralBalance
		if settled == 0 {
			return nil
		}
		p.PendingReferralBalance = 0
		return tx.PutParticipant(ctx, p)
	})
	if err != nil {
		return 0, err
	}
	return settled, nil
}

// loadReferrer resolves a referral slot to its record and exemption flag. A
// slot pointing at a deleted account is treated as exempt so the share
// reverts to the claimant instead of vanishing.
func (e *Economy) loadReferrer(ctx context.Context, tx storage.Tx, id uuid.UUID) (engine.Participant, bool, error) {
	if id == uuid.Nil {
		return engine.Participant{}, false, nil
	}
	p, err := tx.GetParticipant(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return engine.Participant{}, true, nil
	}
	if err != nil {
		return engine.Participant{}, false, err
	}
	return p, p.ReferralExempt, nil
}

func creditPending(ctx context.Context, tx storage.Tx, referrer engine.Participant, amount uint64) error {
	balance, carry := bits.Add64(referrer.PendingReferralBalance, amount, 0)
	if carry != 0 {
		return mapEngineErr(emission.ErrCalculationOverflow)
	}
	referrer.PendingReferralBalance = balance
	return tx.PutParticipant(ctx, referrer)
}

func wrapNotFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("%s not found", what), err)
	}
	return err
}
