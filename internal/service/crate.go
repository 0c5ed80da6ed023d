package service

import (
	"context"
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/loot"
	"github.com/orchardworks/grove/internal/storage"
	"github.com/orchardworks/grove/internal/telemetry"
)

// CrateResult reports a committed crate opening.
type CrateResult struct {
	Drops    []engine.Drop
	Level    uint8
	Capacity uint8
	Upgraded bool
	// Fallback is true when external randomness was rejected (or absent) and
	// the weaker host-derived entropy mix seeded the drops.
	Fallback bool
}

// OpenCrate mints count trees for the participant from one entropy source
// and commits drops, evictions, and progression in a single transaction.
//
// When external randomness is provided it is folded in after the freshness
// and sanity gates; a rejected payload falls back to host-derived entropy and
// the degradation is recorded in telemetry rather than failing the opening.
func (e *Economy) OpenCrate(ctx context.Context, participantID uuid.UUID, count uint8, ext *loot.ExternalRandomness, nonce uint64) (CrateResult, error) {
	ctx, span := e.tracer.Start(ctx, "economy.open_crate")
	defer span.End()

	now := e.now()
	entropy, fallbackReason := e.baseEntropy(participantID, ext, nonce, now)

	var res CrateResult
	err := e.store.InTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return wrapNotFound(err, "participant")
		}
		items, err := tx.ListItems(ctx, participantID)
		if err != nil {
			return err
		}
		shed, err := restoreShed(e.shedConfig(p.Level), items)
		if err != nil {
			return mapEngineErr(err)
		}
		nextID, err := tx.NextItemID(ctx)
		if err != nil {
			return err
		}

		plan, err := engine.PlanCrateOpening(engine.CrateRequest{
			Participant: p,
			Inventory:   shed,
			Schedule:    e.schedule,
			Table:       e.table,
			BaseEntropy: entropy,
			Count:       count,
			NextItemID:  nextID,
		})
		if err != nil {
			return mapEngineErr(err)
		}

		emitter := telemetry.NewEmitter(tx)
		for _, drop := range plan.Drops {
			if drop.Evicted {
				if err := tx.DeleteItem(ctx, drop.EvictedItemID); err != nil {
					return err
				}
				if err := emitter.Emit(ctx, storage.TelemetryEvent{
					Kind:  telemetry.KindEviction,
					Actor: participantID,
					Payload: map[string]string{
						"item":     strconv.FormatUint(drop.EvictedItemID, 10),
						"category": drop.Category.String(),
					},
				}); err != nil {
					return err
				}
			}
			if err := tx.PutItem(ctx, engine.Item{
				ID:         drop.ItemID,
				Owner:      participantID,
				Category:   drop.Category,
				PowerValue: drop.PowerValue,
			}); err != nil {
				return err
			}
		}
		if err := tx.PutParticipant(ctx, plan.Participant); err != nil {
			return err
		}

		if fallbackReason != "" {
			if err := emitter.Emit(ctx, storage.TelemetryEvent{
				Kind:    telemetry.KindEntropyFallback,
				Actor:   participantID,
				Payload: map[string]string{"reason": fallbackReason},
			}); err != nil {
				return err
			}
		}
		if err := emitter.Emit(ctx, storage.TelemetryEvent{
			Kind:  telemetry.KindCrateOpened,
			Actor: participantID,
			Payload: map[string]string{
				"count": strconv.Itoa(int(count)),
				"level": strconv.Itoa(int(plan.Participant.Level)),
			},
		}); err != nil {
			return err
		}
		if plan.Upgraded {
			if err := emitter.Emit(ctx, storage.TelemetryEvent{
				Kind:  telemetry.KindLevelUp,
				Actor: participantID,
				Payload: map[string]string{
					"level":    strconv.Itoa(int(plan.Participant.Level)),
					"capacity": strconv.Itoa(int(plan.NewCapacity)),
				},
			}); err != nil {
				return err
			}
		}

		res = CrateResult{
			Drops:    plan.Drops,
			Level:    plan.Participant.Level,
			Capacity: plan.NewCapacity,
			Upgraded: plan.Upgraded,
			Fallback: fallbackReason != "",
		}
		return nil
	})
	if err != nil {
		return CrateResult{}, err
	}
	span.SetAttributes(
		attribute.Int("grove.crate.count", int(count)),
		attribute.Bool("grove.crate.fallback", res.Fallback),
	)
	return res, nil
}

// baseEntropy resolves the entropy word for one crate opening. The returned
// reason is empty when external randomness passed the gates, and names the
// rejection otherwise.
func (e *Economy) baseEntropy(participantID uuid.UUID, ext *loot.ExternalRandomness, nonce uint64, now int64) (uint64, string) {
	if ext != nil {
		entropy, err := loot.FoldExternal(*ext, now, e.freshness)
		if err == nil {
			return entropy, ""
		}
		return e.fallbackEntropy(participantID, nonce, now), err.Error()
	}
	return e.fallbackEntropy(participantID, nonce, now), "no external randomness"
}

func (e *Economy) fallbackEntropy(participantID uuid.UUID, nonce uint64, now int64) uint64 {
	requester := binary.LittleEndian.Uint64(participantID[:8])
	return loot.FallbackEntropy(nonce, e.fallbackSeq.Add(1), requester, now)
}
