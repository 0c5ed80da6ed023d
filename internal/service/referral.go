package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/storage"
	"github.com/orchardworks/grove/internal/telemetry"
)

// LinkReferrer records referrer as the participant's L1, deriving the L2
// slot from the referrer's own chain. The link is permanent.
func (e *Economy) LinkReferrer(ctx context.Context, participantID, referrerID uuid.UUID) error {
	ctx, span := e.tracer.Start(ctx, "economy.link_referrer")
	defer span.End()

	return e.store.InTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return wrapNotFound(err, "participant")
		}
		referrer, err := tx.GetParticipant(ctx, referrerID)
		if err != nil {
			return wrapNotFound(err, "referrer")
		}

		link, err := engine.LinkReferrer(p, referrer)
		if err != nil {
			return mapEngineErr(err)
		}
		p.ReferrerL1 = link.L1
		p.ReferrerL2 = link.L2
		if err := tx.PutParticipant(ctx, p); err != nil {
			return err
		}

		return telemetry.NewEmitter(tx).Emit(ctx, storage.TelemetryEvent{
			Kind:  telemetry.KindReferralLinked,
			Actor: participantID,
			Payload: map[string]string{
				"l1": link.L1.String(),
				"l2": link.L2.String(),
			},
		})
	})
}
