package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
	apperrors "github.com/orchardworks/grove/internal/platform/errors"
	"github.com/orchardworks/grove/internal/storage"
)

// Plant stakes one of the participant's trees, moving its power value into
// the participant's and the global pool's totals.
func (e *Economy) Plant(ctx context.Context, participantID uuid.UUID, itemID uint64) error {
	ctx, span := e.tracer.Start(ctx, "economy.plant")
	defer span.End()

	return e.store.InTx(ctx, func(tx storage.Tx) error {
		item, owner, g, err := loadItemScope(ctx, tx, participantID, itemID)
		if err != nil {
			return err
		}
		plan, err := engine.PlanPlant(item, owner, g)
		if err != nil {
			return mapEngineErr(err)
		}
		return commitPlantPlan(ctx, tx, plan)
	})
}

// Unplant withdraws a planted tree back into the participant's shed. The
// withdrawal is refused when the shed has no room, since an unplanted tree
// must occupy a storage slot.
func (e *Economy) Unplant(ctx context.Context, participantID uuid.UUID, itemID uint64) error {
	ctx, span := e.tracer.Start(ctx, "economy.unplant")
	defer span.End()

	return e.store.InTx(ctx, func(tx storage.Tx) error {
		item, owner, g, err := loadItemScope(ctx, tx, participantID, itemID)
		if err != nil {
			return err
		}
		items, err := tx.ListItems(ctx, participantID)
		if err != nil {
			return err
		}
		if err := e.checkShedRoom(owner.Level, items, item); err != nil {
			return err
		}
		plan, err := engine.PlanUnplant(item, owner, g)
		if err != nil {
			return mapEngineErr(err)
		}
		return commitPlantPlan(ctx, tx, plan)
	})
}

// Discard destroys an unplanted tree.
func (e *Economy) Discard(ctx context.Context, participantID uuid.UUID, itemID uint64) error {
	ctx, span := e.tracer.Start(ctx, "economy.discard")
	defer span.End()

	return e.store.InTx(ctx, func(tx storage.Tx) error {
		item, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return wrapNotFound(err, "item")
		}
		owner, err := tx.GetParticipant(ctx, participantID)
		if err != nil {
			return wrapNotFound(err, "participant")
		}
		if err := engine.PlanDiscard(item, owner); err != nil {
			return mapEngineErr(err)
		}
		return tx.DeleteItem(ctx, itemID)
	})
}

func loadItemScope(ctx context.Context, tx storage.Tx, participantID uuid.UUID, itemID uint64) (engine.Item, engine.Participant, engine.GlobalEconomyState, error) {
	item, err := tx.GetItem(ctx, itemID)
	if err != nil {
		return engine.Item{}, engine.Participant{}, engine.GlobalEconomyState{}, wrapNotFound(err, "item")
	}
	owner, err := tx.GetParticipant(ctx, participantID)
	if err != nil {
		return engine.Item{}, engine.Participant{}, engine.GlobalEconomyState{}, wrapNotFound(err, "participant")
	}
	g, err := tx.GetEconomy(ctx)
	if err != nil {
		return engine.Item{}, engine.Participant{}, engine.GlobalEconomyState{}, wrapNotFound(err, "economy")
	}
	return item, owner, g, nil
}

func commitPlantPlan(ctx context.Context, tx storage.Tx, plan engine.PlantPlan) error {
	if err := tx.PutItem(ctx, plan.Item); err != nil {
		return err
	}
	if err := tx.PutParticipant(ctx, plan.Participant); err != nil {
		return err
	}
	return tx.PutEconomy(ctx, plan.Global)
}

// checkShedRoom verifies the shed can absorb one more unplanted tree of the
// item's category without exceeding either bound.
func (e *Economy) checkShedRoom(level uint8, items []engine.Item, returning engine.Item) error {
	cfg := e.shedConfig(level)
	total := 0
	inCategory := 0
	for _, item := range items {
		if item.Planted {
			continue
		}
		total++
		if item.Category == returning.Category {
			inCategory++
		}
	}
	if total >= cfg.GlobalMax || inCategory >= cfg.PerCategoryMax {
		return apperrors.WithMetadata(apperrors.CodeStorageFull, "no shed room to unplant", map[string]string{
			"item":     strconv.FormatUint(returning.ID, 10),
			"category": returning.Category.String(),
		})
	}
	return nil
}
