package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/storage"
	"github.com/orchardworks/grove/internal/storage/archive"
)

// ExportSnapshot dumps the full economy state into a snapshot. A store with
// no economy row exports a snapshot without one.
func (s *Store) ExportSnapshot(ctx context.Context) (archive.Snapshot, error) {
	snap := archive.Snapshot{Version: archive.Version, CreatedAt: s.clock().UTC()}

	g, err := s.GetEconomy(ctx)
	switch {
	case err == nil:
		snap.Economy = archive.FromEconomy(g)
	case errors.Is(err, storage.ErrNotFound):
	default:
		return archive.Snapshot{}, err
	}

	rows, err := s.q().QueryContext(ctx, `SELECT id FROM participants ORDER BY id`)
	if err != nil {
		return archive.Snapshot{}, fmt.Errorf("export participants: %w", err)
	}
	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			rows.Close()
			return archive.Snapshot{}, fmt.Errorf("export participants: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			rows.Close()
			return archive.Snapshot{}, fmt.Errorf("export participants: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return archive.Snapshot{}, fmt.Errorf("export participants: %w", err)
	}
	rows.Close()

	for _, id := range ids {
		p, err := s.GetParticipant(ctx, id)
		if err != nil {
			return archive.Snapshot{}, err
		}
		snap.Participants = append(snap.Participants, archive.FromParticipant(p))

		items, err := s.ListItems(ctx, p.ID)
		if err != nil {
			return archive.Snapshot{}, err
		}
		for _, item := range items {
			snap.Items = append(snap.Items, archive.FromItem(item))
		}
	}
	return snap, nil
}

// ImportSnapshot loads a snapshot into an empty store atomically. Items are
// written in snapshot order, which preserves each owner's insertion order.
func (s *Store) ImportSnapshot(ctx context.Context, snap archive.Snapshot) error {
	if s.tx == nil {
		return s.InTx(ctx, func(tx storage.Tx) error {
			return tx.(*Store).ImportSnapshot(ctx, snap)
		})
	}
	return s.importSnapshot(ctx, snap)
}

func (s *Store) importSnapshot(ctx context.Context, snap archive.Snapshot) error {
	if snap.Economy != nil {
		if err := s.PutEconomy(ctx, snap.Economy.ToEconomy()); err != nil {
			return err
		}
	}
	for _, pv := range snap.Participants {
		p, err := pv.ToParticipant()
		if err != nil {
			return err
		}
		if err := s.PutParticipant(ctx, p); err != nil {
			return err
		}
	}
	for _, iv := range snap.Items {
		item, err := iv.ToItem()
		if err != nil {
			return err
		}
		if err := s.PutItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
