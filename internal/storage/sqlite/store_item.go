package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/loot"
	"github.com/orchardworks/grove/internal/storage"
)

// PutItem inserts or replaces an item record. New items are appended to the
// end of the owner's insertion order; existing items keep their position.
func (s *Store) PutItem(ctx context.Context, item engine.Item) error {
	_, err := s.q().ExecContext(ctx, `
INSERT INTO items (id, owner_id, category, power_value, planted, position, created_at)
VALUES (?, ?, ?, ?, ?,
    (SELECT COALESCE(MAX(position), 0) + 1 FROM items WHERE owner_id = ?), ?)
ON CONFLICT (id) DO UPDATE SET
    owner_id = excluded.owner_id,
    category = excluded.category,
    power_value = excluded.power_value,
    planted = excluded.planted
`,
		int64(item.ID),
		item.Owner.String(),
		int(item.Category),
		int64(item.PowerValue),
		item.Planted,
		item.Owner.String(),
		s.nowMillis(),
	)
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// GetItem loads a single item record.
func (s *Store) GetItem(ctx context.Context, id uint64) (engine.Item, error) {
	row := s.q().QueryRowContext(ctx, `
SELECT id, owner_id, category, power_value, planted
FROM items WHERE id = ?
`, int64(id))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Item{}, storage.ErrNotFound
	}
	if err != nil {
		return engine.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item record. Deleting a missing item is not an error.
func (s *Store) DeleteItem(ctx context.Context, id uint64) error {
	if _, err := s.q().ExecContext(ctx, `DELETE FROM items WHERE id = ?`, int64(id)); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ListItems returns the owner's items in insertion order.
func (s *Store) ListItems(ctx context.Context, owner uuid.UUID) ([]engine.Item, error) {
	rows, err := s.q().QueryContext(ctx, `
SELECT id, owner_id, category, power_value, planted
FROM items WHERE owner_id = ?
ORDER BY position ASC
`, owner.String())
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []engine.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// NextItemID returns the first unused item id.
func (s *Store) NextItemID(ctx context.Context) (uint64, error) {
	var next int64
	row := s.q().QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM items`)
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("next item id: %w", err)
	}
	return uint64(next), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (engine.Item, error) {
	var (
		item       engine.Item
		id         int64
		rawOwner   string
		category   int
		powerValue int64
	)
	if err := row.Scan(&id, &rawOwner, &category, &powerValue, &item.Planted); err != nil {
		return engine.Item{}, err
	}
	owner, err := uuid.Parse(rawOwner)
	if err != nil {
		return engine.Item{}, fmt.Errorf("item owner: %w", err)
	}
	if category < 0 || category > 255 {
		return engine.Item{}, fmt.Errorf("item category: %w", loot.ErrUnknownCategory)
	}
	cat, err := loot.CategoryFromIndex(uint8(category))
	if err != nil {
		return engine.Item{}, fmt.Errorf("item category: %w", err)
	}
	item.ID = uint64(id)
	item.Owner = owner
	item.Category = cat
	item.PowerValue = uint64(powerValue)
	return item, nil
}
