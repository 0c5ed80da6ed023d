package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/storage"
)

// PutEconomy writes the singleton global economy row.
func (s *Store) PutEconomy(ctx context.Context, g engine.GlobalEconomyState) error {
	_, err := s.q().ExecContext(ctx, `
INSERT INTO economy (id, total_power, rate, next_halving_time, halving_interval, supply_minted, supply_cap)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    total_power = excluded.total_power,
    rate = excluded.rate,
    next_halving_time = excluded.next_halving_time,
    halving_interval = excluded.halving_interval,
    supply_minted = excluded.supply_minted,
    supply_cap = excluded.supply_cap
`,
		int64(g.TotalPower),
		int64(g.Rate),
		g.NextHalvingTime,
		g.HalvingInterval,
		int64(g.SupplyMinted),
		int64(g.SupplyCap),
	)
	if err != nil {
		return fmt.Errorf("put economy: %w", err)
	}
	return nil
}

// GetEconomy reads the singleton global economy row.
func (s *Store) GetEconomy(ctx context.Context) (engine.GlobalEconomyState, error) {
	row := s.q().QueryRowContext(ctx, `
SELECT total_power, rate, next_halving_time, halving_interval, supply_minted, supply_cap
FROM economy WHERE id = 1
`)
	var (
		g            engine.GlobalEconomyState
		totalPower   int64
		rate         int64
		supplyMinted int64
		supplyCap    int64
	)
	err := row.Scan(&totalPower, &rate, &g.NextHalvingTime, &g.HalvingInterval, &supplyMinted, &supplyCap)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.GlobalEconomyState{}, storage.ErrNotFound
	}
	if err != nil {
		return engine.GlobalEconomyState{}, fmt.Errorf("get economy: %w", err)
	}
	g.TotalPower = uint64(totalPower)
	g.Rate = uint64(rate)
	g.SupplyMinted = uint64(supplyMinted)
	g.SupplyCap = uint64(supplyCap)
	return g, nil
}
