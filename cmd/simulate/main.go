// Package main runs a deterministic multi-day economy simulation.
//
// Given a seed, the simulation drives registrations, referral links, crate
// openings, planting, and claims through the full service stack against a
// throwaway SQLite store, then prints an emission and distribution summary.
// Identical seeds over identical tuning produce identical drop sequences.
package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/loot"
	"github.com/orchardworks/grove/internal/platform/config"
	apperrors "github.com/orchardworks/grove/internal/platform/errors"
	"github.com/orchardworks/grove/internal/platform/otel"
	"github.com/orchardworks/grove/internal/random"
	"github.com/orchardworks/grove/internal/service"
	"github.com/orchardworks/grove/internal/storage/sqlite"
	"github.com/orchardworks/grove/internal/tuning"
)

func main() {
	var (
		days         int
		participants int
		seed         uint64
		dbPath       string
		verbose      bool
	)
	flag.IntVar(&days, "days", 30, "days to simulate")
	flag.IntVar(&participants, "participants", 8, "participants to register")
	flag.Uint64Var(&seed, "seed", 0, "simulation seed (0 = random)")
	flag.StringVar(&dbPath, "db", "", "SQLite path (default: throwaway temp file)")
	flag.BoolVar(&verbose, "v", false, "per-day output")
	flag.Parse()

	if err := run(days, participants, seed, dbPath, verbose); err != nil {
		config.Exitf("simulate: %v", err)
	}
}

func run(days, participants int, seed uint64, dbPath string, verbose bool) error {
	if days <= 0 || participants <= 0 {
		return errors.New("days and participants must be positive")
	}
	if seed == 0 {
		var err error
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}

	ctx := context.Background()
	shutdown, err := otel.Setup(ctx, "grove-simulate")
	if err != nil {
		return err
	}
	defer shutdown(ctx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tun, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return err
	}
	table, digest, err := loadTable(cfg.LootTablePath)
	if err != nil {
		return err
	}

	if dbPath == "" {
		dir, err := os.MkdirTemp("", "grove-simulate-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		dbPath = filepath.Join(dir, "grove.db")
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Unix(1_700_000_000, 0).UTC()
	econ, err := service.New(store, tun, table, service.WithClock(func() time.Time { return now }))
	if err != nil {
		return err
	}
	if err := econ.Bootstrap(ctx); err != nil {
		return err
	}

	fmt.Printf("seed %d, table sha256 %s\n", seed, digest)

	// Deterministic participant ids: the uuid bytes come from the seed, so a
	// rerun replays the same fallback entropy and the same referral chain.
	ids := make([]uuid.UUID, participants)
	for i := range ids {
		ids[i] = simUUID(seed, uint64(i))
		if err := econ.RegisterParticipant(ctx, ids[i]); err != nil {
			return err
		}
		if i > 0 {
			if err := econ.LinkReferrer(ctx, ids[i], ids[i-1]); err != nil {
				return err
			}
		}
	}

	for day := 0; day < days; day++ {
		for i, id := range ids {
			roll := loot.DeriveSubseed(seed, uint8((day*participants+i)%256))
			count := uint8(1 + roll%3)
			ext := simRandomness(seed, day, i, now.Unix())

			res, err := econ.OpenCrate(ctx, id, count, &ext, roll)
			if err != nil {
				return fmt.Errorf("day %d participant %d: open crate: %w", day, i, err)
			}
			for _, drop := range res.Drops {
				if err := econ.Plant(ctx, id, drop.ItemID); err != nil {
					// A later drop in the same crate may have evicted this one.
					if apperrors.CodeOf(err) == apperrors.CodeNotFound {
						continue
					}
					return fmt.Errorf("day %d participant %d: plant: %w", day, i, err)
				}
			}
		}

		now = now.Add(24 * time.Hour)
		minted := uint64(0)
		for i, id := range ids {
			res, err := econ.Claim(ctx, id)
			if err != nil {
				if apperrors.CodeOf(err) == apperrors.CodeNoRewardAvailable {
					continue
				}
				return fmt.Errorf("day %d participant %d: claim: %w", day, i, err)
			}
			minted += res.Base
		}
		if verbose {
			g, err := store.GetEconomy(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("day %3d  minted %12d  rate %10d  supply %14d\n", day+1, minted, g.Rate, g.SupplyMinted)
		}
	}

	return report(ctx, store, ids, tun, days)
}

func report(ctx context.Context, store *sqlite.Store, ids []uuid.UUID, tun tuning.Tuning, days int) error {
	g, err := store.GetEconomy(ctx)
	if err != nil {
		return err
	}
	halvings := 0
	for r := tun.InitialRate; r > g.Rate && r > 0; r >>= 1 {
		halvings++
	}

	levels := map[uint8]int{}
	totalItems := 0
	var pending uint64
	for _, id := range ids {
		p, err := store.GetParticipant(ctx, id)
		if err != nil {
			return err
		}
		levels[p.Level]++
		pending += p.PendingReferralBalance
		items, err := store.ListItems(ctx, id)
		if err != nil {
			return err
		}
		totalItems += len(items)
	}

	fmt.Printf("\n%d days, %d participants\n", days, len(ids))
	fmt.Printf("supply minted   %d / %d\n", g.SupplyMinted, g.SupplyCap)
	fmt.Printf("rate            %d (%d halvings)\n", g.Rate, halvings)
	fmt.Printf("global power    %d\n", g.TotalPower)
	fmt.Printf("items held      %d\n", totalItems)
	fmt.Printf("pending bonuses %d\n", pending)
	fmt.Printf("levels          ")
	for lvl := uint8(1); lvl <= 20; lvl++ {
		if n := levels[lvl]; n > 0 {
			fmt.Printf("L%d:%d ", lvl, n)
		}
	}
	fmt.Println()

	for _, kind := range []string{"claim", "crate_opened", "eviction", "level_up", "entropy_fallback"} {
		n, err := store.CountTelemetryEvents(ctx, kind)
		if err != nil {
			return err
		}
		fmt.Printf("events %-17s %d\n", kind, n)
	}
	return nil
}

// loadTable reads the configured loot table, falling back to the shipped
// simulation preset when none is configured.
func loadTable(path string) (loot.Table, string, error) {
	if path != "" {
		return loot.LoadFile(path)
	}
	t := loot.Table{
		Version: 1,
		Entries: []loot.Entry{
			{Category: loot.CategoryCommon, PowerValue: 5, CumulativeThreshold: 4300},
			{Category: loot.CategoryUncommon, PowerValue: 12, CumulativeThreshold: 6800},
			{Category: loot.CategoryRare, PowerValue: 30, CumulativeThreshold: 8200},
			{Category: loot.CategoryEpic, PowerValue: 75, CumulativeThreshold: 9100},
			{Category: loot.CategoryLegendary, PowerValue: 180, CumulativeThreshold: 9700},
			{Category: loot.CategoryMythic, PowerValue: 450, CumulativeThreshold: loot.Normalization},
		},
	}
	return t, "builtin-preset", t.Validate()
}

// simUUID derives a stable uuid from the seed so reruns are reproducible.
func simUUID(seed, index uint64) uuid.UUID {
	var id uuid.UUID
	binary.LittleEndian.PutUint64(id[:8], loot.DeriveSubseed(seed, uint8(index%256)))
	binary.LittleEndian.PutUint64(id[8:], loot.DeriveSubseed(seed^0xA5A5A5A5, uint8(index%256)))
	return id
}

// simRandomness builds a fresh external payload from the seed. The derived
// words are uniform enough to pass the degeneracy gate, keeping the run on
// the external-randomness path.
func simRandomness(seed uint64, day, participant int, now int64) loot.ExternalRandomness {
	var r loot.ExternalRandomness
	base := loot.DeriveSubseed(seed, uint8(day%256)) ^ loot.DeriveSubseed(uint64(participant)+1, uint8(day%256))
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(r.Bytes[i*8:], loot.DeriveSubseed(base, uint8(i)))
	}
	r.Timestamp = now
	return r
}
