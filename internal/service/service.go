// Package service applies engine plans to persistent state.
//
// Every operation follows the same shape: load the entities it touches inside
// a transaction, run a pure planner, then commit the whole plan or nothing.
// The service never mutates state that a planner has not validated first.
package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/inventory"
	"github.com/orchardworks/grove/internal/loot"
	apperrors "github.com/orchardworks/grove/internal/platform/errors"
	"github.com/orchardworks/grove/internal/progression"
	"github.com/orchardworks/grove/internal/storage"
	"github.com/orchardworks/grove/internal/tuning"
)

// Backend is the persistence surface the service needs: direct reads plus
// transactional writes.
type Backend interface {
	storage.Tx
	storage.Transactor
}

// Economy coordinates all economy operations against one store.
//
// Telemetry emitters are created per transaction so domain events commit or
// roll back together with the state change they describe.
type Economy struct {
	store  Backend
	tracer trace.Tracer
	clock  func() time.Time

	inventoryCfg inventory.Config
	schedule     progression.Schedule
	table        loot.Table
	freshness    int64 // seconds

	initialRate     uint64
	supplyCap       uint64
	halvingInterval int64

	fallbackSeq atomic.Uint64
}

// Option adjusts an Economy at construction time.
type Option func(*Economy)

// WithClock replaces the wall clock, which is how simulations and tests
// drive the economy through accrual windows and halving boundaries.
func WithClock(fn func() time.Time) Option {
	return func(e *Economy) { e.clock = fn }
}

// New builds an Economy service from validated tuning and a loaded loot
// table.
func New(store Backend, tun tuning.Tuning, table loot.Table, opts ...Option) (*Economy, error) {
	if err := table.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfiguration, "loot table", err)
	}
	invCfg, err := tun.InventoryConfig()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfiguration, "inventory bounds", err)
	}
	schedule, err := tun.Schedule()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfiguration, "level schedule", err)
	}
	e := &Economy{
		store:           store,
		tracer:          otel.Tracer("grove/service"),
		clock:           time.Now,
		inventoryCfg:    invCfg,
		schedule:        schedule,
		table:           table,
		freshness:       tun.RandomnessFreshnessSeconds,
		initialRate:     tun.InitialRate,
		supplyCap:       tun.SupplyCap,
		halvingInterval: tun.HalvingIntervalSeconds,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Bootstrap creates the global economy row when it does not exist yet. It is
// idempotent and safe to call on every start.
func (e *Economy) Bootstrap(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, "economy.bootstrap")
	defer span.End()

	return e.store.InTx(ctx, func(tx storage.Tx) error {
		_, err := tx.GetEconomy(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		now := e.clock().Unix()
		return tx.PutEconomy(ctx, engine.GlobalEconomyState{
			Rate:            e.initialRate,
			NextHalvingTime: now + e.halvingInterval,
			HalvingInterval: e.halvingInterval,
			SupplyCap:       e.supplyCap,
		})
	})
}

// RegisterParticipant creates an empty participant account. Registering an
// existing id fails so callers cannot silently reset an account.
func (e *Economy) RegisterParticipant(ctx context.Context, id uuid.UUID) error {
	ctx, span := e.tracer.Start(ctx, "economy.register_participant")
	defer span.End()

	if id == uuid.Nil {
		return apperrors.New(apperrors.CodeInvalidConfiguration, "participant id must be set")
	}
	return e.store.InTx(ctx, func(tx storage.Tx) error {
		_, err := tx.GetParticipant(ctx, id)
		if err == nil {
			return apperrors.New(apperrors.CodeInvalidConfiguration, "participant already registered")
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return tx.PutParticipant(ctx, engine.Participant{
			ID:          id,
			LastAccrual: e.clock().Unix(),
			Level:       1,
		})
	})
}

// now returns the service clock as unix seconds, the engine's time unit.
func (e *Economy) now() int64 {
	return e.clock().Unix()
}

// shedConfig bounds the participant's unplanted storage. The per-category cap
// is fixed tuning; the global cap grows with the participant's level.
func (e *Economy) shedConfig(level uint8) inventory.Config {
	cfg := e.inventoryCfg
	if c := int(e.schedule.Capacity(level)); c > 0 && c < cfg.GlobalMax {
		cfg.GlobalMax = c
	}
	return cfg
}

// restoreShed rebuilds the inventory of unplanted items. Planted trees stand
// in the orchard, not the shed, so they neither consume storage nor become
// eviction candidates.
func restoreShed(cfg inventory.Config, items []engine.Item) (*inventory.Inventory, error) {
	var entries []inventory.Entry
	for _, item := range items {
		if item.Planted {
			continue
		}
		entries = append(entries, inventory.Entry{ID: item.ID, Category: item.Category})
	}
	return inventory.Restore(cfg, entries)
}
