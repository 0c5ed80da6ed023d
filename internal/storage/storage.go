// Package storage defines the persistence interfaces of the Grove host.
//
// The engine packages never touch these; the service layer loads entity
// snapshots through them, plans pure transactions, and commits every write of
// a plan atomically.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ParticipantStore persists participant records.
type ParticipantStore interface {
	PutParticipant(ctx context.Context, p engine.Participant) error
	GetParticipant(ctx context.Context, id uuid.UUID) (engine.Participant, error)
}

// ItemStore persists trees and their inventory ordering.
type ItemStore interface {
	PutItem(ctx context.Context, item engine.Item) error
	GetItem(ctx context.Context, id uint64) (engine.Item, error)
	DeleteItem(ctx context.Context, id uint64) error
	// ListItems returns the owner's items in insertion order.
	ListItems(ctx context.Context, owner uuid.UUID) ([]engine.Item, error)
	// NextItemID returns the first unused item id.
	NextItemID(ctx context.Context) (uint64, error)
}

// EconomyStore persists the singleton global economy state.
type EconomyStore interface {
	PutEconomy(ctx context.Context, g engine.GlobalEconomyState) error
	GetEconomy(ctx context.Context) (engine.GlobalEconomyState, error)
}

// TelemetryEvent is one operational event record.
type TelemetryEvent struct {
	Kind      string
	Actor     uuid.UUID
	Payload   map[string]string
	Timestamp time.Time
}

// TelemetryStore records operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// Tx is the transaction-scoped view of the store: every read inside fn sees
// the same snapshot and every write commits or rolls back as one unit.
type Tx interface {
	ParticipantStore
	ItemStore
	EconomyStore
	TelemetryStore
}

// Transactor runs a function against a transaction-scoped store.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
