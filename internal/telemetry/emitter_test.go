package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/storage"
)

type captureStore struct {
	events []storage.TelemetryEvent
}

func (c *captureStore) AppendTelemetryEvent(_ context.Context, evt storage.TelemetryEvent) error {
	c.events = append(c.events, evt)
	return nil
}

func TestEmitStampsTimestamp(t *testing.T) {
	store := &captureStore{}
	e := NewEmitter(store)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	e.clock = func() time.Time { return fixed }

	evt := storage.TelemetryEvent{Kind: KindClaim, Actor: uuid.New()}
	if err := e.Emit(context.Background(), evt); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if len(store.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(store.events))
	}
	if !store.events[0].Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", store.events[0].Timestamp, fixed)
	}
}

func TestEmitKeepsExplicitTimestamp(t *testing.T) {
	store := &captureStore{}
	e := NewEmitter(store)
	explicit := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	evt := storage.TelemetryEvent{Kind: KindEviction, Timestamp: explicit}
	if err := e.Emit(context.Background(), evt); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !store.events[0].Timestamp.Equal(explicit) {
		t.Errorf("Timestamp = %v, want %v", store.events[0].Timestamp, explicit)
	}
}

func TestEmitNilStoreIsNoOp(t *testing.T) {
	e := NewEmitter(nil)
	if err := e.Emit(context.Background(), storage.TelemetryEvent{Kind: KindLevelUp}); err != nil {
		t.Errorf("Emit() with nil store error = %v", err)
	}
	var nilEmitter *Emitter
	if err := nilEmitter.Emit(context.Background(), storage.TelemetryEvent{}); err != nil {
		t.Errorf("Emit() on nil emitter error = %v", err)
	}
}
