// Package telemetry records operational events alongside state changes.
package telemetry

import (
	"context"
	"time"

	"github.com/orchardworks/grove/internal/storage"
)

// Event kinds emitted by the service layer.
const (
	KindClaim           = "claim"
	KindCrateOpened     = "crate_opened"
	KindEntropyFallback = "entropy_fallback"
	KindEviction        = "eviction"
	KindLevelUp         = "level_up"
	KindReferralLinked  = "referral_linked"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter. A nil store yields an emitter
// that drops every event, which lets callers wire telemetry unconditionally.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}
