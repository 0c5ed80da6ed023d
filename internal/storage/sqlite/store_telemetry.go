package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orchardworks/grove/internal/storage"
)

// AppendTelemetryEvent records one operational event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("encode telemetry payload: %w", err)
	}
	ts := evt.Timestamp.UTC().UnixMilli()
	if evt.Timestamp.IsZero() {
		ts = s.nowMillis()
	}
	_, err = s.q().ExecContext(ctx, `
INSERT INTO telemetry_events (kind, actor, payload, created_at)
VALUES (?, ?, ?, ?)
`, evt.Kind, evt.Actor.String(), string(payload), ts)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

// CountTelemetryEvents reports how many events of the given kind have been
// recorded. It exists for tests and the simulator's end-of-run report.
func (s *Store) CountTelemetryEvents(ctx context.Context, kind string) (int, error) {
	var n int
	row := s.q().QueryRowContext(ctx, `SELECT COUNT(*) FROM telemetry_events WHERE kind = ?`, kind)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count telemetry events: %w", err)
	}
	return n, nil
}
