package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/storage"
)

// PutParticipant inserts or replaces a participant record.
func (s *Store) PutParticipant(ctx context.Context, p engine.Participant) error {
	now := s.nowMillis()
	_, err := s.q().ExecContext(ctx, `
INSERT INTO participants (
    id, power, last_accrual, referrer_l1, referrer_l2, referral_exempt,
    pending_referral_balance, level, cumulative_purchases, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    power = excluded.power,
    last_accrual = excluded.last_accrual,
    referrer_l1 = excluded.referrer_l1,
    referrer_l2 = excluded.referrer_l2,
    referral_exempt = excluded.referral_exempt,
    pending_referral_balance = excluded.pending_referral_balance,
    level = excluded.level,
    cumulative_purchases = excluded.cumulative_purchases,
    updated_at = excluded.updated_at
`,
		p.ID.String(),
		int64(p.Power),
		p.LastAccrual,
		toNullUUID(p.ReferrerL1),
		toNullUUID(p.ReferrerL2),
		p.ReferralExempt,
		int64(p.PendingReferralBalance),
		p.Level,
		p.CumulativePurchases,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("put participant: %w", err)
	}
	return nil
}

// GetParticipant loads a participant record.
func (s *Store) GetParticipant(ctx context.Context, id uuid.UUID) (engine.Participant, error) {
	row := s.q().QueryRowContext(ctx, `
SELECT id, power, last_accrual, referrer_l1, referrer_l2, referral_exempt,
       pending_referral_balance, level, cumulative_purchases
FROM participants WHERE id = ?
`, id.String())

	var (
		p        engine.Participant
		rawID    string
		power    int64
		pending  int64
		l1, l2   sql.NullString
	)
	err := row.Scan(&rawID, &power, &p.LastAccrual, &l1, &l2, &p.ReferralExempt,
		&pending, &p.Level, &p.CumulativePurchases)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Participant{}, storage.ErrNotFound
	}
	if err != nil {
		return engine.Participant{}, fmt.Errorf("get participant: %w", err)
	}

	if p.ID, err = uuid.Parse(rawID); err != nil {
		return engine.Participant{}, fmt.Errorf("participant id: %w", err)
	}
	if p.ReferrerL1, err = fromNullUUID(l1); err != nil {
		return engine.Participant{}, fmt.Errorf("referrer l1: %w", err)
	}
	if p.ReferrerL2, err = fromNullUUID(l2); err != nil {
		return engine.Participant{}, fmt.Errorf("referrer l2: %w", err)
	}
	p.Power = uint64(power)
	p.PendingReferralBalance = uint64(pending)
	return p, nil
}
