package archive

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/orchardworks/grove/internal/engine"
	"github.com/orchardworks/grove/internal/loot"
)

// FromParticipant converts an engine participant into its snapshot form.
func FromParticipant(p engine.Participant) ParticipantV1 {
	out := ParticipantV1{
		ID:                     p.ID.String(),
		Power:                  p.Power,
		LastAccrual:            p.LastAccrual,
		ReferralExempt:         p.ReferralExempt,
		PendingReferralBalance: p.PendingReferralBalance,
		Level:                  p.Level,
		CumulativePurchases:    p.CumulativePurchases,
	}
	if p.ReferrerL1 != uuid.Nil {
		out.ReferrerL1 = p.ReferrerL1.String()
	}
	if p.ReferrerL2 != uuid.Nil {
		out.ReferrerL2 = p.ReferrerL2.String()
	}
	return out
}

// ToParticipant converts the snapshot form back into an engine participant.
func (p ParticipantV1) ToParticipant() (engine.Participant, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return engine.Participant{}, fmt.Errorf("participant id %q: %w", p.ID, err)
	}
	out := engine.Participant{
		ID:                     id,
		Power:                  p.Power,
		LastAccrual:            p.LastAccrual,
		ReferralExempt:         p.ReferralExempt,
		PendingReferralBalance: p.PendingReferralBalance,
		Level:                  p.Level,
		CumulativePurchases:    p.CumulativePurchases,
	}
	if p.ReferrerL1 != "" {
		if out.ReferrerL1, err = uuid.Parse(p.ReferrerL1); err != nil {
			return engine.Participant{}, fmt.Errorf("referrer l1 %q: %w", p.ReferrerL1, err)
		}
	}
	if p.ReferrerL2 != "" {
		if out.ReferrerL2, err = uuid.Parse(p.ReferrerL2); err != nil {
			return engine.Participant{}, fmt.Errorf("referrer l2 %q: %w", p.ReferrerL2, err)
		}
	}
	return out, nil
}

// FromItem converts an engine item into its snapshot form.
func FromItem(item engine.Item) ItemV1 {
	return ItemV1{
		ID:         item.ID,
		Owner:      item.Owner.String(),
		Category:   item.Category.String(),
		PowerValue: item.PowerValue,
		Planted:    item.Planted,
	}
}

// ToItem converts the snapshot form back into an engine item.
func (i ItemV1) ToItem() (engine.Item, error) {
	owner, err := uuid.Parse(i.Owner)
	if err != nil {
		return engine.Item{}, fmt.Errorf("item owner %q: %w", i.Owner, err)
	}
	category, err := loot.ParseCategory(i.Category)
	if err != nil {
		return engine.Item{}, fmt.Errorf("item %d: %w", i.ID, err)
	}
	return engine.Item{
		ID:         i.ID,
		Owner:      owner,
		Category:   category,
		PowerValue: i.PowerValue,
		Planted:    i.Planted,
	}, nil
}
