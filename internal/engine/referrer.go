package engine

import "github.com/google/uuid"

// ReferralLink is the resolved pair of referral slots for one participant.
type ReferralLink struct {
	L1 uuid.UUID
	L2 uuid.UUID
}

// LinkReferrer resolves the two referral slots for a participant naming
// referrer as its L1.
//
// The L2 slot is copied from the referrer's own L1 at link time, which is
// what caps the cascade at depth two structurally. Self-referral and the
// only reachable cycle shape (the referrer already points back at the
// participant) fail with ErrInvalidReferralTopology; a participant whose L1
// slot is occupied fails with ErrReferrerAlreadySet.
func LinkReferrer(participant, referrer Participant) (ReferralLink, error) {
	if participant.ID == uuid.Nil || referrer.ID == uuid.Nil {
		return ReferralLink{}, ErrInvalidReferralTopology
	}
	if participant.ID == referrer.ID {
		return ReferralLink{}, ErrInvalidReferralTopology
	}
	if participant.ReferrerL1 != uuid.Nil {
		return ReferralLink{}, ErrReferrerAlreadySet
	}
	if referrer.ReferrerL1 == participant.ID {
		return ReferralLink{}, ErrInvalidReferralTopology
	}
	return ReferralLink{L1: referrer.ID, L2: referrer.ReferrerL1}, nil
}
