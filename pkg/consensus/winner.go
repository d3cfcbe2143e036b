package consensus

import (
	"github.com/tcfw/rewardchain/pkg/storage"
)

// WinnerRecord is what a mechanism hands to the ledger.
type WinnerRecord struct {
	Participant     storage.ParticipantID
	Kind            storage.RewardKind
	Amount          uint64
	SeedOrChallenge string

	SeedMatch *storage.SeedMatchPayload
	Traffic   *storage.TrafficPayload

	// Challenge is set for traffic volume winners.
	Challenge *Challenge
}

// WithChallenge returns a copy of w carrying c and its current status.
func (w *WinnerRecord) WithChallenge(c Challenge) *WinnerRecord {
	cp := *w
	cp.Challenge = &c

	if w.Traffic != nil {
		t := *w.Traffic
		t.ChallengeStatus = c.Status.String()
		cp.Traffic = &t
	}

	return &cp
}
