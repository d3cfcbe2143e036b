package consensus

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/rewardchain/pkg/storage"
)

// SeedMatch rewards the first participant whose proof hash shares a prefix
// with the current seed target.
type SeedMatch struct {
	settings

	cycle   *Cycle
	seeds   SeedSource
	traffic TrafficProvider
}

func NewSeedMatch(cycle *Cycle, seeds SeedSource, traffic TrafficProvider, opts ...Option) (*SeedMatch, error) {
	s := &SeedMatch{
		settings: settings{
			reward:       DefaultSeedReward,
			prefixLength: DefaultPrefixLength,
		},
		cycle:   cycle,
		seeds:   seeds,
		traffic: traffic,
	}

	if err := applyOptions(&s.settings, "seed_match", opts); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SeedMatch) Cycle() *Cycle {
	return s.cycle
}

func (s *SeedMatch) Seeds() SeedSource {
	return s.seeds
}

// Run evaluates one round. It returns a nil record when the cycle is not due
// or no participant matches; the timer is only reset on a win.
func (s *SeedMatch) Run(ctx context.Context, now time.Time, participants []storage.ParticipantID) (*WinnerRecord, error) {
	if !s.cycle.Due(now) || len(participants) == 0 {
		return nil, nil
	}

	frame := s.seeds.Current()
	prefix := frame.TargetValue
	if len(prefix) > s.prefixLength {
		prefix = prefix[:s.prefixLength]
	}

	metrics, err := collectMetrics(ctx, s.traffic, participants)
	if err != nil {
		return nil, errors.Wrap(err, "collecting proofs")
	}

	for i, m := range metrics {
		winner := participants[i]
		if len(m.ProofHash) < len(prefix) || !strings.HasPrefix(m.ProofHash, prefix) {
			continue
		}

		s.seeds.Regenerate()
		s.cycle.fire(now)

		s.logger.WithField("winner", winner).WithField("frame", frame.ID).Info("seed match found")

		return &WinnerRecord{
			Participant:     winner,
			Kind:            storage.RewardKindSeedMatch,
			Amount:          s.reward,
			SeedOrChallenge: frame.TargetValue,
			SeedMatch: &storage.SeedMatchPayload{
				FrameID:          frame.ID,
				Algorithm:        string(frame.Algorithm),
				ComplexityFactor: frame.ComplexityFactor,
				ProofHash:        m.ProofHash,
				PacketCount:      m.Total(),
			},
		}, nil
	}

	s.logger.WithField("frame", frame.ID).Debug("no seed match")

	return nil, nil
}
