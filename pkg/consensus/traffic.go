package consensus

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/rewardchain/pkg/storage"
)

// TrafficVolume rewards the verified participant moving the most packets and
// opens a challenge for it.
type TrafficVolume struct {
	settings

	cycle      *Cycle
	traffic    TrafficProvider
	verifier   Verifier
	challenges *ChallengeBook
}

func NewTrafficVolume(cycle *Cycle, traffic TrafficProvider, verifier Verifier, challenges *ChallengeBook, opts ...Option) (*TrafficVolume, error) {
	t := &TrafficVolume{
		settings: settings{
			reward: DefaultTrafficReward,
		},
		cycle:      cycle,
		traffic:    traffic,
		verifier:   verifier,
		challenges: challenges,
	}

	if err := applyOptions(&t.settings, "traffic_volume", opts); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *TrafficVolume) Cycle() *Cycle {
	return t.cycle
}

func (t *TrafficVolume) Challenges() *ChallengeBook {
	return t.challenges
}

// Rearm makes the cycle due again, used when a winner's challenge expired
// before it could be stamped.
func (t *TrafficVolume) Rearm() {
	t.cycle.rearm()
}

type candidate struct {
	participant storage.ParticipantID
	metrics     *Metrics
	report      *Report
}

// Run evaluates one round. Unverified participants are dropped; among the
// rest the strictly highest packet total wins and ties go to the earliest in
// directory order.
func (t *TrafficVolume) Run(ctx context.Context, now time.Time, participants []storage.ParticipantID) (*WinnerRecord, error) {
	if !t.cycle.Due(now) || len(participants) == 0 {
		return nil, nil
	}

	reports, err := collectReports(ctx, t.verifier, participants, t.logger)
	if err != nil {
		return nil, errors.Wrap(err, "verifying participants")
	}

	metrics, err := collectMetrics(ctx, t.traffic, participants)
	if err != nil {
		return nil, errors.Wrap(err, "collecting traffic")
	}

	var best *candidate
	for i, p := range participants {
		r := reports[i]
		if r == nil || r.Participant != p || !r.Verified {
			continue
		}

		if best == nil || metrics[i].Total() > best.metrics.Total() {
			best = &candidate{participant: p, metrics: metrics[i], report: r}
		}
	}

	if best == nil {
		t.logger.Debug("no verified participants")
		return nil, nil
	}

	total := best.metrics.Total()
	c := t.challenges.Open(best.participant, total, now)
	t.cycle.fire(now)

	t.logger.WithField("winner", best.participant).WithField("packets", total).WithField("challenge", c.ID).Info("traffic volume winner")

	w := &WinnerRecord{
		Participant:     best.participant,
		Kind:            storage.RewardKindTrafficVolume,
		Amount:          t.reward,
		SeedOrChallenge: c.ID,
		Traffic: &storage.TrafficPayload{
			ChallengeID:     c.ID,
			ChallengeExpiry: c.Expiry,
			PacketsIn:       best.metrics.PacketsIn,
			PacketsOut:      best.metrics.PacketsOut,
			PacketCount:     total,
			LatencyMs:       best.metrics.LatencyMs,
			ProofToken:      best.report.ProofToken,
			Degraded:        best.report.Degraded,
		},
	}

	return w.WithChallenge(c), nil
}
