package consensus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/consensus/mocks"
	"github.com/tcfw/rewardchain/pkg/storage"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedSeeds struct {
	frame       consensus.SeedFrame
	regenerated int
}

func (f *fixedSeeds) Current() consensus.SeedFrame { return f.frame }

func (f *fixedSeeds) Regenerate() consensus.SeedFrame {
	f.regenerated++
	f.frame.TargetValue = "fffff" + f.frame.TargetValue[5:]
	return f.frame
}

func newFixedSeeds(target string) *fixedSeeds {
	return &fixedSeeds{frame: consensus.SeedFrame{
		ID:               "0123456789abcdef",
		Algorithm:        consensus.LowLatency,
		ComplexityFactor: 1.25,
		TargetValue:      target,
		GeneratedAt:      epoch,
	}}
}

func ids(names ...string) []storage.ParticipantID {
	out := make([]storage.ParticipantID, 0, len(names))
	for _, n := range names {
		out = append(out, storage.ParticipantID(n))
	}
	return out
}

func withTraffic(tp *mocks.TrafficProvider, p string, in, out uint64, proof string) {
	tp.On("Metrics", mock.Anything, storage.ParticipantID(p)).Maybe().Return(&consensus.Metrics{
		Participant: storage.ParticipantID(p),
		PacketsIn:   in,
		PacketsOut:  out,
		ProofHash:   proof,
		LatencyMs:   42,
	}, nil)
}

func withReport(v *mocks.Verifier, p string, verified bool) {
	v.On("Verify", mock.Anything, storage.ParticipantID(p)).Maybe().Return(&consensus.Report{
		Participant:  storage.ParticipantID(p),
		Verified:     verified,
		ProofToken:   "000abc" + p,
		LatencyAvgMs: 30,
	}, nil)
}

func newBook(t *testing.T) *consensus.ChallengeBook {
	b, err := consensus.NewChallengeBook(consensus.DefaultChallengeTTL, 16, mocks.NewAuthority(t))
	if err != nil {
		t.Fatal(err)
	}
	return b
}
