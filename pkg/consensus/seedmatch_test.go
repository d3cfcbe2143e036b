package consensus_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/consensus/mocks"
	"github.com/tcfw/rewardchain/pkg/storage"
)

const target = "abcde0123456789abcdef0123456789abcdef0123456789abcdef0123456789a"

func newSeedMatch(t *testing.T, seeds consensus.SeedSource, tp consensus.TrafficProvider) *consensus.SeedMatch {
	s, err := consensus.NewSeedMatch(consensus.NewCycle("seed_match", 30*time.Minute, epoch), seeds, tp)
	require.NoError(t, err)
	return s
}

func TestSeedMatchSelectsMatch(t *testing.T) {
	orders := [][]string{
		{"A", "B", "C"},
		{"B", "A", "C"},
		{"C", "B", "A"},
	}

	for _, order := range orders {
		tp := mocks.NewTrafficProvider(t)
		withTraffic(tp, "A", 100, 200, "abcde999")
		withTraffic(tp, "B", 100, 200, "abcdf000")
		withTraffic(tp, "C", 100, 200, "12345abc")

		seeds := newFixedSeeds(target)
		s := newSeedMatch(t, seeds, tp)
		now := epoch.Add(30 * time.Minute)

		w, err := s.Run(context.Background(), now, ids(order...))
		require.NoError(t, err)
		require.NotNil(t, w)

		assert.Equal(t, storage.ParticipantID("A"), w.Participant)
		assert.Equal(t, storage.RewardKindSeedMatch, w.Kind)
		assert.Equal(t, uint64(consensus.DefaultSeedReward), w.Amount)
		assert.Equal(t, target, w.SeedOrChallenge)
		assert.Equal(t, "abcde999", w.SeedMatch.ProofHash)
		assert.Equal(t, uint64(300), w.SeedMatch.PacketCount)
		assert.Equal(t, "0123456789abcdef", w.SeedMatch.FrameID)

		assert.Equal(t, 1, seeds.regenerated)
		assert.Equal(t, now, s.Cycle().LastFire())
	}
}

func TestSeedMatchFirstMatchWins(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 1, 1, "abcde111")
	withTraffic(tp, "B", 5000, 5000, "abcde222")

	s := newSeedMatch(t, newFixedSeeds(target), tp)

	w, err := s.Run(context.Background(), epoch.Add(time.Hour), ids("A", "B"))
	require.NoError(t, err)
	assert.Equal(t, storage.ParticipantID("A"), w.Participant)
}

func TestSeedMatchNoMatchKeepsTimer(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 1, 1, "00000111")
	withTraffic(tp, "B", 1, 1, "abcd")

	seeds := newFixedSeeds(target)
	s := newSeedMatch(t, seeds, tp)

	w, err := s.Run(context.Background(), epoch.Add(time.Hour), ids("A", "B"))
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.Equal(t, epoch, s.Cycle().LastFire())
	assert.Equal(t, 0, seeds.regenerated)
	assert.Equal(t, target, seeds.Current().TargetValue)
}

func TestSeedMatchNotDue(t *testing.T) {
	//no expectations: the provider must not be queried
	tp := mocks.NewTrafficProvider(t)
	s := newSeedMatch(t, newFixedSeeds(target), tp)

	w, err := s.Run(context.Background(), epoch.Add(29*time.Minute), ids("A"))
	assert.NoError(t, err)
	assert.Nil(t, w)
}

func TestSeedMatchProviderFailure(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	tp.On("Metrics", mock.Anything, storage.ParticipantID("A")).Return(nil, errors.New("boom"))

	s := newSeedMatch(t, newFixedSeeds(target), tp)

	w, err := s.Run(context.Background(), epoch.Add(time.Hour), ids("A"))
	assert.ErrorIs(t, err, consensus.ErrCollaboratorUnavailable)
	assert.Nil(t, w)
	assert.Equal(t, epoch, s.Cycle().LastFire())
}

func TestSeedMatchOptions(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 1, 1, "abc000")

	s, err := consensus.NewSeedMatch(consensus.NewCycle("seed_match", time.Minute, epoch), newFixedSeeds(target), tp,
		consensus.WithPrefixLength(3),
		consensus.WithReward(10),
	)
	require.NoError(t, err)

	w, err := s.Run(context.Background(), epoch.Add(time.Minute), ids("A"))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), w.Amount)

	_, err = consensus.NewSeedMatch(nil, nil, nil, consensus.WithPrefixLength(0))
	assert.Error(t, err)
}
