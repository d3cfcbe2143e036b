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

func newTrafficVolume(t *testing.T, tp consensus.TrafficProvider, v consensus.Verifier) *consensus.TrafficVolume {
	tv, err := consensus.NewTrafficVolume(consensus.NewCycle("traffic_volume", 5*time.Minute, epoch), tp, v, newBook(t))
	require.NoError(t, err)
	return tv
}

func TestTrafficVolumeHighestWins(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 60, 60, "x")
	withTraffic(tp, "B", 2500, 2500, "y")
	withTraffic(tp, "C", 2500, 2499, "z")

	v := mocks.NewVerifier(t)
	withReport(v, "A", true)
	withReport(v, "B", true)
	withReport(v, "C", true)

	tv := newTrafficVolume(t, tp, v)
	now := epoch.Add(5 * time.Minute)

	w, err := tv.Run(context.Background(), now, ids("A", "B", "C"))
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Equal(t, storage.ParticipantID("B"), w.Participant)
	assert.Equal(t, storage.RewardKindTrafficVolume, w.Kind)
	assert.Equal(t, uint64(consensus.DefaultTrafficReward), w.Amount)
	assert.Equal(t, uint64(5000), w.Traffic.PacketCount)
	assert.Equal(t, "000abcB", w.Traffic.ProofToken)
	assert.Equal(t, "pending", w.Traffic.ChallengeStatus)

	require.NotNil(t, w.Challenge)
	assert.Equal(t, w.Challenge.ID, w.SeedOrChallenge)
	assert.Equal(t, now, w.Challenge.CreatedAt)
	assert.Equal(t, now.Add(5*time.Minute), w.Challenge.Expiry)
	assert.Equal(t, w.Challenge.Expiry, w.Traffic.ChallengeExpiry)
	assert.Equal(t, consensus.ChallengePending, w.Challenge.Status)

	c, err := tv.Challenges().Get(w.Challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.ParticipantID("B"), c.Winner)

	assert.Equal(t, now, tv.Cycle().LastFire())
}

func TestTrafficVolumeSkipsUnverified(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 60, 60, "x")
	withTraffic(tp, "B", 2500, 2500, "y")
	withTraffic(tp, "C", 2500, 2499, "z")

	v := mocks.NewVerifier(t)
	withReport(v, "A", true)
	withReport(v, "B", false)
	withReport(v, "C", true)

	tv := newTrafficVolume(t, tp, v)

	w, err := tv.Run(context.Background(), epoch.Add(time.Hour), ids("A", "B", "C"))
	require.NoError(t, err)
	assert.Equal(t, storage.ParticipantID("C"), w.Participant)
	assert.Equal(t, uint64(4999), w.Traffic.PacketCount)
}

func TestTrafficVolumeTieFirstEncountered(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 100, 100, "x")
	withTraffic(tp, "B", 150, 50, "y")

	v := mocks.NewVerifier(t)
	withReport(v, "A", true)
	withReport(v, "B", true)

	tv := newTrafficVolume(t, tp, v)

	w, err := tv.Run(context.Background(), epoch.Add(time.Hour), ids("B", "A"))
	require.NoError(t, err)
	assert.Equal(t, storage.ParticipantID("B"), w.Participant)
}

func TestTrafficVolumeVerifierErrorExcludes(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 100, 100, "x")
	withTraffic(tp, "B", 5000, 5000, "y")

	v := mocks.NewVerifier(t)
	withReport(v, "A", true)
	v.On("Verify", mock.Anything, storage.ParticipantID("B")).Return(nil, errors.New("unreachable"))

	tv := newTrafficVolume(t, tp, v)

	w, err := tv.Run(context.Background(), epoch.Add(time.Hour), ids("A", "B"))
	require.NoError(t, err)
	assert.Equal(t, storage.ParticipantID("A"), w.Participant)
}

func TestTrafficVolumeNoneVerified(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 100, 100, "x")

	v := mocks.NewVerifier(t)
	withReport(v, "A", false)

	tv := newTrafficVolume(t, tp, v)

	w, err := tv.Run(context.Background(), epoch.Add(time.Hour), ids("A"))
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.Equal(t, epoch, tv.Cycle().LastFire())
}

func TestTrafficVolumeProviderFailure(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	tp.On("Metrics", mock.Anything, storage.ParticipantID("A")).Return(nil, errors.New("boom"))

	v := mocks.NewVerifier(t)
	withReport(v, "A", true)

	tv := newTrafficVolume(t, tp, v)

	_, err := tv.Run(context.Background(), epoch.Add(time.Hour), ids("A"))
	assert.ErrorIs(t, err, consensus.ErrCollaboratorUnavailable)
}

func TestTrafficVolumeRearm(t *testing.T) {
	tp := mocks.NewTrafficProvider(t)
	withTraffic(tp, "A", 100, 100, "x")

	v := mocks.NewVerifier(t)
	withReport(v, "A", true)

	tv := newTrafficVolume(t, tp, v)
	now := epoch.Add(5 * time.Minute)

	_, err := tv.Run(context.Background(), now, ids("A"))
	require.NoError(t, err)
	assert.False(t, tv.Cycle().Due(now.Add(time.Second)))

	tv.Rearm()
	assert.True(t, tv.Cycle().Due(now.Add(time.Second)))
}
