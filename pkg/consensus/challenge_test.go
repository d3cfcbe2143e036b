package consensus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/consensus/mocks"
	"github.com/tcfw/rewardchain/pkg/storage"
)

func TestChallengeAccept(t *testing.T) {
	auth := mocks.NewAuthority(t)
	b, err := consensus.NewChallengeBook(5*time.Minute, 4, auth)
	require.NoError(t, err)

	c := b.Open("A", 5000, epoch)
	assert.Equal(t, epoch.Add(5*time.Minute), c.Expiry)
	assert.Equal(t, consensus.ChallengePending, c.Status)

	payload := consensus.AcceptancePayload(c.ID, "A")
	assert.Equal(t, "ACCEPTANCE-"+c.ID+"-A", string(payload))

	auth.On("Verify", storage.ParticipantID("A"), payload, "good").Return(true)
	auth.On("Verify", storage.ParticipantID("A"), payload, "bad").Return(false)

	_, err = b.Accept(c.ID, "B", "good", epoch.Add(time.Minute))
	assert.ErrorIs(t, err, consensus.ErrInvalidAcceptance)

	_, err = b.Accept(c.ID, "A", "bad", epoch.Add(time.Minute))
	assert.ErrorIs(t, err, consensus.ErrInvalidAcceptance)

	acc, err := b.Accept(c.ID, "A", "good", epoch.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, consensus.ChallengeAccepted, acc.Status)
	assert.Equal(t, "good", acc.Signature)
	assert.Equal(t, epoch.Add(time.Minute), acc.AcceptedAt)

	_, err = b.Accept(c.ID, "A", "good", epoch.Add(2*time.Minute))
	assert.ErrorIs(t, err, consensus.ErrChallengeNotPending)

	got, err := b.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, consensus.ChallengeAccepted, got.Status)
}

func TestChallengeAcceptExpired(t *testing.T) {
	b, err := consensus.NewChallengeBook(5*time.Minute, 4, mocks.NewAuthority(t))
	require.NoError(t, err)

	c := b.Open("A", 1, epoch)

	got, err := b.Accept(c.ID, "A", "sig", c.Expiry)
	assert.ErrorIs(t, err, consensus.ErrChallengeExpired)
	assert.Equal(t, consensus.ChallengeExpired, got.Status)

	_, err = b.Accept(c.ID, "A", "sig", epoch)
	assert.ErrorIs(t, err, consensus.ErrChallengeExpired)
}

func TestChallengeExpireSweep(t *testing.T) {
	b, err := consensus.NewChallengeBook(5*time.Minute, 4, mocks.NewAuthority(t))
	require.NoError(t, err)

	early := b.Open("A", 1, epoch)
	late := b.Open("B", 1, epoch.Add(2*time.Minute))

	expired := b.Expire(epoch.Add(5 * time.Minute))
	require.Len(t, expired, 1)
	assert.Equal(t, early.ID, expired[0].ID)

	got, err := b.Get(late.ID)
	require.NoError(t, err)
	assert.Equal(t, consensus.ChallengePending, got.Status)

	assert.Empty(t, b.Expire(epoch.Add(5*time.Minute)))
}

func TestChallengeNotFound(t *testing.T) {
	b, err := consensus.NewChallengeBook(time.Minute, 1, nil)
	require.NoError(t, err)

	_, err = b.Get("missing")
	assert.ErrorIs(t, err, consensus.ErrChallengeNotFound)

	_, err = b.Accept("missing", "A", "", epoch)
	assert.ErrorIs(t, err, consensus.ErrChallengeNotFound)

	_, err = consensus.NewChallengeBook(0, 1, nil)
	assert.Error(t, err)
}

func TestChallengeStatusString(t *testing.T) {
	assert.Equal(t, "pending", consensus.ChallengePending.String())
	assert.Equal(t, "accepted", consensus.ChallengeAccepted.String())
	assert.Equal(t, "expired", consensus.ChallengeExpired.String())
}
