package consensus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tcfw/rewardchain/pkg/consensus"
)

func TestCycleDue(t *testing.T) {
	c := consensus.NewCycle("a", 30*time.Minute, epoch)

	assert.Equal(t, "a", c.Name())
	assert.Equal(t, epoch, c.LastFire())
	assert.False(t, c.Due(epoch))
	assert.False(t, c.Due(epoch.Add(30*time.Minute-time.Nanosecond)))
	assert.True(t, c.Due(epoch.Add(30*time.Minute)))
}
