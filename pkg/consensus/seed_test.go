package consensus_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/hashing"
)

func TestSeedGenerator(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(epoch)

	g := consensus.NewSeedGenerator(clk, rand.New(rand.NewSource(1)))
	f := g.Current()

	assert.Len(t, f.TargetValue, hashing.HashLength)
	assert.True(t, hashing.ValidHash(f.TargetValue))
	assert.Len(t, f.ID, 16)
	assert.Equal(t, hashing.SHA256Hex(f.TargetValue)[:16], f.ID)
	assert.Len(t, f.LockSignature, 64)
	assert.Equal(t, epoch, f.GeneratedAt)
	assert.Contains(t, []consensus.Algorithm{
		consensus.HighThroughput,
		consensus.LowLatency,
		consensus.DenseTopology,
		consensus.RandomizedNoise,
	}, f.Algorithm)
	assert.Greater(t, f.ComplexityFactor, 1.0)

	//stable until regenerated
	assert.Equal(t, f, g.Current())

	clk.Add(time.Minute)
	n := g.Regenerate()
	assert.NotEqual(t, f.TargetValue, n.TargetValue)
	assert.Equal(t, n, g.Current())
}

func TestSeedGeneratorDeterministic(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(epoch)

	a := consensus.NewSeedGenerator(clk, rand.New(rand.NewSource(7)))
	b := consensus.NewSeedGenerator(clk, rand.New(rand.NewSource(7)))

	assert.Equal(t, a.Current(), b.Current())
}
