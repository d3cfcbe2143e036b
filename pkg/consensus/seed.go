package consensus

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/tcfw/rewardchain/pkg/hashing"
)

type Algorithm string

const (
	HighThroughput   Algorithm = "HighThroughput_SHA512"
	LowLatency       Algorithm = "LowLatency_SHA256"
	DenseTopology    Algorithm = "DenseTopology_SCRAMBLE"
	RandomizedNoise  Algorithm = "RandomizedNoise_XOR"
	seedFrameIDChars           = 16
)

var algorithms = []struct {
	tag    Algorithm
	factor float64
}{
	{HighThroughput, 1.5},
	{LowLatency, 1.25},
	{DenseTopology, 1.75},
	{RandomizedNoise, 2.0},
}

// SeedFrame is the target Cycle A participants try to match.
type SeedFrame struct {
	ID               string
	Algorithm        Algorithm
	ComplexityFactor float64
	TargetValue      string
	LockSignature    string
	GeneratedAt      time.Time
}

// SeedSource hands out the current frame and replaces it after a win.
type SeedSource interface {
	Current() SeedFrame
	Regenerate() SeedFrame
}

// SeedGenerator is the default SeedSource.
type SeedGenerator struct {
	mu sync.RWMutex

	clock clock.Clock
	rnd   *rand.Rand
	frame SeedFrame
}

var _ SeedSource = (*SeedGenerator)(nil)

func NewSeedGenerator(clk clock.Clock, rnd *rand.Rand) *SeedGenerator {
	g := &SeedGenerator{clock: clk, rnd: rnd}
	g.frame = g.generate()
	return g
}

func (g *SeedGenerator) Current() SeedFrame {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.frame
}

func (g *SeedGenerator) Regenerate() SeedFrame {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.frame = g.generate()
	return g.frame
}

// generate must be called with mu held or before g is shared.
func (g *SeedGenerator) generate() SeedFrame {
	now := g.clock.Now().UTC()
	alg := algorithms[g.rnd.Intn(len(algorithms))]

	material := fmt.Sprintf("%s-%f-%016x%016x", alg.tag, float64(now.Unix())*alg.factor, g.rnd.Uint64(), g.rnd.Uint64())
	target := hashing.SHA512Hex(material)[:hashing.HashLength]

	return SeedFrame{
		ID:               hashing.SHA256Hex(target)[:seedFrameIDChars],
		Algorithm:        alg.tag,
		ComplexityFactor: alg.factor,
		TargetValue:      target,
		LockSignature:    hashing.SHA3Hex(target + "-" + now.Truncate(time.Hour).Format("2006-01-02T15")),
		GeneratedAt:      now,
	}
}
