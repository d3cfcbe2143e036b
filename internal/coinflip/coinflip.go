package coinflip

import (
	"math/rand"
	"sync"
	"time"
)

// Coin is a goroutine safe random source for simulated collaborators.
type Coin struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New seeds a coin. A zero seed uses the current time.
func New(seed int64) *Coin {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Coin{r: rand.New(rand.NewSource(seed))}
}

func (c *Coin) Flip() bool {
	return c.Intn(2) == 0
}

// Chance returns true with probability p.
func (c *Coin) Chance(p float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.r.Float64() < p
}

func (c *Coin) Intn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.r.Intn(n)
}

// Between returns an integer in [min, max].
func (c *Coin) Between(min, max int) int {
	return min + c.Intn(max-min+1)
}

// Uniform returns a float in [min, max).
func (c *Coin) Uniform(min, max float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return min + c.r.Float64()*(max-min)
}

func (c *Coin) Uint64() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.r.Uint64()
}

// Rand returns a generator seeded from the coin, for consumers that need
// their own *rand.Rand.
func (c *Coin) Rand() *rand.Rand {
	return rand.New(rand.NewSource(int64(c.Uint64())))
}
