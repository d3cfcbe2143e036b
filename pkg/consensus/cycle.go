package consensus

import (
	"sync"
	"time"
)

// Cycle is the timer of one reward mechanism. Only the owning mechanism
// fires it.
type Cycle struct {
	mu sync.RWMutex

	name     string
	interval time.Duration
	lastFire time.Time
}

func NewCycle(name string, interval time.Duration, start time.Time) *Cycle {
	return &Cycle{
		name:     name,
		interval: interval,
		lastFire: start,
	}
}

func (c *Cycle) Name() string {
	return c.name
}

func (c *Cycle) Interval() time.Duration {
	return c.interval
}

func (c *Cycle) LastFire() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastFire
}

// Due reports whether the interval has elapsed since the last win.
func (c *Cycle) Due(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return now.Sub(c.lastFire) >= c.interval
}

func (c *Cycle) fire(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastFire = now
}

// rearm makes the cycle due on the next poll.
func (c *Cycle) rearm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastFire = time.Time{}
}
