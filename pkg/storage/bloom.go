package storage

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	rewardFilterEstimate = 100000
	falsePositive        = 0.01
)

// RewardFilter remembers which seed or challenge values have already been
// stamped. A negative answer is definitive; a positive one must be confirmed.
type RewardFilter struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

func NewRewardFilter() *RewardFilter {
	return &RewardFilter{
		f: bloom.NewWithEstimates(rewardFilterEstimate, falsePositive),
	}
}

func (r *RewardFilter) Add(seed string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.f.AddString(seed)
}

func (r *RewardFilter) MayContain(seed string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.f.TestString(seed)
}
