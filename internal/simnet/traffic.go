package simnet

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/tcfw/rewardchain/internal/coinflip"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/hashing"
	"github.com/tcfw/rewardchain/pkg/storage"
)

const (
	minPackets = 100
	maxPackets = 5000
	minLatency = 15.0
	maxLatency = 120.0

	minPayload = 64
	maxPayload = 1500
	minSeq     = 10000
	maxSeq     = 99999
)

var _ consensus.TrafficProvider = (*Traffic)(nil)

// Traffic produces a fresh traffic snapshot per query.
type Traffic struct {
	coin    *coinflip.Coin
	clock   clock.Clock
	queries atomic.Uint64
}

func NewTraffic(coin *coinflip.Coin, clk clock.Clock) *Traffic {
	return &Traffic{coin: coin, clock: clk}
}

func (t *Traffic) Queries() uint64 {
	return t.queries.Load()
}

func (t *Traffic) Metrics(ctx context.Context, id storage.ParticipantID) (*consensus.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.queries.Add(1)

	m := &consensus.Metrics{
		Participant: id,
		PacketsIn:   uint64(t.coin.Between(minPackets, maxPackets)),
		PacketsOut:  uint64(t.coin.Between(minPackets, maxPackets)),
		LatencyMs:   math.Round(t.coin.Uniform(minLatency, maxLatency)*100) / 100,
	}

	payload := t.coin.Between(minPayload, maxPayload)
	seq := t.coin.Between(minSeq, maxSeq)

	m.ProofHash = hashing.SHA256Hex(fmt.Sprintf("%s-%d-%d-%d-%d", id, t.clock.Now().Unix(), m.Total(), payload, seq))

	return m, nil
}
