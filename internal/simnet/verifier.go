package simnet

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tcfw/rewardchain/internal/coinflip"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/hashing"
	"github.com/tcfw/rewardchain/pkg/storage"
)

const (
	pingSamples    = 4
	minPingLatency = 20.0
	maxPingLatency = 150.0
	portsHashChars = 10
	degradedPrefix = "NonceExceeded-"
)

var _ consensus.Verifier = (*Verifier)(nil)

type VerifierConfig struct {
	PingSuccess      float64
	ServiceSuccess   float64
	PowPrefix        string
	PowMaxIterations int
}

func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		PingSuccess:      0.9,
		ServiceSuccess:   0.9,
		PowPrefix:        "000",
		PowMaxIterations: 10000,
	}
}

// Verifier simulates a liveness ping, a service scan and a bounded proof of
// work over the collected data.
type Verifier struct {
	coin *coinflip.Coin
	cfg  VerifierConfig
}

func NewVerifier(coin *coinflip.Coin, cfg VerifierConfig) *Verifier {
	return &Verifier{coin: coin, cfg: cfg}
}

func (v *Verifier) Verify(ctx context.Context, id storage.ParticipantID) (*consensus.Report, error) {
	alive := v.coin.Chance(v.cfg.PingSuccess)

	var latencies []string
	avg := 0.0
	if alive {
		sum := 0.0
		for i := 0; i < pingSamples; i++ {
			l := v.coin.Uniform(minPingLatency, maxPingLatency)
			sum += l
			latencies = append(latencies, fmt.Sprintf("%.3f", l))
		}
		avg = math.Round(sum/pingSamples*1000) / 1000
	}

	running := v.coin.Chance(v.cfg.ServiceSuccess)
	ports := hashing.SHA256Hex(fmt.Sprintf("%s-%t", id, running))[:portsHashChars]

	verified := alive && running
	input := fmt.Sprintf("%s-%s-%s-%t", id, strings.Join(latencies, ","), ports, verified)

	token, degraded, err := ProofOfWork(ctx, input, v.cfg.PowPrefix, v.cfg.PowMaxIterations)
	if err != nil {
		return nil, err
	}

	return &consensus.Report{
		Participant:  id,
		Verified:     verified,
		ProofToken:   token,
		Degraded:     degraded,
		LatencyAvgMs: avg,
	}, nil
}

// ProofOfWork searches for a nonce whose hash starts with prefix, trying at
// most maxIterations nonces. When none is found it returns a degraded token
// built from the last hash.
func ProofOfWork(ctx context.Context, input, prefix string, maxIterations int) (token string, degraded bool, err error) {
	var h string
	for nonce := 0; nonce < maxIterations; nonce++ {
		if nonce%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return "", false, err
			}
		}

		h = hashing.SHA256Hex(fmt.Sprintf("%s%d", input, nonce))
		if strings.HasPrefix(h, prefix) {
			return h, false, nil
		}
	}

	if h == "" {
		h = hashing.SHA256Hex(input)
	}

	return degradedPrefix + h[:10], true, nil
}
