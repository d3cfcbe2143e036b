package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tcfw/rewardchain/pkg/hashing"
)

func seal(t *testing.T, b *Block) *Block {
	h, err := hashing.IntegrityHash(b.CanonicalFields())
	require.NoError(t, err)

	b.IntegrityHash = h
	b.LockSignature = hashing.LockSignature(h, b.Difficulty, b.RewardKind.String())

	return b
}

func makeChain(t *testing.T, n int) []*Block {
	start := time.Unix(1700000000, 0).UTC()

	blocks := []*Block{seal(t, NewGenesisBlock(start, 0.0000001))}

	for i := 1; i < n; i++ {
		prev := blocks[i-1]

		b := &Block{
			Index:           prev.Index + 1,
			CreatedAt:       start.Add(time.Duration(i) * time.Minute),
			PreviousHash:    prev.IntegrityHash,
			Difficulty:      prev.Difficulty + 0.0000001,
			Winner:          ParticipantID(fmt.Sprintf("0xNODE_%d", i)),
			RewardAmount:    150,
			SeedOrChallenge: fmt.Sprintf("challenge-%d", i),
		}

		if i%2 == 0 {
			b.RewardKind = RewardKindSeedMatch
			b.RewardAmount = 1500
			b.SeedMatch = &SeedMatchPayload{
				FrameID:          "0011223344556677",
				Algorithm:        "LowLatency_SHA256",
				ComplexityFactor: 1.25,
				ProofHash:        hashing.SHA256Hex(b.SeedOrChallenge),
				PacketCount:      uint64(1000 + i),
			}
		} else {
			b.RewardKind = RewardKindTrafficVolume
			b.Traffic = &TrafficPayload{
				ChallengeID:     b.SeedOrChallenge,
				ChallengeExpiry: b.CreatedAt.Add(5 * time.Minute),
				ChallengeStatus: "pending",
				PacketsIn:       2000,
				PacketsOut:      uint64(3000 + i),
				PacketCount:     uint64(5000 + i),
				LatencyMs:       42.5,
				ProofToken:      "000abc",
			}
		}

		blocks = append(blocks, seal(t, b))
	}

	return blocks
}
