package storage

import (
	"time"

	"github.com/tcfw/rewardchain/pkg/hashing"
)

const (
	GenesisParticipant ParticipantID = "genesis"
	genesisSeed                      = "genesis"
)

// NewGenesisBlock returns an unhashed block for index 0.
func NewGenesisBlock(createdAt time.Time, difficulty float64) *Block {
	return &Block{
		Index:           0,
		CreatedAt:       createdAt.UTC().Round(0),
		PreviousHash:    hashing.ZeroHash,
		Difficulty:      difficulty,
		Winner:          GenesisParticipant,
		RewardKind:      RewardKindNone,
		SeedOrChallenge: genesisSeed,
	}
}

// SyntheticPredecessor stands in for the last block of an empty chain.
func SyntheticPredecessor() *Block {
	return &Block{
		Index:         0,
		IntegrityHash: hashing.ZeroHash,
	}
}
