package storage

import (
	"github.com/pkg/errors"

	"github.com/tcfw/rewardchain/pkg/hashing"
)

// VerifyBlock recomputes the integrity hash and lock signature of b.
func VerifyBlock(b *Block) error {
	if !hashing.ValidHash(b.IntegrityHash) {
		return errors.Wrapf(ErrMalformedHash, "block %d", b.Index)
	}

	h, err := hashing.IntegrityHash(b.CanonicalFields())
	if err != nil {
		return errors.Wrapf(err, "hashing block %d", b.Index)
	}

	if h != b.IntegrityHash {
		return errors.Wrapf(ErrChainCorruption, "block %d integrity hash mismatch", b.Index)
	}

	if l := hashing.LockSignature(h, b.Difficulty, b.RewardKind.String()); l != b.LockSignature {
		return errors.Wrapf(ErrChainCorruption, "block %d lock signature mismatch", b.Index)
	}

	return nil
}

// VerifyLink checks that b directly extends prev.
func VerifyLink(prev, b *Block) error {
	if b.Index != prev.Index+1 {
		return errors.Wrapf(ErrChainCorruption, "block %d follows %d", b.Index, prev.Index)
	}

	if b.PreviousHash != prev.IntegrityHash {
		return errors.Wrapf(ErrChainCorruption, "block %d previous hash mismatch", b.Index)
	}

	if b.Difficulty < prev.Difficulty {
		return errors.Wrapf(ErrChainCorruption, "block %d difficulty decreased", b.Index)
	}

	return nil
}

// VerifyChain checks every block and every link in order. The first block
// must point at the zero hash.
func VerifyChain(blocks []*Block) error {
	for i, b := range blocks {
		if err := VerifyBlock(b); err != nil {
			return err
		}

		if i == 0 {
			if b.PreviousHash != hashing.ZeroHash {
				return errors.Wrapf(ErrChainCorruption, "first block %d does not start from the zero hash", b.Index)
			}
			continue
		}

		if err := VerifyLink(blocks[i-1], b); err != nil {
			return err
		}
	}

	return nil
}
