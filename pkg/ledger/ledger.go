package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/rewardchain/internal/utils/logging"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/hashing"
	"github.com/tcfw/rewardchain/pkg/storage"
)

// Signer authorizes stamped blocks.
type Signer interface {
	Sign(payload []byte) (string, error)
}

// Persister receives the full chain after every stamp.
type Persister interface {
	Persist(context.Context, []*storage.Block) error
}

// Ledger is the only writer of the chain. Stamps are serialized; each one
// reads the current tip, links to it and advances the difficulty.
type Ledger struct {
	mu        sync.Mutex
	persistMu sync.Mutex

	store      storage.Store
	filter     *storage.RewardFilter
	difficulty decimal.Decimal
	increment  decimal.Decimal

	signer    Signer
	persister Persister
	clock     clock.Clock
	logger    *logrus.Entry
}

// New restores the ledger from store. A chain that fails verification is
// reported as storage.ErrChainCorruption.
func New(ctx context.Context, store storage.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:      store,
		filter:     storage.NewRewardFilter(),
		difficulty: decimal.NewFromFloat(DefaultInitialDifficulty),
		increment:  decimal.NewFromFloat(DefaultDifficultyIncrement),
		clock:      clock.New(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, errors.Wrap(err, "applying option")
		}
	}

	if l.logger == nil {
		l.logger = logging.Component("ledger")
	}

	if err := l.restore(ctx); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) restore(ctx context.Context) error {
	blocks, err := l.store.Blocks(ctx)
	if err != nil {
		return errors.Wrap(err, "loading blocks")
	}

	if len(blocks) == 0 {
		return nil
	}

	if err := storage.VerifyChain(blocks); err != nil {
		if errors.Is(err, storage.ErrChainCorruption) {
			return err
		}
		return errors.Wrapf(storage.ErrChainCorruption, "restoring chain: %s", err)
	}

	for _, b := range blocks {
		l.filter.Add(b.SeedOrChallenge)
	}

	last := blocks[len(blocks)-1]
	l.difficulty = decimal.NewFromFloat(last.Difficulty).Add(l.increment)

	l.logger.WithField("height", last.Index).WithField("blocks", len(blocks)).Info("restored chain")

	return nil
}

// Difficulty is the difficulty the next block will carry.
func (l *Ledger) Difficulty() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.difficulty.InexactFloat64()
}

func (l *Ledger) Last(ctx context.Context) (*storage.Block, error) {
	return l.store.LastBlock(ctx)
}

func (l *Ledger) Blocks(ctx context.Context) ([]*storage.Block, error) {
	return l.store.Blocks(ctx)
}

// Verify checks the stored chain end to end.
func (l *Ledger) Verify(ctx context.Context) error {
	blocks, err := l.store.Blocks(ctx)
	if err != nil {
		return errors.Wrap(err, "loading blocks")
	}

	return storage.VerifyChain(blocks)
}

// Genesis appends the index 0 block. It fails with ErrChainNotEmpty once any
// block exists.
func (l *Ledger) Genesis(ctx context.Context) (*storage.Block, error) {
	l.mu.Lock()

	last, err := l.store.LastBlock(ctx)
	if err != nil {
		l.mu.Unlock()
		return nil, errors.Wrap(err, "reading tip")
	}
	if last != nil {
		l.mu.Unlock()
		return nil, ErrChainNotEmpty
	}

	b := storage.NewGenesisBlock(l.clock.Now(), l.difficulty.InexactFloat64())
	if err := l.seal(b); err != nil {
		l.mu.Unlock()
		return nil, err
	}

	if err := l.commit(ctx, b); err != nil {
		l.mu.Unlock()
		return nil, err
	}

	l.mu.Unlock()

	l.persist(ctx)

	return b, nil
}

// Stamp appends a block rewarding w on top of the current tip.
func (l *Ledger) Stamp(ctx context.Context, w *consensus.WinnerRecord) (*storage.Block, error) {
	if w == nil {
		return nil, ErrNoWinner
	}

	if w.Challenge != nil && w.Challenge.Status == consensus.ChallengeExpired {
		return nil, errors.Wrapf(consensus.ErrChallengeExpired, "challenge %s", w.Challenge.ID)
	}

	b, err := l.stamp(ctx, w)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logging.Fields{
		"index":  b.Index,
		"winner": b.Winner,
		"kind":   b.RewardKind.String(),
		"amount": b.RewardAmount,
	}).Info("stamped block")

	l.persist(ctx)

	return b, nil
}

func (l *Ledger) stamp(ctx context.Context, w *consensus.WinnerRecord) (*storage.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, err := l.store.LastBlock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading tip")
	}
	if prev == nil {
		prev = storage.SyntheticPredecessor()
	}

	if !hashing.ValidHash(prev.IntegrityHash) {
		return nil, errors.Wrapf(storage.ErrChainCorruption, "tip %d has a malformed integrity hash", prev.Index)
	}

	dup, err := l.stamped(ctx, w.SeedOrChallenge)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, errors.Wrapf(ErrDuplicateReward, "%s", w.SeedOrChallenge)
	}

	b, err := stampBlock(prev, w, l.difficulty.InexactFloat64(), l.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := l.authorize(b); err != nil {
		return nil, err
	}

	if err := l.commit(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// commit must be called with mu held.
func (l *Ledger) commit(ctx context.Context, b *storage.Block) error {
	if _, err := l.store.PutBlock(ctx, b); err != nil {
		return errors.Wrap(err, "storing block")
	}

	l.filter.Add(b.SeedOrChallenge)
	l.difficulty = l.difficulty.Add(l.increment)

	return nil
}

// stamped confirms a filter hit against the stored chain.
func (l *Ledger) stamped(ctx context.Context, seed string) (bool, error) {
	if !l.filter.MayContain(seed) {
		return false, nil
	}

	blocks, err := l.store.Blocks(ctx)
	if err != nil {
		return false, errors.Wrap(err, "loading blocks")
	}

	for _, b := range blocks {
		if b.SeedOrChallenge == seed {
			return true, nil
		}
	}

	return false, nil
}

func (l *Ledger) seal(b *storage.Block) error {
	h, err := hashing.IntegrityHash(b.CanonicalFields())
	if err != nil {
		return errors.Wrap(err, "hashing block")
	}

	b.IntegrityHash = h
	b.LockSignature = hashing.LockSignature(h, b.Difficulty, b.RewardKind.String())

	return l.authorize(b)
}

func (l *Ledger) authorize(b *storage.Block) error {
	if l.signer == nil {
		return nil
	}

	sig, err := l.signer.Sign([]byte(b.IntegrityHash))
	if err != nil {
		return errors.Wrap(err, "authorizing block")
	}
	b.Authorization = sig

	return nil
}

// persist hands the chain to the persister. Failures are logged only.
func (l *Ledger) persist(ctx context.Context) {
	if l.persister == nil {
		return
	}

	l.persistMu.Lock()
	defer l.persistMu.Unlock()

	blocks, err := l.store.Blocks(ctx)
	if err == nil {
		err = l.persister.Persist(ctx, blocks)
	}
	if err != nil {
		l.logger.WithError(err).Warn("persisting chain")
	}
}

// stampBlock builds the block extending prev. It does not touch any state.
func stampBlock(prev *storage.Block, w *consensus.WinnerRecord, difficulty float64, now time.Time) (*storage.Block, error) {
	b := &storage.Block{
		Index:           prev.Index + 1,
		CreatedAt:       now.UTC().Round(0),
		PreviousHash:    prev.IntegrityHash,
		Difficulty:      difficulty,
		Winner:          w.Participant,
		RewardKind:      w.Kind,
		RewardAmount:    w.Amount,
		SeedOrChallenge: w.SeedOrChallenge,
	}

	if w.SeedMatch != nil {
		p := *w.SeedMatch
		b.SeedMatch = &p
	}
	if w.Traffic != nil {
		p := *w.Traffic
		p.ChallengeExpiry = p.ChallengeExpiry.UTC().Round(0)
		b.Traffic = &p
	}

	h, err := hashing.IntegrityHash(b.CanonicalFields())
	if err != nil {
		return nil, errors.Wrap(err, "hashing block")
	}

	b.IntegrityHash = h
	b.LockSignature = hashing.LockSignature(h, difficulty, b.RewardKind.String())

	return b, nil
}
