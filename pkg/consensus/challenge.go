package consensus

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/tcfw/rewardchain/pkg/storage"
)

const (
	DefaultChallengeTTL   = 5 * time.Minute
	DefaultChallengeCache = 1024
)

type ChallengeStatus uint8

const (
	ChallengePending ChallengeStatus = iota
	ChallengeAccepted
	ChallengeExpired
)

func (s ChallengeStatus) String() string {
	switch s {
	case ChallengePending:
		return "pending"
	case ChallengeAccepted:
		return "accepted"
	case ChallengeExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Challenge is issued to a traffic volume winner.
type Challenge struct {
	ID          string
	Winner      storage.ParticipantID
	PacketCount uint64
	CreatedAt   time.Time
	Expiry      time.Time
	Status      ChallengeStatus
	AcceptedAt  time.Time
	Signature   string
}

// ExpiredAt reports whether the acceptance window has closed at now.
func (c Challenge) ExpiredAt(now time.Time) bool {
	return !now.Before(c.Expiry)
}

// AcceptancePayload is the message a winner signs to accept a challenge.
func AcceptancePayload(id string, addr storage.ParticipantID) []byte {
	return []byte(fmt.Sprintf("ACCEPTANCE-%s-%s", id, addr))
}

// ChallengeBook tracks open challenges. Old entries are evicted once the book
// is full.
type ChallengeBook struct {
	mu sync.Mutex

	ttl       time.Duration
	cache     *lru.Cache
	authority Authority
}

func NewChallengeBook(ttl time.Duration, size int, authority Authority) (*ChallengeBook, error) {
	if ttl <= 0 {
		return nil, errors.New("challenge ttl must be positive")
	}

	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating challenge cache")
	}

	return &ChallengeBook{
		ttl:       ttl,
		cache:     c,
		authority: authority,
	}, nil
}

func (b *ChallengeBook) TTL() time.Duration {
	return b.ttl
}

// Open creates a pending challenge expiring exactly ttl after now.
func (b *ChallengeBook) Open(winner storage.ParticipantID, packets uint64, now time.Time) Challenge {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := Challenge{
		ID:          uuid.NewString(),
		Winner:      winner,
		PacketCount: packets,
		CreatedAt:   now,
		Expiry:      now.Add(b.ttl),
		Status:      ChallengePending,
	}
	b.cache.Add(c.ID, &c)

	return c
}

func (b *ChallengeBook) get(id string) (*Challenge, error) {
	v, ok := b.cache.Get(id)
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return v.(*Challenge), nil
}

func (b *ChallengeBook) Get(id string) (Challenge, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.get(id)
	if err != nil {
		return Challenge{}, err
	}
	return *c, nil
}

// Accept records the winner's signed acceptance. A challenge found past its
// expiry is marked expired and ErrChallengeExpired is returned.
func (b *ChallengeBook) Accept(id string, addr storage.ParticipantID, sig string, now time.Time) (Challenge, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.get(id)
	if err != nil {
		return Challenge{}, err
	}

	switch c.Status {
	case ChallengeExpired:
		return *c, ErrChallengeExpired
	case ChallengeAccepted:
		return *c, ErrChallengeNotPending
	}

	if c.ExpiredAt(now) {
		c.Status = ChallengeExpired
		return *c, ErrChallengeExpired
	}

	if addr != c.Winner {
		return *c, errors.Wrapf(ErrInvalidAcceptance, "%s is not the winner", addr)
	}

	if b.authority == nil || !b.authority.Verify(addr, AcceptancePayload(id, addr), sig) {
		return *c, errors.Wrap(ErrInvalidAcceptance, "bad signature")
	}

	c.Status = ChallengeAccepted
	c.AcceptedAt = now
	c.Signature = sig

	return *c, nil
}

// Expire marks every pending challenge past its expiry as expired and returns
// them.
func (b *ChallengeBook) Expire(now time.Time) []Challenge {
	b.mu.Lock()
	defer b.mu.Unlock()

	var expired []Challenge
	for _, k := range b.cache.Keys() {
		v, ok := b.cache.Peek(k)
		if !ok {
			continue
		}

		c := v.(*Challenge)
		if c.Status == ChallengePending && c.ExpiredAt(now) {
			c.Status = ChallengeExpired
			expired = append(expired, *c)
		}
	}

	return expired
}
