package storage

import (
	"time"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tcfw/rewardchain/pkg/hashing"
)

// BlockID is the content address of an encoded block.
type BlockID string

type ParticipantID string

type RewardKind uint8

const (
	RewardKindNone RewardKind = iota
	RewardKindSeedMatch
	RewardKindTrafficVolume
)

var rewardKindNames = map[RewardKind]string{
	RewardKindNone:          "genesis",
	RewardKindSeedMatch:     "seed_match",
	RewardKindTrafficVolume: "traffic_volume",
}

func (k RewardKind) String() string {
	if n, ok := rewardKindNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k RewardKind) MarshalText() ([]byte, error) {
	if _, ok := rewardKindNames[k]; !ok {
		return nil, errors.Errorf("unknown reward kind %d", k)
	}
	return []byte(k.String()), nil
}

func (k *RewardKind) UnmarshalText(b []byte) error {
	for kind, n := range rewardKindNames {
		if n == string(b) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown reward kind %q", b)
}

// Block is a stamped ledger entry. Exactly one of SeedMatch or Traffic is set
// for reward blocks; neither is set on a genesis block.
type Block struct {
	Index           uint64        `msgpack:"i" json:"index"`
	CreatedAt       time.Time     `msgpack:"t" json:"created_at"`
	PreviousHash    string        `msgpack:"p" json:"previous_hash"`
	Difficulty      float64       `msgpack:"d" json:"difficulty"`
	Winner          ParticipantID `msgpack:"w" json:"winner_id"`
	RewardKind      RewardKind    `msgpack:"k" json:"reward_kind"`
	RewardAmount    uint64        `msgpack:"a" json:"reward_amount"`
	SeedOrChallenge string        `msgpack:"s" json:"seed_or_challenge"`

	SeedMatch *SeedMatchPayload `msgpack:"sm,omitempty" json:"seed_match,omitempty"`
	Traffic   *TrafficPayload   `msgpack:"tv,omitempty" json:"traffic_volume,omitempty"`

	IntegrityHash string `msgpack:"h" json:"integrity_hash"`
	LockSignature string `msgpack:"l" json:"lock_signature"`
	Authorization string `msgpack:"z,omitempty" json:"authorization,omitempty"`
}

type SeedMatchPayload struct {
	FrameID          string  `msgpack:"f" json:"frame_id"`
	Algorithm        string  `msgpack:"a" json:"algorithm"`
	ComplexityFactor float64 `msgpack:"c" json:"complexity_factor"`
	ProofHash        string  `msgpack:"p" json:"proof_hash"`
	PacketCount      uint64  `msgpack:"n" json:"packet_count"`
}

func (p *SeedMatchPayload) fields() map[string]interface{} {
	return map[string]interface{}{
		"frame_id":          p.FrameID,
		"algorithm":         p.Algorithm,
		"complexity_factor": p.ComplexityFactor,
		"proof_hash":        p.ProofHash,
		"packet_count":      p.PacketCount,
	}
}

type TrafficPayload struct {
	ChallengeID     string    `msgpack:"c" json:"challenge_id"`
	ChallengeExpiry time.Time `msgpack:"e" json:"challenge_expiry"`
	ChallengeStatus string    `msgpack:"s" json:"challenge_status"`
	PacketsIn       uint64    `msgpack:"i" json:"packets_in"`
	PacketsOut      uint64    `msgpack:"o" json:"packets_out"`
	PacketCount     uint64    `msgpack:"n" json:"packet_count"`
	LatencyMs       float64   `msgpack:"l" json:"latency_ms"`
	ProofToken      string    `msgpack:"p" json:"proof_token"`
	Degraded        bool      `msgpack:"d" json:"degraded"`
}

func (p *TrafficPayload) fields() map[string]interface{} {
	return map[string]interface{}{
		"challenge_id":     p.ChallengeID,
		"challenge_expiry": p.ChallengeExpiry.UnixNano(),
		"challenge_status": p.ChallengeStatus,
		"packets_in":       p.PacketsIn,
		"packets_out":      p.PacketsOut,
		"packet_count":     p.PacketCount,
		"latency_ms":       p.LatencyMs,
		"proof_token":      p.ProofToken,
		"degraded":         p.Degraded,
	}
}

// CanonicalFields returns every block field except the integrity hash, the
// lock signature and the authorization.
func (b *Block) CanonicalFields() hashing.Fields {
	f := hashing.Fields{
		"index":             b.Index,
		"created_at":        b.CreatedAt.UnixNano(),
		"previous_hash":     b.PreviousHash,
		"difficulty":        b.Difficulty,
		"winner_id":         string(b.Winner),
		"reward_kind":       b.RewardKind.String(),
		"reward_amount":     b.RewardAmount,
		"seed_or_challenge": b.SeedOrChallenge,
	}

	if b.SeedMatch != nil {
		f["seed_match"] = b.SeedMatch.fields()
	}
	if b.Traffic != nil {
		f["traffic_volume"] = b.Traffic.fields()
	}

	return f
}

// PacketCount is the traffic figure carried by either payload.
func (b *Block) PacketCount() uint64 {
	switch {
	case b.Traffic != nil:
		return b.Traffic.PacketCount
	case b.SeedMatch != nil:
		return b.SeedMatch.PacketCount
	}
	return 0
}

func (b *Block) Marshal() ([]byte, error) {
	d, err := msgpack.Marshal(b)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling block")
	}

	return d, nil
}

func (b *Block) Unmarshal(d []byte) error {
	if err := msgpack.Unmarshal(d, b); err != nil {
		return errors.Wrap(err, "unmarshaling block")
	}

	//msgpack decodes times in local time
	b.CreatedAt = b.CreatedAt.UTC()
	if b.Traffic != nil {
		b.Traffic.ChallengeExpiry = b.Traffic.ChallengeExpiry.UTC()
	}

	return nil
}

func blockCID(d []byte) (cid.Cid, error) {
	h, err := multihash.Sum(d, multihash.SHA3_256, multihash.DefaultLengths[multihash.SHA3_256])
	if err != nil {
		return cid.Undef, errors.Wrap(err, "hashing block")
	}

	return cid.NewCidV1(cid.Raw, h), nil
}
