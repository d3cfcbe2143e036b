package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"github.com/tcfw/rewardchain/pkg/hashing"
	"github.com/tcfw/rewardchain/pkg/ledger"
	"github.com/tcfw/rewardchain/pkg/storage"
)

var (
	_ ledger.Persister = (*Exporter)(nil)

	csvHeader = []string{
		"index",
		"timestamp",
		"time",
		"reward_kind",
		"reward_amount",
		"winner_id",
		"difficulty",
		"previous_hash",
		"integrity_hash",
		"lock_signature",
		"packet_count",
		"seed_frame",
		"challenge_id",
		"challenge_expiry",
		"latency_ms",
	}
)

// Exporter rewrites the JSON audit log and the CSV ledger after every stamp.
// Either path may be empty to skip that file.
type Exporter struct {
	jsonPath string
	csvPath  string
}

func New(jsonPath, csvPath string) *Exporter {
	return &Exporter{jsonPath: jsonPath, csvPath: csvPath}
}

func (e *Exporter) Persist(_ context.Context, blocks []*storage.Block) error {
	if e.jsonPath != "" {
		if err := WriteJSON(e.jsonPath, blocks); err != nil {
			return err
		}
	}

	if e.csvPath != "" {
		if err := WriteCSV(e.csvPath, blocks); err != nil {
			return err
		}
	}

	return nil
}

func WriteJSON(path string, blocks []*storage.Block) error {
	if blocks == nil {
		blocks = []*storage.Block{}
	}

	d, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling audit log")
	}

	if err := renameio.WriteFile(path, d, 0644); err != nil {
		return errors.Wrap(err, "writing audit log")
	}

	return nil
}

func ReadJSON(path string) ([]*storage.Block, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading audit log")
	}

	var blocks []*storage.Block
	if err := json.Unmarshal(d, &blocks); err != nil {
		return nil, errors.Wrap(err, "unmarshalling audit log")
	}

	return blocks, nil
}

func WriteCSV(path string, blocks []*storage.Block) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing ledger header")
	}

	for _, b := range blocks {
		if err := w.Write(row(b)); err != nil {
			return errors.Wrapf(err, "writing ledger row %d", b.Index)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flushing ledger")
	}

	if err := renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "writing ledger")
	}

	return nil
}

func row(b *storage.Block) []string {
	var frame, challenge, expiry, latency string

	switch {
	case b.SeedMatch != nil:
		frame = b.SeedMatch.FrameID
	case b.Traffic != nil:
		challenge = b.Traffic.ChallengeID
		expiry = b.Traffic.ChallengeExpiry.UTC().Format(time.RFC3339)
		latency = strconv.FormatFloat(b.Traffic.LatencyMs, 'f', 2, 64)
	}

	return []string{
		strconv.FormatUint(b.Index, 10),
		strconv.FormatInt(b.CreatedAt.Unix(), 10),
		b.CreatedAt.UTC().Format(time.RFC3339),
		b.RewardKind.String(),
		strconv.FormatUint(b.RewardAmount, 10),
		string(b.Winner),
		hashing.FormatDifficulty(b.Difficulty),
		b.PreviousHash,
		b.IntegrityHash,
		b.LockSignature,
		strconv.FormatUint(b.PacketCount(), 10),
		frame,
		challenge,
		expiry,
		latency,
	}
}
