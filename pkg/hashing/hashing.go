// Package hashing implements the two digest layers stamped onto every block:
// the chain-linking integrity hash and the decorative lock signature.
package hashing

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/sha3"
)

const (
	// HashLength is the hex length of an integrity hash.
	HashLength = sha256.Size * 2

	// LockPrefix marks a lock signature string.
	LockPrefix = "CONSTELLATION_LOCK:"

	difficultyPrecision = 7
)

// ZeroHash is the previous hash of the first block in a chain.
var ZeroHash = strings.Repeat("0", HashLength)

// Fields is the canonical field set of a block, excluding the hash fields
// themselves. Nested values should be maps or scalars.
type Fields map[string]interface{}

// IntegrityHash digests the fields using a msgpack encoding with
// lexicographically sorted map keys so the same field set always yields the
// same hash.
func IntegrityHash(f Fields) (string, error) {
	b, err := Canonical(f)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Canonical returns the sorted-key serialization used by IntegrityHash.
func Canonical(f Fields) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(map[string]interface{}(f)); err != nil {
		return nil, errors.Wrap(err, "encoding canonical fields")
	}

	return buf.Bytes(), nil
}

// LockSignature derives the secondary lock from an integrity hash, the block
// difficulty and the reward kind. It is never used as linkage input.
func LockSignature(integrityHash string, difficulty float64, rewardKind string) string {
	seed := fmt.Sprintf("%s-%s-%s", integrityHash, FormatDifficulty(difficulty), rewardKind)
	sum := sha3.Sum512([]byte(seed))

	return LockPrefix + strings.ToUpper(hex.EncodeToString(sum[:]))
}

// FormatDifficulty renders a difficulty with fixed precision so float
// representation differences never leak into a digest.
func FormatDifficulty(d float64) string {
	return decimal.NewFromFloat(d).StringFixed(difficultyPrecision)
}

// ValidHash reports whether h looks like an integrity hash.
func ValidHash(h string) bool {
	if len(h) != HashLength {
		return false
	}

	_, err := hex.DecodeString(h)
	return err == nil
}

func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func SHA512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func SHA3Hex(s string) string {
	sum := sha3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
