package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() Fields {
	return Fields{
		"index":             uint64(3),
		"created_at":        int64(1700000000000000000),
		"previous_hash":     ZeroHash,
		"difficulty":        0.0000003,
		"winner_id":         "0xSNIF_HIGH_VALUE_NODE_A1B2",
		"reward_kind":       "seed_match",
		"reward_amount":     uint64(1500),
		"seed_or_challenge": "abcde12345",
		"seed_match": map[string]interface{}{
			"frame_id":     "0011223344556677",
			"packet_count": uint64(4200),
		},
	}
}

func TestIntegrityHashDeterministic(t *testing.T) {
	h1, err := IntegrityHash(testFields())
	require.NoError(t, err)

	h2, err := IntegrityHash(testFields())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.True(t, ValidHash(h1))
}

func TestIntegrityHashFieldSensitivity(t *testing.T) {
	base, err := IntegrityHash(testFields())
	require.NoError(t, err)

	seen := map[string]string{base: "base"}

	for k := range testFields() {
		f := testFields()
		switch v := f[k].(type) {
		case string:
			f[k] = v + "x"
		case uint64:
			f[k] = v + 1
		case int64:
			f[k] = v + 1
		case float64:
			f[k] = v + 0.0000001
		case map[string]interface{}:
			v["frame_id"] = "ffffffffffffffff"
		}

		h, err := IntegrityHash(f)
		require.NoError(t, err)

		prev, collides := seen[h]
		assert.False(t, collides, "changing %s collided with %s", k, prev)
		seen[h] = k
	}
}

func TestCanonicalIgnoresInsertionOrder(t *testing.T) {
	a := Fields{}
	b := Fields{}

	keys := []string{"z", "a", "m", "b"}
	for i, k := range keys {
		a[k] = i
	}
	for i := len(keys) - 1; i >= 0; i-- {
		b[keys[i]] = i
	}

	ca, err := Canonical(a)
	require.NoError(t, err)
	cb, err := Canonical(b)
	require.NoError(t, err)

	assert.Equal(t, ca, cb)
}

func TestLockSignature(t *testing.T) {
	h, err := IntegrityHash(testFields())
	require.NoError(t, err)

	l1 := LockSignature(h, 0.0000003, "seed_match")
	l2 := LockSignature(h, 0.0000003, "seed_match")

	assert.Equal(t, l1, l2)
	assert.True(t, strings.HasPrefix(l1, LockPrefix))
	assert.Len(t, strings.TrimPrefix(l1, LockPrefix), 128)

	assert.NotEqual(t, l1, LockSignature(h, 0.0000004, "seed_match"))
	assert.NotEqual(t, l1, LockSignature(h, 0.0000003, "traffic_volume"))
}

func TestFormatDifficulty(t *testing.T) {
	assert.Equal(t, "0.0000003", FormatDifficulty(0.1+0.2-0.3+0.0000003))
	assert.Equal(t, "0.0000001", FormatDifficulty(0.0000001))
	assert.Equal(t, "1.5000000", FormatDifficulty(1.5))
}

func TestValidHash(t *testing.T) {
	assert.True(t, ValidHash(ZeroHash))
	assert.False(t, ValidHash(""))
	assert.False(t, ValidHash(strings.Repeat("g", HashLength)))
	assert.False(t, ValidHash(ZeroHash[1:]))
}
