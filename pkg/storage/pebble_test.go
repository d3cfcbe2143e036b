package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPebbleStore(t *testing.T) {
	s, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	defer s.Stop()

	testStore(t, s)
}

func TestPebbleStoreReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	blocks := makeChain(t, 3)

	s, err := NewPebbleStore(dir)
	require.NoError(t, err)

	for _, b := range blocks {
		_, err := s.PutBlock(ctx, b)
		require.NoError(t, err)
	}
	require.NoError(t, s.Stop())

	s, err = NewPebbleStore(dir)
	require.NoError(t, err)
	defer s.Stop()

	all, err := s.Blocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, blocks, all)
}
