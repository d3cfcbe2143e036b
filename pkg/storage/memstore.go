package storage

import (
	"context"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
)

var (
	_ Store = (*MemStore)(nil)
)

type MemStore struct {
	mu sync.RWMutex

	objects map[cid.Cid][]byte
	heights map[uint64]cid.Cid

	first, last uint64
	empty       bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		objects: make(map[cid.Cid][]byte),
		heights: make(map[uint64]cid.Cid),
		empty:   true,
	}
}

func (m *MemStore) PutBlock(_ context.Context, b *Block) (BlockID, error) {
	d, err := b.Marshal()
	if err != nil {
		return "", err
	}

	id, err := blockCID(d)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkExtends(m.empty, m.last, b.Index); err != nil {
		return "", err
	}

	m.objects[id] = d
	m.heights[b.Index] = id

	if m.empty {
		m.first = b.Index
		m.empty = false
	}
	m.last = b.Index

	return BlockID(id.String()), nil
}

func (m *MemStore) getObj(id cid.Cid) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.objects[id]
}

func (m *MemStore) GetBlock(_ context.Context, id BlockID) (*Block, error) {
	c, err := cid.Decode(string(id))
	if err != nil {
		return nil, errors.Wrap(err, "decoding block id")
	}

	d := m.getObj(c)
	if d == nil {
		return nil, ErrNotFound
	}

	b := &Block{}
	if err := b.Unmarshal(d); err != nil {
		return nil, err
	}

	return b, nil
}

func (m *MemStore) BlockAt(ctx context.Context, index uint64) (*Block, error) {
	m.mu.RLock()
	c, ok := m.heights[index]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	return m.GetBlock(ctx, BlockID(c.String()))
}

func (m *MemStore) LastBlock(ctx context.Context) (*Block, error) {
	m.mu.RLock()
	empty, last := m.empty, m.last
	m.mu.RUnlock()

	if empty {
		return nil, nil
	}

	return m.BlockAt(ctx, last)
}

func (m *MemStore) Blocks(ctx context.Context) ([]*Block, error) {
	m.mu.RLock()
	empty, first, last := m.empty, m.first, m.last
	m.mu.RUnlock()

	if empty {
		return nil, nil
	}

	blocks := make([]*Block, 0, last-first+1)
	for i := first; i <= last; i++ {
		b, err := m.BlockAt(ctx, i)
		if err != nil {
			return nil, errors.Wrapf(err, "reading block %d", i)
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

func (m *MemStore) Stop() error {
	return nil
}

func checkExtends(empty bool, last, index uint64) error {
	if empty {
		return nil
	}

	switch {
	case index <= last:
		return errors.Wrapf(ErrBlockExists, "index %d", index)
	case index != last+1:
		return errors.Wrapf(ErrOutOfOrder, "index %d after %d", index, last)
	}

	return nil
}
