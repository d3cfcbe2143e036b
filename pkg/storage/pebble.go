package storage

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
)

var (
	_ Store = (*PebbleStore)(nil)

	prefixBlock = []byte("b/")
	prefixID    = []byte("i/")
)

// PebbleStore keeps blocks on disk keyed by big endian index, with a secondary
// content id to index mapping.
type PebbleStore struct {
	db *pebble.DB

	//serialises the extends check with the write
	mu sync.Mutex
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening pebble")
	}

	return &PebbleStore{db: db}, nil
}

func blockKey(index uint64) []byte {
	k := make([]byte, len(prefixBlock)+8)
	copy(k, prefixBlock)
	binary.BigEndian.PutUint64(k[len(prefixBlock):], index)
	return k
}

func idKey(c cid.Cid) []byte {
	return append(append([]byte{}, prefixID...), c.Bytes()...)
}

func prefixUpperBound(p []byte) []byte {
	u := append([]byte{}, p...)
	u[len(u)-1]++
	return u
}

func (p *PebbleStore) PutBlock(ctx context.Context, b *Block) (BlockID, error) {
	d, err := b.Marshal()
	if err != nil {
		return "", err
	}

	id, err := blockCID(d)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	last, err := p.lastIndex()
	empty := errors.Is(err, ErrNotFound)
	if err != nil && !empty {
		return "", err
	}
	if err := checkExtends(empty, last, b.Index); err != nil {
		return "", err
	}

	idx := make([]byte, 8)
	binary.BigEndian.PutUint64(idx, b.Index)

	batch := p.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(blockKey(b.Index), d, nil); err != nil {
		return "", errors.Wrap(err, "writing block")
	}
	if err := batch.Set(idKey(id), idx, nil); err != nil {
		return "", errors.Wrap(err, "writing block id")
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return "", errors.Wrap(err, "committing block")
	}

	return BlockID(id.String()), nil
}

func (p *PebbleStore) get(key []byte) ([]byte, error) {
	v, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "reading key")
	}
	defer closer.Close()

	return append([]byte{}, v...), nil
}

func (p *PebbleStore) GetBlock(ctx context.Context, id BlockID) (*Block, error) {
	c, err := cid.Decode(string(id))
	if err != nil {
		return nil, errors.Wrap(err, "decoding block id")
	}

	idx, err := p.get(idKey(c))
	if err != nil {
		return nil, err
	}

	return p.BlockAt(ctx, binary.BigEndian.Uint64(idx))
}

func (p *PebbleStore) BlockAt(_ context.Context, index uint64) (*Block, error) {
	d, err := p.get(blockKey(index))
	if err != nil {
		return nil, err
	}

	b := &Block{}
	if err := b.Unmarshal(d); err != nil {
		return nil, err
	}

	return b, nil
}

func (p *PebbleStore) lastIndex() (uint64, error) {
	iter := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixBlock,
		UpperBound: prefixUpperBound(prefixBlock),
	})
	defer iter.Close()

	if !iter.Last() {
		return 0, ErrNotFound
	}

	return binary.BigEndian.Uint64(iter.Key()[len(prefixBlock):]), nil
}

func (p *PebbleStore) LastBlock(ctx context.Context) (*Block, error) {
	last, err := p.lastIndex()
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return p.BlockAt(ctx, last)
}

func (p *PebbleStore) Blocks(_ context.Context) ([]*Block, error) {
	iter := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixBlock,
		UpperBound: prefixUpperBound(prefixBlock),
	})
	defer iter.Close()

	blocks := []*Block{}
	for iter.First(); iter.Valid(); iter.Next() {
		b := &Block{}
		if err := b.Unmarshal(iter.Value()); err != nil {
			return nil, errors.Wrapf(err, "decoding block at %x", iter.Key())
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

func (p *PebbleStore) Stop() error {
	return p.db.Close()
}
