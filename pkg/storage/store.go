package storage

import (
	"context"
)

// Store persists stamped blocks in index order. Stores are append only;
// putting an index that already exists fails with ErrBlockExists.
type Store interface {
	PutBlock(context.Context, *Block) (BlockID, error)
	GetBlock(context.Context, BlockID) (*Block, error)
	BlockAt(context.Context, uint64) (*Block, error)

	// LastBlock returns nil without error on an empty store.
	LastBlock(context.Context) (*Block, error)
	Blocks(context.Context) ([]*Block, error)

	Stop() error
}
