package storage

import "github.com/pkg/errors"

var (
	ErrNotFound = errors.New("not found")

	ErrBlockExists     = errors.New("block index already stored")
	ErrOutOfOrder      = errors.New("block index does not extend the stored chain")
	ErrChainCorruption = errors.New("chain corruption")
	ErrMalformedHash   = errors.New("malformed integrity hash")
)
