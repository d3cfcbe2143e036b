package ledger

import "github.com/pkg/errors"

var (
	ErrDuplicateReward = errors.New("reward already stamped")
	ErrChainNotEmpty   = errors.New("chain already has blocks")
	ErrNoWinner        = errors.New("no winner to stamp")
)
