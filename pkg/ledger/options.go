package ledger

import (
	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultInitialDifficulty   = 0.0000001
	DefaultDifficultyIncrement = 0.0000001
)

type Option func(*Ledger) error

func WithLogger(l *logrus.Entry) Option {
	return func(lg *Ledger) error {
		lg.logger = l
		return nil
	}
}

func WithClock(c clock.Clock) Option {
	return func(lg *Ledger) error {
		lg.clock = c
		return nil
	}
}

// WithDifficulty sets the difficulty of the first block and the amount added
// after every stamp.
func WithDifficulty(initial, increment float64) Option {
	return func(lg *Ledger) error {
		if initial < 0 || increment < 0 {
			return errors.New("difficulty must not be negative")
		}
		lg.difficulty = decimal.NewFromFloat(initial)
		lg.increment = decimal.NewFromFloat(increment)
		return nil
	}
}

// WithSigner authorizes every stamped block with s.
func WithSigner(s Signer) Option {
	return func(lg *Ledger) error {
		lg.signer = s
		return nil
	}
}

func WithPersister(p Persister) Option {
	return func(lg *Ledger) error {
		lg.persister = p
		return nil
	}
}
