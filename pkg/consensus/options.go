package consensus

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/rewardchain/internal/utils/logging"
)

const (
	DefaultSeedReward    = 1500
	DefaultTrafficReward = 150
	DefaultPrefixLength  = 5
)

type settings struct {
	logger       *logrus.Entry
	reward       uint64
	prefixLength int
}

type Option func(*settings) error

func WithLogger(l *logrus.Entry) Option {
	return func(s *settings) error {
		s.logger = l
		return nil
	}
}

func WithReward(amount uint64) Option {
	return func(s *settings) error {
		if amount == 0 {
			return errors.New("reward amount must be positive")
		}
		s.reward = amount
		return nil
	}
}

// WithPrefixLength sets how many leading hex characters of a proof hash must
// equal the seed target. Ignored by the traffic volume cycle.
func WithPrefixLength(n int) Option {
	return func(s *settings) error {
		if n <= 0 || n > 64 {
			return errors.Errorf("prefix length %d out of range", n)
		}
		s.prefixLength = n
		return nil
	}
}

func applyOptions(s *settings, component string, opts []Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return errors.Wrap(err, "applying option")
		}
	}

	if s.logger == nil {
		s.logger = logging.Component(component)
	}

	return nil
}
