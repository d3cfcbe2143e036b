package scheduler

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/rewardchain/pkg/consensus"
)

const (
	DefaultTick                = time.Second
	DefaultCollaboratorTimeout = 10 * time.Second
	DefaultBackoffMin          = time.Second
	DefaultBackoffMax          = 10 * time.Second
)

// AcceptanceMode decides whether a traffic volume winner waits for its
// challenge to be accepted before being stamped.
type AcceptanceMode string

const (
	AcceptImmediate AcceptanceMode = "immediate"
	AcceptGated     AcceptanceMode = "gated"
)

type Option func(*Scheduler) error

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) error {
		s.clock = c
		return nil
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(s *Scheduler) error {
		s.logger = l
		return nil
	}
}

func WithTick(d time.Duration) Option {
	return func(s *Scheduler) error {
		if d <= 0 {
			return errors.New("tick must be positive")
		}
		s.tick = d
		return nil
	}
}

func WithCollaboratorTimeout(d time.Duration) Option {
	return func(s *Scheduler) error {
		s.timeout = d
		return nil
	}
}

// WithParallel evaluates both cycles concurrently. Stamping stays serial.
func WithParallel(p bool) Option {
	return func(s *Scheduler) error {
		s.parallel = p
		return nil
	}
}

func WithBackoff(min, max time.Duration) Option {
	return func(s *Scheduler) error {
		if min <= 0 || max < min {
			return errors.Errorf("invalid backoff range %s-%s", min, max)
		}
		s.backoff.Min = min
		s.backoff.Max = max
		return nil
	}
}

// WithAcceptance sets the acceptance mode. Gated mode requires an acceptor.
func WithAcceptance(mode AcceptanceMode, a consensus.Acceptor) Option {
	return func(s *Scheduler) error {
		switch mode {
		case AcceptImmediate:
		case AcceptGated:
			if a == nil {
				return errors.New("gated acceptance needs an acceptor")
			}
		default:
			return errors.Errorf("unknown acceptance mode %q", mode)
		}
		s.mode = mode
		s.acceptor = a
		return nil
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) error {
		s.metrics = m
		return nil
	}
}
