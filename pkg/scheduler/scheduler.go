package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/rewardchain/internal/utils/logging"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/storage"
	"golang.org/x/sync/errgroup"
)

// Ledger stamps winners.
type Ledger interface {
	Stamp(context.Context, *consensus.WinnerRecord) (*storage.Block, error)
	Difficulty() float64
}

// Scheduler polls both reward cycles and stamps their winners, seed match
// first.
type Scheduler struct {
	mu      sync.Mutex
	running atomic.Bool

	directory consensus.Directory
	seed      *consensus.SeedMatch
	traffic   *consensus.TrafficVolume
	ledger    Ledger

	mode     AcceptanceMode
	acceptor consensus.Acceptor
	pending  *consensus.WinnerRecord

	clock    clock.Clock
	tick     time.Duration
	timeout  time.Duration
	parallel bool
	backoff  *backoff.Backoff
	metrics  *Metrics
	logger   *logrus.Entry
}

func New(dir consensus.Directory, seed *consensus.SeedMatch, traffic *consensus.TrafficVolume, l Ledger, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		directory: dir,
		seed:      seed,
		traffic:   traffic,
		ledger:    l,
		mode:      AcceptImmediate,
		clock:     clock.New(),
		tick:      DefaultTick,
		timeout:   DefaultCollaboratorTimeout,
		backoff: &backoff.Backoff{
			Min:    DefaultBackoffMin,
			Max:    DefaultBackoffMax,
			Factor: 2,
			Jitter: true,
		},
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "applying option")
		}
	}

	if s.logger == nil {
		s.logger = logging.Component("scheduler")
	}

	if s.metrics == nil {
		m, err := NewMetrics(nil)
		if err != nil {
			return nil, err
		}
		s.metrics = m
	}

	s.metrics.difficulty.Set(l.Difficulty())

	return s, nil
}

// Pending returns the traffic volume winner waiting for acceptance, if any.
func (s *Scheduler) Pending() *consensus.WinnerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}

// Run ticks until ctx is cancelled. Tick errors are retried with backoff;
// chain corruption stops the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	t := s.clock.Ticker(s.tick)
	defer t.Stop()

	s.logger.WithField("tick", s.tick).WithField("acceptance", s.mode).Info("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-t.C:
		}

		if _, err := s.Tick(ctx); err != nil {
			if errors.Is(err, storage.ErrChainCorruption) {
				s.logger.WithError(err).Error("halting on corrupt chain")
				return err
			}

			wait := s.backoff.Duration()
			s.logger.WithError(err).WithField("retry", wait).Warn("tick failed")

			select {
			case <-ctx.Done():
				return nil
			case <-s.clock.After(wait):
			}
			continue
		}

		s.backoff.Reset()
	}
}

// Tick runs one poll: refresh the roster, settle a parked challenge,
// evaluate due cycles and stamp the winners in order.
func (s *Scheduler) Tick(ctx context.Context) ([]*storage.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	participants, err := s.participants(ctx)
	if err != nil {
		return nil, err
	}

	trafficBusy := s.pending != nil

	var winners []*consensus.WinnerRecord

	seedW, trafficW := s.evaluate(ctx, now, participants, !trafficBusy)
	if seedW != nil {
		winners = append(winners, seedW)
	}

	if trafficBusy {
		if w := s.settle(ctx, now); w != nil {
			winners = append(winners, w)
		}
	} else if s.mode == AcceptImmediate {
		for _, c := range s.traffic.Challenges().Expire(now) {
			s.metrics.challengesExpired.Inc()
			s.logger.WithField("challenge", c.ID).Debug("challenge expired")
		}
	}

	if trafficW != nil {
		if s.mode == AcceptGated {
			s.pending = trafficW
			s.logger.WithField("challenge", trafficW.Challenge.ID).WithField("winner", trafficW.Participant).Info("awaiting challenge acceptance")
		} else {
			winners = append(winners, trafficW)
		}
	}

	var stamped []*storage.Block
	for _, w := range winners {
		b, err := s.ledger.Stamp(ctx, w)
		if err != nil {
			if errors.Is(err, storage.ErrChainCorruption) {
				return stamped, err
			}
			s.metrics.cycleErrors.WithLabelValues(w.Kind.String()).Inc()
			s.logger.WithError(err).WithField("kind", w.Kind.String()).Warn("stamping winner")
			continue
		}

		s.metrics.blocks.WithLabelValues(b.RewardKind.String()).Inc()
		s.metrics.height.Set(float64(b.Index))
		stamped = append(stamped, b)
	}

	s.metrics.difficulty.Set(s.ledger.Difficulty())

	return stamped, nil
}

func (s *Scheduler) participants(ctx context.Context) ([]storage.ParticipantID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.directory.ActiveParticipants(ctx)
	if err != nil {
		return nil, errors.Wrapf(consensus.ErrCollaboratorUnavailable, "directory: %s", err)
	}

	return p, nil
}

func (s *Scheduler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// evaluate runs the due cycles. A failed cycle counts as no winner.
func (s *Scheduler) evaluate(ctx context.Context, now time.Time, participants []storage.ParticipantID, withTraffic bool) (seedW, trafficW *consensus.WinnerRecord) {
	runSeed := func() {
		seedW = s.runCycle(ctx, s.seed.Cycle(), func(ctx context.Context) (*consensus.WinnerRecord, error) {
			return s.seed.Run(ctx, now, participants)
		}, now)
	}
	runTraffic := func() {
		if !withTraffic {
			return
		}
		trafficW = s.runCycle(ctx, s.traffic.Cycle(), func(ctx context.Context) (*consensus.WinnerRecord, error) {
			return s.traffic.Run(ctx, now, participants)
		}, now)
	}

	if !s.parallel {
		runSeed()
		runTraffic()
		return
	}

	var g errgroup.Group
	g.Go(func() error { runSeed(); return nil })
	g.Go(func() error { runTraffic(); return nil })
	_ = g.Wait()

	return
}

func (s *Scheduler) runCycle(ctx context.Context, c *consensus.Cycle, run func(context.Context) (*consensus.WinnerRecord, error), now time.Time) *consensus.WinnerRecord {
	if !c.Due(now) {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	w, err := run(ctx)
	if err != nil {
		s.metrics.cycleErrors.WithLabelValues(c.Name()).Inc()
		s.logger.WithError(err).WithField("cycle", c.Name()).Warn("cycle failed")
		return nil
	}

	if w == nil {
		s.metrics.noWinner.WithLabelValues(c.Name()).Inc()
		s.logger.WithField("cycle", c.Name()).Debug("no winner")
	}

	return w
}

// settle checks the parked winner's challenge. It returns the winner once
// accepted; an expired challenge drops the winner and re-arms the cycle.
func (s *Scheduler) settle(ctx context.Context, now time.Time) *consensus.WinnerRecord {
	p := s.pending
	book := s.traffic.Challenges()
	l := s.logger.WithField("challenge", p.Challenge.ID)

	if p.Challenge.ExpiredAt(now) {
		book.Expire(now)
		s.expired()
		l.Info("challenge expired before acceptance")
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sig, ok, err := s.acceptor.Respond(ctx, *p.Challenge)
	if err != nil {
		l.WithError(err).Debug("acceptor unavailable")
		return nil
	}
	if !ok {
		return nil
	}

	c, err := book.Accept(p.Challenge.ID, p.Participant, sig, now)
	switch {
	case errors.Is(err, consensus.ErrChallengeExpired):
		s.expired()
		l.Info("challenge expired before acceptance")
		return nil
	case err != nil:
		l.WithError(err).Warn("rejected challenge acceptance")
		return nil
	}

	s.pending = nil
	l.Info("challenge accepted")

	return p.WithChallenge(c)
}

func (s *Scheduler) expired() {
	s.pending = nil
	s.traffic.Rearm()
	s.metrics.challengesExpired.Inc()
}
