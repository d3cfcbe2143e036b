package node

import (
	"context"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/rewardchain/internal/coinflip"
	"github.com/tcfw/rewardchain/internal/config"
	"github.com/tcfw/rewardchain/internal/export"
	"github.com/tcfw/rewardchain/internal/simnet"
	"github.com/tcfw/rewardchain/internal/utils/logging"
	"github.com/tcfw/rewardchain/internal/wallet"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/ledger"
	"github.com/tcfw/rewardchain/pkg/scheduler"
	"github.com/tcfw/rewardchain/pkg/storage"
	"golang.org/x/sync/errgroup"
)

// Node wires the ledger, both reward cycles and the simulated collaborators.
type Node struct {
	cfg   *config.Config
	clock clock.Clock

	store     storage.Store
	wallet    *wallet.Wallet
	ledger    *ledger.Ledger
	scheduler *scheduler.Scheduler

	registry *prometheus.Registry
	logger   *logrus.Entry
}

func (n *Node) Store() storage.Store {
	return n.store
}

func (n *Node) Wallet() *wallet.Wallet {
	return n.wallet
}

func (n *Node) Ledger() *ledger.Ledger {
	return n.ledger
}

func (n *Node) Scheduler() *scheduler.Scheduler {
	return n.scheduler
}

func NewNode(ctx context.Context, opts ...NodeOption) (*Node, error) {
	n := &Node{}

	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if err := n.defaults(); err != nil {
		return nil, err
	}

	if err := n.setupLedger(ctx); err != nil {
		n.store.Stop()
		return nil, err
	}

	if err := n.setupScheduler(); err != nil {
		n.store.Stop()
		return nil, err
	}

	return n, nil
}

func (n *Node) defaults() error {
	var err error

	if n.cfg == nil {
		if n.cfg, err = config.GetConfig(); err != nil {
			return err
		}
	}

	if n.clock == nil {
		n.clock = clock.New()
	}

	if n.logger == nil {
		n.logger = logging.Component("node")
	}

	if n.registry == nil {
		n.registry = prometheus.NewRegistry()
		n.registry.MustRegister(collectors.NewGoCollector())
	}

	if n.wallet == nil {
		node := storage.ParticipantID(n.cfg.Wallet().NodeAddress)
		if path := n.cfg.Wallet().Registry; path != "" {
			n.wallet, err = wallet.NewFileWallet(path, node)
		} else {
			n.wallet, err = wallet.NewMemWallet(node)
		}
		if err != nil {
			return errors.Wrap(err, "opening wallet")
		}
	}

	if n.store == nil {
		if n.store, err = OpenStore(n.cfg.Storage()); err != nil {
			return err
		}
	}

	return nil
}

// OpenStore opens the pebble store in the configured data directory, or an
// in-memory store when none is set.
func OpenStore(c *config.Storage) (storage.Store, error) {
	if c.DataDir == "" {
		return storage.NewMemStore(), nil
	}

	s, err := storage.NewPebbleStore(c.DataDir)
	if err != nil {
		return nil, errors.Wrap(err, "opening block store")
	}

	return s, nil
}

func (n *Node) setupLedger(ctx context.Context) error {
	chain := n.cfg.Chain()

	opts := []ledger.Option{
		ledger.WithClock(n.clock),
		ledger.WithDifficulty(chain.InitialDifficulty, chain.DifficultyIncrement),
		ledger.WithSigner(n.wallet),
	}

	if exp := n.cfg.Storage().Export; exp.Enabled {
		opts = append(opts, ledger.WithPersister(export.New(exp.JSON, exp.CSV)))
	}

	l, err := ledger.New(ctx, n.store, opts...)
	if err != nil {
		return errors.Wrap(err, "opening ledger")
	}
	n.ledger = l

	if !chain.Genesis {
		return nil
	}

	g, err := l.Genesis(ctx)
	switch {
	case errors.Is(err, ledger.ErrChainNotEmpty):
		return nil
	case err != nil:
		return errors.Wrap(err, "stamping genesis")
	}

	n.logger.WithField("hash", g.IntegrityHash).Info("stamped genesis block")

	return nil
}

func (n *Node) setupScheduler() error {
	cc := n.cfg.Consensus()
	sc := n.cfg.Sim()
	now := n.clock.Now()

	coin := coinflip.New(sc.Seed)
	traffic := simnet.NewTraffic(coin, n.clock)
	verifier := simnet.NewVerifier(coin, simnet.VerifierConfig{
		PingSuccess:      sc.PingSuccess,
		ServiceSuccess:   sc.ServiceSuccess,
		PowPrefix:        sc.PowPrefix,
		PowMaxIterations: sc.PowMaxIterations,
	})

	seed, err := consensus.NewSeedMatch(
		consensus.NewCycle(storage.RewardKindSeedMatch.String(), cc.Seed.Interval, now),
		consensus.NewSeedGenerator(n.clock, coin.Rand()),
		traffic,
		consensus.WithReward(cc.Seed.Reward),
		consensus.WithPrefixLength(cc.Seed.PrefixLength),
	)
	if err != nil {
		return errors.Wrap(err, "seed match cycle")
	}

	book, err := consensus.NewChallengeBook(cc.Traffic.ChallengeTTL, cc.Traffic.ChallengeCache, n.wallet)
	if err != nil {
		return err
	}

	tv, err := consensus.NewTrafficVolume(
		consensus.NewCycle(storage.RewardKindTrafficVolume.String(), cc.Traffic.Interval, now),
		traffic,
		verifier,
		book,
		consensus.WithReward(cc.Traffic.Reward),
	)
	if err != nil {
		return errors.Wrap(err, "traffic volume cycle")
	}

	metrics, err := scheduler.NewMetrics(n.registry)
	if err != nil {
		return err
	}

	n.scheduler, err = scheduler.New(n.wallet, seed, tv, n.ledger,
		scheduler.WithClock(n.clock),
		scheduler.WithTick(cc.Tick),
		scheduler.WithCollaboratorTimeout(cc.CollaboratorTimeout),
		scheduler.WithParallel(cc.Parallel),
		scheduler.WithBackoff(cc.Backoff.Min, cc.Backoff.Max),
		scheduler.WithAcceptance(scheduler.AcceptanceMode(cc.Traffic.Acceptance), simnet.NewAcceptor(coin, sc.AcceptRate, n.wallet)),
		scheduler.WithMetrics(metrics),
	)
	if err != nil {
		return errors.Wrap(err, "scheduler")
	}

	return nil
}

// ListenAndServe runs the scheduler, and the metrics endpoint when
// configured, until ctx is done or the scheduler halts.
func (n *Node) ListenAndServe(ctx context.Context) error {
	n.logger.WithField("node", n.wallet.Node()).Info("starting node")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return n.scheduler.Run(gctx)
	})

	if addr := n.cfg.Metrics().Listen; addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           n.metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			n.logger.WithField("addr", addr).Info("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	return g.Wait()
}

func (n *Node) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}))
	return mux
}

func (n *Node) Stop() error {
	n.logger.Warn("shutting down")

	return n.store.Stop()
}
