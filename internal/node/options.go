package node

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/rewardchain/internal/config"
	"github.com/tcfw/rewardchain/internal/wallet"
	"github.com/tcfw/rewardchain/pkg/storage"
)

type NodeOption func(*Node) error

func WithConfig(c *config.Config) NodeOption {
	return func(n *Node) error {
		n.cfg = c
		return nil
	}
}

func WithStore(s storage.Store) NodeOption {
	return func(n *Node) error {
		n.store = s
		return nil
	}
}

func WithWallet(w *wallet.Wallet) NodeOption {
	return func(n *Node) error {
		n.wallet = w
		return nil
	}
}

func WithClock(c clock.Clock) NodeOption {
	return func(n *Node) error {
		n.clock = c
		return nil
	}
}

func WithLogger(l *logrus.Entry) NodeOption {
	return func(n *Node) error {
		n.logger = l
		return nil
	}
}

func WithRegistry(r *prometheus.Registry) NodeOption {
	return func(n *Node) error {
		n.registry = r
		return nil
	}
}
