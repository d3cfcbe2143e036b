package scheduler

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace  = "rewardchain"
	kindLabel  = "kind"
	cycleLabel = "cycle"
)

type Metrics struct {
	blocks            *prometheus.CounterVec
	noWinner          *prometheus.CounterVec
	cycleErrors       *prometheus.CounterVec
	challengesExpired prometheus.Counter
	difficulty        prometheus.Gauge
	height            prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_stamped_total",
			Help:      "number of blocks stamped",
		}, []string{kindLabel}),
		noWinner: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_no_winner_total",
			Help:      "number of due cycle rounds without a winner",
		}, []string{cycleLabel}),
		cycleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_errors_total",
			Help:      "number of failed cycle rounds",
		}, []string{cycleLabel}),
		challengesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenges_expired_total",
			Help:      "number of challenges that expired before acceptance",
		}),
		difficulty: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "difficulty",
			Help:      "difficulty of the next block",
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "height",
			Help:      "index of the last stamped block",
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.blocks, m.noWinner, m.cycleErrors, m.challengesExpired, m.difficulty, m.height} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering metric")
		}
	}

	return m, nil
}
