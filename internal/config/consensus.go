package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Consensus struct {
	Tick                time.Duration
	CollaboratorTimeout time.Duration
	Parallel            bool
	Backoff             struct {
		Min time.Duration
		Max time.Duration
	}

	Seed struct {
		Interval     time.Duration
		Reward       uint64
		PrefixLength int
	}

	Traffic struct {
		Interval       time.Duration
		Reward         uint64
		ChallengeTTL   time.Duration
		ChallengeCache int
		Acceptance     string
	}
}

const (
	Cfg_consensus_tick                   = "consensus.tick"
	Cfg_consensus_collaboratorTimeout    = "consensus.collaboratorTimeout"
	Cfg_consensus_parallel               = "consensus.parallel"
	Cfg_consensus_backoff_min            = "consensus.backoff.min"
	Cfg_consensus_backoff_max            = "consensus.backoff.max"
	Cfg_consensus_seed_interval          = "consensus.seed.interval"
	Cfg_consensus_seed_reward            = "consensus.seed.reward"
	Cfg_consensus_seed_prefixLength      = "consensus.seed.prefixLength"
	Cfg_consensus_traffic_interval       = "consensus.traffic.interval"
	Cfg_consensus_traffic_reward         = "consensus.traffic.reward"
	Cfg_consensus_traffic_challengeTTL   = "consensus.traffic.challengeTTL"
	Cfg_consensus_traffic_challengeCache = "consensus.traffic.challengeCache"
	Cfg_consensus_traffic_acceptance     = "consensus.traffic.acceptance"
)

var (
	consensusDefaults = map[string]interface{}{
		Cfg_consensus_tick:                   "1s",
		Cfg_consensus_collaboratorTimeout:    "10s",
		Cfg_consensus_parallel:               true,
		Cfg_consensus_backoff_min:            "1s",
		Cfg_consensus_backoff_max:            "10s",
		Cfg_consensus_seed_interval:          "30m",
		Cfg_consensus_seed_reward:            1500,
		Cfg_consensus_seed_prefixLength:      5,
		Cfg_consensus_traffic_interval:       "5m",
		Cfg_consensus_traffic_reward:         150,
		Cfg_consensus_traffic_challengeTTL:   "5m",
		Cfg_consensus_traffic_challengeCache: 1024,
		Cfg_consensus_traffic_acceptance:     "immediate",
	}
)

func init() {
	for k, v := range consensusDefaults {
		viper.SetDefault(k, v)
	}
}

func buildConsensusConfig() (*Consensus, error) {
	c := &Consensus{}

	c.Tick = viper.GetDuration(Cfg_consensus_tick)
	c.CollaboratorTimeout = viper.GetDuration(Cfg_consensus_collaboratorTimeout)
	c.Parallel = viper.GetBool(Cfg_consensus_parallel)
	c.Backoff.Min = viper.GetDuration(Cfg_consensus_backoff_min)
	c.Backoff.Max = viper.GetDuration(Cfg_consensus_backoff_max)

	c.Seed.Interval = viper.GetDuration(Cfg_consensus_seed_interval)
	c.Seed.Reward = viper.GetUint64(Cfg_consensus_seed_reward)
	c.Seed.PrefixLength = viper.GetInt(Cfg_consensus_seed_prefixLength)

	c.Traffic.Interval = viper.GetDuration(Cfg_consensus_traffic_interval)
	c.Traffic.Reward = viper.GetUint64(Cfg_consensus_traffic_reward)
	c.Traffic.ChallengeTTL = viper.GetDuration(Cfg_consensus_traffic_challengeTTL)
	c.Traffic.ChallengeCache = viper.GetInt(Cfg_consensus_traffic_challengeCache)
	c.Traffic.Acceptance = viper.GetString(Cfg_consensus_traffic_acceptance)

	if c.Tick <= 0 {
		return nil, errors.New("tick must be positive")
	}

	if c.Seed.Interval <= 0 || c.Traffic.Interval <= 0 {
		return nil, errors.New("cycle intervals must be positive")
	}

	switch c.Traffic.Acceptance {
	case "immediate", "gated":
	default:
		return nil, errors.Errorf("unknown acceptance mode %q", c.Traffic.Acceptance)
	}

	return c, nil
}
