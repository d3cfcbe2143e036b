package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tcfw/rewardchain/internal/utils/logging"
)

const (
	Cfg_verbose = "verbose"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose: false,
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("rewardchain")
	viper.AddConfigPath("/etc/rewardchain/")
	viper.AddConfigPath("$HOME/.rewardchain")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("REWARDCHAIN")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logging.Entry().Warn("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	return build()
}

// Defaults builds the config from defaults, flags and environment only.
func Defaults() (*Config, error) {
	return build()
}

func build() (*Config, error) {
	var err error
	c := &Config{}

	if c.chain, err = buildChainConfig(); err != nil {
		return nil, errors.Wrap(err, "chain config")
	}

	if c.storage, err = buildStorageConfig(); err != nil {
		return nil, errors.Wrap(err, "storage config")
	}

	if c.consensus, err = buildConsensusConfig(); err != nil {
		return nil, errors.Wrap(err, "consensus config")
	}

	if c.wallet, err = buildWalletConfig(); err != nil {
		return nil, errors.Wrap(err, "wallet config")
	}

	if c.sim, err = buildSimConfig(); err != nil {
		return nil, errors.Wrap(err, "sim config")
	}

	if c.metrics, err = buildMetricsConfig(); err != nil {
		return nil, errors.Wrap(err, "metrics config")
	}

	if viper.GetBool(Cfg_verbose) {
		logging.SetLevel(logrus.DebugLevel)
		logging.Entry().WithField("level", "debug").Debug("setting log level")
	}

	return c, nil
}

type Config struct {
	chain     *Chain
	storage   *Storage
	consensus *Consensus
	wallet    *Wallet
	sim       *Sim
	metrics   *Metrics
}

func (c *Config) Chain() *Chain {
	return c.chain
}

func (c *Config) Storage() *Storage {
	return c.storage
}

func (c *Config) Consensus() *Consensus {
	return c.consensus
}

func (c *Config) Wallet() *Wallet {
	return c.wallet
}

func (c *Config) Sim() *Sim {
	return c.sim
}

func (c *Config) Metrics() *Metrics {
	return c.metrics
}
