package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Chain struct {
	Genesis             bool
	InitialDifficulty   float64
	DifficultyIncrement float64
}

const (
	Cfg_chain_genesis             = "chain.genesis"
	Cfg_chain_initialDifficulty   = "chain.initialDifficulty"
	Cfg_chain_difficultyIncrement = "chain.difficultyIncrement"
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_genesis:             true,
		Cfg_chain_initialDifficulty:   0.0000001,
		Cfg_chain_difficultyIncrement: 0.0000001,
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{
		Genesis:             viper.GetBool(Cfg_chain_genesis),
		InitialDifficulty:   viper.GetFloat64(Cfg_chain_initialDifficulty),
		DifficultyIncrement: viper.GetFloat64(Cfg_chain_difficultyIncrement),
	}

	if c.InitialDifficulty < 0 || c.DifficultyIncrement < 0 {
		return nil, errors.New("difficulty must not be negative")
	}

	return c, nil
}
