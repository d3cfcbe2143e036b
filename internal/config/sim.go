package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Sim configures the simulated traffic, verification and acceptance
// collaborators.
type Sim struct {
	Seed             int64
	PingSuccess      float64
	ServiceSuccess   float64
	PowPrefix        string
	PowMaxIterations int
	AcceptRate       float64
}

const (
	Cfg_sim_seed             = "sim.seed"
	Cfg_sim_pingSuccess      = "sim.pingSuccess"
	Cfg_sim_serviceSuccess   = "sim.serviceSuccess"
	Cfg_sim_powPrefix        = "sim.powPrefix"
	Cfg_sim_powMaxIterations = "sim.powMaxIterations"
	Cfg_sim_acceptRate       = "sim.acceptRate"
)

var (
	simDefaults = map[string]interface{}{
		Cfg_sim_seed:             0,
		Cfg_sim_pingSuccess:      0.9,
		Cfg_sim_serviceSuccess:   0.9,
		Cfg_sim_powPrefix:        "000",
		Cfg_sim_powMaxIterations: 10000,
		Cfg_sim_acceptRate:       0.05,
	}
)

func init() {
	for k, v := range simDefaults {
		viper.SetDefault(k, v)
	}
}

func buildSimConfig() (*Sim, error) {
	c := &Sim{
		Seed:             viper.GetInt64(Cfg_sim_seed),
		PingSuccess:      viper.GetFloat64(Cfg_sim_pingSuccess),
		ServiceSuccess:   viper.GetFloat64(Cfg_sim_serviceSuccess),
		PowPrefix:        viper.GetString(Cfg_sim_powPrefix),
		PowMaxIterations: viper.GetInt(Cfg_sim_powMaxIterations),
		AcceptRate:       viper.GetFloat64(Cfg_sim_acceptRate),
	}

	for _, p := range []float64{c.PingSuccess, c.ServiceSuccess, c.AcceptRate} {
		if p < 0 || p > 1 {
			return nil, errors.Errorf("probability %v out of range", p)
		}
	}

	if c.PowMaxIterations <= 0 {
		return nil, errors.New("proof of work needs a positive iteration ceiling")
	}

	return c, nil
}
