package config

import (
	"github.com/spf13/viper"
)

type Metrics struct {
	// Listen is the address serving /metrics. Empty disables it.
	Listen string
}

const (
	Cfg_metrics_listen = "metrics.listen"
)

var (
	metricsDefaults = map[string]interface{}{
		Cfg_metrics_listen: "",
	}
)

func init() {
	for k, v := range metricsDefaults {
		viper.SetDefault(k, v)
	}
}

func buildMetricsConfig() (*Metrics, error) {
	return &Metrics{
		Listen: viper.GetString(Cfg_metrics_listen),
	}, nil
}
