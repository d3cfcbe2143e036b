package config

import (
	"github.com/spf13/viper"
)

type Wallet struct {
	// Registry is the YAML participant registry. Empty uses the built in
	// participants.
	Registry    string
	NodeAddress string
}

const (
	Cfg_wallet_registry    = "wallet.registry"
	Cfg_wallet_nodeAddress = "wallet.nodeAddress"
)

var (
	walletDefaults = map[string]interface{}{
		Cfg_wallet_registry:    "",
		Cfg_wallet_nodeAddress: "0xBTCZCY_ETHICAL_COMPUTATION_ADDRESS_7E3F",
	}
)

func init() {
	for k, v := range walletDefaults {
		viper.SetDefault(k, v)
	}
}

func buildWalletConfig() (*Wallet, error) {
	return &Wallet{
		Registry:    viper.GetString(Cfg_wallet_registry),
		NodeAddress: viper.GetString(Cfg_wallet_nodeAddress),
	}, nil
}
