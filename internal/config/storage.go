package config

import (
	"github.com/spf13/viper"
)

type Storage struct {
	// DataDir holds the pebble block store. Empty keeps blocks in memory.
	DataDir string

	Export struct {
		Enabled bool
		JSON    string
		CSV     string
	}
}

const (
	Cfg_storage_dataDir = "storage.dataDir"
	Cfg_export_enabled  = "export.enabled"
	Cfg_export_json     = "export.json"
	Cfg_export_csv      = "export.csv"
)

var (
	storageDefaults = map[string]interface{}{
		Cfg_storage_dataDir: "",
		Cfg_export_enabled:  true,
		Cfg_export_json:     "blockchain_audit_log.json",
		Cfg_export_csv:      "blockchain_ledger.csv",
	}
)

func init() {
	for k, v := range storageDefaults {
		viper.SetDefault(k, v)
	}
}

func buildStorageConfig() (*Storage, error) {
	c := &Storage{}

	c.DataDir = viper.GetString(Cfg_storage_dataDir)
	c.Export.Enabled = viper.GetBool(Cfg_export_enabled)
	c.Export.JSON = viper.GetString(Cfg_export_json)
	c.Export.CSV = viper.GetString(Cfg_export_csv)

	return c, nil
}
