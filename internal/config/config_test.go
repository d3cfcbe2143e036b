package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := build()
	require.NoError(t, err)

	assert.True(t, c.Chain().Genesis)
	assert.Equal(t, 0.0000001, c.Chain().InitialDifficulty)
	assert.Equal(t, 0.0000001, c.Chain().DifficultyIncrement)

	assert.Equal(t, time.Second, c.Consensus().Tick)
	assert.Equal(t, 30*time.Minute, c.Consensus().Seed.Interval)
	assert.Equal(t, uint64(1500), c.Consensus().Seed.Reward)
	assert.Equal(t, 5, c.Consensus().Seed.PrefixLength)
	assert.Equal(t, 5*time.Minute, c.Consensus().Traffic.Interval)
	assert.Equal(t, uint64(150), c.Consensus().Traffic.Reward)
	assert.Equal(t, 5*time.Minute, c.Consensus().Traffic.ChallengeTTL)
	assert.Equal(t, "immediate", c.Consensus().Traffic.Acceptance)

	assert.Equal(t, "", c.Storage().DataDir)
	assert.Equal(t, "blockchain_audit_log.json", c.Storage().Export.JSON)
	assert.Equal(t, "blockchain_ledger.csv", c.Storage().Export.CSV)

	assert.Equal(t, "000", c.Sim().PowPrefix)
	assert.Equal(t, 10000, c.Sim().PowMaxIterations)
	assert.Equal(t, "", c.Metrics().Listen)
	assert.NotEmpty(t, c.Wallet().NodeAddress)
}

func TestOverrides(t *testing.T) {
	viper.Set(Cfg_consensus_traffic_acceptance, "gated")
	viper.Set(Cfg_consensus_seed_interval, "1m")
	t.Cleanup(func() {
		viper.Set(Cfg_consensus_traffic_acceptance, "immediate")
		viper.Set(Cfg_consensus_seed_interval, "30m")
	})

	c, err := build()
	require.NoError(t, err)
	assert.Equal(t, "gated", c.Consensus().Traffic.Acceptance)
	assert.Equal(t, time.Minute, c.Consensus().Seed.Interval)
}

func TestInvalid(t *testing.T) {
	viper.Set(Cfg_consensus_traffic_acceptance, "eventually")
	t.Cleanup(func() { viper.Set(Cfg_consensus_traffic_acceptance, "immediate") })

	_, err := build()
	assert.Error(t, err)
}
