package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qenawi/idle-mining/internal/domain/rules"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverridesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
storage:
  save_interval: 10s
log:
  level: debug
advisor:
  provider: anthropic
  model: claude-3-5-sonnet-20241022
  cache_ttl: 30s
balance:
  starting_cash: 50
  max_sites: 4
seed: 42
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, c.Server.BroadcastInterval)
	assert.Equal(t, 10*time.Second, c.Storage.SaveInterval)
	assert.Equal(t, "./data/mine.db", c.Storage.Path)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "anthropic", c.Advisor.Provider)
	assert.Equal(t, "claude-3-5-sonnet-20241022", c.Advisor.Model)
	assert.Equal(t, 30*time.Second, c.Advisor.CacheTTL)
	assert.Equal(t, 128, c.Advisor.CacheSize)
	assert.InDelta(t, 50.0, c.Balance.StartingCash, 1e-9)
	assert.Equal(t, 4, c.Balance.MaxSites)
	assert.Equal(t, rules.DefaultBalance().TickMillis, c.Balance.TickMillis)
	assert.Equal(t, int64(42), c.Seed)
}

func TestLoad_RejectsMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidBalance(t *testing.T) {
	_, err := Load(writeConfig(t, "balance:\n  tick_ms: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick_ms")
}

func TestLoad_CostMultipliers(t *testing.T) {
	c, err := Load(writeConfig(t, "balance:\n  upgrade_cost_multiplier: 1\n  manager_cost_multiplier: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Balance.UpgradeCostMultiplier)
	assert.Equal(t, 2, c.Balance.SiteLevelCurve().MaxAffordable(1, 250).Levels)

	_, err = Load(writeConfig(t, "balance:\n  new_site_cost_multiplier: 0.9\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multipliers")
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":7000\"\n")
	t.Setenv(EnvPath, path)

	c, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
}
