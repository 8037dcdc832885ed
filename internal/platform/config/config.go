// Package config loads the mine server configuration from YAML over shipped defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/infra/ai"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "MINE_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "mine.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Log      logger.Options `yaml:"log" json:"log"`
	Advisor  AdvisorConfig  `yaml:"advisor" json:"advisor"`
	Balance  rules.Balance  `yaml:"balance" json:"balance"`
	Seed     int64          `yaml:"seed" json:"seed"` // 0 seeds from the clock
	EventLog int            `yaml:"event_log_size" json:"event_log_size"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" json:"addr"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval" json:"broadcast_interval"`
	Profile           string        `yaml:"profile" json:"profile"` // default, stress, low
}

type StorageConfig struct {
	Path         string        `yaml:"path" json:"path"`
	Slot         string        `yaml:"slot" json:"slot"`
	SaveInterval time.Duration `yaml:"save_interval" json:"save_interval"`
}

type AdvisorConfig struct {
	ai.Config        `yaml:",inline"`
	Enabled          bool          `yaml:"enabled" json:"enabled"`
	DailyBudgetUSD   float64       `yaml:"daily_budget_usd" json:"daily_budget_usd"`
	MonthlyBudgetUSD float64       `yaml:"monthly_budget_usd" json:"monthly_budget_usd"`
	CacheSize        int           `yaml:"cache_size" json:"cache_size"`
	CacheTTL         time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// Default returns the shipped configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			BroadcastInterval: 250 * time.Millisecond,
			Profile:           "default",
		},
		Storage: StorageConfig{
			Path:         "./data/mine.db",
			Slot:         "default",
			SaveInterval: 5 * time.Second,
		},
		Advisor: AdvisorConfig{
			Config:           ai.Config{Provider: "openai", Timeout: 20 * time.Second},
			Enabled:          true,
			DailyBudgetUSD:   1,
			MonthlyBudgetUSD: 10,
			CacheSize:        128,
			CacheTTL:         2 * time.Minute,
		},
		Balance:  rules.DefaultBalance(),
		EventLog: 1000,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// LoadFromEnv loads the file named by MINE_CONFIG, or DefaultPath.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	b := c.Balance
	switch {
	case b.TickMillis <= 0:
		return errors.New("balance.tick_ms must be positive")
	case b.MaxSites < 1:
		return errors.New("balance.max_sites must be at least 1")
	case b.CatalogSize < 1:
		return errors.New("balance.catalog_size must be at least 1")
	case b.SkillPointInterval < 1:
		return errors.New("balance.skill_point_interval must be at least 1")
	case b.UpgradeCostMultiplier < 1 || b.NewSiteCostMultiplier < 1 || b.ManagerCostMultiplier < 1:
		return errors.New("balance cost multipliers must be at least 1")
	case c.Storage.SaveInterval <= 0:
		return errors.New("storage.save_interval must be positive")
	case c.Server.BroadcastInterval <= 0:
		return errors.New("server.broadcast_interval must be positive")
	}
	return nil
}
