package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full bot configuration.
type Config struct {
	Follower FollowerConfig `yaml:"follower"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"-"` // env only, never in YAML
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// FollowerConfig controls the trading loop.
type FollowerConfig struct {
	IntervalMinutes     int      `yaml:"interval_minutes"`
	ScoreRefreshMinutes int      `yaml:"score_refresh_minutes"`
	Users               []string `yaml:"users"` // fixed tracked users; empty = leaderboard discovery
	MaxBetContracts     int      `yaml:"max_bet_contracts"`
	MaxOrdersPerCycle   int      `yaml:"max_orders_per_cycle"`
	MinConsensusScore   float64  `yaml:"min_consensus_score"`
	MaxPriceCents       int      `yaml:"max_price_cents"`
	MinBalanceCents     int64    `yaml:"min_balance_cents"`
}

// ScoringConfig controls leaderboard discovery and skill ranking.
type ScoringConfig struct {
	Metrics          []string `yaml:"metrics"`
	Windows          []int    `yaml:"windows"` // since_day_before values
	Categories       []string `yaml:"categories"`
	LeaderboardLimit int      `yaml:"leaderboard_limit"`
	ShrinkageK       float64  `yaml:"shrinkage_k"`
	MinTrades        int      `yaml:"min_trades"`
	TopN             int      `yaml:"top_n"`
}

// APIConfig holds the venue base URL.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// AuthConfig holds the trading credentials. Secrets come from the environment
// (or .env), never from the YAML file.
type AuthConfig struct {
	KeyID          string // KALSHI_ACCESS_KEY_ID
	PrivateKeyPath string // KALSHI_PRIVATE_KEY_PATH, PEM file
}

// StorageConfig controls where state is persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML file and the .env file if present. Environment values
// override the YAML for the keys they map to.
func Load(path string) (*Config, error) {
	// Load .env if present (missing file is not an error).
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Interval returns the trade loop cadence as a time.Duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Follower.IntervalMinutes) * time.Minute
}

// ScoreRefresh returns the skill recompute cadence as a time.Duration.
func (c *Config) ScoreRefresh() time.Duration {
	return time.Duration(c.Follower.ScoreRefreshMinutes) * time.Minute
}

// applyEnvOverrides copies environment variables over the YAML values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KALSHI_ACCESS_KEY_ID"); v != "" {
		cfg.Auth.KeyID = v
	}
	if v := os.Getenv("KALSHI_PRIVATE_KEY_PATH"); v != "" {
		cfg.Auth.PrivateKeyPath = v
	}
	if v := os.Getenv("KALSHI_API_BASE"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults fills unset values with working defaults.
func setDefaults(cfg *Config) {
	if cfg.Follower.IntervalMinutes <= 0 {
		cfg.Follower.IntervalMinutes = 5
	}
	if cfg.Follower.ScoreRefreshMinutes <= 0 {
		cfg.Follower.ScoreRefreshMinutes = 30
	}
	if cfg.Follower.MaxBetContracts <= 0 {
		cfg.Follower.MaxBetContracts = 5
	}
	if cfg.Follower.MaxOrdersPerCycle <= 0 {
		cfg.Follower.MaxOrdersPerCycle = 4
	}
	if cfg.Follower.MaxPriceCents <= 0 {
		cfg.Follower.MaxPriceCents = 92
	}
	if cfg.Scoring.Metrics == nil {
		cfg.Scoring.Metrics = []string{"projected_pnl", "volume"}
	}
	if cfg.Scoring.Windows == nil {
		cfg.Scoring.Windows = []int{0, 7}
	}
	if cfg.Scoring.LeaderboardLimit <= 0 {
		cfg.Scoring.LeaderboardLimit = 99
	}
	if cfg.Scoring.ShrinkageK <= 0 {
		cfg.Scoring.ShrinkageK = 200
	}
	if cfg.Scoring.MinTrades <= 0 {
		cfg.Scoring.MinTrades = 100
	}
	if cfg.Scoring.TopN <= 0 {
		cfg.Scoring.TopN = 50
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.elections.kalshi.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "bestie.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
