package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"aitracker/internal/dedup"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"AI_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"AI_DB_MAX_CONNS" default:"8"`

	// Dedup tuning. Zero values keep the calibrated engine defaults.
	DedupWindowDays        int     `envconfig:"DEDUP_WINDOW_DAYS" default:"14"`
	DedupTokenSetThreshold int     `envconfig:"DEDUP_TOKEN_SET_THRESHOLD" default:"0"`
	DedupPartialThreshold  int     `envconfig:"DEDUP_PARTIAL_THRESHOLD" default:"0"`
	DedupCombinedThreshold float64 `envconfig:"DEDUP_COMBINED_THRESHOLD" default:"0"`
	DedupAmountTolerance   float64 `envconfig:"DEDUP_AMOUNT_TOLERANCE" default:"0"`

	HTTPHost string `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8085"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("AI_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("AI_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("AI_DB_MIN_CONNS (%d) cannot exceed AI_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.DedupWindowDays < 1 {
		return fmt.Errorf("DEDUP_WINDOW_DAYS must be >= 1")
	}
	if c.DedupTokenSetThreshold < 0 || c.DedupTokenSetThreshold > 100 {
		return fmt.Errorf("DEDUP_TOKEN_SET_THRESHOLD must be between 0 and 100")
	}
	if c.DedupPartialThreshold < 0 || c.DedupPartialThreshold > 100 {
		return fmt.Errorf("DEDUP_PARTIAL_THRESHOLD must be between 0 and 100")
	}
	if c.DedupCombinedThreshold < 0 || c.DedupCombinedThreshold > 100 {
		return fmt.Errorf("DEDUP_COMBINED_THRESHOLD must be between 0 and 100")
	}
	if c.DedupAmountTolerance < 0 || c.DedupAmountTolerance >= 1 {
		return fmt.Errorf("DEDUP_AMOUNT_TOLERANCE must be in [0, 1)")
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be a valid port")
	}
	return nil
}

// DedupConfig maps environment overrides onto the engine config.
func (c *Config) DedupConfig() dedup.Config {
	cfg := dedup.DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.DedupWindowDays > 0 {
		cfg.WindowDays = c.DedupWindowDays
	}
	if c.DedupTokenSetThreshold > 0 {
		cfg.TokenSetThreshold = c.DedupTokenSetThreshold
	}
	if c.DedupPartialThreshold > 0 {
		cfg.PartialThreshold = c.DedupPartialThreshold
	}
	if c.DedupCombinedThreshold > 0 {
		cfg.CombinedThreshold = c.DedupCombinedThreshold
	}
	if c.DedupAmountTolerance > 0 {
		cfg.AmountTolerance = c.DedupAmountTolerance
	}
	return cfg
}
