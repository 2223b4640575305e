package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the router worker
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"router-1"`

	// Ruleset configuration
	RulesetPath string `env:"RULESET_PATH" envDefault:"ruleset.yaml"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Stream configuration
	StreamKey     string        `env:"STREAM_KEY" envDefault:"router.requests"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"router-workers"`
	ResultStream  string        `env:"RESULT_STREAM" envDefault:"router.decisions"`
	BlockTime     time.Duration `env:"BLOCK_TIME" envDefault:"1s"`

	// Gateway configuration
	ExecuteDecisions bool `env:"EXECUTE_DECISIONS" envDefault:"true"`

	// Admin server configuration
	AdminPort int `env:"ADMIN_PORT" envDefault:"8082"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	if c.RulesetPath == "" {
		return fmt.Errorf("RULESET_PATH is required")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.StreamKey == "" {
		return fmt.Errorf("STREAM_KEY is required")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("CONSUMER_GROUP is required")
	}

	if c.ResultStream == "" {
		return fmt.Errorf("RESULT_STREAM is required")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.AdminPort <= 0 || c.AdminPort > 65535 {
		return fmt.Errorf("ADMIN_PORT must be between 1 and 65535")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, RulesetPath=%s, RedisAddr=%s, RedisDB=%d, StreamKey=%s, "+
			"ConsumerGroup=%s, ResultStream=%s, ExecuteDecisions=%v, AdminPort=%d, LogLevel=%s}",
		c.WorkerID,
		c.RulesetPath,
		c.RedisAddr,
		c.RedisDB,
		c.StreamKey,
		c.ConsumerGroup,
		c.ResultStream,
		c.ExecuteDecisions,
		c.AdminPort,
		c.LogLevel,
	)
}
