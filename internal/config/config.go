package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Host      string `env:"HOST" default:"127.0.0.1"`
	Port      string `env:"PORT" default:"5001"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// MaxClients caps simultaneous connections; 0 disables the cap.
	MaxClients int `env:"MAX_CLIENTS" default:"256"`

	// MessageRateLimit / MessageRateBurst throttle inbound messages per
	// connection. Backpressure only: messages are delayed, never dropped.
	MessageRateLimit float64 `env:"MESSAGE_RATE_LIMIT" default:"20"`
	MessageRateBurst int     `env:"MESSAGE_RATE_BURST" default:"40"`

	// SeedSampleReviews preloads the demo review backlog on startup.
	SeedSampleReviews bool `env:"SEED_SAMPLE_REVIEWS" default:"false"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.MaxClients < 0 {
		return fmt.Errorf("MAX_CLIENTS must not be negative")
	}
	if cfg.MessageRateLimit <= 0 {
		return fmt.Errorf("MESSAGE_RATE_LIMIT must be positive")
	}
	if cfg.MessageRateBurst < 1 {
		return fmt.Errorf("MESSAGE_RATE_BURST must be at least 1")
	}
	return nil
}

// Address returns the host:port the server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
