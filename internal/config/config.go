package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// Storage
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"bolt"` // "bolt" or "sqlite"
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./data/mailvault.db"`

	// HTTP API
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// IMAP gateway (optional, disabled when empty)
	IMAPListenAddr string `env:"IMAP_LISTEN_ADDR"`

	// Identity
	AliasDomain string `env:"ALIAS_DOMAIN" envDefault:"demailx"`
	AuthSecret  string `env:"AUTH_SECRET,required"` // HS256 secret shared with the wallet frontend

	// Telegram notifications (optional)
	TelegramToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// TelegramEnabled returns true if Telegram notifications are configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DatabaseDriver != "bolt" && cfg.DatabaseDriver != "sqlite" {
		return nil, fmt.Errorf("DATABASE_DRIVER must be bolt or sqlite, got %q", cfg.DatabaseDriver)
	}
	if len(cfg.AuthSecret) < 16 {
		return nil, fmt.Errorf("AUTH_SECRET must be at least 16 bytes, got %d", len(cfg.AuthSecret))
	}

	return cfg, nil
}
