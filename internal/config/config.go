package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the dashboard
type Config struct {
	// Remote trading-bot API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Polling
	TelemetryInterval time.Duration

	// Watchlist seed
	Watchlist []string

	// Telegram (optional)
	TelegramToken  string
	TelegramChatID int64

	// Trade archive ("off" disables it)
	DatabasePath string

	// Mode
	Debug bool
	NoUI  bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8000"), "/"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		TelemetryInterval: getEnvDuration("TELEMETRY_INTERVAL", 5*time.Second),

		Watchlist: getEnvList("WATCHLIST", nil),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		DatabasePath: getEnv("DATABASE_PATH", "data/algodash.db"),

		Debug: getEnvBool("DEBUG", false),
		NoUI:  getEnvBool("NO_UI", false),
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err == nil {
			cfg.TelegramChatID = id
		}
	}

	return cfg, nil
}

// ArchiveEnabled reports whether the trade archive should be opened.
func (c *Config) ArchiveEnabled() bool {
	return c.DatabasePath != "" && c.DatabasePath != "off"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
