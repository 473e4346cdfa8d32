package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"
)

// Config is read from the environment, optionally seeded from .env.
type Config struct {
	AppEnv      string
	LogLevel    string
	Store       string // StoreCSV or StoreSQLite
	DataFile    string
	SummaryFile string
	DBPath      string

	// Telegram mode is enabled when TelegramToken is set.
	TelegramToken   string
	TelegramOwnerID int64
}

func Load() (*Config, error) {
	// Missing .env files are fine.
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{
		AppEnv:        getEnvOrDefault("APP_ENV", "production"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Store:         getEnvOrDefault("DONORLOG_STORE", StoreCSV),
		DataFile:      getEnvOrDefault("DONORLOG_DATA_FILE", "donor_data.csv"),
		SummaryFile:   getEnvOrDefault("DONORLOG_SUMMARY_FILE", "donor_summary.csv"),
		DBPath:        getEnvOrDefault("DONORLOG_DB_PATH", "./data/donorlog.db"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.Store != StoreCSV && cfg.Store != StoreSQLite {
		return nil, fmt.Errorf("DONORLOG_STORE must be %q or %q, got %q", StoreCSV, StoreSQLite, cfg.Store)
	}

	if cfg.TelegramToken != "" {
		ownerStr := os.Getenv("TELEGRAM_OWNER_ID")
		if ownerStr == "" {
			return nil, fmt.Errorf("TELEGRAM_OWNER_ID is required when TELEGRAM_BOT_TOKEN is set")
		}
		owner, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_OWNER_ID: %w", err)
		}
		cfg.TelegramOwnerID = owner
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
