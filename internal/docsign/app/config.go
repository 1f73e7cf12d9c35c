package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string        // issuer claim for minted tokens
	JWTSecret string        // Required: HS256 secret, at least 32 bytes
	AccessTTL time.Duration // access token lifetime (default: 6h)

	BotToken    string // Required: Telegram bot API token
	BotUsername string // Required: bot username for registration deep links
	BotAPIBase  string // Optional: override the Bot API base URL

	DatabaseFile         string        // path to SQLite database file (default: ./docsign.db)
	Env                  string        // dev, staging, prod (default: dev)
	LogLevel             string        // debug, info, warn, error (default: info)
	LogFormat            string        // json, text (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // expired-record sweep interval (default: 1h)
}

var (
	ErrMissingJWTSecret = errors.New("DOCSIGN_JWT_SECRET is required (32+ bytes)")
	ErrMissingBotToken  = errors.New("DOCSIGN_BOT_TOKEN is required")
	ErrMissingBotName   = errors.New("DOCSIGN_BOT_USERNAME is required")
)

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("DOCSIGN_ISSUER", "docsign"),
		JWTSecret:            os.Getenv("DOCSIGN_JWT_SECRET"),
		AccessTTL:            getEnvDurationOrDefault("DOCSIGN_ACCESS_TTL", 6*time.Hour),
		BotToken:             os.Getenv("DOCSIGN_BOT_TOKEN"),
		BotUsername:          os.Getenv("DOCSIGN_BOT_USERNAME"),
		BotAPIBase:           os.Getenv("DOCSIGN_BOT_API_BASE"),
		DatabaseFile:         getEnvOrDefault("DOCSIGN_DATABASE_FILE", "docsign.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

// Validate checks the settings that have no sensible default.
func (c Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return ErrMissingJWTSecret
	}
	if c.BotToken == "" {
		return ErrMissingBotToken
	}
	if c.BotUsername == "" {
		return ErrMissingBotName
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are taken as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
