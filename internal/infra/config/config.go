// Package config provides application-wide configuration loaded from env vars.
// All fields have safe defaults so the binary runs locally without any env setup.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration for Vocable.
type Config struct {
	// HTTP
	HTTPAddr string // HTTP_ADDR — default: ":8090"

	// Storage
	SQLitePath string // SQLITE_PATH — default: "vocable.db"

	// Lexicon
	LexiconDir    string // LEXICON_DIR — optional override directory, default: "" (embedded data only)
	DefaultLocale string // DEFAULT_LOCALE — default: "en"

	// Completion routing
	CompletionTimeout time.Duration // COMPLETION_TIMEOUT_MS — per provider attempt, default: 10000
	PredictAITimeout  time.Duration // PREDICT_AI_TIMEOUT_MS — AI suggestion tier budget, default: 2500

	// Usage history
	DecaySchedule string // HISTORY_DECAY_SCHEDULE — cron spec, default: "0 3 * * *"

	// Auth
	AdminKeyHash string // ADMIN_KEY_HASH — bcrypt hash guarding settings writes, default: ""

	// Logging
	LogLevel string // LOG_LEVEL — default: "info"
}

const (
	envKeyHTTPAddr          = "HTTP_ADDR"
	envKeySQLitePath        = "SQLITE_PATH"
	envKeyLexiconDir        = "LEXICON_DIR"
	envKeyDefaultLocale     = "DEFAULT_LOCALE"
	envKeyCompletionTimeout = "COMPLETION_TIMEOUT_MS"
	envKeyPredictAITimeout  = "PREDICT_AI_TIMEOUT_MS"
	envKeyDecaySchedule     = "HISTORY_DECAY_SCHEDULE"
	envKeyAdminKeyHash      = "ADMIN_KEY_HASH"
	envKeyLogLevel          = "LOG_LEVEL"
)

// Load reads configuration from environment variables, applying defaults for missing values.
func Load() Config {
	return Config{
		HTTPAddr:          envOr(envKeyHTTPAddr, ":8090"),
		SQLitePath:        envOr(envKeySQLitePath, "vocable.db"),
		LexiconDir:        envOr(envKeyLexiconDir, ""),
		DefaultLocale:     envOr(envKeyDefaultLocale, "en"),
		CompletionTimeout: envOrMillis(envKeyCompletionTimeout, 10000),
		PredictAITimeout:  envOrMillis(envKeyPredictAITimeout, 2500),
		DecaySchedule:     envOr(envKeyDecaySchedule, "0 3 * * *"),
		AdminKeyHash:      envOr(envKeyAdminKeyHash, ""),
		LogLevel:          envOr(envKeyLogLevel, "info"),
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrMillis parses the environment variable key as a millisecond count,
// falling back when unset or not a positive integer.
func envOrMillis(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}
