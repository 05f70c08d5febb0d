package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBackendURL is used when BACKEND_URL is not set.
const DefaultBackendURL = "https://resume-analyzer-backend-nine.vercel.app"

// Config holds application configuration.
type Config struct {
	BackendURL       string
	OutputDir        string
	SettingsDebounce time.Duration
	HistorySettle    time.Duration
	NotificationTTL  time.Duration
	Env              string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("cmd/.env")

	return Config{
		BackendURL:       strings.TrimRight(getEnv("BACKEND_URL", DefaultBackendURL), "/"),
		OutputDir:        getEnv("OUTPUT_DIR", "."),
		SettingsDebounce: getDurationMS("SETTINGS_DEBOUNCE_MS", 100),
		HistorySettle:    getDurationMS("HISTORY_SETTLE_MS", 100),
		NotificationTTL:  getDurationMS("NOTIFICATION_TTL_MS", 4000),
		Env:              normalizeEnv(getEnv("ENV", "dev")),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDurationMS(key string, def int) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Millisecond
		}
	}
	return time.Duration(def) * time.Millisecond
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
