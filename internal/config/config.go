package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, shared by the verification
// CLIs and the stub attendance API server.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// DatabasePath points at the school management SQLite database.
	DatabasePath string

	// RedisURL enables the analytics response cache when non-empty.
	RedisURL          string
	AnalyticsCacheTTL time.Duration

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	// API verification settings.
	APIBaseURL  string
	APIUsername string
	APIPassword string
	APITimeout  time.Duration
	PeriodType  string

	// WindowDays is the inclusive day window for direct DB verification.
	WindowDays int

	// LegacyCombinedRates makes the stub server reproduce the historical
	// defect in the no-session-filter analytics path.
	LegacyCombinedRates bool

	// AllowedOrigins controls HTTP CORS for the stub server.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8000"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		DatabasePath:        getEnv("DATABASE_PATH", "./school_management.db"),
		RedisURL:            getEnv("REDIS_URL", ""),
		AnalyticsCacheTTL:   time.Duration(getEnvInt("ANALYTICS_CACHE_TTL_SECONDS", 300)) * time.Second,
		JWTSecret:           getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:           time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		BcryptCost:          getEnvInt("BCRYPT_COST", 10),
		APIBaseURL:          getEnv("API_BASE_URL", "http://localhost:8000/api/v1"),
		APIUsername:         getEnv("API_USERNAME", "director"),
		APIPassword:         getEnv("API_PASSWORD", ""),
		APITimeout:          time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		PeriodType:          getEnv("PERIOD_TYPE", "monthly"),
		WindowDays:          getEnvInt("WINDOW_DAYS", 30),
		LegacyCombinedRates: getEnvBool("LEGACY_COMBINED_RATES", false),
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
