package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                    string
	DatabaseURL             string
	SessionTTL              time.Duration
	UserCountTTL            time.Duration
	RateLimitPerMinute      int
	RateLimitBurst          int
	TokenRateLimitPerMinute int
	TokenRateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORTAL_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:                    port,
		DatabaseURL:             os.Getenv("DB_DSN"),
		SessionTTL:              readDuration("PORTAL_SESSION_TTL", 8*time.Hour),
		UserCountTTL:            readDuration("PORTAL_USER_COUNT_TTL", time.Minute),
		RateLimitPerMinute:      readInt("PORTAL_RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:          readInt("PORTAL_RATE_LIMIT_BURST", 30),
		TokenRateLimitPerMinute: readInt("PORTAL_TOKEN_RATE_LIMIT_PER_MIN", 300),
		TokenRateLimitBurst:     readInt("PORTAL_TOKEN_RATE_LIMIT_BURST", 60),
	}
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
