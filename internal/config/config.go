package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	EngineURL     string
	EngineTimeout time.Duration

	StoragePath    string
	MaxUploadBytes int64

	APIRateLimitRPS   float64
	APIRateLimitBurst int

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	BreakerEnabled      bool
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "5000"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		EngineURL:     mustEnv("ENGINE_URL", "http://localhost:8000"),
		EngineTimeout: time.Duration(mustEnvInt("ENGINE_TIMEOUT_SECONDS", 120)) * time.Second,

		StoragePath:    mustEnv("STORAGE_PATH", "./uploads"),
		MaxUploadBytes: int64(mustEnvInt("MAX_UPLOAD_MIB", 100)) << 20,

		APIRateLimitRPS:   float64(mustEnvInt("API_RATE_LIMIT_RPS", 0)),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 0),

		RetryMaxAttempts:    mustEnvInt("ENGINE_RETRY_MAX_ATTEMPTS", 2),
		RetryInitialBackoff: time.Duration(mustEnvInt("ENGINE_RETRY_BACKOFF_MS", 200)) * time.Millisecond,
		BreakerEnabled:      mustEnvBool("ENGINE_BREAKER_ENABLED", true),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
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

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
