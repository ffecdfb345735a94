package config

import (
	"testing"
	"time"
)

func TestLoadIncludesGatewayDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("ENGINE_URL", "")
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "")
	t.Setenv("MAX_UPLOAD_MIB", "")

	cfg := Load()
	if cfg.APIPort != "5000" {
		t.Fatalf("expected default api port 5000, got %q", cfg.APIPort)
	}
	if cfg.EngineURL != "http://localhost:8000" {
		t.Fatalf("expected default engine url, got %q", cfg.EngineURL)
	}
	if cfg.EngineTimeout != 120*time.Second {
		t.Fatalf("expected default engine timeout 120s, got %v", cfg.EngineTimeout)
	}
	if cfg.MaxUploadBytes != 100<<20 {
		t.Fatalf("expected default upload cap 100 MiB, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("ENGINE_URL", "http://engine:9000")
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "15")
	t.Setenv("MAX_UPLOAD_MIB", "25")
	t.Setenv("API_RATE_LIMIT_RPS", "3")
	t.Setenv("API_RATE_LIMIT_BURST", "6")
	t.Setenv("ENGINE_BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.EngineURL != "http://engine:9000" {
		t.Fatalf("expected engine url override, got %q", cfg.EngineURL)
	}
	if cfg.EngineTimeout != 15*time.Second {
		t.Fatalf("expected engine timeout 15s, got %v", cfg.EngineTimeout)
	}
	if cfg.MaxUploadBytes != 25<<20 {
		t.Fatalf("expected upload cap 25 MiB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.APIRateLimitRPS != 3 || cfg.APIRateLimitBurst != 6 {
		t.Fatalf("expected rate limit overrides, got rps=%v burst=%d", cfg.APIRateLimitRPS, cfg.APIRateLimitBurst)
	}
	if cfg.BreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.EngineTimeout != 120*time.Second {
		t.Fatalf("expected fallback engine timeout, got %v", cfg.EngineTimeout)
	}
}
