package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LLM_PROVIDER", "GEMINI_API_KEY", "GROQ_API_KEY",
		"UPSTREAM_TIMEOUT", "MOCK_FALLBACK", "DATABASE_URL", "JWT_SECRET",
		"PLAN_CACHE_SIZE",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Provider != ProviderGemini {
		t.Errorf("Expected default provider gemini, got %q", cfg.Provider)
	}
	if cfg.UpstreamTimeout != 45*time.Second {
		t.Errorf("Expected default timeout 45s, got %v", cfg.UpstreamTimeout)
	}
	if cfg.MockFallback {
		t.Error("Expected mock fallback disabled by default")
	}
	if cfg.CacheSize != 128 {
		t.Errorf("Expected default cache size 128, got %d", cfg.CacheSize)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("UPSTREAM_TIMEOUT", "10s")
	t.Setenv("MOCK_FALLBACK", "true")
	t.Setenv("PLAN_CACHE_SIZE", "16")

	cfg := FromEnv()
	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.Provider != ProviderGroq {
		t.Errorf("Expected provider groq, got %q", cfg.Provider)
	}
	if cfg.APIKey() != "gsk-test" {
		t.Errorf("Expected groq key to be selected, got %q", cfg.APIKey())
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", cfg.UpstreamTimeout)
	}
	if !cfg.MockFallback {
		t.Error("Expected mock fallback enabled")
	}
	if cfg.CacheSize != 16 {
		t.Errorf("Expected cache size 16, got %d", cfg.CacheSize)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("LLM_PROVIDER", "skynet")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	t.Setenv("MOCK_FALLBACK", "maybe")

	cfg := FromEnv()
	if cfg.Port != 8080 {
		t.Errorf("Expected fallback port, got %d", cfg.Port)
	}
	if cfg.Provider != ProviderGemini {
		t.Errorf("Expected fallback provider gemini, got %q", cfg.Provider)
	}
	if cfg.UpstreamTimeout != 45*time.Second {
		t.Errorf("Expected fallback timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.MockFallback {
		t.Error("Expected fallback mock setting false")
	}
}
