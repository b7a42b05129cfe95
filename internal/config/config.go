// Package config loads runtime settings from the environment. A .env file in
// the working directory is picked up automatically.
package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

const (
	defaultPort            = 8080
	defaultUpstreamTimeout = 45 * time.Second
	defaultCacheSize       = 128

	// ProviderGemini and ProviderGroq select which upstream serves
	// generation requests.
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port            int
	Provider        string
	GeminiAPIKey    string
	GroqAPIKey      string
	UpstreamTimeout time.Duration
	MockFallback    bool
	DatabaseURL     string
	JWTSecret       string
	CacheSize       int
}

// FromEnv reads the environment and applies defaults. Missing API keys are
// not fatal here; the provider clients report them when a request arrives.
func FromEnv() Config {
	cfg := Config{
		Port:            intEnv("PORT", defaultPort),
		Provider:        stringEnv("LLM_PROVIDER", ProviderGemini),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		UpstreamTimeout: durationEnv("UPSTREAM_TIMEOUT", defaultUpstreamTimeout),
		MockFallback:    boolEnv("MOCK_FALLBACK", false),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		CacheSize:       intEnv("PLAN_CACHE_SIZE", defaultCacheSize),
	}

	if cfg.Provider != ProviderGemini && cfg.Provider != ProviderGroq {
		log.Warn().Str("provider", cfg.Provider).Msg("Unknown LLM_PROVIDER, falling back to gemini")
		cfg.Provider = ProviderGemini
	}
	if cfg.APIKey() == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("No API key configured for the selected provider")
	}
	return cfg
}

// APIKey returns the key matching the selected provider.
func (c Config) APIKey() string {
	if c.Provider == ProviderGroq {
		return c.GroqAPIKey
	}
	return c.GeminiAPIKey
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-integer environment value")
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-boolean environment value")
		return fallback
	}
	return b
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring unparsable duration value")
		return fallback
	}
	return d
}
