// Package config loads server settings from embedded YAML defaults with
// environment overrides.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Port           string        `yaml:"port"`
	DatabaseURL    string        `yaml:"database_url"`
	RedisURL       string        `yaml:"redis_url"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	WebhookTimeout time.Duration `yaml:"-"`
	CacheTTLStats  time.Duration `yaml:"-"`
	OllamaHost     string        `yaml:"ollama_host"`
	EmbedModel     string        `yaml:"embed_model"`

	WebhookTimeoutSeconds int `yaml:"webhook_timeout_seconds"`
	CacheTTLStatsSeconds  int `yaml:"cache_ttl_stats_seconds"`
}

// Load parses the embedded defaults and applies environment overrides.
func Load() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.EmbedModel = getEnv("EMBED_MODEL", cfg.EmbedModel)
	cfg.WebhookTimeoutSeconds = getEnvInt("WEBHOOK_TIMEOUT_SECONDS", cfg.WebhookTimeoutSeconds)
	cfg.CacheTTLStatsSeconds = getEnvInt("CACHE_TTL_STATS_SECONDS", cfg.CacheTTLStatsSeconds)

	cfg.WebhookTimeout = time.Duration(cfg.WebhookTimeoutSeconds) * time.Second
	cfg.CacheTTLStats = time.Duration(cfg.CacheTTLStatsSeconds) * time.Second

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
