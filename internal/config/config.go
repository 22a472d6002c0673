package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Providers ProviderConfig
	Batch     BatchConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ProviderConfig holds credentials and endpoints for the text-generation
// backends. A provider with an empty key/URL is simply not registered.
type ProviderConfig struct {
	OpenAIKey       string
	GroqKey         string
	AnthropicKey    string
	OllamaURL       string
	DefaultProvider string
	RequestTimeout  time.Duration // 0 = no per-call timeout
}

type BatchConfig struct {
	Parallelism int    // rows in flight per run; 1 preserves provider-call ordering
	Scorer      string // quality metric name, see internal/scorer
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	timeoutSecs, err := getEnvInt("PROVIDER_TIMEOUT_SECONDS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT_SECONDS: %w", err)
	}

	parallelism, err := getEnvInt("BATCH_PARALLELISM", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_PARALLELISM: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: maxConns,
			MinConns: minConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Providers: ProviderConfig{
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			GroqKey:         getEnv("GROQ_API_KEY", ""),
			AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:       getEnv("OLLAMA_URL", ""),
			DefaultProvider: getEnv("DEFAULT_PROVIDER", "groq"),
			RequestTimeout:  time.Duration(timeoutSecs) * time.Second,
		},
		Batch: BatchConfig{
			Parallelism: parallelism,
			Scorer:      getEnv("BATCH_SCORER", "json_validity"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.Batch.Parallelism < 1 {
		return fmt.Errorf("BATCH_PARALLELISM must be >= 1, got %d", c.Batch.Parallelism)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
