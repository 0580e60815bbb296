package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAIEndpoint = "https://models.github.ai/inference/chat/completions"
	defaultAIModel    = "openai/gpt-4o-mini"
)

type Config struct {
	Env         string
	LogLevel    string
	Port        string
	DatabaseURL string
	SQLitePath  string
	AIAPIKey    string
	AIEndpoint  string
	AIModel     string
	AITimeout   time.Duration
	CORSOrigins []string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnv("PORT", "5000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "learning_buddy.db"),
		AIAPIKey:    getEnv("AI_API_KEY", getEnv("GITHUB_PAT", "")),
		AIEndpoint:  getEnv("AI_ENDPOINT", defaultAIEndpoint),
		AIModel:     getEnv("AI_MODEL", defaultAIModel),
		AITimeout:   getEnvDuration("AI_TIMEOUT", 30*time.Second),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.SQLitePath == "" {
		return errors.New("SQLITE_PATH cannot be empty")
	}
	if c.AITimeout <= 0 {
		return errors.New("AI_TIMEOUT must be positive")
	}
	return nil
}

// AIEnabled reports whether a real chat-completions backend is configured.
func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
