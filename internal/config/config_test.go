package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "PORT", "DATABASE_URL", "SQLITE_PATH",
		"AI_API_KEY", "GITHUB_PAT", "AI_ENDPOINT", "AI_MODEL", "AI_TIMEOUT", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "learning_buddy.db", cfg.SQLitePath)
	assert.Equal(t, defaultAIEndpoint, cfg.AIEndpoint)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.AIEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgresql://u:p@db:5432/buddy")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GITHUB_PAT", "ghp_test")
	t.Setenv("AI_TIMEOUT", "5")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://buddy.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "postgresql://u:p@db:5432/buddy", cfg.DatabaseURL)
	assert.Equal(t, "ghp_test", cfg.AIAPIKey)
	assert.True(t, cfg.AIEnabled())
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://buddy.example.com"}, cfg.CORSOrigins)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("APP_ENV", "moon")
	_, err := Load()
	assert.Error(t, err)
}
