package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	t.Setenv("CONFIG_FILE", "")
	os.Unsetenv("CONFIG_FILE")
}

func validConfig() *Config {
	return &Config{
		AI:      AIConfig{Provider: ProviderGemini, GeminiAPIKey: "key", Model: DefaultGeminiModel},
		HTTP:    HTTPConfig{Host: "0.0.0.0", Port: 8080, JWTSecret: "0123456789abcdef", TokenTTL: time.Hour},
		Storage: StorageConfig{Driver: "memory", MemorySizeMB: 16},
		Cache:   CacheConfig{TTL: 24 * time.Hour, PurgeExpired: true},
		Logger:  LoggerConfig{Level: "info", OutputPath: "stdout", Format: "json"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("JWT_SECRET", "a-very-long-secret-value")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.AI.Model)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 720*time.Hour, cfg.HTTP.TokenTTL)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 64, cfg.Storage.MemorySizeMB)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.PurgeExpired)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "fitscan", cfg.DB.DBName)
	assert.Equal(t, "", cfg.Telegram.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JWT_SECRET", "a-very-long-secret-value")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ANALYSIS_CACHE_TTL", "90m")
	t.Setenv("ANALYSIS_CACHE_PURGE", "false")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, DefaultOpenAIModel, cfg.AI.Model)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.PurgeExpired)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "fitscan.yaml")
	content := "ai:\n  geminiApiKey: from-file\nhttp:\n  jwtSecret: secret-from-file-123\n  port: 7000\nstorage:\n  driver: file\n  filePath: /tmp/kv.zst\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.AI.GeminiAPIKey)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/kv.zst", cfg.Storage.FilePath)
	assert.Equal(t, 7001, cfg.HTTP.Port, "environment wins over the file")
}

func TestLoad_MissingSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.AI.Provider = "claude" }},
		{"gemini without key", func(c *Config) { c.AI.GeminiAPIKey = "" }},
		{"openai without key", func(c *Config) { c.AI.Provider = ProviderOpenAI }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }},
		{"file driver without path", func(c *Config) { c.Storage.Driver = "file"; c.Storage.FilePath = "" }},
		{"short jwt secret", func(c *Config) { c.HTTP.JWTSecret = "short" }},
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"zero cache ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoggerSettings(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "debug"
	s := c.LoggerSettings()
	assert.Equal(t, logger.LevelDebug, s.Level)
	assert.Equal(t, "stdout", s.OutputPath)

	c.Logger.OutputPath = "logs/app.log"
	assert.Equal(t, "logs/app.log", c.LoggerSettings().OutputPath)
}
