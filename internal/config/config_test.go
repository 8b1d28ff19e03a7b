package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[llm]
provider = "openai"
model = "gpt-4o-mini"
timeout = "25s"

[dataset]
backend = "redis"

[redis]
addr = "redis:6379"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 25*time.Second, cfg.LLM.Timeout.Duration)
	assert.Equal(t, "redis", cfg.Dataset.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	// Untouched sections keep their defaults.
	assert.Equal(t, "vacant_buildings.geojson", cfg.Dataset.Key)
	assert.Equal(t, 10, cfg.Chat.HistoryLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Dataset.Backend)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":            "9090",
		"LLM_PROVIDER":    "claude",
		"LLM_API_KEY":     "sk-test",
		"GEMINI_API_KEY":  "g-key",
		"DATASET_BACKEND": "memory",
		"REDIS_DB":        "3",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "g-key", cfg.Analysis.APIKey)
	assert.Equal(t, "memory", cfg.Dataset.Backend)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Backend = "s3"
	cfg.Database.Driver = "mysql"
	cfg.Chat.HistoryLimit = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.backend")
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "chat.history_limit")
}
