package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "rest", cfg.LLM.Backend)
	assert.Equal(t, DefaultWeatherURL, cfg.Weather.URL)
	assert.Equal(t, 20*time.Second, cfg.Weather.Timeout)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "weatherchat.yaml")
	yml := `
storage:
  backend: sqlite
  path: chats.db
weather:
  timeout: 5s
  cache_ttl: 10m
llm:
  model: gemini-test
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("WEATHERCHAT_MODEL_NAME", "gemini-env")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("WEATHERCHAT_LLM_TIMEOUT", "1500")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "chats.db", cfg.Storage.Path)
	assert.Equal(t, 5*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, "gemini-env", cfg.LLM.Model)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, 1500*time.Millisecond, cfg.LLM.Timeout)
}

func TestLoadMockFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEATHERCHAT_USE_MOCK_LLM", "1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Backend)
}

func TestLoadLogRotationEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEATHERCHAT_LOG_MAX_SIZE_MB", "50")
	t.Setenv("WEATHERCHAT_LOG_MAX_BACKUPS", "2")
	t.Setenv("WEATHERCHAT_LOG_MAX_AGE_DAYS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Log.MaxSizeMB)
	assert.Equal(t, 2, cfg.Log.MaxBackups)
	assert.Equal(t, 7, cfg.Log.MaxAgeDays)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "tape"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Storage.Backend = "firestore"
	assert.Error(t, cfg.Validate())
	cfg.Storage.GCPProjectID = "proj"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.Backend = "gpt"
	assert.Error(t, cfg.Validate())
}
