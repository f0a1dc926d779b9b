package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_API_ID", "12345")
	t.Setenv("TELEGRAM_API_HASH", "hash")
	t.Setenv("PET_HOME_TOKEN", "bot-token")
	t.Setenv("PET_HOME_ADDR", "localhost")
	t.Setenv("PET_HOME_PORT", "8080")
}

func TestLoadPath_EnvOnly(t *testing.T) {
	setRequired(t)

	cfg, err := LoadPath("")
	require.NoError(t, err)

	assert.Equal(t, int32(12345), cfg.ApiID)
	assert.Equal(t, "bot-token", cfg.BotToken)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.PetHome.Timeout)
	assert.Equal(t, 3, cfg.PetHome.Retries)
	assert.Equal(t, "http://localhost:8080", cfg.PetHome.BaseURL())
	assert.Equal(t, 5, cfg.LoginGuard.Limit)
	assert.Equal(t, 15*time.Minute, cfg.LoginGuard.Window)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoadPath_YAMLWithEnvOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("PET_HOME_PORT", "9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: prod
base_dir: /var/lib/petbot
workers: 2
pet_home:
  addr: pethome.internal
  port: "80"
  timeout: 3s
redis:
  url: redis://localhost:6379/0
login_guard:
  limit: 3
  window: 1m
`), 0o600))

	cfg, err := LoadPath(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "/var/lib/petbot", cfg.BaseDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "http://localhost:9090", cfg.PetHome.BaseURL())
	assert.Equal(t, 3*time.Second, cfg.PetHome.Timeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 3, cfg.LoginGuard.Limit)
	assert.Equal(t, time.Minute, cfg.LoginGuard.Window)
}

func TestLoadPath_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("PET_HOME_TOKEN", "")
	require.NoError(t, os.Unsetenv("PET_HOME_TOKEN"))

	_, err := LoadPath("")
	assert.Error(t, err)
}

func TestLoadPath_ProxyNeedsServer(t *testing.T) {
	setRequired(t)
	t.Setenv("PROXY_ENABLED", "true")

	_, err := LoadPath("")
	assert.Error(t, err)
}
