package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.Provider.Name)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "INR", cfg.Provider.Currency)
	assert.Equal(t, 5, cfg.Forecast.Window)
	assert.Equal(t, 5, cfg.Forecast.Horizon)
	assert.Equal(t, "retrospective", cfg.Forecast.Mode)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Database.RetentionDays)
	assert.Equal(t, "0 0 3 * * *", cfg.Schedule.PruneCron)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
provider:
  name: mock
  timeout: 5s
  currency: USD
forecast:
  window: 10
  horizon: 3
  mode: causal
server:
  addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.Provider.Name)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "USD", cfg.Provider.Currency)
	assert.Equal(t, 10, cfg.Forecast.Window)
	assert.Equal(t, 3, cfg.Forecast.Horizon)
	assert.Equal(t, "causal", cfg.Forecast.Mode)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "provider:\n  name: yahoo\n")
	t.Setenv("PROVIDER", "mock")
	t.Setenv("FORECAST_WINDOW", "7")
	t.Setenv("PROVIDER_TIMEOUT", "12s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Provider.Name)
	assert.Equal(t, 7, cfg.Forecast.Window)
	assert.Equal(t, 12*time.Second, cfg.Provider.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "provider: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	bad := *cfg
	bad.Provider.Name = "bloomberg"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Forecast.Mode = "weekly"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Forecast.Window = -1
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Telegram.BotToken = "token"
	bad.Telegram.ChatID = ""
	assert.Error(t, bad.Validate())
}

func TestLoad_ZeroHorizonIsKept(t *testing.T) {
	path := writeConfig(t, "forecast:\n  window: 5\n  horizon: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Forecast.Horizon)
	assert.NoError(t, cfg.Validate())

	path = writeConfig(t, "forecast:\n  window: 7\n")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Forecast.Horizon, "absent key keeps the default")
}

func TestLoad_ZeroHorizonFromEnv(t *testing.T) {
	t.Setenv("FORECAST_HORIZON", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Forecast.Horizon)
}
