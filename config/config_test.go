package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/icodeforyou/solarcalc-go/calc"
	"github.com/icodeforyou/solarcalc-go/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  address: localhost
  port: 8090
database:
  path: /tmp/solarcalc.db
  backup_retention_days: 7
model:
  cost_per_watt: 2.75
  itc_rate: 0.26
prices:
  default: 0.15
  overrides:
    Texas: 0.12
mqtt:
  enabled: true
  host: broker.local
  port: 1883
logging:
  console_level: debug
  db_attrs_format: text
`)

	config, err := Load(path)
	require.NoError(t, err)

	t.Run("Api", func(t *testing.T) {
		assert.Equal(t, "localhost", config.Api.Address)
		assert.Equal(t, int16(8090), config.Api.Port)
		assert.Nil(t, config.Api.WwwDir)
		assert.NotEmpty(t, config.Api.GetSessionKey())
	})

	t.Run("Database", func(t *testing.T) {
		assert.Equal(t, "/tmp/solarcalc.db", config.Database.Path)
		assert.Equal(t, 7, config.Database.GetBackupRetentionDays())
	})

	t.Run("Model", func(t *testing.T) {
		c := config.Model.GetConstants()
		want := calc.DefaultConstants()
		want.CostPerWatt = 2.75
		want.ITCRate = 0.26
		assert.Equal(t, want, c)
	})

	t.Run("Prices", func(t *testing.T) {
		assert.Equal(t, 0.15, config.Prices.GetDefault())
		assert.Equal(t, 0.12, config.Prices.Overrides["texas"])
	})

	t.Run("Mqtt", func(t *testing.T) {
		assert.True(t, config.Mqtt.Enabled)
		assert.Equal(t, "broker.local", config.Mqtt.Host)
		assert.Equal(t, "solarcalc/result", config.Mqtt.GetTopic())
	})

	t.Run("Logging", func(t *testing.T) {
		assert.Equal(t, slog.LevelDebug, config.Logging.GetConsoleLevel())
		assert.Equal(t, slog.LevelInfo, config.Logging.GetDbLevel())
		assert.Equal(t, logging.LogAttrFormatText, config.Logging.GetDbAttrsFormat())
		assert.Equal(t, 10000, config.Logging.GetDbMaxEntries())
	})

	t.Run("Maintenance", func(t *testing.T) {
		assert.Equal(t, "30 2 * * *", config.Maintenance.GetRunAt())
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := Load(writeConfig(t, "api:\n  address: 0.0.0.0\n"))
	require.NoError(t, err)

	assert.Equal(t, int16(8080), config.Api.Port)
	assert.Equal(t, "solarcalc.db", config.Database.Path)
	assert.Equal(t, calc.DefaultConstants(), config.Model.GetConstants())
	assert.Equal(t, 0.13, config.Prices.GetDefault())
	assert.False(t, config.Mqtt.Enabled)
	assert.Equal(t, 30, config.Database.GetBackupRetentionDays())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	config, err := Load(writeConfig(t, "api:\n  port: 8090\n"))
	require.NoError(t, err)
	assert.Equal(t, int16(9000), config.Api.Port)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadShippedConfig(t *testing.T) {
	c, err := Load("config.yaml")
	require.NoError(t, err)

	assert.Equal(t, int16(8080), c.Api.Port)
	assert.Equal(t, calc.DefaultConstants(), c.Model.GetConstants())
	assert.InDelta(t, 0.13, c.Prices.GetDefault(), 1e-9)
	assert.False(t, c.Mqtt.Enabled)
	assert.Equal(t, "30 2 * * *", c.Maintenance.GetRunAt())
}
