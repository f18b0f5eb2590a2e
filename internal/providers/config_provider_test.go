package providers

import (
	"os"
	"path/filepath"
	"reelsd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
webServer:
  host: 127.0.0.1
  port: 9000
storage:
  inMemory: true
logger:
  level: debug
  dir: /tmp
tracking:
  defaultInterval: 15
  location: UTC
  focusCheckInterval: 30s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_LoadsFileAndDefaults(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "ReelsCounterDaemon", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 9000, conf.WebServer.Port)
	assert.True(t, conf.Storage.InMemory)
	assert.Equal(t, 15, conf.Tracking.DefaultInterval)
	assert.Equal(t, 30*time.Second, conf.Tracking.FocusCheckInterval)
	// defaults
	assert.Equal(t, 10, conf.Tracking.SecondsPerReel)
	assert.Equal(t, time.Second, conf.Tracking.TickUnit)
	assert.True(t, conf.Background.Enabled)
	assert.Equal(t, 5*time.Minute, conf.Storage.GcInterval)
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	t.Setenv("REELSD_HTTP_PORT", "9100")
	t.Setenv("REELSD_LOG_LEVEL", "warn")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 9100, conf.WebServer.Port)
	assert.Equal(t, "warn", conf.Logger.Level)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/config.yaml"})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, sampleConfig+"\n  secondsPerReel: 0\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
