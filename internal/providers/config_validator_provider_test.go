package providers

import (
	"reelsd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Storage: structures.StorageConfig{
			Dir:        "/tmp/reelsd",
			GcInterval: 5 * time.Minute,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Tracking: structures.TrackingConfig{
			DefaultInterval:    10,
			SecondsPerReel:     10,
			TickUnit:           time.Second,
			Location:           "UTC",
			FocusCheckInterval: time.Minute,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_IntervalOutOfRange(t *testing.T) {
	c := validConfig()
	c.Tracking.DefaultInterval = 61
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Tracking.DefaultInterval = 4
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_StorageDirRequired(t *testing.T) {
	c := validConfig()
	c.Storage.Dir = ""
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Storage.InMemory = true
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_UnknownLocation(t *testing.T) {
	c := validConfig()
	c.Tracking.Location = "Mars/Olympus"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_CacheWithoutSize(t *testing.T) {
	c := validConfig()
	c.Cache.Enabled = true
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Cache.Size = 1
	assert.NoError(t, NewCnfValidator(c).Validate())
}
