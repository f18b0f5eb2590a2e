package providers

import (
	"fmt"
	"path/filepath"
	"reelsd/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8787)
	v.SetDefault("storage.gcInterval", 5*time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("tracking.defaultInterval", 10)
	v.SetDefault("tracking.secondsPerReel", 10)
	v.SetDefault("tracking.tickUnit", time.Second)
	v.SetDefault("tracking.location", "Local")
	v.SetDefault("tracking.focusCheckInterval", time.Minute)
	v.SetDefault("background.enabled", true)
	v.SetDefault("background.queueSize", 16)
	v.SetDefault("cache.ttl", 30*time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setConfigDefaults(v)

	v.BindEnv("logger.level", "REELSD_LOG_LEVEL")
	v.BindEnv("storage.dir", "REELSD_DATA_DIR")
	v.BindEnv("webServer.port", "REELSD_HTTP_PORT")
	v.BindEnv("background.enabled", "REELSD_BACKGROUND_ENABLED")
	v.BindEnv("cache.enabled", "REELSD_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ReelsCounterDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
