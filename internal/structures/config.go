package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Dir        string        `yaml:"dir"`
	InMemory   bool          `yaml:"inMemory"`
	GcInterval time.Duration `yaml:"gcInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type TrackingConfig struct {
	DefaultInterval    int           `yaml:"defaultInterval" validate:"required|int|min:5|max:60"`
	SecondsPerReel     int           `yaml:"secondsPerReel" validate:"required|int|min:1"`
	TickUnit           time.Duration `yaml:"tickUnit"`
	Location           string        `yaml:"location"`
	FocusCheckInterval time.Duration `yaml:"focusCheckInterval" validate:"required|min:1"`
	PinCost            int           `yaml:"pinCost"`
}

type BackgroundConfig struct {
	Enabled   bool `yaml:"enabled"`
	QueueSize int  `yaml:"queueSize"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Storage    StorageConfig    `yaml:"storage"`
	Logger     LoggerConfig     `yaml:"logger"`
	Tracking   TrackingConfig   `yaml:"tracking"`
	Background BackgroundConfig `yaml:"background"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Export     ExportConfig     `yaml:"export"`
}
