package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// StoreConfig selects the key-value backend holding the persisted record.
type StoreConfig struct {
	Driver   string `yaml:"driver" validate:"required|in:memory,file,sqlite,none"`
	Path     string `yaml:"path"`
	Compress bool   `yaml:"compress"`
}

type TrackerConfig struct {
	StreakInterval  time.Duration `yaml:"streakInterval" validate:"required|min:1"`
	FlushInterval   time.Duration `yaml:"flushInterval"`
	TabRefreshDelay time.Duration `yaml:"tabRefreshDelay"`
	QueueSize       int           `yaml:"queueSize"`
	Timezone        string        `yaml:"timezone"`
	TabCloseSaving  float64       `yaml:"tabCloseSaving"`
	EmailsInInbox   int           `yaml:"emailsInInbox"`
}

type SimulationConfig struct {
	Enabled bool   `yaml:"enabled"`
	Seed    uint64 `yaml:"seed"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Store      StoreConfig      `yaml:"store"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Simulation SimulationConfig `yaml:"simulation"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
