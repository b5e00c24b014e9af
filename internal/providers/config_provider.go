package providers

import (
	"ecotrack/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.compress", true)
	v.SetDefault("tracker.streakInterval", time.Hour)
	v.SetDefault("tracker.flushInterval", time.Minute)
	v.SetDefault("tracker.tabRefreshDelay", time.Second)
	v.SetDefault("tracker.queueSize", 64)
	v.SetDefault("tracker.tabCloseSaving", 0.5)
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

	v.BindEnv("logger.level", "ECOTRACK_LOG_LEVEL")
	v.BindEnv("store.driver", "ECOTRACK_STORE_DRIVER")
	v.BindEnv("store.path", "ECOTRACK_STORE_PATH")
	v.BindEnv("simulation.enabled", "ECOTRACK_SIMULATION")
	v.BindEnv("tracker.streakInterval", "ECOTRACK_STREAK_INTERVAL")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if flags.SimulateMode {
		conf.Simulation.Enabled = true
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "EcoTrack"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
