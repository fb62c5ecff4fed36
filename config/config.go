package config

import (
	"github.com/spf13/viper"
)

// Config is read from environment variables with sensible local defaults,
// so the binary runs unconfigured on a laptop and fully configured in a pod.
type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	DBPath          string `mapstructure:"DB_PATH"`
	LocalDev        bool   `mapstructure:"LOCAL_DEV"`
	WatcherInterval string `mapstructure:"WATCHER_INTERVAL"`
}

// Load reads configuration from the environment.
func Load() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_PATH", "payroll.db")
	viper.SetDefault("LOCAL_DEV", true)
	viper.SetDefault("WATCHER_INTERVAL", "1h")

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
