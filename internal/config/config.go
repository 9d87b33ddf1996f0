package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all process-wide settings. Values are read once at startup
// and fixed for the process lifetime.
type Config struct {
	ServerAddress      string        `mapstructure:"server_address"`
	DBSource           string        `mapstructure:"db_source"`
	DBMaxConns         int32         `mapstructure:"db_max_conns"`
	DBAcquireTimeout   time.Duration `mapstructure:"db_acquire_timeout"`
	CacheCapacity      int           `mapstructure:"cache_capacity"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CacheSweepInterval time.Duration `mapstructure:"cache_sweep_interval"`
	AllowedOrigins     []string      `mapstructure:"allowed_origins"`
	LogLevel           string        `mapstructure:"log_level"`
}

// LoadConfig reads configuration from config.yaml in the given directory.
// Every key can be overridden through the environment (e.g. DB_SOURCE).
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server_address", "0.0.0.0:8000")
	// Registered with an empty default so the DB_SOURCE environment
	// variable is picked up even when no config file is present.
	viper.SetDefault("db_source", "")
	viper.SetDefault("db_max_conns", 10)
	viper.SetDefault("db_acquire_timeout", "5s")
	viper.SetDefault("cache_capacity", 1000)
	viper.SetDefault("cache_ttl", "1h")
	viper.SetDefault("cache_sweep_interval", "5m")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("log_level", "info")

	viper.AutomaticEnv()

	var config Config
	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine: defaults plus environment overrides
		// fully describe a working configuration.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, err
		}
	}
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, nil
}
