// Package config handles the loading and parsing of the application's configuration.
// It uses the Viper library to read from an optional YAML file and environment
// variables; Redis credentials always come from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Prajwalb0208/Newsletter-automation/internal/logger"
)

// Settings defines the overall configuration structure for the collector.
type Settings struct {
	Redis     RedisConfig     `mapstructure:"redis"`
	Collector CollectorConfig `mapstructure:"collector"`
	Search    SearchConfig    `mapstructure:"search"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Logging   logger.Config   `mapstructure:"logging"`
}

// RedisConfig holds the connection parameters for the Redis store.
// Host and Password are required; the transport is always TLS.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Timeout  int    `mapstructure:"timeout"`
}

// Addr returns the host:port address for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CollectorConfig tunes the collection loop.
type CollectorConfig struct {
	TargetURLs      int `mapstructure:"target_urls"`
	AttemptsPerPass int `mapstructure:"attempts_per_pass"`
	ResultsPerQuery int `mapstructure:"results_per_query"`
	QueryDelaySecs  int `mapstructure:"query_delay_seconds"`
}

// SearchConfig tunes the candidate source adapter.
type SearchConfig struct {
	TimeoutSecs int `mapstructure:"timeout_seconds"`
}

// ValidatorConfig tunes the URL liveness check.
type ValidatorConfig struct {
	TimeoutSecs int  `mapstructure:"timeout_seconds"`
	Strict      bool `mapstructure:"strict"`
}

// Load reads configuration from an optional YAML file plus the environment
// and returns the populated Settings. A missing config file is fine; missing
// Redis credentials are not.
func Load(path string) (Settings, error) {
	v := viper.New()

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.timeout", 5)
	v.SetDefault("collector.target_urls", 5)
	v.SetDefault("collector.attempts_per_pass", 2)
	v.SetDefault("collector.results_per_query", 10)
	v.SetDefault("collector.query_delay_seconds", 2)
	v.SetDefault("search.timeout_seconds", 15)
	v.SetDefault("validator.timeout_seconds", 5)
	v.SetDefault("validator.strict", false)
	v.SetDefault("logging.level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// REDIS_HOST / REDIS_PORT / REDIS_PASSWORD map onto the redis.* keys.
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Validate checks that the settings required at startup are present.
func (s Settings) Validate() error {
	if s.Redis.Host == "" || s.Redis.Password == "" {
		return fmt.Errorf("redis credentials not found in environment (REDIS_HOST, REDIS_PASSWORD)")
	}
	if s.Collector.TargetURLs <= 0 {
		return fmt.Errorf("collector.target_urls must be positive, got %d", s.Collector.TargetURLs)
	}
	return nil
}
