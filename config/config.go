package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	BaseURL         string `mapstructure:"base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type CacheConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb"`
	TTLSeconds  int  `mapstructure:"ttl_seconds"`
	CounterSize int  `mapstructure:"counter_size"`
}

type ShortenerConfig struct {
	DefaultValidityMinutes int `mapstructure:"default_validity_minutes"`
	MaxBatchSize           int `mapstructure:"max_batch_size"`
	RedirectCountdown      int `mapstructure:"redirect_countdown"` // seconds shown on the simulated redirect page
}

type ActivityConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Shortener ShortenerConfig `mapstructure:"shortener"`
	Activity  ActivityConfig  `mapstructure:"activity"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

func LoadConfig() (Config, error) {
	var config Config

	// Ignore error if .env not found (e.g. prod)
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Enable environment variable overrides
	viper.SetEnvPrefix("SHORTLINK")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

func setDefaults() {
	// WebServer defaults
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.ip", "127.0.0.1")
	viper.SetDefault("webserver.scheme", "http")
	viper.SetDefault("webserver.base_url", "")
	viper.SetDefault("webserver.read_timeout", 15)
	viper.SetDefault("webserver.write_timeout", 15)
	viper.SetDefault("webserver.shutdown_timeout", 30)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size_mb", 64)
	viper.SetDefault("cache.ttl_seconds", 300) // 5 minutes
	viper.SetDefault("cache.counter_size", 100000)

	// Shortener defaults
	viper.SetDefault("shortener.default_validity_minutes", 30)
	viper.SetDefault("shortener.max_batch_size", 5)
	viper.SetDefault("shortener.redirect_countdown", 3)

	// Activity log defaults
	viper.SetDefault("activity.max_entries", 1000)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", true)
}
