package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisPresenceDB int    `mapstructure:"REDIS_PRESENCE_DB"`

	// Matching engine.
	PresenceStaleness     time.Duration `mapstructure:"PRESENCE_STALENESS"`
	MatchWorkerLimit      int           `mapstructure:"MATCH_WORKER_LIMIT"`
	DayWindowStartHour    int           `mapstructure:"DAY_WINDOW_START_HOUR"`
	DayWindowEndHour      int           `mapstructure:"DAY_WINDOW_END_HOUR"`
	DefaultSearchRadiusKm float64       `mapstructure:"DEFAULT_SEARCH_RADIUS_KM"`
	UrgencyMultiplier     float64       `mapstructure:"URGENCY_MULTIPLIER"`
	DefaultCurrency       string        `mapstructure:"DEFAULT_CURRENCY"`
	StoreTimeout          time.Duration `mapstructure:"STORE_TIMEOUT"`
}

// Defaults used both by viper and by Normalize when a value is unusable.
const (
	DefaultPresenceStaleness    = 5 * time.Minute
	DefaultMatchWorkerLimit     = 8
	DefaultDayWindowStartHour   = 0
	DefaultDayWindowEndHour     = 24
	DefaultSearchRadiusKm       = 50.0
	DefaultUrgencyMultiplier    = 1.25
	DefaultCurrency             = "USD"
	DefaultStoreTimeout         = 5 * time.Second
	DefaultMaxRequestsPerMinute = 100
	DefaultDatabaseName         = "gigmatch"
)

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", DefaultMaxRequestsPerMinute)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_PRESENCE_DB", 0)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", DefaultDatabaseName)
	viper.SetDefault("PRESENCE_STALENESS", DefaultPresenceStaleness)
	viper.SetDefault("MATCH_WORKER_LIMIT", DefaultMatchWorkerLimit)
	viper.SetDefault("DAY_WINDOW_START_HOUR", DefaultDayWindowStartHour)
	viper.SetDefault("DAY_WINDOW_END_HOUR", DefaultDayWindowEndHour)
	viper.SetDefault("DEFAULT_SEARCH_RADIUS_KM", DefaultSearchRadiusKm)
	viper.SetDefault("URGENCY_MULTIPLIER", DefaultUrgencyMultiplier)
	viper.SetDefault("DEFAULT_CURRENCY", DefaultCurrency)
	viper.SetDefault("STORE_TIMEOUT", DefaultStoreTimeout)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig.Normalize()
}

// Normalize replaces values the engine cannot work with by their defaults.
func (c *Config) Normalize() {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.PresenceStaleness <= 0 {
		c.PresenceStaleness = DefaultPresenceStaleness
	}
	if c.MatchWorkerLimit < 1 {
		c.MatchWorkerLimit = DefaultMatchWorkerLimit
	}
	if c.DayWindowStartHour < 0 || c.DayWindowEndHour > 24 || c.DayWindowEndHour <= c.DayWindowStartHour {
		c.DayWindowStartHour = DefaultDayWindowStartHour
		c.DayWindowEndHour = DefaultDayWindowEndHour
	}
	if c.DefaultSearchRadiusKm <= 0 {
		c.DefaultSearchRadiusKm = DefaultSearchRadiusKm
	}
	if c.UrgencyMultiplier < 1 {
		c.UrgencyMultiplier = DefaultUrgencyMultiplier
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = DefaultCurrency
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = DefaultStoreTimeout
	}
	if c.MaxRequestsPerMin <= 0 {
		c.MaxRequestsPerMin = DefaultMaxRequestsPerMinute
	}
	if c.DatabaseName == "" {
		c.DatabaseName = DefaultDatabaseName
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
