package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port          string
	SessionCookie string // name of the cookie carrying the console session id

	// Logging
	LogLevel  string
	LogPretty bool

	// Remote geo-query service
	GeoServiceURL     string
	GeoServiceTimeout time.Duration

	// Session storage
	DatastoreType string        // "memory", "mysql", or "redis"
	SessionTTL    time.Duration // idle lifetime of a stored session

	// MySQL configuration
	MySQLDSN string // Data Source Name

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	RateLimitType       string // "memory" or "redis"
	RateLimit           int    // requests allowed per window, per client
	RateLimitWindow     int    // window in seconds
	BulkRateLimit       int    // bulk insert/delete calls allowed per window, per client
	BulkRateLimitWindow int    // window in seconds
}

// defaults are applied before the config file and the environment
var defaults = map[string]any{
	"port":                   "3000",
	"session_cookie":         "geoconsole_session",
	"log_level":              "info",
	"log_pretty":             true,
	"geo_service_url":        "http://localhost:8080",
	"geo_service_timeout":    "30s",
	"datastore_type":         "memory",
	"session_ttl":            "24h",
	"mysql_dsn":              "",
	"redis_addr":             "localhost:6379",
	"redis_password":         "",
	"redis_db":               0,
	"rate_limiter_type":      "memory",
	"rate_limit":             20,
	"rate_limit_window":      1,
	"bulk_rate_limit":        1,
	"bulk_rate_limit_window": 10,
}

// Load reads configuration from .env, an optional config.yaml and the
// environment, in increasing order of precedence
func Load() (*Config, error) {
	// .env is only present in local development; in Docker the variables
	// are set directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return load(viper.New())
}

// load builds a Config from a prepared viper instance
func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// PORT, GEO_SERVICE_URL, ... map onto the lower-case keys above
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Port:                v.GetString("port"),
		SessionCookie:       v.GetString("session_cookie"),
		LogLevel:            v.GetString("log_level"),
		LogPretty:           v.GetBool("log_pretty"),
		GeoServiceURL:       strings.TrimRight(v.GetString("geo_service_url"), "/"),
		GeoServiceTimeout:   v.GetDuration("geo_service_timeout"),
		DatastoreType:       strings.ToLower(v.GetString("datastore_type")),
		SessionTTL:          v.GetDuration("session_ttl"),
		MySQLDSN:            v.GetString("mysql_dsn"),
		RedisAddr:           v.GetString("redis_addr"),
		RedisPassword:       v.GetString("redis_password"),
		RedisDB:             v.GetInt("redis_db"),
		RateLimitType:       strings.ToLower(v.GetString("rate_limiter_type")),
		RateLimit:           v.GetInt("rate_limit"),
		RateLimitWindow:     v.GetInt("rate_limit_window"),
		BulkRateLimit:       v.GetInt("bulk_rate_limit"),
		BulkRateLimitWindow: v.GetInt("bulk_rate_limit_window"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
// All problems are reported at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Port == "" {
		errs = append(errs, "port is required")
	}
	if c.GeoServiceURL == "" {
		errs = append(errs, "geo_service_url is required")
	}
	if c.GeoServiceTimeout <= 0 {
		errs = append(errs, "geo_service_timeout must be positive")
	}
	switch c.DatastoreType {
	case "memory", "redis":
	case "mysql":
		if c.MySQLDSN == "" {
			errs = append(errs, "mysql_dsn is required when datastore_type is mysql")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown datastore_type %q (supported: memory, redis, mysql)", c.DatastoreType))
	}
	if c.RateLimit <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, "rate_limit and rate_limit_window must be positive")
	}
	if c.BulkRateLimit <= 0 || c.BulkRateLimitWindow <= 0 {
		errs = append(errs, "bulk_rate_limit and bulk_rate_limit_window must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Addr returns the listen address in the format ":port"
func (c *Config) Addr() string {
	return ":" + c.Port
}

// RequestsPerSecond converts the general limit into a rate
// Example: 10 requests per 5 seconds = 2.0 req/s
func (c *Config) RequestsPerSecond() float64 {
	return float64(c.RateLimit) / float64(c.RateLimitWindow)
}

// BulkRequestsPerSecond converts the bulk helper limit into a rate
func (c *Config) BulkRequestsPerSecond() float64 {
	return float64(c.BulkRateLimit) / float64(c.BulkRateLimitWindow)
}
