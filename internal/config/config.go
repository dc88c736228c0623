package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the storefront service
type Config struct {
	Server     ServerConfig
	CatalogAPI ServiceConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Logging    LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Proxies allowed to set forwarding headers; empty trusts none
	TrustedProxies []string
}

// ServiceConfig holds configuration for the remote catalog API.
// A zero Timeout keeps the HTTP transport default.
type ServiceConfig struct {
	URL     string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration. An empty URL disables Redis.
type RedisConfig struct {
	URL            string
	ConnectTimeout time.Duration
	MaxElapsed     time.Duration
}

// KafkaConfig holds Kafka configuration. An empty broker list disables Kafka.
type KafkaConfig struct {
	Brokers  string
	ClientID string
	Topics   map[string]string
}

// BrokerList splits the comma separated broker string
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CatalogEventsTopic returns the topic for catalog view events
func (k KafkaConfig) CatalogEventsTopic() string {
	if t := k.Topics["catalogevents"]; t != "" {
		return t
	}
	return "storefront-events"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled            bool
	RequestsPerMinute  int
	BurstSize          int
	ClientIPHeaderName string
}

// CORSConfig holds the origins allowed to call the storefront API
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables.
// A missing file is not an error; defaults and environment still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindEnv maps the documented environment variables onto config keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("catalogAPI.url", "CATALOG_API_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")
	v.SetDefault("server.trustedProxies", []string{})

	// Catalog API defaults
	v.SetDefault("catalogAPI.url", "http://localhost:5000/api")
	v.SetDefault("catalogAPI.timeout", "0s")

	// Redis defaults
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.connectTimeout", "5s")
	v.SetDefault("redis.maxElapsed", "15s")

	// Kafka defaults
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.clientID", "storefront")
	v.SetDefault("kafka.topics.catalogEvents", "storefront-events")

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", false)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.burstSize", 20)
	// Client supplied headers are trusted only when configured
	v.SetDefault("rateLimit.clientIPHeaderName", "")

	// CORS defaults
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
