// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// UserTokenSecret is the single global HMAC secret for user-session tokens.
	// Endpoints hold their own signing secrets; the two must never be shared.
	UserTokenSecret string `mapstructure:"USER_TOKEN_SECRET"`
	// TokenIssuer is the iss claim on all signed tokens (e.g. "spinlink").
	TokenIssuer string `mapstructure:"TOKEN_ISSUER"`
	// CapabilityTTL is the capability token lifetime (e.g. "5m").
	CapabilityTTL string `mapstructure:"CAPABILITY_TTL"`
	// UserTokenTTL is the user-session token lifetime (e.g. "1h").
	UserTokenTTL string `mapstructure:"USER_TOKEN_TTL"`
	// RefreshTokenTTL is the refresh token lifetime (e.g. "720h").
	RefreshTokenTTL string `mapstructure:"REFRESH_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4 to 31) for API key secrets; default 10.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// Rate limiting. Each endpoint class has its own threshold and window;
	// buckets are process-local and reset on restart.
	ResolveRateMax    int    `mapstructure:"RESOLVE_RATE_MAX"`
	ResolveRateWindow string `mapstructure:"RESOLVE_RATE_WINDOW"`
	AuthRateMax       int    `mapstructure:"AUTH_RATE_MAX"`
	AuthRateWindow    string `mapstructure:"AUTH_RATE_WINDOW"`
	AdminRateMax      int    `mapstructure:"ADMIN_RATE_MAX"`
	AdminRateWindow   string `mapstructure:"ADMIN_RATE_WINDOW"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317).
	// Empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// EventKafkaBrokers is a comma-separated list of Kafka broker addresses for
	// session lifecycle events (e.g. "localhost:9092"). Empty disables the producer.
	EventKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventKafkaTopic is the Kafka topic for session events (default spinlink-events).
	EventKafkaTopic string `mapstructure:"EVENT_KAFKA_TOPIC"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("USER_TOKEN_SECRET", "")
	v.SetDefault("TOKEN_ISSUER", "spinlink")
	v.SetDefault("CAPABILITY_TTL", "5m")
	v.SetDefault("USER_TOKEN_TTL", "1h")
	v.SetDefault("REFRESH_TOKEN_TTL", "720h") // 30d
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RESOLVE_RATE_MAX", 30)
	v.SetDefault("RESOLVE_RATE_WINDOW", "1m")
	v.SetDefault("AUTH_RATE_MAX", 10)
	v.SetDefault("AUTH_RATE_WINDOW", "1m")
	v.SetDefault("ADMIN_RATE_MAX", 60)
	v.SetDefault("ADMIN_RATE_WINDOW", "1m")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENT_KAFKA_TOPIC", "spinlink-events")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 10
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.ResolveRateMax <= 0 || cfg.AuthRateMax <= 0 || cfg.AdminRateMax <= 0 {
		return nil, errors.New("config: rate-limit thresholds must be positive")
	}

	return &cfg, nil
}

// CapabilityTokenTTL parses CapabilityTTL as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) CapabilityTokenTTL() time.Duration {
	return parseTTL(c.CapabilityTTL, 5*time.Minute)
}

// UserSessionTTL parses UserTokenTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) UserSessionTTL() time.Duration {
	return parseTTL(c.UserTokenTTL, time.Hour)
}

// RefreshTTL parses RefreshTokenTTL as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	return parseTTL(c.RefreshTokenTTL, 720*time.Hour)
}

// ResolveWindow parses ResolveRateWindow. Returns 1m if unset or invalid.
func (c *Config) ResolveWindow() time.Duration {
	return parseTTL(c.ResolveRateWindow, time.Minute)
}

// AuthWindow parses AuthRateWindow. Returns 1m if unset or invalid.
func (c *Config) AuthWindow() time.Duration {
	return parseTTL(c.AuthRateWindow, time.Minute)
}

// AdminWindow parses AdminRateWindow. Returns 1m if unset or invalid.
func (c *Config) AdminWindow() time.Duration {
	return parseTTL(c.AdminRateWindow, time.Minute)
}

// EventKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the event producer is enabled (non-empty list) and to create it.
func (c *Config) EventKafkaBrokersList() []string {
	if c == nil || c.EventKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.EventKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseTTL(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
