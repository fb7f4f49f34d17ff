// Package logging provides structured logging configuration.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration options.
type Config struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

// New creates a new configured zap logger.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
			return nil, err
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "json"
	}

	var zcfg zap.Config
	if format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.LevelKey = "level"
	zcfg.EncoderConfig.MessageKey = "msg"
	zcfg.EncoderConfig.CallerKey = "caller"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("service", "spinlink"))

	return logger, nil
}

// Sync flushes any buffered log entries.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}

// FromEnv creates a Config from environment variables.
func FromEnv() Config {
	return Config{
		Level:  getenv("SPINLINK_LOG_LEVEL", "info"),
		Format: getenv("SPINLINK_LOG_FORMAT", "json"),
	}
}

func getenv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// Component returns a zap field for the component name.
func Component(name string) zap.Field { return zap.String("component", name) }

// Addr returns a zap field for a listen or dial address.
func Addr(addr string) zap.Field { return zap.String("addr", addr) }

// Code returns a zap field for a connect code.
func Code(code string) zap.Field { return zap.String("code", code) }

// ShowID returns a zap field for a show id.
func ShowID(id string) zap.Field { return zap.String("show_id", id) }

// SessionID returns a zap field for a DJ session id.
func SessionID(id string) zap.Field { return zap.String("session_id", id) }

// EndpointID returns a zap field for an endpoint id.
func EndpointID(id string) zap.Field { return zap.String("endpoint_id", id) }

// Tenant returns a zap field for a tenant slug.
func Tenant(slug string) zap.Field { return zap.String("tenant", slug) }

// ClientIP returns a zap field for a client address.
func ClientIP(ip string) zap.Field { return zap.String("client_ip", ip) }

// Class returns a zap field for a rate-limit class.
func Class(class string) zap.Field { return zap.String("class", class) }

// Method returns a zap field for an HTTP method.
func Method(method string) zap.Field { return zap.String("method", method) }

// Path returns a zap field for a URL path.
func Path(path string) zap.Field { return zap.String("path", path) }

// Status returns a zap field for an HTTP status code.
func Status(status int) zap.Field { return zap.Int("status", status) }
