// Package config provides centralized configuration management for the importer
// and the mock creation server. It loads configuration from environment variables
// with sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Import   ImportConfig
	Logging  LoggingConfig
	Server   ServerConfig
	Database DatabaseConfig
}

// ImportConfig holds settings for the CSV import run.
type ImportConfig struct {
	// Endpoint is the user creation URL records are POSTed to
	Endpoint string `env:"IMPORT_ENDPOINT" default:"http://localhost:5000/api/create_user" validate:"required,url"`

	// MaxRetries is the number of creation attempts per record (default: 3)
	MaxRetries int `env:"IMPORT_MAX_RETRIES" default:"3" validate:"min=1,max=100"`

	// RetryDelay is the pause between attempts for one record (default: 0s, no delay)
	RetryDelay time.Duration `env:"IMPORT_RETRY_DELAY" default:"0s" validate:"gte=0s"`

	// RequestTimeout bounds a single creation request (default: 10s)
	RequestTimeout time.Duration `env:"IMPORT_REQUEST_TIMEOUT" default:"10s" validate:"gt=0s"`

	// RateLimit caps creation requests per second; 0 disables pacing
	RateLimit float64 `env:"IMPORT_RATE_LIMIT" default:"0" validate:"gte=0"`

	// RequiredFields is a comma-separated list of columns that must be non-empty
	RequiredFields []string `env:"IMPORT_REQUIRED_FIELDS" default:"email" validate:"min=1,dive,required"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum console level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	// Dir is the directory holding the severity log files (default: logs)
	Dir string `env:"LOG_DIR" default:"logs" validate:"required"`

	ErrorFile   string `env:"LOG_ERROR_FILE" default:"error.log" validate:"required"`
	WarningFile string `env:"LOG_WARNING_FILE" default:"warning.log" validate:"required"`
	InfoFile    string `env:"LOG_INFO_FILE" default:"info.log" validate:"required"`
}

// ServerConfig holds mock creation server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 5000)
	Port int `env:"SERVER_PORT" default:"5000" validate:"min=1,max=65535"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s" validate:"gte=0s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s" validate:"gte=0s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s" validate:"gte=0s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0s"`
}

// DatabaseConfig holds the optional Postgres store used by the mock server.
// When URL is empty the mock server keeps created users in memory.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4" validate:"min=1,gtefield=MinConns"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0" validate:"min=0"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
