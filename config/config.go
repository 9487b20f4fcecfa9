/*
config.go - Server configuration from the environment

PURPOSE:
  Loads server settings from environment variables, reading a .env file
  first when one exists. Command-line flags in cmd/server override these.

VARIABLES:
  TIMESHEET_PORT           HTTP port (default: 8080)
  TIMESHEET_DB_PATH        SQLite database path (default: timesheet.db)
  TIMESHEET_CORS_ORIGINS   Comma-separated allowed origins (default: dev servers)
  TIMESHEET_READ_TIMEOUT   Read/write timeout, Go duration (default: 15s)
  TIMESHEET_IDLE_TIMEOUT   Keep-alive idle timeout (default: 60s)
  TIMESHEET_SHUTDOWN_TIMEOUT  Graceful shutdown budget (default: 30s)

SEE ALSO:
  - cmd/server/main.go: Consumer
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	CORSOrigins     []string // empty means the router defaults
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string // ":memory:" for an in-memory database
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	port, err := getEnvInt("TIMESHEET_PORT", 8080)
	if err != nil {
		return nil, err
	}
	readTimeout, err := getEnvDuration("TIMESHEET_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := getEnvDuration("TIMESHEET_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getEnvDuration("TIMESHEET_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			CORSOrigins:     splitList(getEnv("TIMESHEET_CORS_ORIGINS", "")),
			ReadTimeout:     readTimeout,
			IdleTimeout:     idleTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Database: DatabaseConfig{
			Path: getEnv("TIMESHEET_DB_PATH", "timesheet.db"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("TIMESHEET_PORT out of range: %d", cfg.Server.Port)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("TIMESHEET_DB_PATH is required")
	}
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("TIMESHEET_READ_TIMEOUT must be positive")
	}
	if cfg.Server.IdleTimeout <= 0 {
		return fmt.Errorf("TIMESHEET_IDLE_TIMEOUT must be positive")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("TIMESHEET_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
