package config

import (
	"os"
	"strconv"
	"time"

	"askmydata/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Session  SessionConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig selects the interaction log backend. An empty URL means
// the local sqlite file at ChatDBPath.
type DatabaseConfig struct {
	URL        string
	ChatDBPath string
}

// UploadConfig holds dataset upload limits
type UploadConfig struct {
	MaxSizeMB int
}

// SessionConfig bounds how long an idle browser session keeps its dataset
type SessionConfig struct {
	IdleMinutes int
}

// IdleTimeout returns the idle window as a duration
func (s SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleMinutes) * time.Minute
}

// MaxBytes returns the upload limit in bytes
func (u UploadConfig) MaxBytes() int64 {
	return int64(u.MaxSizeMB) * 1024 * 1024
}

// UsesPostgres reports whether the interaction log lives in postgres
func (d DatabaseConfig) UsesPostgres() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL:        getEnvOrDefault("DATABASE_URL", ""),
			ChatDBPath: getEnvOrDefault("CHAT_DB_PATH", "chat_history.db"),
		},
		Upload: UploadConfig{
			MaxSizeMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
		},
		Session: SessionConfig{
			IdleMinutes: getEnvIntOrDefault("SESSION_IDLE_MINUTES", 120),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if !config.Database.UsesPostgres() && config.Database.ChatDBPath == "" {
		return errors.ConfigInvalid("CHAT_DB_PATH is required when DATABASE_URL is not set")
	}
	if config.Upload.MaxSizeMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Session.IdleMinutes <= 0 {
		return errors.ConfigInvalid("SESSION_IDLE_MINUTES must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
