package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Statement StatementConfig
	Gains     GainsConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// StatementConfig holds configuration for the statement cache.
type StatementConfig struct {
	// Key encrypts cached statement blobs at rest. When STATEMENT_SECRET is
	// unset a fresh key is generated, so cached statements do not survive a
	// restart.
	Key *fernet.Key

	// RetentionDays is how long cached statements are kept before the
	// scheduled purge removes them. Zero or negative disables the purge.
	RetentionDays int
}

// GainsConfig holds configuration for the cost-basis engine.
type GainsConfig struct {
	// IgnoreTickers are pseudo-security tickers whose sales are excluded
	// from cost-basis matching.
	IgnoreTickers []string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	key, err := statementKey()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/capital_gains.db"),
		},
		Statement: StatementConfig{
			Key:           key,
			RetentionDays: getEnvInt("STATEMENT_RETENTION_DAYS", 30),
		},
		Gains: GainsConfig{
			IgnoreTickers: getEnvList("IGNORE_TICKERS", []string{"TIMXX"}),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// statementKey decodes STATEMENT_SECRET, or generates an ephemeral key when
// it is unset.
func statementKey() (*fernet.Key, error) {
	if secret := os.Getenv("STATEMENT_SECRET"); secret != "" {
		key, err := fernet.DecodeKey(secret)
		if err != nil {
			return nil, fmt.Errorf("invalid STATEMENT_SECRET: %w", err)
		}
		return key, nil
	}

	key := &fernet.Key{}
	if err := key.Generate(); err != nil {
		return nil, fmt.Errorf("failed to generate statement key: %w", err)
	}
	return key, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvList gets a comma-separated environment variable or returns a default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
