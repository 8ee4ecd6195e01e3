// Package config reads server and CLI settings from the environment
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string
	LogLevel    string

	// Observability
	SentryDSN string

	// Translation defaults
	Engine      string
	SchemaPath  string // overrides the engine schema when set
	EventOrder  string // "track" or "time"
	InsertRests bool

	MaxUploadMB int64
}

// Load reads .env when present, then the environment
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only
func FromEnv() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Engine:      getEnv("ENGINE", "akao"),
		SchemaPath:  getEnv("SCHEMA_PATH", ""),
		EventOrder:  getEnv("EVENT_ORDER", "track"),
		InsertRests: getBool("INSERT_RESTS", true),
		MaxUploadMB: getInt("MAX_UPLOAD_MB", 10),
	}
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes is the request body limit for uploads
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
