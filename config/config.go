// Package config loads cache configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Supported durable backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Config holds everything the demo binary and embedding applications need
// to construct a cache manager and its durable backend.
type Config struct {
	// Cache behavior
	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration
	DurableTimeout  time.Duration

	// Durable backend selection
	Backend       string
	AWSRegion     string
	DynamoDBTable string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables, applying defaults,
// then validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		DefaultTTL:      getEnvDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		MaxSize:         getEnvInt("CACHE_MAX_SIZE", 1000),
		CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
		DurableTimeout:  getEnvDuration("CACHE_DURABLE_TIMEOUT", 2*time.Second),

		Backend:       getEnv("CACHE_BACKEND", BackendMemory),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for unusable combinations.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required when CACHE_BACKEND is %q", BackendDynamoDB)
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Backend)
	}

	if c.MaxSize < 0 {
		return fmt.Errorf("CACHE_MAX_SIZE must not be negative, got %d", c.MaxSize)
	}
	return nil
}

// IsDynamoDB reports whether the DynamoDB backend is selected.
func (c *Config) IsDynamoDB() bool {
	return c.Backend == BackendDynamoDB
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
