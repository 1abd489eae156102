// Package config loads runtime configuration from environment
// variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP. Empty AMQPURL disables event publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Sessions
	SessionDuration time.Duration

	// Summary cache
	CacheTTL      time.Duration
	CacheMaxUsers int

	// Rate limiting for mutating requests
	RateLimitPerMinute int
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendlog.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendlog"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		SessionDuration: getEnvDuration("SESSION_DURATION", 7*24*time.Hour),

		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheMaxUsers: getEnvInt("CACHE_MAX_USERS", 1000),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}
}

// Validate checks the configuration, collecting every problem into one
// error.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "SQLite database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SessionDuration < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid session duration %v: must be at least 1 minute", c.SessionDuration))
	}

	if c.CacheTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheMaxUsers < 1 {
		problems = append(problems, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheMaxUsers))
	}

	if c.RateLimitPerMinute < 1 {
		problems = append(problems, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
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
