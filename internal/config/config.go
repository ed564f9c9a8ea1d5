// Package config loads runtime settings from a .env file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath          string // empty means the XDG default
	CatalogPath     string // empty means the embedded catalog
	LogMode         string
	LogFile         string
	LedgerLatency   time.Duration
	LedgerFailRate  float64
	RetryAttempts   int
	PersistProgress bool
	DefaultQuota    int

	// Warnings lists values that were present but unusable, so the caller can
	// log them once a logger exists.
	Warnings []string
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// A missing .env is normal.
	_ = godotenv.Load()

	c := Config{
		DBPath:      os.Getenv("FINQUEST_DB"),
		CatalogPath: os.Getenv("FINQUEST_CATALOG"),
		LogMode:     envOr("FINQUEST_LOG_MODE", "dev"),
		LogFile:     os.Getenv("FINQUEST_LOG_FILE"),
	}
	c.LedgerLatency = c.envDurationOr("FINQUEST_LEDGER_LATENCY", 800*time.Millisecond)
	c.LedgerFailRate = c.envFloatOr("FINQUEST_LEDGER_FAILURE_RATE", 0)
	c.RetryAttempts = c.envIntOr("FINQUEST_RETRY_ATTEMPTS", 3)
	c.PersistProgress = c.envBoolOr("FINQUEST_PERSIST_PROGRESS", true)
	c.DefaultQuota = c.envIntOr("FINQUEST_DEFAULT_QUOTA", 3)

	if c.LedgerFailRate < 0 || c.LedgerFailRate > 1 {
		c.warn("FINQUEST_LEDGER_FAILURE_RATE", fmt.Sprint(c.LedgerFailRate), "0")
		c.LedgerFailRate = 0
	}
	if c.RetryAttempts < 1 {
		c.warn("FINQUEST_RETRY_ATTEMPTS", strconv.Itoa(c.RetryAttempts), "1")
		c.RetryAttempts = 1
	}
	if c.DefaultQuota < 1 {
		c.warn("FINQUEST_DEFAULT_QUOTA", strconv.Itoa(c.DefaultQuota), "3")
		c.DefaultQuota = 3
	}
	return c
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) warn(key, val, def string) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid value for %s=%q, using default %s", key, val, def))
}

func (c *Config) envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		c.warn(key, v, strconv.Itoa(def))
	}
	return def
}

func (c *Config) envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		c.warn(key, v, fmt.Sprint(def))
	}
	return def
}

func (c *Config) envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
		c.warn(key, v, def.String())
	}
	return def
}

func (c *Config) envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		c.warn(key, v, strconv.FormatBool(def))
	}
	return def
}
