package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finquest/finquest/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"FINQUEST_DB", "FINQUEST_CATALOG", "FINQUEST_LOG_MODE", "FINQUEST_LEDGER_LATENCY",
		"FINQUEST_LEDGER_FAILURE_RATE", "FINQUEST_RETRY_ATTEMPTS", "FINQUEST_PERSIST_PROGRESS",
		"FINQUEST_DEFAULT_QUOTA",
	} {
		t.Setenv(k, "")
	}

	cfg := config.Load()
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.Equal(t, 800*time.Millisecond, cfg.LedgerLatency)
	assert.Zero(t, cfg.LedgerFailRate)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.True(t, cfg.PersistProgress)
	assert.Equal(t, 3, cfg.DefaultQuota)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FINQUEST_DB", "/tmp/fq.db")
	t.Setenv("FINQUEST_LEDGER_LATENCY", "0s")
	t.Setenv("FINQUEST_LEDGER_FAILURE_RATE", "0.25")
	t.Setenv("FINQUEST_RETRY_ATTEMPTS", "5")
	t.Setenv("FINQUEST_PERSIST_PROGRESS", "false")
	t.Setenv("FINQUEST_DEFAULT_QUOTA", "4")

	cfg := config.Load()
	assert.Equal(t, "/tmp/fq.db", cfg.DBPath)
	assert.Zero(t, cfg.LedgerLatency)
	assert.Equal(t, 0.25, cfg.LedgerFailRate)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.False(t, cfg.PersistProgress)
	assert.Equal(t, 4, cfg.DefaultQuota)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("FINQUEST_LEDGER_LATENCY", "soon")
	t.Setenv("FINQUEST_LEDGER_FAILURE_RATE", "2")
	t.Setenv("FINQUEST_RETRY_ATTEMPTS", "many")
	t.Setenv("FINQUEST_DEFAULT_QUOTA", "0")
	t.Setenv("FINQUEST_PERSIST_PROGRESS", "maybe")

	cfg := config.Load()
	assert.Equal(t, 800*time.Millisecond, cfg.LedgerLatency)
	assert.Zero(t, cfg.LedgerFailRate)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 3, cfg.DefaultQuota)
	assert.True(t, cfg.PersistProgress)
	assert.Len(t, cfg.Warnings, 5)
}
