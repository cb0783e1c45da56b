// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("VANLOC_SESSION_SECRET", testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/vanloc.db", cfg.DBPath)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UseRedisCache())
	assert.Equal(t, 300, cfg.CacheTTL)
	assert.Equal(t, 730, cfg.StatsRetentionDays)
	assert.True(t, cfg.DoSeed)
	assert.Empty(t, cfg.ReportFont)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("VANLOC_ENV", "production")
	t.Setenv("VANLOC_SERVER_PORT", "9000")
	t.Setenv("VANLOC_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("VANLOC_DO_SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.True(t, cfg.UseRedisCache())
	assert.False(t, cfg.DoSeed)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("VANLOC_SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("VANLOC_SESSION_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VANLOC_SESSION_SECRET")
}

func TestLoadInvalidRetention(t *testing.T) {
	setRequired(t)
	t.Setenv("VANLOC_STATS_RETENTION_DAYS", "0")

	_, err := Load()
	require.Error(t, err)
}
