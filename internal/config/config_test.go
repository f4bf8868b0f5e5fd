// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Session.MaxHistory)
	assert.Equal(t, time.Hour, cfg.Session.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)

	assert.InDelta(t, 0.3, cfg.Recommend.Weights.UserHistory, 1e-9)
	assert.InDelta(t, 0.4, cfg.Recommend.Weights.CulturalInterest, 1e-9)
	assert.InDelta(t, 0.2, cfg.Recommend.Weights.LocationProximity, 1e-9)
	assert.InDelta(t, 0.1, cfg.Recommend.Weights.TrendingContent, 1e-9)
	assert.Equal(t, 5, cfg.Recommend.DefaultLimit)
	assert.Equal(t, 50, cfg.Recommend.MaxLimit)

	assert.False(t, cfg.Provider.Enabled)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_CONVERSATION_HISTORY", "20")
	t.Setenv("SESSION_TIMEOUT", "30m")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_WEIGHT_USER_HISTORY", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Session.MaxHistory)
	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.InDelta(t, 0.5, cfg.Recommend.Weights.UserHistory, 1e-9)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
session:
  max_history: 10
  timeout: 2h
server:
  port: 3000
  cors_origins:
    - https://darshana.example
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Session.MaxHistory)
	assert.Equal(t, 2*time.Hour, cfg.Session.Timeout)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, []string{"https://darshana.example"}, cfg.Server.CORSOrigins)
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 3000\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestValidateRejectsBadLimits(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.DefaultLimit = 10
	cfg.Recommend.MaxLimit = 5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommend.max_limit")
}

func TestValidateProviderRequiresURL(t *testing.T) {
	cfg := defaultConfig()
	cfg.Provider.Enabled = true
	cfg.Provider.BaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider.base_url")
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}

func TestFactorWeightsToMap(t *testing.T) {
	w := FactorWeights{
		UserHistory:       0.3,
		CulturalInterest:  0.4,
		LocationProximity: 0.2,
		TrendingContent:   0.1,
	}

	m := w.ToMap()
	assert.InDelta(t, 0.4, m["content_based"], 1e-9)
	assert.InDelta(t, 0.3, m["collaborative"], 1e-9)
	assert.InDelta(t, 0.2, m["cultural_similarity"], 1e-9)
	assert.InDelta(t, 0.1, m["trending"], 1e-9)
}
