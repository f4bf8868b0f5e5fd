// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package config loads and validates Narad configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Environment variables (SESSION_TIMEOUT, HTTP_PORT, ...)
//  2. Optional YAML config file (CONFIG_PATH or ./config.yaml)
//  3. Built-in defaults
//
// All configuration is read once at startup; nothing reloads at runtime.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Narad server.
type Config struct {
	Session   SessionConfig   `koanf:"session"`
	Recommend RecommendConfig `koanf:"recommend"`
	Provider  ProviderConfig  `koanf:"provider"` // Optional: external generative-language provider
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// SessionConfig controls the conversation session store.
type SessionConfig struct {
	// MaxHistory is the per-session message capacity. Oldest messages are
	// dropped once the capacity is reached.
	MaxHistory int `koanf:"max_history" validate:"gte=1"`

	// Timeout is the sliding inactivity timeout after which a session is
	// treated as absent.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// SweepInterval is how often the background sweeper evicts expired
	// sessions. Expiry is also checked lazily on every access.
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gt=0"`
}

// RecommendConfig controls the recommendation engine.
type RecommendConfig struct {
	Weights FactorWeights `koanf:"weights"`

	// DefaultLimit is the number of recommendations returned when the
	// caller does not specify one.
	DefaultLimit int `koanf:"default_limit" validate:"gte=1"`

	// MaxLimit caps the number of recommendations a caller may request.
	MaxLimit int `koanf:"max_limit" validate:"gte=1"`
}

// FactorWeights are the per-algorithm scoring factors. Each candidate
// generator's raw scores are multiplied by its factor during merging.
type FactorWeights struct {
	// UserHistory weights the collaborative generator.
	UserHistory float64 `koanf:"user_history" validate:"gte=0,lte=1"`

	// CulturalInterest weights the content-based generator.
	CulturalInterest float64 `koanf:"cultural_interest" validate:"gte=0,lte=1"`

	// LocationProximity weights the cultural-similarity generator.
	LocationProximity float64 `koanf:"location_proximity" validate:"gte=0,lte=1"`

	// TrendingContent weights the trending generator.
	TrendingContent float64 `koanf:"trending_content" validate:"gte=0,lte=1"`
}

// ToMap returns the factor weights keyed by algorithm tag.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w FactorWeights) ToMap() map[string]float64 {
	return map[string]float64{
		"content_based":       w.CulturalInterest,
		"collaborative":       w.UserHistory,
		"cultural_similarity": w.LocationProximity,
		"trending":            w.TrendingContent,
	}
}

// ProviderConfig controls the external generative-language provider client.
// The provider is optional; when disabled, replies come from the
// deterministic template fallback.
type ProviderConfig struct {
	Enabled bool `koanf:"enabled"`

	// BaseURL is the provider endpoint.
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates requests to the provider.
	APIKey string `koanf:"api_key"`

	// Model is the provider model identifier.
	Model string `koanf:"model"`

	// Timeout bounds a single provider call. The call never holds a
	// session or profile lock while in flight.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimit is the maximum provider calls per second.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`

	// RateBurst is the rate limiter burst size.
	RateBurst int `koanf:"rate_burst" validate:"gte=1"`

	// BreakerThreshold is the consecutive-failure count that opens the
	// circuit breaker.
	BreakerThreshold uint32 `koanf:"breaker_threshold" validate:"gte=1"`

	// BreakerCooldown is how long the breaker stays open before probing.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gt=0"`
}

// ServerConfig controls the HTTP front door.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"gte=1,lte=65535"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimitReqs is the per-client request budget per RateLimitWindow.
	RateLimitReqs int `koanf:"rate_limit_reqs" validate:"gte=1"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks cross-field constraints not expressible as struct tags.
// Tag-level validation runs separately via go-playground/validator.
func (c *Config) Validate() error {
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit must be >= recommend.default_limit, got %d < %d",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}

	if c.Provider.Enabled && c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required when provider.enabled=true")
	}

	return nil
}
