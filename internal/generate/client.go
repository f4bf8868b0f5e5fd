// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package generate wraps the external generative-language provider with a
// circuit breaker, a rate limiter and a per-call deadline. Failures of
// any kind degrade to a deterministic template reply; the chat flow never
// sees an error and never blocks past the configured timeout.
package generate

import (
	"context"
	"errors"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rs/zerolog"

	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/logging"
	"github.com/darshana-ai/narad/internal/metrics"
	"github.com/darshana-ai/narad/internal/session"
)

const breakerName = "generate-provider"

// Client is the resilient front for the provider. Safe for concurrent
// use. Callers must not hold any session or profile lock across Reply.
type Client struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker[string]
	limiter  *rate.Limiter
	timeout  time.Duration
	enabled  bool
	logger   zerolog.Logger
}

// NewClient builds a client from configuration. When the provider is
// disabled every reply comes from the template fallback.
func NewClient(cfg config.ProviderConfig) *Client {
	c := &Client{
		timeout: cfg.Timeout,
		enabled: cfg.Enabled,
		logger:  logging.With().Str("component", "generate").Logger(),
	}
	if !cfg.Enabled {
		return c
	}

	c.provider = newHTTPProvider(cfg)
	c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    breakerName,
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("provider breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return c
}

// NewClientWithProvider builds a client around an explicit provider,
// bypassing the HTTP transport. Used by tests.
func NewClientWithProvider(cfg config.ProviderConfig, p Provider) *Client {
	c := NewClient(config.ProviderConfig{
		Enabled:          true,
		Timeout:          cfg.Timeout,
		RateLimit:        cfg.RateLimit,
		RateBurst:        cfg.RateBurst,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerCooldown:  cfg.BreakerCooldown,
	})
	c.provider = p
	return c
}

// Reply produces the assistant reply for a user message. The provider
// call is rate limited, circuit broken and bounded by the configured
// timeout; any failure falls back to the template reply built from the
// session context. Reply never returns an error.
func (c *Client) Reply(ctx context.Context, message string, sctx session.Context) string {
	if !c.enabled {
		return templateReply(message, sctx)
	}

	if !c.limiter.Allow() {
		metrics.ProviderCalls.WithLabelValues("rejected").Inc()
		c.logger.Debug().Msg("provider call rate limited, serving template reply")
		return templateReply(message, sctx)
	}

	start := time.Now()
	reply, err := c.cb.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.provider.Generate(callCtx, buildPrompt(message, sctx))
	})
	metrics.ProviderCallDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ProviderCalls.WithLabelValues("rejected").Inc()
		} else {
			metrics.ProviderCalls.WithLabelValues("error").Inc()
		}
		metrics.ProviderCalls.WithLabelValues("fallback").Inc()
		c.logger.Warn().Err(err).Msg("provider call failed, serving template reply")
		return templateReply(message, sctx)
	}

	metrics.ProviderCalls.WithLabelValues("ok").Inc()
	return reply
}

// buildPrompt frames the user message with the conversational context so
// the provider can answer in place.
func buildPrompt(message string, sctx session.Context) string {
	var b strings.Builder
	b.WriteString("You are Narad, a storytelling guide for Indian monuments.\n")
	if sctx.CurrentMonument != "" {
		b.WriteString("Current monument: " + sctx.CurrentMonument + "\n")
	}
	if len(sctx.Topics) > 0 {
		b.WriteString("Topics so far: " + strings.Join(sctx.Topics, ", ") + "\n")
	}
	if len(sctx.StoryTypesRequested) > 0 {
		b.WriteString("Story types requested: " + strings.Join(sctx.StoryTypesRequested, ", ") + "\n")
	}
	b.WriteString("Visitor: " + message)
	return b.String()
}

// templateReply is the deterministic fallback used when the provider is
// disabled or unavailable.
func templateReply(message string, sctx session.Context) string {
	monument := sctx.CurrentMonument
	if monument != "" {
		return "The " + displayName(monument) + " holds many stories. Ask me about its history, legends, or hidden corners, and I will share what I know."
	}
	if len(sctx.Topics) > 0 {
		return "We have been talking about " + strings.Join(sctx.Topics, " and ") + ". Tell me which monument you are curious about and I will pick up the thread."
	}
	return "Namaste! I am Narad, your guide to India's monuments. Ask me about the Taj Mahal, Hampi, the Red Fort and more."
}

// displayName turns a snake_case monument ID into a title-cased phrase.
func displayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
