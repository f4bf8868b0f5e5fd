// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package generate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/session"
)

type stubProvider struct {
	reply string
	err   error
	calls atomic.Int64
}

func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testProviderConfig() config.ProviderConfig {
	return config.ProviderConfig{
		Enabled:          true,
		Timeout:          time.Second,
		RateLimit:        100,
		RateBurst:        100,
		BreakerThreshold: 3,
		BreakerCooldown:  time.Minute,
	}
}

func TestReplyDisabledUsesTemplate(t *testing.T) {
	c := NewClient(config.ProviderConfig{Enabled: false, Timeout: time.Second})

	reply := c.Reply(context.Background(), "hello", session.Context{})
	assert.Contains(t, reply, "Namaste")
}

func TestReplyFromProvider(t *testing.T) {
	p := &stubProvider{reply: "The Taj Mahal was completed in 1653."}
	c := NewClientWithProvider(testProviderConfig(), p)

	reply := c.Reply(context.Background(), "when was it built?", session.Context{CurrentMonument: "taj_mahal"})

	assert.Equal(t, "The Taj Mahal was completed in 1653.", reply)
	assert.Equal(t, int64(1), p.calls.Load())
}

func TestReplyProviderErrorFallsBack(t *testing.T) {
	p := &stubProvider{err: errors.New("upstream down")}
	c := NewClientWithProvider(testProviderConfig(), p)

	reply := c.Reply(context.Background(), "tell me more", session.Context{CurrentMonument: "red_fort"})
	assert.Contains(t, reply, "Red Fort")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	p := &stubProvider{err: errors.New("upstream down")}
	c := NewClientWithProvider(testProviderConfig(), p)

	for i := 0; i < 5; i++ {
		c.Reply(context.Background(), "hi", session.Context{})
	}

	// Threshold is 3: the breaker opens after the third failure and the
	// remaining calls are rejected without reaching the provider.
	assert.Equal(t, int64(3), p.calls.Load())
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	cfg := testProviderConfig()
	cfg.RateLimit = 1
	cfg.RateBurst = 2
	c := NewClientWithProvider(cfg, p)

	for i := 0; i < 5; i++ {
		c.Reply(context.Background(), "hi", session.Context{})
	}

	assert.LessOrEqual(t, p.calls.Load(), int64(3))
}

func TestTemplateReplyUsesContext(t *testing.T) {
	withMonument := templateReply("hi", session.Context{CurrentMonument: "qutub_minar"})
	assert.Contains(t, withMonument, "Qutub Minar")

	withTopics := templateReply("hi", session.Context{Topics: []string{"architecture"}})
	assert.Contains(t, withTopics, "architecture")

	// Identical inputs give identical replies.
	assert.Equal(t, withMonument, templateReply("hi", session.Context{CurrentMonument: "qutub_minar"}))
}

func TestBuildPromptIncludesContext(t *testing.T) {
	prompt := buildPrompt("what happened here?", session.Context{
		CurrentMonument:     "hampi",
		Topics:              []string{"architecture", "culture"},
		StoryTypesRequested: []string{"mythology"},
	})

	assert.Contains(t, prompt, "Current monument: hampi")
	assert.Contains(t, prompt, "architecture, culture")
	assert.Contains(t, prompt, "mythology")
	assert.Contains(t, prompt, "Visitor: what happened here?")
}

func TestHTTPProviderRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"reply":"a story about hampi"}`))
	}))
	defer srv.Close()

	p := newHTTPProvider(config.ProviderConfig{
		BaseURL: srv.URL,
		APIKey:  "secret",
		Model:   "narad-chat-1",
		Timeout: time.Second,
	})

	reply, err := p.Generate(context.Background(), "tell me about hampi")
	require.NoError(t, err)
	assert.Equal(t, "a story about hampi", reply)
}

func TestHTTPProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newHTTPProvider(config.ProviderConfig{BaseURL: srv.URL, Timeout: time.Second})

	_, err := p.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPProviderErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	p := newHTTPProvider(config.ProviderConfig{BaseURL: srv.URL, Timeout: time.Second})

	_, err := p.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}
