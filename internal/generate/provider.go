// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package generate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/darshana-ai/narad/internal/config"
)

// Provider produces a reply for a prompt. Implementations may block on
// the network; callers bound them with a context deadline.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// httpProvider calls an external generative-language endpoint. The wire
// shape is a minimal completion API: {model, prompt} in, {reply} out.
type httpProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func newHTTPProvider(cfg config.ProviderConfig) *httpProvider {
	return &httpProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		// Per-call deadlines come from the caller's context; the client
		// timeout is a backstop only.
		client: &http.Client{Timeout: 2 * cfg.Timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

func (p *httpProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: p.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encoding provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding provider response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("provider error: %s", out.Error)
	}
	return out.Reply, nil
}
