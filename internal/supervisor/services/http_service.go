// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package services adapts the long-running components to suture's Serve
// lifecycle.
package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/logging"
)

// HTTPService runs the API server as a supervised service.
type HTTPService struct {
	addr    string
	server  *http.Server
	timeout time.Duration
}

// NewHTTPService wraps the handler in an http.Server configured from the
// server settings.
func NewHTTPService(handler http.Handler, cfg config.ServerConfig) *HTTPService {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	return &HTTPService{
		addr: addr,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.Timeout,
			WriteTimeout:      cfg.Timeout,
			IdleTimeout:       120 * time.Second,
		},
		timeout: cfg.Timeout,
	}
}

// Serve implements suture.Service. It blocks until the listener fails or
// the context is canceled, then shuts the server down gracefully.
func (s *HTTPService) Serve(ctx context.Context) error {
	logging.Info().Str("addr", s.addr).Msg("http server starting")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		logging.Info().Msg("http server stopped")
		return ctx.Err()
	}
}

func (s *HTTPService) String() string { return "http-server" }
