// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Command server runs the Narad conversational backend: the session
// store, the recommendation engine and the HTTP front door, supervised
// under a single suture tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/darshana-ai/narad/internal/api"
	"github.com/darshana-ai/narad/internal/catalog"
	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/generate"
	"github.com/darshana-ai/narad/internal/logging"
	"github.com/darshana-ai/narad/internal/profile"
	"github.com/darshana-ai/narad/internal/recommend"
	"github.com/darshana-ai/narad/internal/session"
	"github.com/darshana-ai/narad/internal/supervisor"
	"github.com/darshana-ai/narad/internal/supervisor/services"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Bool("provider_enabled", cfg.Provider.Enabled).
		Msg("starting narad")

	cat := catalog.Seed()
	sessions := session.NewStore(cfg.Session)
	profiles := profile.NewStore()
	engine := recommend.NewEngine(cat, profiles, cfg.Recommend)
	generator := generate.NewClient(cfg.Provider)

	handler := api.NewHandler(sessions, profiles, engine, generator, cat, cfg.Recommend)
	router := api.NewRouter(handler, cfg.Server)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.Add(services.NewHTTPService(router, cfg.Server))
	tree.Add(services.NewSweeperService(sessions, cfg.Session.SweepInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("supervisor exited")
	}
	logging.Info().Msg("shutdown complete")
}
