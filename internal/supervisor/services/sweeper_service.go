// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package services

import (
	"context"
	"time"

	"github.com/darshana-ai/narad/internal/logging"
)

// Sweeper is the store-side contract the sweeper service drives. Expiry
// is also detected lazily on access; the sweep keeps idle sessions from
// accumulating between accesses.
type Sweeper interface {
	SweepExpired() int
}

// SweeperService periodically evicts expired sessions.
type SweeperService struct {
	store    Sweeper
	interval time.Duration
}

// NewSweeperService builds a sweeper running at the given interval.
func NewSweeperService(store Sweeper, interval time.Duration) *SweeperService {
	return &SweeperService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", s.interval).Msg("session sweeper starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("session sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			if n := s.store.SweepExpired(); n > 0 {
				logging.Debug().Int("removed", n).Msg("sweep removed expired sessions")
			}
		}
	}
}

func (s *SweeperService) String() string { return "session-sweeper" }
