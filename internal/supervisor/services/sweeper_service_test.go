// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	sweeps atomic.Int64
}

func (s *countingSweeper) SweepExpired() int {
	s.sweeps.Add(1)
	return 1
}

func TestSweeperServiceTicksUntilCanceled(t *testing.T) {
	sweeper := &countingSweeper{}
	svc := NewSweeperService(sweeper, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, sweeper.sweeps.Load())
}

func TestSweeperServiceName(t *testing.T) {
	assert.Equal(t, "session-sweeper", NewSweeperService(&countingSweeper{}, time.Minute).String())
}
