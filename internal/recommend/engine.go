// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package recommend

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/darshana-ai/narad/internal/catalog"
	"github.com/darshana-ai/narad/internal/config"
	"github.com/darshana-ai/narad/internal/interest"
	"github.com/darshana-ai/narad/internal/logging"
	"github.com/darshana-ai/narad/internal/metrics"
	"github.com/darshana-ai/narad/internal/profile"
	"github.com/darshana-ai/narad/internal/session"
)

// freshnessBonus is added to every merged candidate's final score.
const freshnessBonus = 0.1

// defaultFactorWeight applies to candidates tagged with an algorithm the
// weight table does not know.
const defaultFactorWeight = 0.25

// Engine runs the recommendation pipeline. It holds no per-request state
// and is safe for concurrent use; the profile store serializes its own
// mutations.
type Engine struct {
	catalog  *catalog.Catalog
	profiles *profile.Store
	weights  map[string]float64

	requests  atomic.Int64
	fallbacks atomic.Int64

	logger zerolog.Logger
}

// NewEngine builds an engine over the given catalog and profile store.
func NewEngine(cat *catalog.Catalog, profiles *profile.Store, cfg config.RecommendConfig) *Engine {
	return &Engine{
		catalog:  cat,
		profiles: profiles,
		weights:  cfg.Weights.ToMap(),
		logger:   logging.With().Str("component", "recommend").Logger(),
	}
}

// Recommend produces up to limit ranked recommendations for a user
// message. sctx carries the session-derived context; userID may be empty,
// in which case collaborative filtering is skipped and no profile update
// happens. The returned slice is never nil and never longer than limit.
func (e *Engine) Recommend(ctx context.Context, text string, sctx session.Context, userID string, limit int) (recs []Recommendation) {
	start := time.Now()
	e.requests.Add(1)
	metrics.RecommendRequests.Inc()
	defer func() {
		metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	}()

	if limit < 0 {
		limit = 0
	}

	// Internal faults must never surface to the caller. The profile
	// update runs only on the normal path, so a recovered panic cannot
	// leave partially blended state behind.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("recommendation pipeline failed, serving fallback")
			recs = e.fallback(limit)
		}
	}()

	if ctx.Err() != nil {
		return e.fallback(limit)
	}

	interests := interest.Extract(text)

	var prof profile.Profile
	if userID != "" {
		prof = e.profiles.Snapshot(userID)
	}

	var candidates []Recommendation
	candidates = append(candidates, e.contentBased(interests, limit)...)
	if userID != "" {
		candidates = append(candidates, e.collaborative(prof, limit)...)
	}
	candidates = append(candidates, e.trending(limit/2)...)
	candidates = append(candidates, e.culturalSimilarity(sctx.CurrentMonument, limit)...)

	merged := e.scoreAndRank(candidates)
	final := diversify(merged, limit)
	if final == nil {
		final = []Recommendation{}
	}

	if userID != "" {
		surfaced := make([]profile.SeenRef, len(final))
		for i, rec := range final {
			surfaced[i] = profile.SeenRef{ContentID: rec.ContentID, ContentType: rec.ContentType}
		}
		e.profiles.Update(userID, interests, sctx.CurrentMonument, surfaced)
	}

	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(final)).
		Str("user_id", userID).
		Msg("recommendations generated")
	return final
}

// scoreAndRank deduplicates candidates by content ID (first occurrence
// wins, so generator order sets priority), applies the per-algorithm
// factor weight plus the freshness bonus, and sorts by final score
// descending. The sort is stable, so equal scores keep generator order
// and the pipeline stays deterministic.
func (e *Engine) scoreAndRank(candidates []Recommendation) []Recommendation {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Recommendation, 0, len(candidates))

	for _, rec := range candidates {
		if _, dup := seen[rec.ContentID]; dup {
			continue
		}
		seen[rec.ContentID] = struct{}{}

		weight, ok := e.weights[rec.Algorithm]
		if !ok {
			weight = defaultFactorWeight
		}
		rec.FinalScore = rec.RawScore*weight + freshnessBonus
		out = append(out, rec)
	}

	sortByFinalScore(out)
	return out
}

// diversify caps how often a single content type appears. Lists that
// already fit inside limit pass through untouched. Otherwise a greedy
// pass accepts at most max(1, limit/4) items per type, then remaining
// slots are backfilled in score order without the cap.
func diversify(recs []Recommendation, limit int) []Recommendation {
	if len(recs) <= limit {
		return recs
	}

	maxPerType := limit / 4
	if maxPerType < 1 {
		maxPerType = 1
	}

	accepted := make([]Recommendation, 0, limit)
	taken := make(map[string]struct{}, limit)
	typeCounts := make(map[string]int)

	for _, rec := range recs {
		if len(accepted) >= limit {
			break
		}
		if typeCounts[rec.ContentType] >= maxPerType {
			continue
		}
		accepted = append(accepted, rec)
		taken[rec.ContentID] = struct{}{}
		typeCounts[rec.ContentType]++
	}

	for _, rec := range recs {
		if len(accepted) >= limit {
			break
		}
		if _, ok := taken[rec.ContentID]; ok {
			continue
		}
		accepted = append(accepted, rec)
		taken[rec.ContentID] = struct{}{}
	}

	return accepted
}

// fallback serves the most popular catalog items when the pipeline fails.
// It never touches profiles.
func (e *Engine) fallback(limit int) []Recommendation {
	e.fallbacks.Add(1)
	metrics.RecommendFallbacks.Inc()

	items := e.catalog.MostPopular(limit)
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		out = append(out, Recommendation{
			ContentID:   item.ID,
			ContentType: string(item.Type),
			Title:       item.Title,
			RawScore:    item.Popularity,
			FinalScore:  item.Popularity,
			Reason:      "Popular content",
			Algorithm:   AlgorithmFallback,
			Item:        item,
		})
	}
	return out
}

// Stats returns process-lifetime engine counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Requests:  e.requests.Load(),
		Fallbacks: e.fallbacks.Load(),
	}
}
