// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package recommend

import (
	"math"
	"sort"

	"github.com/darshana-ai/narad/internal/catalog"
	"github.com/darshana-ai/narad/internal/interest"
	"github.com/darshana-ai/narad/internal/metrics"
	"github.com/darshana-ai/narad/internal/profile"
)

// similarityThreshold discards content-based candidates with no real
// interest overlap.
const similarityThreshold = 0.3

// contentBased scores every catalog item against the interest vector:
// theme overlap, content-type preference, difficulty match and a small
// popularity bonus. Items at or below the threshold are dropped.
func (e *Engine) contentBased(interests interest.Vector, limit int) []Recommendation {
	var out []Recommendation
	for _, item := range e.catalog.Items() {
		score := contentSimilarity(interests, item)
		if score <= similarityThreshold {
			continue
		}
		out = append(out, Recommendation{
			ContentID:   item.ID,
			ContentType: string(item.Type),
			Title:       item.Title,
			RawScore:    score,
			Reason:      "Based on your interests",
			Algorithm:   AlgorithmContentBased,
			Item:        item,
		})
	}
	sortByRawScore(out)
	out = truncate(out, limit)
	metrics.RecommendCandidates.WithLabelValues(AlgorithmContentBased).Add(float64(len(out)))
	return out
}

// contentSimilarity combines theme overlap (0.3), type preference (0.4),
// difficulty match (0.2) and popularity (0.1), capped at 1.0.
func contentSimilarity(interests interest.Vector, item *catalog.Item) float64 {
	score := 0.0

	for _, theme := range item.Themes {
		if w, ok := interests[theme]; ok {
			score += w * 0.3
		}
	}

	if w, ok := interests[interest.TypePreferenceKey(string(item.Type))]; ok {
		score += w * 0.4
	}

	diff := math.Abs(item.Difficulty.Score() - interests.DifficultyPreference())
	score += (1.0 - diff) * 0.2

	score += item.Popularity * 0.1

	return math.Min(score, 1.0)
}

// collaborative recommends popular items of the user's strongest content
// type, skipping anything already surfaced to them. Runs only when the
// profile carries type preferences; ties between types break
// lexicographically so output stays deterministic.
func (e *Engine) collaborative(prof profile.Profile, limit int) []Recommendation {
	if !prof.HasPreferences() {
		return nil
	}

	var preferred string
	best := math.Inf(-1)
	for t, w := range prof.PreferredContentTypes {
		if w > best || (w == best && t < preferred) {
			preferred = t
			best = w
		}
	}

	var out []Recommendation
	for _, item := range e.catalog.ByType(catalog.ContentType(preferred)) {
		if prof.SeenContent[item.ID] {
			continue
		}
		out = append(out, Recommendation{
			ContentID:   item.ID,
			ContentType: preferred,
			Title:       item.Title,
			RawScore:    item.Popularity * 0.8,
			Reason:      "Similar users also liked this",
			Algorithm:   AlgorithmCollaborative,
			Item:        item,
		})
	}
	sortByRawScore(out)
	out = truncate(out, limit)
	metrics.RecommendCandidates.WithLabelValues(AlgorithmCollaborative).Add(float64(len(out)))
	return out
}

// trending surfaces the fixed editorial trending list, scored by trend
// score, capped at limit entries (callers pass limit/2 of the request).
func (e *Engine) trending(limit int) []Recommendation {
	var out []Recommendation
	for _, entry := range e.catalog.Trending() {
		if len(out) >= limit {
			break
		}
		item := e.catalog.Lookup(entry.Type, entry.ContentID)
		if item == nil {
			continue
		}
		out = append(out, Recommendation{
			ContentID:   item.ID,
			ContentType: string(item.Type),
			Title:       item.Title,
			RawScore:    entry.TrendScore,
			Reason:      "Trending now",
			Algorithm:   AlgorithmTrending,
			Item:        item,
		})
	}
	metrics.RecommendCandidates.WithLabelValues(AlgorithmTrending).Add(float64(len(out)))
	return out
}

// culturalSimilarity recommends everything tied to the monument the
// conversation is currently about, scored by cultural significance.
// Without a current monument it contributes nothing.
func (e *Engine) culturalSimilarity(monument string, limit int) []Recommendation {
	if monument == "" {
		return nil
	}

	var out []Recommendation
	for _, item := range e.catalog.ByMonument(monument) {
		out = append(out, Recommendation{
			ContentID:   item.ID,
			ContentType: string(item.Type),
			Title:       item.Title,
			RawScore:    item.CulturalSignificance,
			Reason:      "Related to " + monument,
			Algorithm:   AlgorithmCulturalSimilarity,
			Item:        item,
		})
	}
	sortByRawScore(out)
	out = truncate(out, limit)
	metrics.RecommendCandidates.WithLabelValues(AlgorithmCulturalSimilarity).Add(float64(len(out)))
	return out
}

func sortByRawScore(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RawScore > recs[j].RawScore
	})
}

func sortByFinalScore(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].FinalScore > recs[j].FinalScore
	})
}

func truncate(recs []Recommendation, limit int) []Recommendation {
	if limit < 0 {
		limit = 0
	}
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
