// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package recommend

import "github.com/darshana-ai/narad/internal/catalog"

// Algorithm tags carried on every recommendation. The merge step maps
// these to factor weights from configuration.
const (
	AlgorithmContentBased       = "content_based"
	AlgorithmCollaborative      = "collaborative"
	AlgorithmTrending           = "trending"
	AlgorithmCulturalSimilarity = "cultural_similarity"
	AlgorithmFallback           = "fallback"
)

// Recommendation is one ranked content suggestion. RawScore is the
// generator's score before factor weighting; FinalScore is what the list
// is ordered by.
type Recommendation struct {
	ContentID   string        `json:"content_id"`
	ContentType string        `json:"content_type"`
	Title       string        `json:"title"`
	RawScore    float64       `json:"raw_score"`
	FinalScore  float64       `json:"final_score"`
	Reason      string        `json:"reason"`
	Algorithm   string        `json:"algorithm"`
	Item        *catalog.Item `json:"metadata,omitempty"`
}

// EngineStats are process-lifetime engine counters, surfaced on the
// stats endpoint.
type EngineStats struct {
	Requests  int64 `json:"requests"`
	Fallbacks int64 `json:"fallbacks"`
}
