// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

package catalog

// Seed returns the reference catalog: the curated content set the engine
// ships with until the CMS integration lands. Popularity and cultural
// significance are curator-assigned.
func Seed() *Catalog {
	items := []*Item{
		{
			ID:                   "story_1",
			Type:                 TypeStory,
			Title:                "The Legend of Taj Mahal",
			Themes:               []string{"love", "architecture", "mughal"},
			Difficulty:           DifficultyEasy,
			DurationMinutes:      8,
			Popularity:           0.9,
			CulturalSignificance: 0.95,
			Monument:             "taj_mahal",
		},
		{
			ID:                   "story_2",
			Type:                 TypeStory,
			Title:                "Hanuman's Adventures in Hampi",
			Themes:               []string{"devotion", "strength", "ramayana", "mythology"},
			Difficulty:           DifficultyMedium,
			DurationMinutes:      12,
			Popularity:           0.85,
			CulturalSignificance: 0.9,
			Monument:             "hampi",
		},
		{
			ID:                   "story_3",
			Type:                 TypeStory,
			Title:                "Ghost Stories of Red Fort",
			Themes:               []string{"mystery", "paranormal", "history"},
			Difficulty:           DifficultyMedium,
			DurationMinutes:      10,
			Popularity:           0.75,
			CulturalSignificance: 0.7,
			Monument:             "red_fort",
		},
		{
			ID:                   "exp_1",
			Type:                 TypeExperience,
			Title:                "Virtual Tour of Taj Mahal",
			Themes:               []string{"architecture", "immersive", "educational"},
			Difficulty:           DifficultyEasy,
			DurationMinutes:      15,
			Popularity:           0.88,
			CulturalSignificance: 0.85,
			Monument:             "taj_mahal",
		},
		{
			ID:                   "exp_2",
			Type:                 TypeExperience,
			Title:                "AR Reconstruction of Hampi",
			Themes:               []string{"history", "reconstruction", "interactive"},
			Difficulty:           DifficultyMedium,
			DurationMinutes:      20,
			Popularity:           0.82,
			CulturalSignificance: 0.9,
			Monument:             "hampi",
		},
		{
			ID:                   "mon_1",
			Type:                 TypeMonument,
			Title:                "Taj Mahal",
			Themes:               []string{"architecture", "love", "mughal", "unesco"},
			Difficulty:           DifficultyEasy,
			Popularity:           0.95,
			CulturalSignificance: 0.98,
			Monument:             "taj_mahal",
			Location:             "Agra",
		},
		{
			ID:                   "mon_2",
			Type:                 TypeMonument,
			Title:                "Hampi Ruins",
			Themes:               []string{"history", "ruins", "vijayanagara", "unesco"},
			Difficulty:           DifficultyMedium,
			Popularity:           0.8,
			CulturalSignificance: 0.95,
			Monument:             "hampi",
			Location:             "Karnataka",
		},
		{
			ID:                   "hunt_1",
			Type:                 TypeTreasureHunt,
			Title:                "Mysteries of Taj Mahal",
			Themes:               []string{"puzzle", "history", "architecture"},
			Difficulty:           DifficultyMedium,
			DurationMinutes:      30,
			Popularity:           0.75,
			CulturalSignificance: 0.8,
			Monument:             "taj_mahal",
		},
		{
			ID:                   "hunt_2",
			Type:                 TypeTreasureHunt,
			Title:                "Hanuman's Trail in Hampi",
			Themes:               []string{"mythology", "adventure", "exploration"},
			Difficulty:           DifficultyHard,
			DurationMinutes:      45,
			Popularity:           0.7,
			CulturalSignificance: 0.85,
			Monument:             "hampi",
		},
	}

	trending := []TrendingEntry{
		{ContentID: "story_1", Type: TypeStory, TrendScore: 0.9},
		{ContentID: "exp_1", Type: TypeExperience, TrendScore: 0.85},
		{ContentID: "hunt_1", Type: TypeTreasureHunt, TrendScore: 0.8},
	}

	c, err := New(items, trending)
	if err != nil {
		// The reference data set is validated by tests; a failure here is
		// a programming error.
		panic(err)
	}
	return c
}
