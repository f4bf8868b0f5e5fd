// Narad - Conversational Session and Recommendation Core for Darshana
// Copyright 2026 Darshana AI Project
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/darshana-ai/narad

// Package catalog holds the immutable in-memory content catalog: stories,
// experiences, monuments, and treasure hunts, each tagged with themes,
// difficulty, popularity, and cultural significance. The catalog is
// read-only after construction and safe for concurrent use without locking.
package catalog

import (
	"fmt"
	"sort"
)

// ContentType classifies catalog entries.
type ContentType string

const (
	TypeStory        ContentType = "story"
	TypeExperience   ContentType = "experience"
	TypeMonument     ContentType = "monument"
	TypeTreasureHunt ContentType = "treasure_hunt"
)

// Valid reports whether the content type is one of the known types.
func (t ContentType) Valid() bool {
	switch t {
	case TypeStory, TypeExperience, TypeMonument, TypeTreasureHunt:
		return true
	default:
		return false
	}
}

// Difficulty grades how demanding an item is to engage with.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Score maps the difficulty onto the [0,1] scale used by interest
// matching: easy=0.3, medium=0.6, hard=0.9. Unknown values score as medium.
func (d Difficulty) Score() float64 {
	switch d {
	case DifficultyEasy:
		return 0.3
	case DifficultyHard:
		return 0.9
	default:
		return 0.6
	}
}

// Item is a single catalog entry. Items are immutable; consumers receive
// pointers into the catalog and must not mutate them.
type Item struct {
	// ID is unique within the item's type.
	ID string `json:"id"`

	// Type is the content type.
	Type ContentType `json:"type"`

	// Title is the display title (monument entries use their name).
	Title string `json:"title"`

	// Themes tags the item for interest matching.
	Themes []string `json:"themes"`

	// Difficulty grades the item easy/medium/hard.
	Difficulty Difficulty `json:"difficulty"`

	// DurationMinutes is the expected engagement time; zero when unknown.
	DurationMinutes int `json:"duration_minutes,omitempty"`

	// Popularity is a precomputed score in [0,1].
	Popularity float64 `json:"popularity"`

	// CulturalSignificance is a curator-assigned score in [0,1].
	CulturalSignificance float64 `json:"cultural_significance"`

	// Monument references the monument this item belongs to, if any.
	Monument string `json:"monument,omitempty"`

	// Location is the geographic location, if any.
	Location string `json:"location,omitempty"`
}

// Key returns the (type, id) identity of the item.
func (i *Item) Key() string {
	return string(i.Type) + "/" + i.ID
}

// TrendingEntry points at a catalog item with an editorial trend score.
type TrendingEntry struct {
	ContentID  string      `json:"content_id"`
	Type       ContentType `json:"content_type"`
	TrendScore float64     `json:"trend_score"`
}

// Catalog is the immutable content set plus the fixed trending list.
type Catalog struct {
	items     []*Item
	byKey     map[string]*Item
	byType    map[ContentType][]*Item
	byID      map[string]*Item // first item registered under each bare ID
	trending  []TrendingEntry
	byPopular []*Item // items sorted by popularity descending
}

// New builds a catalog from items and a trending list. It returns an error
// on unknown content types, duplicate (type, id) pairs, or trending entries
// that reference no item.
func New(items []*Item, trending []TrendingEntry) (*Catalog, error) {
	c := &Catalog{
		items:  make([]*Item, 0, len(items)),
		byKey:  make(map[string]*Item, len(items)),
		byType: make(map[ContentType][]*Item),
		byID:   make(map[string]*Item, len(items)),
	}

	for _, item := range items {
		if !item.Type.Valid() {
			return nil, fmt.Errorf("unknown content type %q for item %q", item.Type, item.ID)
		}
		key := item.Key()
		if _, exists := c.byKey[key]; exists {
			return nil, fmt.Errorf("duplicate catalog item %s", key)
		}
		c.items = append(c.items, item)
		c.byKey[key] = item
		c.byType[item.Type] = append(c.byType[item.Type], item)
		if _, exists := c.byID[item.ID]; !exists {
			c.byID[item.ID] = item
		}
	}

	for _, tr := range trending {
		if c.Lookup(tr.Type, tr.ContentID) == nil {
			return nil, fmt.Errorf("trending entry %s/%s not in catalog", tr.Type, tr.ContentID)
		}
	}
	c.trending = trending

	c.byPopular = make([]*Item, len(c.items))
	copy(c.byPopular, c.items)
	sort.SliceStable(c.byPopular, func(i, j int) bool {
		return c.byPopular[i].Popularity > c.byPopular[j].Popularity
	})

	return c, nil
}

// Lookup returns the item with the given type and ID, or nil.
func (c *Catalog) Lookup(t ContentType, id string) *Item {
	return c.byKey[string(t)+"/"+id]
}

// LookupID returns the item registered under the bare ID, or nil. IDs are
// unique across the reference data set; when types collide the first
// registered item wins.
func (c *Catalog) LookupID(id string) *Item {
	return c.byID[id]
}

// Items returns all catalog items in registration order.
func (c *Catalog) Items() []*Item {
	return c.items
}

// ByType returns all items of the given content type.
func (c *Catalog) ByType(t ContentType) []*Item {
	return c.byType[t]
}

// ByMonument returns all items referencing the given monument ID.
func (c *Catalog) ByMonument(monument string) []*Item {
	if monument == "" {
		return nil
	}
	var out []*Item
	for _, item := range c.items {
		if item.Monument == monument {
			out = append(out, item)
		}
	}
	return out
}

// MostPopular returns up to n items ordered by popularity descending.
func (c *Catalog) MostPopular(n int) []*Item {
	if n < 0 {
		n = 0
	}
	if n > len(c.byPopular) {
		n = len(c.byPopular)
	}
	return c.byPopular[:n]
}

// Trending returns the fixed trending list.
func (c *Catalog) Trending() []TrendingEntry {
	return c.trending
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}

// CountByType returns item counts keyed by content type.
func (c *Catalog) CountByType() map[ContentType]int {
	counts := make(map[ContentType]int, len(c.byType))
	for t, items := range c.byType {
		counts[t] = len(items)
	}
	return counts
}
