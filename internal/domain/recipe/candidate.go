// Package recipe defines the immutable candidate view of a recipe as the
// plan optimizer consumes it. Candidates are owned by the recipe corpus;
// this package never mutates them.
package recipe

import (
	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/google/uuid"
)

// Nutrient keys used across the corpus.
const (
	NutrientCalories = "calories"
	NutrientProteinG = "protein_g"
	NutrientFiberG   = "fiber_g"
)

// Candidate is one recipe eligible for plan slots.
type Candidate struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	CostPerServing float64            `json:"cost_per_serving"`
	PrepMinutes    int                `json:"prep_minutes"`
	Nutrients      map[string]float64 `json:"nutrients"`
	Tags           []string           `json:"tags"`
}

// HasTag reports whether the candidate carries the (normalized) tag.
func (c Candidate) HasTag(tag string) bool {
	n := constraint.NormalizeItem(tag)
	for _, t := range c.Tags {
		if constraint.NormalizeItem(t) == n {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the candidate carries any of the tags.
func (c Candidate) HasAnyTag(tags []string) bool {
	for _, tag := range tags {
		if c.HasTag(tag) {
			return true
		}
	}
	return false
}

// Nutrient returns the per-serving amount for a nutrient key, 0 if unknown.
func (c Candidate) Nutrient(key string) float64 {
	return c.Nutrients[key]
}

// Query filters corpus candidates. ExcludeTags is the hard-exclusion
// filter: a candidate carrying any excluded tag never enters the pool.
type Query struct {
	ExcludeTags    []string
	ExcludeIDs     []uuid.UUID
	MaxCost        *float64
	MaxPrepMinutes *int
	Limit          int
}

// Matches reports whether a candidate satisfies the query. Shared by the
// corpus implementations so filtering semantics never drift.
func (q Query) Matches(c Candidate) bool {
	if c.HasAnyTag(q.ExcludeTags) {
		return false
	}
	for _, id := range q.ExcludeIDs {
		if c.ID == id {
			return false
		}
	}
	if q.MaxCost != nil && c.CostPerServing > *q.MaxCost {
		return false
	}
	if q.MaxPrepMinutes != nil && c.PrepMinutes > *q.MaxPrepMinutes {
		return false
	}
	return true
}
