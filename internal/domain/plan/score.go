package plan

import (
	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/recipe"
)

// Scoring weights for the linear slot-scoring function. Tuned so a strong
// emphasis match can outweigh a mediocre cost fit but never a repetition
// within the same week.
const (
	weightCost        = 2.0
	weightPrep        = 1.0
	weightCalories    = 1.0
	weightNutrient    = 2.0
	weightEmphasis    = 1.5
	weightRequired    = 1.0
	weightSoftAvoided = 1.5
	repetitionPenalty = 2.5

	// A candidate contributes toward a daily lower-bound target up to
	// this multiple of its per-meal share; more of one nutrient in one
	// meal should not dominate every other signal.
	nutrientRatioCap = 1.5

	// Share of the per-meal target a candidate must reach to count as
	// meeting nutrient thresholds before the final relaxation stage.
	nutrientEligibilityFactor = 0.5
)

// upperBoundMetric reads the candidate metric an upper-bound dimension caps.
func upperBoundMetric(c recipe.Candidate, d constraint.Dimension) (float64, bool) {
	switch d {
	case constraint.DimMaxCostPerMeal:
		return c.CostPerServing, true
	case constraint.DimMaxPrepMinutes:
		return float64(c.PrepMinutes), true
	case constraint.DimMaxCaloriesPerMeal:
		return c.Nutrient(recipe.NutrientCalories), true
	}
	return 0, false
}

// lowerBoundNutrient maps a daily lower-bound dimension to its nutrient key.
func lowerBoundNutrient(d constraint.Dimension) (string, bool) {
	switch d {
	case constraint.DimMinProteinG:
		return recipe.NutrientProteinG, true
	case constraint.DimMinFiberG:
		return recipe.NutrientFiberG, true
	}
	return "", false
}

// scoreCandidate computes the weighted linear score of a candidate for one
// slot: closeness under upper bounds (being under is rewarded, over is
// penalized), closeness to per-meal shares of daily targets, matched
// emphasis/required weights, soft-avoided penalties, and a repetition
// penalty for recipes already used this week.
func scoreCandidate(c recipe.Candidate, set *constraint.Set, mealsPerDay int, usedCount int) float64 {
	var score float64

	for d, rb := range set.Bounds {
		if d.IsUpperBound() {
			metric, ok := upperBoundMetric(c, d)
			if !ok || rb.Value <= 0 {
				continue
			}
			ratio := metric / rb.Value
			w := boundWeight(d)
			if ratio <= 1 {
				score += w * (1 - ratio)
			} else {
				score -= w * (ratio - 1)
			}
			continue
		}

		key, ok := lowerBoundNutrient(d)
		if !ok || rb.Value <= 0 {
			continue
		}
		perMeal := rb.Value / float64(mealsPerDay)
		ratio := c.Nutrient(key) / perMeal
		if ratio > nutrientRatioCap {
			ratio = nutrientRatioCap
		}
		score += weightNutrient * ratio
	}

	for _, wi := range set.EmphasizedFoods {
		if c.HasTag(wi.Item) {
			score += weightEmphasis * float64(wi.Weight)
		}
	}
	for _, wi := range set.RequiredNutrients {
		if nutrientPresent(c, wi.Item) {
			score += weightRequired * float64(wi.Weight)
		}
	}
	for _, item := range set.AvoidedFoods {
		if c.HasTag(item) {
			score -= weightSoftAvoided
		}
	}

	score -= repetitionPenalty * float64(usedCount)
	return score
}

func boundWeight(d constraint.Dimension) float64 {
	switch d {
	case constraint.DimMaxCostPerMeal:
		return weightCost
	case constraint.DimMaxPrepMinutes:
		return weightPrep
	default:
		return weightCalories
	}
}

// nutrientPresent reports whether a required nutrient shows up either as a
// candidate tag or as a tracked nutrient amount.
func nutrientPresent(c recipe.Candidate, item string) bool {
	if c.HasTag(item) {
		return true
	}
	return c.Nutrient(item) > 0
}
