// Package plan contains the meal plan model and the multi-goal plan
// optimizer: hard filtering, slot scoring, greedy assignment with a
// documented soft-relaxation order, and per-goal satisfaction reporting.
package plan

import (
	"fmt"
	"time"

	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/google/uuid"
)

// MealType identifies one meal slot within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes returns the meal slots of a day in serving order.
func MealTypes() []MealType {
	return []MealType{MealBreakfast, MealLunch, MealDinner}
}

// Slot addresses one day/meal cell of the plan. Days are 1-based.
type Slot struct {
	Day  int      `json:"day"`
	Meal MealType `json:"meal"`
}

// String implements fmt.Stringer.
func (s Slot) String() string {
	return fmt.Sprintf("day %d %s", s.Day, s.Meal)
}

// MealAssignment is a filled slot.
type MealAssignment struct {
	Meal   MealType         `json:"meal"`
	Recipe recipe.Candidate `json:"recipe"`
}

// DayPlan holds one day's assignments in serving order.
type DayPlan struct {
	Day   int              `json:"day"`
	Meals []MealAssignment `json:"meals"`
}

// Nutrient sums a nutrient across the day's meals.
func (d DayPlan) Nutrient(key string) float64 {
	var sum float64
	for _, m := range d.Meals {
		sum += m.Recipe.Nutrient(key)
	}
	return sum
}

// Cost sums the day's per-serving costs.
func (d DayPlan) Cost() float64 {
	var sum float64
	for _, m := range d.Meals {
		sum += m.Recipe.CostPerServing
	}
	return sum
}

// GoalReport is the per-goal satisfaction view attached to a plan: the
// fraction of the goal's own constraint fields the final plan meets, plus
// free-text notes for anything sacrificed.
type GoalReport struct {
	GoalID uuid.UUID `json:"goal_id"`
	Name   string    `json:"name"`
	Score  float64   `json:"score"`
	Notes  []string  `json:"notes,omitempty"`
}

// MealPlan is an immutable multi-day plan. Regeneration creates a new
// plan, never mutates a returned one.
type MealPlan struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	Days          []DayPlan    `json:"days"`
	TotalCost     float64      `json:"total_cost"`
	Reports       []GoalReport `json:"reports"`
	TradeOffs     []string     `json:"trade_offs,omitempty"`
	UnfilledSlots []Slot       `json:"unfilled_slots,omitempty"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// MealCount returns the number of filled slots.
func (p *MealPlan) MealCount() int {
	count := 0
	for _, d := range p.Days {
		count += len(d.Meals)
	}
	return count
}

// AvgDailyNutrient averages a nutrient total across the plan's days.
func (p *MealPlan) AvgDailyNutrient(key string) float64 {
	if len(p.Days) == 0 {
		return 0
	}
	var sum float64
	for _, d := range p.Days {
		sum += d.Nutrient(key)
	}
	return sum / float64(len(p.Days))
}

// Recipes returns every assigned candidate, in slot order.
func (p *MealPlan) Recipes() []recipe.Candidate {
	var out []recipe.Candidate
	for _, d := range p.Days {
		for _, m := range d.Meals {
			out = append(out, m.Recipe)
		}
	}
	return out
}
