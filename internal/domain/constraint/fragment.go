// Package constraint contains the constraint model shared by all goals:
// the partial contribution a single goal makes (Fragment), the merged
// per-user resolution (Set), and the priority-weighted merge rules.
package constraint

import (
	"sort"
	"strings"
)

// Dimension identifies one numeric constraint dimension.
type Dimension string

// Known numeric dimensions. Upper bounds cap a per-meal metric, lower
// bounds push a daily aggregate target.
const (
	DimMaxCostPerMeal     Dimension = "max_cost_per_meal"
	DimMaxPrepMinutes     Dimension = "max_prep_min"
	DimMaxCaloriesPerMeal Dimension = "max_calories_per_meal"
	DimMinProteinG        Dimension = "min_protein_g"
	DimMinFiberG          Dimension = "min_fiber_g"
)

var upperBoundDimensions = map[Dimension]bool{
	DimMaxCostPerMeal:     true,
	DimMaxPrepMinutes:     true,
	DimMaxCaloriesPerMeal: true,
}

// IsUpperBound reports whether the dimension caps a value (tightest wins)
// as opposed to a lower-bound target (most demanding wins).
func (d Dimension) IsUpperBound() bool {
	return upperBoundDimensions[d]
}

// Fragment is the partial constraint contribution of a single goal.
// Numeric bounds are optional per dimension; the Hard flag marks the
// fragment's avoided foods as never-relaxable (allergies, medical or
// religious exclusions).
type Fragment struct {
	Bounds            map[Dimension]float64 `json:"bounds,omitempty"`
	EmphasizedFoods   []string              `json:"emphasized_foods,omitempty"`
	AvoidedFoods      []string              `json:"avoided_foods,omitempty"`
	RequiredNutrients []string              `json:"required_nutrients,omitempty"`
	Hard              bool                  `json:"hard,omitempty"`
}

// IsZero reports whether the fragment contributes nothing.
func (f Fragment) IsZero() bool {
	return len(f.Bounds) == 0 &&
		len(f.EmphasizedFoods) == 0 &&
		len(f.AvoidedFoods) == 0 &&
		len(f.RequiredNutrients) == 0
}

// DefinedDimensions returns the dimensions this fragment defines, sorted.
func (f Fragment) DefinedDimensions() []Dimension {
	dims := make([]Dimension, 0, len(f.Bounds))
	for d := range f.Bounds {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}

// Bound returns the fragment's value for a dimension, if defined.
func (f Fragment) Bound(d Dimension) (float64, bool) {
	v, ok := f.Bounds[d]
	return v, ok
}

// Clone returns a deep copy of the fragment.
func (f Fragment) Clone() Fragment {
	out := Fragment{Hard: f.Hard}
	if len(f.Bounds) > 0 {
		out.Bounds = make(map[Dimension]float64, len(f.Bounds))
		for d, v := range f.Bounds {
			out.Bounds[d] = v
		}
	}
	out.EmphasizedFoods = append([]string(nil), f.EmphasizedFoods...)
	out.AvoidedFoods = append([]string(nil), f.AvoidedFoods...)
	out.RequiredNutrients = append([]string(nil), f.RequiredNutrients...)
	return out
}

// NormalizeItem canonicalizes a food or nutrient label for set membership.
func NormalizeItem(item string) string {
	return strings.ToLower(strings.Join(strings.Fields(item), " "))
}

func normalizeItems(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		n := NormalizeItem(it)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
