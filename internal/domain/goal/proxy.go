package goal

import "github.com/goalplate/v1/internal/domain/constraint"

// proxyTable maps common wellness concepts to concrete nutrient and food
// emphasis signals. Lookup keys are normalized labels; aliases point at a
// canonical entry.
var proxyTable = map[string]constraint.Fragment{
	"skin health": {
		EmphasizedFoods:   []string{"omega-3", "antioxidant"},
		RequiredNutrients: []string{"vitamin c", "vitamin e"},
	},
	"gut health": {
		EmphasizedFoods:   []string{"probiotic", "fermented", "legume"},
		RequiredNutrients: []string{"fiber"},
	},
	"energy": {
		EmphasizedFoods:   []string{"whole grain", "nuts"},
		RequiredNutrients: []string{"iron", "vitamin b12"},
		AvoidedFoods:      []string{"refined sugar"},
	},
	"better sleep": {
		EmphasizedFoods:   []string{"leafy greens", "nuts"},
		RequiredNutrients: []string{"magnesium"},
		AvoidedFoods:      []string{"caffeine"},
	},
	"immune support": {
		EmphasizedFoods:   []string{"citrus", "fermented"},
		RequiredNutrients: []string{"vitamin c", "zinc"},
	},
	"brain health": {
		EmphasizedFoods:   []string{"omega-3", "berries", "leafy greens"},
		RequiredNutrients: []string{"vitamin b12"},
	},
	"bone health": {
		EmphasizedFoods:   []string{"dairy", "leafy greens"},
		RequiredNutrients: []string{"calcium", "vitamin d"},
	},
}

var proxyAliases = map[string]string{
	"clear skin":       "skin health",
	"glowing skin":     "skin health",
	"digestion":        "gut health",
	"digestive health": "gut health",
	"more energy":      "energy",
	"less tired":       "energy",
	"sleep":            "better sleep",
	"sleep quality":    "better sleep",
	"immunity":         "immune support",
	"immune system":    "immune support",
	"focus":            "brain health",
	"memory":           "brain health",
	"strong bones":     "bone health",
}

// MapProxy looks up the curated table for a normalized custom label. When
// no entry matches it returns a zero fragment and false: the goal proceeds
// as track-and-learn, scored neutrally until rating feedback accumulates.
// Pure lookup, no side effects.
func MapProxy(label string) (constraint.Fragment, bool) {
	n := NormalizeLabel(label)
	if canonical, ok := proxyAliases[n]; ok {
		n = canonical
	}
	if fragment, ok := proxyTable[n]; ok {
		return fragment.Clone(), true
	}
	return constraint.Fragment{}, false
}
