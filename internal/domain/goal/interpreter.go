package goal

import (
	"strings"

	"github.com/goalplate/v1/internal/domain/constraint"
)

// Draft is the interpreter's output: a classified kind plus the standard
// constraint template when one matched. Custom drafts carry an empty
// fragment pending proxy mapping.
type Draft struct {
	Kind     Kind
	Fragment constraint.Fragment
	Score    int
}

// Interpretation scoring. A phrase hit is worth more than a keyword hit;
// a best score below matchThreshold degrades to a custom goal rather than
// forcing a bad standard match.
const (
	phraseScore    = 3
	strongScore    = 2
	weakScore      = 1
	matchThreshold = 2
)

type template struct {
	phrases  []string
	strong   []string
	weak     []string
	fragment constraint.Fragment
}

var taxonomy = map[Type]template{
	TypeBudget: {
		phrases: []string{"save money", "low cost", "eat cheap", "on a budget"},
		strong:  []string{"budget", "cheap", "affordable", "frugal", "inexpensive"},
		weak:    []string{"cost", "save", "money"},
		fragment: constraint.Fragment{
			Bounds: map[constraint.Dimension]float64{constraint.DimMaxCostPerMeal: 4.50},
		},
	},
	TypeMuscleGain: {
		phrases: []string{"muscle gain", "build muscle", "high protein", "gain muscle"},
		strong:  []string{"muscle", "protein", "bulk", "bulking"},
		weak:    []string{"strength", "gains", "gym"},
		fragment: constraint.Fragment{
			Bounds:          map[constraint.Dimension]float64{constraint.DimMinProteinG: 130},
			EmphasizedFoods: []string{"lean protein"},
		},
	},
	TypeWeightLoss: {
		phrases: []string{"lose weight", "weight loss", "calorie deficit", "slim down"},
		strong:  []string{"slim", "deficit", "cutting"},
		weak:    []string{"lean", "calorie", "calories", "lighter"},
		fragment: constraint.Fragment{
			Bounds: map[constraint.Dimension]float64{constraint.DimMaxCaloriesPerMeal: 550},
		},
	},
	TypeHeartHealth: {
		phrases: []string{"heart health", "heart healthy", "blood pressure", "lower cholesterol"},
		strong:  []string{"heart", "cholesterol", "cardiovascular"},
		weak:    []string{"sodium", "pressure"},
		fragment: constraint.Fragment{
			EmphasizedFoods:   []string{"omega-3", "whole grain"},
			AvoidedFoods:      []string{"processed meat", "fried"},
			RequiredNutrients: []string{"potassium"},
		},
	},
	TypeQuickMeals: {
		phrases: []string{"quick meals", "no time to cook", "fast meals", "in a hurry"},
		strong:  []string{"quick", "busy"},
		weak:    []string{"fast", "minutes", "simple"},
		fragment: constraint.Fragment{
			Bounds: map[constraint.Dimension]float64{constraint.DimMaxPrepMinutes: 20},
		},
	},
	TypeHighFiber: {
		phrases: []string{"high fiber", "high fibre", "more fiber"},
		strong:  []string{"fiber", "fibre"},
		weak:    []string{"digestion", "regularity"},
		fragment: constraint.Fragment{
			Bounds:          map[constraint.Dimension]float64{constraint.DimMinFiberG: 25},
			EmphasizedFoods: []string{"legume", "whole grain"},
		},
	},
}

// Interpret classifies free-text goal input against the standard taxonomy
// using keyword and phrase scoring. It never fails: input that matches no
// standard type with enough confidence (including empty or unparseable
// text) degrades to a custom draft carrying the literal input as label.
func Interpret(text string) Draft {
	normalized := NormalizeLabel(text)
	tokens := tokenize(normalized)

	var (
		best      Type
		bestScore int
	)
	// Fixed taxonomy order keeps tie-breaks deterministic.
	for _, t := range StandardTypes() {
		score := scoreTemplate(taxonomy[t], normalized, tokens)
		if score > bestScore {
			best = t
			bestScore = score
		}
	}

	if bestScore >= matchThreshold {
		return Draft{
			Kind:     StandardKind(best),
			Fragment: taxonomy[best].fragment.Clone(),
			Score:    bestScore,
		}
	}

	return Draft{Kind: CustomKind(text), Score: bestScore}
}

// StandardTemplate returns the constraint template for a standard type.
func StandardTemplate(t Type) constraint.Fragment {
	return taxonomy[t].fragment.Clone()
}

func scoreTemplate(tpl template, normalized string, tokens map[string]bool) int {
	score := 0
	for _, p := range tpl.phrases {
		if strings.Contains(normalized, p) {
			score += phraseScore
		}
	}
	for _, k := range tpl.strong {
		if tokens[k] {
			score += strongScore
		}
	}
	for _, k := range tpl.weak {
		if tokens[k] {
			score += weakScore
		}
	}
	return score
}

func tokenize(normalized string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		tokens[strings.Trim(tok, ".,!?;:'\"()")] = true
	}
	return tokens
}
