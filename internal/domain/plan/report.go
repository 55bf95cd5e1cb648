package plan

import (
	"fmt"
	"sort"

	"github.com/goalplate/v1/internal/domain/constraint"
)

// neutralScore is assigned to goals with no mapped constraint fields yet
// (track-and-learn customs): the plan neither satisfies nor violates them.
const neutralScore = 0.5

// buildReports computes each goal's satisfaction: the fraction of the
// goal's own constraint fields that the final plan's aggregate metrics
// actually meet, averaged across the fields the goal defines.
func buildReports(p *MealPlan, goals []GoalView, set *constraint.Set) []GoalReport {
	reports := make([]GoalReport, 0, len(goals))
	for _, g := range goals {
		reports = append(reports, buildReport(p, g, set))
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })
	return reports
}

func buildReport(p *MealPlan, g GoalView, set *constraint.Set) GoalReport {
	report := GoalReport{GoalID: g.ID, Name: g.Name}

	var fields []float64
	var notes []string

	for _, d := range g.Fragment.DefinedDimensions() {
		want, _ := g.Fragment.Bound(d)
		var frac float64
		if d.IsUpperBound() {
			frac = mealFractionUnder(p, d, want)
			if frac < 1 {
				notes = append(notes, fmt.Sprintf("%.0f%% of meals met %s <= %.4g", frac*100, d, want))
			}
		} else {
			frac = dayFractionReaching(p, d, want)
			if frac < 1 {
				notes = append(notes, fmt.Sprintf("%.0f%% of days reached %s >= %.4g", frac*100, d, want))
			}
		}
		fields = append(fields, frac)
	}

	if len(g.Fragment.EmphasizedFoods) > 0 {
		frac, missing := itemCoverage(p, g.Fragment.EmphasizedFoods)
		fields = append(fields, frac)
		if len(missing) > 0 {
			notes = append(notes, fmt.Sprintf("emphasized foods never served: %v", missing))
		}
	}

	if len(g.Fragment.RequiredNutrients) > 0 {
		frac, missing := nutrientCoverage(p, g.Fragment.RequiredNutrients)
		fields = append(fields, frac)
		if len(missing) > 0 {
			notes = append(notes, fmt.Sprintf("required nutrients never covered: %v", missing))
		}
	}

	if len(g.Fragment.AvoidedFoods) > 0 {
		fields = append(fields, mealFractionAvoiding(p, g.Fragment.AvoidedFoods))
	}

	if len(fields) == 0 {
		report.Score = neutralScore
		if g.TrackAndLearn {
			notes = append(notes, "no curated mapping for this goal yet; ratings will teach the planner what to emphasize")
		}
	} else {
		var sum float64
		for _, f := range fields {
			sum += f
		}
		report.Score = sum / float64(len(fields))
	}

	report.Notes = notes
	return report
}

func mealFractionUnder(p *MealPlan, d constraint.Dimension, want float64) float64 {
	total, met := 0, 0
	for _, day := range p.Days {
		for _, m := range day.Meals {
			metric, ok := upperBoundMetric(m.Recipe, d)
			if !ok {
				continue
			}
			total++
			if metric <= want {
				met++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(met) / float64(total)
}

func dayFractionReaching(p *MealPlan, d constraint.Dimension, want float64) float64 {
	key, ok := lowerBoundNutrient(d)
	if !ok || len(p.Days) == 0 {
		return 0
	}
	met := 0
	for _, day := range p.Days {
		if day.Nutrient(key) >= want {
			met++
		}
	}
	return float64(met) / float64(len(p.Days))
}

// itemCoverage is the fraction of items served at least once in the plan.
func itemCoverage(p *MealPlan, items []string) (float64, []string) {
	if len(items) == 0 {
		return 1, nil
	}
	var missing []string
	matched := 0
	for _, item := range items {
		if planHasTag(p, item) {
			matched++
		} else {
			missing = append(missing, constraint.NormalizeItem(item))
		}
	}
	sort.Strings(missing)
	return float64(matched) / float64(len(items)), missing
}

func nutrientCoverage(p *MealPlan, items []string) (float64, []string) {
	if len(items) == 0 {
		return 1, nil
	}
	var missing []string
	matched := 0
	for _, item := range items {
		found := false
		for _, c := range p.Recipes() {
			if nutrientPresent(c, item) {
				found = true
				break
			}
		}
		if found {
			matched++
		} else {
			missing = append(missing, constraint.NormalizeItem(item))
		}
	}
	sort.Strings(missing)
	return float64(matched) / float64(len(items)), missing
}

func mealFractionAvoiding(p *MealPlan, avoided []string) float64 {
	total, clean := 0, 0
	for _, c := range p.Recipes() {
		total++
		if !c.HasAnyTag(avoided) {
			clean++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(clean) / float64(total)
}

func planHasTag(p *MealPlan, tag string) bool {
	for _, c := range p.Recipes() {
		if c.HasTag(tag) {
			return true
		}
	}
	return false
}

// buildTradeOffs renders merge conflicts and relaxations as human-readable
// trade-off notes explaining which goal's preference was sacrificed.
func buildTradeOffs(set *constraint.Set, relaxNotes []string) []string {
	var notes []string
	for _, c := range set.Conflicts {
		switch c.Kind {
		case constraint.ConflictBound:
			notes = append(notes, fmt.Sprintf(
				"%s: %q requested %.4g but %q took precedence with %.4g",
				c.Subject, c.Loser, c.LoserValue, c.Winner, c.WinnerValue))
		case constraint.ConflictEmphasisExcluded:
			notes = append(notes, fmt.Sprintf(
				"%q emphasized by %q is excluded by a hard restriction from %q and was left out",
				c.Subject, c.Loser, c.Winner))
		}
	}
	notes = append(notes, relaxNotes...)
	return dedupe(notes)
}

func dedupe(notes []string) []string {
	seen := make(map[string]bool, len(notes))
	out := notes[:0]
	for _, n := range notes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
