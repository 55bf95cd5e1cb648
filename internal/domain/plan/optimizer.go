package plan

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/goalplate/v1/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Corpus is the optimizer's read-only view of the recipe pool.
type Corpus interface {
	Query(ctx context.Context, q recipe.Query) ([]recipe.Candidate, error)
}

// GoalView is the optimizer's view of one active goal, used for per-goal
// satisfaction scoring after assignment.
type GoalView struct {
	ID            uuid.UUID
	Name          string
	Priority      int
	Fragment      constraint.Fragment
	TrackAndLearn bool
}

// Request parameterizes one plan generation.
type Request struct {
	UserID           uuid.UUID
	Days             int
	Set              *constraint.Set
	Goals            []GoalView
	ExcludeRecipeIDs []uuid.UUID

	// CandidateLimit caps the corpus pool per generation. Zero means
	// unbounded.
	CandidateLimit int
}

// relaxStage enumerates the fixed soft-relaxation order: prep time first,
// then cost, then nutrient targets. Hard constraints are never relaxed.
type relaxStage int

const (
	relaxNone relaxStage = iota
	relaxPrep
	relaxCost
	relaxNutrients
)

func (s relaxStage) String() string {
	switch s {
	case relaxPrep:
		return "prep time"
	case relaxCost:
		return "cost"
	case relaxNutrients:
		return "nutrient targets"
	default:
		return "none"
	}
}

// Optimizer builds multi-day meal plans from a merged constraint set and
// the recipe corpus. It is read-only with respect to shared state and safe
// to use concurrently for different users.
type Optimizer struct {
	corpus Corpus
	logger *zap.Logger
}

// NewOptimizer creates a plan optimizer.
func NewOptimizer(corpus Corpus, logger *zap.Logger) *Optimizer {
	return &Optimizer{
		corpus: corpus,
		logger: logger.Named("plan-optimizer"),
	}
}

// Generate produces a meal plan for the request. Hard constraints filter
// the candidate universe up front; soft bounds relax in the documented
// order when a slot would otherwise stay empty. A plan with unfilled slots
// is returned together with a PARTIAL_PLAN error, never padded with
// constraint-violating recipes.
func (o *Optimizer) Generate(ctx context.Context, req Request) (*MealPlan, error) {
	pool, err := o.corpus.Query(ctx, recipe.Query{
		ExcludeTags: req.Set.HardExcludedItems(),
		ExcludeIDs:  req.ExcludeRecipeIDs,
		Limit:       req.CandidateLimit,
	})
	if err != nil {
		return nil, errors.NewExternalServiceError("recipe corpus", err)
	}
	if len(pool) == 0 {
		sources := req.Set.HardSources()
		if len(sources) == 0 {
			sources = []string{"recipe corpus (no candidates available)"}
		}
		return nil, errors.NewUnsatisfiableHardConstraintsError(sources)
	}

	// Stable candidate order so equal scores resolve deterministically.
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Name != pool[j].Name {
			return pool[i].Name < pool[j].Name
		}
		return pool[i].ID.String() < pool[j].ID.String()
	})

	mealsPerDay := len(MealTypes())
	used := make(map[uuid.UUID]int, len(pool))
	var relaxNotes []string
	var unfilled []Slot

	p := &MealPlan{
		ID:          uuid.New(),
		UserID:      req.UserID,
		GeneratedAt: time.Now(),
	}

	for day := 1; day <= req.Days; day++ {
		dayPlan := DayPlan{Day: day}
		sameDay := make(map[uuid.UUID]bool, mealsPerDay)

		for _, meal := range MealTypes() {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "plan generation cancelled")
			}

			slot := Slot{Day: day, Meal: meal}
			chosen, stage, ok := o.fillSlot(pool, req.Set, sameDay, used, mealsPerDay)
			if !ok {
				o.logger.Warn("no eligible candidate for slot",
					zap.String("user_id", req.UserID.String()),
					zap.String("slot", slot.String()),
				)
				unfilled = append(unfilled, slot)
				continue
			}

			if stage > relaxNone {
				relaxNotes = append(relaxNotes, fmt.Sprintf(
					"relaxed soft bounds up to %s to fill %s with %q", stage, slot, chosen.Name))
			}

			dayPlan.Meals = append(dayPlan.Meals, MealAssignment{Meal: meal, Recipe: chosen})
			sameDay[chosen.ID] = true
			used[chosen.ID]++
			p.TotalCost += chosen.CostPerServing
		}

		p.Days = append(p.Days, dayPlan)
	}

	p.Reports = buildReports(p, req.Goals, req.Set)
	p.TradeOffs = buildTradeOffs(req.Set, relaxNotes)
	p.UnfilledSlots = unfilled

	if len(unfilled) > 0 {
		names := make([]string, len(unfilled))
		for i, s := range unfilled {
			names[i] = s.String()
		}
		return p, errors.NewPartialPlanError(names)
	}

	return p, nil
}

// fillSlot picks the highest-scoring eligible candidate, walking the
// relaxation stages only as far as needed. Using the same recipe twice
// within one day is disallowed at every stage.
func (o *Optimizer) fillSlot(
	pool []recipe.Candidate,
	set *constraint.Set,
	sameDay map[uuid.UUID]bool,
	used map[uuid.UUID]int,
	mealsPerDay int,
) (recipe.Candidate, relaxStage, bool) {
	for stage := relaxNone; stage <= relaxNutrients; stage++ {
		var best recipe.Candidate
		bestScore := 0.0
		found := false

		for _, c := range pool {
			if sameDay[c.ID] {
				continue
			}
			if !eligible(c, set, stage, mealsPerDay) {
				continue
			}
			score := scoreCandidate(c, set, mealsPerDay, used[c.ID])
			if !found || score > bestScore {
				best = c
				bestScore = score
				found = true
			}
		}

		if found {
			return best, stage, true
		}
	}
	return recipe.Candidate{}, relaxNone, false
}

// eligible applies the soft thresholds still enforced at a stage.
func eligible(c recipe.Candidate, set *constraint.Set, stage relaxStage, mealsPerDay int) bool {
	if stage < relaxPrep {
		if max, ok := set.Bound(constraint.DimMaxPrepMinutes); ok && float64(c.PrepMinutes) > max {
			return false
		}
	}
	if stage < relaxCost {
		if max, ok := set.Bound(constraint.DimMaxCostPerMeal); ok && c.CostPerServing > max {
			return false
		}
	}
	if stage < relaxNutrients {
		if max, ok := set.Bound(constraint.DimMaxCaloriesPerMeal); ok && c.Nutrient(recipe.NutrientCalories) > max {
			return false
		}
		for d, rb := range set.Bounds {
			key, lower := lowerBoundNutrient(d)
			if !lower || rb.Value <= 0 {
				continue
			}
			perMeal := rb.Value / float64(mealsPerDay)
			if c.Nutrient(key) < perMeal*nutrientEligibilityFactor {
				return false
			}
		}
	}
	return true
}
