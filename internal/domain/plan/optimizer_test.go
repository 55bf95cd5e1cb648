package plan

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/goalplate/v1/internal/infrastructure/persistence/memory"
	"github.com/goalplate/v1/pkg/errors"
	"github.com/goalplate/v1/pkg/logger"
	"github.com/goalplate/v1/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// OptimizerTestSuite provides a test suite for plan generation
type OptimizerTestSuite struct {
	suite.Suite
}

func (suite *OptimizerTestSuite) optimizer(candidates []recipe.Candidate) *Optimizer {
	return NewOptimizer(memory.NewRecipeCorpusFrom(candidates), logger.NewNop())
}

func (suite *OptimizerTestSuite) TestHardConstraints() {
	suite.Run("ExcludedTags_NeverAppearInPlan", func() {
		// Arrange: a randomized corpus where roughly a third of the
		// candidates carry the banned tag.
		factory := testutils.NewCorpusFactory(7)
		candidates := factory.Candidates(60, []string{"meat", "dairy", "legume", "omega-3"})
		set := constraint.Merge(nil, constraint.HardRestrictions{
			Allergies:      []string{"dairy"},
			DietExclusions: []string{"meat"},
		})

		// Act
		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   7,
			Set:    set,
		})

		// Assert: hard exclusions hold even if slots go unfilled.
		require.NotNil(suite.T(), p)
		if err != nil {
			assert.Equal(suite.T(), errors.CodePartialPlan, errors.GetCode(err))
		}
		for _, c := range p.Recipes() {
			assert.False(suite.T(), c.HasAnyTag([]string{"meat", "dairy"}),
				"recipe %q violates a hard exclusion", c.Name)
		}
	})

	suite.Run("EmptyPool_ShouldNameOffendingSources", func() {
		candidates := []recipe.Candidate{
			testutils.NewCandidateBuilder().WithTags("meat").Build(),
			testutils.NewCandidateBuilder().WithTags("meat", "fried").Build(),
		}
		set := constraint.Merge([]constraint.GoalInput{{
			ID:        uuid.New(),
			Name:      "vegan",
			Priority:  3,
			CreatedAt: time.Now(),
			Fragment:  constraint.Fragment{AvoidedFoods: []string{"meat"}, Hard: true},
		}}, constraint.HardRestrictions{})

		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   3,
			Set:    set,
		})

		assert.Nil(suite.T(), p)
		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodeUnsatisfiableHardConstraints, errors.GetCode(err))
		assert.Contains(suite.T(), err.Error(), "vegan")
	})
}

func (suite *OptimizerTestSuite) TestSoftRelaxation() {
	suite.Run("PrepBoundRelaxesFirst_AndIsReported", func() {
		// Every candidate busts the prep cap but respects cost.
		candidates := []recipe.Candidate{
			testutils.NewCandidateBuilder().WithName("slow stew").WithPrepMinutes(60).WithCost(3.00).Build(),
			testutils.NewCandidateBuilder().WithName("roast").WithPrepMinutes(50).WithCost(3.50).Build(),
			testutils.NewCandidateBuilder().WithName("braise").WithPrepMinutes(70).WithCost(2.50).Build(),
		}
		set := constraint.Merge([]constraint.GoalInput{{
			ID:        uuid.New(),
			Name:      "quick meals",
			Priority:  2,
			CreatedAt: time.Now(),
			Fragment: constraint.Fragment{
				Bounds: map[constraint.Dimension]float64{
					constraint.DimMaxPrepMinutes: 20,
					constraint.DimMaxCostPerMeal: 5.00,
				},
			},
		}}, constraint.HardRestrictions{})

		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   1,
			Set:    set,
		})

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), p)
		assert.Equal(suite.T(), 3, p.MealCount())

		// Cost was never violated, so only the prep stage shows up.
		require.NotEmpty(suite.T(), p.TradeOffs)
		for _, note := range p.TradeOffs {
			assert.NotContains(suite.T(), note, "relaxed soft bounds up to cost")
		}
		assert.Contains(suite.T(), p.TradeOffs[0], "prep time")
	})
}

func (suite *OptimizerTestSuite) TestSameDayRule() {
	suite.Run("ThreeCandidates_EachDayUsesDistinctRecipes", func() {
		candidates := []recipe.Candidate{
			testutils.NewCandidateBuilder().WithName("alpha").Build(),
			testutils.NewCandidateBuilder().WithName("beta").Build(),
			testutils.NewCandidateBuilder().WithName("gamma").Build(),
		}

		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   4,
			Set:    &constraint.Set{},
		})

		require.NoError(suite.T(), err)
		for _, day := range p.Days {
			seen := make(map[uuid.UUID]bool)
			for _, m := range day.Meals {
				assert.False(suite.T(), seen[m.Recipe.ID], "day %d repeats %q", day.Day, m.Recipe.Name)
				seen[m.Recipe.ID] = true
			}
		}
	})

	suite.Run("TwoCandidates_ShouldReturnPartialPlanWithError", func() {
		candidates := []recipe.Candidate{
			testutils.NewCandidateBuilder().WithName("alpha").Build(),
			testutils.NewCandidateBuilder().WithName("beta").Build(),
		}

		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   2,
			Set:    &constraint.Set{},
		})

		// The same-day rule holds at every relaxation stage, so the
		// third slot of each day stays empty.
		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodePartialPlan, errors.GetCode(err))
		require.NotNil(suite.T(), p, "partial plan ships alongside the error")
		assert.Len(suite.T(), p.UnfilledSlots, 2)
		assert.Equal(suite.T(), 4, p.MealCount())
		for _, s := range p.UnfilledSlots {
			assert.Equal(suite.T(), MealDinner, s.Meal)
		}
	})
}

func (suite *OptimizerTestSuite) TestVariety() {
	suite.Run("RepetitionPenalty_ShouldSpreadUsageAcrossWeek", func() {
		candidates := make([]recipe.Candidate, 0, 9)
		names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
		for _, n := range names {
			candidates = append(candidates, testutils.NewCandidateBuilder().WithName(n).Build())
		}

		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   3,
			Set:    &constraint.Set{},
		})

		require.NoError(suite.T(), err)
		counts := make(map[uuid.UUID]int)
		for _, c := range p.Recipes() {
			counts[c.ID]++
		}
		// 9 slots over 9 identically-scored recipes: the penalty should
		// keep everything to a single use.
		for id, n := range counts {
			assert.Equal(suite.T(), 1, n, "recipe %s over-used", id)
		}
	})
}

func (suite *OptimizerTestSuite) TestSatisfactionReports() {
	suite.Run("TrackAndLearnGoal_ShouldScoreNeutral", func() {
		candidates := []recipe.Candidate{
			testutils.NewCandidateBuilder().WithName("alpha").Build(),
			testutils.NewCandidateBuilder().WithName("beta").Build(),
			testutils.NewCandidateBuilder().WithName("gamma").Build(),
		}
		custom := GoalView{
			ID:            uuid.New(),
			Name:          "mindful eating",
			Priority:      2,
			TrackAndLearn: true,
		}

		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   1,
			Set:    &constraint.Set{},
			Goals:  []GoalView{custom},
		})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), p.Reports, 1)
		assert.Equal(suite.T(), 0.5, p.Reports[0].Score)
		assert.NotEmpty(suite.T(), p.Reports[0].Notes)
	})

	suite.Run("UpperBound_ShouldScoreFractionOfMealsUnder", func() {
		cheap := testutils.NewCandidateBuilder().WithName("cheap a").WithCost(2.00).Build()
		cheap2 := testutils.NewCandidateBuilder().WithName("cheap b").WithCost(2.50).Build()
		pricey := testutils.NewCandidateBuilder().WithName("pricey").WithCost(9.00).Build()

		budget := GoalView{
			ID:       uuid.New(),
			Name:     "budget",
			Priority: 3,
			Fragment: constraint.Fragment{
				Bounds: map[constraint.Dimension]float64{constraint.DimMaxCostPerMeal: 4.00},
			},
		}

		// No merged bound: force the pricey recipe into the plan and let
		// the report measure the damage.
		p, err := suite.optimizer([]recipe.Candidate{cheap, cheap2, pricey}).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   1,
			Set:    &constraint.Set{},
			Goals:  []GoalView{budget},
		})

		require.NoError(suite.T(), err)
		require.Len(suite.T(), p.Reports, 1)
		report := p.Reports[0]
		assert.InDelta(suite.T(), 2.0/3.0, report.Score, 0.001)
		require.Len(suite.T(), report.Notes, 1)
		assert.Contains(suite.T(), report.Notes[0], "max_cost_per_meal")
	})
}

func (suite *OptimizerTestSuite) TestConflictTradeOffs() {
	suite.Run("EmphasisLostToHardExclusion_ShouldBeNoted", func() {
		// Arrange: one goal emphasizes dairy, another hard-excludes it.
		// The plan must still generate from the non-dairy pool and say
		// what was sacrificed.
		candidates := []recipe.Candidate{
			testutils.NewCandidateBuilder().WithName("oat bowl").WithTags("whole grain").Build(),
			testutils.NewCandidateBuilder().WithName("bean stew").WithTags("legume").Build(),
			testutils.NewCandidateBuilder().WithName("rice plate").WithTags("whole grain").Build(),
		}
		base := time.Now()
		set := constraint.Merge([]constraint.GoalInput{
			{
				ID:        uuid.New(),
				Name:      "comfort food",
				Priority:  2,
				CreatedAt: base,
				Fragment:  constraint.Fragment{EmphasizedFoods: []string{"dairy"}},
			},
			{
				ID:        uuid.New(),
				Name:      "dairy free",
				Priority:  3,
				CreatedAt: base.Add(time.Minute),
				Fragment:  constraint.Fragment{AvoidedFoods: []string{"dairy"}, Hard: true},
			},
		}, constraint.HardRestrictions{})

		// Act
		p, err := suite.optimizer(candidates).Generate(context.Background(), Request{
			UserID: uuid.New(),
			Days:   2,
			Set:    set,
		})

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), p)
		assert.Equal(suite.T(), 6, p.MealCount())
		for _, c := range p.Recipes() {
			assert.False(suite.T(), c.HasTag("dairy"))
		}

		require.NotEmpty(suite.T(), p.TradeOffs)
		found := false
		for _, note := range p.TradeOffs {
			if strings.Contains(note, "dairy") && strings.Contains(note, "comfort food") {
				found = true
			}
		}
		assert.True(suite.T(), found, "trade-offs should name the sacrificed emphasis: %v", p.TradeOffs)
	})
}

func (suite *OptimizerTestSuite) TestCancellation() {
	suite.Run("CancelledContext_ShouldAbortGeneration", func() {
		factory := testutils.NewCorpusFactory(11)
		candidates := factory.Candidates(30, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p, err := suite.optimizer(candidates).Generate(ctx, Request{
			UserID: uuid.New(),
			Days:   7,
			Set:    &constraint.Set{},
		})

		assert.Nil(suite.T(), p)
		assert.Error(suite.T(), err)
	})
}

func TestOptimizerTestSuite(t *testing.T) {
	suite.Run(t, new(OptimizerTestSuite))
}
