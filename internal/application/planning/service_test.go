package planning

import (
	"context"
	"testing"

	"github.com/goalplate/v1/internal/application/feedback"
	"github.com/goalplate/v1/internal/application/goals"
	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/plan"
	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/goalplate/v1/internal/infrastructure/persistence/memory"
	"github.com/goalplate/v1/internal/ports/inbound"
	"github.com/goalplate/v1/pkg/errors"
	"github.com/goalplate/v1/pkg/logger"
	"github.com/goalplate/v1/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// PlanServiceTestSuite provides a test suite for the plan use cases
type PlanServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	corpus      *memory.RecipeCorpus
	weights     *memory.ProxyWeightStore
	profile     *memory.ProfileService
	goalService inbound.GoalService
	service     inbound.PlanService
	userID      uuid.UUID
}

func (suite *PlanServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	log := logger.NewNop()

	suite.corpus = memory.NewRecipeCorpusFrom(suite.seedCandidates())
	suite.weights = memory.NewProxyWeightStore()
	suite.profile = memory.NewProfileService()
	suite.goalService = goals.NewService(
		memory.NewGoalRepository(),
		memory.NewConstraintCache(),
		suite.profile,
		suite.weights,
		goals.DefaultConfig(),
		log,
	)
	suite.service = NewService(
		suite.goalService,
		suite.corpus,
		plan.NewOptimizer(suite.corpus, log),
		feedback.NewLearner(suite.weights, log),
		DefaultConfig(),
		log,
	)
	suite.userID = uuid.New()
}

func (suite *PlanServiceTestSuite) seedCandidates() []recipe.Candidate {
	factory := testutils.NewCorpusFactory(23)
	return factory.Candidates(40, []string{"legume", "omega-3", "whole grain", "fried", "meat"})
}

func (suite *PlanServiceTestSuite) addGoal(text string, priority int) inbound.GoalDTO {
	dto, err := suite.goalService.AddGoal(suite.ctx, inbound.AddGoalCommand{
		UserID:   suite.userID,
		GoalText: text,
		Priority: &priority,
	})
	require.NoError(suite.T(), err)
	return *dto
}

func (suite *PlanServiceTestSuite) TestGeneratePlan() {
	suite.Run("DaysOutOfRange_ShouldFailValidation", func() {
		for _, days := range []int{0, -1, 15} {
			_, err := suite.service.GeneratePlan(suite.ctx, inbound.GeneratePlanCommand{
				UserID: suite.userID,
				Days:   days,
			})
			require.Error(suite.T(), err)
			assert.Equal(suite.T(), errors.CodeValidationFailed, errors.GetCode(err))
		}
	})

	suite.Run("ConfiguredMaxDays_ShouldBoundRequests", func() {
		log := logger.NewNop()
		bounded := NewService(
			suite.goalService,
			suite.corpus,
			plan.NewOptimizer(suite.corpus, log),
			feedback.NewLearner(suite.weights, log),
			Config{MaxDays: 2},
			log,
		)

		_, err := bounded.GeneratePlan(suite.ctx, inbound.GeneratePlanCommand{
			UserID: suite.userID,
			Days:   3,
		})

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodeValidationFailed, errors.GetCode(err))
	})

	suite.Run("ActiveGoals_ShouldAllReceiveReports", func() {
		suite.addGoal("save money", 3)
		suite.addGoal("build muscle", 2)

		p, err := suite.service.GeneratePlan(suite.ctx, inbound.GeneratePlanCommand{
			UserID: suite.userID,
			Days:   3,
		})

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), p)
		assert.Len(suite.T(), p.Days, 3)
		assert.Equal(suite.T(), 9, p.MealCount())

		require.Len(suite.T(), p.Reports, 2)
		names := []string{p.Reports[0].Name, p.Reports[1].Name}
		assert.Contains(suite.T(), names, "budget")
		assert.Contains(suite.T(), names, "muscle gain")
	})

	suite.Run("ProfileAllergy_ShouldExcludeTaggedRecipes", func() {
		suite.profile.SetHardRestrictions(suite.userID, constraint.HardRestrictions{
			Allergies: []string{"meat"},
		})

		p, err := suite.service.GeneratePlan(suite.ctx, inbound.GeneratePlanCommand{
			UserID: suite.userID,
			Days:   5,
		})

		require.NotNil(suite.T(), p)
		if err != nil {
			assert.Equal(suite.T(), errors.CodePartialPlan, errors.GetCode(err))
		}
		for _, c := range p.Recipes() {
			assert.False(suite.T(), c.HasTag("meat"))
		}
	})

	suite.Run("ExcludedRecipes_ShouldNotReappear", func() {
		first, err := suite.service.GeneratePlan(suite.ctx, inbound.GeneratePlanCommand{
			UserID: suite.userID,
			Days:   1,
		})
		require.NoError(suite.T(), err)

		var exclude []uuid.UUID
		for _, c := range first.Recipes() {
			exclude = append(exclude, c.ID)
		}

		second, err := suite.service.GeneratePlan(suite.ctx, inbound.GeneratePlanCommand{
			UserID:           suite.userID,
			Days:             1,
			ExcludeRecipeIDs: exclude,
		})
		require.NoError(suite.T(), err)

		for _, c := range second.Recipes() {
			assert.NotContains(suite.T(), exclude, c.ID)
		}
	})
}

func (suite *PlanServiceTestSuite) TestSubmitRating() {
	suite.Run("InvalidRating_ShouldFailValidation", func() {
		err := suite.service.SubmitRating(suite.ctx, inbound.SubmitRatingCommand{
			UserID:   suite.userID,
			RecipeID: uuid.New(),
			Rating:   6,
		})

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodeValidationFailed, errors.GetCode(err))
	})

	suite.Run("UnknownRecipe_ShouldReturnNotFound", func() {
		err := suite.service.SubmitRating(suite.ctx, inbound.SubmitRatingCommand{
			UserID:   suite.userID,
			RecipeID: uuid.New(),
			Rating:   4,
		})

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), errors.CodeRecipeNotFound, errors.GetCode(err))
	})

	suite.Run("CustomGoalRating_ShouldAdjustProxyWeights", func() {
		dto := suite.addGoal("mindful eating", 2)
		require.True(suite.T(), dto.TrackAndLearn)

		rated := testutils.NewCandidateBuilder().WithTags("legume", "whole grain").Build()
		suite.corpus.Add(rated)

		err := suite.service.SubmitRating(suite.ctx, inbound.SubmitRatingCommand{
			UserID:   suite.userID,
			RecipeID: rated.ID,
			Rating:   5,
		})

		require.NoError(suite.T(), err)
		weights, err := suite.weights.Weights(suite.ctx, suite.userID, "mindful eating")
		require.NoError(suite.T(), err)
		assert.Greater(suite.T(), weights["legume"], 1.0)
		assert.Greater(suite.T(), weights["whole grain"], 1.0)
	})

	suite.Run("StandardGoalsOnly_ShouldLeaveWeightsUntouched", func() {
		suite.userID = uuid.New()
		suite.addGoal("save money", 3)

		rated := testutils.NewCandidateBuilder().WithTags("legume").Build()
		suite.corpus.Add(rated)

		err := suite.service.SubmitRating(suite.ctx, inbound.SubmitRatingCommand{
			UserID:   suite.userID,
			RecipeID: rated.ID,
			Rating:   5,
		})

		require.NoError(suite.T(), err)
		weights, err := suite.weights.Weights(suite.ctx, suite.userID, "save money")
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), weights)
	})
}

func TestPlanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlanServiceTestSuite))
}
