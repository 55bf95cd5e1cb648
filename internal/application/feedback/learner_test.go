package feedback

import (
	"context"
	"testing"

	"github.com/goalplate/v1/internal/infrastructure/persistence/memory"
	"github.com/goalplate/v1/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LearnerTestSuite provides a test suite for the feedback learner
type LearnerTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.ProxyWeightStore
	learner *Learner
	userID  uuid.UUID
}

func (suite *LearnerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewProxyWeightStore()
	suite.learner = NewLearner(suite.store, logger.NewNop())
	suite.userID = uuid.New()
}

func (suite *LearnerTestSuite) weight(label, tag string) float64 {
	weights, err := suite.store.Weights(suite.ctx, suite.userID, label)
	require.NoError(suite.T(), err)
	return weights[tag]
}

func (suite *LearnerTestSuite) TestRecordRating() {
	suite.Run("PositiveRating_ShouldPullWeightsAboveBaseline", func() {
		err := suite.learner.RecordRating(suite.ctx, suite.userID, "mindful eating", []string{"legume"}, 5)

		require.NoError(suite.T(), err)
		// One step of EMA from baseline toward 2.0.
		assert.InDelta(suite.T(), 1.3, suite.weight("mindful eating", "legume"), 0.0001)
	})

	suite.Run("NegativeRating_ShouldPullWeightsBelowBaseline", func() {
		err := suite.learner.RecordRating(suite.ctx, suite.userID, "mindful eating", []string{"fried"}, 1)

		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), 0.7, suite.weight("mindful eating", "fried"), 0.0001)
	})

	suite.Run("NeutralRating_ShouldLeaveBaselineUnchanged", func() {
		err := suite.learner.RecordRating(suite.ctx, suite.userID, "mindful eating", []string{"grain"}, 3)

		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), Baseline, suite.weight("mindful eating", "grain"), 0.0001)
	})

	suite.Run("RepeatedFives_ShouldStayClampedBelowMaxWeight", func() {
		for i := 0; i < 50; i++ {
			require.NoError(suite.T(),
				suite.learner.RecordRating(suite.ctx, suite.userID, "mindful eating", []string{"legume"}, 5))
		}

		w := suite.weight("mindful eating", "legume")
		assert.LessOrEqual(suite.T(), w, MaxWeight)
		assert.Greater(suite.T(), w, 1.9, "repeated praise converges toward the target")
	})

	suite.Run("RepeatedOnes_ShouldStayClampedAboveMinWeight", func() {
		for i := 0; i < 50; i++ {
			require.NoError(suite.T(),
				suite.learner.RecordRating(suite.ctx, suite.userID, "mindful eating", []string{"fried"}, 1))
		}

		w := suite.weight("mindful eating", "fried")
		assert.GreaterOrEqual(suite.T(), w, MinWeight)
		assert.Less(suite.T(), w, 0.1+MinWeight)
	})

	suite.Run("OutOfRangeRating_ShouldClampInsteadOfFail", func() {
		err := suite.learner.RecordRating(suite.ctx, suite.userID, "mindful eating", []string{"kale"}, 17)

		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), 1.3, suite.weight("mindful eating", "kale"), 0.0001)
	})

	suite.Run("TagsNormalize_BeforeWeighting", func() {
		err := suite.learner.RecordRating(suite.ctx, suite.userID, "mindful eating", []string{"  Whole   Grain "}, 5)

		require.NoError(suite.T(), err)
		assert.Greater(suite.T(), suite.weight("mindful eating", "whole grain"), Baseline)
	})
}

func TestLearnerTestSuite(t *testing.T) {
	suite.Run(t, new(LearnerTestSuite))
}
