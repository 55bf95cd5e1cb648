package goal

import (
	"testing"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// GoalTestSuite provides a test suite for the Goal aggregate
type GoalTestSuite struct {
	suite.Suite
}

func (suite *GoalTestSuite) TestGoalCreation() {
	suite.Run("ValidStandardGoal_ShouldCreateSuccessfully", func() {
		// Arrange
		userID := uuid.New()
		kind := StandardKind(TypeBudget)
		fragment := StandardTemplate(TypeBudget)

		// Act
		g, err := NewGoal(userID, kind, 3, fragment, false)

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), g)

		assert.NotEqual(suite.T(), uuid.Nil, g.ID())
		assert.Equal(suite.T(), userID, g.UserID())
		assert.Equal(suite.T(), 3, g.Priority())
		assert.False(suite.T(), g.Kind().IsCustom())
		assert.Equal(suite.T(), int64(1), g.Version())
		assert.NotZero(suite.T(), g.CreatedAt())

		events := g.Events()
		require.Len(suite.T(), events, 1)
		added, ok := events[0].(GoalAddedEvent)
		assert.True(suite.T(), ok, "Should emit GoalAddedEvent")
		assert.Equal(suite.T(), g.ID(), added.GoalID)
		assert.Equal(suite.T(), "standard:budget", added.Identity)
	})

	suite.Run("PriorityBelowRange_ShouldReturnError", func() {
		g, err := NewGoal(uuid.New(), StandardKind(TypeBudget), 0, constraint.Fragment{}, false)

		assert.Nil(suite.T(), g)
		assert.Equal(suite.T(), ErrPriorityOutOfRange, err)
	})

	suite.Run("PriorityAboveRange_ShouldReturnError", func() {
		g, err := NewGoal(uuid.New(), StandardKind(TypeBudget), 5, constraint.Fragment{}, false)

		assert.Nil(suite.T(), g)
		assert.Equal(suite.T(), ErrPriorityOutOfRange, err)
	})

	suite.Run("EmptyCustomLabel_ShouldReturnError", func() {
		g, err := NewGoal(uuid.New(), CustomKind("   "), 2, constraint.Fragment{}, true)

		assert.Nil(suite.T(), g)
		assert.Equal(suite.T(), ErrEmptyCustomLabel, err)
	})

	suite.Run("CustomGoal_ShouldNormalizeLabel", func() {
		g, err := NewGoal(uuid.New(), CustomKind("  Skin   HEALTH "), 2, constraint.Fragment{}, true)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "skin health", g.Kind().Label())
		assert.Equal(suite.T(), "custom:skin health", g.Kind().Identity())
		assert.True(suite.T(), g.TrackAndLearn())
	})
}

func (suite *GoalTestSuite) TestReprioritize() {
	suite.Run("ValidPriority_ShouldBumpVersion", func() {
		g, err := NewGoal(uuid.New(), StandardKind(TypeQuickMeals), 2, StandardTemplate(TypeQuickMeals), false)
		require.NoError(suite.T(), err)
		g.Events() // drain creation event

		err = g.Reprioritize(4)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 4, g.Priority())
		assert.Equal(suite.T(), int64(2), g.Version())

		events := g.Events()
		require.Len(suite.T(), events, 1)
		repri, ok := events[0].(GoalReprioritizedEvent)
		assert.True(suite.T(), ok, "Should emit GoalReprioritizedEvent")
		assert.Equal(suite.T(), 2, repri.OldPriority)
		assert.Equal(suite.T(), 4, repri.NewPriority)
	})

	suite.Run("InvalidPriority_ShouldNotMutate", func() {
		g, err := NewGoal(uuid.New(), StandardKind(TypeQuickMeals), 2, StandardTemplate(TypeQuickMeals), false)
		require.NoError(suite.T(), err)

		err = g.Reprioritize(9)

		assert.Equal(suite.T(), ErrPriorityOutOfRange, err)
		assert.Equal(suite.T(), 2, g.Priority())
		assert.Equal(suite.T(), int64(1), g.Version())
	})
}

func (suite *GoalTestSuite) TestRemove() {
	suite.Run("ShouldEmitRemovalEvent", func() {
		g, err := NewGoal(uuid.New(), StandardKind(TypeBudget), 2, StandardTemplate(TypeBudget), false)
		require.NoError(suite.T(), err)
		g.Events() // drain creation event

		g.Remove()

		events := g.Events()
		require.Len(suite.T(), events, 1)
		removed, ok := events[0].(GoalRemovedEvent)
		assert.True(suite.T(), ok, "Should emit GoalRemovedEvent")
		assert.Equal(suite.T(), g.ID(), removed.GoalID)
		assert.Equal(suite.T(), "goal.removed", removed.EventName())
	})
}

func (suite *GoalTestSuite) TestMergeInput() {
	suite.Run("ShouldCarryNamePriorityAndClonedFragment", func() {
		fragment := constraint.Fragment{
			Bounds: map[constraint.Dimension]float64{constraint.DimMaxCostPerMeal: 4.50},
		}
		g, err := NewGoal(uuid.New(), StandardKind(TypeBudget), 4, fragment, false)
		require.NoError(suite.T(), err)

		input := g.MergeInput()

		assert.Equal(suite.T(), g.ID(), input.ID)
		assert.Equal(suite.T(), "budget", input.Name)
		assert.Equal(suite.T(), 4, input.Priority)
		assert.Equal(suite.T(), g.CreatedAt(), input.CreatedAt)

		// Mutating the returned fragment must not touch the aggregate.
		input.Fragment.Bounds[constraint.DimMaxCostPerMeal] = 1.00
		v, _ := g.Constraints().Bound(constraint.DimMaxCostPerMeal)
		assert.Equal(suite.T(), 4.50, v)
	})
}

func (suite *GoalTestSuite) TestKindIdentity() {
	suite.Run("StandardAndCustom_ShouldHaveDistinctIdentities", func() {
		std := StandardKind(TypeHighFiber)
		custom := CustomKind("high fiber")

		assert.Equal(suite.T(), "standard:high_fiber", std.Identity())
		assert.Equal(suite.T(), "custom:high fiber", custom.Identity())
		assert.NotEqual(suite.T(), std.Identity(), custom.Identity())
	})

	suite.Run("Name_ShouldHumanizeStandardTypes", func() {
		assert.Equal(suite.T(), "muscle gain", StandardKind(TypeMuscleGain).Name())
		assert.Equal(suite.T(), "skin health", CustomKind("Skin Health").Name())
	})
}

func TestGoalTestSuite(t *testing.T) {
	suite.Run(t, new(GoalTestSuite))
}
