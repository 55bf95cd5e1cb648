package constraint

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MergerTestSuite provides a test suite for constraint merging
type MergerTestSuite struct {
	suite.Suite
	base time.Time
}

func (suite *MergerTestSuite) SetupSuite() {
	suite.base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *MergerTestSuite) goalInput(name string, priority int, ageOffset time.Duration, f Fragment) GoalInput {
	return GoalInput{
		ID:        uuid.New(),
		Name:      name,
		Priority:  priority,
		CreatedAt: suite.base.Add(ageOffset),
		Fragment:  f,
	}
}

func (suite *MergerTestSuite) TestUpperBounds() {
	suite.Run("TightestValueWins_RegardlessOfPriority", func() {
		// Arrange: the low-priority goal demands the tighter cap.
		strict := suite.goalInput("budget", 1, 0, Fragment{
			Bounds: map[Dimension]float64{DimMaxCostPerMeal: 3.00},
		})
		loose := suite.goalInput("comfort", 4, time.Hour, Fragment{
			Bounds: map[Dimension]float64{DimMaxCostPerMeal: 8.00},
		})

		// Act
		set := Merge([]GoalInput{loose, strict}, HardRestrictions{})

		// Assert
		rb := set.Bounds[DimMaxCostPerMeal]
		assert.Equal(suite.T(), 3.00, rb.Value)
		assert.Equal(suite.T(), "budget", rb.Owner)

		require.Len(suite.T(), set.Conflicts, 1)
		c := set.Conflicts[0]
		assert.Equal(suite.T(), ConflictBound, c.Kind)
		assert.Equal(suite.T(), string(DimMaxCostPerMeal), c.Subject)
		assert.Equal(suite.T(), "budget", c.Winner)
		assert.Equal(suite.T(), "comfort", c.Loser)
		assert.Equal(suite.T(), 8.00, c.LoserValue)
	})

	suite.Run("EqualValues_AttributedToHigherPriority", func() {
		a := suite.goalInput("quick meals", 2, 0, Fragment{
			Bounds: map[Dimension]float64{DimMaxPrepMinutes: 20},
		})
		b := suite.goalInput("weeknight cooking", 4, time.Hour, Fragment{
			Bounds: map[Dimension]float64{DimMaxPrepMinutes: 20},
		})

		set := Merge([]GoalInput{a, b}, HardRestrictions{})

		assert.Equal(suite.T(), "weeknight cooking", set.Bounds[DimMaxPrepMinutes].Owner)
		assert.Empty(suite.T(), set.Conflicts, "equal values are agreement, not conflict")
	})
}

func (suite *MergerTestSuite) TestLowerBounds() {
	suite.Run("MostDemandingValueWins", func() {
		modest := suite.goalInput("maintenance", 4, 0, Fragment{
			Bounds: map[Dimension]float64{DimMinProteinG: 90},
		})
		demanding := suite.goalInput("muscle gain", 2, time.Hour, Fragment{
			Bounds: map[Dimension]float64{DimMinProteinG: 140},
		})

		set := Merge([]GoalInput{modest, demanding}, HardRestrictions{})

		rb := set.Bounds[DimMinProteinG]
		assert.Equal(suite.T(), 140.0, rb.Value)
		assert.Equal(suite.T(), "muscle gain", rb.Owner)
		require.Len(suite.T(), set.Conflicts, 1)
		assert.Equal(suite.T(), "maintenance", set.Conflicts[0].Loser)
	})
}

func (suite *MergerTestSuite) TestHardExclusions() {
	suite.Run("ProfileAndHardGoals_ShouldUnion", func() {
		vegan := suite.goalInput("vegan", 3, 0, Fragment{
			AvoidedFoods: []string{"Meat", "dairy"},
			Hard:         true,
		})
		soft := suite.goalInput("heart health", 4, time.Hour, Fragment{
			AvoidedFoods: []string{"fried"},
		})

		set := Merge([]GoalInput{vegan, soft}, HardRestrictions{
			Allergies: []string{"Peanuts"},
		})

		assert.Equal(suite.T(), []string{"dairy", "meat", "peanuts"}, set.HardExcludedItems())
		assert.Equal(suite.T(), []string{"fried"}, set.AvoidedFoods, "soft avoids stay soft")
	})

	suite.Run("SharedExclusion_ShouldRecordAllSources", func() {
		vegan := suite.goalInput("vegan", 3, 0, Fragment{
			AvoidedFoods: []string{"dairy"},
			Hard:         true,
		})

		set := Merge([]GoalInput{vegan}, HardRestrictions{
			DietExclusions: []string{"dairy"},
		})

		require.Len(suite.T(), set.HardExclusions, 1)
		assert.Equal(suite.T(), []string{ProfileSource, "vegan"}, set.HardExclusions[0].Sources)
	})

	suite.Run("ProfileExcludedItems_ShouldMirrorRestrictionItems", func() {
		vegan := suite.goalInput("vegan", 3, 0, Fragment{
			AvoidedFoods: []string{"meat"},
			Hard:         true,
		})
		restrictions := HardRestrictions{
			Allergies:      []string{" Peanuts ", "shellfish", "peanuts"},
			DietExclusions: []string{"Dairy"},
		}

		set := Merge([]GoalInput{vegan}, restrictions)

		want := []string{"dairy", "peanuts", "shellfish"}
		assert.Equal(suite.T(), want, restrictions.Items())
		assert.Equal(suite.T(), want, set.ProfileExcludedItems(),
			"goal-sourced exclusions must not leak into the profile view")
	})
}

func (suite *MergerTestSuite) TestWeightedSets() {
	suite.Run("EmphasisWeight_ShouldSumContributingPriorities", func() {
		heart := suite.goalInput("heart health", 3, 0, Fragment{
			EmphasizedFoods: []string{"omega-3"},
		})
		brain := suite.goalInput("brain health", 2, time.Hour, Fragment{
			EmphasizedFoods: []string{"Omega-3", "berries"},
		})

		set := Merge([]GoalInput{heart, brain}, HardRestrictions{})

		assert.Equal(suite.T(), 5, set.EmphasisWeight("omega-3"))
		assert.Equal(suite.T(), 2, set.EmphasisWeight("berries"))
		assert.Equal(suite.T(), 0, set.EmphasisWeight("kale"))
	})

	suite.Run("RequiredNutrients_ShouldUnionWithWeights", func() {
		a := suite.goalInput("skin health", 2, 0, Fragment{
			RequiredNutrients: []string{"vitamin c"},
		})
		b := suite.goalInput("immune support", 3, time.Hour, Fragment{
			RequiredNutrients: []string{"vitamin c", "zinc"},
		})

		set := Merge([]GoalInput{a, b}, HardRestrictions{})

		require.Len(suite.T(), set.RequiredNutrients, 2)
		assert.Equal(suite.T(), WeightedItem{Item: "vitamin c", Weight: 5}, set.RequiredNutrients[0])
		assert.Equal(suite.T(), WeightedItem{Item: "zinc", Weight: 3}, set.RequiredNutrients[1])
	})
}

func (suite *MergerTestSuite) TestEmphasisVersusHardExclusion() {
	suite.Run("HardExclusionDropsEmphasis_AndRecordsConflict", func() {
		// An allergy bans the very food another goal emphasizes. The
		// exclusion wins no matter how the priorities compare.
		muscle := suite.goalInput("muscle gain", 4, 0, Fragment{
			EmphasizedFoods: []string{"salmon"},
		})
		allergy := suite.goalInput("fish allergy", 1, time.Hour, Fragment{
			AvoidedFoods: []string{"salmon"},
			Hard:         true,
		})

		set := Merge([]GoalInput{muscle, allergy}, HardRestrictions{})

		assert.Equal(suite.T(), 0, set.EmphasisWeight("salmon"))
		assert.Empty(suite.T(), set.EmphasizedFoods)

		require.Len(suite.T(), set.Conflicts, 1)
		c := set.Conflicts[0]
		assert.Equal(suite.T(), ConflictEmphasisExcluded, c.Kind)
		assert.Equal(suite.T(), "salmon", c.Subject)
		assert.Equal(suite.T(), "fish allergy", c.Winner)
		assert.Equal(suite.T(), "muscle gain", c.Loser)
	})
}

func (suite *MergerTestSuite) TestEmptyAndSingleInputs() {
	suite.Run("NoGoalsNoProfile_ShouldYieldEmptySet", func() {
		set := Merge(nil, HardRestrictions{})

		assert.True(suite.T(), set.IsEmpty())
	})

	suite.Run("ProfileOnly_ShouldStillExcludeAllergens", func() {
		set := Merge(nil, HardRestrictions{Allergies: []string{"shellfish"}})

		assert.False(suite.T(), set.IsEmpty())
		assert.Equal(suite.T(), []string{"shellfish"}, set.HardExcludedItems())
		assert.Equal(suite.T(), []string{ProfileSource}, set.HardSources())
	})
}

func (suite *MergerTestSuite) TestDeterminism() {
	suite.Run("ShuffledInputOrder_ShouldEncodeIdentically", func() {
		goals := []GoalInput{
			suite.goalInput("budget", 4, 0, Fragment{
				Bounds: map[Dimension]float64{DimMaxCostPerMeal: 4.00},
			}),
			suite.goalInput("muscle gain", 3, time.Minute, Fragment{
				Bounds:          map[Dimension]float64{DimMinProteinG: 140},
				EmphasizedFoods: []string{"lean protein"},
			}),
			suite.goalInput("heart health", 2, 2*time.Minute, Fragment{
				EmphasizedFoods:   []string{"omega-3", "whole grain"},
				AvoidedFoods:      []string{"processed meat"},
				RequiredNutrients: []string{"potassium"},
			}),
			suite.goalInput("vegan", 1, 3*time.Minute, Fragment{
				AvoidedFoods: []string{"meat", "dairy"},
				Hard:         true,
			}),
		}
		profile := HardRestrictions{Allergies: []string{"peanuts"}}

		reference, err := Merge(goals, profile).Encode()
		require.NoError(suite.T(), err)

		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 20; i++ {
			shuffled := make([]GoalInput, len(goals))
			copy(shuffled, goals)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})

			encoded, err := Merge(shuffled, profile).Encode()
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), reference, encoded, "shuffle %d produced a different encoding", i)
		}
	})
}

func TestMergerTestSuite(t *testing.T) {
	suite.Run(t, new(MergerTestSuite))
}
