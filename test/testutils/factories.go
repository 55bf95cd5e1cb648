// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/goal"
	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/google/uuid"
)

// CandidateBuilder provides a fluent interface for building test recipe candidates
type CandidateBuilder struct {
	id        uuid.UUID
	name      string
	cost      float64
	prep      int
	nutrients map[string]float64
	tags      []string
}

// NewCandidateBuilder creates a candidate builder with plausible defaults
func NewCandidateBuilder() *CandidateBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &CandidateBuilder{
		id:   uuid.New(),
		name: faker.Dinner(),
		cost: 3.50,
		prep: 25,
		nutrients: map[string]float64{
			recipe.NutrientCalories: 500,
			recipe.NutrientProteinG: 30,
			recipe.NutrientFiberG:   6,
		},
		tags: []string{"dinner"},
	}
}

// WithID sets the candidate id
func (b *CandidateBuilder) WithID(id uuid.UUID) *CandidateBuilder {
	b.id = id
	return b
}

// WithName sets the candidate name
func (b *CandidateBuilder) WithName(name string) *CandidateBuilder {
	b.name = name
	return b
}

// WithCost sets the cost per serving
func (b *CandidateBuilder) WithCost(cost float64) *CandidateBuilder {
	b.cost = cost
	return b
}

// WithPrepMinutes sets the prep time
func (b *CandidateBuilder) WithPrepMinutes(prep int) *CandidateBuilder {
	b.prep = prep
	return b
}

// WithNutrient sets one nutrient value
func (b *CandidateBuilder) WithNutrient(name string, value float64) *CandidateBuilder {
	b.nutrients[name] = value
	return b
}

// WithTags replaces the tag list
func (b *CandidateBuilder) WithTags(tags ...string) *CandidateBuilder {
	b.tags = tags
	return b
}

// Build creates the candidate
func (b *CandidateBuilder) Build() recipe.Candidate {
	nutrients := make(map[string]float64, len(b.nutrients))
	for k, v := range b.nutrients {
		nutrients[k] = v
	}
	return recipe.Candidate{
		ID:             b.id,
		Name:           b.name,
		CostPerServing: b.cost,
		PrepMinutes:    b.prep,
		Nutrients:      nutrients,
		Tags:           append([]string{}, b.tags...),
	}
}

// CorpusFactory generates randomized candidate pools for property-style tests
type CorpusFactory struct {
	faker *gofakeit.Faker
}

// NewCorpusFactory creates a corpus factory with a seeded faker
func NewCorpusFactory(seed int64) *CorpusFactory {
	return &CorpusFactory{faker: gofakeit.New(seed)}
}

// Candidates generates n candidates drawing tags from the given pool
func (f *CorpusFactory) Candidates(n int, tagPool []string) []recipe.Candidate {
	out := make([]recipe.Candidate, 0, n)
	for i := 0; i < n; i++ {
		tagCount := f.faker.Number(0, 3)
		tags := make([]string, 0, tagCount)
		for j := 0; j < tagCount && len(tagPool) > 0; j++ {
			tags = append(tags, tagPool[f.faker.Number(0, len(tagPool)-1)])
		}
		out = append(out, recipe.Candidate{
			ID:             uuid.New(),
			Name:           f.faker.Dinner(),
			CostPerServing: float64(f.faker.Number(150, 1200)) / 100,
			PrepMinutes:    f.faker.Number(5, 90),
			Nutrients: map[string]float64{
				recipe.NutrientCalories: float64(f.faker.Number(250, 900)),
				recipe.NutrientProteinG: float64(f.faker.Number(5, 60)),
				recipe.NutrientFiberG:   float64(f.faker.Number(1, 15)),
			},
			Tags: tags,
		})
	}
	return out
}

// GoalBuilder provides a fluent interface for building test goals
type GoalBuilder struct {
	userID   uuid.UUID
	kind     goal.Kind
	priority int
	fragment constraint.Fragment
	track    bool
}

// NewGoalBuilder creates a goal builder defaulting to a budget goal
func NewGoalBuilder() *GoalBuilder {
	return &GoalBuilder{
		userID:   uuid.New(),
		kind:     goal.StandardKind(goal.TypeBudget),
		priority: goal.DefaultPriority,
		fragment: constraint.Fragment{
			Bounds: map[constraint.Dimension]float64{
				constraint.DimMaxCostPerMeal: 4.50,
			},
		},
	}
}

// ForUser sets the owning user
func (b *GoalBuilder) ForUser(userID uuid.UUID) *GoalBuilder {
	b.userID = userID
	return b
}

// WithKind sets the goal kind
func (b *GoalBuilder) WithKind(k goal.Kind) *GoalBuilder {
	b.kind = k
	return b
}

// WithPriority sets the priority
func (b *GoalBuilder) WithPriority(priority int) *GoalBuilder {
	b.priority = priority
	return b
}

// WithFragment sets the constraint fragment
func (b *GoalBuilder) WithFragment(f constraint.Fragment) *GoalBuilder {
	b.fragment = f
	return b
}

// WithTrackAndLearn marks the goal as feedback-driven
func (b *GoalBuilder) WithTrackAndLearn() *GoalBuilder {
	b.track = true
	return b
}

// Build creates the goal, panicking on invalid builder state so tests
// fail loudly at the setup line.
func (b *GoalBuilder) Build() *goal.Goal {
	g, err := goal.NewGoal(b.userID, b.kind, b.priority, b.fragment, b.track)
	if err != nil {
		panic(err)
	}
	return g
}
