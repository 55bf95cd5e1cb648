package inbound

import (
	"context"

	"github.com/goalplate/v1/internal/domain/plan"
	"github.com/google/uuid"
)

// PlanService defines the plan generation and rating use cases.
type PlanService interface {
	// GeneratePlan builds a multi-day plan for the user's active goals.
	// On a PARTIAL_PLAN error the best-effort plan is returned alongside
	// the error with its unfilled slots listed explicitly.
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (*plan.MealPlan, error)

	// SubmitRating routes a meal rating to the feedback learner.
	// Learner failures are logged and swallowed, never surfaced here.
	SubmitRating(ctx context.Context, cmd SubmitRatingCommand) error
}

// GeneratePlanCommand parameterizes one plan request.
type GeneratePlanCommand struct {
	UserID           uuid.UUID
	Days             int
	ExcludeRecipeIDs []uuid.UUID
}

// SubmitRatingCommand carries one meal rating event.
type SubmitRatingCommand struct {
	UserID   uuid.UUID
	RecipeID uuid.UUID
	Rating   int // 1..5
}
