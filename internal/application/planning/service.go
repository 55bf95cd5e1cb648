// Package planning provides the application layer for plan generation and
// meal rating intake.
package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/goalplate/v1/internal/application/feedback"
	"github.com/goalplate/v1/internal/domain/plan"
	"github.com/goalplate/v1/internal/ports/inbound"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/goalplate/v1/pkg/errors"
	"go.uber.org/zap"
)

// Plan length limits. Scoring cost grows linearly with days; anything past
// two weeks belongs in an offloaded task, not a synchronous request.
const (
	MinDays = 1
	MaxDays = 14
)

// Config tunes plan generation. Zero values fall back to the package
// limits, so DefaultConfig is safe for tests and local wiring.
type Config struct {
	MaxDays         int
	CandidateLimit  int
	GenerateTimeout time.Duration
}

// DefaultConfig returns the limits used when no operator overrides apply.
func DefaultConfig() Config {
	return Config{MaxDays: MaxDays}
}

// Service implements the plan use cases
type Service struct {
	goalService inbound.GoalService
	corpus      outbound.RecipeCorpus
	optimizer   *plan.Optimizer
	learner     *feedback.Learner
	cfg         Config
	logger      *zap.Logger
}

// NewService creates a new plan service
func NewService(
	goalService inbound.GoalService,
	corpus outbound.RecipeCorpus,
	optimizer *plan.Optimizer,
	learner *feedback.Learner,
	cfg Config,
	logger *zap.Logger,
) inbound.PlanService {
	if cfg.MaxDays < MinDays {
		cfg.MaxDays = MaxDays
	}
	return &Service{
		goalService: goalService,
		corpus:      corpus,
		optimizer:   optimizer,
		learner:     learner,
		cfg:         cfg,
		logger:      logger.Named("plan-service"),
	}
}

// GeneratePlan resolves the user's merged constraints and runs the
// optimizer. The request context flows through so a disconnected caller
// cancels scoring between slots.
func (s *Service) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*plan.MealPlan, error) {
	if cmd.Days < MinDays || cmd.Days > s.cfg.MaxDays {
		return nil, errors.NewValidationError(fmt.Sprintf("days must be between %d and %d", MinDays, s.cfg.MaxDays))
	}

	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	set, err := s.goalService.MergedConstraints(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	active, err := s.goalService.ActiveGoals(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]plan.GoalView, len(active))
	for i, g := range active {
		views[i] = plan.GoalView{
			ID:            g.ID,
			Name:          g.Name,
			Priority:      g.Priority,
			Fragment:      g.Constraints,
			TrackAndLearn: g.TrackAndLearn,
		}
	}

	s.logger.Info("Generating plan",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("days", cmd.Days),
		zap.Int("active_goals", len(views)),
		zap.Int("excluded_recipes", len(cmd.ExcludeRecipeIDs)),
	)

	generated, err := s.optimizer.Generate(ctx, plan.Request{
		UserID:           cmd.UserID,
		Days:             cmd.Days,
		Set:              set,
		Goals:            views,
		ExcludeRecipeIDs: cmd.ExcludeRecipeIDs,
		CandidateLimit:   s.cfg.CandidateLimit,
	})
	if err != nil && !errors.Is(err, errors.CodePartialPlan) {
		return nil, err
	}

	// A partial plan travels with its error so the caller sees both the
	// best effort and the explicit gaps.
	return generated, err
}

// SubmitRating routes a rating event to the feedback learner for every
// active custom goal. Learner failures never propagate.
func (s *Service) SubmitRating(ctx context.Context, cmd inbound.SubmitRatingCommand) error {
	if cmd.Rating < feedback.MinRating || cmd.Rating > feedback.MaxRating {
		return errors.NewValidationError("rating must be between 1 and 5")
	}

	rated, err := s.corpus.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}

	active, err := s.goalService.ActiveGoals(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	learned := false
	for _, g := range active {
		if g.Kind != "custom" {
			continue
		}
		if err := s.learner.RecordRating(ctx, cmd.UserID, g.CustomLabel, rated.Tags, cmd.Rating); err != nil {
			s.logger.Warn("feedback learning failed; rating dropped",
				zap.String("user_id", cmd.UserID.String()),
				zap.String("label", g.CustomLabel),
				zap.String("recipe_id", cmd.RecipeID.String()),
				zap.Error(err),
			)
			continue
		}
		learned = true
	}

	// New weights feed the next merge, so the cached set is stale now.
	if learned {
		if err := s.goalService.InvalidateConstraints(ctx, cmd.UserID); err != nil {
			s.logger.Warn("constraint invalidation after learning failed",
				zap.String("user_id", cmd.UserID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}
