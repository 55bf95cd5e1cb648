// Package goals provides the application layer for goal management: the
// interpret → proxy-map → persist pipeline, atomic priority updates, and
// the cached merged-constraint view.
package goals

import (
	"context"
	"sort"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/goal"
	"github.com/goalplate/v1/internal/ports/inbound"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/goalplate/v1/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// learnedEmphasisThreshold is the minimum learned weight at which a tag is
// promoted into a track-and-learn goal's emphasized foods.
const learnedEmphasisThreshold = 1.2

// Config tunes goal management limits.
type Config struct {
	MaxActiveGoals   int
	LearnedThreshold float64
}

// DefaultConfig returns the limits used when no operator overrides apply.
func DefaultConfig() Config {
	return Config{
		MaxActiveGoals:   goal.MaxActiveGoals,
		LearnedThreshold: learnedEmphasisThreshold,
	}
}

// Service implements the goal use cases
type Service struct {
	goals        outbound.GoalRepository
	cache        outbound.ConstraintCache
	profile      outbound.ProfileService
	proxyWeights outbound.ProxyWeightStore
	cfg          Config
	logger       *zap.Logger
}

// NewService creates a new goal service
func NewService(
	goals outbound.GoalRepository,
	cache outbound.ConstraintCache,
	profile outbound.ProfileService,
	proxyWeights outbound.ProxyWeightStore,
	cfg Config,
	logger *zap.Logger,
) inbound.GoalService {
	if cfg.MaxActiveGoals < 1 {
		cfg.MaxActiveGoals = goal.MaxActiveGoals
	}
	if cfg.LearnedThreshold <= 0 {
		cfg.LearnedThreshold = learnedEmphasisThreshold
	}
	return &Service{
		goals:        goals,
		cache:        cache,
		profile:      profile,
		proxyWeights: proxyWeights,
		cfg:          cfg,
		logger:       logger.Named("goal-service"),
	}
}

// AddGoal interprets free-text goal input and upserts the resulting goal.
// Re-adding a goal with the same identity updates its priority instead of
// duplicating it.
func (s *Service) AddGoal(ctx context.Context, cmd inbound.AddGoalCommand) (*inbound.GoalDTO, error) {
	if goal.NormalizeLabel(cmd.GoalText) == "" {
		return nil, errors.NewValidationError("goal text must not be empty")
	}

	priority := goal.DefaultPriority
	if cmd.Priority != nil {
		priority = *cmd.Priority
	}
	if err := goal.ValidatePriority(priority); err != nil {
		return nil, errors.NewInvalidPriorityError(priority, goal.MinPriority, goal.MaxPriority)
	}

	draft := goal.Interpret(cmd.GoalText)
	fragment := draft.Fragment
	trackAndLearn := false
	if draft.Kind.IsCustom() {
		mapped, ok := goal.MapProxy(draft.Kind.Label())
		fragment = mapped
		trackAndLearn = !ok
	}

	s.logger.Info("Adding goal",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("kind", draft.Kind.String()),
		zap.Int("priority", priority),
		zap.Bool("track_and_learn", trackAndLearn),
	)

	existing, err := s.goals.FindByIdentity(ctx, cmd.UserID, draft.Kind.Identity())
	if err != nil && err != goal.ErrGoalNotFound {
		return nil, errors.NewDatabaseError("find goal by identity", err)
	}

	var saved *goal.Goal
	if existing != nil {
		observed := existing.Version()
		if err := existing.Reprioritize(priority); err != nil {
			return nil, errors.NewInvalidPriorityError(priority, goal.MinPriority, goal.MaxPriority)
		}
		// A re-added goal picks up the current template or proxy table,
		// not the fragment it was stored with.
		existing.ReplaceConstraints(fragment, trackAndLearn)
		if err := s.goals.UpdateWithVersion(ctx, existing, observed); err != nil {
			if err == goal.ErrVersionMismatch {
				return nil, errors.NewConcurrentModificationError("goal set")
			}
			return nil, errors.NewDatabaseError("update goal", err)
		}
		saved = existing
	} else {
		count, err := s.goals.CountActive(ctx, cmd.UserID)
		if err != nil {
			return nil, errors.NewDatabaseError("count active goals", err)
		}
		if count >= s.cfg.MaxActiveGoals {
			return nil, errors.NewGoalLimitExceededError(s.cfg.MaxActiveGoals)
		}

		created, err := goal.NewGoal(cmd.UserID, draft.Kind, priority, fragment, trackAndLearn)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if err := s.goals.Create(ctx, created); err != nil {
			return nil, errors.NewDatabaseError("create goal", err)
		}
		saved = created
	}

	if err := s.invalidate(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	dto := toDTO(saved)
	return &dto, nil
}

// UpdatePriorities applies a batch of priority changes atomically.
func (s *Service) UpdatePriorities(ctx context.Context, cmd inbound.UpdatePrioritiesCommand) error {
	if len(cmd.Updates) == 0 {
		return errors.NewValidationError("at least one priority update is required")
	}
	// Validate everything before writing anything.
	for _, u := range cmd.Updates {
		if err := goal.ValidatePriority(u.Priority); err != nil {
			return errors.NewInvalidPriorityError(u.Priority, goal.MinPriority, goal.MaxPriority)
		}
	}

	versioned := make([]outbound.VersionedPriorityUpdate, 0, len(cmd.Updates))
	for _, u := range cmd.Updates {
		g, err := s.goals.FindByID(ctx, cmd.UserID, u.GoalID)
		if err != nil {
			if err == goal.ErrGoalNotFound {
				return errors.NewGoalNotFoundError(u.GoalID.String())
			}
			return errors.NewDatabaseError("find goal", err)
		}
		versioned = append(versioned, outbound.VersionedPriorityUpdate{
			GoalID:          u.GoalID,
			Priority:        u.Priority,
			ExpectedVersion: g.Version(),
		})
	}

	if err := s.goals.UpdatePriorities(ctx, cmd.UserID, versioned); err != nil {
		switch err {
		case goal.ErrGoalNotFound:
			return errors.NewGoalNotFoundError("")
		case goal.ErrVersionMismatch:
			return errors.NewConcurrentModificationError("goal set")
		default:
			return errors.NewDatabaseError("update priorities", err)
		}
	}

	return s.invalidate(ctx, cmd.UserID)
}

// RemoveGoal deletes a goal and invalidates the user's merged constraints.
func (s *Service) RemoveGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	g, err := s.goals.FindByID(ctx, userID, goalID)
	if err != nil {
		if err == goal.ErrGoalNotFound {
			return errors.NewGoalNotFoundError(goalID.String())
		}
		return errors.NewDatabaseError("find goal", err)
	}

	if err := s.goals.Delete(ctx, userID, goalID); err != nil {
		if err == goal.ErrGoalNotFound {
			return errors.NewGoalNotFoundError(goalID.String())
		}
		return errors.NewDatabaseError("delete goal", err)
	}

	g.Remove()
	for _, ev := range g.Events() {
		s.logger.Info("Goal removed",
			zap.String("event", ev.EventName()),
			zap.String("user_id", userID.String()),
			zap.String("goal_id", goalID.String()),
			zap.String("name", g.Kind().Name()),
		)
	}

	return s.invalidate(ctx, userID)
}

// ActiveGoals lists the user's goals ordered by priority then creation time.
func (s *Service) ActiveGoals(ctx context.Context, userID uuid.UUID) ([]inbound.GoalDTO, error) {
	active, err := s.goals.ListActive(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list goals", err)
	}

	dtos := make([]inbound.GoalDTO, len(active))
	for i, g := range active {
		dtos[i] = toDTO(g)
	}
	return dtos, nil
}

// MergedConstraints returns the user's resolved constraint set, recomputing
// it when a goal mutation invalidated the cached value or the profile's
// hard restrictions changed underneath it. Profile restrictions mutate
// outside the goal paths, so staleness is detected per read rather than
// by invalidation.
func (s *Service) MergedConstraints(ctx context.Context, userID uuid.UUID) (*constraint.Set, error) {
	restrictions, err := s.profile.HardRestrictions(ctx, userID)
	if err != nil {
		return nil, errors.NewExternalServiceError("user profile", err)
	}

	if cached, ok, err := s.cache.Get(ctx, userID); err == nil && ok {
		if equalItems(cached.ProfileExcludedItems(), restrictions.Items()) {
			return cached, nil
		}
	} else if err != nil {
		s.logger.Warn("constraint cache read failed", zap.Error(err))
	}

	active, err := s.goals.ListActive(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list goals", err)
	}

	inputs := make([]constraint.GoalInput, 0, len(active))
	for _, g := range active {
		in := g.MergeInput()
		if g.Kind().IsCustom() && g.TrackAndLearn() {
			in.Fragment.EmphasizedFoods = append(in.Fragment.EmphasizedFoods,
				s.learnedEmphasis(ctx, userID, g.Kind().Label())...)
		}
		inputs = append(inputs, in)
	}

	set := constraint.Merge(inputs, restrictions)

	if err := s.cache.Set(ctx, userID, set); err != nil {
		s.logger.Warn("constraint cache write failed", zap.Error(err))
	}
	return set, nil
}

// learnedEmphasis promotes tags the feedback learner has weighted above the
// threshold into emphasis signals, sorted for merge determinism.
func (s *Service) learnedEmphasis(ctx context.Context, userID uuid.UUID, label string) []string {
	weights, err := s.proxyWeights.Weights(ctx, userID, label)
	if err != nil {
		s.logger.Warn("proxy weight lookup failed",
			zap.String("label", label),
			zap.Error(err),
		)
		return nil
	}

	var tags []string
	for tag, w := range weights {
		if w >= s.cfg.LearnedThreshold {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// InvalidateConstraints drops the user's cached merged set on behalf of
// collaborators whose inputs feed the merge, such as the feedback learner.
func (s *Service) InvalidateConstraints(ctx context.Context, userID uuid.UUID) error {
	return s.invalidate(ctx, userID)
}

// invalidate drops the cached merged set synchronously so no caller ever
// observes a stale set after a successful mutation.
func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Error("constraint cache invalidation failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return errors.Wrap(err, "invalidate merged constraints")
	}
	return nil
}

// equalItems compares two sorted string slices, treating nil and empty
// as equal.
func equalItems(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toDTO(g *goal.Goal) inbound.GoalDTO {
	dto := inbound.GoalDTO{
		ID:            g.ID(),
		Name:          g.Kind().Name(),
		Priority:      g.Priority(),
		Constraints:   g.Constraints(),
		TrackAndLearn: g.TrackAndLearn(),
		Version:       g.Version(),
		CreatedAt:     g.CreatedAt(),
		UpdatedAt:     g.UpdatedAt(),
	}
	if g.Kind().IsCustom() {
		dto.Kind = "custom"
		dto.CustomLabel = g.Kind().Label()
	} else {
		dto.Kind = "standard"
		dto.StandardType = string(g.Kind().Standard())
	}
	return dto
}
