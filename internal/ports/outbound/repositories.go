// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/goal"
	"github.com/goalplate/v1/internal/domain/recipe"
	"github.com/google/uuid"
)

// GoalRepository persists per-user goal sets. Implementations guard
// mutations with optimistic versioning: a stale expected version fails
// with goal.ErrVersionMismatch and the caller retries, never overwriting
// newer state silently.
type GoalRepository interface {
	// Basic operations
	Create(ctx context.Context, g *goal.Goal) error
	Delete(ctx context.Context, userID, goalID uuid.UUID) error
	FindByID(ctx context.Context, userID, goalID uuid.UUID) (*goal.Goal, error)
	FindByIdentity(ctx context.Context, userID uuid.UUID, identity string) (*goal.Goal, error)

	// ListActive returns the user's active goals ordered by priority
	// (descending) then creation time.
	ListActive(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)

	// Optimistic locking
	UpdateWithVersion(ctx context.Context, g *goal.Goal, expectedVersion int64) error

	// UpdatePriorities applies all updates atomically; any unknown goal
	// or stale version aborts the whole batch.
	UpdatePriorities(ctx context.Context, userID uuid.UUID, updates []VersionedPriorityUpdate) error
}

// VersionedPriorityUpdate is one entry of an atomic priority batch.
type VersionedPriorityUpdate struct {
	GoalID          uuid.UUID
	Priority        int
	ExpectedVersion int64
}

// RecipeCorpus is the only source of candidate meals, assumed to support
// filtering by tag, cost and prep range.
type RecipeCorpus interface {
	Query(ctx context.Context, q recipe.Query) ([]recipe.Candidate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Candidate, error)
}

// ConstraintCache caches the merged constraint set per user. Invalidation
// happens synchronously within the same logical transaction as any goal
// mutation: a caller never observes a stale set after a mutation returns.
type ConstraintCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*constraint.Set, bool, error)
	Set(ctx context.Context, userID uuid.UUID, set *constraint.Set) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// ProfileService exposes the personalization collaborator's hard
// restrictions, folded into every merge as unconditional hard constraints.
type ProfileService interface {
	HardRestrictions(ctx context.Context, userID uuid.UUID) (constraint.HardRestrictions, error)
}

// ProxyWeightStore holds the learned per-user emphasis weights for custom
// goal labels, adjusted over time by the feedback learner.
type ProxyWeightStore interface {
	// Weights returns tag -> weight for one user's custom goal label.
	Weights(ctx context.Context, userID uuid.UUID, label string) (map[string]float64, error)
	SetWeight(ctx context.Context, userID uuid.UUID, label, tag string, weight float64) error
}
