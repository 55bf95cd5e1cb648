// Package memory provides in-memory implementations of the outbound ports,
// used in development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goalplate/v1/internal/domain/goal"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
)

// GoalRepository implements an in-memory goal repository with per-goal
// optimistic versioning. Entities are cloned at the boundary so callers
// never share mutable state with the store.
type GoalRepository struct {
	byUser map[uuid.UUID]map[uuid.UUID]*goal.Goal
	mutex  sync.RWMutex
}

// NewGoalRepository creates a new in-memory goal repository.
func NewGoalRepository() *GoalRepository {
	return &GoalRepository{
		byUser: make(map[uuid.UUID]map[uuid.UUID]*goal.Goal),
	}
}

var _ outbound.GoalRepository = (*GoalRepository)(nil)

// Create stores a new goal.
func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	userGoals := r.byUser[g.UserID()]
	if userGoals == nil {
		userGoals = make(map[uuid.UUID]*goal.Goal)
		r.byUser[g.UserID()] = userGoals
	}
	userGoals[g.ID()] = cloneGoal(g)
	return nil
}

// Delete removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	userGoals := r.byUser[userID]
	if _, ok := userGoals[goalID]; !ok {
		return goal.ErrGoalNotFound
	}
	delete(userGoals, goalID)
	return nil
}

// FindByID returns a goal by id.
func (r *GoalRepository) FindByID(ctx context.Context, userID, goalID uuid.UUID) (*goal.Goal, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	g, ok := r.byUser[userID][goalID]
	if !ok {
		return nil, goal.ErrGoalNotFound
	}
	return cloneGoal(g), nil
}

// FindByIdentity returns the goal matching the uniqueness key, if any.
func (r *GoalRepository) FindByIdentity(ctx context.Context, userID uuid.UUID, identity string) (*goal.Goal, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, g := range r.byUser[userID] {
		if g.Kind().Identity() == identity {
			return cloneGoal(g), nil
		}
	}
	return nil, goal.ErrGoalNotFound
}

// ListActive returns the user's goals by priority (desc) then created_at.
func (r *GoalRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*goal.Goal, 0, len(r.byUser[userID]))
	for _, g := range r.byUser[userID] {
		out = append(out, cloneGoal(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority() != out[j].Priority() {
			return out[i].Priority() > out[j].Priority()
		}
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().Before(out[j].CreatedAt())
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out, nil
}

// CountActive returns the user's active goal count.
func (r *GoalRepository) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.byUser[userID]), nil
}

// UpdateWithVersion replaces a goal only when the stored version matches
// the version the caller observed before mutating.
func (r *GoalRepository) UpdateWithVersion(ctx context.Context, g *goal.Goal, expectedVersion int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.byUser[g.UserID()][g.ID()]
	if !ok {
		return goal.ErrGoalNotFound
	}
	if stored.Version() != expectedVersion {
		return goal.ErrVersionMismatch
	}
	r.byUser[g.UserID()][g.ID()] = cloneGoal(g)
	return nil
}

// UpdatePriorities applies all updates or none: every goal must exist and
// every observed version must still match before anything is written.
func (r *GoalRepository) UpdatePriorities(ctx context.Context, userID uuid.UUID, updates []outbound.VersionedPriorityUpdate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	userGoals := r.byUser[userID]
	for _, u := range updates {
		stored, ok := userGoals[u.GoalID]
		if !ok {
			return goal.ErrGoalNotFound
		}
		if stored.Version() != u.ExpectedVersion {
			return goal.ErrVersionMismatch
		}
	}

	for _, u := range updates {
		updated := cloneGoal(userGoals[u.GoalID])
		if err := updated.Reprioritize(u.Priority); err != nil {
			return err
		}
		updated.Events() // events are the service's concern, drop them here
		userGoals[u.GoalID] = updated
	}
	return nil
}

func cloneGoal(g *goal.Goal) *goal.Goal {
	return goal.Reconstruct(
		g.ID(), g.UserID(), g.Kind(), g.Priority(), g.Constraints(),
		g.TrackAndLearn(), g.Version(), g.CreatedAt(), g.UpdatedAt(),
	)
}
