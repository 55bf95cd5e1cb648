// Package goal contains the goal aggregate and the two pure translation
// steps that turn raw user input into constraint contributions: the
// free-text interpreter and the custom-goal proxy mapper.
package goal

import (
	"time"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/domain/shared"
	"github.com/google/uuid"
)

// Priority bounds and the active-goal cap per user.
const (
	MinPriority     = 1
	MaxPriority     = 4
	DefaultPriority = 2
	MaxActiveGoals  = 6
)

// Goal is the aggregate root for one declared nutrition goal.
type Goal struct {
	id            uuid.UUID
	userID        uuid.UUID
	kind          Kind
	priority      int
	constraints   constraint.Fragment
	trackAndLearn bool
	version       int64 // Optimistic locking
	createdAt     time.Time
	updatedAt     time.Time

	events []shared.DomainEvent
}

// NewGoal creates an active goal with validation.
func NewGoal(userID uuid.UUID, kind Kind, priority int, fragment constraint.Fragment, trackAndLearn bool) (*Goal, error) {
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}
	if kind.IsCustom() && kind.Label() == "" {
		return nil, ErrEmptyCustomLabel
	}

	now := time.Now()
	g := &Goal{
		id:            uuid.New(),
		userID:        userID,
		kind:          kind,
		priority:      priority,
		constraints:   fragment.Clone(),
		trackAndLearn: trackAndLearn,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}

	g.addEvent(GoalAddedEvent{
		GoalID:   g.id,
		UserID:   userID,
		Identity: kind.Identity(),
		Priority: priority,
		AddedAt:  now,
	})

	return g, nil
}

// Reconstruct rebuilds a goal from persisted state without raising events.
func Reconstruct(
	id, userID uuid.UUID,
	kind Kind,
	priority int,
	fragment constraint.Fragment,
	trackAndLearn bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Goal {
	return &Goal{
		id:            id,
		userID:        userID,
		kind:          kind,
		priority:      priority,
		constraints:   fragment.Clone(),
		trackAndLearn: trackAndLearn,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the goal's unique identifier
func (g *Goal) ID() uuid.UUID {
	return g.id
}

// UserID returns the owning user's identifier
func (g *Goal) UserID() uuid.UUID {
	return g.userID
}

// Kind returns the goal's tagged kind
func (g *Goal) Kind() Kind {
	return g.kind
}

// Priority returns the goal's priority within [MinPriority, MaxPriority]
func (g *Goal) Priority() int {
	return g.priority
}

// Constraints returns the goal's constraint fragment
func (g *Goal) Constraints() constraint.Fragment {
	return g.constraints.Clone()
}

// TrackAndLearn reports whether the goal has no curated proxy mapping and
// is scored neutrally until rating feedback accumulates.
func (g *Goal) TrackAndLearn() bool {
	return g.trackAndLearn
}

// Version returns the goal's optimistic-locking version
func (g *Goal) Version() int64 {
	return g.version
}

// CreatedAt returns when the goal was declared
func (g *Goal) CreatedAt() time.Time {
	return g.createdAt
}

// UpdatedAt returns when the goal was last modified
func (g *Goal) UpdatedAt() time.Time {
	return g.updatedAt
}

// Reprioritize mutates the goal's priority in place and bumps the version
// stamp. The stored version check happens in the repository.
func (g *Goal) Reprioritize(priority int) error {
	if err := ValidatePriority(priority); err != nil {
		return err
	}

	old := g.priority
	g.priority = priority
	g.version++
	g.updatedAt = time.Now()

	g.addEvent(GoalReprioritizedEvent{
		GoalID:          g.id,
		UserID:          g.userID,
		OldPriority:     old,
		NewPriority:     priority,
		ReprioritizedAt: g.updatedAt,
	})

	return nil
}

// Remove raises the removal event. The actual delete belongs to the
// repository; calling this first keeps the event on the aggregate.
func (g *Goal) Remove() {
	g.addEvent(GoalRemovedEvent{
		GoalID:    g.id,
		UserID:    g.userID,
		RemovedAt: time.Now(),
	})
}

// ReplaceConstraints swaps the goal's fragment, used when a re-added goal
// carries a refreshed template or learned proxy weights.
func (g *Goal) ReplaceConstraints(fragment constraint.Fragment, trackAndLearn bool) {
	g.constraints = fragment.Clone()
	g.trackAndLearn = trackAndLearn
	g.version++
	g.updatedAt = time.Now()
}

// MergeInput converts the goal into the merger's value-level view.
func (g *Goal) MergeInput() constraint.GoalInput {
	return constraint.GoalInput{
		ID:        g.id,
		Name:      g.kind.Name(),
		Priority:  g.priority,
		CreatedAt: g.createdAt,
		Fragment:  g.constraints.Clone(),
	}
}

// addEvent adds a domain event to be dispatched
func (g *Goal) addEvent(event shared.DomainEvent) {
	g.events = append(g.events, event)
}

// Events returns and clears pending domain events
func (g *Goal) Events() []shared.DomainEvent {
	events := g.events
	g.events = nil
	return events
}

// ValidatePriority checks the [MinPriority, MaxPriority] invariant.
func ValidatePriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return ErrPriorityOutOfRange
	}
	return nil
}
