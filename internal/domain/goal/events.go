package goal

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the goal domain

// GoalAddedEvent is raised when a goal becomes active
type GoalAddedEvent struct {
	GoalID   uuid.UUID
	UserID   uuid.UUID
	Identity string
	Priority int
	AddedAt  time.Time
}

func (e GoalAddedEvent) EventName() string {
	return "goal.added"
}

func (e GoalAddedEvent) OccurredAt() time.Time {
	return e.AddedAt
}

// GoalReprioritizedEvent is raised when a goal's priority changes
type GoalReprioritizedEvent struct {
	GoalID          uuid.UUID
	UserID          uuid.UUID
	OldPriority     int
	NewPriority     int
	ReprioritizedAt time.Time
}

func (e GoalReprioritizedEvent) EventName() string {
	return "goal.reprioritized"
}

func (e GoalReprioritizedEvent) OccurredAt() time.Time {
	return e.ReprioritizedAt
}

// GoalRemovedEvent is raised when a goal is explicitly removed
type GoalRemovedEvent struct {
	GoalID    uuid.UUID
	UserID    uuid.UUID
	RemovedAt time.Time
}

func (e GoalRemovedEvent) EventName() string {
	return "goal.removed"
}

func (e GoalRemovedEvent) OccurredAt() time.Time {
	return e.RemovedAt
}
