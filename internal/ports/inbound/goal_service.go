// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/google/uuid"
)

// GoalService defines the use cases for goal management
// This is the primary port that HTTP handlers and other driving adapters will use
type GoalService interface {
	// Commands - operations that modify state
	AddGoal(ctx context.Context, cmd AddGoalCommand) (*GoalDTO, error)
	UpdatePriorities(ctx context.Context, cmd UpdatePrioritiesCommand) error
	RemoveGoal(ctx context.Context, userID, goalID uuid.UUID) error

	// InvalidateConstraints drops the user's cached merged set so the
	// next MergedConstraints call recomputes it. Callers use this when
	// an input outside goal mutations changes, such as learned weights.
	InvalidateConstraints(ctx context.Context, userID uuid.UUID) error

	// Queries - operations that read state
	ActiveGoals(ctx context.Context, userID uuid.UUID) ([]GoalDTO, error)
	MergedConstraints(ctx context.Context, userID uuid.UUID) (*constraint.Set, error)
}

// AddGoalCommand contains data for declaring a goal. Priority defaults to
// the middle of the range when omitted.
type AddGoalCommand struct {
	UserID   uuid.UUID
	GoalText string
	Priority *int
}

// PriorityUpdate pairs one goal with its new priority.
type PriorityUpdate struct {
	GoalID   uuid.UUID
	Priority int
}

// UpdatePrioritiesCommand applies a batch of priority changes atomically:
// all updates succeed or none do.
type UpdatePrioritiesCommand struct {
	UserID  uuid.UUID
	Updates []PriorityUpdate
}

// GoalDTO is the transport view of a goal.
type GoalDTO struct {
	ID            uuid.UUID           `json:"id"`
	Kind          string              `json:"kind"` // "standard" or "custom"
	StandardType  string              `json:"standard_type,omitempty"`
	CustomLabel   string              `json:"custom_label,omitempty"`
	Name          string              `json:"name"`
	Priority      int                 `json:"priority"`
	Constraints   constraint.Fragment `json:"constraints"`
	TrackAndLearn bool                `json:"track_and_learn"`
	Version       int64               `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
