package goal

import "errors"

// Domain errors for goal operations

var (
	// Entity validation errors
	ErrPriorityOutOfRange = errors.New("goal priority must be between 1 and 4")
	ErrEmptyCustomLabel   = errors.New("custom goal label must not be empty")

	// Business rule violations
	ErrGoalLimitExceeded = errors.New("active goal limit exceeded")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrVersionMismatch   = errors.New("goal version mismatch")
)
