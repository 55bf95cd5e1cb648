// Package errors provides structured error handling for the application
// Following enterprise patterns for error management and observability
package errors

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Business logic errors
	CodeInvalidPriority              ErrorCode = "INVALID_PRIORITY"
	CodeGoalLimitExceeded            ErrorCode = "GOAL_LIMIT_EXCEEDED"
	CodeGoalNotFound                 ErrorCode = "GOAL_NOT_FOUND"
	CodeRecipeNotFound               ErrorCode = "RECIPE_NOT_FOUND"
	CodeUserNotFound                 ErrorCode = "USER_NOT_FOUND"
	CodeConcurrentModification       ErrorCode = "CONCURRENT_MODIFICATION"
	CodeUnsatisfiableHardConstraints ErrorCode = "UNSATISFIABLE_HARD_CONSTRAINTS"
	CodePartialPlan                  ErrorCode = "PARTIAL_PLAN"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeInvalidPriority:
		return http.StatusBadRequest
	case CodeNotFound, CodeGoalNotFound, CodeRecipeNotFound, CodeUserNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrentModification:
		return http.StatusConflict
	case CodeGoalLimitExceeded, CodeUnsatisfiableHardConstraints:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodePartialPlan:
		return http.StatusPartialContent
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", strings.Title(resource))
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewExternalServiceError creates an external service error
func NewExternalServiceError(service string, cause error) *AppError {
	return NewAppError(
		CodeExternalServiceError,
		"External service error",
		fmt.Sprintf("Failed to communicate with %s", service),
	).WithCause(cause)
}

// Business domain specific errors

// NewInvalidPriorityError creates an invalid priority error
func NewInvalidPriorityError(priority, min, max int) *AppError {
	return NewAppError(
		CodeInvalidPriority,
		"Invalid goal priority",
		fmt.Sprintf("Priority %d is outside the allowed range [%d, %d]", priority, min, max),
	).WithMetadata("priority", priority)
}

// NewGoalLimitExceededError creates a goal limit exceeded error
func NewGoalLimitExceededError(limit int) *AppError {
	return NewAppError(
		CodeGoalLimitExceeded,
		"Goal limit exceeded",
		fmt.Sprintf("A user may hold at most %d active goals", limit),
	).WithMetadata("limit", limit)
}

// NewGoalNotFoundError creates a goal not found error
func NewGoalNotFoundError(goalID string) *AppError {
	return NewAppError(
		CodeGoalNotFound,
		"Goal not found",
		fmt.Sprintf("Goal with ID %s does not exist", goalID),
	).WithMetadata("goal_id", goalID)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(userID string) *AppError {
	return NewAppError(
		CodeUserNotFound,
		"User not found",
		fmt.Sprintf("User with ID %s does not exist", userID),
	).WithMetadata("user_id", userID)
}

// NewConcurrentModificationError creates a concurrent modification error
// surfaced when an optimistic version check fails. The caller must retry;
// the write is never applied over the newer state.
func NewConcurrentModificationError(resource string) *AppError {
	return NewAppError(
		CodeConcurrentModification,
		"Concurrent modification detected",
		fmt.Sprintf("The %s was modified by another operation; retry with fresh state", resource),
	).WithMetadata("resource", resource)
}

// NewUnsatisfiableHardConstraintsError creates an error for plan requests
// whose hard exclusions leave zero candidate recipes. The offending goals
// are named so the user can relax one.
func NewUnsatisfiableHardConstraintsError(goals []string) *AppError {
	return NewAppError(
		CodeUnsatisfiableHardConstraints,
		"Hard constraints cannot be satisfied",
		fmt.Sprintf("No recipe satisfies the hard exclusions from: %s", strings.Join(goals, ", ")),
	).WithMetadata("goals", goals)
}

// NewPartialPlanError creates an error for plans with unfilled slots after
// soft relaxation was exhausted. The partial plan travels alongside this error.
func NewPartialPlanError(unfilled []string) *AppError {
	return NewAppError(
		CodePartialPlan,
		"Plan is incomplete",
		fmt.Sprintf("No eligible recipe for slots: %s", strings.Join(unfilled, ", ")),
	).WithMetadata("unfilled_slots", unfilled)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}
