package handlers

import (
	"net/http"

	"github.com/goalplate/v1/internal/ports/inbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GoalHandlers handles goal management requests
type GoalHandlers struct {
	goalService inbound.GoalService
	logger      *zap.Logger
}

// NewGoalHandlers creates a new goal handlers instance
func NewGoalHandlers(goalService inbound.GoalService, logger *zap.Logger) *GoalHandlers {
	return &GoalHandlers{
		goalService: goalService,
		logger:      logger,
	}
}

type addGoalRequest struct {
	GoalText string `json:"goal_text" validate:"required,max=255"`
	Priority *int   `json:"priority,omitempty" validate:"omitempty,min=1,max=4"`
}

type priorityUpdateRequest struct {
	GoalID   uuid.UUID `json:"goal_id" validate:"required"`
	Priority int       `json:"priority" validate:"required,min=1,max=4"`
}

type updatePrioritiesRequest struct {
	Updates []priorityUpdateRequest `json:"updates" validate:"required,min=1,dive"`
}

// AddGoal handles POST /api/v1/users/{userID}/goals
func (h *GoalHandlers) AddGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req addGoalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	dto, err := h.goalService.AddGoal(r.Context(), inbound.AddGoalCommand{
		UserID:   userID,
		GoalText: req.GoalText,
		Priority: req.Priority,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    dto,
		Message: "Goal added successfully",
	})
}

// UpdatePriorities handles PUT /api/v1/users/{userID}/goals/priorities
func (h *GoalHandlers) UpdatePriorities(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req updatePrioritiesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	updates := make([]inbound.PriorityUpdate, len(req.Updates))
	for i, u := range req.Updates {
		updates[i] = inbound.PriorityUpdate{GoalID: u.GoalID, Priority: u.Priority}
	}

	err = h.goalService.UpdatePriorities(r.Context(), inbound.UpdatePrioritiesCommand{
		UserID:  userID,
		Updates: updates,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Message: "Priorities updated successfully",
	})
}

// RemoveGoal handles DELETE /api/v1/users/{userID}/goals/{goalID}
func (h *GoalHandlers) RemoveGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	goalID, err := pathUUID(r, "goalID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.goalService.RemoveGoal(r.Context(), userID, goalID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Message: "Goal removed successfully",
	})
}

// ListGoals handles GET /api/v1/users/{userID}/goals
func (h *GoalHandlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	goals, err := h.goalService.ActiveGoals(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    goals,
		Message: "Goals retrieved successfully",
	})
}

// GetConstraints handles GET /api/v1/users/{userID}/constraints
func (h *GoalHandlers) GetConstraints(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	set, err := h.goalService.MergedConstraints(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    set,
		Message: "Constraints retrieved successfully",
	})
}
