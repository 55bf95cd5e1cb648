package handlers

import (
	"net/http"

	"github.com/goalplate/v1/internal/ports/inbound"
	"github.com/goalplate/v1/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanHandlers handles plan generation and rating requests
type PlanHandlers struct {
	planService inbound.PlanService
	logger      *zap.Logger
}

// NewPlanHandlers creates a new plan handlers instance
func NewPlanHandlers(planService inbound.PlanService, logger *zap.Logger) *PlanHandlers {
	return &PlanHandlers{
		planService: planService,
		logger:      logger,
	}
}

type generatePlanRequest struct {
	Days             int         `json:"days" validate:"required,min=1,max=14"`
	ExcludeRecipeIDs []uuid.UUID `json:"exclude_recipe_ids,omitempty"`
}

type submitRatingRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" validate:"required"`
	Rating   int       `json:"rating" validate:"required,min=1,max=5"`
}

// GeneratePlan handles POST /api/v1/users/{userID}/plans
func (h *PlanHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req generatePlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	mealPlan, err := h.planService.GeneratePlan(r.Context(), inbound.GeneratePlanCommand{
		UserID:           userID,
		Days:             req.Days,
		ExcludeRecipeIDs: req.ExcludeRecipeIDs,
	})
	if err != nil {
		// A partial plan still ships with its unfilled slots declared.
		if mealPlan != nil && errors.GetCode(err) == errors.CodePartialPlan {
			appErr := err.(*errors.AppError)
			writeJSON(w, h.logger, http.StatusPartialContent, APIResponse{
				Success: true,
				Data:    mealPlan,
				Code:    string(errors.CodePartialPlan),
				Message: appErr.Details,
			})
			return
		}
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    mealPlan,
		Message: "Plan generated successfully",
	})
}

// SubmitRating handles POST /api/v1/users/{userID}/ratings
func (h *PlanHandlers) SubmitRating(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req submitRatingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	err = h.planService.SubmitRating(r.Context(), inbound.SubmitRatingCommand{
		UserID:   userID,
		RecipeID: req.RecipeID,
		Rating:   req.Rating,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusAccepted, APIResponse{
		Success: true,
		Message: "Rating recorded successfully",
	})
}
