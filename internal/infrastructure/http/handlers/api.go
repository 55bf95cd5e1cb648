// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goalplate/v1/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// validate is shared across handlers; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError maps an application error to its HTTP representation.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		logger.Error("Unhandled error", zap.Error(err))
		writeJSON(w, logger, http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   "internal server error",
			Code:    string(errors.CodeInternal),
		})
		return
	}

	writeJSON(w, logger, appErr.StatusCode(), APIResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Message: appErr.Details,
	})
}

// pathUUID parses a UUID URL parameter, failing with a validation error.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewValidationError(name + " must be a valid UUID")
	}
	return id, nil
}

// decodeBody decodes and validates a JSON request body.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationError("request body is not valid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
