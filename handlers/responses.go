package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"prode-app-go/logging"
	"prode-app-go/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// apiLogger is resolved per call so it follows logging.Configure
func apiLogger() *logging.Logger { return logging.WithPrefix("api") }

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		apiLogger().Errorf("Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps domain errors to status codes. Unknown errors
// are logged and reported without detail.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapServiceError(err)
	if status == http.StatusInternalServerError {
		apiLogger().Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		apiLogger().Debugf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	respondError(w, status, message)
}

func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, models.ErrNotMember):
		return http.StatusForbidden, "Join the competition first"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "Not allowed"
	case errors.Is(err, models.ErrBettingClosed):
		return http.StatusConflict, "Betting is closed for this game"
	case errors.Is(err, models.ErrAlreadyExists):
		return http.StatusConflict, "Already exists"
	case errors.Is(err, models.ErrInvalidResult):
		return http.StatusBadRequest, "Scores must be zero or more"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	if err := GetValidator().ValidateStruct(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Validation failed",
			Fields: FormatValidationError(err),
		})
		return false
	}
	return true
}
