// Package web holds the JSON request and response helpers shared by handlers.
package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// JSON writes data as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// The status line is already out; an encode failure can only be dropped.
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// ValidationFailed writes a 422 response listing every field problem.
func ValidationFailed(w http.ResponseWriter, err *ValidationError) {
	JSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "Validation failed",
		Details: err.Problems,
	})
}
