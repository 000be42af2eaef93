package utils

import (
	"encoding/json"
	"net/http"

	"github.com/moodlens/moodlens/backend/pkg/logger"
)

// RespondJSON writes payload as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Component("http").WithError(err).Error("failed to encode response")
	}
}

// RespondError writes a JSON error body with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}
